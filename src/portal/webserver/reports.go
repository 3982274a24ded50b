package webserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/civic-stack/grievance-portal/src/portal/data"
	"github.com/civic-stack/grievance-portal/src/portal/reports"
	"github.com/civic-stack/grievance-portal/src/portal/storage"
)

type Reports struct {
	engine *reports.Engine
	rdb    *redis.Client // nil disables the summary cache
}

func NewReports(engine *reports.Engine, rdb *redis.Client) Reports {
	return Reports{engine: engine, rdb: rdb}
}

// Summary serves the aggregate overview, cached briefly in Redis: the data
// is advisory and recomputing it on every dashboard poll is waste.
func (h Reports) Summary(c *gin.Context) {
	if h.rdb != nil {
		if cached := data.GetCachedSummary(c.Request.Context(), h.rdb); cached != "" {
			c.Data(http.StatusOK, "application/json", []byte(cached))
			return
		}
	}

	summary, err := h.engine.Summarize(time.Now())
	if err != nil {
		writeError(c, err)
		return
	}
	body, err := json.Marshal(summary)
	if err != nil {
		writeError(c, err)
		return
	}
	if h.rdb != nil {
		data.SetCachedSummary(c.Request.Context(), h.rdb, string(body))
	}
	c.Data(http.StatusOK, "application/json", body)
}

func (h Reports) ExportCSV(c *gin.Context) {
	rows, err := h.engine.ExportRows(filterFromQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}
	exp, err := reports.RenderCSV(rows, time.Now())
	if err != nil {
		writeError(c, err)
		return
	}
	serveExport(c, exp)
}

func (h Reports) ExportPDF(c *gin.Context) {
	rows, err := h.engine.ExportRows(filterFromQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}
	limit := 0
	if v := c.Query("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}
	exp, err := reports.RenderPDF(rows, limit, time.Now())
	if err != nil {
		writeError(c, err)
		return
	}
	serveExport(c, exp)
}

func serveExport(c *gin.Context, exp reports.Export) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", exp.Filename))
	c.Data(http.StatusOK, exp.ContentType, exp.Data)
}

func filterFromQuery(c *gin.Context) storage.ComplaintFilter {
	f := storage.ComplaintFilter{Status: c.Query("status")}
	if t, ok := parseDate(c.Query("from")); ok {
		f.DateFrom = &t
	}
	if t, ok := parseDate(c.Query("to")); ok {
		f.DateTo = &t
	}
	return f
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, true
	}
	return time.Time{}, false
}
