package webserver

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/civic-stack/grievance-portal/src/portal/complaints"
	"github.com/civic-stack/grievance-portal/src/portal/config"
	"github.com/civic-stack/grievance-portal/src/portal/data"
	"github.com/civic-stack/grievance-portal/src/portal/escalation"
	"github.com/civic-stack/grievance-portal/src/portal/media"
	"github.com/civic-stack/grievance-portal/src/portal/notify"
	"github.com/civic-stack/grievance-portal/src/portal/reports"
	"github.com/civic-stack/grievance-portal/src/portal/storage"
)

func attachRoutes(r *gin.Engine, cfg config.Config, store storage.Storage, rdb *redis.Client, notifier notify.Notifier, mediaStore media.Store) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	secret := []byte(cfg.JWTSecret)

	var events escalation.EventPublisher
	if rdb != nil {
		events = data.Events{RDB: rdb}
	}

	complaintSvc := complaints.NewService(store)
	escalationSvc := escalation.NewService(store, notifier, events)
	engine := reports.NewEngine(store)

	complaintsH := NewComplaints(complaintSvc, mediaStore)
	adminH := NewAdmin(complaintSvc, escalationSvc)
	reportsH := NewReports(engine, rdb)

	limiter := NewRateLimiter(cfg.RateLimit, cfg.RateWindow)

	v1 := r.Group("/v1")
	{
		v1.POST("/complaints", OptionalJWT(secret), RateLimitMiddleware(limiter), complaintsH.Submit)

		secured := v1.Group("", JWTMiddleware(secret))
		secured.GET("/complaints", complaintsH.ListMine)
		secured.GET("/complaints/:id", complaintsH.Get)
		secured.GET("/complaints/:id/status", complaintsH.Status)
		secured.GET("/complaints/:id/messages", complaintsH.Messages)
	}

	admin := v1.Group("/admin", JWTMiddleware(secret), RequireAdmin())
	{
		admin.GET("/complaints", adminH.ListAll)
		admin.PUT("/complaints/:id/status", adminH.SetStatus)
		admin.POST("/complaints/:id/messages", adminH.AddMessage)
		admin.POST("/complaints/:id/escalate", adminH.Escalate)
		admin.GET("/escalations", adminH.ListEscalations)

		admin.GET("/reports/summary", reportsH.Summary)
		admin.GET("/reports/export.csv", reportsH.ExportCSV)
		admin.GET("/reports/export.pdf", reportsH.ExportPDF)
	}
}
