package reports

import (
	"sort"
	"time"

	"github.com/civic-stack/grievance-portal/src/portal/storage"
	"github.com/civic-stack/grievance-portal/src/portal/types"
)

// Fixed reporting policy. The 30-day window and top-10 reporter cutoff are
// not caller inputs.
const (
	windowDays   = 30
	topReporters = 10
)

type DayCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

type ReporterCount struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Count  int    `json:"count"`
}

type Summary struct {
	Total            int             `json:"total"`
	ByStatus         map[string]int  `json:"byStatus"`
	BySubmissionType map[string]int  `json:"bySubmissionType"`
	ByDay            []DayCount      `json:"byDay"`
	ByReporter       []ReporterCount `json:"byReporter"`
}

// Row is one export line: a complaint flattened with its owner's minimal
// profile. Both the CSV and PDF renderers consume the same rows so the two
// formats can never disagree.
type Row struct {
	ID             string
	Subject        string
	Description    string
	Status         string
	SubmissionType string
	UserID         string
	UserName       string
	UserEmail      string
	MediaURL       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Engine computes read-only aggregates over the complaint store. It never
// mutates anything, and it offers no cross-field snapshot isolation:
// reports are advisory.
type Engine struct {
	store storage.Storage
}

func NewEngine(store storage.Storage) *Engine {
	return &Engine{store: store}
}

// Summarize builds the operational overview: totals, zero-filled status and
// submission-type breakdowns, a 30-day submission series ending today, and
// the top non-anonymous reporters.
func (e *Engine) Summarize(now time.Time) (*Summary, error) {
	cs, err := e.store.AllComplaints()
	if err != nil {
		return nil, err
	}

	s := &Summary{
		Total: len(cs),
		ByStatus: map[string]int{
			types.StatusPending:    0,
			types.StatusInProgress: 0,
			types.StatusResolved:   0,
		},
		BySubmissionType: map[string]int{
			types.SubmissionPublic:    0,
			types.SubmissionAnonymous: 0,
		},
	}

	// Day buckets, oldest to newest, ending today.
	start := now.AddDate(0, 0, -(windowDays - 1))
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	dayIndex := make(map[string]int, windowDays)
	s.ByDay = make([]DayCount, windowDays)
	for i := 0; i < windowDays; i++ {
		key := start.AddDate(0, 0, i).Format("2006-01-02")
		s.ByDay[i] = DayCount{Date: key}
		dayIndex[key] = i
	}

	reporterCounts := make(map[string]int)
	reporterProfile := make(map[string]*types.User)

	for i := range cs {
		c := &cs[i]
		s.ByStatus[c.Status]++
		s.BySubmissionType[c.SubmissionType]++

		if idx, ok := dayIndex[c.CreatedAt.In(now.Location()).Format("2006-01-02")]; ok {
			s.ByDay[idx].Count++
		}

		if c.UserID != nil {
			reporterCounts[*c.UserID]++
			if c.User != nil {
				reporterProfile[*c.UserID] = c.User
			}
		}
	}

	for id, n := range reporterCounts {
		rc := ReporterCount{UserID: id, Name: "Unknown", Count: n}
		if u := reporterProfile[id]; u != nil {
			rc.Name = u.Name
			rc.Email = u.Email
		}
		s.ByReporter = append(s.ByReporter, rc)
	}
	sort.Slice(s.ByReporter, func(a, b int) bool {
		if s.ByReporter[a].Count != s.ByReporter[b].Count {
			return s.ByReporter[a].Count > s.ByReporter[b].Count
		}
		return s.ByReporter[a].UserID < s.ByReporter[b].UserID
	})
	if len(s.ByReporter) > topReporters {
		s.ByReporter = s.ByReporter[:topReporters]
	}

	return s, nil
}

// ExportRows flattens complaints matching the filter, newest first. The
// result feeds both RenderCSV and RenderPDF.
func (e *Engine) ExportRows(f storage.ComplaintFilter) ([]Row, error) {
	cs, err := e.store.FilterComplaints(f)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(cs))
	for i := range cs {
		c := &cs[i]
		r := Row{
			ID:             c.ID,
			Subject:        c.Subject,
			Description:    c.Description,
			Status:         c.Status,
			SubmissionType: c.SubmissionType,
			MediaURL:       c.MediaURL,
			CreatedAt:      c.CreatedAt,
			UpdatedAt:      c.UpdatedAt,
		}
		if c.User != nil {
			r.UserID = c.User.ID
			r.UserName = c.User.Name
			r.UserEmail = c.User.Email
		} else if c.UserID != nil {
			r.UserID = *c.UserID
		}
		rows = append(rows, r)
	}
	return rows, nil
}
