package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"
)

// Export is a rendered report payload plus the transport metadata the
// handler should suggest. The core never sets headers itself.
type Export struct {
	Data        []byte
	ContentType string
	Filename    string
}

var csvHeader = []string{
	"id", "subject", "description", "status", "submissionType",
	"userId", "userName", "userEmail", "mediaUrl", "createdAt", "updatedAt",
}

// RenderCSV serializes rows in a fixed column order. Newlines inside
// descriptions collapse to spaces and absent fields render as empty
// strings.
func RenderCSV(rows []Row, now time.Time) (Export, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return Export{}, err
	}
	for i := range rows {
		r := &rows[i]
		rec := []string{
			r.ID,
			r.Subject,
			strings.ReplaceAll(r.Description, "\n", " "),
			r.Status,
			r.SubmissionType,
			r.UserID,
			r.UserName,
			r.UserEmail,
			r.MediaURL,
			r.CreatedAt.Format(time.RFC3339),
			r.UpdatedAt.Format(time.RFC3339),
		}
		if err := w.Write(rec); err != nil {
			return Export{}, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return Export{}, err
	}

	return Export{
		Data:        buf.Bytes(),
		ContentType: "text/csv",
		Filename:    fmt.Sprintf("complaints_%d.csv", now.UnixMilli()),
	}, nil
}
