package reports

import (
	"bytes"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/jung-kurt/gofpdf/v2"
)

const (
	defaultPDFLimit  = 200
	descriptionLimit = 300
)

// sanitizeTextForPDF converts UTF-8 punctuation to ASCII equivalents so
// gofpdf's core fonts render citizen-entered text without mojibake.
func sanitizeTextForPDF(text string) string {
	if text == "" {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch r {
		case '–': // en dash
			b.WriteString("-")
		case '—': // em dash
			b.WriteString("--")
		case '‘', '’':
			b.WriteString("'")
		case '“', '”':
			b.WriteString("\"")
		case '…':
			b.WriteString("...")
		case ' ':
			b.WriteString(" ")
		case '\u200b', '\u200c', '\u200d', '\ufeff':
			continue
		default:
			if r < 128 {
				b.WriteRune(r)
			} else if unicode.IsSpace(r) {
				b.WriteString(" ")
			} else {
				b.WriteString("?")
			}
		}
	}
	return b.String()
}

// truncateDescription collapses runs of whitespace and caps the text at
// descriptionLimit runes, marking the cut with an ellipsis.
func truncateDescription(text string) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	runes := []rune(collapsed)
	if len(runes) <= descriptionLimit {
		return collapsed
	}
	return string(runes[:descriptionLimit]) + "..."
}

// RenderPDF writes a paginated human-readable report: header, generation
// timestamp, row count, then one short block per row in the order
// supplied. limit <= 0 applies the default cap of 200 rows.
func RenderPDF(rows []Row, limit int, now time.Time) (Export, error) {
	if limit <= 0 {
		limit = defaultPDFLimit
	}
	shown := rows
	if len(shown) > limit {
		shown = shown[:limit]
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "BU", 18)
	pdf.CellFormat(0, 10, "Complaint Report", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, "Generated: "+now.Format("2006-01-02 15:04:05"), "", 1, "R", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 7, fmt.Sprintf("Showing latest %d complaints", len(shown)), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	for i := range shown {
		r := &shown[i]

		name := r.UserName
		if name == "" {
			name = "Anonymous"
		}
		email := r.UserEmail
		if email == "" {
			email = "N/A"
		}

		pdf.SetFont("Arial", "B", 10)
		pdf.SetTextColor(0, 0, 0)
		pdf.MultiCell(0, 5, sanitizeTextForPDF(fmt.Sprintf("%d. [%s] %s", i+1, r.Status, r.Subject)), "", "L", false)

		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(110, 110, 110)
		pdf.MultiCell(0, 4.5, sanitizeTextForPDF(fmt.Sprintf("   By: %s (%s)", name, email)), "", "L", false)

		pdf.SetTextColor(0, 0, 0)
		pdf.MultiCell(0, 4.5, "   Created: "+r.CreatedAt.Format("2006-01-02 15:04:05"), "", "L", false)

		pdf.MultiCell(0, 4.5, sanitizeTextForPDF("   "+truncateDescription(r.Description)), "", "L", false)
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return Export{}, err
	}

	return Export{
		Data:        buf.Bytes(),
		ContentType: "application/pdf",
		Filename:    fmt.Sprintf("complaints_report_%d.pdf", now.UnixMilli()),
	}, nil
}
