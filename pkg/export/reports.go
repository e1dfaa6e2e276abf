package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/siamfield/salesflow/internal/models"
)

// Column order mirrors the persisted report layout so exported files line up
// with what managers see in the raw store.
var reportHeaders = []string{"Timestamp", "Sales Rep", "Customer", "Topics Covered", "Status", "Sentiment", "Summary"}

const timestampLayout = "2006-01-02 15:04:05"

func reportRow(r models.VisitReport) []string {
	return []string{
		r.ReportedAt.Format(timestampLayout),
		r.SalesRep,
		r.Customer,
		r.TopicsCovered,
		r.Status,
		string(r.Sentiment),
		r.Summary,
	}
}

// ReportsCSV renders filed visit reports as CSV bytes.
func ReportsCSV(reports []models.VisitReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(reportHeaders); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, r := range reports {
		if err := writer.Write(reportRow(r)); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ReportsPDF renders filed visit reports as a tabular PDF document.
func ReportsPDF(reports []models.VisitReport, title string) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	// Summary gets the widest column; the rest share the remainder.
	widths := []float64{32, 30, 34, 50, 22, 22, 87}

	pdf.SetFont("Arial", "B", 9)
	for i, header := range reportHeaders {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, r := range reports {
		for i, value := range reportRow(r) {
			pdf.CellFormat(widths[i], 7, value, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
