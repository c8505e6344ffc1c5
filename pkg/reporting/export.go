package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/admitdesk/backoffice/pkg/dates"
	"github.com/admitdesk/backoffice/pkg/lead"
	"github.com/admitdesk/backoffice/pkg/metrics"
	"github.com/admitdesk/backoffice/pkg/phone"
)

// Exporter writes lead lists to .xlsx files for offline work and hand-off to
// management.
type Exporter struct {
	dir     string
	phones  *phone.Validator
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewExporter creates an exporter writing into dir, creating it if needed.
func NewExporter(dir string, phones *phone.Validator, m *metrics.Metrics) (*Exporter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	return &Exporter{dir: dir, phones: phones, metrics: m, now: time.Now}, nil
}

var exportHeaders = []string{
	"Lead ID", "Name", "Phone", "Email", "Interested Course",
	"Source", "Status", "Assigned To", "Next Follow-Up", "Last Note",
}

// ExportLeads writes one sheet of leads and returns the file path. Phone
// numbers are normalized to E.164 so the file imports cleanly elsewhere.
func (e *Exporter) ExportLeads(leads []lead.Lead, label string) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Leads"
	f.SetSheetName(f.GetSheetName(0), sheet)

	for col, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return "", fmt.Errorf("failed to build header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return "", fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, l := range leads {
		lastNote := ""
		if fu := l.LatestFollowUp(); fu != nil {
			lastNote = fu.Note
		}
		values := []any{
			l.LeadID,
			l.Name,
			e.phones.Normalize(l.Phone),
			l.Email,
			l.InterestedCourse,
			l.Source,
			string(l.Status),
			l.AssignedTo,
			dates.Normalize(l.NextFollowUpDate),
			lastNote,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return "", fmt.Errorf("failed to build cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return "", fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", "J", 20); err != nil {
		return "", fmt.Errorf("failed to set column widths: %w", err)
	}

	name := fmt.Sprintf("leads_%s_%s.xlsx", sanitizeLabel(label), e.now().Format("20060102_150405"))
	path := filepath.Join(e.dir, name)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save export: %w", err)
	}

	e.metrics.RecordExportCreated()
	return path, nil
}

func sanitizeLabel(label string) string {
	label = strings.TrimSpace(strings.ToLower(label))
	if label == "" {
		return "all"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, label)
}
