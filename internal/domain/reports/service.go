package reports

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) Get(ctx context.Context, reportID string) (Report, error) {
	return s.store.Get(ctx, reportID)
}

func (s *Service) List(ctx context.Context, employeeID, reportType string, limit, offset int) ([]Report, error) {
	return s.store.List(ctx, employeeID, reportType, limit, offset)
}

func (s *Service) Create(ctx context.Context, draft Draft) (string, error) {
	return s.store.Create(ctx, draft)
}

func (s *Service) Update(ctx context.Context, reportID string, draft Draft) error {
	return s.store.Update(ctx, reportID, draft)
}

func (s *Service) Delete(ctx context.Context, reportID string) error {
	return s.store.Delete(ctx, reportID)
}

func (s *Service) Review(ctx context.Context, reportID, reviewerID, feedback string) error {
	return s.store.Review(ctx, reportID, reviewerID, feedback)
}

func (s *Service) EmployeeUserID(ctx context.Context, employeeID string) (string, error) {
	return s.store.EmployeeUserID(ctx, employeeID)
}

func (s *Service) EmployeeIDByUserID(ctx context.Context, userID string) (string, error) {
	return s.store.EmployeeIDByUserID(ctx, userID)
}

// ExportPDF renders the report as a one-page PDF and returns the bytes.
func (s *Service) ExportPDF(ctx context.Context, reportID string) ([]byte, string, error) {
	report, err := s.store.Get(ctx, reportID)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Personal Report")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", report.EmployeeName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Type: %s", report.ReportType))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s",
		report.PeriodStart.Format("2006-01-02"), report.PeriodEnd.Format("2006-01-02")))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Tasks completed: %d", report.TasksCompleted))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Hours worked: %.2f", report.HoursWorked))
	pdf.Ln(10)

	writeSection := func(title, body string) {
		if body == "" {
			return
		}
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, title)
		pdf.Ln(7)
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, body, "", "L", false)
		pdf.Ln(3)
	}
	writeSection("Summary", report.Summary)
	writeSection("Achievements", report.Achievements)
	writeSection("Challenges", report.Challenges)
	writeSection("Plan for next period", report.PlanNextPeriod)
	writeSection("Manager feedback", report.ManagerFeedback)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("report-%s-%s.pdf", report.ReportType, report.PeriodStart.Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}
