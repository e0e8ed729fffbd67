package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"emboditrust/verifyhub/internal/model"
	"emboditrust/verifyhub/internal/repository"
)

type ReportService interface {
	FileReport(ctx context.Context, report *model.CounterfeitReport) error
	ListReports(ctx context.Context, status model.ReportStatus) ([]model.CounterfeitReport, error)
	ReviewReport(ctx context.Context, id uuid.UUID, status model.ReportStatus) error
}

type reportService struct {
	reportRepo repository.CounterfeitReportRepository
	sms        SMSSender
	logger     *zap.Logger
}

// NewReportService takes the SMS collaborator as an explicit dependency so
// tests and alternate deployments can substitute it.
func NewReportService(reportRepo repository.CounterfeitReportRepository, sms SMSSender, logger *zap.Logger) ReportService {
	return &reportService{reportRepo: reportRepo, sms: sms, logger: logger}
}

func (s *reportService) FileReport(ctx context.Context, report *model.CounterfeitReport) error {
	report.Description = strings.TrimSpace(report.Description)
	report.Status = model.ReportStatusOpen
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return err
	}

	// Acknowledgement SMS is a courtesy; a delivery failure never fails the report.
	if report.ReporterPhone != "" {
		msg := "Thank you for your report. Our team will investigate. Ref: " + report.ID.String()[:8]
		if err := s.sms.Send(ctx, report.ReporterPhone, msg); err != nil {
			s.logger.Warn("report acknowledgement sms failed", zap.Error(err))
		}
	}
	return nil
}

func (s *reportService) ListReports(ctx context.Context, status model.ReportStatus) ([]model.CounterfeitReport, error) {
	return s.reportRepo.List(ctx, status)
}

func (s *reportService) ReviewReport(ctx context.Context, id uuid.UUID, status model.ReportStatus) error {
	return s.reportRepo.UpdateStatus(ctx, id, status)
}
