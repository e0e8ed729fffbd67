package repository

import (
	"context"

	"github.com/google/uuid"

	"emboditrust/verifyhub/internal/model"
)

type CounterfeitReportRepository interface {
	Create(ctx context.Context, report *model.CounterfeitReport) error
	List(ctx context.Context, status model.ReportStatus) ([]model.CounterfeitReport, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ReportStatus) error
}
