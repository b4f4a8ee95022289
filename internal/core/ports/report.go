package ports

import (
	"context"

	"github.com/avatarctic/finance-tracker/internal/core/domain/report"
	"github.com/google/uuid"
)

// ReportService computes per-user aggregate reports
type ReportService interface {
	Report(ctx context.Context, userID uuid.UUID, period report.Period) (*report.Summary, error)
}
