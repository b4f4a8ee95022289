package services

import (
	"context"
	"fmt"
	"time"

	"github.com/avatarctic/finance-tracker/internal/application/readthrough"
	"github.com/avatarctic/finance-tracker/internal/core/domain/cache"
	"github.com/avatarctic/finance-tracker/internal/core/domain/report"
	"github.com/avatarctic/finance-tracker/internal/core/ports"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ReportService aggregates expense and budget totals for a reporting period.
type ReportService struct {
	expenses ports.ExpenseRepository
	budgets  ports.BudgetRepository
	cache    *readthrough.Cache
	now      func() time.Time
	logger   *logrus.Logger
}

// NewReportService builds the report service. A nil clock means time.Now.
func NewReportService(expenses ports.ExpenseRepository, budgets ports.BudgetRepository, cache *readthrough.Cache, clock func() time.Time, logger *logrus.Logger) ports.ReportService {
	if clock == nil {
		clock = time.Now
	}
	return &ReportService{expenses: expenses, budgets: budgets, cache: cache, now: clock, logger: logger}
}

// Report returns the user's summary for p. The cache key holds only the user
// and the period name, so a cached summary computed late in one month can be
// served early in the next until its entry expires.
func (s *ReportService) Report(ctx context.Context, userID uuid.UUID, p report.Period) (*report.Summary, error) {
	if !p.IsValid() {
		return nil, fmt.Errorf("unknown report period %q", p)
	}
	compute := func(ctx context.Context) (*report.Summary, error) {
		return s.compute(ctx, userID, p)
	}
	if s.cache == nil {
		return compute(ctx)
	}
	return readthrough.GetOrCompute(ctx, s.cache, cache.ReportKey(userID, p), compute)
}

func (s *ReportService) compute(ctx context.Context, userID uuid.UUID, p report.Period) (*report.Summary, error) {
	w, err := report.WindowFor(p, s.now())
	if err != nil {
		return nil, err
	}
	totalExpenses, err := s.expenses.SumAmount(ctx, userID, w.ExpensesFrom, w.ExpensesTo)
	if err != nil {
		return nil, err
	}
	totalBudgets, err := s.budgets.SumAmount(ctx, userID, w.BudgetsFrom, w.BudgetsTo)
	if err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"user_id": userID, "period": p.String()}).Debug("report computed")
	}
	return &report.Summary{TotalExpenses: totalExpenses, TotalBudgets: totalBudgets}, nil
}
