package services

import (
	"context"
	"strings"
	"time"

	"github.com/avatarctic/finance-tracker/internal/core/domain/budget"
	"github.com/avatarctic/finance-tracker/internal/core/ports"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// BudgetService manages budgets. Budget listings are read straight from the repository.
type BudgetService struct {
	repo   ports.BudgetRepository
	logger *logrus.Logger
}

func NewBudgetService(repo ports.BudgetRepository, logger *logrus.Logger) ports.BudgetService {
	return &BudgetService{repo: repo, logger: logger}
}

func (s *BudgetService) CreateBudget(ctx context.Context, userID uuid.UUID, req *budget.CreateBudgetRequest) (*budget.Budget, error) {
	now := time.Now()
	b := &budget.Budget{
		ID:        uuid.New(),
		UserID:    userID,
		Category:  strings.TrimSpace(req.Category),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Amount != nil {
		b.Amount = *req.Amount
	}
	if req.StartDate != nil {
		b.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		b.EndDate = *req.EndDate
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"user_id": userID, "budget_id": b.ID}).Info("budget created")
	}
	return b, nil
}

func (s *BudgetService) ListBudgets(ctx context.Context, userID uuid.UUID) ([]*budget.Budget, error) {
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*budget.Budget{}
	}
	return list, nil
}

func (s *BudgetService) UpdateBudget(ctx context.Context, userID, id uuid.UUID, req *budget.UpdateBudgetRequest) (*budget.Budget, error) {
	b, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	req.Apply(b)
	if err := b.Validate(); err != nil {
		return nil, err
	}
	b.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BudgetService) DeleteBudget(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.Delete(ctx, id, userID)
}
