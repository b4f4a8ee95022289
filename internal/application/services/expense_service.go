package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avatarctic/finance-tracker/internal/application/readthrough"
	"github.com/avatarctic/finance-tracker/internal/core/domain/cache"
	"github.com/avatarctic/finance-tracker/internal/core/domain/expense"
	"github.com/avatarctic/finance-tracker/internal/core/ports"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ExpenseService struct {
	repo   ports.ExpenseRepository
	cache  *readthrough.Cache
	logger *logrus.Logger
}

func NewExpenseService(repo ports.ExpenseRepository, cache *readthrough.Cache, logger *logrus.Logger) ports.ExpenseService {
	return &ExpenseService{repo: repo, cache: cache, logger: logger}
}

func (s *ExpenseService) CreateExpense(ctx context.Context, userID uuid.UUID, req *expense.CreateExpenseRequest) (*expense.Expense, error) {
	now := time.Now()
	e := &expense.Expense{
		ID:          uuid.New(),
		UserID:      userID,
		Description: strings.TrimSpace(req.Description),
		Date:        now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Amount != nil {
		e.Amount = *req.Amount
	}
	if req.Date != nil {
		e.Date = *req.Date
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"user_id": userID, "expense_id": e.ID}).Info("expense created")
	}
	return e, nil
}

// ListExpenses serves the user's expenses through the result cache. Entries
// are not invalidated by writes, so a listing may lag for up to the cache TTL.
func (s *ExpenseService) ListExpenses(ctx context.Context, userID uuid.UUID) ([]*expense.Expense, error) {
	load := func(ctx context.Context) ([]*expense.Expense, error) {
		list, err := s.repo.ListByUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to list expenses: %w", err)
		}
		if list == nil {
			list = []*expense.Expense{}
		}
		return list, nil
	}
	if s.cache == nil {
		return load(ctx)
	}
	return readthrough.GetOrCompute(ctx, s.cache, cache.ExpensesKey(userID), load)
}

func (s *ExpenseService) UpdateExpense(ctx context.Context, userID, id uuid.UUID, req *expense.UpdateExpenseRequest) (*expense.Expense, error) {
	e, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	req.Apply(e)
	e.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *ExpenseService) DeleteExpense(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"user_id": userID, "expense_id": id}).Info("expense deleted")
	}
	return nil
}
