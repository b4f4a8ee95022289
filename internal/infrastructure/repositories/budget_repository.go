package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/avatarctic/finance-tracker/internal/core/domain/budget"
	"github.com/avatarctic/finance-tracker/internal/core/ports"
	"github.com/avatarctic/finance-tracker/internal/infrastructure/db"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// BudgetRepository implements ports.BudgetRepository on Postgres
type BudgetRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewBudgetRepository(database *db.Database, logger *logrus.Logger) ports.BudgetRepository {
	return &BudgetRepository{db: database, logger: logger}
}

func (r *BudgetRepository) Create(ctx context.Context, b *budget.Budget) error {
	query := `
		INSERT INTO budgets (id, user_id, category, amount, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.DB.ExecContext(ctx, query, b.ID, b.UserID, b.Category, b.Amount, b.StartDate, b.EndDate, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"budget_id": b.ID, "user_id": b.UserID}).WithError(err).Error("db: failed to create budget")
		}
		return fmt.Errorf("failed to create budget: %w", err)
	}
	return nil
}

func (r *BudgetRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*budget.Budget, error) {
	var b budget.Budget
	query := `
		SELECT id, user_id, category, amount, start_date, end_date, created_at, updated_at
		FROM budgets
		WHERE id = $1 AND user_id = $2`

	if err := r.db.DB.GetContext(ctx, &b, query, id, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, budget.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return &b, nil
}

func (r *BudgetRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*budget.Budget, error) {
	budgets := []*budget.Budget{}
	query := `
		SELECT id, user_id, category, amount, start_date, end_date, created_at, updated_at
		FROM budgets
		WHERE user_id = $1
		ORDER BY start_date DESC`

	if err := r.db.DB.SelectContext(ctx, &budgets, query, userID); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": userID}).WithError(err).Error("db: failed to list budgets")
		}
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	return budgets, nil
}

func (r *BudgetRepository) Update(ctx context.Context, b *budget.Budget) error {
	query := `
		UPDATE budgets
		SET category = $3, amount = $4, start_date = $5, end_date = $6, updated_at = $7
		WHERE id = $1 AND user_id = $2`

	res, err := r.db.DB.ExecContext(ctx, query, b.ID, b.UserID, b.Category, b.Amount, b.StartDate, b.EndDate, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update budget: %w", err)
	}
	return expectOneRow(res, budget.ErrNotFound)
}

func (r *BudgetRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	res, err := r.db.DB.ExecContext(ctx, `DELETE FROM budgets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	return expectOneRow(res, budget.ErrNotFound)
}

// SumAmount totals budgets whose period overlaps [from, to]
func (r *BudgetRepository) SumAmount(ctx context.Context, userID uuid.UUID, from, to time.Time) (float64, error) {
	var total float64
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM budgets
		WHERE user_id = $1 AND start_date <= $3 AND end_date >= $2`

	if err := r.db.DB.GetContext(ctx, &total, query, userID, from, to); err != nil {
		return 0, fmt.Errorf("failed to sum budgets: %w", err)
	}
	return total, nil
}
