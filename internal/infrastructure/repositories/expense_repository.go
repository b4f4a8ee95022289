package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/avatarctic/finance-tracker/internal/core/domain/expense"
	"github.com/avatarctic/finance-tracker/internal/core/ports"
	"github.com/avatarctic/finance-tracker/internal/infrastructure/db"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ExpenseRepository implements ports.ExpenseRepository on Postgres
type ExpenseRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewExpenseRepository(database *db.Database, logger *logrus.Logger) ports.ExpenseRepository {
	return &ExpenseRepository{db: database, logger: logger}
}

// Create creates a new expense
func (r *ExpenseRepository) Create(ctx context.Context, e *expense.Expense) error {
	query := `
		INSERT INTO expenses (id, user_id, description, amount, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.DB.ExecContext(ctx, query, e.ID, e.UserID, e.Description, e.Amount, e.Date, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"expense_id": e.ID, "user_id": e.UserID}).WithError(err).Error("db: failed to create expense")
		}
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

// GetByID retrieves an expense owned by userID
func (r *ExpenseRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*expense.Expense, error) {
	var e expense.Expense
	query := `
		SELECT id, user_id, description, amount, date, created_at, updated_at
		FROM expenses
		WHERE id = $1 AND user_id = $2`

	if err := r.db.DB.GetContext(ctx, &e, query, id, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, expense.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return &e, nil
}

// ListByUser returns all expenses of a user, newest first
func (r *ExpenseRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*expense.Expense, error) {
	expenses := []*expense.Expense{}
	query := `
		SELECT id, user_id, description, amount, date, created_at, updated_at
		FROM expenses
		WHERE user_id = $1
		ORDER BY date DESC, created_at DESC`

	if err := r.db.DB.SelectContext(ctx, &expenses, query, userID); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": userID}).WithError(err).Error("db: failed to list expenses")
		}
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, nil
}

// Update persists the mutable fields of an expense
func (r *ExpenseRepository) Update(ctx context.Context, e *expense.Expense) error {
	query := `
		UPDATE expenses
		SET description = $3, amount = $4, date = $5, updated_at = $6
		WHERE id = $1 AND user_id = $2`

	res, err := r.db.DB.ExecContext(ctx, query, e.ID, e.UserID, e.Description, e.Amount, e.Date, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	return expectOneRow(res, expense.ErrNotFound)
}

// Delete removes an expense owned by userID
func (r *ExpenseRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	res, err := r.db.DB.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return expectOneRow(res, expense.ErrNotFound)
}

// SumAmount totals the user's expenses dated in [from, to)
func (r *ExpenseRepository) SumAmount(ctx context.Context, userID uuid.UUID, from, to time.Time) (float64, error) {
	var total float64
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE user_id = $1 AND date >= $2 AND date < $3`

	if err := r.db.DB.GetContext(ctx, &total, query, userID, from, to); err != nil {
		return 0, fmt.Errorf("failed to sum expenses: %w", err)
	}
	return total, nil
}

// expectOneRow maps a zero-row mutation to notFound.
func expectOneRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
