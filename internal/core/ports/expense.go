package ports

import (
	"context"
	"time"

	"github.com/avatarctic/finance-tracker/internal/core/domain/expense"
	"github.com/google/uuid"
)

// ExpenseRepository defines the persistence operations for expenses.
// Every lookup and mutation is scoped to the owning user.
type ExpenseRepository interface {
	Create(ctx context.Context, e *expense.Expense) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*expense.Expense, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*expense.Expense, error)
	Update(ctx context.Context, e *expense.Expense) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
	// SumAmount totals expenses dated in [from, to).
	SumAmount(ctx context.Context, userID uuid.UUID, from, to time.Time) (float64, error)
}

// ExpenseService defines the expense use cases
type ExpenseService interface {
	CreateExpense(ctx context.Context, userID uuid.UUID, req *expense.CreateExpenseRequest) (*expense.Expense, error)
	ListExpenses(ctx context.Context, userID uuid.UUID) ([]*expense.Expense, error)
	UpdateExpense(ctx context.Context, userID, id uuid.UUID, req *expense.UpdateExpenseRequest) (*expense.Expense, error)
	DeleteExpense(ctx context.Context, userID, id uuid.UUID) error
}
