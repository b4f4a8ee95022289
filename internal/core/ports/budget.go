package ports

import (
	"context"
	"time"

	"github.com/avatarctic/finance-tracker/internal/core/domain/budget"
	"github.com/google/uuid"
)

// BudgetRepository defines the persistence operations for budgets.
type BudgetRepository interface {
	Create(ctx context.Context, b *budget.Budget) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*budget.Budget, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*budget.Budget, error)
	Update(ctx context.Context, b *budget.Budget) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
	// SumAmount totals budgets whose period overlaps [from, to], both ends inclusive.
	SumAmount(ctx context.Context, userID uuid.UUID, from, to time.Time) (float64, error)
}

// BudgetService defines the budget use cases
type BudgetService interface {
	CreateBudget(ctx context.Context, userID uuid.UUID, req *budget.CreateBudgetRequest) (*budget.Budget, error)
	ListBudgets(ctx context.Context, userID uuid.UUID) ([]*budget.Budget, error)
	UpdateBudget(ctx context.Context, userID, id uuid.UUID, req *budget.UpdateBudgetRequest) (*budget.Budget, error)
	DeleteBudget(ctx context.Context, userID, id uuid.UUID) error
}
