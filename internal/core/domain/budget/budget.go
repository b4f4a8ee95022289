package budget

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("budget not found")
	ErrInvalidPeriod = errors.New("end date must not be before start date")
)

type Budget struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	Category  string    `json:"category" db:"category"`
	Amount    float64   `json:"amount" db:"amount"`
	StartDate time.Time `json:"startDate" db:"start_date"`
	EndDate   time.Time `json:"endDate" db:"end_date"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Validate checks the budget period is well formed.
func (b *Budget) Validate() error {
	if b.EndDate.Before(b.StartDate) {
		return ErrInvalidPeriod
	}
	return nil
}

type CreateBudgetRequest struct {
	Category  string     `json:"category" validate:"required,notblank"`
	Amount    *float64   `json:"amount" validate:"required"`
	StartDate *time.Time `json:"startDate" validate:"required"`
	EndDate   *time.Time `json:"endDate" validate:"required"`
}

// UpdateBudgetRequest represents a partial update; nil fields are left unchanged
type UpdateBudgetRequest struct {
	Category  *string    `json:"category,omitempty" validate:"omitempty,notblank"`
	Amount    *float64   `json:"amount,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

// Apply copies the set fields of req onto b.
func (req *UpdateBudgetRequest) Apply(b *Budget) {
	if req.Category != nil {
		b.Category = *req.Category
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
}
