package expense

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("expense not found")

type Expense struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"userId" db:"user_id"`
	Description string    `json:"description" db:"description"`
	Amount      float64   `json:"amount" db:"amount"`
	Date        time.Time `json:"date" db:"date"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// CreateExpenseRequest represents the request to create an expense.
// Date defaults to the time of creation when omitted.
type CreateExpenseRequest struct {
	Description string     `json:"description" validate:"required,notblank"`
	Amount      *float64   `json:"amount" validate:"required"`
	Date        *time.Time `json:"date,omitempty"`
}

// UpdateExpenseRequest represents a partial update; nil fields are left unchanged
type UpdateExpenseRequest struct {
	Description *string    `json:"description,omitempty" validate:"omitempty,notblank"`
	Amount      *float64   `json:"amount,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
}

// Apply copies the set fields of req onto e.
func (req *UpdateExpenseRequest) Apply(e *Expense) {
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.Amount != nil {
		e.Amount = *req.Amount
	}
	if req.Date != nil {
		e.Date = *req.Date
	}
}
