package mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/avatarctic/finance-tracker/internal/core/domain/auth"
	"github.com/avatarctic/finance-tracker/internal/core/domain/budget"
	"github.com/avatarctic/finance-tracker/internal/core/domain/expense"
	"github.com/avatarctic/finance-tracker/internal/core/domain/report"
	"github.com/avatarctic/finance-tracker/internal/core/domain/user"
	"github.com/google/uuid"
)

// CacheStoreMock is a lightweight mock for ports.CacheStore
type CacheStoreMock struct {
	GetFn   func(ctx context.Context, key string) ([]byte, bool, error)
	SetEXFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	CloseFn func() error
}

func (m *CacheStoreMock) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, key)
	}
	return nil, false, nil
}
func (m *CacheStoreMock) SetEX(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetEXFn != nil {
		return m.SetEXFn(ctx, key, value, ttl)
	}
	return nil
}
func (m *CacheStoreMock) Close() error {
	if m.CloseFn != nil {
		return m.CloseFn()
	}
	return nil
}

// UserRepositoryMock is a lightweight mock for UserRepository
type UserRepositoryMock struct {
	CreateFn     func(ctx context.Context, u *user.User) error
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmailFn func(ctx context.Context, email string) (*user.User, error)
}

func (m *UserRepositoryMock) Create(ctx context.Context, u *user.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}
func (m *UserRepositoryMock) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, user.ErrNotFound
}
func (m *UserRepositoryMock) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, user.ErrNotFound
}

// TokenBlacklistMock is a lightweight mock for TokenBlacklist
type TokenBlacklistMock struct {
	RevokeFn    func(ctx context.Context, token string, expiresAt time.Time) error
	IsRevokedFn func(ctx context.Context, token string) (bool, error)
}

func (m *TokenBlacklistMock) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	if m.RevokeFn != nil {
		return m.RevokeFn(ctx, token, expiresAt)
	}
	return nil
}
func (m *TokenBlacklistMock) IsRevoked(ctx context.Context, token string) (bool, error) {
	if m.IsRevokedFn != nil {
		return m.IsRevokedFn(ctx, token)
	}
	return false, nil
}

// ExpenseRepositoryMock is a lightweight mock for ExpenseRepository
type ExpenseRepositoryMock struct {
	CreateFn     func(ctx context.Context, e *expense.Expense) error
	GetByIDFn    func(ctx context.Context, id, userID uuid.UUID) (*expense.Expense, error)
	ListByUserFn func(ctx context.Context, userID uuid.UUID) ([]*expense.Expense, error)
	UpdateFn     func(ctx context.Context, e *expense.Expense) error
	DeleteFn     func(ctx context.Context, id, userID uuid.UUID) error
	SumAmountFn  func(ctx context.Context, userID uuid.UUID, from, to time.Time) (float64, error)
}

func (m *ExpenseRepositoryMock) Create(ctx context.Context, e *expense.Expense) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, e)
	}
	return nil
}
func (m *ExpenseRepositoryMock) GetByID(ctx context.Context, id, userID uuid.UUID) (*expense.Expense, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id, userID)
	}
	return nil, expense.ErrNotFound
}
func (m *ExpenseRepositoryMock) ListByUser(ctx context.Context, userID uuid.UUID) ([]*expense.Expense, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	return nil, nil
}
func (m *ExpenseRepositoryMock) Update(ctx context.Context, e *expense.Expense) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, e)
	}
	return nil
}
func (m *ExpenseRepositoryMock) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id, userID)
	}
	return nil
}
func (m *ExpenseRepositoryMock) SumAmount(ctx context.Context, userID uuid.UUID, from, to time.Time) (float64, error) {
	if m.SumAmountFn != nil {
		return m.SumAmountFn(ctx, userID, from, to)
	}
	return 0, nil
}

// BudgetRepositoryMock is a lightweight mock for BudgetRepository
type BudgetRepositoryMock struct {
	CreateFn     func(ctx context.Context, b *budget.Budget) error
	GetByIDFn    func(ctx context.Context, id, userID uuid.UUID) (*budget.Budget, error)
	ListByUserFn func(ctx context.Context, userID uuid.UUID) ([]*budget.Budget, error)
	UpdateFn     func(ctx context.Context, b *budget.Budget) error
	DeleteFn     func(ctx context.Context, id, userID uuid.UUID) error
	SumAmountFn  func(ctx context.Context, userID uuid.UUID, from, to time.Time) (float64, error)
}

func (m *BudgetRepositoryMock) Create(ctx context.Context, b *budget.Budget) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, b)
	}
	return nil
}
func (m *BudgetRepositoryMock) GetByID(ctx context.Context, id, userID uuid.UUID) (*budget.Budget, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id, userID)
	}
	return nil, budget.ErrNotFound
}
func (m *BudgetRepositoryMock) ListByUser(ctx context.Context, userID uuid.UUID) ([]*budget.Budget, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	return nil, nil
}
func (m *BudgetRepositoryMock) Update(ctx context.Context, b *budget.Budget) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, b)
	}
	return nil
}
func (m *BudgetRepositoryMock) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id, userID)
	}
	return nil
}
func (m *BudgetRepositoryMock) SumAmount(ctx context.Context, userID uuid.UUID, from, to time.Time) (float64, error) {
	if m.SumAmountFn != nil {
		return m.SumAmountFn(ctx, userID, from, to)
	}
	return 0, nil
}

// AuthServiceMock is a lightweight mock for AuthService
type AuthServiceMock struct {
	RegisterFn      func(ctx context.Context, req *user.RegisterRequest) (*user.User, error)
	LoginFn         func(ctx context.Context, req *auth.LoginRequest) (*auth.AuthToken, error)
	IssueTokenFn    func(userID uuid.UUID) (string, time.Time, error)
	ValidateTokenFn func(ctx context.Context, token string) (uuid.UUID, error)
	LogoutFn        func(ctx context.Context, token string) error
}

func (m *AuthServiceMock) Register(ctx context.Context, req *user.RegisterRequest) (*user.User, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, req)
	}
	return nil, fmt.Errorf("not implemented")
}
func (m *AuthServiceMock) Login(ctx context.Context, req *auth.LoginRequest) (*auth.AuthToken, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, req)
	}
	return nil, auth.ErrInvalidCredentials
}
func (m *AuthServiceMock) IssueToken(userID uuid.UUID) (string, time.Time, error) {
	if m.IssueTokenFn != nil {
		return m.IssueTokenFn(userID)
	}
	return "", time.Time{}, fmt.Errorf("not implemented")
}
func (m *AuthServiceMock) ValidateToken(ctx context.Context, token string) (uuid.UUID, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, token)
	}
	return uuid.Nil, auth.ErrInvalidToken
}
func (m *AuthServiceMock) Logout(ctx context.Context, token string) error {
	if m.LogoutFn != nil {
		return m.LogoutFn(ctx, token)
	}
	return nil
}

// ExpenseServiceMock is a lightweight mock for ExpenseService
type ExpenseServiceMock struct {
	CreateExpenseFn func(ctx context.Context, userID uuid.UUID, req *expense.CreateExpenseRequest) (*expense.Expense, error)
	ListExpensesFn  func(ctx context.Context, userID uuid.UUID) ([]*expense.Expense, error)
	UpdateExpenseFn func(ctx context.Context, userID, id uuid.UUID, req *expense.UpdateExpenseRequest) (*expense.Expense, error)
	DeleteExpenseFn func(ctx context.Context, userID, id uuid.UUID) error
}

func (m *ExpenseServiceMock) CreateExpense(ctx context.Context, userID uuid.UUID, req *expense.CreateExpenseRequest) (*expense.Expense, error) {
	if m.CreateExpenseFn != nil {
		return m.CreateExpenseFn(ctx, userID, req)
	}
	return nil, fmt.Errorf("not implemented")
}
func (m *ExpenseServiceMock) ListExpenses(ctx context.Context, userID uuid.UUID) ([]*expense.Expense, error) {
	if m.ListExpensesFn != nil {
		return m.ListExpensesFn(ctx, userID)
	}
	return []*expense.Expense{}, nil
}
func (m *ExpenseServiceMock) UpdateExpense(ctx context.Context, userID, id uuid.UUID, req *expense.UpdateExpenseRequest) (*expense.Expense, error) {
	if m.UpdateExpenseFn != nil {
		return m.UpdateExpenseFn(ctx, userID, id, req)
	}
	return nil, expense.ErrNotFound
}
func (m *ExpenseServiceMock) DeleteExpense(ctx context.Context, userID, id uuid.UUID) error {
	if m.DeleteExpenseFn != nil {
		return m.DeleteExpenseFn(ctx, userID, id)
	}
	return nil
}

// BudgetServiceMock is a lightweight mock for BudgetService
type BudgetServiceMock struct {
	CreateBudgetFn func(ctx context.Context, userID uuid.UUID, req *budget.CreateBudgetRequest) (*budget.Budget, error)
	ListBudgetsFn  func(ctx context.Context, userID uuid.UUID) ([]*budget.Budget, error)
	UpdateBudgetFn func(ctx context.Context, userID, id uuid.UUID, req *budget.UpdateBudgetRequest) (*budget.Budget, error)
	DeleteBudgetFn func(ctx context.Context, userID, id uuid.UUID) error
}

func (m *BudgetServiceMock) CreateBudget(ctx context.Context, userID uuid.UUID, req *budget.CreateBudgetRequest) (*budget.Budget, error) {
	if m.CreateBudgetFn != nil {
		return m.CreateBudgetFn(ctx, userID, req)
	}
	return nil, fmt.Errorf("not implemented")
}
func (m *BudgetServiceMock) ListBudgets(ctx context.Context, userID uuid.UUID) ([]*budget.Budget, error) {
	if m.ListBudgetsFn != nil {
		return m.ListBudgetsFn(ctx, userID)
	}
	return []*budget.Budget{}, nil
}
func (m *BudgetServiceMock) UpdateBudget(ctx context.Context, userID, id uuid.UUID, req *budget.UpdateBudgetRequest) (*budget.Budget, error) {
	if m.UpdateBudgetFn != nil {
		return m.UpdateBudgetFn(ctx, userID, id, req)
	}
	return nil, budget.ErrNotFound
}
func (m *BudgetServiceMock) DeleteBudget(ctx context.Context, userID, id uuid.UUID) error {
	if m.DeleteBudgetFn != nil {
		return m.DeleteBudgetFn(ctx, userID, id)
	}
	return nil
}

// ReportServiceMock is a lightweight mock for ReportService
type ReportServiceMock struct {
	ReportFn func(ctx context.Context, userID uuid.UUID, period report.Period) (*report.Summary, error)
}

func (m *ReportServiceMock) Report(ctx context.Context, userID uuid.UUID, period report.Period) (*report.Summary, error) {
	if m.ReportFn != nil {
		return m.ReportFn(ctx, userID, period)
	}
	return &report.Summary{}, nil
}

// RateLimiterServiceMock is a lightweight mock for RateLimiterService
type RateLimiterServiceMock struct {
	AllowFn func(ctx context.Context, subject string) (bool, int, int, time.Time, error)
}

func (m *RateLimiterServiceMock) Allow(ctx context.Context, subject string) (allowed bool, remaining int, limit int, reset time.Time, err error) {
	if m.AllowFn != nil {
		return m.AllowFn(ctx, subject)
	}
	return true, 1, 1, time.Now(), nil
}

// RateLimitRepositoryMock is a lightweight mock for RateLimitRepository
type RateLimitRepositoryMock struct {
	IncrementWindowFn func(ctx context.Context, subject string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error)
}

func (m *RateLimitRepositoryMock) IncrementWindow(ctx context.Context, subject string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
	if m.IncrementWindowFn != nil {
		return m.IncrementWindowFn(ctx, subject, window, keyPrefix, ttl)
	}
	return 1, time.Now().Truncate(window), nil
}

// HealthCheckerMock is a lightweight mock for HealthChecker
type HealthCheckerMock struct {
	NameValue string
	CheckFn   func(ctx context.Context) error
}

func (m *HealthCheckerMock) Name() string { return m.NameValue }
func (m *HealthCheckerMock) Check(ctx context.Context) error {
	if m.CheckFn != nil {
		return m.CheckFn(ctx)
	}
	return nil
}
