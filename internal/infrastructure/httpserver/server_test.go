package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/finance-tracker/internal/core/domain/auth"
	"github.com/avatarctic/finance-tracker/internal/core/domain/budget"
	"github.com/avatarctic/finance-tracker/internal/core/domain/cache"
	"github.com/avatarctic/finance-tracker/internal/core/domain/expense"
	"github.com/avatarctic/finance-tracker/internal/core/domain/report"
	"github.com/avatarctic/finance-tracker/internal/core/domain/user"
	"github.com/avatarctic/finance-tracker/internal/core/ports"
	"github.com/avatarctic/finance-tracker/internal/infrastructure/httpserver"
	"github.com/avatarctic/finance-tracker/test/mocks"
)

const goodToken = "good-token"

// authFor accepts goodToken for userID and rejects anything else.
func authFor(userID uuid.UUID) *mocks.AuthServiceMock {
	return &mocks.AuthServiceMock{
		ValidateTokenFn: func(ctx context.Context, token string) (uuid.UUID, error) {
			if token == goodToken {
				return userID, nil
			}
			return uuid.Nil, auth.ErrInvalidToken
		},
	}
}

func newServer(t *testing.T, deps httpserver.ServerDeps) *httpserver.Server {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	if deps.AuthService == nil {
		deps.AuthService = authFor(uuid.New())
	}
	if deps.RateLimiterService == nil {
		deps.RateLimiterService = &mocks.RateLimiterServiceMock{}
	}
	return httpserver.NewServer(&httpserver.ServerConfig{Host: "127.0.0.1", Port: "0", BodyLimit: "1M"}, logger, deps)
}

func do(srv *httpserver.Server, method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)
	return rec
}

func TestRegister(t *testing.T) {
	var got *user.RegisterRequest
	authMock := authFor(uuid.New())
	authMock.RegisterFn = func(ctx context.Context, req *user.RegisterRequest) (*user.User, error) {
		if req.Email == "taken@example.com" {
			return nil, user.ErrEmailTaken
		}
		got = req
		return &user.User{ID: uuid.New(), Email: req.Email}, nil
	}
	srv := newServer(t, httpserver.ServerDeps{AuthService: authMock})

	rec := do(srv, http.MethodPost, "/auth/register", `{"username":"alice","email":"alice@example.com","password":"password123"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	require.JSONEq(t, `{"message":"User registered successfully"}`, rec.Body.String())
	require.Equal(t, "alice", got.Username)

	rec = do(srv, http.MethodPost, "/auth/register", `{"username":"bob","email":"taken@example.com","password":"password123"}`, "")
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = do(srv, http.MethodPost, "/auth/register", `{"username":"bob","email":"not-an-email","password":"short"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Email must be a valid email")
}

func TestLogin(t *testing.T) {
	authMock := authFor(uuid.New())
	authMock.LoginFn = func(ctx context.Context, req *auth.LoginRequest) (*auth.AuthToken, error) {
		if req.Password == "right-password" {
			return &auth.AuthToken{Token: "tok", ExpiresIn: 3600}, nil
		}
		return nil, auth.ErrInvalidCredentials
	}
	srv := newServer(t, httpserver.ServerDeps{AuthService: authMock})

	rec := do(srv, http.MethodPost, "/auth/login", `{"email":"a@b.c","password":"right-password"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var tok auth.AuthToken
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tok))
	require.Equal(t, "tok", tok.Token)

	rec = do(srv, http.MethodPost, "/auth/login", `{"email":"a@b.c","password":"wrong"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Invalid credentials")
}

func TestLogout_PassesBearerToken(t *testing.T) {
	var revoked string
	authMock := authFor(uuid.New())
	authMock.LogoutFn = func(ctx context.Context, token string) error {
		revoked = token
		return nil
	}
	srv := newServer(t, httpserver.ServerDeps{AuthService: authMock})

	rec := do(srv, http.MethodPost, "/auth/logout", "", goodToken)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, goodToken, revoked)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newServer(t, httpserver.ServerDeps{ExpenseService: &mocks.ExpenseServiceMock{}, ReportService: &mocks.ReportServiceMock{}})

	rec := do(srv, http.MethodGet, "/expenses", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "no token provided")

	rec = do(srv, http.MethodGet, "/reports/monthly", "", "forged")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(srv, http.MethodGet, "/no-such-route", "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListExpenses(t *testing.T) {
	userID := uuid.New()
	expenses := &mocks.ExpenseServiceMock{
		ListExpensesFn: func(ctx context.Context, id uuid.UUID) ([]*expense.Expense, error) {
			require.Equal(t, userID, id)
			return []*expense.Expense{{ID: uuid.New(), UserID: id, Description: "Coffee", Amount: 5}}, nil
		},
	}
	srv := newServer(t, httpserver.ServerDeps{AuthService: authFor(userID), ExpenseService: expenses})

	rec := do(srv, http.MethodGet, "/expenses", "", goodToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var got []expense.Expense
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	require.Equal(t, "Coffee", got[0].Description)
}

func TestCacheErrorsMapToStatus(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("%w: redis: client is closed", cache.ErrStoreUnavailable), http.StatusServiceUnavailable},
		{fmt.Errorf("%w: LOADING", cache.ErrStoreRead), http.StatusInternalServerError},
		{fmt.Errorf("%w: %w", cache.ErrProducer, errors.New("db down")), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		reports := &mocks.ReportServiceMock{
			ReportFn: func(ctx context.Context, id uuid.UUID, p report.Period) (*report.Summary, error) { return nil, tc.err },
		}
		srv := newServer(t, httpserver.ServerDeps{ReportService: reports, AuthService: authFor(uuid.New())})
		rec := do(srv, http.MethodGet, "/reports/yearly", "", goodToken)
		require.Equal(t, tc.code, rec.Code, tc.err.Error())
		require.NotContains(t, rec.Body.String(), "db down")
	}
}

func TestCreateExpense_Validation(t *testing.T) {
	var created *expense.CreateExpenseRequest
	expenses := &mocks.ExpenseServiceMock{
		CreateExpenseFn: func(ctx context.Context, userID uuid.UUID, req *expense.CreateExpenseRequest) (*expense.Expense, error) {
			created = req
			return &expense.Expense{ID: uuid.New(), UserID: userID, Description: req.Description, Amount: *req.Amount}, nil
		},
	}
	srv := newServer(t, httpserver.ServerDeps{ExpenseService: expenses})

	rec := do(srv, http.MethodPost, "/expenses", `{"description":"Coffee"}`, goodToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Nil(t, created)

	rec = do(srv, http.MethodPost, "/expenses", `{"description":"Coffee","amount":0}`, goodToken)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, created)
	require.Zero(t, *created.Amount)

	rec = do(srv, http.MethodPost, "/expenses", `{"description":`, goodToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateAndDeleteExpense(t *testing.T) {
	known := uuid.New()
	expenses := &mocks.ExpenseServiceMock{
		UpdateExpenseFn: func(ctx context.Context, userID, id uuid.UUID, req *expense.UpdateExpenseRequest) (*expense.Expense, error) {
			if id != known {
				return nil, expense.ErrNotFound
			}
			e := &expense.Expense{ID: id, UserID: userID, Description: "Coffee", Amount: 5}
			req.Apply(e)
			return e, nil
		},
		DeleteExpenseFn: func(ctx context.Context, userID, id uuid.UUID) error {
			if id != known {
				return expense.ErrNotFound
			}
			return nil
		},
	}
	srv := newServer(t, httpserver.ServerDeps{ExpenseService: expenses})

	rec := do(srv, http.MethodPut, "/expenses/"+known.String(), `{"amount":7.5}`, goodToken)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"amount":7.5`)

	rec = do(srv, http.MethodPut, "/expenses/"+uuid.NewString(), `{"amount":1}`, goodToken)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(srv, http.MethodPut, "/expenses/not-a-uuid", `{"amount":1}`, goodToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(srv, http.MethodDelete, "/expenses/"+known.String(), "", goodToken)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"message":"Expense deleted successfully"}`, rec.Body.String())

	rec = do(srv, http.MethodDelete, "/expenses/"+uuid.NewString(), "", goodToken)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateBudget_InvalidPeriod(t *testing.T) {
	budgets := &mocks.BudgetServiceMock{
		CreateBudgetFn: func(ctx context.Context, userID uuid.UUID, req *budget.CreateBudgetRequest) (*budget.Budget, error) {
			return nil, budget.ErrInvalidPeriod
		},
	}
	srv := newServer(t, httpserver.ServerDeps{BudgetService: budgets})

	rec := do(srv, http.MethodPost, "/budgets", `{"category":"Food","amount":100,"startDate":"2024-03-31T00:00:00Z","endDate":"2024-03-01T00:00:00Z"}`, goodToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(srv, http.MethodPost, "/budgets", `{"category":"Food","amount":100}`, goodToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReports(t *testing.T) {
	userID := uuid.New()
	var periods []report.Period
	reports := &mocks.ReportServiceMock{
		ReportFn: func(ctx context.Context, id uuid.UUID, p report.Period) (*report.Summary, error) {
			require.Equal(t, userID, id)
			periods = append(periods, p)
			return &report.Summary{TotalExpenses: 300, TotalBudgets: 3000}, nil
		},
	}
	srv := newServer(t, httpserver.ServerDeps{AuthService: authFor(userID), ReportService: reports})

	rec := do(srv, http.MethodGet, "/reports/monthly", "", goodToken)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"totalExpenses":300,"totalBudgets":3000}`, rec.Body.String())

	rec = do(srv, http.MethodGet, "/reports/yearly", "", goodToken)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []report.Period{report.PeriodMonthly, report.PeriodYearly}, periods)
}

func TestRateLimit(t *testing.T) {
	reset := time.Now().Add(time.Minute)
	limiter := &mocks.RateLimiterServiceMock{
		AllowFn: func(ctx context.Context, subject string) (bool, int, int, time.Time, error) {
			return false, 0, 100, reset, nil
		},
	}
	srv := newServer(t, httpserver.ServerDeps{RateLimiterService: limiter})

	rec := do(srv, http.MethodPost, "/auth/login", `{"email":"a@b.c","password":"x"}`, "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "100", rec.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	require.Equal(t, fmt.Sprintf("%d", reset.Unix()), rec.Header().Get("X-RateLimit-Reset"))
}

func TestSecurityHeadersAndRequestID(t *testing.T) {
	srv := newServer(t, httpserver.ServerDeps{})
	rec := do(srv, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	require.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
	require.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestHealth_Degraded(t *testing.T) {
	srv := newServer(t, httpserver.ServerDeps{HealthCheckers: []ports.HealthChecker{
		&mocks.HealthCheckerMock{NameValue: "database"},
		&mocks.HealthCheckerMock{NameValue: "cache", CheckFn: func(ctx context.Context) error { return errors.New("down") }},
	}})

	rec := do(srv, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "degraded", body["status"])
	require.Equal(t, map[string]any{"database": "healthy", "cache": "unhealthy"}, body["dependencies"])
}

func TestStart_MissingTLSKeyPair(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	srv := httpserver.NewServer(&httpserver.ServerConfig{
		Host:        "127.0.0.1",
		Port:        "0",
		TLSCertFile: "testdata/missing-cert.pem",
		TLSKeyFile:  "testdata/missing-key.pem",
	}, logger, httpserver.ServerDeps{AuthService: authFor(uuid.New()), RateLimiterService: &mocks.RateLimiterServiceMock{}})

	err := srv.Start()
	require.Error(t, err)
	require.Contains(t, err.Error(), "TLS key pair")
	require.Equal(t, "127.0.0.1:0", srv.Addr())
}

func TestBlankTextFieldsAreRejected(t *testing.T) {
	var calls int
	expenses := &mocks.ExpenseServiceMock{
		CreateExpenseFn: func(ctx context.Context, userID uuid.UUID, req *expense.CreateExpenseRequest) (*expense.Expense, error) {
			calls++
			return &expense.Expense{}, nil
		},
		UpdateExpenseFn: func(ctx context.Context, userID, id uuid.UUID, req *expense.UpdateExpenseRequest) (*expense.Expense, error) {
			calls++
			return &expense.Expense{}, nil
		},
	}
	budgets := &mocks.BudgetServiceMock{
		CreateBudgetFn: func(ctx context.Context, userID uuid.UUID, req *budget.CreateBudgetRequest) (*budget.Budget, error) {
			calls++
			return &budget.Budget{}, nil
		},
		UpdateBudgetFn: func(ctx context.Context, userID, id uuid.UUID, req *budget.UpdateBudgetRequest) (*budget.Budget, error) {
			calls++
			return &budget.Budget{}, nil
		},
	}
	srv := newServer(t, httpserver.ServerDeps{ExpenseService: expenses, BudgetService: budgets})
	id := uuid.New().String()

	rec := do(srv, http.MethodPost, "/expenses", `{"description":"   ","amount":5}`, goodToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "must not be blank")

	rec = do(srv, http.MethodPut, "/expenses/"+id, `{"description":"\t "}`, goodToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(srv, http.MethodPost, "/budgets", `{"category":" ","amount":100,"startDate":"2024-03-01T00:00:00Z","endDate":"2024-03-31T00:00:00Z"}`, goodToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(srv, http.MethodPut, "/budgets/"+id, `{"category":""}`, goodToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Zero(t, calls)

	rec = do(srv, http.MethodPut, "/expenses/"+id, `{"amount":7}`, goodToken)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, calls)
}
