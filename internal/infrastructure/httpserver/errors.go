package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/finance-tracker/internal/core/domain/auth"
	"github.com/avatarctic/finance-tracker/internal/core/domain/budget"
	"github.com/avatarctic/finance-tracker/internal/core/domain/cache"
	"github.com/avatarctic/finance-tracker/internal/core/domain/expense"
	"github.com/avatarctic/finance-tracker/internal/core/domain/user"
)

// toHTTPError translates service errors into API responses. Anything
// unrecognised is logged and reported as a 500 without leaking details.
func (s *Server) toHTTPError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, expense.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Expense not found")
	case errors.Is(err, budget.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Budget not found")
	case errors.Is(err, budget.ErrInvalidPeriod):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, user.ErrEmailTaken):
		return echo.NewHTTPError(http.StatusConflict, "User already exists")
	case errors.Is(err, auth.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid credentials")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenRevoked):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	case errors.Is(err, cache.ErrStoreUnavailable):
		s.logError(c, err, "cache store unavailable")
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Service temporarily unavailable")
	}
	s.logError(c, err, fallback)
	return echo.NewHTTPError(http.StatusInternalServerError, fallback)
}

func (s *Server) logError(c echo.Context, err error, msg string) {
	if s.logger == nil {
		return
	}
	s.logger.WithFields(logrus.Fields{
		"method":     c.Request().Method,
		"path":       c.Path(),
		"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
	}).WithError(err).Error(msg)
}
