package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/finance-tracker/internal/core/domain/auth"
	"github.com/avatarctic/finance-tracker/internal/core/ports"
	"github.com/avatarctic/finance-tracker/internal/infrastructure/httpserver/helpers"
)

type JWTMiddleware struct {
	authService ports.AuthService
	logger      *logrus.Logger
}

func NewJWTMiddleware(authService ports.AuthService, logger *logrus.Logger) *JWTMiddleware {
	return &JWTMiddleware{authService: authService, logger: logger}
}

// RequireJWT creates middleware that validates JWT tokens and sets user context
func (m *JWTMiddleware) RequireJWT() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, err := helpers.GetJWTTokenFromContext(c)
			if err != nil {
				return err
			}

			userID, err := m.authService.ValidateToken(c.Request().Context(), tokenString)
			if err != nil {
				if m.logger != nil {
					m.logger.WithFields(logrus.Fields{"ip": c.RealIP(), "path": c.Request().URL.Path, "error": err.Error()}).Warn("JWT validation failed")
				}
				if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrTokenRevoked) {
					return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
				}
				return echo.NewHTTPError(http.StatusInternalServerError, "failed to validate token")
			}

			helpers.SetUserID(c, userID)
			helpers.SetToken(c, tokenString)

			if m.logger != nil {
				m.logger.WithFields(logrus.Fields{"user_id": userID}).Debug("jwt validated and user context set")
			}
			return next(c)
		}
	}
}
