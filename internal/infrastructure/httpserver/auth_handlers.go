package httpserver

import (
	"net/http"

	"github.com/avatarctic/finance-tracker/internal/core/domain/auth"
	"github.com/avatarctic/finance-tracker/internal/core/domain/user"
	"github.com/avatarctic/finance-tracker/internal/infrastructure/httpserver/helpers"
	"github.com/labstack/echo/v4"
)

// Auth handlers
func (s *Server) register(c echo.Context) error {
	var req user.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := s.authSvc.Register(c.Request().Context(), &req); err != nil {
		return s.toHTTPError(c, err, "failed to register user")
	}

	return c.JSON(http.StatusCreated, map[string]string{"message": "User registered successfully"})
}

func (s *Server) login(c echo.Context) error {
	var req auth.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := s.authSvc.Login(c.Request().Context(), &req)
	if err != nil {
		return s.toHTTPError(c, err, "failed to login")
	}

	return c.JSON(http.StatusOK, token)
}

func (s *Server) logout(c echo.Context) error {
	token, err := helpers.GetJWTTokenFromContext(c)
	if err != nil {
		return err
	}

	if err := s.authSvc.Logout(c.Request().Context(), token); err != nil {
		return s.toHTTPError(c, err, "failed to logout")
	}

	return c.NoContent(http.StatusOK)
}
