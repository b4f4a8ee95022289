package httpserver

import (
	"net/http"

	"github.com/avatarctic/finance-tracker/internal/core/domain/budget"
	"github.com/avatarctic/finance-tracker/internal/infrastructure/httpserver/helpers"
	"github.com/labstack/echo/v4"
)

func (s *Server) listBudgets(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	budgets, err := s.budgetSvc.ListBudgets(c.Request().Context(), userID)
	if err != nil {
		return s.toHTTPError(c, err, "failed to list budgets")
	}

	return c.JSON(http.StatusOK, budgets)
}

func (s *Server) createBudget(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req budget.CreateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := s.budgetSvc.CreateBudget(c.Request().Context(), userID, &req)
	if err != nil {
		return s.toHTTPError(c, err, "failed to create budget")
	}

	return c.JSON(http.StatusCreated, created)
}

func (s *Server) updateBudget(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	id, err := helpers.ParseIDParam(c, "id", "budget")
	if err != nil {
		return err
	}

	var req budget.UpdateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := s.budgetSvc.UpdateBudget(c.Request().Context(), userID, id, &req)
	if err != nil {
		return s.toHTTPError(c, err, "failed to update budget")
	}

	return c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteBudget(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	id, err := helpers.ParseIDParam(c, "id", "budget")
	if err != nil {
		return err
	}

	if err := s.budgetSvc.DeleteBudget(c.Request().Context(), userID, id); err != nil {
		return s.toHTTPError(c, err, "failed to delete budget")
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Budget deleted successfully"})
}
