package httpserver

import (
	"net/http"

	"github.com/avatarctic/finance-tracker/internal/core/domain/expense"
	"github.com/avatarctic/finance-tracker/internal/infrastructure/httpserver/helpers"
	"github.com/labstack/echo/v4"
)

func (s *Server) listExpenses(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	expenses, err := s.expenseSvc.ListExpenses(c.Request().Context(), userID)
	if err != nil {
		return s.toHTTPError(c, err, "failed to list expenses")
	}

	return c.JSON(http.StatusOK, expenses)
}

func (s *Server) createExpense(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req expense.CreateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := s.expenseSvc.CreateExpense(c.Request().Context(), userID, &req)
	if err != nil {
		return s.toHTTPError(c, err, "failed to create expense")
	}

	return c.JSON(http.StatusCreated, created)
}

func (s *Server) updateExpense(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	id, err := helpers.ParseIDParam(c, "id", "expense")
	if err != nil {
		return err
	}

	var req expense.UpdateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := s.expenseSvc.UpdateExpense(c.Request().Context(), userID, id, &req)
	if err != nil {
		return s.toHTTPError(c, err, "failed to update expense")
	}

	return c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteExpense(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	id, err := helpers.ParseIDParam(c, "id", "expense")
	if err != nil {
		return err
	}

	if err := s.expenseSvc.DeleteExpense(c.Request().Context(), userID, id); err != nil {
		return s.toHTTPError(c, err, "failed to delete expense")
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Expense deleted successfully"})
}
