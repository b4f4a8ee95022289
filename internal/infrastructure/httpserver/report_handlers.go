package httpserver

import (
	"net/http"

	"github.com/avatarctic/finance-tracker/internal/core/domain/report"
	"github.com/avatarctic/finance-tracker/internal/infrastructure/httpserver/helpers"
	"github.com/labstack/echo/v4"
)

func (s *Server) monthlyReport(c echo.Context) error {
	return s.report(c, report.PeriodMonthly)
}

func (s *Server) yearlyReport(c echo.Context) error {
	return s.report(c, report.PeriodYearly)
}

func (s *Server) report(c echo.Context, p report.Period) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	summary, err := s.reportSvc.Report(c.Request().Context(), userID, p)
	if err != nil {
		return s.toHTTPError(c, err, "failed to build "+p.String()+" report")
	}

	return c.JSON(http.StatusOK, summary)
}
