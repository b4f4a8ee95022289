package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	requireJWT := s.middleware.JWT.RequireJWT()

	auth := s.echo.Group("/auth")
	auth.POST("/register", s.register)
	auth.POST("/login", s.login)
	auth.POST("/logout", s.logout, requireJWT)

	expenses := s.echo.Group("/expenses", requireJWT)
	expenses.GET("", s.listExpenses)
	expenses.POST("", s.createExpense)
	expenses.PUT("/:id", s.updateExpense)
	expenses.DELETE("/:id", s.deleteExpense)

	budgets := s.echo.Group("/budgets", requireJWT)
	budgets.GET("", s.listBudgets)
	budgets.POST("", s.createBudget)
	budgets.PUT("/:id", s.updateBudget)
	budgets.DELETE("/:id", s.deleteBudget)

	reports := s.echo.Group("/reports", requireJWT)
	reports.GET("/monthly", s.monthlyReport)
	reports.GET("/yearly", s.yearlyReport)
}
