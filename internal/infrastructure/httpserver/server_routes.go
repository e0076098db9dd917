package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	api := s.echo.Group("/api")
	api.POST("/register", s.register)
	api.POST("/login", s.login)
	api.POST("/auth/refresh", s.refreshToken)

	api.GET("/services", s.listServices)
	api.GET("/services/:id", s.getService)
	api.GET("/info", s.listCityInfo)

	ai := api.Group("/perplexity")
	ai.Use(s.middleware.RateLimit.PerClientIP())
	ai.GET("/services", s.getAIServices)
	ai.GET("/pet-care", s.getAIPetCare)

	protected := api.Group("")
	protected.Use(s.middleware.JWT.RequireJWT())

	protected.POST("/logout", s.logout)
	protected.GET("/user", s.getCurrentUser)
	protected.PUT("/user", s.updateCurrentUser)

	pets := protected.Group("/pets")
	pets.GET("/events", s.listEvents)
	pets.POST("/events", s.createEvent)
	pets.PATCH("/events/:id", s.updateEvent)
	pets.DELETE("/events/:id", s.deleteEvent)

	pets.GET("", s.listPets)
	pets.POST("", s.createPet)
	pets.GET("/:id", s.getPet)
	pets.PUT("/:id", s.updatePet)
	pets.DELETE("/:id", s.deletePet)
}
