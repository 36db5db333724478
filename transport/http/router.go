package http

import (
	"github.com/gin-gonic/gin"

	"github.com/csec08/authlab/service"
)

// SetupRouter builds the gin router with the authentication and telemetry
// routes.
func SetupRouter(authService *service.AuthService) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	handlers := NewAuthHandlers(authService)

	auth := router.Group("/api/auth")
	{
		auth.POST("/register/traditional", handlers.Register)
		auth.POST("/login/traditional", handlers.LoginTraditional)
		auth.GET("/nonce/:address", handlers.Nonce)
		auth.POST("/verify", handlers.Verify)
	}

	protected := router.Group("/api/auth")
	protected.Use(AuthMiddleware(authService))
	{
		protected.GET("/session", handlers.Session)
		protected.POST("/logout", handlers.Logout)
	}

	router.POST("/api/telemetry/log", handlers.LogEvent)

	return router
}
