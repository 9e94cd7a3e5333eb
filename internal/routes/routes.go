package routes

import (
	"github.com/gin-gonic/gin"

	"neofitness/internal/handlers"
	"neofitness/internal/middleware"
	"neofitness/internal/services"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	tokens services.TokenService,
) *gin.Engine {

	r.GET("/health", handlers.Health)

	// ---- public
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/forgot", authHandler.ForgotPassword)
		auth.POST("/reset", authHandler.ResetPassword)
		auth.POST("/verify-email", authHandler.VerifyEmail)
		auth.POST("/resend-verify-otp", authHandler.ResendVerifyOTP)
	}

	// ---- protected
	me := r.Group("/auth", middleware.AuthMiddleware(tokens))
	{
		me.GET("/me", authHandler.Me)
	}

	return r
}
