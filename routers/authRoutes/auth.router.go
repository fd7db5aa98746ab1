package authRoutes

import (
	controllers "lms/controllers/auth"
	"lms/middleware"
	validators "lms/validators/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes sets up registration, login and password routes
func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/signup", validators.Signup(), controllers.Signup)
	authGroup.Post("/login", validators.Login(), controllers.Login)

	// Email verification
	authGroup.Post("/otp/send", validators.SendOTP(), controllers.SendOTP)
	authGroup.Post("/otp/verify", validators.VerifyOTP(), controllers.VerifyOTP)

	// Forgot password
	authGroup.Post("/forgot-password/send-otp", validators.SendOTP(), controllers.ForgotPasswordSendOTP)
	authGroup.Post("/forgot-password/reset", validators.ResetPassword(), controllers.ForgotPasswordReset)

	// Authenticated account actions
	authGroup.Post("/change-password", middleware.JWTMiddleware, validators.ChangeLoginPassword(), controllers.ChangeLoginPassword)
	authGroup.Get("/login-history", middleware.JWTMiddleware, controllers.LoginHistoryList)
}
