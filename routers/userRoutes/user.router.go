package userRoutes

import (
	"lms/controllers/userControllers"
	"lms/middleware"
	validators "lms/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes sets up profile and app status routes
func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user")

	userGroup.Get("/profile", middleware.JWTMiddleware, userControllers.GetUserProfile)
	userGroup.Patch("/profile", middleware.JWTMiddleware, validators.UpdateProfile(), userControllers.UpdateUserProfile)
	userGroup.Post("/profile/image", middleware.JWTMiddleware, userControllers.UploadProfileImage)

	// App maintenance flags, no auth so clients can check before login
	app.Get("/maintenance/latest", userControllers.GetLatestMaintenance)
}
