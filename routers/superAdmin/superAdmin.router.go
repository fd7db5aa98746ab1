package superAdmin

import (
	controllers "lms/controllers/superAdmin"
	"lms/middleware"
	validators "lms/validators/superAdmin"

	"github.com/gofiber/fiber/v2"
)

// SetupSuperAdminRoutes sets up platform user administration routes
func SetupSuperAdminRoutes(app *fiber.App) {
	group := app.Group("/super-admin", middleware.JWTMiddleware, middleware.RequireSuperAdmin)

	group.Get("/users", validators.UserList(), controllers.UserList)
	group.Post("/admin/register", validators.RegisterAdmin(), controllers.RegisterAdmin)
	group.Post("/user/:user_id/block", validators.TargetUser(), controllers.BlockUser)
	group.Post("/user/:user_id/unblock", validators.TargetUser(), controllers.UnblockUser)
	group.Post("/maintenance", validators.SetMaintenance(), controllers.SetMaintenance)
}
