package supportRoutes

import (
	controllers "lms/controllers/support"
	"lms/middleware"
	validators "lms/validators/support"

	"github.com/gofiber/fiber/v2"
)

// SetupSupportRoutes sets up support ticket routes
func SetupSupportRoutes(app *fiber.App) {
	ticketGroup := app.Group("/support", middleware.JWTMiddleware)

	ticketGroup.Post("/ticket", validators.CreateTicket(), controllers.CreateTicket)
	ticketGroup.Get("/tickets", controllers.GetUserTickets)
	ticketGroup.Post("/ticket/:ticket_id/reply", validators.TicketReply(), controllers.ReplyToTicket)
	ticketGroup.Post("/ticket/:ticket_id/close", validators.TicketID(), controllers.CloseTicket)

	// Admin ticket management
	adminGroup := app.Group("/admin/support", middleware.JWTMiddleware, middleware.RequireAdmin)
	adminGroup.Get("/tickets", controllers.GetAllTickets)
	adminGroup.Post("/ticket/:ticket_id/reply", validators.TicketReply(), controllers.ReplyToTicket)
	adminGroup.Post("/ticket/:ticket_id/close", validators.TicketID(), controllers.CloseTicket)
}
