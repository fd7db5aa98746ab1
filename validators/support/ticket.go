package supportValidator

import (
	"strconv"
	"strings"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// CreateTicket validates a new support ticket payload
func CreateTicket() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title    string `json:"title" validate:"required,min=3,max=200"`
			Subject  string `json:"subject" validate:"required,min=3,max=200"`
			Message  string `json:"message" validate:"required,min=5"`
			Priority string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
			Category string `json:"category" validate:"omitempty,oneof=GENERAL COURSE CERTIFICATE PAYMENT TECHNICAL"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := middleware.ValidateStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedTicket", reqData)
		return c.Next()
	}
}

// TicketReply validates a reply payload plus the ticket id param
func TicketReply() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ticketID, err := parseTicketID(c)
		if err != nil {
			return err
		}

		reqData := new(struct {
			Message string `json:"message" validate:"required,min=1"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := middleware.ValidateStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("ticketID", ticketID)
		c.Locals("validatedTicketReply", reqData)
		return c.Next()
	}
}

// TicketID validates the ticket id param
func TicketID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ticketID, err := parseTicketID(c)
		if err != nil {
			return err
		}

		c.Locals("ticketID", ticketID)
		return c.Next()
	}
}

func parseTicketID(c *fiber.Ctx) (int, error) {
	raw := strings.TrimSpace(c.Params("ticket_id"))
	if raw == "" {
		return 0, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Ticket ID is required!", nil)
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Ticket ID!", nil)
	}
	return id, nil
}
