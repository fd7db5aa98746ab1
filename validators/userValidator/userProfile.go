package userValidator

import (
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// UpdateProfile validates the profile update payload
func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name   string `json:"name" validate:"omitempty,min=2,max=100"`
			Mobile string `json:"mobile" validate:"omitempty,len=10"`
			Bio    string `json:"bio" validate:"omitempty,max=500"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := middleware.ValidateStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProfile", reqData)
		return c.Next()
	}
}
