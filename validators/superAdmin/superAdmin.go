package superAdminValidator

import (
	"strconv"
	"strings"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// UserList validates pagination for the user listing
func UserList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page  *int `json:"page"`
			Limit *int `json:"limit"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		defaultPage := 1
		defaultLimit := 10
		if reqData.Page == nil || *reqData.Page < 1 {
			reqData.Page = &defaultPage
		}
		if reqData.Limit == nil || *reqData.Limit < 1 || *reqData.Limit > 100 {
			reqData.Limit = &defaultLimit
		}

		c.Locals("validatedUserList", reqData)
		return c.Next()
	}
}

// RegisterAdmin validates the admin registration payload
func RegisterAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name     string `json:"name" validate:"required,min=3"`
			Email    string `json:"email" validate:"required,email"`
			Mobile   string `json:"mobile"`
			Password string `json:"password" validate:"required,min=8"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := middleware.ValidateStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAdmin", reqData)
		return c.Next()
	}
}

// SetMaintenance validates the maintenance flags payload
func SetMaintenance() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			AppMaintenance       bool   `json:"app_maintenance"`
			ForceUpdate          bool   `json:"force_update"`
			IosLatestVersion     string `json:"ios_latest_version"`
			AndroidLatestVersion string `json:"android_latest_version" validate:"required"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := middleware.ValidateStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedMaintenance", reqData)
		return c.Next()
	}
}

// TargetUser validates the user id param for block/unblock actions
func TargetUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Params("user_id"))
		if raw == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "User ID is required!", nil)
		}
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid User ID!", nil)
		}

		c.Locals("targetUserID", id)
		return c.Next()
	}
}
