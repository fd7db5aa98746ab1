package courseValidator

import (
	"strconv"
	"strings"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

func parseID(c *fiber.Ctx, param, label string) (int, error) {
	raw := strings.TrimSpace(c.Params(param))
	if raw == "" {
		return 0, middleware.JsonResponse(c, fiber.StatusBadRequest, false, label+" is required!", nil)
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+label+"!", nil)
	}
	return id, nil
}

// CourseList validates pagination for course listings
func CourseList() fiber.Handler {
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

		c.Locals("validatedCourseList", reqData)
		return c.Next()
	}
}

// CourseID validates the course id URL param
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseID(c, "course_id", "Course ID")
		if err != nil {
			return err
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// CourseContentList validates the content listing request
func CourseContentList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseID(c, "course_id", "Course ID")
		if err != nil {
			return err
		}

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

		c.Locals("courseID", courseID)
		c.Locals("validatedCourseContentList", reqData)
		return c.Next()
	}
}

// ContentComplete validates the mark-complete request params
func ContentComplete() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseID(c, "course_id", "Course ID")
		if err != nil {
			return err
		}
		contentID, err := parseID(c, "content_id", "Content ID")
		if err != nil {
			return err
		}

		c.Locals("courseID", courseID)
		c.Locals("contentID", contentID)
		return c.Next()
	}
}

// DayContent validates the day content request params
func DayContent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseID(c, "course_id", "Course ID")
		if err != nil {
			return err
		}
		moduleID, err := parseID(c, "module_id", "Module ID")
		if err != nil {
			return err
		}

		dayStr := strings.TrimSpace(c.Params("day"))
		day, convErr := strconv.Atoi(dayStr)
		if dayStr == "" || convErr != nil || day < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Day number!", nil)
		}

		c.Locals("courseID", courseID)
		c.Locals("moduleID", moduleID)
		c.Locals("day", day)
		return c.Next()
	}
}

// Review validates a course review submission
func Review() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseID(c, "course_id", "Course ID")
		if err != nil {
			return err
		}

		reqData := new(struct {
			Rating  int    `json:"rating" validate:"required,min=1,max=5"`
			Comment string `json:"comment"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := middleware.ValidateStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedReview", reqData)
		return c.Next()
	}
}

// CertificateNumber validates the public certificate verification param
func CertificateNumber() fiber.Handler {
	return func(c *fiber.Ctx) error {
		number := strings.TrimSpace(c.Params("number"))
		if number == "" || len(number) > 100 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid certificate number!", nil)
		}

		c.Locals("certificateNumber", number)
		return c.Next()
	}
}
