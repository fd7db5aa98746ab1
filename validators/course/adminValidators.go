package courseValidator

import (
	controllers "lms/controllers/course"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// CreateCourse validates the course create/update payload
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(controllers.CourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := middleware.ValidateStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// UpdateCourse validates the payload plus the course id param
func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseID(c, "course_id", "Course ID")
		if err != nil {
			return err
		}

		reqData := new(controllers.CourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := middleware.ValidateStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// CreateModule validates a module payload for a course
func CreateModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseID(c, "course_id", "Course ID")
		if err != nil {
			return err
		}

		reqData := new(controllers.ModuleRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := middleware.ValidateStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedModule", reqData)
		return c.Next()
	}
}

// UpdateModule validates a module payload plus the module id param
func UpdateModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseID(c, "course_id", "Course ID")
		if err != nil {
			return err
		}
		moduleID, err := parseID(c, "module_id", "Module ID")
		if err != nil {
			return err
		}

		reqData := new(controllers.ModuleRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := middleware.ValidateStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("moduleID", moduleID)
		c.Locals("validatedModule", reqData)
		return c.Next()
	}
}

// ModuleID validates course and module id params
func ModuleID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseID(c, "course_id", "Course ID")
		if err != nil {
			return err
		}
		moduleID, err := parseID(c, "module_id", "Module ID")
		if err != nil {
			return err
		}

		c.Locals("courseID", courseID)
		c.Locals("moduleID", moduleID)
		return c.Next()
	}
}

// CreateContent validates a content payload for a course
func CreateContent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseID(c, "course_id", "Course ID")
		if err != nil {
			return err
		}

		reqData := new(controllers.ContentRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := middleware.ValidateStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedContent", reqData)
		return c.Next()
	}
}

// UpdateContent validates a content payload plus the content id param
func UpdateContent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseID(c, "course_id", "Course ID")
		if err != nil {
			return err
		}
		contentID, err := parseID(c, "content_id", "Content ID")
		if err != nil {
			return err
		}

		reqData := new(controllers.ContentRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := middleware.ValidateStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("contentID", contentID)
		c.Locals("validatedContent", reqData)
		return c.Next()
	}
}

// ContentID validates course and content id params
func ContentID() fiber.Handler {
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

// SetMCQOptions validates the option set payload for an MCQ content item
func SetMCQOptions() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseID(c, "course_id", "Course ID")
		if err != nil {
			return err
		}
		contentID, err := parseID(c, "content_id", "Content ID")
		if err != nil {
			return err
		}

		reqData := new(struct {
			Options []controllers.MCQOptionRequest `json:"options" validate:"required,min=2,dive"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := middleware.ValidateStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("contentID", contentID)
		c.Locals("validatedMCQOptions", reqData)
		return c.Next()
	}
}

// StudentProgress validates course and student id params
func StudentProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseID(c, "course_id", "Course ID")
		if err != nil {
			return err
		}
		studentID, err := parseID(c, "student_id", "Student ID")
		if err != nil {
			return err
		}

		c.Locals("courseID", courseID)
		c.Locals("studentID", studentID)
		return c.Next()
	}
}
