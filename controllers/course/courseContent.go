package controllers

import (
	"errors"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/services/progress"

	"github.com/gofiber/fiber/v2"
)

// ContentWithMCQ represents content with MCQ options
type ContentWithMCQ struct {
	courseModels.CourseContent
	MCQOptions  []courseModels.MCQOption `json:"mcq_options,omitempty"`
	IsCompleted bool                     `json:"is_completed"`
}

func GetCourseContent(c *fiber.Ctx) error {
	// Retrieve userId from JWT middleware
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	// Check if user exists
	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	// Retrieve validated course ID
	courseID := c.Locals("courseID").(int)

	// Retrieve validated pagination request
	reqData, _ := c.Locals("validatedCourseContentList").(*struct {
		Page  *int `json:"page"`
		Limit *int `json:"limit"`
	})

	// Set default pagination
	page := 1
	limit := 10
	if reqData != nil && reqData.Page != nil {
		page = *reqData.Page
	}
	if reqData != nil && reqData.Limit != nil {
		limit = *reqData.Limit
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&courseModels.CourseContent{}).
		Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true)

	// Get total count
	var total int64
	db.Count(&total)

	// Fetch paginated data
	var contents []courseModels.CourseContent
	if err := db.Offset(offset).Limit(limit).Order("module_id asc, day asc, order_index asc").Find(&contents).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course content!", nil)
	}

	// Enrich contents with MCQ options and completion status
	result := make([]ContentWithMCQ, len(contents))
	for i, content := range contents {
		result[i] = ContentWithMCQ{
			CourseContent: content,
		}

		// Check if completed by user
		var completion courseModels.ContentCompletion
		if err := database.Database.Db.Where("user_id = ? AND course_content_id = ? AND is_deleted = ?", userId, content.ID, false).First(&completion).Error; err == nil {
			result[i].IsCompleted = true
		}

		// Get MCQ options if content is MCQ type
		if content.ContentType == "MCQ" {
			var options []courseModels.MCQOption
			database.Database.Db.Where("content_id = ? AND is_deleted = ?", content.ID, false).Order("order_index asc").Find(&options)
			// Remove IsCorrect from options for users (don't show answers)
			for j := range options {
				options[j].IsCorrect = false
			}
			result[i].MCQOptions = options
		}
	}

	// Prepare response
	response := map[string]interface{}{
		"contents": result,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course content fetched successfully!", response)
}

func MarkContentComplete(c *fiber.Ctx) error {
	// Retrieve userId from JWT middleware
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	// Check if user exists
	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	// Retrieve validated IDs
	courseID := c.Locals("courseID").(int)
	contentID := c.Locals("contentID").(int)

	enrollment, wasNew, err := progressService.RecordCompletion(userID, uint(courseID), uint(contentID))
	if err != nil {
		switch {
		case errors.Is(err, progress.ErrContentNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course content not found!", nil)
		case errors.Is(err, progress.ErrEnrollmentNotFound):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to mark content as completed!", nil)
		}
	}

	// First time the enrollment reaches 100%: queue certificate issuance.
	// The completion above is already durable, so an unavailable renderer
	// only delays the certificate.
	certificatePending := false
	if wasNew && enrollment.Progress >= 100 {
		certificateService.Dispatch(userID, uint(courseID))
		certificatePending = true
	}

	message := "Content marked as completed successfully!"
	if !wasNew {
		message = "Content was already completed."
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, fiber.Map{
		"progress":            enrollment.Progress,
		"completed_contents":  enrollment.CompletedContents,
		"total_contents":      enrollment.TotalContents,
		"status":              enrollment.Status,
		"was_new_completion":  wasNew,
		"certificate_pending": certificatePending,
	})
}

func GetUserProgress(c *fiber.Ctx) error {
	// Retrieve userId from JWT middleware
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	// Check if user exists
	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	// Retrieve validated course ID
	courseID := c.Locals("courseID").(int)

	enrollment, completions, totalContent, err := progressService.GetProgress(userID, uint(courseID))
	if err != nil {
		if errors.Is(err, progress.ErrEnrollmentNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not enrolled in this course!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"progress":          enrollment.Progress,
		"status":            enrollment.Status,
		"completed_content": completions,
		"total_items":       totalContent,
		"completed_at":      enrollment.CompletedAt,
	})
}
