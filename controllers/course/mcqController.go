package controllers

import (
	"encoding/json"
	"log"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// SubmitMCQAnswer submits and evaluates an MCQ answer. A fully correct
// answer marks the content complete through the same completion path as
// regular content, so progress and certificate handling stay in one place.
func SubmitMCQAnswer(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	contentID := c.Locals("contentID").(int)

	// Check enrollment
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	// Check content exists and is MCQ
	var content courseModels.CourseContent
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ? AND is_published = ?", contentID, courseID, false, true).First(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content not found!", nil)
	}

	if content.ContentType != "MCQ" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Content is not an MCQ!", nil)
	}

	reqData := new(struct {
		SelectedOptionIDs []uint `json:"selected_option_ids"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if len(reqData.SelectedOptionIDs) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Please select at least one option!", nil)
	}

	// Get correct options
	var correctOptions []courseModels.MCQOption
	database.Database.Db.Where("content_id = ? AND is_correct = ? AND is_deleted = ?", contentID, true, false).Find(&correctOptions)

	// Calculate score
	correctOptionIDs := make(map[uint]bool)
	for _, opt := range correctOptions {
		correctOptionIDs[opt.ID] = true
	}

	correctCount := 0
	for _, selectedID := range reqData.SelectedOptionIDs {
		if correctOptionIDs[selectedID] {
			correctCount++
		}
	}

	isCorrect := correctCount == len(correctOptions) && len(reqData.SelectedOptionIDs) == len(correctOptions)

	// Get attempt number
	var attemptCount int64
	database.Database.Db.Model(&courseModels.MCQAttempt{}).Where("user_id = ? AND content_id = ? AND is_deleted = ?", userID, contentID, false).Count(&attemptCount)

	// Store selected options as JSON
	selectedJSON, _ := json.Marshal(reqData.SelectedOptionIDs)

	attempt := courseModels.MCQAttempt{
		UserID:          userID,
		ContentID:       uint(contentID),
		SelectedOptions: selectedJSON,
		Score:           correctCount,
		MaxScore:        len(correctOptions),
		IsCorrect:       isCorrect,
		AttemptNumber:   int(attemptCount) + 1,
	}

	if err := database.Database.Db.Create(&attempt).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit answer!", nil)
	}

	// If correct, mark content as completed through the unified path
	progressPct := enrollment.Progress
	certificatePending := false
	if isCorrect {
		updated, wasNew, err := progressService.RecordCompletion(userID, uint(courseID), uint(contentID))
		if err != nil {
			log.Printf("[MCQ] Failed to record completion for user %d content %d: %v", userID, contentID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Answer recorded but progress update failed!", nil)
		}
		progressPct = updated.Progress
		if wasNew && updated.Progress >= 100 {
			certificateService.Dispatch(userID, uint(courseID))
			certificatePending = true
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Answer submitted!", fiber.Map{
		"attempt":             attempt,
		"is_correct":          isCorrect,
		"score":               correctCount,
		"max_score":           len(correctOptions),
		"progress":            progressPct,
		"certificate_pending": certificatePending,
	})
}
