package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ContentRequest is the payload for creating or updating course content
type ContentRequest struct {
	ModuleID    uint   `json:"module_id" validate:"required"`
	Day         int    `json:"day" validate:"omitempty,min=1"`
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description"`
	ContentType string `json:"content_type" validate:"required,oneof=TEXT MCQ VIDEO IMAGE"`
	TextContent string `json:"text_content"`
	VideoURL    string `json:"video_url"`
	ImageURL    string `json:"image_url"`
	OrderIndex  int    `json:"order_index" validate:"omitempty,min=0"`
}

// MCQOptionRequest is a single option in an MCQ content payload
type MCQOptionRequest struct {
	OptionText string `json:"option_text" validate:"required"`
	IsCorrect  bool   `json:"is_correct"`
	OrderIndex int    `json:"order_index"`
}

// CreateContent adds a content item to a course module (admin only)
func CreateContent(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedContent").(*ContentRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var module courseModels.Module
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", reqData.ModuleID, courseID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	day := reqData.Day
	if day == 0 {
		day = 1
	}

	newContent := courseModels.CourseContent{
		CourseID:    uint(courseID),
		ModuleID:    reqData.ModuleID,
		Day:         day,
		Title:       reqData.Title,
		Description: reqData.Description,
		ContentType: reqData.ContentType,
		TextContent: reqData.TextContent,
		VideoURL:    reqData.VideoURL,
		ImageURL:    reqData.ImageURL,
		OrderIndex:  reqData.OrderIndex,
	}

	if err := database.Database.Db.Create(&newContent).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create content!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Content created successfully!", newContent)
}

// UpdateContent updates a content item (admin only)
func UpdateContent(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)
	contentID := c.Locals("contentID").(int)

	reqData, ok := c.Locals("validatedContent").(*ContentRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var content courseModels.CourseContent
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", contentID, courseID, false).First(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content not found!", nil)
	}

	content.ModuleID = reqData.ModuleID
	if reqData.Day > 0 {
		content.Day = reqData.Day
	}
	content.Title = reqData.Title
	content.Description = reqData.Description
	content.ContentType = reqData.ContentType
	content.TextContent = reqData.TextContent
	content.VideoURL = reqData.VideoURL
	content.ImageURL = reqData.ImageURL
	content.OrderIndex = reqData.OrderIndex

	if err := database.Database.Db.Save(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update content!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content updated successfully!", content)
}

// PublishContent makes a content item visible and counted toward progress.
// Every enrollment of the course is recomputed since the denominator changed.
func PublishContent(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)
	contentID := c.Locals("contentID").(int)

	var content courseModels.CourseContent
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", contentID, courseID, false).First(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content not found!", nil)
	}

	if content.ContentType == "MCQ" {
		var optionCount int64
		database.Database.Db.Model(&courseModels.MCQOption{}).
			Where("content_id = ? AND is_deleted = ?", contentID, false).Count(&optionCount)
		if optionCount < 2 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "MCQ content needs at least two options before publishing!", nil)
		}
	}

	content.IsPublished = true
	if err := database.Database.Db.Save(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish content!", nil)
	}

	if err := progressService.RefreshCourse(uint(courseID)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Content published but progress refresh failed!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content published successfully!", content)
}

// UnpublishContent hides a content item and recomputes course progress
func UnpublishContent(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)
	contentID := c.Locals("contentID").(int)

	var content courseModels.CourseContent
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", contentID, courseID, false).First(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content not found!", nil)
	}

	content.IsPublished = false
	if err := database.Database.Db.Save(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to unpublish content!", nil)
	}

	if err := progressService.RefreshCourse(uint(courseID)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Content unpublished but progress refresh failed!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content unpublished successfully!", content)
}

// DeleteContent soft deletes a content item and recomputes course progress
func DeleteContent(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)
	contentID := c.Locals("contentID").(int)

	var content courseModels.CourseContent
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", contentID, courseID, false).First(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content not found!", nil)
	}

	content.IsDeleted = true
	content.IsPublished = false
	if err := database.Database.Db.Save(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete content!", nil)
	}

	if err := progressService.RefreshCourse(uint(courseID)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Content deleted but progress refresh failed!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content deleted successfully!", nil)
}

// SetMCQOptions replaces the option set of an MCQ content item (admin only)
func SetMCQOptions(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)
	contentID := c.Locals("contentID").(int)

	reqData, ok := c.Locals("validatedMCQOptions").(*struct {
		Options []MCQOptionRequest `json:"options" validate:"required,min=2,dive"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var content courseModels.CourseContent
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", contentID, courseID, false).First(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content not found!", nil)
	}

	if content.ContentType != "MCQ" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Content is not an MCQ!", nil)
	}

	hasCorrect := false
	for _, opt := range reqData.Options {
		if opt.IsCorrect {
			hasCorrect = true
			break
		}
	}
	if !hasCorrect {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "At least one option must be correct!", nil)
	}

	// Replace the full option set in one transaction
	var options []courseModels.MCQOption
	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&courseModels.MCQOption{}).
			Where("content_id = ? AND is_deleted = ?", contentID, false).
			Update("is_deleted", true).Error; err != nil {
			return err
		}
		for i, opt := range reqData.Options {
			orderIndex := opt.OrderIndex
			if orderIndex == 0 {
				orderIndex = i
			}
			options = append(options, courseModels.MCQOption{
				ContentID:  uint(contentID),
				OptionText: opt.OptionText,
				IsCorrect:  opt.IsCorrect,
				OrderIndex: orderIndex,
			})
		}
		return tx.Create(&options).Error
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save MCQ options!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "MCQ options saved successfully!", options)
}
