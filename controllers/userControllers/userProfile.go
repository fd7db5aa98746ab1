package userControllers

import (
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
)

// GetUserProfile returns the current user's profile with learning stats
func GetUserProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	var enrolledCourses int64
	database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND is_deleted = ?", userID, false).Count(&enrolledCourses)

	var completedCourses int64
	database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND is_deleted = ? AND status = ?", userID, false, "COMPLETED").Count(&completedCourses)

	var certificates int64
	database.Database.Db.Model(&courseModels.Certificate{}).
		Where("user_id = ? AND is_deleted = ?", userID, false).Count(&certificates)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully!", fiber.Map{
		"id":                user.ID,
		"name":              user.Name,
		"email":             user.Email,
		"mobile":            user.Mobile,
		"bio":               user.Bio,
		"role":              user.Role,
		"profile_image":     utils.GetFileURL(user.ProfileImage),
		"is_email_verified": user.IsEmailVerified,
		"last_login":        user.LastLogin,
		"stats": fiber.Map{
			"enrolled_courses":  enrolledCourses,
			"completed_courses": completedCourses,
			"certificates":      certificates,
		},
	})
}

// UpdateUserProfile updates name, mobile and bio
func UpdateUserProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedProfile").(*struct {
		Name   string `json:"name" validate:"omitempty,min=2,max=100"`
		Mobile string `json:"mobile" validate:"omitempty,len=10"`
		Bio    string `json:"bio" validate:"omitempty,max=500"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if reqData.Name != "" {
		user.Name = reqData.Name
	}
	if reqData.Mobile != "" && reqData.Mobile != user.Mobile {
		user.Mobile = reqData.Mobile
		user.IsMobileVerified = false
	}
	if reqData.Bio != "" {
		user.Bio = reqData.Bio
	}

	if err := database.Database.Db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully!", fiber.Map{
		"name":   user.Name,
		"mobile": user.Mobile,
		"bio":    user.Bio,
	})
}

// UploadProfileImage stores a new profile image for the user
func UploadProfileImage(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	file, err := c.FormFile("image")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Image file is required!", nil)
	}

	ext := filepath.Ext(file.Filename)
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Only jpg, jpeg and png images are allowed!", nil)
	}

	if file.Size > 5*1024*1024 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Image must be smaller than 5MB!", nil)
	}

	destDir := filepath.Join(config.AppConfig.UploadDir, "profile")
	savedPath, err := utils.SaveUploadedFile(file, destDir)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save image!", nil)
	}

	user.ProfileImage = savedPath
	if err := database.Database.Db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile image!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile image uploaded successfully!", fiber.Map{
		"profile_image": utils.GetFileURL(savedPath),
	})
}

// GetLatestMaintenance returns the current app maintenance flags
func GetLatestMaintenance(c *fiber.Ctx) error {
	var maintenance models.Maintenance
	if err := database.Database.Db.Where("is_deleted = ?", false).Order("created_at desc").First(&maintenance).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No maintenance record found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Maintenance fetched successfully!", maintenance)
}
