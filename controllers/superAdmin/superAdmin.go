package superAdminController

import (
	"log"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// UserList lists all platform users except super admins
func UserList(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUserList").(*struct {
		Page  *int `json:"page"`
		Limit *int `json:"limit"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	offset := (*reqData.Page - 1) * (*reqData.Limit)

	var users []models.User
	var total int64

	if err := database.Database.Db.
		Where("is_deleted = ? AND role != ?", false, "SUPER-ADMIN").
		Offset(offset).
		Limit(*reqData.Limit).
		Order("created_at desc").
		Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch user list!", nil)
	}

	// Never expose password hashes
	for i := range users {
		users[i].Password = ""
	}

	database.Database.Db.
		Model(&models.User{}).
		Where("is_deleted = ? AND role != ?", false, "SUPER-ADMIN").
		Count(&total)

	response := map[string]interface{}{
		"users": users,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  *reqData.Page,
			"limit": *reqData.Limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User List.", response)
}

// RegisterAdmin creates a pre-verified ADMIN account
func RegisterAdmin(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedAdmin").(*struct {
		Name     string `json:"name" validate:"required,min=3"`
		Email    string `json:"email" validate:"required,email"`
		Mobile   string `json:"mobile"`
		Password string `json:"password" validate:"required,min=8"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Check if email already exists
	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		Name:            reqData.Name,
		Email:           reqData.Email,
		Mobile:          reqData.Mobile,
		Password:        string(hashedPassword),
		Role:            "ADMIN",
		IsEmailVerified: true,
	}

	if err := db.Create(&newUser).Error; err != nil {
		log.Printf("Error saving admin to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register admin!", nil)
	}

	newUser.Password = ""

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Admin registered successfully.", newUser)
}

// SetMaintenance records new app maintenance flags
func SetMaintenance(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedMaintenance").(*struct {
		AppMaintenance       bool   `json:"app_maintenance"`
		ForceUpdate          bool   `json:"force_update"`
		IosLatestVersion     string `json:"ios_latest_version"`
		AndroidLatestVersion string `json:"android_latest_version" validate:"required"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	maintenance := models.Maintenance{
		AppMaintenance:       reqData.AppMaintenance,
		ForceUpdate:          reqData.ForceUpdate,
		IosLatestVersion:     reqData.IosLatestVersion,
		AndroidLatestVersion: reqData.AndroidLatestVersion,
	}

	if err := database.Database.Db.Create(&maintenance).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update maintenance!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Maintenance updated successfully.", maintenance)
}

// BlockUser blocks a student account from logging in
func BlockUser(c *fiber.Ctx) error {
	targetID := c.Locals("targetUserID").(int)

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", targetID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if user.Role == "SUPER-ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Cannot block a super admin!", nil)
	}

	user.IsBlocked = true
	user.BlockedUntil = nil
	if err := database.Database.Db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to block user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User blocked successfully.", nil)
}

// UnblockUser lifts a block and clears the failed login counters
func UnblockUser(c *fiber.Ctx) error {
	targetID := c.Locals("targetUserID").(int)

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", targetID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	user.IsBlocked = false
	user.BlockedUntil = nil
	user.FailedLoginAttempts = 0
	if err := database.Database.Db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to unblock user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User unblocked successfully.", nil)
}
