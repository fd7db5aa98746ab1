package controllers

import (
	"errors"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/services/certificate"

	"github.com/gofiber/fiber/v2"
)

// GetOrIssueCertificate is the explicit issuance path: it returns the
// existing certificate or issues one synchronously for a completed course.
func GetOrIssueCertificate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	cert, err := certificateService.GetOrIssue(userID, uint(courseID))
	if err != nil {
		switch {
		case errors.Is(err, certificate.ErrEnrollmentNotFound):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
		case errors.Is(err, certificate.ErrCourseNotCompleted):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Please complete the course before requesting a certificate!", nil)
		case errors.Is(err, certificate.ErrArtifactUnavailable):
			return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Certificate service unavailable, please try again later!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to issue certificate!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate fetched successfully!", cert)
}

// GetUserCertificates gets all certificates for the current user
func GetUserCertificates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	type CertificateWithCourse struct {
		courseModels.Certificate
		CourseName string `json:"course_name"`
	}

	var certificates []courseModels.Certificate
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).Order("issued_at desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	result := make([]CertificateWithCourse, len(certificates))
	for i, cert := range certificates {
		var crs courseModels.Course
		database.Database.Db.Where("id = ?", cert.CourseID).First(&crs)
		result[i] = CertificateWithCourse{
			Certificate: cert,
			CourseName:  crs.Title,
		}
	}

	// Also report completions still waiting on the renderer
	var pendingJobs int64
	database.Database.Db.Model(&courseModels.CertificateJob{}).
		Where("user_id = ? AND status = ? AND is_deleted = ?", userID, "PENDING", false).Count(&pendingJobs)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates":         result,
		"pending_certificates": pendingJobs,
	})
}

// VerifyCertificate is the public check of a certificate number
func VerifyCertificate(c *fiber.Ctx) error {
	number := c.Locals("certificateNumber").(string)

	result, err := certificateService.Verify(number)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to verify certificate!", nil)
	}

	if !result.Valid {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", result)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate verified successfully!", result)
}
