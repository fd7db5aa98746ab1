package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
)

// GetCourseEnrollments lists enrollments of a course with student details (admin only)
func GetCourseEnrollments(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var crs courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, _ := c.Locals("validatedCourseList").(*struct {
		Page  *int `json:"page"`
		Limit *int `json:"limit"`
	})

	page := 1
	limit := 10
	if reqData != nil && reqData.Page != nil {
		page = *reqData.Page
	}
	if reqData != nil && reqData.Limit != nil {
		limit = *reqData.Limit
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("course_id = ? AND is_deleted = ?", courseID, false)

	var total int64
	db.Count(&total)

	var enrollments []courseModels.Enrollment
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	type EnrollmentWithStudent struct {
		courseModels.Enrollment
		StudentName  string `json:"student_name"`
		StudentEmail string `json:"student_email"`
	}

	result := make([]EnrollmentWithStudent, len(enrollments))
	for i, e := range enrollments {
		var student models.User
		database.Database.Db.Select("name", "email").Where("id = ?", e.UserID).First(&student)
		result[i] = EnrollmentWithStudent{
			Enrollment:   e,
			StudentName:  student.Name,
			StudentEmail: student.Email,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": result,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetStudentProgress shows a single student's progress in a course (admin only)
func GetStudentProgress(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)
	studentID := c.Locals("studentID").(int)

	var student models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", studentID, false).First(&student).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Student not found!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", studentID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Student not enrolled in this course!", nil)
	}

	var completions []courseModels.ContentCompletion
	database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", studentID, courseID, false).
		Order("completed_at asc").Find(&completions)

	var cert courseModels.Certificate
	hasCertificate := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", studentID, courseID, false).First(&cert).Error == nil

	response := fiber.Map{
		"student_name":  student.Name,
		"student_email": student.Email,
		"enrollment":    enrollment,
		"completions":   completions,
	}
	if hasCertificate {
		response["certificate"] = cert
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Student progress fetched successfully!", response)
}

// GetDashboardStats aggregates platform numbers for the admin dashboard
func GetDashboardStats(c *fiber.Ctx) error {
	db := database.Database.Db

	var totalStudents int64
	db.Model(&models.User{}).Where("role = ? AND is_deleted = ?", "USER", false).Count(&totalStudents)

	var totalCourses int64
	db.Model(&courseModels.Course{}).Where("is_deleted = ?", false).Count(&totalCourses)

	var publishedCourses int64
	db.Model(&courseModels.Course{}).Where("is_deleted = ? AND is_published = ?", false, true).Count(&publishedCourses)

	var totalEnrollments int64
	db.Model(&courseModels.Enrollment{}).Where("is_deleted = ?", false).Count(&totalEnrollments)

	var completedEnrollments int64
	db.Model(&courseModels.Enrollment{}).Where("is_deleted = ? AND status = ?", false, "COMPLETED").Count(&completedEnrollments)

	var issuedCertificates int64
	db.Model(&courseModels.Certificate{}).Where("is_deleted = ?", false).Count(&issuedCertificates)

	var pendingCertificates int64
	db.Model(&courseModels.CertificateJob{}).Where("is_deleted = ? AND status = ?", false, "PENDING").Count(&pendingCertificates)

	// This month's activity
	monthStart := now.BeginningOfMonth()

	var newStudentsThisMonth int64
	db.Model(&models.User{}).Where("role = ? AND is_deleted = ? AND created_at >= ?", "USER", false, monthStart).Count(&newStudentsThisMonth)

	var enrollmentsThisMonth int64
	db.Model(&courseModels.Enrollment{}).Where("is_deleted = ? AND created_at >= ?", false, monthStart).Count(&enrollmentsThisMonth)

	var completionsThisMonth int64
	db.Model(&courseModels.Enrollment{}).Where("is_deleted = ? AND status = ? AND completed_at >= ?", false, "COMPLETED", monthStart).Count(&completionsThisMonth)

	// Today's activity
	dayStart := now.BeginningOfDay()

	var completionsToday int64
	db.Model(&courseModels.ContentCompletion{}).Where("is_deleted = ? AND completed_at >= ?", false, dayStart).Count(&completionsToday)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched successfully!", fiber.Map{
		"total_students":        totalStudents,
		"total_courses":         totalCourses,
		"published_courses":     publishedCourses,
		"total_enrollments":     totalEnrollments,
		"completed_enrollments": completedEnrollments,
		"issued_certificates":   issuedCertificates,
		"pending_certificates":  pendingCertificates,
		"this_month": fiber.Map{
			"new_students": newStudentsThisMonth,
			"enrollments":  enrollmentsThisMonth,
			"completions":  completionsThisMonth,
		},
		"today": fiber.Map{
			"content_completions": completionsToday,
		},
	})
}

// GetIssuedCertificates lists all issued certificates (admin only)
func GetIssuedCertificates(c *fiber.Ctx) error {
	reqData, _ := c.Locals("validatedCourseList").(*struct {
		Page  *int `json:"page"`
		Limit *int `json:"limit"`
	})

	page := 1
	limit := 10
	if reqData != nil && reqData.Page != nil {
		page = *reqData.Page
	}
	if reqData != nil && reqData.Limit != nil {
		limit = *reqData.Limit
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&courseModels.Certificate{}).Where("is_deleted = ?", false)

	var total int64
	db.Count(&total)

	var certificates []courseModels.Certificate
	if err := db.Offset(offset).Limit(limit).Order("issued_at desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	type CertificateRow struct {
		courseModels.Certificate
		StudentName string `json:"student_name"`
		CourseName  string `json:"course_name"`
	}

	result := make([]CertificateRow, len(certificates))
	for i, cert := range certificates {
		var student models.User
		database.Database.Db.Select("name").Where("id = ?", cert.UserID).First(&student)
		var crs courseModels.Course
		database.Database.Db.Select("title").Where("id = ?", cert.CourseID).First(&crs)
		result[i] = CertificateRow{
			Certificate: cert,
			StudentName: student.Name,
			CourseName:  crs.Title,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": result,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}
