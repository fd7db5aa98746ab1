package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Course listing and details (published courses only)
	courseGroup.Get("/list", middleware.JWTMiddleware, validators.CourseList(), controllers.GetAllCourses)
	courseGroup.Get("/:course_id", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseDetails)
	courseGroup.Get("/:course_id/reviews", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseReviews)

	// Enrollment
	courseGroup.Post("/:course_id/enroll", middleware.JWTMiddleware, validators.CourseID(), controllers.EnrollInCourse)

	// Content viewing (for enrolled users)
	courseGroup.Get("/:course_id/content", middleware.JWTMiddleware, validators.CourseContentList(), controllers.GetCourseContent)
	courseGroup.Get("/:course_id/module/:module_id/day/:day", middleware.JWTMiddleware, validators.DayContent(), controllers.GetDayContent)

	// Content completion
	courseGroup.Post("/:course_id/content/:content_id/complete", middleware.JWTMiddleware, validators.ContentComplete(), controllers.MarkContentComplete)

	// MCQ submission
	courseGroup.Post("/:course_id/content/:content_id/mcq/submit", middleware.JWTMiddleware, validators.ContentComplete(), controllers.SubmitMCQAnswer)

	// Progress tracking
	courseGroup.Get("/:course_id/progress", middleware.JWTMiddleware, validators.CourseID(), controllers.GetUserProgress)

	// Reviews
	courseGroup.Post("/:course_id/review", middleware.JWTMiddleware, validators.Review(), controllers.CreateCourseReview)

	// Certificate request and lookup
	courseGroup.Post("/:course_id/certificate/request", middleware.JWTMiddleware, validators.CourseID(), controllers.GetOrIssueCertificate)

	userGroup := app.Group("/user")
	userGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.GetUserEnrollmentsList)
	userGroup.Get("/certificates", middleware.JWTMiddleware, controllers.GetUserCertificates)

	// Public verification, no auth
	app.Get("/certificate/verify/:number", validators.CertificateNumber(), controllers.VerifyCertificate)
}
