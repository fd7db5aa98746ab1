package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up course management routes for admins
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/course", middleware.JWTMiddleware, middleware.RequireAdmin)

	// Course CRUD
	adminGroup.Get("/list", validators.CourseList(), controllers.GetAdminCourses)
	adminGroup.Post("/create", validators.CreateCourse(), controllers.CreateCourse)
	adminGroup.Patch("/:course_id", validators.UpdateCourse(), controllers.UpdateCourse)
	adminGroup.Post("/:course_id/publish", validators.CourseID(), controllers.PublishCourse)
	adminGroup.Post("/:course_id/unpublish", validators.CourseID(), controllers.UnpublishCourse)
	adminGroup.Delete("/:course_id", validators.CourseID(), controllers.DeleteCourse)

	// Module CRUD
	adminGroup.Get("/:course_id/modules", validators.CourseID(), controllers.GetCourseModules)
	adminGroup.Post("/:course_id/module", validators.CreateModule(), controllers.CreateModule)
	adminGroup.Patch("/:course_id/module/:module_id", validators.UpdateModule(), controllers.UpdateModule)
	adminGroup.Delete("/:course_id/module/:module_id", validators.ModuleID(), controllers.DeleteModule)

	// Content CRUD and publishing
	adminGroup.Post("/:course_id/content", validators.CreateContent(), controllers.CreateContent)
	adminGroup.Patch("/:course_id/content/:content_id", validators.UpdateContent(), controllers.UpdateContent)
	adminGroup.Post("/:course_id/content/:content_id/publish", validators.ContentID(), controllers.PublishContent)
	adminGroup.Post("/:course_id/content/:content_id/unpublish", validators.ContentID(), controllers.UnpublishContent)
	adminGroup.Delete("/:course_id/content/:content_id", validators.ContentID(), controllers.DeleteContent)

	// MCQ options
	adminGroup.Put("/:course_id/content/:content_id/mcq/options", validators.SetMCQOptions(), controllers.SetMCQOptions)

	// Monitoring
	adminGroup.Get("/:course_id/enrollments", validators.CourseID(), controllers.GetCourseEnrollments)
	adminGroup.Get("/:course_id/student/:student_id/progress", validators.StudentProgress(), controllers.GetStudentProgress)

	statsGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.RequireAdmin)
	statsGroup.Get("/dashboard", controllers.GetDashboardStats)
	statsGroup.Get("/certificates", validators.CourseList(), controllers.GetIssuedCertificates)
}
