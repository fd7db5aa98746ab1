package main

import (
	"log"

	"lms/config"
	courseControllers "lms/controllers/course"
	"lms/database"
	"lms/middleware"
	"lms/routers/authRoutes"
	"lms/routers/courseRoutes"
	"lms/routers/superAdmin"
	"lms/routers/supportRoutes"
	"lms/routers/userRoutes"
	"lms/services/certificate"
	"lms/services/progress"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	// Wire the progress and certificate services
	var store certificate.Store
	if config.AppConfig.MediaApiURL != "" {
		store = certificate.NewMediaStore(config.AppConfig.MediaApiURL, config.AppConfig.MediaApiKey)
	} else {
		store = certificate.NewLocalStore(config.AppConfig.UploadDir, config.AppConfig.UploadBaseURL)
	}

	progressService := progress.NewService(database.Database.Db)
	certificateService := certificate.NewService(
		database.Database.Db,
		certificate.NewHTMLRenderer(),
		store,
		config.AppConfig.CertificateIssuer,
	)
	certificateService.SetNotifier(utils.SendCertificateEmail)
	courseControllers.Setup(progressService, certificateService)

	// Retry certificates that could not be rendered on first attempt
	utils.StartCertificateScheduler(certificateService)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve uploaded files (profile images, locally stored certificates)
	app.Static("/uploads", config.AppConfig.UploadDir)

	app.Use(middleware.MaintenanceGuard)

	authRoutes.SetupAuthRoutes(app)
	userRoutes.SetupUserRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)
	supportRoutes.SetupSupportRoutes(app)
	superAdmin.SetupSuperAdminRoutes(app)

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
