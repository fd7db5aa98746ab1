package middleware

import (
	"strings"

	"lms/database"
	"lms/models"

	"github.com/gofiber/fiber/v2"
)

// MaintenanceGuard rejects requests while app maintenance is on. Admin and
// maintenance-status routes stay reachable so the flag can be turned off.
func MaintenanceGuard(c *fiber.Ctx) error {
	path := c.Path()
	if strings.HasPrefix(path, "/admin") ||
		strings.HasPrefix(path, "/super-admin") ||
		strings.HasPrefix(path, "/maintenance") {
		return c.Next()
	}

	var maintenance models.Maintenance
	if err := database.Database.Db.Where("is_deleted = ?", false).
		Order("created_at desc").First(&maintenance).Error; err != nil {
		// No maintenance record means the app is open
		return c.Next()
	}

	if maintenance.AppMaintenance {
		return JsonResponse(c, fiber.StatusServiceUnavailable, false, "Application is under maintenance. Please try again later.", nil)
	}

	return c.Next()
}
