package backup

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Upmanyu201/SchoolManagementSystem/app/routes/auth"
)

// SetupBackupRoutes sets up the backup page and API. Everything here is
// admin only.
func SetupBackupRoutes(app *fiber.App, api *API) {
	backup := app.Group("/backup")
	backup.Use(auth.AuthMiddleware)
	backup.Use(auth.RoleMiddleware("admin"))

	backup.Get("/", func(c *fiber.Ctx) error {
		return c.Render("backup/index", fiber.Map{
			"Title":       "Backup & Restore - School Billing",
			"CurrentPage": "backup",
		})
	})

	backupAPI := app.Group("/api/backup")
	backupAPI.Use(auth.AuthMiddleware)
	backupAPI.Use(auth.RoleMiddleware("admin"))

	backupAPI.Post("/create", api.CreateBackupAPI)
	backupAPI.Get("/status/:id", api.GetJobStatusAPI)
	backupAPI.Get("/history", api.GetHistoryAPI)
	backupAPI.Get("/download/:id", api.DownloadBackupAPI)
	backupAPI.Post("/restore/:id", api.RestoreBackupAPI)
	backupAPI.Delete("/:id", api.DeleteBackupAPI)
}
