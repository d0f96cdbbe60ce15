package backup

import (
	"database/sql"
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/Upmanyu201/SchoolManagementSystem/app/database"
	"github.com/Upmanyu201/SchoolManagementSystem/app/services"
)

// API holds the backup endpoints' collaborators.
type API struct {
	DB      *sql.DB
	Service *services.BackupService
}

func NewAPI(db *sql.DB, service *services.BackupService) *API {
	return &API{DB: db, Service: service}
}

// CreateBackupAPI launches a backup job and returns its id for polling.
func (api *API) CreateBackupAPI(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	job, err := api.Service.StartBackup(userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to start backup"})
	}

	return c.Status(202).JSON(fiber.Map{
		"success": true,
		"data":    job,
	})
}

// GetJobStatusAPI reports the current state of a backup or restore job.
func (api *API) GetJobStatusAPI(c *fiber.Ctx) error {
	job, ok := api.Service.Job(c.Params("id"))
	if !ok {
		return c.Status(404).JSON(fiber.Map{"error": "Job not found"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    job,
	})
}

// GetHistoryAPI lists past backups, newest first.
func (api *API) GetHistoryAPI(c *fiber.Ctx) error {
	records, err := database.ListBackupRecords(api.DB)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to list backups"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    records,
	})
}

// DownloadBackupAPI streams one archive file.
func (api *API) DownloadBackupAPI(c *fiber.Ctx) error {
	record, err := database.GetBackupRecord(api.DB, c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Backup not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}

	if _, err := os.Stat(record.FilePath); err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Archive file is missing"})
	}

	c.Set("Content-Disposition", "attachment; filename="+record.FileName)
	return c.SendFile(record.FilePath)
}

// RestoreBackupAPI launches a restore job replaying one archive.
func (api *API) RestoreBackupAPI(c *fiber.Ctx) error {
	job, err := api.Service.StartRestore(c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Backup not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to start restore"})
	}

	return c.Status(202).JSON(fiber.Map{
		"success": true,
		"data":    job,
	})
}

// DeleteBackupAPI removes a backup record and its archive file.
func (api *API) DeleteBackupAPI(c *fiber.Ctx) error {
	record, err := database.GetBackupRecord(api.DB, c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Backup not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}

	if err := database.DeleteBackupRecord(api.DB, record.ID); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete backup"})
	}
	// A missing archive file is fine, the record is already gone.
	_ = os.Remove(record.FilePath)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Backup deleted",
	})
}
