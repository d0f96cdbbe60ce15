package main

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/template/html/v2"

	"github.com/Upmanyu201/SchoolManagementSystem/app/config"
	"github.com/Upmanyu201/SchoolManagementSystem/app/database"
	"github.com/Upmanyu201/SchoolManagementSystem/app/routes/auth"
	"github.com/Upmanyu201/SchoolManagementSystem/app/routes/backup"
	"github.com/Upmanyu201/SchoolManagementSystem/app/routes/billing"
	"github.com/Upmanyu201/SchoolManagementSystem/app/services"
)

// customErrorHandler handles HTTP errors with custom templates
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// API requests always get a JSON envelope
	if len(c.Path()) >= 4 && c.Path()[:4] == "/api" {
		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
			"code":    code,
		})
	}

	switch code {
	case 404:
		return c.Status(404).Render("error", fiber.Map{
			"Title":        "Page Not Found - School Billing",
			"CurrentPage":  "",
			"ErrorCode":    "404",
			"ErrorTitle":   "Page Not Found",
			"ErrorMessage": "The page you are looking for does not exist.",
		})
	case 403:
		return c.Status(403).Render("error", fiber.Map{
			"Title":        "Access Forbidden - School Billing",
			"CurrentPage":  "",
			"ErrorCode":    "403",
			"ErrorTitle":   "Access Forbidden",
			"ErrorMessage": "You don't have permission to access this resource.",
		})
	case 401:
		return c.Status(401).Render("error", fiber.Map{
			"Title":        "Unauthorized - School Billing",
			"CurrentPage":  "",
			"ErrorCode":    "401",
			"ErrorTitle":   "Unauthorized",
			"ErrorMessage": "Please log in to access this resource.",
		})
	default:
		return c.Status(code).Render("error", fiber.Map{
			"Title":        "Error - School Billing",
			"CurrentPage":  "",
			"ErrorCode":    code,
			"ErrorTitle":   "An Error Occurred",
			"ErrorMessage": err.Error(),
		})
	}
}

func main() {
	// Set global time zone to East Africa Time
	loc, err := time.LoadLocation("Africa/Kampala")
	if err != nil {
		log.Printf("Warning: Failed to load Africa/Kampala location, falling back to UTC+3: %v", err)
		time.Local = time.FixedZone("EAT", 3*60*60)
	} else {
		time.Local = loc
	}

	// Load configuration and connect to the database
	config.Load()
	defer config.GetDB().Close()

	// Run database migrations
	if err := database.RunMigrations(config.GetDB()); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Start background scheduler
	services.StartScheduler(config.GetDB())

	// Initialize template engine
	engine := html.New("./app/templates", ".html")
	engine.AddFunc("json", func(v interface{}) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	})

	app := fiber.New(fiber.Config{
		Views:             engine,
		ViewsLayout:       "layouts/main",
		PassLocalsToViews: true,
		ErrorHandler:      customErrorHandler,
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	// Static files
	app.Static("/static", "./static")

	// Routes
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/billing/")
	})

	auth.SetupAuthRoutes(app)

	billingAPI := billing.NewAPI(config.GetDB(), config.AppConfig.Currency)
	billing.SetupBillingRoutes(app, billingAPI)

	backupService := services.NewBackupService(config.GetDB(), config.AppConfig.BackupDir)
	backup.SetupBackupRoutes(app, backup.NewAPI(config.GetDB(), backupService))

	// Catch-all route for 404 errors (must be last)
	app.Use("*", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Page not found")
	})

	log.Println("Server starting on :" + config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
