package billing

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Upmanyu201/SchoolManagementSystem/app/routes/auth"
)

// SetupBillingRoutes sets up the billing page and its fee panel API.
func SetupBillingRoutes(app *fiber.App, api *API) {
	billing := app.Group("/billing")
	billing.Use(auth.AuthMiddleware)

	billing.Get("/", func(c *fiber.Ctx) error {
		return c.Render("billing/index", fiber.Map{
			"Title":       "Fee Collection - School Billing",
			"CurrentPage": "billing",
			"Currency":    api.Currency,
		})
	})

	billingAPI := app.Group("/api/billing")
	billingAPI.Use(auth.AuthMiddleware)
	api.Register(billingAPI)
}

// Register mounts the billing API handlers on a router group. Kept
// separate from SetupBillingRoutes so tests can mount them without the
// auth middleware.
func (api *API) Register(r fiber.Router) {
	r.Get("/students", api.SearchStudentsAPI)
	r.Get("/students/:id", api.GetStudentAPI)
	r.Get("/students/:id/payable-fees", api.GetPayableFeesAPI)
	r.Get("/students/:id/deposits", api.GetStudentDepositsAPI)
	r.Get("/receipts/:receipt_no", api.GetReceiptAPI)
	r.Get("/stats", api.GetStatsAPI)

	r.Post("/panels", api.OpenPanelAPI)
	r.Get("/panels/:id", api.GetPanelAPI)
	r.Post("/panels/:id/select", api.SelectFeeAPI)
	r.Post("/panels/:id/discount", api.SetDiscountAPI)
	r.Post("/panels/:id/submit", api.SubmitPaymentAPI)
	r.Delete("/panels/:id", api.ClosePanelAPI)
}
