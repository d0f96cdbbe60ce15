package billing

import (
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Upmanyu201/SchoolManagementSystem/app/database"
	"github.com/Upmanyu201/SchoolManagementSystem/app/feepanel"
	"github.com/Upmanyu201/SchoolManagementSystem/app/models"
	"github.com/Upmanyu201/SchoolManagementSystem/app/services"
)

// FeeSource supplies the payable fee snapshot a panel opens with.
type FeeSource interface {
	PayableFees(studentID string) ([]feepanel.FeeRecord, error)
}

// PaymentProcessor settles a panel's selected items into deposit rows.
type PaymentProcessor interface {
	Process(studentID string, items []feepanel.SelectedItem, details services.PaymentDetails) (*services.PaymentResult, error)
}

// API holds the collaborators of the billing endpoints. Handlers are
// methods so tests can swap the fee source and payment processor.
type API struct {
	DB       *sql.DB
	Panels   *feepanel.Manager
	Fees     FeeSource
	Payments PaymentProcessor
	Currency string
}

func NewAPI(db *sql.DB, currency string) *API {
	return &API{
		DB:       db,
		Panels:   feepanel.NewManager(),
		Fees:     services.NewFeeService(db),
		Payments: services.NewPaymentService(db),
		Currency: currency,
	}
}

// SearchStudentsAPI powers the student picker on the billing page.
func (api *API) SearchStudentsAPI(c *fiber.Ctx) error {
	search := c.Query("search")
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	students, err := database.SearchStudents(api.DB, search, limit, offset)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to search students"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    students,
	})
}

// GetPayableFeesAPI returns the raw fee snapshot for one student, the
// same records a panel would open with.
func (api *API) GetPayableFeesAPI(c *fiber.Ctx) error {
	studentID := c.Params("id")

	records, err := api.Fees.PayableFees(studentID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to load payable fees"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    records,
	})
}

// GetStudentAPI returns one student's record.
func (api *API) GetStudentAPI(c *fiber.Ctx) error {
	student, err := database.GetStudentByID(api.DB, c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Student not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    student,
	})
}

// GetStudentDepositsAPI returns a student's payment history, newest
// first.
func (api *API) GetStudentDepositsAPI(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	deposits, err := database.GetStudentDeposits(api.DB, c.Params("id"), limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to load payment history"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    deposits,
	})
}

// GetReceiptAPI returns the deposit lines recorded under one receipt
// number.
func (api *API) GetReceiptAPI(c *fiber.Ctx) error {
	deposits, err := database.GetDepositsByReceipt(api.DB, c.Params("receipt_no"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to load receipt"})
	}
	if len(deposits) == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "Receipt not found"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    deposits,
	})
}

// OpenPanelAPI opens a fee panel session for a student and returns its
// id with the initial rendered view.
func (api *API) OpenPanelAPI(c *fiber.Ctx) error {
	type OpenPanelRequest struct {
		StudentID       string `json:"student_id"`
		AdmissionNumber string `json:"admission_number"`
		DiscountEnabled bool   `json:"discount_enabled"`
	}

	var req OpenPanelRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}

	studentID := req.StudentID
	var student *models.Student
	if studentID == "" {
		if req.AdmissionNumber == "" {
			return c.Status(400).JSON(fiber.Map{"error": "student_id or admission_number is required"})
		}
		found, err := database.GetStudentByAdmissionNumber(api.DB, req.AdmissionNumber)
		if err != nil {
			if err == sql.ErrNoRows {
				return c.Status(404).JSON(fiber.Map{"error": "Student not found"})
			}
			return c.Status(500).JSON(fiber.Map{"error": "Database error"})
		}
		student = found
		studentID = found.ID
	}

	records, err := api.Fees.PayableFees(studentID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to load payable fees"})
	}

	panelID, session, err := api.Panels.Open(records, feepanel.Config{
		Owner:           studentID,
		DiscountEnabled: req.DiscountEnabled,
		Currency:        api.Currency,
	})
	if err != nil {
		var verr *feepanel.ValidationError
		if errors.As(err, &verr) {
			return c.Status(422).JSON(fiber.Map{"error": verr.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to open panel"})
	}

	data := fiber.Map{
		"panel_id": panelID,
		"view":     session.View(),
	}
	if student != nil {
		data["student"] = student
	}

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// GetPanelAPI returns the current rendered state of an open panel.
func (api *API) GetPanelAPI(c *fiber.Ctx) error {
	session, ok := api.Panels.Get(c.Params("id"))
	if !ok {
		return c.Status(404).JSON(fiber.Map{"error": "Panel not found"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    session.View(),
	})
}

// SelectFeeAPI toggles one fee row's selection on an open panel.
func (api *API) SelectFeeAPI(c *fiber.Ctx) error {
	type SelectRequest struct {
		FeeID    string `json:"fee_id"`
		Selected bool   `json:"selected"`
	}

	var req SelectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if req.FeeID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "fee_id is required"})
	}

	session, ok := api.Panels.Get(c.Params("id"))
	if !ok {
		return c.Status(404).JSON(fiber.Map{"error": "Panel not found"})
	}

	session.ToggleFee(req.FeeID, req.Selected)

	return c.JSON(fiber.Map{
		"success": true,
		"data":    session.View(),
	})
}

// SetDiscountAPI stores one fee row's discount on an open panel. When
// the entered value exceeds the fee amount the response carries a
// warning with the clamped value the panel kept.
func (api *API) SetDiscountAPI(c *fiber.Ctx) error {
	type DiscountRequest struct {
		FeeID string `json:"fee_id"`
		Value string `json:"value"`
	}

	var req DiscountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if req.FeeID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "fee_id is required"})
	}

	session, ok := api.Panels.Get(c.Params("id"))
	if !ok {
		return c.Status(404).JSON(fiber.Map{"error": "Panel not found"})
	}
	if !session.DiscountEnabled() {
		return c.Status(403).JSON(fiber.Map{"error": "Discounts are not enabled on this panel"})
	}

	notice := session.EditDiscount(req.FeeID, req.Value)

	resp := fiber.Map{
		"success": true,
		"data":    session.View(),
	}
	if notice != nil {
		resp["warning"] = fiber.Map{
			"fee_id":        notice.ItemID,
			"message":       "Discount cannot exceed the fee amount",
			"clamped_value": notice.Clamped.StringFixed(2),
		}
	}

	return c.JSON(resp)
}

// SubmitPaymentAPI records a payment for the panel's selected fees and
// tears the panel down on success.
func (api *API) SubmitPaymentAPI(c *fiber.Ctx) error {
	type SubmitRequest struct {
		PaymentMode   string `json:"payment_mode"`
		TransactionNo string `json:"transaction_no"`
		PaymentSource string `json:"payment_source"`
	}

	var req SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}

	panelID := c.Params("id")
	session, ok := api.Panels.Get(panelID)
	if !ok {
		return c.Status(404).JSON(fiber.Map{"error": "Panel not found"})
	}

	processedBy, _ := c.Locals("user_id").(string)
	details := services.PaymentDetails{
		Mode:          models.PaymentMode(req.PaymentMode),
		TransactionNo: req.TransactionNo,
		PaymentSource: req.PaymentSource,
		ProcessedBy:   processedBy,
		DepositDate:   time.Now(),
	}

	result, err := api.Payments.Process(session.Owner(), session.SelectedItems(), details)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoItemsSelected),
			errors.Is(err, services.ErrNothingPayable),
			errors.Is(err, services.ErrBadPaymentMode):
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, services.ErrMissingProcessor):
			return c.Status(401).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(500).JSON(fiber.Map{"error": "Failed to record payment"})
		}
	}

	// The panel's snapshot is stale once the payment lands.
	api.Panels.Close(panelID)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Payment recorded successfully",
		"data":    result,
	})
}

// ClosePanelAPI discards an open panel without submitting anything.
func (api *API) ClosePanelAPI(c *fiber.Ctx) error {
	api.Panels.Close(c.Params("id"))

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Panel closed",
	})
}

// GetStatsAPI returns the billing dashboard aggregates.
func (api *API) GetStatsAPI(c *fiber.Ctx) error {
	stats, err := database.GetFeeStats(api.DB)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch fee statistics"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}
