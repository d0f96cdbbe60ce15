package services

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Upmanyu201/SchoolManagementSystem/app/database"
	"github.com/Upmanyu201/SchoolManagementSystem/app/feepanel"
	"github.com/Upmanyu201/SchoolManagementSystem/app/models"
)

var (
	ErrNoItemsSelected  = errors.New("no fees selected for payment")
	ErrNothingPayable   = errors.New("selected fees have nothing payable")
	ErrBadPaymentMode   = errors.New("unknown payment mode")
	ErrMissingProcessor = errors.New("payment has no processing user")
)

// PaymentDetails carries the how/when/who of one payment submission.
type PaymentDetails struct {
	Mode          models.PaymentMode
	TransactionNo string
	PaymentSource string
	ProcessedBy   string
	DepositDate   time.Time
}

// PaymentResult is what the bursar gets back after a processed payment.
type PaymentResult struct {
	ReceiptNo string          `json:"receipt_no"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

// PaymentService turns a panel's selected items into deposit rows.
type PaymentService struct {
	DB *sql.DB
}

func NewPaymentService(db *sql.DB) *PaymentService {
	return &PaymentService{DB: db}
}

// Process records one payment atomically and returns the receipt. Items
// come straight from the panel session, so their discounts are already
// clamped; the clamp is applied once more here because nothing past this
// point may ever observe discount > amount.
func (s *PaymentService) Process(studentID string, items []feepanel.SelectedItem, details PaymentDetails) (*PaymentResult, error) {
	write, result, err := BuildPaymentWrite(studentID, items, details)
	if err != nil {
		return nil, err
	}
	if err := database.RecordPayment(s.DB, write); err != nil {
		return nil, err
	}
	return result, nil
}

// BuildPaymentWrite validates a submission and derives the deposit rows
// and settlement flags without touching the database.
func BuildPaymentWrite(studentID string, items []feepanel.SelectedItem, details PaymentDetails) (*database.PaymentWrite, *PaymentResult, error) {
	if len(items) == 0 {
		return nil, nil, ErrNoItemsSelected
	}
	if !details.Mode.Valid() {
		return nil, nil, ErrBadPaymentMode
	}
	if strings.TrimSpace(details.ProcessedBy) == "" {
		return nil, nil, ErrMissingProcessor
	}
	if details.DepositDate.IsZero() {
		details.DepositDate = time.Now()
	}

	receiptNo := NewReceiptNo(details.DepositDate)
	write := &database.PaymentWrite{StudentID: studentID}
	total := decimal.Zero
	count := 0

	for _, item := range items {
		if !item.Amount.IsPositive() {
			continue
		}
		discount := item.Discount
		if discount.IsNegative() {
			discount = decimal.Zero
		}
		if discount.GreaterThan(item.Amount) {
			discount = item.Amount
		}
		paidAmount := item.Amount.Sub(discount)

		deposit := &models.FeeDeposit{
			StudentID:     studentID,
			Amount:        item.Amount,
			Discount:      discount,
			PaidAmount:    paidAmount,
			ReceiptNo:     receiptNo,
			PaymentMode:   details.Mode,
			TransactionNo: details.TransactionNo,
			PaymentSource: details.PaymentSource,
			ProcessedBy:   details.ProcessedBy,
			DepositDate:   details.DepositDate,
		}

		if item.ID == CarryForwardID {
			deposit.Note = "Carry Forward Payment"
			write.SettleCarryForward = true
		} else if fineID, ok := IsFineID(item.ID); ok {
			deposit.Note = "Fine Payment"
			fee := item.ID
			deposit.FeeID = &fee
			write.SettledFineIDs = append(write.SettledFineIDs, fineID)
		} else {
			deposit.Note = "Fee Payment"
			fee := item.ID
			deposit.FeeID = &fee
			// Panel amounts are remaining balances, so a full line
			// payment settles the fee even with a discount applied.
			write.SettledFeeIDs = append(write.SettledFeeIDs, item.ID)
		}

		write.Deposits = append(write.Deposits, deposit)
		total = total.Add(paidAmount)
		count++
	}

	if count == 0 || !total.IsPositive() {
		return nil, nil, ErrNothingPayable
	}

	return write, &PaymentResult{ReceiptNo: receiptNo, Total: total, ItemCount: count}, nil
}

// NewReceiptNo builds a receipt number like RCP-20260827-1A2B3C.
func NewReceiptNo(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return "RCP-" + at.Format("20060102") + "-" + suffix
}
