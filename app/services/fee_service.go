package services

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"github.com/Upmanyu201/SchoolManagementSystem/app/database"
	"github.com/Upmanyu201/SchoolManagementSystem/app/feepanel"
)

// Panel row ids for the two synthetic line kinds. Fines are prefixed so
// payment processing can route them back to the fines table.
const (
	CarryForwardID = "carry_forward"
	FinePrefix     = "fine_"
)

// FeeService assembles the payable fee snapshot a panel opens with.
type FeeService struct {
	DB *sql.DB
}

func NewFeeService(db *sql.DB) *FeeService {
	return &FeeService{DB: db}
}

// PayableFees builds the fee records for one student's panel: the
// carry-forward balance from previous sessions, every outstanding fee's
// remaining balance, and unpaid fines already due.
func (s *FeeService) PayableFees(studentID string) ([]feepanel.FeeRecord, error) {
	records := make([]feepanel.FeeRecord, 0)

	carryForward, err := database.GetCarryForwardBalance(s.DB, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load carry forward: %v", err)
	}
	if carryForward.IsPositive() {
		records = append(records, feepanel.FeeRecord{
			ID:          CarryForwardID,
			DisplayName: "Carry Forward - Previous Session Balance",
			Amount:      carryForward,
			IsOverdue:   true,
		})
	}

	fees, err := database.GetOutstandingFees(s.DB, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load fees: %v", err)
	}
	for _, fee := range fees {
		paid, discount, err := database.GetDepositTotalsForFee(s.DB, studentID, fee.ID)
		if err != nil {
			log.Printf("fee_service: deposit totals for fee %s: %v", fee.ID, err)
			continue
		}
		remaining := RemainingBalance(fee.Amount, paid, discount)
		if !remaining.IsPositive() {
			continue
		}
		records = append(records, feepanel.FeeRecord{
			ID:          fee.ID,
			DisplayName: fee.Title,
			Amount:      remaining,
			IsOverdue:   fee.Overdue,
			DueDate:     fee.DueDate.Format("2006-01-02"),
		})
	}

	fines, err := database.GetUnpaidFines(s.DB, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load fines: %v", err)
	}
	for _, fine := range fines {
		records = append(records, feepanel.FeeRecord{
			ID:          FinePrefix + fine.ID,
			DisplayName: fine.DisplayName(),
			Amount:      fine.Amount,
			IsOverdue:   true,
			DueDate:     fine.DueDate.Format("2006-01-02"),
		})
	}

	return records, nil
}

// Stats returns the billing dashboard aggregates.
func (s *FeeService) Stats() (*database.FeeStats, error) {
	return database.GetFeeStats(s.DB)
}

// RemainingBalance is what is still owed on a fee after past payments and
// discounts. Overpayment clamps to zero rather than going negative.
func RemainingBalance(amount, paid, discount decimal.Decimal) decimal.Decimal {
	remaining := amount.Sub(paid).Sub(discount)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// IsFineID reports whether a panel row id refers to a fine and returns
// the bare fine id.
func IsFineID(id string) (string, bool) {
	if len(id) > len(FinePrefix) && id[:len(FinePrefix)] == FinePrefix {
		return id[len(FinePrefix):], true
	}
	return "", false
}
