package database

import (
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/Upmanyu201/SchoolManagementSystem/app/models"
)

// GetOutstandingFees returns a student's unpaid fees in due-date order.
func GetOutstandingFees(db *sql.DB, studentID string) ([]*models.Fee, error) {
	query := `SELECT id, student_id, fee_type_id, title, amount, currency, paid, is_overdue,
			  due_date, paid_at, created_at, updated_at
			  FROM fees
			  WHERE student_id = $1 AND paid = false AND deleted_at IS NULL
			  ORDER BY due_date, created_at`

	rows, err := db.Query(query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fees []*models.Fee
	for rows.Next() {
		fee := &models.Fee{}
		var feeTypeID sql.NullString
		var amount string
		err := rows.Scan(
			&fee.ID, &fee.StudentID, &feeTypeID, &fee.Title, &amount, &fee.Currency,
			&fee.Paid, &fee.Overdue, &fee.DueDate, &fee.PaidAt, &fee.CreatedAt, &fee.UpdatedAt,
		)
		if err != nil {
			continue
		}
		if feeTypeID.Valid {
			fee.FeeTypeID = &feeTypeID.String
		}
		fee.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			continue
		}
		fees = append(fees, fee)
	}
	return fees, nil
}

// GetDepositTotalsForFee sums what has already been paid and discounted
// against one fee across all receipts.
func GetDepositTotalsForFee(db *sql.DB, studentID, feeID string) (paid, discount decimal.Decimal, err error) {
	query := `SELECT COALESCE(SUM(paid_amount), 0), COALESCE(SUM(discount), 0)
			  FROM fee_deposits
			  WHERE student_id = $1 AND fee_id = $2`

	var paidStr, discountStr string
	if err = db.QueryRow(query, studentID, feeID).Scan(&paidStr, &discountStr); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if paid, err = decimal.NewFromString(paidStr); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if discount, err = decimal.NewFromString(discountStr); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return paid, discount, nil
}

// GetCarryForwardBalance returns the student's unsettled balance from
// previous sessions, zero when there is none.
func GetCarryForwardBalance(db *sql.DB, studentID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(balance), 0) FROM carry_forwards
			  WHERE student_id = $1 AND settled = false`

	var balanceStr string
	if err := db.QueryRow(query, studentID).Scan(&balanceStr); err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(balanceStr)
}

// GetUnpaidFines returns fines due on or before today, oldest first.
func GetUnpaidFines(db *sql.DB, studentID string) ([]*models.Fine, error) {
	query := `SELECT id, student_id, fine_type, reason, amount, due_date, is_paid, paid_at, created_at, updated_at
			  FROM fines
			  WHERE student_id = $1 AND is_paid = false AND due_date <= CURRENT_DATE AND deleted_at IS NULL
			  ORDER BY due_date, created_at`

	rows, err := db.Query(query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fines []*models.Fine
	for rows.Next() {
		fine := &models.Fine{}
		var amount string
		err := rows.Scan(
			&fine.ID, &fine.StudentID, &fine.FineType, &fine.Reason, &amount,
			&fine.DueDate, &fine.Paid, &fine.PaidAt, &fine.CreatedAt, &fine.UpdatedAt,
		)
		if err != nil {
			continue
		}
		fine.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			continue
		}
		fines = append(fines, fine)
	}
	return fines, nil
}

// MarkOverdueFees flags unpaid fees whose due date has passed. Run daily
// by the scheduler so panel rows and the aggregation see them as overdue.
func MarkOverdueFees(db *sql.DB) (int64, error) {
	query := `UPDATE fees SET is_overdue = true, updated_at = NOW()
			  WHERE paid = false AND is_overdue = false AND due_date < CURRENT_DATE AND deleted_at IS NULL`

	result, err := db.Exec(query)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// FeeStats is the aggregate view shown on the billing dashboard.
type FeeStats struct {
	TotalFees        int             `json:"total_fees"`
	PaidFees         int             `json:"paid_fees"`
	UnpaidFees       int             `json:"unpaid_fees"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	TotalUnpaid      decimal.Decimal `json:"total_unpaid"`
	StudentsWithFees int             `json:"students_with_fees"`
}

func GetFeeStats(db *sql.DB) (*FeeStats, error) {
	query := `
		SELECT
			COUNT(*) as total_fees,
			COUNT(CASE WHEN paid = true THEN 1 END) as paid_fees,
			COUNT(CASE WHEN paid = false THEN 1 END) as unpaid_fees,
			COALESCE(SUM(CASE WHEN paid = true THEN amount END), 0) as total_paid,
			COALESCE(SUM(CASE WHEN paid = false THEN amount END), 0) as total_unpaid,
			COUNT(DISTINCT student_id) as students_with_fees
		FROM fees
		WHERE deleted_at IS NULL
	`

	stats := &FeeStats{TotalPaid: decimal.Zero, TotalUnpaid: decimal.Zero}
	var totalPaid, totalUnpaid string
	err := db.QueryRow(query).Scan(
		&stats.TotalFees, &stats.PaidFees, &stats.UnpaidFees,
		&totalPaid, &totalUnpaid, &stats.StudentsWithFees,
	)
	if err != nil {
		return nil, err
	}
	if stats.TotalPaid, err = decimal.NewFromString(totalPaid); err != nil {
		return nil, err
	}
	if stats.TotalUnpaid, err = decimal.NewFromString(totalUnpaid); err != nil {
		return nil, err
	}
	return stats, nil
}

// parseMoney converts a numeric column scanned as text into a decimal.
func parseMoney(value string) (decimal.Decimal, error) {
	return decimal.NewFromString(value)
}
