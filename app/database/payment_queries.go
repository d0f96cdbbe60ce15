package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Upmanyu201/SchoolManagementSystem/app/models"
)

// PaymentWrite is everything one processed payment changes, applied in a
// single transaction: the deposit rows plus the fees/fines they settle.
type PaymentWrite struct {
	StudentID          string
	Deposits           []*models.FeeDeposit
	SettledFeeIDs      []string
	SettledFineIDs     []string
	SettleCarryForward bool
}

// RecordPayment persists one payment atomically. Either every deposit row
// lands and every settled fee/fine is flagged, or nothing is.
func RecordPayment(db *sql.DB, write *PaymentWrite) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()

	queryDeposit := `INSERT INTO fee_deposits
			(student_id, fee_id, amount, discount, paid_amount, receipt_no,
			 payment_mode, transaction_no, payment_source, note, processed_by, deposit_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING id, created_at`

	for _, deposit := range write.Deposits {
		var feeID interface{}
		if deposit.FeeID != nil {
			feeID = *deposit.FeeID
		}
		err = tx.QueryRow(queryDeposit,
			deposit.StudentID, feeID,
			deposit.Amount.StringFixed(2), deposit.Discount.StringFixed(2), deposit.PaidAmount.StringFixed(2),
			deposit.ReceiptNo, string(deposit.PaymentMode), deposit.TransactionNo,
			deposit.PaymentSource, deposit.Note, deposit.ProcessedBy, deposit.DepositDate,
		).Scan(&deposit.ID, &deposit.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert deposit: %v", err)
		}
	}

	for _, feeID := range write.SettledFeeIDs {
		_, err = tx.Exec(`UPDATE fees SET paid = true, paid_at = $1, updated_at = $1 WHERE id = $2`, now, feeID)
		if err != nil {
			return fmt.Errorf("failed to mark fee %s paid: %v", feeID, err)
		}
	}

	for _, fineID := range write.SettledFineIDs {
		_, err = tx.Exec(`UPDATE fines SET is_paid = true, paid_at = $1, updated_at = $1 WHERE id = $2`, now, fineID)
		if err != nil {
			return fmt.Errorf("failed to mark fine %s paid: %v", fineID, err)
		}
	}

	if write.SettleCarryForward {
		_, err = tx.Exec(`UPDATE carry_forwards SET settled = true, settled_at = $1 WHERE student_id = $2 AND settled = false`,
			now, write.StudentID)
		if err != nil {
			return fmt.Errorf("failed to settle carry forward: %v", err)
		}
	}

	return tx.Commit()
}

// GetDepositsByReceipt returns the deposit lines of one receipt, oldest
// first, for receipt rendering and payment history.
func GetDepositsByReceipt(db *sql.DB, receiptNo string) ([]*models.FeeDeposit, error) {
	query := `SELECT id, student_id, fee_id, amount, discount, paid_amount, receipt_no,
			  payment_mode, transaction_no, payment_source, note, processed_by, deposit_date, created_at
			  FROM fee_deposits
			  WHERE receipt_no = $1
			  ORDER BY created_at`

	rows, err := db.Query(query, receiptNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDeposits(rows)
}

// GetStudentDeposits returns a student's payment history, newest first.
func GetStudentDeposits(db *sql.DB, studentID string, limit int) ([]*models.FeeDeposit, error) {
	query := `SELECT id, student_id, fee_id, amount, discount, paid_amount, receipt_no,
			  payment_mode, transaction_no, payment_source, note, processed_by, deposit_date, created_at
			  FROM fee_deposits
			  WHERE student_id = $1
			  ORDER BY deposit_date DESC
			  LIMIT $2`

	rows, err := db.Query(query, studentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDeposits(rows)
}

func scanDeposits(rows *sql.Rows) ([]*models.FeeDeposit, error) {
	var deposits []*models.FeeDeposit
	for rows.Next() {
		deposit := &models.FeeDeposit{}
		var feeID, transactionNo, paymentSource, note sql.NullString
		var amount, discount, paidAmount string
		var mode string
		err := rows.Scan(
			&deposit.ID, &deposit.StudentID, &feeID, &amount, &discount, &paidAmount,
			&deposit.ReceiptNo, &mode, &transactionNo, &paymentSource, &note,
			&deposit.ProcessedBy, &deposit.DepositDate, &deposit.CreatedAt,
		)
		if err != nil {
			continue
		}
		if feeID.Valid {
			deposit.FeeID = &feeID.String
		}
		deposit.TransactionNo = transactionNo.String
		deposit.PaymentSource = paymentSource.String
		deposit.Note = note.String
		deposit.PaymentMode = models.PaymentMode(mode)
		if deposit.Amount, err = parseMoney(amount); err != nil {
			continue
		}
		if deposit.Discount, err = parseMoney(discount); err != nil {
			continue
		}
		if deposit.PaidAmount, err = parseMoney(paidAmount); err != nil {
			continue
		}
		deposits = append(deposits, deposit)
	}
	return deposits, nil
}
