package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeeDeposit records one line of a processed payment: a single fee, fine
// or carry-forward balance settled against a shared receipt number.
type FeeDeposit struct {
	ID            string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	StudentID     string          `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	FeeID         *string         `json:"fee_id,omitempty" gorm:"index"`
	Amount        decimal.Decimal `json:"amount" gorm:"not null;type:numeric(12,2)" validate:"required"`
	Discount      decimal.Decimal `json:"discount" gorm:"not null;type:numeric(12,2);default:0"`
	PaidAmount    decimal.Decimal `json:"paid_amount" gorm:"not null;type:numeric(12,2)" validate:"required"`
	ReceiptNo     string          `json:"receipt_no" gorm:"not null;index" validate:"required"`
	PaymentMode   PaymentMode     `json:"payment_mode" gorm:"not null;type:varchar(20)" validate:"required"`
	TransactionNo string          `json:"transaction_no,omitempty"`
	PaymentSource string          `json:"payment_source,omitempty"`
	Note          string          `json:"note,omitempty" gorm:"type:text"`
	ProcessedBy   string          `json:"processed_by" gorm:"not null;index;type:uuid"`
	DepositDate   time.Time       `json:"deposit_date" gorm:"not null;index"`
	CreatedAt     time.Time       `json:"created_at" gorm:"autoCreateTime"`

	Student *Student `json:"student,omitempty" gorm:"foreignKey:StudentID;references:ID"`
}
