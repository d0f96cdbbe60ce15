package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fee represents an actual charge for a specific student within an academic year.
type Fee struct {
	ID        string          `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	StudentID string          `json:"student_id" gorm:"not null;index;type:uuid"`
	FeeTypeID *string         `json:"fee_type_id,omitempty" gorm:"index;type:uuid"`
	Title     string          `json:"title" gorm:"not null"`
	Amount    decimal.Decimal `json:"amount" gorm:"not null;type:numeric(12,2)"`
	Currency  string          `json:"currency" gorm:"not null;default:'UGX'"`
	Paid      bool            `json:"paid" gorm:"default:false"`
	Overdue   bool            `json:"is_overdue" gorm:"default:false;index"`
	DueDate   time.Time       `json:"due_date" gorm:"not null;type:date"`
	PaidAt    *time.Time      `json:"paid_at,omitempty"`
	CreatedAt time.Time       `json:"created_at" gorm:"default:now()"`
	UpdatedAt time.Time       `json:"updated_at" gorm:"default:now()"`
	DeletedAt *time.Time      `json:"deleted_at,omitempty" gorm:"index"`

	Student *Student `json:"student,omitempty" gorm:"foreignKey:StudentID;references:ID"`
	FeeType *FeeType `json:"fee_type,omitempty" gorm:"foreignKey:FeeTypeID;references:ID"`
}

// MarkAsPaid marks the fee as fully paid.
func (f *Fee) MarkAsPaid() {
	f.Paid = true
	now := time.Now()
	f.PaidAt = &now
}
