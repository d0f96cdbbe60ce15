package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fine represents a penalty charged to a student, payable through the
// same fee panel as regular fees.
type Fine struct {
	ID        string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	StudentID string          `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	FineType  string          `json:"fine_type" gorm:"not null" validate:"required"`
	Reason    string          `json:"reason" gorm:"type:text"`
	Amount    decimal.Decimal `json:"amount" gorm:"not null;type:numeric(12,2)" validate:"required"`
	DueDate   time.Time       `json:"due_date" gorm:"not null;type:date"`
	Paid      bool            `json:"is_paid" gorm:"default:false;index"`
	PaidAt    *time.Time      `json:"paid_at,omitempty"`
	CreatedAt time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt *time.Time      `json:"deleted_at,omitempty" gorm:"index"`

	Student *Student `json:"student,omitempty" gorm:"foreignKey:StudentID;references:ID"`
}

// DisplayName returns the label shown on the fee panel row.
func (f *Fine) DisplayName() string {
	reason := f.Reason
	if len(reason) > 50 {
		reason = reason[:50]
	}
	if reason == "" {
		return "Fine: " + f.FineType
	}
	return "Fine: " + f.FineType + " - " + reason
}
