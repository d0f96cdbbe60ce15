package models

import "time"

// Student is the billing view of a student record.
type Student struct {
	ID              string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	AdmissionNumber string     `json:"admission_number" gorm:"uniqueIndex;not null" validate:"required"`
	FirstName       string     `json:"first_name" gorm:"not null" validate:"required"`
	LastName        string     `json:"last_name" gorm:"not null" validate:"required"`
	ClassName       string     `json:"class_name,omitempty"`
	IsActive        bool       `json:"is_active" gorm:"default:true"`
	CreatedAt       time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty" gorm:"index"`
}

// FullName returns the display name used on receipts and fee panels.
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
