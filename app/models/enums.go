package models

// PaymentMode defines the accepted ways of settling a payment.
type PaymentMode string

const (
	PaymentModeCash   PaymentMode = "cash"
	PaymentModeOnline PaymentMode = "online"
	PaymentModeMobile PaymentMode = "mobile_money"
	PaymentModeCheque PaymentMode = "cheque"
	PaymentModeCard   PaymentMode = "card"
)

// Valid reports whether the mode is one the bursar's office accepts.
func (m PaymentMode) Valid() bool {
	switch m {
	case PaymentModeCash, PaymentModeOnline, PaymentModeMobile, PaymentModeCheque, PaymentModeCard:
		return true
	}
	return false
}

// JobKind defines the kinds of administrative jobs.
type JobKind string

const (
	JobKindBackup  JobKind = "backup"
	JobKindRestore JobKind = "restore"
)

// JobStatus defines the lifecycle states of a backup/restore job.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Terminal reports whether the job has finished, successfully or not.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}
