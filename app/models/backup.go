package models

import "time"

// BackupRecord is one archive kept in the backup directory.
type BackupRecord struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	FileName  string    `json:"file_name" gorm:"not null"`
	FilePath  string    `json:"-" gorm:"not null"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedBy string    `json:"created_by" gorm:"index;type:uuid"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// BackupJob is the in-flight state of a backup or restore run. Clients
// poll it until the status turns terminal.
type BackupJob struct {
	ID         string     `json:"id"`
	Kind       JobKind    `json:"kind"`
	Status     JobStatus  `json:"status"`
	Progress   int        `json:"progress"`
	Message    string     `json:"message,omitempty"`
	BackupID   string     `json:"backup_id,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}
