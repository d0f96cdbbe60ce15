package database

import (
	"database/sql"

	"github.com/Upmanyu201/SchoolManagementSystem/app/models"
)

// CreateBackupRecord stores the metadata of a finished backup archive.
func CreateBackupRecord(db *sql.DB, record *models.BackupRecord) error {
	var createdBy interface{}
	if record.CreatedBy != "" {
		createdBy = record.CreatedBy
	}
	query := `INSERT INTO backup_records (file_name, file_path, size_bytes, created_by)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, created_at`
	return db.QueryRow(query, record.FileName, record.FilePath, record.SizeBytes, createdBy).
		Scan(&record.ID, &record.CreatedAt)
}

// GetBackupRecord looks up one archive by id.
func GetBackupRecord(db *sql.DB, backupID string) (*models.BackupRecord, error) {
	record := &models.BackupRecord{}
	var createdBy sql.NullString
	query := `SELECT id, file_name, file_path, size_bytes, created_by, created_at
			  FROM backup_records WHERE id = $1`

	err := db.QueryRow(query, backupID).Scan(
		&record.ID, &record.FileName, &record.FilePath, &record.SizeBytes,
		&createdBy, &record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	record.CreatedBy = createdBy.String
	return record, nil
}

// ListBackupRecords returns the backup history, newest first.
func ListBackupRecords(db *sql.DB) ([]*models.BackupRecord, error) {
	query := `SELECT id, file_name, file_path, size_bytes, created_by, created_at
			  FROM backup_records ORDER BY created_at DESC`

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*models.BackupRecord, 0)
	for rows.Next() {
		record := &models.BackupRecord{}
		var createdBy sql.NullString
		err := rows.Scan(
			&record.ID, &record.FileName, &record.FilePath, &record.SizeBytes,
			&createdBy, &record.CreatedAt,
		)
		if err != nil {
			continue
		}
		record.CreatedBy = createdBy.String
		records = append(records, record)
	}
	return records, nil
}

// DeleteBackupRecord removes one archive's metadata row.
func DeleteBackupRecord(db *sql.DB, backupID string) error {
	result, err := db.Exec(`DELETE FROM backup_records WHERE id = $1`, backupID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return err
}
