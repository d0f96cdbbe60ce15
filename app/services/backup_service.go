package services

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Upmanyu201/SchoolManagementSystem/app/database"
	"github.com/Upmanyu201/SchoolManagementSystem/app/models"
)

// Tables exported to an archive, in dependency order so a restore can
// replay them front to back.
var backupTables = []string{
	"users", "roles", "user_roles", "students", "fee_types",
	"fees", "fines", "carry_forwards", "fee_deposits",
}

// BackupService runs backup and restore jobs in the background. Clients
// get a job id back immediately and poll its status until it turns
// terminal; the heavy lifting never blocks a request.
type BackupService struct {
	DB  *sql.DB
	Dir string

	mu   sync.Mutex
	jobs map[string]*models.BackupJob
}

func NewBackupService(db *sql.DB, dir string) *BackupService {
	return &BackupService{DB: db, Dir: dir, jobs: make(map[string]*models.BackupJob)}
}

// StartBackup creates a pending job and launches the export.
func (s *BackupService) StartBackup(userID string) (*models.BackupJob, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to prepare backup directory: %v", err)
	}
	job := s.newJob(models.JobKindBackup)
	go s.runBackup(job.ID, userID)
	return s.jobCopy(job.ID), nil
}

// StartRestore creates a pending job that replays an existing archive.
func (s *BackupService) StartRestore(backupID string) (*models.BackupJob, error) {
	record, err := database.GetBackupRecord(s.DB, backupID)
	if err != nil {
		return nil, err
	}
	job := s.newJob(models.JobKindRestore)
	go s.runRestore(job.ID, record)
	return s.jobCopy(job.ID), nil
}

// Job returns a copy of one job's current state for status polling.
func (s *BackupService) Job(jobID string) (*models.BackupJob, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return nil, false
	}
	copied := *job
	return &copied, true
}

func (s *BackupService) newJob(kind models.JobKind) *models.BackupJob {
	job := &models.BackupJob{
		ID:        uuid.NewString(),
		Kind:      kind,
		Status:    models.JobPending,
		StartedAt: time.Now(),
	}
	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()
	return job
}

func (s *BackupService) jobCopy(jobID string) *models.BackupJob {
	job, _ := s.Job(jobID)
	return job
}

func (s *BackupService) update(jobID string, status models.JobStatus, progress int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return
	}
	job.Status = status
	job.Progress = progress
	job.Message = message
	if status.Terminal() {
		now := time.Now()
		job.FinishedAt = &now
	}
}

func (s *BackupService) setBackupID(jobID, backupID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[jobID]; ok {
		job.BackupID = backupID
	}
}

func (s *BackupService) runBackup(jobID, userID string) {
	s.update(jobID, models.JobRunning, 0, "Exporting tables")

	archive := make(map[string][]map[string]interface{}, len(backupTables))
	for i, table := range backupTables {
		rows, err := s.exportTable(table)
		if err != nil {
			log.Printf("backup %s: export of %s failed: %v", jobID, table, err)
			s.update(jobID, models.JobFailed, 0, fmt.Sprintf("Export of %s failed", table))
			return
		}
		archive[table] = rows
		progress := (i + 1) * 90 / len(backupTables)
		s.update(jobID, models.JobRunning, progress, "Exported "+table)
	}

	fileName := fmt.Sprintf("backup_%s.json", time.Now().Format("20060102_150405"))
	filePath := filepath.Join(s.Dir, fileName)
	payload, err := json.MarshalIndent(archive, "", "  ")
	if err != nil {
		s.update(jobID, models.JobFailed, 0, "Failed to encode archive")
		return
	}
	if err := os.WriteFile(filePath, payload, 0o644); err != nil {
		s.update(jobID, models.JobFailed, 0, "Failed to write archive file")
		return
	}

	record := &models.BackupRecord{
		FileName:  fileName,
		FilePath:  filePath,
		SizeBytes: int64(len(payload)),
		CreatedBy: userID,
	}
	if err := database.CreateBackupRecord(s.DB, record); err != nil {
		s.update(jobID, models.JobFailed, 0, "Failed to record backup history")
		return
	}

	s.setBackupID(jobID, record.ID)
	s.update(jobID, models.JobCompleted, 100, "Backup completed: "+fileName)
}

func (s *BackupService) runRestore(jobID string, record *models.BackupRecord) {
	s.update(jobID, models.JobRunning, 0, "Reading archive")

	payload, err := os.ReadFile(record.FilePath)
	if err != nil {
		s.update(jobID, models.JobFailed, 0, "Archive file is missing")
		return
	}
	var archive map[string][]map[string]interface{}
	if err := json.Unmarshal(payload, &archive); err != nil {
		s.update(jobID, models.JobFailed, 0, "Archive is not valid JSON")
		return
	}

	restored := 0
	for i, table := range backupTables {
		rows, ok := archive[table]
		if !ok {
			continue
		}
		count, err := s.restoreTable(table, rows)
		if err != nil {
			log.Printf("restore %s: table %s failed: %v", jobID, table, err)
			s.update(jobID, models.JobFailed, 0, fmt.Sprintf("Restore of %s failed", table))
			return
		}
		restored += count
		progress := (i + 1) * 100 / len(backupTables)
		s.update(jobID, models.JobRunning, progress, fmt.Sprintf("Restored %s (%d rows)", table, count))
	}

	s.setBackupID(jobID, record.ID)
	s.update(jobID, models.JobCompleted, 100, fmt.Sprintf("Restore completed, %d rows applied", restored))
}

// exportTable dumps one table as column/value maps.
func (s *BackupService) exportTable(table string) ([]map[string]interface{}, error) {
	rows, err := s.DB.Query("SELECT * FROM " + table) // table names come from the fixed list above
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := make([]map[string]interface{}, 0)
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}
		row := make(map[string]interface{}, len(columns))
		for i, column := range columns {
			if raw, ok := values[i].([]byte); ok {
				row[column] = string(raw)
			} else {
				row[column] = values[i]
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// restoreTable replays archived rows, skipping ones that already exist.
func (s *BackupService) restoreTable(table string, rows []map[string]interface{}) (int, error) {
	count := 0
	for _, row := range rows {
		columns := make([]string, 0, len(row))
		placeholders := make([]string, 0, len(row))
		values := make([]interface{}, 0, len(row))
		i := 1
		for column, value := range row {
			columns = append(columns, column)
			placeholders = append(placeholders, fmt.Sprintf("$%d", i))
			values = append(values, value)
			i++
		}
		query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (id) DO NOTHING",
			table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
		if _, err := s.DB.Exec(query, values...); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
