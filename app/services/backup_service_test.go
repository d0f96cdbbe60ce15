package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Upmanyu201/SchoolManagementSystem/app/models"
)

func TestBackupJobLifecycle(t *testing.T) {
	service := NewBackupService(nil, t.TempDir())

	job := service.newJob(models.JobKindBackup)
	assert.Equal(t, models.JobPending, job.Status)
	assert.Nil(t, job.FinishedAt)

	service.update(job.ID, models.JobRunning, 40, "Exported students")
	polled, ok := service.Job(job.ID)
	require.True(t, ok)
	assert.Equal(t, models.JobRunning, polled.Status)
	assert.Equal(t, 40, polled.Progress)
	assert.Nil(t, polled.FinishedAt)

	service.update(job.ID, models.JobCompleted, 100, "Backup completed")
	polled, ok = service.Job(job.ID)
	require.True(t, ok)
	assert.Equal(t, models.JobCompleted, polled.Status)
	assert.NotNil(t, polled.FinishedAt)
	assert.True(t, polled.Status.Terminal())
}

func TestBackupJobPollReturnsCopy(t *testing.T) {
	service := NewBackupService(nil, t.TempDir())
	job := service.newJob(models.JobKindRestore)

	polled, ok := service.Job(job.ID)
	require.True(t, ok)
	polled.Status = models.JobFailed

	fresh, ok := service.Job(job.ID)
	require.True(t, ok)
	assert.Equal(t, models.JobPending, fresh.Status)
}

func TestBackupJobUnknownID(t *testing.T) {
	service := NewBackupService(nil, t.TempDir())
	_, ok := service.Job("missing")
	assert.False(t, ok)

	// Updating an unknown job must be a harmless no-op.
	service.update("missing", models.JobFailed, 0, "")
}
