package jobs

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dev0b1/selah-sub001/internal/models"
)

// JobStore is a thread-safe in-memory store for composition jobs.
// Finished audio lives here only until the TTL expires; nothing is
// persisted.
type JobStore struct {
	jobs    map[string]*models.Job
	mu      sync.RWMutex
	ttl     time.Duration // Time-to-live for completed jobs
	cleanup time.Duration // Cleanup interval
}

// NewJobStore creates a new JobStore and starts the cleanup goroutine.
func NewJobStore(ttl, cleanupInterval time.Duration) *JobStore {
	store := &JobStore{
		jobs:    make(map[string]*models.Job),
		ttl:     ttl,
		cleanup: cleanupInterval,
	}
	go store.startCleanupRoutine()
	return store
}

// CreateJob creates a new job and returns it.
func (s *JobStore) CreateJob() *models.Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	job := &models.Job{
		ID:        uuid.New().String(),
		Status:    models.JobStatusProcessing,
		CreatedAt: time.Now().UTC(),
	}
	s.jobs[job.ID] = job
	return job
}

// GetJob retrieves a job by its ID.
func (s *JobStore) GetJob(id string) (*models.Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, found := s.jobs[id]
	return job, found
}

// SetStage records which pipeline stage the job is currently in.
func (s *JobStore) SetStage(id, stage string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, found := s.jobs[id]; found {
		job.Stage = stage
	}
}

// SetJobComplete marks a job as complete and stores the finished audio.
func (s *JobStore) SetJobComplete(id string, audio []byte, durationMs int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, found := s.jobs[id]; found {
		now := time.Now().UTC()
		job.Status = models.JobStatusComplete
		job.Audio = audio
		job.DurationMs = durationMs
		job.Stage = ""
		job.CompletedAt = &now
	}
}

// SetJobError marks a job as failed with an error message.
func (s *JobStore) SetJobError(id, errorMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, found := s.jobs[id]; found {
		now := time.Now().UTC()
		job.Status = models.JobStatusError
		job.Error = errorMsg
		job.CompletedAt = &now
	}
}

// startCleanupRoutine periodically removes old completed jobs.
func (s *JobStore) startCleanupRoutine() {
	ticker := time.NewTicker(s.cleanup)
	defer ticker.Stop()

	for range ticker.C {
		s.cleanupJobs()
	}
}

// cleanupJobs removes jobs that have exceeded their TTL.
func (s *JobStore) cleanupJobs() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	for id, job := range s.jobs {
		// Completed jobs expire after the TTL.
		if job.CompletedAt != nil && now.Sub(*job.CompletedAt) > s.ttl {
			delete(s.jobs, id)
		}
		// Jobs stuck in processing are dropped after an hour.
		if job.Status == models.JobStatusProcessing && now.Sub(job.CreatedAt) > time.Hour {
			delete(s.jobs, id)
		}
	}
}
