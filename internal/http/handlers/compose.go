package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	apperrors "github.com/dev0b1/selah-sub001/internal/errors"
	"github.com/dev0b1/selah-sub001/internal/jobs"
	"github.com/dev0b1/selah-sub001/internal/metrics"
	"github.com/dev0b1/selah-sub001/internal/models"
)

// ComposeService is the pipeline entry point the handler drives.
type ComposeService interface {
	Compose(ctx context.Context, userText, mood string) (*models.Composition, error)
}

// ComposeHandler serves the composition endpoints.
type ComposeHandler struct {
	composer ComposeService
	jobStore *jobs.JobStore
}

// NewComposeHandler creates a composition handler.
func NewComposeHandler(composer ComposeService, jobStore *jobs.JobStore) *ComposeHandler {
	return &ComposeHandler{
		composer: composer,
		jobStore: jobStore,
	}
}

// getLoggerWithTraceID returns a logrus entry carrying the request's
// trace_id.
func getLoggerWithTraceID(c *gin.Context) *logrus.Entry {
	traceID, exists := c.Get("trace_id")
	if !exists {
		traceID = "unknown"
	}
	return logrus.WithField("trace_id", traceID)
}

// HandleCompose runs the pipeline synchronously and streams the
// finished MP3 back with a timestamped filename hint.
func (h *ComposeHandler) HandleCompose(c *gin.Context) {
	start := time.Now()
	logger := getLoggerWithTraceID(c)

	var req models.ComposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err))
		return
	}

	composition, err := h.composer.Compose(c.Request.Context(), req.Text, req.Mood)
	if err != nil {
		logger.WithError(err).Error("Composition failed")
		_ = c.Error(err)
		return
	}

	logger.WithFields(logrus.Fields{
		"mood":        req.Mood,
		"audio_bytes": len(composition.Audio),
		"duration_ms": composition.DurationMs,
		"total_time":  time.Since(start),
	}).Info("Composition request served")

	filename := fmt.Sprintf("selah-%s-%s.mp3", composition.Script.Mood, time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Header("Content-Length", strconv.Itoa(len(composition.Audio)))
	c.Header("X-Duration-Ms", strconv.Itoa(composition.DurationMs))
	c.Data(http.StatusOK, composition.ContentType, composition.Audio)
}

// HandleComposeAsync accepts the request, runs the pipeline in the
// background and returns a job ID to poll.
func (h *ComposeHandler) HandleComposeAsync(c *gin.Context) {
	logger := getLoggerWithTraceID(c)

	var req models.ComposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err))
		return
	}

	job := h.jobStore.CreateJob()
	logger.WithField("job_id", job.ID).Info("Created async composition job")

	go h.runCompositionJob(req, job.ID, logger)

	c.JSON(http.StatusAccepted, gin.H{
		"status": models.JobStatusProcessing,
		"job_id": job.ID,
	})
}

// runCompositionJob executes the pipeline for an async job. The job
// gets its own context: the HTTP request that spawned it has already
// returned.
func (h *ComposeHandler) runCompositionJob(req models.ComposeRequest, jobID string, logger *logrus.Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	h.jobStore.SetStage(jobID, "composing")

	composition, err := h.composer.Compose(ctx, req.Text, req.Mood)
	metrics.Global.RecordCompositionJob(err)
	if err != nil {
		logger.WithError(err).WithField("job_id", jobID).Error("Async composition failed")
		h.jobStore.SetJobError(jobID, err.Error())
		return
	}

	h.jobStore.SetJobComplete(jobID, composition.Audio, composition.DurationMs)
	logger.WithFields(logrus.Fields{
		"job_id":      jobID,
		"audio_bytes": len(composition.Audio),
	}).Info("Async composition completed")
}

// HandleJobStatus reports the status of an async job.
func (h *ComposeHandler) HandleJobStatus(c *gin.Context) {
	jobID := c.Param("job_id")

	job, found := h.jobStore.GetJob(jobID)
	if !found {
		_ = c.Error(fmt.Errorf("%w: job %s", apperrors.ErrNotFound, jobID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job_id":      job.ID,
		"status":      job.Status,
		"stage":       job.Stage,
		"error":       job.Error,
		"duration_ms": job.DurationMs,
	})
}

// HandleJobResult serves the finished audio of a completed job.
func (h *ComposeHandler) HandleJobResult(c *gin.Context) {
	jobID := c.Param("job_id")

	job, found := h.jobStore.GetJob(jobID)
	if !found {
		_ = c.Error(fmt.Errorf("%w: job %s", apperrors.ErrNotFound, jobID))
		return
	}

	if job.Status != models.JobStatusComplete {
		c.JSON(http.StatusAccepted, gin.H{"status": job.Status, "error": job.Error})
		return
	}

	filename := fmt.Sprintf("selah-%s.mp3", job.CompletedAt.Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Data(http.StatusOK, "audio/mpeg", job.Audio)
}
