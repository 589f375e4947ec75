package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/faculty-timetable-api/internal/dto"
	appErrors "github.com/noah-isme/faculty-timetable-api/pkg/errors"
	"github.com/noah-isme/faculty-timetable-api/pkg/jobs"
)

// JobTypeRegenerateAll is the queue job type for batch regeneration.
const JobTypeRegenerateAll = "timetable.regenerate_all"

type jobQueue interface {
	Enqueue(job jobs.Job) (string, error)
	Lookup(id string) (jobs.Record, bool)
}

type batchGenerator interface {
	RegenerateAll(ctx context.Context, jobID string) (*dto.BatchSummary, error)
}

// BatchResults keeps the summary of every finished batch run in memory.
type BatchResults struct {
	mu        sync.RWMutex
	summaries map[string]dto.BatchSummary
}

// NewBatchResults builds an empty result store.
func NewBatchResults() *BatchResults {
	return &BatchResults{summaries: make(map[string]dto.BatchSummary)}
}

func (r *BatchResults) put(jobID string, summary dto.BatchSummary) {
	r.mu.Lock()
	r.summaries[jobID] = summary
	r.mu.Unlock()
}

func (r *BatchResults) get(jobID string) (dto.BatchSummary, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	summary, ok := r.summaries[jobID]
	return summary, ok
}

// TimetableWorker bridges queue jobs to batch regeneration.
type TimetableWorker struct {
	generator batchGenerator
	results   *BatchResults
	logger    *zap.Logger
}

// NewTimetableWorker constructs a worker.
func NewTimetableWorker(generator batchGenerator, results *BatchResults, logger *zap.Logger) *TimetableWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableWorker{generator: generator, results: results, logger: logger}
}

// Handle processes a queue job.
func (w *TimetableWorker) Handle(ctx context.Context, job jobs.Job) error {
	if job.Type != JobTypeRegenerateAll {
		w.logger.Warn("ignoring unknown job type", zap.String("job_id", job.ID), zap.String("type", job.Type))
		return nil
	}
	summary, err := w.generator.RegenerateAll(ctx, job.ID)
	if err != nil {
		return err
	}
	w.results.put(job.ID, *summary)
	return nil
}

// BatchService queues batch regeneration and reports on it.
type BatchService struct {
	queue   jobQueue
	results *BatchResults
	enabled bool
	logger  *zap.Logger
}

// NewBatchService constructs the service.
func NewBatchService(queue jobQueue, results *BatchResults, enabled bool, logger *zap.Logger) *BatchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchService{queue: queue, results: results, enabled: enabled, logger: logger}
}

// Enqueue schedules regeneration of every department.
func (s *BatchService) Enqueue(ctx context.Context) (*dto.BatchGenerateResponse, error) {
	if !s.enabled || s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "batch generation is disabled")
	}
	id, err := s.queue.Enqueue(jobs.Job{Type: JobTypeRegenerateAll})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to queue batch generation")
	}
	s.logger.Info("batch timetable generation queued", zap.String("job_id", id))
	return &dto.BatchGenerateResponse{JobID: id, Status: string(jobs.StatusQueued)}, nil
}

// Status reports the state of a batch job and, once finished, its summary.
func (s *BatchService) Status(ctx context.Context, jobID string) (*dto.BatchJobStatusResponse, error) {
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "batch job not found")
	}
	record, ok := s.queue.Lookup(jobID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "batch job not found")
	}
	resp := &dto.BatchJobStatusResponse{Job: record}
	if summary, ok := s.results.get(jobID); ok {
		resp.Summary = &summary
	}
	return resp, nil
}
