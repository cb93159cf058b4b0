package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/parcel-tracking/internal/ingest"
	"github.com/couchcryptid/parcel-tracking/internal/observability"
)

// Ingestor runs one whole-file ingestion and always produces a report.
type Ingestor interface {
	Run(ctx context.Context, csvPath string, batchSize int, progress ingest.ProgressReporter) ingest.Report
}

// Runner executes ingestion jobs on the worker side and mirrors their
// lifecycle into the status store.
type Runner struct {
	ingestor Ingestor
	statuses *StatusStore
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewRunner creates a Runner.
func NewRunner(ingestor Ingestor, statuses *StatusStore, logger *slog.Logger, metrics *observability.Metrics) *Runner {
	return &Runner{ingestor: ingestor, statuses: statuses, logger: logger, metrics: metrics}
}

// Handle runs one job to completion. A failed report is still a handled
// job; Handle only errors when the terminal status cannot be recorded, so
// the queue redelivers and a later attempt can record it.
func (r *Runner) Handle(ctx context.Context, job IngestJob) error {
	r.logger.Info("job started", "job_id", job.ID, "path", job.CSVPath, "batch_size", job.BatchSize)

	progress := &statusProgress{jobID: job.ID, statuses: r.statuses, logger: r.logger}
	report := r.ingestor.Run(ctx, job.CSVPath, job.BatchSize, progress)

	state := StateSuccess
	outcome := "success"
	if !report.Success {
		state = StateFailure
		outcome = "failure"
	}
	r.metrics.JobsProcessed.WithLabelValues(outcome).Inc()

	err := r.statuses.Set(ctx, Status{JobID: job.ID, State: state, Report: &report})
	if err != nil {
		return fmt.Errorf("record terminal status for job %s: %w", job.ID, err)
	}

	r.logger.Info("job finished", "job_id", job.ID, "state", state, "message", report.Message)
	return nil
}

// statusProgress forwards per-batch progress into the status store.
// Failures are logged and dropped; progress is best effort.
type statusProgress struct {
	jobID    string
	statuses *StatusStore
	logger   *slog.Logger
}

func (p *statusProgress) ReportProgress(ctx context.Context, processed, total, batch int) {
	err := p.statuses.Set(ctx, Status{
		JobID:   p.jobID,
		State:   StateProgress,
		Current: processed,
		Total:   total,
		Batch:   batch,
	})
	if err != nil {
		p.logger.Warn("progress update dropped", "job_id", p.jobID, "error", err)
	}
}
