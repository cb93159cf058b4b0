package jobs_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/parcel-tracking/internal/ingest"
	"github.com/couchcryptid/parcel-tracking/internal/jobs"
	"github.com/couchcryptid/parcel-tracking/internal/observability"
)

// fakeIngestor returns a canned report and emits one progress call per
// configured batch.
type fakeIngestor struct {
	report   ingest.Report
	batches  []int // processed counts to emit as progress
	total    int
	gotPath  string
	gotBatch int
}

func (f *fakeIngestor) Run(ctx context.Context, csvPath string, batchSize int, progress ingest.ProgressReporter) ingest.Report {
	f.gotPath = csvPath
	f.gotBatch = batchSize
	for i, processed := range f.batches {
		progress.ReportProgress(ctx, processed, f.total, i+1)
	}
	return f.report
}

func newRunner(t *testing.T, ingestor jobs.Ingestor, kv *mapKV) (*jobs.Runner, *jobs.StatusStore) {
	t.Helper()
	statuses := jobs.NewStatusStore(kv, time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return jobs.NewRunner(ingestor, statuses, logger, observability.NewMetricsForTesting()), statuses
}

func TestRunner_SuccessfulJob(t *testing.T) {
	ingestor := &fakeIngestor{
		report: ingest.Report{
			Success:          true,
			Message:          "Seed data loaded successfully! Processed: 40 rows, Created: 40 shipments, 40 articles",
			TotalRows:        40,
			ShipmentsCreated: 40,
			ArticlesCreated:  40,
		},
		batches: []int{20, 40},
		total:   40,
	}
	kv := newMapKV()
	runner, statuses := newRunner(t, ingestor, kv)

	job := jobs.NewIngestJob("/data/seed.csv", 20)
	require.NoError(t, runner.Handle(context.Background(), job))

	assert.Equal(t, "/data/seed.csv", ingestor.gotPath)
	assert.Equal(t, 20, ingestor.gotBatch)

	status, found, err := statuses.Get(context.Background(), job.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, jobs.StateSuccess, status.State)
	require.NotNil(t, status.Report)
	assert.Equal(t, 40, status.Report.ShipmentsCreated)
}

func TestRunner_FailedReportIsStillHandled(t *testing.T) {
	ingestor := &fakeIngestor{
		report: ingest.Report{Success: false, Message: "CSV file not found: /data/seed.csv"},
	}
	kv := newMapKV()
	runner, statuses := newRunner(t, ingestor, kv)

	job := jobs.NewIngestJob("/data/seed.csv", 0)
	require.NoError(t, runner.Handle(context.Background(), job), "a failed report must not trigger redelivery")

	status, found, err := statuses.Get(context.Background(), job.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, jobs.StateFailure, status.State)
	require.NotNil(t, status.Report)
	assert.Equal(t, "CSV file not found: /data/seed.csv", status.Report.Message)
}

func TestRunner_ProgressUpdatesVisibleDuringRun(t *testing.T) {
	kv := newMapKV()

	var midRun jobs.Status
	probe := &probingIngestor{
		kv:     kv,
		onRun:  func(status jobs.Status) { midRun = status },
		report: ingest.Report{Success: true, Message: "ok"},
	}
	runner, _ := newRunner(t, probe, kv)

	job := jobs.NewIngestJob("/data/seed.csv", 10)
	probe.jobID = job.ID
	require.NoError(t, runner.Handle(context.Background(), job))

	assert.Equal(t, jobs.StateProgress, midRun.State)
	assert.Equal(t, 10, midRun.Current)
	assert.Equal(t, 30, midRun.Total)
	assert.Equal(t, 1, midRun.Batch)
}

// probingIngestor emits one progress update, then reads the status back
// through a fresh store to observe what a concurrent poller would see.
type probingIngestor struct {
	kv     *mapKV
	jobID  string
	onRun  func(jobs.Status)
	report ingest.Report
}

func (p *probingIngestor) Run(ctx context.Context, _ string, _ int, progress ingest.ProgressReporter) ingest.Report {
	progress.ReportProgress(ctx, 10, 30, 1)
	status, found, err := jobs.NewStatusStore(p.kv, time.Hour).Get(ctx, p.jobID)
	if err == nil && found {
		p.onRun(status)
	}
	return p.report
}

func TestRunner_TerminalWriteFailurePropagates(t *testing.T) {
	ingestor := &fakeIngestor{report: ingest.Report{Success: true, Message: "ok"}}
	kv := newMapKV()
	kv.setErr = assert.AnError
	runner, _ := newRunner(t, ingestor, kv)

	err := runner.Handle(context.Background(), jobs.NewIngestJob("/data/seed.csv", 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record terminal status")
}
