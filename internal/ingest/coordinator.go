package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/couchcryptid/parcel-tracking/internal/domain"
	"github.com/couchcryptid/parcel-tracking/internal/observability"
)

// Coordinator drives a whole-file ingestion run: validation, batching,
// progress reporting, and the final report.
type Coordinator struct {
	store     Store
	processor *Processor
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewCoordinator creates a Coordinator.
func NewCoordinator(store Store, processor *Processor, logger *slog.Logger, metrics *observability.Metrics) *Coordinator {
	return &Coordinator{store: store, processor: processor, logger: logger, metrics: metrics}
}

// Run ingests one CSV file and always returns a report; no failure mode
// escapes to the caller. A non-positive batchSize falls back to
// DefaultBatchSize. progress may be nil.
func (c *Coordinator) Run(ctx context.Context, csvPath string, batchSize int, progress ProgressReporter) Report {
	report, err := c.run(ctx, csvPath, batchSize, progress)
	if err != nil {
		c.logger.Error("seed data task failed", "path", csvPath, "error", err)
		return Report{Success: false, Message: fmt.Sprintf("Task failed: %v", err)}
	}
	return report
}

func (c *Coordinator) run(ctx context.Context, csvPath string, batchSize int, progress ProgressReporter) (Report, error) {
	if err := ValidateFile(csvPath); err != nil {
		c.logger.Error(err.Error())
		return Report{Success: false, Message: err.Error()}, nil
	}

	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	c.metrics.IngestRunning.Set(1)
	defer c.metrics.IngestRunning.Set(0)

	c.logger.Info("starting seed data loading", "path", csvPath)

	rows, err := c.readRows(csvPath)
	if err != nil {
		return Report{}, err
	}

	total := len(rows)
	c.logger.Info("processing rows", "total", total, "batch_size", batchSize)

	report := Report{TotalRows: total}
	errorCount := 0

	for i := 0; i < total; i += batchSize {
		end := min(i+batchSize, total)
		start := time.Now()

		res := c.processor.ProcessBatch(ctx, c.store, rows[i:end], i)

		c.metrics.BatchDuration.Observe(time.Since(start).Seconds())
		c.metrics.RowsProcessed.Add(float64(end - i))
		c.metrics.ShipmentsCreated.Add(float64(res.ShipmentsCreated))
		c.metrics.ArticlesCreated.Add(float64(res.ArticlesCreated))
		c.metrics.RowErrors.Add(float64(len(res.Errors)))

		report.ShipmentsCreated += res.ShipmentsCreated
		report.ArticlesCreated += res.ArticlesCreated
		errorCount += len(res.Errors)

		if progress != nil {
			progress.ReportProgress(ctx, end, total, i/batchSize+1)
		}
	}

	msg := fmt.Sprintf("Seed data loaded successfully! Processed: %d rows, Created: %d shipments, %d articles",
		total, report.ShipmentsCreated, report.ArticlesCreated)
	if errorCount > 0 {
		msg += fmt.Sprintf(" (with %d errors)", errorCount)
		c.logger.Warn("completed with errors", "errors", errorCount)
	}
	c.logger.Info(msg)

	report.Success = true
	report.Message = msg
	report.Errors = errorCount
	return report, nil
}

// readRows loads the full row set into memory. Ragged rows are tolerated;
// missing trailing columns surface as absent fields on the record.
func (c *Coordinator) readRows(csvPath string) ([]domain.SeedRecord, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}

	var rows []domain.SeedRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, domain.RecordFromRow(header, row))
	}
	return rows, nil
}
