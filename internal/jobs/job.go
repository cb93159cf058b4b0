// Package jobs defines asynchronous seed-data ingestion jobs and the status
// store that tracks their lifecycle across the API and worker processes.
package jobs

import (
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/parcel-tracking/internal/domain"
)

// IngestJob is one request to ingest a seed CSV file. It travels over the
// job queue from the API to a worker.
type IngestJob struct {
	ID          string    `json:"id"`
	CSVPath     string    `json:"csv_path"`
	BatchSize   int       `json:"batch_size"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewIngestJob creates a job with a fresh ID. A non-positive batchSize is
// kept as-is; the pipeline substitutes its default at run time.
func NewIngestJob(csvPath string, batchSize int) IngestJob {
	return IngestJob{
		ID:          uuid.NewString(),
		CSVPath:     csvPath,
		BatchSize:   batchSize,
		RequestedAt: domain.Now(),
	}
}
