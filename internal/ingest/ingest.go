package ingest

import (
	"context"

	"github.com/couchcryptid/parcel-tracking/internal/domain"
)

// DefaultBatchSize is used when a run is started with a non-positive batch size.
const DefaultBatchSize = 1000

// Tx is the transactional persistence surface available while a batch runs.
// Both operations are idempotent first-or-create: an existing record is
// returned unchanged with created=false, including when a concurrent run
// wins a creation race on the same key.
type Tx interface {
	FirstOrCreateShipment(ctx context.Context, trackingNumber string, defaults domain.Shipment) (*domain.Shipment, bool, error)
	FirstOrCreateArticle(ctx context.Context, shipmentID uint, sku string, defaults domain.Article) (*domain.Article, bool, error)
}

// Store opens one transaction per batch. The callback's error aborts and
// rolls back the transaction; a nil return commits it.
type Store interface {
	Transaction(ctx context.Context, fn func(tx Tx) error) error
}

// ProgressReporter receives a fire-and-forget notification after every
// completed batch.
type ProgressReporter interface {
	ReportProgress(ctx context.Context, processed, total, batch int)
}

// RowOutcome is the result of processing a single CSV row. The created
// flags are always false when Err is set, even if the row's shipment was
// persisted before the failure (see the package documentation).
type RowOutcome struct {
	ShipmentCreated bool
	ArticleCreated  bool
	Err             string
}

// BatchResult aggregates one batch: creation counts plus row errors in
// input order.
type BatchResult struct {
	ShipmentsCreated int
	ArticlesCreated  int
	Errors           []string
}

// Report is the sole externally visible result of an ingestion run.
type Report struct {
	Success          bool   `json:"success"`
	Message          string `json:"message"`
	TotalRows        int    `json:"total_rows"`
	ShipmentsCreated int    `json:"shipments_created"`
	ArticlesCreated  int    `json:"articles_created"`
	Errors           int    `json:"errors"`
}
