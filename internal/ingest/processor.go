package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/couchcryptid/parcel-tracking/internal/domain"
	"github.com/couchcryptid/parcel-tracking/internal/observability"
)

// Options tune row processing behavior.
type Options struct {
	// StrictNumbers rejects rows whose quantity or price column is absent
	// instead of defaulting them to 0 / 0.00. Values that are present but
	// unparseable always reject the row regardless of this setting.
	StrictNumbers bool
}

// Processor turns raw seed records into idempotent upserts against the
// shipment and article tables.
type Processor struct {
	opts    Options
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewProcessor creates a Processor.
func NewProcessor(opts Options, logger *slog.Logger, metrics *observability.Metrics) *Processor {
	return &Processor{opts: opts, logger: logger, metrics: metrics}
}

// ProcessRow handles one CSV row inside an open batch transaction. rowNum is
// the 1-based position within the whole file, used only for error messages.
//
// The shipment first-or-create runs before the numeric fields are parsed,
// so a parse failure can leave the row's shipment created inside the
// transaction. That shipment survives if the batch commits; the row is
// still reported as an error with zero created counts.
func (p *Processor) ProcessRow(ctx context.Context, tx Tx, rec domain.SeedRecord, rowNum int) RowOutcome {
	trackingNumber := strings.TrimSpace(rec.TrackingNumber)
	if trackingNumber == "" {
		return RowOutcome{Err: fmt.Sprintf("Row %d: Empty tracking number", rowNum)}
	}

	shipment, shipmentCreated, err := tx.FirstOrCreateShipment(ctx, trackingNumber, domain.Shipment{
		TrackingNumber:  trackingNumber,
		Carrier:         strings.TrimSpace(rec.Carrier),
		SenderAddress:   strings.TrimSpace(rec.SenderAddress),
		ReceiverAddress: strings.TrimSpace(rec.ReceiverAddress),
		Status:          strings.TrimSpace(rec.Status),
	})
	if err != nil {
		return RowOutcome{Err: fmt.Sprintf("Row %d: %v", rowNum, err)}
	}

	quantity, price, err := p.parseArticleNumbers(rec)
	if err != nil {
		return RowOutcome{Err: fmt.Sprintf("Row %d: Invalid data - %v", rowNum, err)}
	}

	sku := strings.TrimSpace(rec.SKU)
	_, articleCreated, err := tx.FirstOrCreateArticle(ctx, shipment.ID, sku, domain.Article{
		ShipmentID: shipment.ID,
		Name:       strings.TrimSpace(rec.ArticleName),
		Quantity:   quantity,
		Price:      price,
		SKU:        sku,
	})
	if err != nil {
		return RowOutcome{Err: fmt.Sprintf("Row %d: %v", rowNum, err)}
	}

	return RowOutcome{ShipmentCreated: shipmentCreated, ArticleCreated: articleCreated}
}

// parseArticleNumbers parses the quantity and price columns. Absent columns
// default leniently unless StrictNumbers is set; present but malformed
// values always fail.
func (p *Processor) parseArticleNumbers(rec domain.SeedRecord) (int, decimal.Decimal, error) {
	quantity := 0
	switch {
	case rec.ArticleQuantity == nil:
		if p.opts.StrictNumbers {
			return 0, decimal.Zero, fmt.Errorf("missing article_quantity")
		}
	default:
		q, err := strconv.Atoi(strings.TrimSpace(*rec.ArticleQuantity))
		if err != nil {
			return 0, decimal.Zero, fmt.Errorf("invalid quantity %q", *rec.ArticleQuantity)
		}
		if q < 0 {
			return 0, decimal.Zero, fmt.Errorf("negative quantity %d", q)
		}
		quantity = q
	}

	price := decimal.Zero
	switch {
	case rec.ArticlePrice == nil:
		if p.opts.StrictNumbers {
			return 0, decimal.Zero, fmt.Errorf("missing article_price")
		}
	default:
		d, err := decimal.NewFromString(strings.TrimSpace(*rec.ArticlePrice))
		if err != nil {
			return 0, decimal.Zero, fmt.Errorf("invalid price %q", *rec.ArticlePrice)
		}
		if d.IsNegative() {
			return 0, decimal.Zero, fmt.Errorf("negative price %s", d)
		}
		price = d
	}

	return quantity, price, nil
}
