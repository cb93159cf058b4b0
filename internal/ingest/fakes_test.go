package ingest_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/couchcryptid/parcel-tracking/internal/domain"
	"github.com/couchcryptid/parcel-tracking/internal/ingest"
	"github.com/couchcryptid/parcel-tracking/internal/observability"
)

// fakeStore is an in-memory ingest.Store with snapshot-based rollback so
// batch transactions behave like the real thing.
type fakeStore struct {
	mu             sync.Mutex
	shipments      map[string]*domain.Shipment
	articles       map[string]*domain.Article
	nextShipmentID uint
	nextArticleID  uint

	txCount     int
	commitErr   error // every transaction fails to commit while set
	shipmentErr error // forced failure from FirstOrCreateShipment
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		shipments: make(map[string]*domain.Shipment),
		articles:  make(map[string]*domain.Article),
	}
}

func (s *fakeStore) Transaction(_ context.Context, fn func(tx ingest.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.txCount++
	shipmentSnap := snapshot(s.shipments)
	articleSnap := snapshot(s.articles)

	err := fn(&fakeTx{store: s})
	if err == nil {
		err = s.commitErr
	}
	if err != nil {
		s.shipments = shipmentSnap
		s.articles = articleSnap
		return err
	}
	return nil
}

func (s *fakeStore) shipmentCount() int { return len(s.shipments) }
func (s *fakeStore) articleCount() int  { return len(s.articles) }

func (s *fakeStore) shipment(trackingNumber string) *domain.Shipment {
	return s.shipments[trackingNumber]
}

func snapshot[V any](m map[string]*V) map[string]*V {
	out := make(map[string]*V, len(m))
	for k, v := range m {
		copied := *v
		out[k] = &copied
	}
	return out
}

type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) FirstOrCreateShipment(_ context.Context, trackingNumber string, defaults domain.Shipment) (*domain.Shipment, bool, error) {
	if t.store.shipmentErr != nil {
		return nil, false, t.store.shipmentErr
	}
	if existing, ok := t.store.shipments[trackingNumber]; ok {
		return existing, false, nil
	}
	t.store.nextShipmentID++
	created := defaults
	created.ID = t.store.nextShipmentID
	created.TrackingNumber = trackingNumber
	t.store.shipments[trackingNumber] = &created
	return &created, true, nil
}

func (t *fakeTx) FirstOrCreateArticle(_ context.Context, shipmentID uint, sku string, defaults domain.Article) (*domain.Article, bool, error) {
	key := fmt.Sprintf("%d|%s", shipmentID, sku)
	if existing, ok := t.store.articles[key]; ok {
		return existing, false, nil
	}
	t.store.nextArticleID++
	created := defaults
	created.ID = t.store.nextArticleID
	created.ShipmentID = shipmentID
	created.SKU = sku
	t.store.articles[key] = &created
	return &created, true, nil
}

// countingReporter records every progress notification.
type progressCall struct {
	processed int
	total     int
	batch     int
}

type countingReporter struct {
	calls []progressCall
}

func (r *countingReporter) ReportProgress(_ context.Context, processed, total, batch int) {
	r.calls = append(r.calls, progressCall{processed: processed, total: total, batch: batch})
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func newTestProcessor(opts ingest.Options) *ingest.Processor {
	return ingest.NewProcessor(opts, testLogger(), testMetrics())
}

func strPtr(s string) *string { return &s }

// validRecord returns a fully populated seed record for tracking number tn.
func validRecord(tn, sku string) domain.SeedRecord {
	return domain.SeedRecord{
		TrackingNumber:  tn,
		Carrier:         "DHL",
		SenderAddress:   "Street 1, 10115 Berlin, Germany",
		ReceiverAddress: "Street 10, 75001 Paris, France",
		Status:          "in-transit",
		ArticleName:     "Test Product",
		ArticleQuantity: strPtr("2"),
		ArticlePrice:    strPtr("29.99"),
		SKU:             sku,
	}
}
