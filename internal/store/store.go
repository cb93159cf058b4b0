package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/couchcryptid/parcel-tracking/internal/config"
	"github.com/couchcryptid/parcel-tracking/internal/domain"
	"github.com/couchcryptid/parcel-tracking/internal/ingest"
)

// ErrNotFound is returned when a shipment lookup matches nothing.
var ErrNotFound = errors.New("shipment not found")

// Store is the MySQL-backed persistence layer. It implements ingest.Store
// for the seed pipeline and the read interfaces of the HTTP API.
type Store struct {
	db *gorm.DB
}

// Open connects to MySQL, tunes the connection pool, and migrates the
// shipment and article tables.
func Open(cfg *config.Config, logger *slog.Logger) (*Store, error) {
	db, err := gorm.Open(mysql.Open(cfg.MySQLDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Minute)

	if err := db.AutoMigrate(&domain.Shipment{}, &domain.Article{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	logger.Info("database connected", "host", cfg.DBHost, "name", cfg.DBName)
	return &Store{db: db}, nil
}

// New wraps an existing gorm handle, mainly for tests and tooling.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CheckReadiness pings the database.
func (s *Store) CheckReadiness(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Transaction runs fn inside one database transaction; fn's error rolls
// everything back.
func (s *Store) Transaction(ctx context.Context, fn func(tx ingest.Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Tx{db: tx})
	})
}

// ShipmentByTrackingAndCarrier loads a shipment with its articles. Returns
// ErrNotFound when no row matches both values.
func (s *Store) ShipmentByTrackingAndCarrier(ctx context.Context, trackingNumber, carrier string) (*domain.Shipment, error) {
	var shipment domain.Shipment
	err := s.db.WithContext(ctx).
		Preload("Articles").
		Where("tracking_number = ? AND carrier = ?", trackingNumber, carrier).
		First(&shipment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &shipment, nil
}

// Tx is the per-batch transactional surface handed to the ingest pipeline.
type Tx struct {
	db *gorm.DB
}

// FirstOrCreateShipment returns the shipment with the given tracking number,
// creating it from defaults when absent. A duplicate-key error from a
// concurrent creation race resolves to a re-fetch of the winner's row.
func (t *Tx) FirstOrCreateShipment(ctx context.Context, trackingNumber string, defaults domain.Shipment) (*domain.Shipment, bool, error) {
	var shipment domain.Shipment
	result := t.db.WithContext(ctx).
		Where("tracking_number = ?", trackingNumber).
		Attrs(domain.Shipment{
			Carrier:         defaults.Carrier,
			SenderAddress:   defaults.SenderAddress,
			ReceiverAddress: defaults.ReceiverAddress,
			Status:          defaults.Status,
		}).
		FirstOrCreate(&shipment)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			err := t.db.WithContext(ctx).Where("tracking_number = ?", trackingNumber).First(&shipment).Error
			if err != nil {
				return nil, false, fmt.Errorf("refetch shipment %s after conflict: %w", trackingNumber, err)
			}
			return &shipment, false, nil
		}
		return nil, false, result.Error
	}
	return &shipment, result.RowsAffected == 1, nil
}

// FirstOrCreateArticle returns the article keyed by (shipment, SKU),
// creating it from defaults when absent. Same conflict handling as
// FirstOrCreateShipment.
func (t *Tx) FirstOrCreateArticle(ctx context.Context, shipmentID uint, sku string, defaults domain.Article) (*domain.Article, bool, error) {
	var article domain.Article
	result := t.db.WithContext(ctx).
		Where("shipment_id = ? AND sku = ?", shipmentID, sku).
		Attrs(domain.Article{
			Name:     defaults.Name,
			Quantity: defaults.Quantity,
			Price:    defaults.Price,
		}).
		FirstOrCreate(&article)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			err := t.db.WithContext(ctx).Where("shipment_id = ? AND sku = ?", shipmentID, sku).First(&article).Error
			if err != nil {
				return nil, false, fmt.Errorf("refetch article %s after conflict: %w", sku, err)
			}
			return &article, false, nil
		}
		return nil, false, result.Error
	}
	return &article, result.RowsAffected == 1, nil
}

// isDuplicateKey detects a lost first-or-create race. gorm translates MySQL
// error 1062 to ErrDuplicatedKey on recent driver versions; the message
// check covers older ones.
func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "Duplicate entry")
}
