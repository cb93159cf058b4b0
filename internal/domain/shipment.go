package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Known carrier values seen in seed data. Ingestion accepts free-form
// carrier strings; this list exists for fixtures and documentation.
const (
	CarrierDHL   = "DHL"
	CarrierUPS   = "UPS"
	CarrierDPD   = "DPD"
	CarrierFedEx = "FedEx"
	CarrierGLS   = "GLS"
)

// KnownCarriers lists the carriers produced by the fixture generator.
var KnownCarriers = []string{CarrierDHL, CarrierUPS, CarrierDPD, CarrierFedEx, CarrierGLS}

// KnownStatuses lists common shipment statuses. Free-form values from CSV
// files are stored as-is.
var KnownStatuses = []string{"in-transit", "inbound-scan", "delivery", "transit", "scanned"}

// Shipment is a tracked parcel. The tracking number is the sole uniqueness
// key during ingestion: once a shipment exists, later seed rows with the
// same tracking number never overwrite its fields.
type Shipment struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	UUID            string         `gorm:"type:char(36);uniqueIndex;not null" json:"uuid"`
	TrackingNumber  string         `gorm:"size:50;uniqueIndex" json:"tracking_number"`
	Carrier         string         `gorm:"size:50;index" json:"carrier"`
	SenderAddress   string         `gorm:"type:text" json:"sender_address"`
	ReceiverAddress string         `gorm:"type:text" json:"receiver_address"`
	Status          string         `gorm:"size:50" json:"status"`
	Articles        []Article      `gorm:"constraint:OnDelete:CASCADE" json:"articles"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns the public UUID on first insert.
func (s *Shipment) BeforeCreate(_ *gorm.DB) error {
	if s.UUID == "" {
		s.UUID = uuid.NewString()
	}
	return nil
}

// Article is one item inside a shipment. Articles are unique per
// (shipment, SKU) and are removed with their owning shipment.
type Article struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	UUID       string          `gorm:"type:char(36);uniqueIndex;not null" json:"uuid"`
	ShipmentID uint            `gorm:"not null;index:idx_shipment_sku,unique,priority:1" json:"shipment_id"`
	Name       string          `gorm:"size:100" json:"name"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
	SKU        string          `gorm:"size:50;column:sku;index:idx_shipment_sku,unique,priority:2" json:"sku"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BeforeCreate assigns the public UUID on first insert.
func (a *Article) BeforeCreate(_ *gorm.DB) error {
	if a.UUID == "" {
		a.UUID = uuid.NewString()
	}
	return nil
}
