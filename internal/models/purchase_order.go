package models

import "time"

// PurchaseOrder groups material line items ordered from one supplier,
// possibly covering several montages. It is mutated once on receipt and
// never deleted.
type PurchaseOrder struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	Number     string     `json:"number" gorm:"unique;not null"`
	SupplierID uint       `json:"supplier_id" gorm:"not null;index"`
	Status     string     `json:"status" gorm:"default:'ordered'"` // ordered, received
	ReceivedAt *time.Time `json:"received_at"`
	CreatedBy  uint       `json:"created_by"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	Supplier *Supplier           `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
	Items    []PurchaseOrderItem `json:"items,omitempty" gorm:"foreignKey:PurchaseOrderID"`
}

const (
	POOrdered  = "ordered"
	POReceived = "received"
)

// PurchaseOrderItem references the montage it was ordered for. Items are
// copied from the montage's authoritative quote at PO creation time.
type PurchaseOrderItem struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	PurchaseOrderID uint      `json:"purchase_order_id" gorm:"not null;index"`
	MontageID       uint      `json:"montage_id" gorm:"not null;index"`
	Name            string    `json:"name" gorm:"not null"`
	Quantity        float64   `json:"quantity" gorm:"default:1"`
	Unit            string    `json:"unit" gorm:"default:'szt'"`
	UnitPriceNet    float64   `json:"unit_price_net"`
	VatRate         float64   `json:"vat_rate"`
	TotalNet        float64   `json:"total_net"`
	TotalGross      float64   `json:"total_gross"`
	CreatedAt       time.Time `json:"created_at"`
}

type Supplier struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	Notes       string    `json:"notes" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
