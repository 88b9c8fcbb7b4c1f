package models

import "time"

// Quote is a priced proposal attached to a montage. Quotes are
// append-only: status changes are allowed, deletion is not.
type Quote struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	MontageID uint        `json:"montage_id" gorm:"not null;index"`
	Number    string      `json:"number" gorm:"unique;not null"`
	Status    string      `json:"status" gorm:"default:'draft'"` // draft, sent, accepted, rejected
	TotalNet  float64     `json:"total_net"`
	Notes     string      `json:"notes" gorm:"type:text"`
	CreatedBy uint        `json:"created_by"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	Items     []QuoteItem `json:"items,omitempty" gorm:"foreignKey:QuoteID"`
}

const (
	QuoteDraft    = "draft"
	QuoteSent     = "sent"
	QuoteAccepted = "accepted"
	QuoteRejected = "rejected"
)

type QuoteItem struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	QuoteID      uint      `json:"quote_id" gorm:"not null;index"`
	Name         string    `json:"name" gorm:"not null"`
	Quantity     float64   `json:"quantity" gorm:"default:1"`
	Unit         string    `json:"unit" gorm:"default:'szt'"`
	UnitPriceNet float64   `json:"unit_price_net"`
	VatRate      float64   `json:"vat_rate" gorm:"default:23"`
	TotalNet     float64   `json:"total_net"`
	CreatedAt    time.Time `json:"created_at"`
}
