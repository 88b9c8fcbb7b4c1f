package models

import "time"

// Advance is a cash advance requested by an installer against future
// settlements. Advances are never deleted.
type Advance struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	InstallerID  uint       `json:"installer_id" gorm:"not null;index"`
	Amount       float64    `json:"amount" gorm:"not null"`
	Status       string     `json:"status" gorm:"default:'pending'"` // pending, paid, deducted
	Description  string     `json:"description" gorm:"type:text"`
	SettlementID *uint      `json:"settlement_id"` // set when deducted
	PaidDate     *time.Time `json:"paid_date"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

const (
	AdvancePending  = "pending"
	AdvancePaid     = "paid"
	AdvanceDeducted = "deducted"
)
