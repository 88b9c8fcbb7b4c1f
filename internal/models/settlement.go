package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Settlement is the computed installer payout for one montage. At most
// one settlement exists per montage; once approved or paid it is frozen.
type Settlement struct {
	ID           uint                  `json:"id" gorm:"primaryKey"`
	MontageID    uint                  `json:"montage_id" gorm:"uniqueIndex;not null"`
	InstallerID  uint                  `json:"installer_id" gorm:"not null;index"`
	Status       string                `json:"status" gorm:"default:'draft'"` // draft, pending, approved, paid
	TotalAmount  float64               `json:"total_amount"`
	Calculations SettlementCalculation `json:"calculations" gorm:"type:text"`
	Note         string                `json:"note" gorm:"type:text"`
	PaidAt       *time.Time            `json:"paid_at"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

const (
	SettlementDraft    = "draft"
	SettlementPending  = "pending"
	SettlementApproved = "approved"
	SettlementPaid     = "paid"
)

// Editable reports whether the settlement may still be modified.
func (s *Settlement) Editable() bool {
	return s.Status != SettlementApproved && s.Status != SettlementPaid
}

// SettlementCalculation is the structured snapshot of how the total was
// derived, persisted as JSON in a text column.
type SettlementCalculation struct {
	Floor          FloorCalculation `json:"floor"`
	Services       []SettlementLine `json:"services"`
	Materials      []SettlementLine `json:"materials"`
	Corrections    []SettlementLine `json:"corrections,omitempty"`
	ManualOverride *ManualOverride  `json:"manual_override,omitempty"`
	Total          float64          `json:"total"`
}

type FloorCalculation struct {
	Area        float64 `json:"area"`
	Rate        float64 `json:"rate"`
	RateSource  string  `json:"rate_source"` // custom, service, profile
	ServiceCode string  `json:"service_code"`
	Amount      float64 `json:"amount"`
}

type SettlementLine struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Rate     float64 `json:"rate"`
	Amount   float64 `json:"amount"`
}

type ManualOverride struct {
	Amount float64 `json:"amount"`
	Reason string  `json:"reason"`
}

func (c SettlementCalculation) Value() (driver.Value, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (c *SettlementCalculation) Scan(value interface{}) error {
	if value == nil {
		*c = SettlementCalculation{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return fmt.Errorf("unsupported calculation column type %T", value)
	}
}
