package models

import (
	"time"

	"gorm.io/gorm"
)

// Montage is one flooring installation job for one client. Its Status is
// the coarse lifecycle stage; MaterialStatus tracks procurement separately.
type Montage struct {
	ID                   uint           `json:"id" gorm:"primaryKey"`
	ClientID             uint           `json:"client_id" gorm:"not null;index"`
	Status               string         `json:"status" gorm:"default:'lead'"`
	MaterialStatus       string         `json:"material_status" gorm:"default:'none'"`
	AssignedInstallerID  *uint          `json:"assigned_installer_id" gorm:"index"`
	AssignedMeasurerID   *uint          `json:"assigned_measurer_id"`
	FloorArea            float64        `json:"floor_area"`
	InstallationMethod   string         `json:"installation_method"`  // click, glue
	InstallationPattern  string         `json:"installation_pattern"` // classic, herringbone
	MeasurementDate      *time.Time     `json:"measurement_date"`
	InstallationDate     *time.Time     `json:"installation_date"`
	StatusChangedAt      *time.Time     `json:"status_changed_at"`
	ProtocolSignedAt     *time.Time     `json:"protocol_signed_at"`
	ProtocolSignatureURL string         `json:"protocol_signature_url"`
	ProtocolNote         string         `json:"protocol_note" gorm:"type:text"`
	Notes                string         `json:"notes" gorm:"type:text"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	Client        *Client                `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	ExtraServices []MontageExtraService  `json:"extra_services,omitempty" gorm:"foreignKey:MontageID"`
	Materials     []MontageMaterial      `json:"materials,omitempty" gorm:"foreignKey:MontageID"`
	History       []MontageStatusHistory `json:"history,omitempty" gorm:"foreignKey:MontageID"`
}

// Montage lifecycle statuses, in forward order.
const (
	StatusLead                  = "lead"
	StatusBeforeMeasurement     = "before_measurement"
	StatusBeforeFirstPayment    = "before_first_payment"
	StatusDepositPaid           = "deposit_paid"
	StatusMaterialsOrdered      = "materials_ordered"
	StatusMaterialsPickupReady  = "materials_pickup_ready"
	StatusInstallationScheduled = "installation_scheduled"
	StatusMaterialsDelivered    = "materials_delivered"
	StatusBeforeInstallation    = "before_installation"
	StatusBeforeFinalInvoice    = "before_final_invoice"
	StatusCompleted             = "completed"
	StatusCancelled             = "cancelled"
)

// Material procurement statuses, monotonic forward.
const (
	MaterialNone      = "none"
	MaterialOrdered   = "ordered"
	MaterialInStock   = "in_stock"
	MaterialDelivered = "delivered"
)

// Installation methods and panel patterns.
const (
	MethodClick        = "click"
	MethodGlue         = "glue"
	PatternClassic     = "classic"
	PatternHerringbone = "herringbone"
)

// ServiceCode returns the installation service key derived from the
// montage's pattern and method, e.g. "classic_click". Rate lookups in the
// services catalog, per-installer overrides and the legacy profile rate
// table are all keyed by this code.
func (m *Montage) ServiceCode() string {
	return m.InstallationPattern + "_" + m.InstallationMethod
}

// MontageStatusHistory is the append-only audit trail of status changes.
// Rows are never updated or deleted.
type MontageStatusHistory struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	MontageID  uint      `json:"montage_id" gorm:"not null;index"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status" gorm:"not null"`
	Note       string    `json:"note"`
	ActorID    *uint     `json:"actor_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Measurement is a scheduled measurement visit. MeasurerID mirrors the
// owning montage's assignment and is rewritten whenever it changes.
type Measurement struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	MontageID   uint       `json:"montage_id" gorm:"not null;index"`
	MeasurerID  *uint      `json:"measurer_id"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	CompletedAt *time.Time `json:"completed_at"`
	FloorArea   float64    `json:"floor_area"`
	Notes       string     `json:"notes" gorm:"type:text"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Installation is a scheduled installation visit. InstallerID mirrors the
// owning montage's assignment and is rewritten whenever it changes.
type Installation struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	MontageID   uint       `json:"montage_id" gorm:"not null;index"`
	InstallerID *uint      `json:"installer_id"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	CompletedAt *time.Time `json:"completed_at"`
	Notes       string     `json:"notes" gorm:"type:text"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// MontageExtraService is an additional billed service (e.g. skirting
// boards, old floor removal). Name and InstallerRate are snapshots taken
// when the service was added to the montage, not live joins.
type MontageExtraService struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	MontageID     uint      `json:"montage_id" gorm:"not null;index"`
	Name          string    `json:"name" gorm:"not null"`
	Quantity      float64   `json:"quantity"`
	InstallerRate float64   `json:"installer_rate"`
	CreatedAt     time.Time `json:"created_at"`
}

// MontageMaterial is a material line on the montage. Quantity is free
// text from the UI and may be non-numeric.
type MontageMaterial struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	MontageID     uint      `json:"montage_id" gorm:"not null;index"`
	Name          string    `json:"name" gorm:"not null"`
	Quantity      string    `json:"quantity"`
	EstimatedCost float64   `json:"estimated_cost"`
	SupplySide    string    `json:"supply_side" gorm:"default:'company'"` // company, installer, client
	CreatedAt     time.Time `json:"created_at"`
}

const (
	SupplySideCompany   = "company"
	SupplySideInstaller = "installer"
	SupplySideClient    = "client"
)
