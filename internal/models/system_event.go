package models

import "time"

// SystemEvent is the persisted audit log of business actions.
type SystemEvent struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Kind      string    `json:"kind" gorm:"not null;index"`
	Message   string    `json:"message" gorm:"type:text"`
	ActorID   *uint     `json:"actor_id"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	EventMontageStatusChanged = "montage.status_changed"
	EventMontageDeleted       = "montage.deleted"
	EventMontageRestored      = "montage.restored"
	EventPOCreated            = "purchase_order.created"
	EventPOReceived           = "purchase_order.received"
	EventMaterialsIssued      = "materials.issued"
	EventSettlementSaved      = "settlement.saved"
	EventSettlementPaid       = "settlement.paid"
	EventAdvanceRequested     = "advance.requested"
	EventAdvancePaid          = "advance.paid"
	EventQuoteAccepted        = "quote.accepted"
	EventProtocolSigned       = "protocol.signed"
)
