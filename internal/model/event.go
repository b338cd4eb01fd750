package model

import "time"

type EventType string

const (
	EventSale      EventType = "Venta"
	EventInventory EventType = "Inventario"
	EventCustomer  EventType = "Cliente"
)

// Event is an append-only log entry shown on the dashboard
type Event struct {
	BaseModel
	Type        EventType `gorm:"type:varchar(30);not null;index" json:"type"`
	Description string    `gorm:"type:text;not null" json:"description"`
	OccurredAt  time.Time `gorm:"not null;index" json:"occurred_at"`
	Actor       string    `gorm:"type:varchar(255)" json:"actor,omitempty"`
}
