package model

import "time"

// Customer is an entry of the roster. Staff members live in the same roster
// and are distinguished by a non-empty Profile. DNI is unique among rows that
// are not soft deleted, so a deleted customer's DNI can be registered again.
type Customer struct {
	BaseModel
	Name         string    `gorm:"type:varchar(255);not null;index" json:"name"`
	DNI          string    `gorm:"type:varchar(8);not null;uniqueIndex:idx_customers_dni,where:deleted_at IS NULL" json:"dni"`
	Phone        string    `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Profile      Profile   `gorm:"type:varchar(30)" json:"profile,omitempty"`
	RegisteredAt time.Time `gorm:"not null" json:"registered_at"`
}

// IsStaff reports whether the customer may log in.
func (c *Customer) IsStaff() bool {
	return c.Profile.Staff()
}
