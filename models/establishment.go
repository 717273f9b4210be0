package models

import (
	"time"
)

// Establishment is the tenant boundary. Every visibility check resolves
// against it first.
type Establishment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"uniqueIndex;not null;size:100" json:"name"`
	Employees []Employee `gorm:"foreignKey:EstablishmentID" json:"employees,omitempty"`
	Teams     []Team     `gorm:"foreignKey:EstablishmentID" json:"teams,omitempty"`
}
