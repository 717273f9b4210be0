package models

import (
	"time"
)

type Team struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	Name            string         `gorm:"not null;size:100" json:"name"`
	Description     string         `gorm:"size:500" json:"description"`
	ManagerID       *uint          `gorm:"index" json:"manager_id"`
	Manager         *Employee      `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	EstablishmentID *uint          `gorm:"index" json:"establishment_id"`
	Establishment   *Establishment `gorm:"foreignKey:EstablishmentID" json:"establishment,omitempty"`
	Members         []Employee     `gorm:"foreignKey:TeamID" json:"members,omitempty"`
}
