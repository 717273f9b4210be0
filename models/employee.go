package models

import (
	"math"
	"time"

	"gorm.io/gorm"
)

// DefaultContractHoursPerMonth is the monthly baseline for a standard
// 35h/week contract (35 * 52 / 12 rounded to 2 decimals).
const DefaultContractHoursPerMonth = 151.67

type Employee struct {
	ID                    uint           `gorm:"primaryKey" json:"id"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`
	FullName              string         `gorm:"not null;size:100" json:"full_name"`
	Position              string         `gorm:"size:100" json:"position"`
	IsActive              bool           `gorm:"default:true" json:"is_active"`
	EstablishmentID       *uint          `gorm:"index" json:"establishment_id"`
	Establishment         *Establishment `gorm:"foreignKey:EstablishmentID" json:"establishment,omitempty"`
	TeamID                *uint          `gorm:"index" json:"team_id"`
	Team                  *Team          `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	UserID                *uint          `gorm:"index" json:"user_id"`
	ContractHoursPerWeek  float64        `gorm:"default:35" json:"contract_hours_per_week"`
	ContractHoursPerMonth float64        `gorm:"default:151.67" json:"contract_hours_per_month"`
	ContractType          string         `gorm:"size:20;default:CDI" json:"contract_type"`
	Assignments           []Assignment   `gorm:"foreignKey:EmployeeID" json:"assignments,omitempty"`
}

// ApplyContractHours sets the weekly contract hours and derives the monthly
// baseline from it (52 weeks averaged over 12 months). The derivation is
// the single formula tying weekly input to the monthly target used by the
// hours engine.
func (e *Employee) ApplyContractHours(perWeek float64) {
	e.ContractHoursPerWeek = perWeek
	e.ContractHoursPerMonth = Round2(perWeek * 52 / 12)
}

// Round2 rounds to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds to 1 decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
