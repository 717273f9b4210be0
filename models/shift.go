package models

import (
	"time"
)

// Shift is a reusable template (name, color, time-of-day window), not a
// scheduled occurrence. Scheduled occurrences are Assignments.
type Shift struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Name            string    `gorm:"not null;size:100" json:"name"`
	Color           string    `gorm:"size:7;default:#3B82F6" json:"color"`
	StartTime       string    `gorm:"not null;size:5" json:"start_time"` // "HH:MM"
	EndTime         string    `gorm:"not null;size:5" json:"end_time"`   // "HH:MM"
	EmployeesNeeded int       `gorm:"default:1" json:"employees_needed"`
	CreatedBy       *uint     `json:"created_by"`
}

// DurationHours computes the template's length in hours. Shifts crossing
// midnight (end before start) wrap to the next day.
func (s *Shift) DurationHours() float64 {
	start, err := time.Parse("15:04", s.StartTime)
	if err != nil {
		return 0
	}
	end, err := time.Parse("15:04", s.EndTime)
	if err != nil {
		return 0
	}
	if end.Before(start) {
		end = end.Add(24 * time.Hour)
	}
	return end.Sub(start).Hours()
}
