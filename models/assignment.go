package models

import (
	"time"

	"gorm.io/gorm"
)

type AssignmentStatus string

const (
	StatusScheduled  AssignmentStatus = "scheduled"
	StatusInProgress AssignmentStatus = "in_progress"
	StatusCompleted  AssignmentStatus = "completed"
	StatusCancelled  AssignmentStatus = "cancelled"
)

// Valid reports whether s is one of the defined statuses.
func (s AssignmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Assignment struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
	DeletedAt  gorm.DeletedAt   `gorm:"index" json:"-"`
	EmployeeID uint             `gorm:"not null;index" json:"employee_id"`
	Employee   *Employee        `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	ShiftID    *uint            `gorm:"index" json:"shift_id"`
	Shift      *Shift           `gorm:"foreignKey:ShiftID" json:"shift,omitempty"`
	Start      time.Time        `gorm:"not null;index" json:"start"`
	End        time.Time        `gorm:"not null" json:"end"`
	Status     AssignmentStatus `gorm:"size:20;default:scheduled" json:"status"`
	Notes      string           `gorm:"size:500" json:"notes"`
	CreatedBy  uint             `json:"created_by"`
}

func (a *Assignment) DurationHours() float64 {
	return Round2(a.End.Sub(a.Start).Seconds() / 3600)
}

// EffectiveStatus derives the status from wall-clock time. Cancelled is
// sticky; everything else is a pure function of now relative to the window,
// so recomputing with the same now is idempotent.
func (a *Assignment) EffectiveStatus(now time.Time) AssignmentStatus {
	if a.Status == StatusCancelled {
		return StatusCancelled
	}
	switch {
	case a.Start.After(now):
		return StatusScheduled
	case a.End.Before(now):
		return StatusCompleted
	default:
		return StatusInProgress
	}
}
