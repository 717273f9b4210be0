package models

import (
	"time"

	"gorm.io/gorm"
)

// Tier is a user's effective authorization level. Precedence is resolved
// once here instead of re-combining the role flags at every call site.
type Tier int

const (
	TierEmployee Tier = iota
	TierManager
	TierAdmin
	TierSuperAdmin
)

func (t Tier) String() string {
	switch t {
	case TierSuperAdmin:
		return "super_admin"
	case TierAdmin:
		return "admin"
	case TierManager:
		return "manager"
	default:
		return "employee"
	}
}

type User struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	Username        string         `gorm:"uniqueIndex;not null;size:100" json:"username"`
	Email           string         `gorm:"uniqueIndex;not null;size:120" json:"email"`
	PasswordHash    string         `gorm:"not null" json:"-"`
	IsManager       bool           `gorm:"default:false" json:"is_manager"`
	IsAdmin         bool           `gorm:"default:false" json:"is_admin"`
	IsSuperAdmin    bool           `gorm:"default:false" json:"is_super_admin"`
	EstablishmentID *uint          `gorm:"index" json:"establishment_id"`
	Establishment   *Establishment `gorm:"foreignKey:EstablishmentID" json:"establishment,omitempty"`
	Employee        *Employee      `gorm:"foreignKey:UserID" json:"employee,omitempty"`
}

// Tier resolves the role flags into a single level. The flags are not
// mutually exclusive; the highest one wins.
func (u *User) Tier() Tier {
	switch {
	case u.IsSuperAdmin:
		return TierSuperAdmin
	case u.IsAdmin:
		return TierAdmin
	case u.IsManager:
		return TierManager
	default:
		return TierEmployee
	}
}

// CanSchedule reports whether the user may reach manager-level routes at
// all. Per-target checks are done by the visibility resolver.
func (u *User) CanSchedule() bool {
	return u.Tier() >= TierManager
}

func (u *User) DisplayName() string {
	if u.Employee != nil && u.Employee.FullName != "" {
		return u.Employee.FullName
	}
	return u.Username
}
