package store

import (
	"errors"
	"fmt"

	"shiftly/models"

	"gorm.io/gorm"
)

// CreateEstablishment creates a tenant. Super-admin only; the route gate
// enforces it too, this is the defense at the operation.
func (s *Service) CreateEstablishment(actor *models.User, name string) (*models.Establishment, error) {
	if !actor.IsSuperAdmin {
		return nil, fmt.Errorf("establishment management requires super-admin: %w", models.ErrForbidden)
	}
	if name == "" {
		return nil, fmt.Errorf("establishment name is required: %w", models.ErrValidation)
	}

	var count int64
	s.db.Model(&models.Establishment{}).Where("name = ?", name).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("establishment %q: %w", name, models.ErrDuplicate)
	}

	establishment := models.Establishment{Name: name}
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&establishment).Error
	}); err != nil {
		return nil, err
	}
	return &establishment, nil
}

// DeleteEstablishment removes a tenant with the full cascade, in order:
// detach users, delete the employees' assignments, delete the employees,
// delete the teams, delete the establishment row. One transaction; a
// failure anywhere rolls the whole protocol back.
func (s *Service) DeleteEstablishment(actor *models.User, id uint) error {
	if !actor.IsSuperAdmin {
		return fmt.Errorf("establishment management requires super-admin: %w", models.ErrForbidden)
	}

	var establishment models.Establishment
	if err := s.db.First(&establishment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("establishment %d: %w", id, models.ErrNotFound)
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("establishment_id = ?", id).
			Update("establishment_id", nil).Error; err != nil {
			return err
		}

		var employeeIDs []uint
		if err := tx.Model(&models.Employee{}).Where("establishment_id = ?", id).
			Pluck("id", &employeeIDs).Error; err != nil {
			return err
		}
		if len(employeeIDs) > 0 {
			if err := tx.Where("employee_id IN ?", employeeIDs).
				Delete(&models.Assignment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", employeeIDs).
				Delete(&models.Employee{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("establishment_id = ?", id).Delete(&models.Team{}).Error; err != nil {
			return err
		}

		return tx.Delete(&establishment).Error
	})
}
