package store

import (
	"errors"
	"fmt"
	"time"

	"shiftly/models"

	"gorm.io/gorm"
)

// ShiftInput carries the fields of a shift template.
type ShiftInput struct {
	Name            string
	Color           string
	StartTime       string // "HH:MM"
	EndTime         string // "HH:MM"
	EmployeesNeeded int
}

func (s *Service) CreateShift(actor *models.User, input ShiftInput) (*models.Shift, error) {
	if err := validateShiftInput(input); err != nil {
		return nil, err
	}

	shift := models.Shift{
		Name:            input.Name,
		Color:           input.Color,
		StartTime:       input.StartTime,
		EndTime:         input.EndTime,
		EmployeesNeeded: input.EmployeesNeeded,
		CreatedBy:       &actor.ID,
	}
	if shift.Color == "" {
		shift.Color = "#3B82F6"
	}
	if shift.EmployeesNeeded < 1 {
		shift.EmployeesNeeded = 1
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&shift).Error
	}); err != nil {
		return nil, err
	}
	return &shift, nil
}

func (s *Service) UpdateShift(actor *models.User, id uint, input ShiftInput) (*models.Shift, error) {
	var shift models.Shift
	if err := s.db.First(&shift, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("shift %d: %w", id, models.ErrNotFound)
		}
		return nil, err
	}

	if input.Name != "" {
		shift.Name = input.Name
	}
	if input.Color != "" {
		shift.Color = input.Color
	}
	if input.StartTime != "" || input.EndTime != "" {
		if input.StartTime != "" {
			shift.StartTime = input.StartTime
		}
		if input.EndTime != "" {
			shift.EndTime = input.EndTime
		}
		if err := validateShiftInput(ShiftInput{
			Name: shift.Name, StartTime: shift.StartTime, EndTime: shift.EndTime,
		}); err != nil {
			return nil, err
		}
	}
	if input.EmployeesNeeded > 0 {
		shift.EmployeesNeeded = input.EmployeesNeeded
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Save(&shift).Error
	}); err != nil {
		return nil, err
	}
	return &shift, nil
}

// DeleteShift removes the template. Existing assignments keep their time
// window; their shift link is nulled.
func (s *Service) DeleteShift(actor *models.User, id uint) error {
	var shift models.Shift
	if err := s.db.First(&shift, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("shift %d: %w", id, models.ErrNotFound)
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Assignment{}).Where("shift_id = ?", shift.ID).
			Update("shift_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&shift).Error
	})
}

func validateShiftInput(input ShiftInput) error {
	if input.Name == "" {
		return fmt.Errorf("shift name is required: %w", models.ErrValidation)
	}
	for _, v := range []string{input.StartTime, input.EndTime} {
		if _, err := time.Parse("15:04", v); err != nil {
			return fmt.Errorf("shift times must be HH:MM: %w", models.ErrValidation)
		}
	}
	return nil
}
