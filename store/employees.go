// Package store implements the admin-side entity operations: employee,
// team, shift and establishment management, including the explicit
// deletion cascades. Authorization for per-target operations goes through
// the visibility resolver; route-level role gates are the middleware's job.
package store

import (
	"errors"
	"fmt"
	"strings"

	"shiftly/models"
	"shiftly/visibility"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultEmployeePassword is the initial password set on accounts created
// alongside an employee. Users are expected to change it from settings.
const DefaultEmployeePassword = "maihlili123"

type Service struct {
	db       *gorm.DB
	resolver *visibility.Resolver
}

func NewService(db *gorm.DB, resolver *visibility.Resolver) *Service {
	return &Service{db: db, resolver: resolver}
}

// EmployeeInput carries the fields of a new or updated employee. When
// CreateAccount is set and Email is non-empty, a linked user account is
// created in the same transaction.
type EmployeeInput struct {
	FullName      string
	Position      string
	TeamID        *uint
	ContractHours float64
	ContractType  string
	Email         string
	CreateAccount bool
}

// CreateEmployee creates an employee in the actor's establishment,
// optionally with a paired user account. Everything happens in one
// transaction: an employee without its requested account must not persist.
func (s *Service) CreateEmployee(actor *models.User, input EmployeeInput) (*models.Employee, error) {
	if input.FullName == "" {
		return nil, fmt.Errorf("full name is required: %w", models.ErrValidation)
	}
	if input.ContractHours < 0 {
		return nil, fmt.Errorf("contract hours must not be negative: %w", models.ErrValidation)
	}

	establishmentID := actor.EstablishmentID
	if establishmentID == nil && !actor.IsSuperAdmin {
		return nil, fmt.Errorf("actor has no establishment: %w", models.ErrForbidden)
	}

	contractHours := input.ContractHours
	if contractHours == 0 {
		contractHours = 35.0
	}
	contractType := input.ContractType
	if contractType == "" {
		contractType = "CDI"
	}

	employee := models.Employee{
		FullName:        input.FullName,
		Position:        input.Position,
		IsActive:        true,
		EstablishmentID: establishmentID,
		TeamID:          input.TeamID,
		ContractType:    contractType,
	}
	employee.ApplyContractHours(contractHours)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if input.CreateAccount && input.Email != "" {
			var count int64
			tx.Model(&models.User{}).Where("email = ?", input.Email).Count(&count)
			if count > 0 {
				return fmt.Errorf("email %s: %w", input.Email, models.ErrDuplicate)
			}

			username, err := s.availableUsername(tx, input.FullName)
			if err != nil {
				return err
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(DefaultEmployeePassword), bcrypt.DefaultCost)
			if err != nil {
				return err
			}

			account := models.User{
				Username:        username,
				Email:           input.Email,
				PasswordHash:    string(hash),
				EstablishmentID: establishmentID,
			}
			if err := tx.Create(&account).Error; err != nil {
				return err
			}
			employee.UserID = &account.ID
		}

		return tx.Create(&employee).Error
	})
	if err != nil {
		return nil, err
	}

	return &employee, nil
}

// EmployeePatch carries optional employee updates; nil leaves the field
// unchanged. TeamID moves the employee into a team; detaching goes
// through RemoveFromTeam.
type EmployeePatch struct {
	FullName      *string
	Position      *string
	TeamID        *uint
	ContractHours *float64
	ContractType  *string
}

// UpdateEmployee patches an employee the actor manages.
func (s *Service) UpdateEmployee(actor *models.User, id uint, patch EmployeePatch) (*models.Employee, error) {
	employee, err := s.manageableEmployee(actor, id)
	if err != nil {
		return nil, err
	}

	if patch.FullName != nil {
		if *patch.FullName == "" {
			return nil, fmt.Errorf("full name is required: %w", models.ErrValidation)
		}
		employee.FullName = *patch.FullName
	}
	if patch.Position != nil {
		employee.Position = *patch.Position
	}
	if patch.TeamID != nil {
		employee.TeamID = patch.TeamID
	}
	if patch.ContractType != nil {
		employee.ContractType = *patch.ContractType
	}
	if patch.ContractHours != nil {
		if *patch.ContractHours <= 0 {
			return nil, fmt.Errorf("contract hours must be positive: %w", models.ErrValidation)
		}
		employee.ApplyContractHours(*patch.ContractHours)
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Save(employee).Error
	}); err != nil {
		return nil, err
	}
	return employee, nil
}

// UpdateContract sets the weekly contract hours and contract type,
// re-deriving the monthly baseline.
func (s *Service) UpdateContract(actor *models.User, id uint, hoursPerWeek float64, contractType string) (*models.Employee, error) {
	if hoursPerWeek <= 0 {
		return nil, fmt.Errorf("contract hours must be positive: %w", models.ErrValidation)
	}

	employee, err := s.manageableEmployee(actor, id)
	if err != nil {
		return nil, err
	}

	employee.ApplyContractHours(hoursPerWeek)
	if contractType != "" {
		employee.ContractType = contractType
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Save(employee).Error
	}); err != nil {
		return nil, err
	}
	return employee, nil
}

// DeleteEmployee removes the employee and its assignments in one
// transaction.
func (s *Service) DeleteEmployee(actor *models.User, id uint) error {
	employee, err := s.manageableEmployee(actor, id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("employee_id = ?", employee.ID).Delete(&models.Assignment{}).Error; err != nil {
			return err
		}
		return tx.Delete(employee).Error
	})
}

// DeactivateEmployee marks the employee inactive without deleting history.
func (s *Service) DeactivateEmployee(actor *models.User, id uint) error {
	employee, err := s.manageableEmployee(actor, id)
	if err != nil {
		return err
	}
	employee.IsActive = false
	return s.db.Save(employee).Error
}

func (s *Service) manageableEmployee(actor *models.User, id uint) (*models.Employee, error) {
	var employee models.Employee
	if err := s.db.First(&employee, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("employee %d: %w", id, models.ErrNotFound)
		}
		return nil, err
	}

	ok, err := s.resolver.CanManage(actor, &employee)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("employee %d is outside your scope: %w", id, models.ErrForbidden)
	}
	return &employee, nil
}

// availableUsername derives a username from the full name ("Jane Doe" ->
// "jane.doe") and appends a counter until it is free.
func (s *Service) availableUsername(tx *gorm.DB, fullName string) (string, error) {
	base := strings.ToLower(strings.TrimSpace(fullName))
	base = strings.ReplaceAll(base, " ", ".")
	replacer := strings.NewReplacer("é", "e", "è", "e", "ê", "e", "à", "a", "ç", "c")
	base = replacer.Replace(base)
	if base == "" {
		base = "employee"
	}

	username := base
	for counter := 1; ; counter++ {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return username, nil
		}
		username = fmt.Sprintf("%s%d", base, counter)
	}
}
