package store

import (
	"errors"
	"fmt"

	"shiftly/models"

	"gorm.io/gorm"
)

// TeamInput carries the fields of a new or updated team.
type TeamInput struct {
	Name        string
	Description string
	ManagerID   *uint
}

// CreateTeam creates a team in the actor's establishment. The manager, if
// given, must be an employee of the same establishment.
func (s *Service) CreateTeam(actor *models.User, input TeamInput) (*models.Team, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("team name is required: %w", models.ErrValidation)
	}

	establishmentID := actor.EstablishmentID
	if establishmentID == nil && !actor.IsSuperAdmin {
		return nil, fmt.Errorf("actor has no establishment: %w", models.ErrForbidden)
	}

	if err := s.validateTeamManager(input.ManagerID, establishmentID); err != nil {
		return nil, err
	}

	team := models.Team{
		Name:            input.Name,
		Description:     input.Description,
		ManagerID:       input.ManagerID,
		EstablishmentID: establishmentID,
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&team).Error
	}); err != nil {
		return nil, err
	}
	return &team, nil
}

// UpdateTeam patches a team the actor controls.
func (s *Service) UpdateTeam(actor *models.User, id uint, input TeamInput) (*models.Team, error) {
	team, err := s.manageableTeam(actor, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		team.Name = input.Name
	}
	team.Description = input.Description
	if input.ManagerID != nil {
		if err := s.validateTeamManager(input.ManagerID, team.EstablishmentID); err != nil {
			return nil, err
		}
		team.ManagerID = input.ManagerID
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Save(team).Error
	}); err != nil {
		return nil, err
	}
	return team, nil
}

// DeleteTeam removes the team and detaches its members; their assignments
// are untouched.
func (s *Service) DeleteTeam(actor *models.User, id uint) error {
	team, err := s.manageableTeam(actor, id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Employee{}).Where("team_id = ?", team.ID).
			Update("team_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(team).Error
	})
}

// AssignToTeam moves employees into the team. Each employee must be
// manageable by the actor and belong to the team's establishment.
func (s *Service) AssignToTeam(actor *models.User, teamID uint, employeeIDs []uint) error {
	team, err := s.manageableTeam(actor, teamID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, employeeID := range employeeIDs {
			employee, err := s.manageableEmployee(actor, employeeID)
			if err != nil {
				return err
			}
			if team.EstablishmentID != nil && (employee.EstablishmentID == nil ||
				*employee.EstablishmentID != *team.EstablishmentID) {
				return fmt.Errorf("employee %d belongs to another establishment: %w",
					employeeID, models.ErrForbidden)
			}
			if err := tx.Model(employee).Update("team_id", team.ID).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// RemoveFromTeam detaches one employee from the team.
func (s *Service) RemoveFromTeam(actor *models.User, teamID, employeeID uint) error {
	team, err := s.manageableTeam(actor, teamID)
	if err != nil {
		return err
	}

	var employee models.Employee
	if err := s.db.First(&employee, employeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("employee %d: %w", employeeID, models.ErrNotFound)
		}
		return err
	}
	if employee.TeamID == nil || *employee.TeamID != team.ID {
		return fmt.Errorf("employee %d is not in team %d: %w", employeeID, teamID, models.ErrValidation)
	}

	return s.db.Model(&employee).Update("team_id", nil).Error
}

func (s *Service) manageableTeam(actor *models.User, id uint) (*models.Team, error) {
	var team models.Team
	if err := s.db.First(&team, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("team %d: %w", id, models.ErrNotFound)
		}
		return nil, err
	}

	ok, err := s.resolver.CanManageTeam(actor, &team)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("team %d is outside your scope: %w", id, models.ErrForbidden)
	}
	return &team, nil
}

func (s *Service) validateTeamManager(managerID, establishmentID *uint) error {
	if managerID == nil {
		return nil
	}
	var manager models.Employee
	if err := s.db.First(&manager, *managerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("manager employee %d: %w", *managerID, models.ErrNotFound)
		}
		return err
	}
	if establishmentID != nil && (manager.EstablishmentID == nil ||
		*manager.EstablishmentID != *establishmentID) {
		return fmt.Errorf("team manager must belong to the team's establishment: %w", models.ErrValidation)
	}
	return nil
}
