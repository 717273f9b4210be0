// Package visibility decides which employees and teams an acting user may
// view or mutate. Scoping is establishment-first (tenant isolation), then
// role-based: super-admins see everything, admins see their establishment,
// managers see the teams they lead plus the establishment's unassigned
// pool, plain employees see nothing.
package visibility

import (
	"errors"

	"shiftly/models"

	"gorm.io/gorm"
)

type Resolver struct {
	db *gorm.DB
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// ManageableEmployees returns the set of active employees the actor may
// manage, deduplicated by id. An actor without an establishment (or
// without an employee record, for managers) gets an empty set, not an
// error: "no visible employees" is a valid state for an unconfigured
// account.
func (r *Resolver) ManageableEmployees(actor *models.User) ([]models.Employee, error) {
	if actor.IsSuperAdmin {
		var employees []models.Employee
		err := r.db.Where("is_active = ?", true).Order("full_name").Find(&employees).Error
		return employees, err
	}

	if actor.EstablishmentID == nil {
		return []models.Employee{}, nil
	}

	if actor.IsAdmin {
		var employees []models.Employee
		err := r.db.Where("is_active = ? AND establishment_id = ?", true, *actor.EstablishmentID).
			Order("full_name").Find(&employees).Error
		return employees, err
	}

	if !actor.IsManager {
		return []models.Employee{}, nil
	}

	managerEmployee, err := r.actorEmployee(actor)
	if err != nil {
		return nil, err
	}
	if managerEmployee == nil {
		return []models.Employee{}, nil
	}

	teamIDs, err := r.managedTeamIDs(managerEmployee.ID, *actor.EstablishmentID)
	if err != nil {
		return nil, err
	}

	var teamMembers []models.Employee
	if len(teamIDs) > 0 {
		if err := r.db.Where("is_active = ? AND team_id IN ?", true, teamIDs).
			Find(&teamMembers).Error; err != nil {
			return nil, err
		}
	}

	var unassigned []models.Employee
	if err := r.db.Where("is_active = ? AND establishment_id = ? AND team_id IS NULL",
		true, *actor.EstablishmentID).Find(&unassigned).Error; err != nil {
		return nil, err
	}

	// An employee can be reachable through two teams or through both the
	// team and unassigned paths; keep the first occurrence only.
	seen := make(map[uint]bool, len(teamMembers)+len(unassigned))
	result := make([]models.Employee, 0, len(teamMembers)+len(unassigned))
	for _, emp := range append(teamMembers, unassigned...) {
		if seen[emp.ID] {
			continue
		}
		seen[emp.ID] = true
		result = append(result, emp)
	}

	return result, nil
}

// CanManage reports whether the actor may mutate the given employee. The
// establishment check applies to every role below super-admin regardless
// of flags.
func (r *Resolver) CanManage(actor *models.User, employee *models.Employee) (bool, error) {
	if actor.IsSuperAdmin {
		return true, nil
	}

	if employee.EstablishmentID == nil || actor.EstablishmentID == nil ||
		*employee.EstablishmentID != *actor.EstablishmentID {
		return false, nil
	}

	if actor.IsAdmin {
		return true, nil
	}

	if !actor.IsManager {
		return false, nil
	}

	managerEmployee, err := r.actorEmployee(actor)
	if err != nil {
		return false, err
	}
	if managerEmployee == nil {
		return false, nil
	}

	if employee.TeamID != nil {
		var team models.Team
		if err := r.db.First(&team, *employee.TeamID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, err
		}
		return team.ManagerID != nil && *team.ManagerID == managerEmployee.ID, nil
	}

	// Unassigned employees form a pool any active manager of the
	// establishment may claim, provided they lead at least one team there.
	var count int64
	if err := r.db.Model(&models.Team{}).
		Where("manager_id = ? AND establishment_id = ?", managerEmployee.ID, *actor.EstablishmentID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CanManageTeam reports whether the actor may mutate the given team.
func (r *Resolver) CanManageTeam(actor *models.User, team *models.Team) (bool, error) {
	if actor.IsSuperAdmin {
		return true, nil
	}

	if team.EstablishmentID == nil || actor.EstablishmentID == nil ||
		*team.EstablishmentID != *actor.EstablishmentID {
		return false, nil
	}

	if actor.IsAdmin {
		return true, nil
	}

	if !actor.IsManager {
		return false, nil
	}

	managerEmployee, err := r.actorEmployee(actor)
	if err != nil {
		return false, err
	}
	if managerEmployee == nil {
		return false, nil
	}

	return team.ManagerID != nil && *team.ManagerID == managerEmployee.ID, nil
}

// ManagedTeams returns the teams the actor may populate: every team of the
// establishment for admins, only led teams for managers.
func (r *Resolver) ManagedTeams(actor *models.User) ([]models.Team, error) {
	if actor.IsSuperAdmin {
		var teams []models.Team
		err := r.db.Order("name").Find(&teams).Error
		return teams, err
	}

	if actor.EstablishmentID == nil {
		return []models.Team{}, nil
	}

	if actor.IsAdmin {
		var teams []models.Team
		err := r.db.Where("establishment_id = ?", *actor.EstablishmentID).
			Order("name").Find(&teams).Error
		return teams, err
	}

	if !actor.IsManager {
		return []models.Team{}, nil
	}

	managerEmployee, err := r.actorEmployee(actor)
	if err != nil || managerEmployee == nil {
		return []models.Team{}, err
	}

	var teams []models.Team
	err = r.db.Where("manager_id = ? AND establishment_id = ?", managerEmployee.ID, *actor.EstablishmentID).
		Order("name").Find(&teams).Error
	return teams, err
}

// UnassignedEmployees returns the actor's establishment pool of active
// employees without a team.
func (r *Resolver) UnassignedEmployees(actor *models.User) ([]models.Employee, error) {
	if actor.EstablishmentID == nil {
		return []models.Employee{}, nil
	}
	var employees []models.Employee
	err := r.db.Where("is_active = ? AND establishment_id = ? AND team_id IS NULL",
		true, *actor.EstablishmentID).Order("full_name").Find(&employees).Error
	return employees, err
}

// actorEmployee resolves the actor's own employee record. Uses the
// preloaded link when present to avoid a query per check.
func (r *Resolver) actorEmployee(actor *models.User) (*models.Employee, error) {
	if actor.Employee != nil {
		return actor.Employee, nil
	}
	var employee models.Employee
	err := r.db.Where("user_id = ?", actor.ID).First(&employee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *Resolver) managedTeamIDs(managerEmployeeID, establishmentID uint) ([]uint, error) {
	var teams []models.Team
	if err := r.db.Where("manager_id = ? AND establishment_id = ?", managerEmployeeID, establishmentID).
		Find(&teams).Error; err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(teams))
	for _, t := range teams {
		ids = append(ids, t.ID)
	}
	return ids, nil
}
