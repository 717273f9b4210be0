package store

import (
	"testing"
	"time"

	"shiftly/database"
	"shiftly/models"
	"shiftly/visibility"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newTestService(db *gorm.DB) *Service {
	return NewService(db, visibility.NewResolver(db))
}

func seedAdmin(t *testing.T, db *gorm.DB) (*models.User, *models.Establishment) {
	t.Helper()
	est := models.Establishment{Name: "Alpha"}
	require.NoError(t, db.Create(&est).Error)
	admin := models.User{Username: "admin.a", Email: "a@x", PasswordHash: "x", IsAdmin: true, EstablishmentID: &est.ID}
	require.NoError(t, db.Create(&admin).Error)
	return &admin, &est
}

func TestCreateEmployeeDerivesContract(t *testing.T) {
	db := setupTestDB(t)
	s := newTestService(db)
	admin, est := seedAdmin(t, db)

	employee, err := s.CreateEmployee(admin, EmployeeInput{
		FullName:      "Jane Doe",
		Position:      "Barista",
		ContractHours: 39,
	})
	require.NoError(t, err)

	assert.Equal(t, 39.0, employee.ContractHoursPerWeek)
	assert.Equal(t, 169.0, employee.ContractHoursPerMonth)
	assert.Equal(t, "CDI", employee.ContractType)
	require.NotNil(t, employee.EstablishmentID)
	assert.Equal(t, est.ID, *employee.EstablishmentID)
	assert.True(t, employee.IsActive)
	assert.Nil(t, employee.UserID)
}

func TestCreateEmployeeWithAccount(t *testing.T) {
	db := setupTestDB(t)
	s := newTestService(db)
	admin, _ := seedAdmin(t, db)

	first, err := s.CreateEmployee(admin, EmployeeInput{
		FullName:      "Jane Doe",
		Email:         "jane@x",
		CreateAccount: true,
	})
	require.NoError(t, err)
	require.NotNil(t, first.UserID)

	var account models.User
	require.NoError(t, db.First(&account, *first.UserID).Error)
	assert.Equal(t, "jane.doe", account.Username)
	assert.Equal(t, "jane@x", account.Email)

	// Same name again: the username gets a counter.
	second, err := s.CreateEmployee(admin, EmployeeInput{
		FullName:      "Jane Doe",
		Email:         "jane2@x",
		CreateAccount: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.First(&account, *second.UserID).Error)
	assert.Equal(t, "jane.doe1", account.Username)
}

func TestCreateEmployeeDuplicateEmailRollsBack(t *testing.T) {
	db := setupTestDB(t)
	s := newTestService(db)
	admin, _ := seedAdmin(t, db)

	_, err := s.CreateEmployee(admin, EmployeeInput{
		FullName: "Jane Doe", Email: "jane@x", CreateAccount: true,
	})
	require.NoError(t, err)

	_, err = s.CreateEmployee(admin, EmployeeInput{
		FullName: "John Roe", Email: "jane@x", CreateAccount: true,
	})
	assert.ErrorIs(t, err, models.ErrDuplicate)

	// Neither the employee nor a second account survives the rollback.
	var employees int64
	db.Model(&models.Employee{}).Where("full_name = ?", "John Roe").Count(&employees)
	assert.Zero(t, employees)
	var users int64
	db.Model(&models.User{}).Count(&users)
	assert.EqualValues(t, 2, users) // admin + jane
}

func TestUpdateEmployeeKeepsOmittedFields(t *testing.T) {
	db := setupTestDB(t)
	s := newTestService(db)
	admin, _ := seedAdmin(t, db)

	team, err := s.CreateTeam(admin, TeamInput{Name: "Morning"})
	require.NoError(t, err)
	employee, err := s.CreateEmployee(admin, EmployeeInput{
		FullName: "Jane Doe", Position: "Barista", TeamID: &team.ID,
	})
	require.NoError(t, err)

	position := "Head Barista"
	updated, err := s.UpdateEmployee(admin, employee.ID, EmployeePatch{Position: &position})
	require.NoError(t, err)

	assert.Equal(t, "Head Barista", updated.Position)
	assert.Equal(t, "Jane Doe", updated.FullName)
	require.NotNil(t, updated.TeamID)
	assert.Equal(t, team.ID, *updated.TeamID)

	empty := ""
	_, err = s.UpdateEmployee(admin, employee.ID, EmployeePatch{FullName: &empty})
	assert.ErrorIs(t, err, models.ErrValidation)

	zero := 0.0
	_, err = s.UpdateEmployee(admin, employee.ID, EmployeePatch{ContractHours: &zero})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestUpdateContractValidation(t *testing.T) {
	db := setupTestDB(t)
	s := newTestService(db)
	admin, _ := seedAdmin(t, db)

	employee, err := s.CreateEmployee(admin, EmployeeInput{FullName: "Jane Doe"})
	require.NoError(t, err)

	_, err = s.UpdateContract(admin, employee.ID, -5, "")
	assert.ErrorIs(t, err, models.ErrValidation)

	updated, err := s.UpdateContract(admin, employee.ID, 39, "CDD")
	require.NoError(t, err)
	assert.Equal(t, 169.0, updated.ContractHoursPerMonth)
	assert.Equal(t, "CDD", updated.ContractType)
}

func TestDeleteEmployeeCascadesAssignments(t *testing.T) {
	db := setupTestDB(t)
	s := newTestService(db)
	admin, _ := seedAdmin(t, db)

	employee, err := s.CreateEmployee(admin, EmployeeInput{FullName: "Jane Doe"})
	require.NoError(t, err)

	a := models.Assignment{
		EmployeeID: employee.ID,
		Start:      time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC),
		End:        time.Date(2024, 3, 4, 16, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(&a).Error)

	require.NoError(t, s.DeleteEmployee(admin, employee.ID))

	var count int64
	db.Model(&models.Assignment{}).Where("employee_id = ?", employee.ID).Count(&count)
	assert.Zero(t, count)
}

func TestDeactivateEmployeeKeepsHistory(t *testing.T) {
	db := setupTestDB(t)
	s := newTestService(db)
	admin, _ := seedAdmin(t, db)

	employee, err := s.CreateEmployee(admin, EmployeeInput{FullName: "Jane Doe"})
	require.NoError(t, err)

	a := models.Assignment{
		EmployeeID: employee.ID,
		Start:      time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC),
		End:        time.Date(2024, 3, 4, 16, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(&a).Error)

	require.NoError(t, s.DeactivateEmployee(admin, employee.ID))

	var reloaded models.Employee
	require.NoError(t, db.First(&reloaded, employee.ID).Error)
	assert.False(t, reloaded.IsActive)

	var count int64
	db.Model(&models.Assignment{}).Where("employee_id = ?", employee.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestTeamManagerMustShareEstablishment(t *testing.T) {
	db := setupTestDB(t)
	s := newTestService(db)
	admin, _ := seedAdmin(t, db)

	estB := models.Establishment{Name: "Beta"}
	require.NoError(t, db.Create(&estB).Error)
	foreign := models.Employee{FullName: "Far Away", IsActive: true, EstablishmentID: &estB.ID}
	require.NoError(t, db.Create(&foreign).Error)

	_, err := s.CreateTeam(admin, TeamInput{Name: "Morning", ManagerID: &foreign.ID})
	assert.ErrorIs(t, err, models.ErrValidation)

	local, err := s.CreateEmployee(admin, EmployeeInput{FullName: "Lea Lead"})
	require.NoError(t, err)

	team, err := s.CreateTeam(admin, TeamInput{Name: "Morning", ManagerID: &local.ID})
	require.NoError(t, err)
	require.NotNil(t, team.ManagerID)
	assert.Equal(t, local.ID, *team.ManagerID)
}

func TestDeleteTeamDetachesMembers(t *testing.T) {
	db := setupTestDB(t)
	s := newTestService(db)
	admin, _ := seedAdmin(t, db)

	team, err := s.CreateTeam(admin, TeamInput{Name: "Morning"})
	require.NoError(t, err)

	employee, err := s.CreateEmployee(admin, EmployeeInput{FullName: "Jane Doe", TeamID: &team.ID})
	require.NoError(t, err)

	require.NoError(t, s.DeleteTeam(admin, team.ID))

	var reloaded models.Employee
	require.NoError(t, db.First(&reloaded, employee.ID).Error)
	assert.Nil(t, reloaded.TeamID)
}

func TestAssignAndRemoveTeamMembers(t *testing.T) {
	db := setupTestDB(t)
	s := newTestService(db)
	admin, _ := seedAdmin(t, db)

	team, err := s.CreateTeam(admin, TeamInput{Name: "Morning"})
	require.NoError(t, err)
	employee, err := s.CreateEmployee(admin, EmployeeInput{FullName: "Jane Doe"})
	require.NoError(t, err)

	require.NoError(t, s.AssignToTeam(admin, team.ID, []uint{employee.ID}))

	var reloaded models.Employee
	require.NoError(t, db.First(&reloaded, employee.ID).Error)
	require.NotNil(t, reloaded.TeamID)
	assert.Equal(t, team.ID, *reloaded.TeamID)

	require.NoError(t, s.RemoveFromTeam(admin, team.ID, employee.ID))
	require.NoError(t, db.First(&reloaded, employee.ID).Error)
	assert.Nil(t, reloaded.TeamID)

	// Removing again is a validation error, the employee is not in the team.
	assert.ErrorIs(t, s.RemoveFromTeam(admin, team.ID, employee.ID), models.ErrValidation)
}

func TestDeleteShiftNullsAssignmentLinks(t *testing.T) {
	db := setupTestDB(t)
	s := newTestService(db)
	admin, _ := seedAdmin(t, db)

	shift, err := s.CreateShift(admin, ShiftInput{Name: "Morning", StartTime: "08:00", EndTime: "16:00"})
	require.NoError(t, err)

	employee, err := s.CreateEmployee(admin, EmployeeInput{FullName: "Jane Doe"})
	require.NoError(t, err)

	a := models.Assignment{
		EmployeeID: employee.ID,
		ShiftID:    &shift.ID,
		Start:      time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC),
		End:        time.Date(2024, 3, 4, 16, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(&a).Error)

	require.NoError(t, s.DeleteShift(admin, shift.ID))

	var reloaded models.Assignment
	require.NoError(t, db.First(&reloaded, a.ID).Error)
	assert.Nil(t, reloaded.ShiftID)
}

func TestShiftInputValidation(t *testing.T) {
	db := setupTestDB(t)
	s := newTestService(db)
	admin, _ := seedAdmin(t, db)

	_, err := s.CreateShift(admin, ShiftInput{Name: "", StartTime: "08:00", EndTime: "16:00"})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = s.CreateShift(admin, ShiftInput{Name: "Morning", StartTime: "8am", EndTime: "16:00"})
	assert.ErrorIs(t, err, models.ErrValidation)

	shift, err := s.CreateShift(admin, ShiftInput{Name: "Morning", StartTime: "08:00", EndTime: "16:00"})
	require.NoError(t, err)
	assert.Equal(t, "#3B82F6", shift.Color)
	assert.Equal(t, 1, shift.EmployeesNeeded)
}

func TestEstablishmentDeletionProtocol(t *testing.T) {
	db := setupTestDB(t)
	s := newTestService(db)
	admin, est := seedAdmin(t, db)

	super := models.User{Username: "root", Email: "root@x", PasswordHash: "x", IsSuperAdmin: true}
	require.NoError(t, db.Create(&super).Error)

	employee, err := s.CreateEmployee(admin, EmployeeInput{FullName: "Jane Doe"})
	require.NoError(t, err)
	team, err := s.CreateTeam(admin, TeamInput{Name: "Morning"})
	require.NoError(t, err)

	a := models.Assignment{
		EmployeeID: employee.ID,
		Start:      time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC),
		End:        time.Date(2024, 3, 4, 16, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(&a).Error)

	// Admins cannot delete tenants.
	assert.ErrorIs(t, s.DeleteEstablishment(admin, est.ID), models.ErrForbidden)

	require.NoError(t, s.DeleteEstablishment(&super, est.ID))

	// Users are detached, not deleted.
	var reloadedAdmin models.User
	require.NoError(t, db.First(&reloadedAdmin, admin.ID).Error)
	assert.Nil(t, reloadedAdmin.EstablishmentID)

	var count int64
	db.Model(&models.Employee{}).Where("establishment_id = ?", est.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.Assignment{}).Where("employee_id = ?", employee.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.Team{}).Where("id = ?", team.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.Establishment{}).Where("id = ?", est.ID).Count(&count)
	assert.Zero(t, count)
}

func TestCreateEstablishmentRequiresSuperAdmin(t *testing.T) {
	db := setupTestDB(t)
	s := newTestService(db)
	admin, _ := seedAdmin(t, db)

	_, err := s.CreateEstablishment(admin, "Beta")
	assert.ErrorIs(t, err, models.ErrForbidden)

	super := models.User{Username: "root", Email: "root@x", PasswordHash: "x", IsSuperAdmin: true}
	require.NoError(t, db.Create(&super).Error)

	created, err := s.CreateEstablishment(&super, "Beta")
	require.NoError(t, err)
	assert.Equal(t, "Beta", created.Name)

	_, err = s.CreateEstablishment(&super, "Beta")
	assert.ErrorIs(t, err, models.ErrDuplicate)
}
