package schedule

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

type fixture struct {
	db       *gorm.DB
	admin    models.User
	outsider models.User
	employee models.Employee
	other    models.Employee
	shift    models.Shift
}

// seedFixture builds one establishment with an admin and two employees,
// plus an admin of a second establishment to exercise denial paths.
func seedFixture(t *testing.T, db *gorm.DB) *fixture {
	t.Helper()
	f := &fixture{db: db}

	estA := models.Establishment{Name: "Alpha"}
	estB := models.Establishment{Name: "Beta"}
	require.NoError(t, db.Create(&estA).Error)
	require.NoError(t, db.Create(&estB).Error)

	f.admin = models.User{Username: "admin.a", Email: "a@x", PasswordHash: "x", IsAdmin: true, EstablishmentID: &estA.ID}
	f.outsider = models.User{Username: "admin.b", Email: "b@x", PasswordHash: "x", IsAdmin: true, EstablishmentID: &estB.ID}
	require.NoError(t, db.Create(&f.admin).Error)
	require.NoError(t, db.Create(&f.outsider).Error)

	f.employee = models.Employee{FullName: "Eva One", IsActive: true, EstablishmentID: &estA.ID}
	f.other = models.Employee{FullName: "Eli Two", IsActive: true, EstablishmentID: &estA.ID}
	require.NoError(t, db.Create(&f.employee).Error)
	require.NoError(t, db.Create(&f.other).Error)

	f.shift = models.Shift{Name: "Morning", StartTime: "08:00", EndTime: "16:00"}
	require.NoError(t, db.Create(&f.shift).Error)

	return f
}

func newService(f *fixture, conflictChecks bool) *Service {
	return NewService(f.db, visibility.NewResolver(f.db), conflictChecks)
}

func at(day, hour int) time.Time {
	return time.Date(2024, 3, day, hour, 0, 0, 0, time.UTC)
}

func TestCreateRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	s := newService(f, false)

	created, err := s.Create(&f.admin, CreateInput{
		EmployeeID: f.employee.ID,
		ShiftID:    &f.shift.ID,
		Start:      at(4, 8),
		End:        at(4, 16),
		Notes:      "opening duty",
	})
	require.NoError(t, err)

	got, err := s.Get(&f.admin, created.ID)
	require.NoError(t, err)

	assert.Equal(t, f.employee.ID, got.EmployeeID)
	require.NotNil(t, got.ShiftID)
	assert.Equal(t, f.shift.ID, *got.ShiftID)
	assert.True(t, got.Start.Equal(at(4, 8)))
	assert.True(t, got.End.Equal(at(4, 16)))
	assert.Equal(t, "opening duty", got.Notes)
	assert.Equal(t, models.StatusScheduled, got.Status)
	assert.Equal(t, f.admin.ID, got.CreatedBy)
}

func TestCreateRejectsInvertedWindow(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	s := newService(f, false)

	_, err := s.Create(&f.admin, CreateInput{
		EmployeeID: f.employee.ID,
		Start:      at(4, 16),
		End:        at(4, 8),
	})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = s.Create(&f.admin, CreateInput{
		EmployeeID: f.employee.ID,
		Start:      at(4, 8),
		End:        at(4, 8),
	})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestCreateDeniedAcrossEstablishments(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	s := newService(f, false)

	_, err := s.Create(&f.outsider, CreateInput{
		EmployeeID: f.employee.ID,
		Start:      at(4, 8),
		End:        at(4, 16),
	})
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestCreateUnknownEmployee(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	s := newService(f, false)

	_, err := s.Create(&f.admin, CreateInput{
		EmployeeID: 9999,
		Start:      at(4, 8),
		End:        at(4, 16),
	})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCheckConflictsTruthTable(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	s := newService(f, true)

	existing, err := s.Create(&f.admin, CreateInput{
		EmployeeID: f.employee.ID,
		Start:      at(4, 10),
		End:        at(4, 14),
	})
	require.NoError(t, err)

	cases := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"partial overlap right", at(4, 12), at(4, 16), true},
		{"partial overlap left", at(4, 8), at(4, 12), true},
		{"containment", at(4, 11), at(4, 13), true},
		{"contains existing", at(4, 9), at(4, 15), true},
		{"exact match", at(4, 10), at(4, 14), true},
		{"adjacent after", at(4, 14), at(4, 18), false},
		{"adjacent before", at(4, 6), at(4, 10), false},
		{"disjoint", at(5, 10), at(5, 14), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.CheckConflicts(f.employee.ID, tc.start, tc.end, 0)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	// The existing assignment does not conflict with itself.
	got, err := s.CheckConflicts(f.employee.ID, at(4, 10), at(4, 14), existing.ID)
	require.NoError(t, err)
	assert.False(t, got)

	// Another employee's calendar is unaffected.
	got, err = s.CheckConflicts(f.other.ID, at(4, 10), at(4, 14), 0)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestCheckConflictsIgnoresCancelled(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	s := newService(f, true)

	cancelled := models.Assignment{
		EmployeeID: f.employee.ID,
		Start:      at(4, 10),
		End:        at(4, 14),
		Status:     models.StatusCancelled,
	}
	require.NoError(t, db.Create(&cancelled).Error)

	got, err := s.CheckConflicts(f.employee.ID, at(4, 12), at(4, 16), 0)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestCreateWithConflictCheckEnabled(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	s := newService(f, true)

	_, err := s.Create(&f.admin, CreateInput{
		EmployeeID: f.employee.ID,
		Start:      at(4, 10),
		End:        at(4, 14),
	})
	require.NoError(t, err)

	_, err = s.Create(&f.admin, CreateInput{
		EmployeeID: f.employee.ID,
		Start:      at(4, 12),
		End:        at(4, 16),
	})
	assert.ErrorIs(t, err, models.ErrConflict)

	// Adjacent is fine.
	_, err = s.Create(&f.admin, CreateInput{
		EmployeeID: f.employee.ID,
		Start:      at(4, 14),
		End:        at(4, 18),
	})
	assert.NoError(t, err)
}

func TestUpdateReauthorizesNewEmployee(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	s := newService(f, false)

	created, err := s.Create(&f.admin, CreateInput{
		EmployeeID: f.employee.ID,
		Start:      at(4, 8),
		End:        at(4, 16),
	})
	require.NoError(t, err)

	// Move to an employee of another establishment: denied even though the
	// actor may touch the original.
	foreignEst := models.Establishment{Name: "Gamma"}
	require.NoError(t, db.Create(&foreignEst).Error)
	foreign := models.Employee{FullName: "Far Away", IsActive: true, EstablishmentID: &foreignEst.ID}
	require.NoError(t, db.Create(&foreign).Error)

	_, err = s.Update(&f.admin, created.ID, Patch{EmployeeID: &foreign.ID})
	assert.ErrorIs(t, err, models.ErrForbidden)

	// A manageable target works.
	updated, err := s.Update(&f.admin, created.ID, Patch{EmployeeID: &f.other.ID})
	require.NoError(t, err)
	assert.Equal(t, f.other.ID, updated.EmployeeID)
}

func TestUpdateValidatesWindowAfterPatch(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	s := newService(f, false)

	created, err := s.Create(&f.admin, CreateInput{
		EmployeeID: f.employee.ID,
		Start:      at(4, 8),
		End:        at(4, 16),
	})
	require.NoError(t, err)

	badEnd := at(4, 7)
	_, err = s.Update(&f.admin, created.ID, Patch{End: &badEnd})
	assert.ErrorIs(t, err, models.ErrValidation)

	newStart := at(4, 9)
	updated, err := s.Update(&f.admin, created.ID, Patch{Start: &newStart})
	require.NoError(t, err)
	assert.True(t, updated.Start.Equal(newStart))
	assert.True(t, updated.End.Equal(at(4, 16)))
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	s := newService(f, false)

	created, err := s.Create(&f.admin, CreateInput{
		EmployeeID: f.employee.ID,
		Start:      at(4, 8),
		End:        at(4, 16),
	})
	require.NoError(t, err)

	bogus := models.AssignmentStatus("paused")
	_, err = s.Update(&f.admin, created.ID, Patch{Status: &bogus})
	assert.ErrorIs(t, err, models.ErrValidation)

	cancelled := models.StatusCancelled
	updated, err := s.Update(&f.admin, created.ID, Patch{Status: &cancelled})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, updated.Status)
}

func TestDuplicateShiftsOneWeek(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	s := newService(f, false)

	created, err := s.Create(&f.admin, CreateInput{
		EmployeeID: f.employee.ID,
		ShiftID:    &f.shift.ID,
		Start:      time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC),
		End:        time.Date(2024, 3, 4, 16, 0, 0, 0, time.UTC),
		Notes:      "weekly opening",
	})
	require.NoError(t, err)

	clone, err := s.Duplicate(&f.admin, created.ID)
	require.NoError(t, err)

	assert.NotEqual(t, created.ID, clone.ID)
	assert.True(t, clone.Start.Equal(time.Date(2024, 3, 11, 8, 0, 0, 0, time.UTC)))
	assert.True(t, clone.End.Equal(time.Date(2024, 3, 11, 16, 0, 0, 0, time.UTC)))
	assert.Equal(t, created.EmployeeID, clone.EmployeeID)
	assert.Equal(t, created.ShiftID, clone.ShiftID)
	assert.Equal(t, created.Notes, clone.Notes)
	assert.Equal(t, models.StatusScheduled, clone.Status)

	_, err = s.Duplicate(&f.outsider, created.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestMovePreservesTimeOfDayAndDuration(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	s := newService(f, false)

	created, err := s.Create(&f.admin, CreateInput{
		EmployeeID: f.employee.ID,
		Start:      time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC),
		End:        time.Date(2024, 3, 4, 17, 45, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	moved, err := s.Move(&f.admin, created.ID, f.other.ID, time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, f.other.ID, moved.EmployeeID)
	assert.True(t, moved.Start.Equal(time.Date(2024, 3, 20, 9, 30, 0, 0, time.UTC)))
	assert.True(t, moved.End.Equal(time.Date(2024, 3, 20, 17, 45, 0, 0, time.UTC)))
}

func TestMoveAuthorizesAgainstDestination(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	s := newService(f, false)

	created, err := s.Create(&f.admin, CreateInput{
		EmployeeID: f.employee.ID,
		Start:      at(4, 8),
		End:        at(4, 16),
	})
	require.NoError(t, err)

	foreignEst := models.Establishment{Name: "Gamma"}
	require.NoError(t, db.Create(&foreignEst).Error)
	foreign := models.Employee{FullName: "Far Away", IsActive: true, EstablishmentID: &foreignEst.ID}
	require.NoError(t, db.Create(&foreign).Error)

	_, err = s.Move(&f.admin, created.ID, foreign.ID, time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	s := newService(f, false)

	created, err := s.Create(&f.admin, CreateInput{
		EmployeeID: f.employee.ID,
		Start:      at(4, 8),
		End:        at(4, 16),
	})
	require.NoError(t, err)

	require.ErrorIs(t, s.Delete(&f.outsider, created.ID), models.ErrForbidden)

	require.NoError(t, s.Delete(&f.admin, created.ID))

	_, err = s.Get(&f.admin, created.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestForEmployeesRange(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	s := newService(f, false)

	for day := 4; day <= 8; day++ {
		_, err := s.Create(&f.admin, CreateInput{
			EmployeeID: f.employee.ID,
			Start:      at(day, 8),
			End:        at(day, 16),
		})
		require.NoError(t, err)
	}

	assignments, err := s.ForEmployees([]uint{f.employee.ID}, at(5, 0), at(7, 0))
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	assert.True(t, assignments[0].Start.Before(assignments[1].Start))

	assignments, err = s.ForEmployees(nil, at(5, 0), at(7, 0))
	require.NoError(t, err)
	assert.Empty(t, assignments)
}
