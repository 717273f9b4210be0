// Package schedule owns the assignment lifecycle: creation, updates,
// duplication, relocation and the advisory overlap check. Every mutation
// authorizes through the visibility resolver before touching the store.
package schedule

import (
	"errors"
	"fmt"
	"time"

	"shiftly/models"
	"shiftly/visibility"

	"gorm.io/gorm"
)

type Service struct {
	db             *gorm.DB
	resolver       *visibility.Resolver
	conflictChecks bool
}

func NewService(db *gorm.DB, resolver *visibility.Resolver, conflictChecks bool) *Service {
	return &Service{db: db, resolver: resolver, conflictChecks: conflictChecks}
}

// CreateInput carries the fields of a new assignment.
type CreateInput struct {
	EmployeeID uint
	ShiftID    *uint
	Start      time.Time
	End        time.Time
	Notes      string
}

// Patch carries the optional fields of an assignment update. Nil means
// leave unchanged.
type Patch struct {
	EmployeeID *uint
	ShiftID    *uint
	Start      *time.Time
	End        *time.Time
	Notes      *string
	Status     *models.AssignmentStatus
}

func (s *Service) Get(actor *models.User, id uint) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := s.db.Preload("Employee").Preload("Shift").First(&assignment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("assignment %d: %w", id, models.ErrNotFound)
		}
		return nil, err
	}

	if err := s.authorizeEmployee(actor, assignment.EmployeeID); err != nil {
		return nil, err
	}

	return &assignment, nil
}

func (s *Service) Create(actor *models.User, input CreateInput) (*models.Assignment, error) {
	if !input.End.After(input.Start) {
		return nil, fmt.Errorf("end must be after start: %w", models.ErrValidation)
	}

	if err := s.authorizeEmployee(actor, input.EmployeeID); err != nil {
		return nil, err
	}

	if s.conflictChecks {
		conflicting, err := s.CheckConflicts(input.EmployeeID, input.Start, input.End, 0)
		if err != nil {
			return nil, err
		}
		if conflicting {
			return nil, fmt.Errorf("employee %d already has an assignment overlapping %s: %w",
				input.EmployeeID, input.Start.Format(time.RFC3339), models.ErrConflict)
		}
	}

	assignment := models.Assignment{
		EmployeeID: input.EmployeeID,
		ShiftID:    input.ShiftID,
		Start:      input.Start,
		End:        input.End,
		Status:     models.StatusScheduled,
		Notes:      input.Notes,
		CreatedBy:  actor.ID,
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&assignment).Error
	}); err != nil {
		return nil, err
	}

	return &assignment, nil
}

func (s *Service) Update(actor *models.User, id uint, patch Patch) (*models.Assignment, error) {
	assignment, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}

	// Moving the assignment to another employee requires authorization
	// against the new employee too, before anything is committed.
	if patch.EmployeeID != nil && *patch.EmployeeID != assignment.EmployeeID {
		if err := s.authorizeEmployee(actor, *patch.EmployeeID); err != nil {
			return nil, err
		}
		assignment.EmployeeID = *patch.EmployeeID
		assignment.Employee = nil
	}

	if patch.ShiftID != nil {
		assignment.ShiftID = patch.ShiftID
		assignment.Shift = nil
	}
	if patch.Start != nil {
		assignment.Start = *patch.Start
	}
	if patch.End != nil {
		assignment.End = *patch.End
	}
	if patch.Notes != nil {
		assignment.Notes = *patch.Notes
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, fmt.Errorf("unknown status %q: %w", *patch.Status, models.ErrValidation)
		}
		assignment.Status = *patch.Status
	}

	if !assignment.End.After(assignment.Start) {
		return nil, fmt.Errorf("end must be after start: %w", models.ErrValidation)
	}

	if s.conflictChecks && assignment.Status != models.StatusCancelled {
		conflicting, err := s.CheckConflicts(assignment.EmployeeID, assignment.Start, assignment.End, assignment.ID)
		if err != nil {
			return nil, err
		}
		if conflicting {
			return nil, fmt.Errorf("employee %d already has an assignment overlapping %s: %w",
				assignment.EmployeeID, assignment.Start.Format(time.RFC3339), models.ErrConflict)
		}
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Save(assignment).Error
	}); err != nil {
		return nil, err
	}

	return assignment, nil
}

func (s *Service) Delete(actor *models.User, id uint) error {
	assignment, err := s.Get(actor, id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Delete(assignment).Error
	})
}

// Duplicate clones the assignment one week later, keeping employee, shift
// and notes. The clone starts fresh as scheduled.
func (s *Service) Duplicate(actor *models.User, id uint) (*models.Assignment, error) {
	original, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}

	clone := models.Assignment{
		EmployeeID: original.EmployeeID,
		ShiftID:    original.ShiftID,
		Start:      original.Start.AddDate(0, 0, 7),
		End:        original.End.AddDate(0, 0, 7),
		Status:     models.StatusScheduled,
		Notes:      original.Notes,
		CreatedBy:  actor.ID,
	}

	if s.conflictChecks {
		conflicting, err := s.CheckConflicts(clone.EmployeeID, clone.Start, clone.End, 0)
		if err != nil {
			return nil, err
		}
		if conflicting {
			return nil, fmt.Errorf("duplicate of assignment %d overlaps an existing one: %w",
				id, models.ErrConflict)
		}
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&clone).Error
	}); err != nil {
		return nil, err
	}

	return &clone, nil
}

// Move relocates the assignment to another employee and calendar date,
// keeping the time-of-day and duration. Authorization runs against the
// destination employee.
func (s *Service) Move(actor *models.User, id uint, newEmployeeID uint, newDate time.Time) (*models.Assignment, error) {
	assignment, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeEmployee(actor, newEmployeeID); err != nil {
		return nil, err
	}

	duration := assignment.End.Sub(assignment.Start)
	old := assignment.Start
	newStart := time.Date(newDate.Year(), newDate.Month(), newDate.Day(),
		old.Hour(), old.Minute(), old.Second(), old.Nanosecond(), old.Location())

	assignment.EmployeeID = newEmployeeID
	assignment.Employee = nil
	assignment.Start = newStart
	assignment.End = newStart.Add(duration)

	if s.conflictChecks {
		conflicting, err := s.CheckConflicts(newEmployeeID, assignment.Start, assignment.End, assignment.ID)
		if err != nil {
			return nil, err
		}
		if conflicting {
			return nil, fmt.Errorf("move of assignment %d overlaps an existing one: %w",
				id, models.ErrConflict)
		}
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Save(assignment).Error
	}); err != nil {
		return nil, err
	}

	return assignment, nil
}

// CheckConflicts reports whether an active assignment for the employee
// overlaps [start, end). Two windows overlap iff existing.start < end and
// existing.end > start, which covers containment, partial overlap on either
// edge, and exact match; windows that merely touch do not conflict.
// Cancelled assignments and excludeID are skipped.
//
// The check is advisory, not a transactional guarantee: two concurrent
// creates for the same slot can both pass it before either commits.
func (s *Service) CheckConflicts(employeeID uint, start, end time.Time, excludeID uint) (bool, error) {
	query := s.db.Model(&models.Assignment{}).
		Where("employee_id = ? AND status <> ? AND start < ? AND \"end\" > ?",
			employeeID, models.StatusCancelled, end, start)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ForEmployees lists assignments for the given employees whose start falls
// in [from, to), oldest first. Feeds the week planning views and exports.
func (s *Service) ForEmployees(employeeIDs []uint, from, to time.Time) ([]models.Assignment, error) {
	if len(employeeIDs) == 0 {
		return []models.Assignment{}, nil
	}

	var assignments []models.Assignment
	err := s.db.Preload("Employee").Preload("Shift").
		Where("employee_id IN ? AND start >= ? AND start < ?", employeeIDs, from, to).
		Order("start asc, employee_id asc").
		Find(&assignments).Error
	return assignments, err
}

func (s *Service) authorizeEmployee(actor *models.User, employeeID uint) error {
	var employee models.Employee
	if err := s.db.First(&employee, employeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("employee %d: %w", employeeID, models.ErrNotFound)
		}
		return err
	}

	ok, err := s.resolver.CanManage(actor, &employee)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("employee %d is outside your scope: %w", employeeID, models.ErrForbidden)
	}
	return nil
}
