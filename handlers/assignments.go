package handlers

import (
	"net/http"
	"time"

	"shiftly/database"
	"shiftly/hours"
	"shiftly/middleware"
	"shiftly/models"
	"shiftly/schedule"
	"shiftly/visibility"

	"github.com/rs/zerolog"
)

type AssignmentHandler struct {
	schedule *schedule.Service
	resolver *visibility.Resolver
	log      zerolog.Logger
}

func NewAssignmentHandler(sched *schedule.Service, resolver *visibility.Resolver, log zerolog.Logger) *AssignmentHandler {
	return &AssignmentHandler{schedule: sched, resolver: resolver, log: log}
}

// assignmentView is the wire shape of an assignment, status derived from
// the current time rather than echoing the stored value.
type assignmentView struct {
	ID         uint                    `json:"id"`
	EmployeeID uint                    `json:"employee_id"`
	ShiftID    *uint                   `json:"shift_id"`
	Start      time.Time               `json:"start"`
	End        time.Time               `json:"end"`
	Status     models.AssignmentStatus `json:"status"`
	Notes      string                  `json:"notes"`
	ShiftName  string                  `json:"shift_name,omitempty"`
	ShiftColor string                  `json:"shift_color,omitempty"`
}

func toView(a *models.Assignment, now time.Time) assignmentView {
	v := assignmentView{
		ID:         a.ID,
		EmployeeID: a.EmployeeID,
		ShiftID:    a.ShiftID,
		Start:      a.Start,
		End:        a.End,
		Status:     a.EffectiveStatus(now),
		Notes:      a.Notes,
	}
	if a.Shift != nil {
		v.ShiftName = a.Shift.Name
		v.ShiftColor = a.Shift.Color
	}
	return v
}

// List returns the assignments of every employee the actor manages,
// newest first.
func (h *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	employees, err := h.resolver.ManageableEmployees(actor)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	ids := make([]uint, 0, len(employees))
	for _, e := range employees {
		ids = append(ids, e.ID)
	}

	var assignments []models.Assignment
	if len(ids) > 0 {
		if err := database.GetDB().Preload("Employee").Preload("Shift").
			Where("employee_id IN ?", ids).
			Order("start desc").
			Find(&assignments).Error; err != nil {
			respondError(w, h.log, err)
			return
		}
	}

	now := time.Now()
	views := make([]assignmentView, 0, len(assignments))
	for i := range assignments {
		views = append(views, toView(&assignments[i], now))
	}

	respondJSON(w, http.StatusOK, views)
}

type assignmentRequest struct {
	EmployeeID uint      `json:"employee_id"`
	ShiftID    *uint     `json:"shift_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Notes      string    `json:"notes"`
}

func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	var req assignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.log, err)
		return
	}

	assignment, err := h.schedule.Create(actor, schedule.CreateInput{
		EmployeeID: req.EmployeeID,
		ShiftID:    req.ShiftID,
		Start:      req.Start,
		End:        req.End,
		Notes:      req.Notes,
	})
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, toView(assignment, time.Now()))
}

type assignmentPatchRequest struct {
	EmployeeID *uint                    `json:"employee_id"`
	ShiftID    *uint                    `json:"shift_id"`
	Start      *time.Time               `json:"start"`
	End        *time.Time               `json:"end"`
	Notes      *string                  `json:"notes"`
	Status     *models.AssignmentStatus `json:"status"`
}

func (h *AssignmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	id, err := urlID(r, "assignmentID")
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	var req assignmentPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.log, err)
		return
	}

	assignment, err := h.schedule.Update(actor, id, schedule.Patch{
		EmployeeID: req.EmployeeID,
		ShiftID:    req.ShiftID,
		Start:      req.Start,
		End:        req.End,
		Notes:      req.Notes,
		Status:     req.Status,
	})
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, toView(assignment, time.Now()))
}

func (h *AssignmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	id, err := urlID(r, "assignmentID")
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	if err := h.schedule.Delete(actor, id); err != nil {
		respondError(w, h.log, err)
		return
	}

	respondOK(w)
}

func (h *AssignmentHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	id, err := urlID(r, "assignmentID")
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	clone, err := h.schedule.Duplicate(actor, id)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, toView(clone, time.Now()))
}

type moveRequest struct {
	EmployeeID uint   `json:"employee_id"`
	Date       string `json:"date"` // "2006-01-02"
}

func (h *AssignmentHandler) Move(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	id, err := urlID(r, "assignmentID")
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	var req moveRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.log, err)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		respondError(w, h.log, models.ErrValidation)
		return
	}

	assignment, err := h.schedule.Move(actor, id, req.EmployeeID, date)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, toView(assignment, time.Now()))
}

// Events returns the acting user's own schedule, for the employee
// dashboard calendar. Works for any authenticated user with an employee
// record.
func (h *AssignmentHandler) Events(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	if actor.Employee == nil {
		respondJSON(w, http.StatusOK, []assignmentView{})
		return
	}

	var assignments []models.Assignment
	if err := database.GetDB().Preload("Shift").
		Where("employee_id = ?", actor.Employee.ID).
		Order("start asc").
		Find(&assignments).Error; err != nil {
		respondError(w, h.log, err)
		return
	}

	now := time.Now()
	views := make([]assignmentView, 0, len(assignments))
	for i := range assignments {
		views = append(views, toView(&assignments[i], now))
	}

	respondJSON(w, http.StatusOK, views)
}

// WeekData returns the gantt feed for one week: the manageable employees
// and their assignments from the Monday of the requested date.
func (h *AssignmentHandler) WeekData(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	start := time.Now()
	if s := r.URL.Query().Get("start"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			respondError(w, h.log, models.ErrValidation)
			return
		}
		start = parsed
	}

	weekStart := hours.StartOfWeek(start)
	weekEnd := weekStart.AddDate(0, 0, 7)

	employees, err := h.resolver.ManageableEmployees(actor)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	ids := make([]uint, 0, len(employees))
	for _, e := range employees {
		ids = append(ids, e.ID)
	}

	assignments, err := h.schedule.ForEmployees(ids, weekStart, weekEnd)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	type employeeRef struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	}
	refs := make([]employeeRef, 0, len(employees))
	for _, e := range employees {
		refs = append(refs, employeeRef{ID: e.ID, Name: e.FullName})
	}

	now := time.Now()
	views := make([]assignmentView, 0, len(assignments))
	for i := range assignments {
		views = append(views, toView(&assignments[i], now))
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"employees":   refs,
		"assignments": views,
		"start":       weekStart,
		"end":         weekEnd,
	})
}
