package handlers

import (
	"net/http"
	"time"

	"shiftly/hours"
	"shiftly/middleware"
	"shiftly/store"
	"shiftly/visibility"

	"github.com/rs/zerolog"
)

type EmployeeHandler struct {
	store    *store.Service
	resolver *visibility.Resolver
	engine   *hours.Engine
	log      zerolog.Logger
}

func NewEmployeeHandler(st *store.Service, resolver *visibility.Resolver, engine *hours.Engine, log zerolog.Logger) *EmployeeHandler {
	return &EmployeeHandler{store: st, resolver: resolver, engine: engine, log: log}
}

// List returns the employees the actor may manage, each with its
// current-month hours summary.
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	employees, err := h.resolver.ManageableEmployees(actor)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	now := time.Now()
	type entry struct {
		ID           uint          `json:"id"`
		FullName     string        `json:"full_name"`
		Position     string        `json:"position"`
		IsActive     bool          `json:"is_active"`
		TeamID       *uint         `json:"team_id"`
		ContractType string        `json:"contract_type"`
		HoursSummary hours.Summary `json:"hours_summary"`
	}

	result := make([]entry, 0, len(employees))
	for i := range employees {
		summary, err := h.engine.CurrentMonthSummary(&employees[i], now)
		if err != nil {
			respondError(w, h.log, err)
			return
		}
		result = append(result, entry{
			ID:           employees[i].ID,
			FullName:     employees[i].FullName,
			Position:     employees[i].Position,
			IsActive:     employees[i].IsActive,
			TeamID:       employees[i].TeamID,
			ContractType: employees[i].ContractType,
			HoursSummary: summary,
		})
	}

	respondJSON(w, http.StatusOK, result)
}

type employeeRequest struct {
	FullName      string  `json:"full_name"`
	Position      string  `json:"position"`
	TeamID        *uint   `json:"team_id"`
	ContractHours float64 `json:"contract_hours"`
	ContractType  string  `json:"contract_type"`
	Email         string  `json:"email"`
	CreateAccount bool    `json:"create_account"`
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	var req employeeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.log, err)
		return
	}

	employee, err := h.store.CreateEmployee(actor, store.EmployeeInput{
		FullName:      req.FullName,
		Position:      req.Position,
		TeamID:        req.TeamID,
		ContractHours: req.ContractHours,
		ContractType:  req.ContractType,
		Email:         req.Email,
		CreateAccount: req.CreateAccount,
	})
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, employee)
}

type employeePatchRequest struct {
	FullName      *string  `json:"full_name"`
	Position      *string  `json:"position"`
	TeamID        *uint    `json:"team_id"`
	ContractHours *float64 `json:"contract_hours"`
	ContractType  *string  `json:"contract_type"`
}

func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	id, err := urlID(r, "employeeID")
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	var req employeePatchRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.log, err)
		return
	}

	employee, err := h.store.UpdateEmployee(actor, id, store.EmployeePatch{
		FullName:      req.FullName,
		Position:      req.Position,
		TeamID:        req.TeamID,
		ContractHours: req.ContractHours,
		ContractType:  req.ContractType,
	})
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, employee)
}

func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	id, err := urlID(r, "employeeID")
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	if err := h.store.DeleteEmployee(actor, id); err != nil {
		respondError(w, h.log, err)
		return
	}

	respondOK(w)
}

type contractRequest struct {
	HoursPerWeek float64 `json:"hours_per_week"`
	ContractType string  `json:"contract_type"`
}

// UpdateContract sets the employee's weekly contract hours; the monthly
// baseline is derived from them.
func (h *EmployeeHandler) UpdateContract(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	id, err := urlID(r, "employeeID")
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	var req contractRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.log, err)
		return
	}

	employee, err := h.store.UpdateContract(actor, id, req.HoursPerWeek, req.ContractType)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, employee)
}

// Deactivate marks the employee inactive, keeping its assignment history.
func (h *EmployeeHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	id, err := urlID(r, "employeeID")
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	if err := h.store.DeactivateEmployee(actor, id); err != nil {
		respondError(w, h.log, err)
		return
	}

	respondOK(w)
}

// Unassigned lists the establishment's active employees without a team.
func (h *EmployeeHandler) Unassigned(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	employees, err := h.resolver.UnassignedEmployees(actor)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, employees)
}
