package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"shiftly/database"
	"shiftly/hours"
	"shiftly/middleware"
	"shiftly/models"
	"shiftly/visibility"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type HoursHandler struct {
	engine   *hours.Engine
	resolver *visibility.Resolver
	log      zerolog.Logger
}

func NewHoursHandler(engine *hours.Engine, resolver *visibility.Resolver, log zerolog.Logger) *HoursHandler {
	return &HoursHandler{engine: engine, resolver: resolver, log: log}
}

// EmployeeDetail returns the monthly hours history for one employee the
// actor manages. ?months= controls the depth, default 6.
func (h *HoursHandler) EmployeeDetail(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	id, err := urlID(r, "employeeID")
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	var employee models.Employee
	if err := database.GetDB().First(&employee, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, h.log, fmt.Errorf("employee %d: %w", id, models.ErrNotFound))
			return
		}
		respondError(w, h.log, err)
		return
	}

	ok, err := h.resolver.CanManage(actor, &employee)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	if !ok {
		respondError(w, h.log, fmt.Errorf("employee %d is outside your scope: %w", id, models.ErrForbidden))
		return
	}

	months := 6
	if m := r.URL.Query().Get("months"); m != "" {
		if parsed, err := strconv.Atoi(m); err == nil && parsed >= 1 && parsed <= 24 {
			months = parsed
		}
	}

	history, err := h.engine.MonthlyHistory(&employee, months, time.Now())
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"employee": &employee,
		"history":  history,
	})
}

// Stats aggregates the current-month over/under totals across the actor's
// manageable employees.
func (h *HoursHandler) Stats(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	employees, err := h.resolver.ManageableEmployees(actor)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	stats, err := h.engine.TeamStats(employees, time.Now())
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// Attention lists manageable employees whose monthly delta is past the
// attention threshold, worst first.
func (h *HoursHandler) Attention(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	employees, err := h.resolver.ManageableEmployees(actor)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	entries, err := h.engine.AttentionEmployees(employees, time.Now())
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, entries)
}

// PlanningStats summarizes the current week's coverage for the actor's
// manageable employees.
func (h *HoursHandler) PlanningStats(w http.ResponseWriter, r *http.Request) {
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

	stats, err := h.engine.WeekPlanningStats(ids, time.Now())
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
