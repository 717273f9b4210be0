package handlers

import (
	"net/http"

	"shiftly/database"
	"shiftly/middleware"
	"shiftly/models"
	"shiftly/store"

	"github.com/rs/zerolog"
)

type ShiftHandler struct {
	store *store.Service
	log   zerolog.Logger
}

func NewShiftHandler(st *store.Service, log zerolog.Logger) *ShiftHandler {
	return &ShiftHandler{store: st, log: log}
}

func (h *ShiftHandler) List(w http.ResponseWriter, r *http.Request) {
	var shifts []models.Shift
	if err := database.GetDB().Order("start_time").Find(&shifts).Error; err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, shifts)
}

type shiftRequest struct {
	Name            string `json:"name"`
	Color           string `json:"color"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	EmployeesNeeded int    `json:"employees_needed"`
}

func (h *ShiftHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	var req shiftRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.log, err)
		return
	}

	shift, err := h.store.CreateShift(actor, store.ShiftInput{
		Name:            req.Name,
		Color:           req.Color,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		EmployeesNeeded: req.EmployeesNeeded,
	})
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, shift)
}

func (h *ShiftHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	id, err := urlID(r, "shiftID")
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	var req shiftRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.log, err)
		return
	}

	shift, err := h.store.UpdateShift(actor, id, store.ShiftInput{
		Name:            req.Name,
		Color:           req.Color,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		EmployeesNeeded: req.EmployeesNeeded,
	})
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, shift)
}

func (h *ShiftHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	id, err := urlID(r, "shiftID")
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	if err := h.store.DeleteShift(actor, id); err != nil {
		respondError(w, h.log, err)
		return
	}

	respondOK(w)
}
