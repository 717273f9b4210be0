package handlers

import (
	"net/http"

	"shiftly/database"
	"shiftly/middleware"
	"shiftly/models"
	"shiftly/store"

	"github.com/rs/zerolog"
)

type EstablishmentHandler struct {
	store *store.Service
	log   zerolog.Logger
}

func NewEstablishmentHandler(st *store.Service, log zerolog.Logger) *EstablishmentHandler {
	return &EstablishmentHandler{store: st, log: log}
}

func (h *EstablishmentHandler) List(w http.ResponseWriter, r *http.Request) {
	var establishments []models.Establishment
	if err := database.GetDB().Order("name").Find(&establishments).Error; err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, establishments)
}

type establishmentRequest struct {
	Name string `json:"name"`
}

func (h *EstablishmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	var req establishmentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.log, err)
		return
	}

	establishment, err := h.store.CreateEstablishment(actor, req.Name)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	h.log.Info().Str("name", establishment.Name).Msg("establishment created")
	respondJSON(w, http.StatusCreated, establishment)
}

func (h *EstablishmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	id, err := urlID(r, "establishmentID")
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	if err := h.store.DeleteEstablishment(actor, id); err != nil {
		respondError(w, h.log, err)
		return
	}

	h.log.Info().Uint("id", id).Msg("establishment deleted")
	respondOK(w)
}
