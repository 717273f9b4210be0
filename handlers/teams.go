package handlers

import (
	"net/http"

	"shiftly/middleware"
	"shiftly/store"
	"shiftly/visibility"

	"github.com/rs/zerolog"
)

type TeamHandler struct {
	store    *store.Service
	resolver *visibility.Resolver
	log      zerolog.Logger
}

func NewTeamHandler(st *store.Service, resolver *visibility.Resolver, log zerolog.Logger) *TeamHandler {
	return &TeamHandler{store: st, resolver: resolver, log: log}
}

func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	teams, err := h.resolver.ManagedTeams(actor)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, teams)
}

type teamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ManagerID   *uint  `json:"manager_id"`
}

func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	var req teamRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.log, err)
		return
	}

	team, err := h.store.CreateTeam(actor, store.TeamInput{
		Name:        req.Name,
		Description: req.Description,
		ManagerID:   req.ManagerID,
	})
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, team)
}

func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	id, err := urlID(r, "teamID")
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	var req teamRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.log, err)
		return
	}

	team, err := h.store.UpdateTeam(actor, id, store.TeamInput{
		Name:        req.Name,
		Description: req.Description,
		ManagerID:   req.ManagerID,
	})
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, team)
}

func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	id, err := urlID(r, "teamID")
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	if err := h.store.DeleteTeam(actor, id); err != nil {
		respondError(w, h.log, err)
		return
	}

	respondOK(w)
}

type assignMembersRequest struct {
	EmployeeIDs []uint `json:"employee_ids"`
}

func (h *TeamHandler) AssignMembers(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	teamID, err := urlID(r, "teamID")
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	var req assignMembersRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.log, err)
		return
	}

	if err := h.store.AssignToTeam(actor, teamID, req.EmployeeIDs); err != nil {
		respondError(w, h.log, err)
		return
	}

	respondOK(w)
}

func (h *TeamHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	teamID, err := urlID(r, "teamID")
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	employeeID, err := urlID(r, "employeeID")
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	if err := h.store.RemoveFromTeam(actor, teamID, employeeID); err != nil {
		respondError(w, h.log, err)
		return
	}

	respondOK(w)
}
