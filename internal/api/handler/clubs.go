package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/openfairway/rangelog/internal/api/respond"
	"github.com/openfairway/rangelog/internal/store"
)

// clubRequest is the create/update payload. Loft is optional; a loft that is
// not a number fails JSON decoding and is rejected at this boundary, so the
// bag classifier below only ever sees a numeric loft or none.
type clubRequest struct {
	Name  string   `json:"name"`
	Loft  *float64 `json:"loft"`
	Notes string   `json:"notes"`
}

func decodeClubRequest(w http.ResponseWriter, r *http.Request) (*clubRequest, bool) {
	var req clubRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "Body must be JSON; loft must be a number")
		return nil, false
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_NAME", "Must provide club name")
		return nil, false
	}
	return &req, true
}

func clubIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "clubID"), 10, 64)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_ID", "Club id must be an integer")
		return 0, false
	}
	return id, true
}

// ListClubs returns the user's clubs in bag order.
// @Summary List clubs
// @Description Returns the authenticated user's clubs in natural bag order.
// @Tags clubs
// @Produce json
// @Security BearerAuth
// @Success 200 {array} store.Club
// @Router /clubs [get]
func (h *Handler) ListClubs(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	clubs, err := h.store.ListClubs(r.Context(), userID)
	if err != nil {
		h.logger.Error("list clubs failed", "user_id", userID, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Could not list clubs")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, clubs)
}

// GetClub returns one club.
// @Summary Get club
// @Tags clubs
// @Produce json
// @Security BearerAuth
// @Param clubID path int true "Club ID"
// @Success 200 {object} store.Club
// @Failure 404 {object} respond.ErrorResponse
// @Router /clubs/{clubID} [get]
func (h *Handler) GetClub(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := clubIDParam(w, r)
	if !ok {
		return
	}
	club, err := h.store.GetClub(r.Context(), id, userID)
	if errors.Is(err, store.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Club not found")
		return
	}
	if err != nil {
		h.logger.Error("get club failed", "club_id", id, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Could not load club")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, club)
}

// CreateClub registers a club; bag_order is derived server-side from the
// name and loft, never taken from the request.
// @Summary Create club
// @Tags clubs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body clubRequest true "Club"
// @Success 201 {object} store.Club
// @Failure 400 {object} respond.ErrorResponse
// @Router /clubs [post]
func (h *Handler) CreateClub(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	req, ok := decodeClubRequest(w, r)
	if !ok {
		return
	}
	club, err := h.store.CreateClub(r.Context(), userID, req.Name, req.Loft, strings.TrimSpace(req.Notes))
	if err != nil {
		h.logger.Error("create club failed", "user_id", userID, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Could not create club")
		return
	}
	h.cache.DeletePrefix(statsCachePrefix(userID))
	respond.WriteJSONObject(w, http.StatusCreated, club)
}

// UpdateClub edits a club and recomputes its bag_order from the new name
// and loft.
// @Summary Update club
// @Tags clubs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param clubID path int true "Club ID"
// @Param body body clubRequest true "Club"
// @Success 200 {object} store.Club
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /clubs/{clubID} [put]
func (h *Handler) UpdateClub(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := clubIDParam(w, r)
	if !ok {
		return
	}
	req, ok := decodeClubRequest(w, r)
	if !ok {
		return
	}
	club, err := h.store.UpdateClub(r.Context(), id, userID, req.Name, req.Loft, strings.TrimSpace(req.Notes))
	if errors.Is(err, store.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Club not found")
		return
	}
	if err != nil {
		h.logger.Error("update club failed", "club_id", id, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Could not update club")
		return
	}
	h.cache.DeletePrefix(statsCachePrefix(userID))
	respond.WriteJSONObject(w, http.StatusOK, club)
}

// DeleteClub removes a club and all of its shots.
// @Summary Delete club
// @Tags clubs
// @Security BearerAuth
// @Param clubID path int true "Club ID"
// @Success 204
// @Failure 404 {object} respond.ErrorResponse
// @Router /clubs/{clubID} [delete]
func (h *Handler) DeleteClub(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := clubIDParam(w, r)
	if !ok {
		return
	}
	err := h.store.DeleteClub(r.Context(), id, userID)
	if errors.Is(err, store.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Club not found")
		return
	}
	if err != nil {
		h.logger.Error("delete club failed", "club_id", id, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Could not delete club")
		return
	}
	h.cache.DeletePrefix(statsCachePrefix(userID))
	w.WriteHeader(http.StatusNoContent)
}
