package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/openfairway/rangelog/internal/api/respond"
	"github.com/openfairway/rangelog/internal/store"
)

type shotRequest struct {
	ClubID   int64    `json:"club_id"`
	Date     string   `json:"date"`
	Distance *float64 `json:"distance"`
	Result   string   `json:"result"`
	Context  string   `json:"context"`
}

// ListShots returns the user's shots joined with club info, optionally
// filtered to one date.
// @Summary List shots
// @Description Returns shots with club name/notes, newest first within bag order.
// @Tags shots
// @Produce json
// @Security BearerAuth
// @Param date query string false "Filter to one date (YYYY-MM-DD)"
// @Success 200 {array} store.ShotWithClub
// @Failure 400 {object} respond.ErrorResponse
// @Router /shots [get]
func (h *Handler) ListShots(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	date, err := dateParam(r)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_DATE", err.Error())
		return
	}
	shots, err := h.store.ListShots(r.Context(), userID, date)
	if err != nil {
		h.logger.Error("list shots failed", "user_id", userID, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Could not list shots")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, shots)
}

// CreateShot logs a shot. Date defaults to today when omitted.
// @Summary Log shot
// @Tags shots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body shotRequest true "Shot"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /shots [post]
func (h *Handler) CreateShot(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req shotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "Body must be JSON; distance must be a number")
		return
	}
	if req.ClubID == 0 {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_CLUB", "Must provide club_id")
		return
	}
	if req.Distance == nil || *req.Distance < 0 {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_DISTANCE", "Distance must be a non-negative number")
		return
	}
	if req.Date == "" {
		req.Date = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_DATE", "date must be YYYY-MM-DD")
		return
	}

	id, err := h.store.CreateShot(r.Context(), userID, req.ClubID, req.Date, *req.Distance, req.Result, req.Context)
	if errors.Is(err, store.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Club not found")
		return
	}
	if err != nil {
		h.logger.Error("create shot failed", "user_id", userID, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Could not log shot")
		return
	}
	h.cache.DeletePrefix(statsCachePrefix(userID))
	respond.WriteJSONObject(w, http.StatusCreated, map[string]interface{}{"id": id})
}

// DeleteShot removes a shot belonging to the user.
// @Summary Delete shot
// @Tags shots
// @Security BearerAuth
// @Param shotID path int true "Shot ID"
// @Success 204
// @Failure 404 {object} respond.ErrorResponse
// @Router /shots/{shotID} [delete]
func (h *Handler) DeleteShot(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "shotID"), 10, 64)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_ID", "Shot id must be an integer")
		return
	}
	err = h.store.DeleteShot(r.Context(), id, userID)
	if errors.Is(err, store.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Shot not found")
		return
	}
	if err != nil {
		h.logger.Error("delete shot failed", "shot_id", id, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Could not delete shot")
		return
	}
	h.cache.DeletePrefix(statsCachePrefix(userID))
	w.WriteHeader(http.StatusNoContent)
}
