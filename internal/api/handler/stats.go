package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/openfairway/rangelog/internal/api/respond"
	"github.com/openfairway/rangelog/internal/cache"
	"github.com/openfairway/rangelog/internal/chart"
	"github.com/openfairway/rangelog/internal/stats"
)

// ClubStats returns per-club summary statistics, optionally filtered to one
// date. A date with no shots yields an empty list, not an error.
// @Summary Per-club stats
// @Description Shot count, average distance, and miss distribution per club, in bag order.
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param date query string false "Filter to one date (YYYY-MM-DD)"
// @Success 200 {array} stats.ClubStat
// @Failure 400 {object} respond.ErrorResponse
// @Router /stats/clubs [get]
func (h *Handler) ClubStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	date, err := dateParam(r)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_DATE", err.Error())
		return
	}

	cacheKey := fmt.Sprintf("%sclubs:%s", statsCachePrefix(userID), date)
	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, h.cfg.StatsCacheTTL, true)
		return
	}

	rows, err := h.store.ListShots(r.Context(), userID, date)
	if err != nil {
		h.logger.Error("club stats failed", "user_id", userID, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Could not compute stats")
		return
	}

	data, err := json.Marshal(stats.Aggregate(rows))
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Could not encode stats")
		return
	}

	etag := h.cache.Set(cacheKey, data, h.cfg.StatsCacheTTL)
	respond.WriteJSON(w, data, etag, h.cfg.StatsCacheTTL, false)
}

// DispersionChart returns the 2-D dispersion chart payload: distance
// gridlines, one dot per shot, and a per-club legend.
// @Summary Dispersion chart
// @Description Chart primitives: range ticks, spray dots (lane by shot shape, height by distance), and legend.
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param date query string false "Filter to one date (YYYY-MM-DD)"
// @Success 200 {object} chart.Chart
// @Failure 400 {object} respond.ErrorResponse
// @Router /stats/dispersion [get]
func (h *Handler) DispersionChart(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	date, err := dateParam(r)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_DATE", err.Error())
		return
	}

	cacheKey := fmt.Sprintf("%sdispersion:%s", statsCachePrefix(userID), date)
	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, h.cfg.StatsCacheTTL, true)
		return
	}

	rows, err := h.store.ListShots(r.Context(), userID, date)
	if err != nil {
		h.logger.Error("dispersion chart failed", "user_id", userID, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Could not build chart")
		return
	}

	data, err := json.Marshal(chart.Build(rows, stats.Aggregate(rows)))
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Could not encode chart")
		return
	}

	etag := h.cache.Set(cacheKey, data, h.cfg.StatsCacheTTL)
	respond.WriteJSON(w, data, etag, h.cfg.StatsCacheTTL, false)
}
