// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/upnext/internal/models"
	"github.com/tomtom215/upnext/internal/progress"
)

// feedQuery is the validated form of the continue-watching query string.
type feedQuery struct {
	Limit       int      `json:"limit" validate:"min=0"`
	Offset      int      `json:"offset" validate:"min=0,max=100000"`
	MinPriority *float64 `json:"min_priority" validate:"omitempty,min=0"`
	MaxDays     *float64 `json:"max_days" validate:"omitempty,min=0"`
	Patterns    []string `json:"patterns" validate:"omitempty,max=4,dive,watching_pattern"`
}

// sessionQuery is the validated form of lookback_days.
type sessionQuery struct {
	LookbackDays int `json:"lookback_days" validate:"min=0,max=365"`
}

// ContinueWatching returns the user's prioritized continue-watching feed.
//
// Query parameters: include_hidden, include_completed, min_priority,
// max_days, patterns (comma list), limit, offset, group.
func (h *Handler) ContinueWatching(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	p := &queryParser{r: r}
	q := feedQuery{
		Limit:       p.Int("limit", h.config.DefaultPageSize),
		Offset:      p.Int("offset", 0),
		MinPriority: p.Float("min_priority"),
		MaxDays:     p.Float("max_days"),
		Patterns:    parseCommaSeparated(r.URL.Query().Get("patterns")),
	}
	opts := progress.FeedOptions{
		IncludeHidden:    p.Bool("include_hidden"),
		IncludeCompleted: p.Bool("include_completed"),
		Grouped:          p.Bool("group"),
	}
	if p.err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", p.err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&q); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	if q.Limit == 0 || q.Limit > h.config.MaxPageSize {
		q.Limit = h.config.MaxPageSize
	}
	opts.Limit = q.Limit
	opts.Offset = q.Offset
	opts.MinPriority = q.MinPriority
	opts.MaxDaysSinceLastEpisode = q.MaxDays
	for _, pattern := range q.Patterns {
		opts.Patterns = append(opts.Patterns, models.WatchingPattern(pattern))
	}

	feed, cached, err := h.service.Feed(r.Context(), chi.URLParam(r, "userID"), opts)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, feed, start, cached)
}

// ShowProgress returns the continue-watching item for one show.
func (h *Handler) ShowProgress(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	item, err := h.service.Progress(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "showID"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, item, start, false)
}

// ShowSessions returns binge sessions for one show.
func (h *Handler) ShowSessions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	lookback, ok := h.lookback(w, r)
	if !ok {
		return
	}

	sessions, err := h.service.Sessions(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "showID"), lookback)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, sessions, start, false)
}

// UserSessions returns binge sessions across all shows with summary stats.
func (h *Handler) UserSessions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	lookback, ok := h.lookback(w, r)
	if !ok {
		return
	}

	summary, err := h.service.UserSessions(r.Context(), chi.URLParam(r, "userID"), lookback)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, summary, start, false)
}

// lookback parses lookback_days. Zero means the engine default.
func (h *Handler) lookback(w http.ResponseWriter, r *http.Request) (time.Duration, bool) {
	p := &queryParser{r: r}
	q := sessionQuery{LookbackDays: p.Int("lookback_days", 0)}
	if p.err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", p.err.Error(), nil)
		return 0, false
	}
	if apiErr := validateRequest(&q); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return 0, false
	}
	return time.Duration(q.LookbackDays) * 24 * time.Hour, true
}

// MarkWatched records a watch event. It answers 201 for a new event and 200
// when the identical event already existed.
func (h *Handler) MarkWatched(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req, ok := h.decodeWatchRequest(w, r)
	if !ok {
		return
	}

	ev, created, err := h.service.MarkWatched(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "showID"), req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondSuccess(w, status, ev, start, false)
}

// UnmarkWatched removes a watch event. Without watched_at the most recent
// watch of the episode is removed.
func (h *Handler) UnmarkWatched(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req, ok := h.decodeWatchRequest(w, r)
	if !ok {
		return
	}

	ev, err := h.service.UnmarkWatched(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "showID"), req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, ev, start, false)
}

func (h *Handler) decodeWatchRequest(w http.ResponseWriter, r *http.Request) (models.WatchRequest, bool) {
	var req models.WatchRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return req, false
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return req, false
	}
	return req, true
}

// GetOverride returns the show's override, or the defaults if none was
// ever written.
func (h *Handler) GetOverride(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	o, err := h.service.GetOverride(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "showID"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, o, start, false)
}

// PatchOverride applies a partial override update.
func (h *Handler) PatchOverride(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var patch models.OverridePatch
	if err := decodeJSONBody(w, r, &patch); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}

	o, err := h.service.UpdateOverride(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "showID"), patch)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, o, start, false)
}

// ListOverrides returns every override the user has stored.
func (h *Handler) ListOverrides(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	list, err := h.service.ListOverrides(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, list, start, false)
}
