// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/upnext/internal/cache"
	"github.com/tomtom215/upnext/internal/middleware"
	"github.com/tomtom215/upnext/internal/models"
)

// HealthStatus is the body of the health endpoint.
type HealthStatus struct {
	Status            string                     `json:"status"`
	DatabaseConnected bool                       `json:"database_connected"`
	Uptime            float64                    `json:"uptime"`
	FeedCache         *cache.Stats               `json:"feed_cache,omitempty"`
	Endpoints         []middleware.EndpointStats `json:"endpoints"`
}

// cacheStatser is implemented by services that own a feed cache.
type cacheStatser interface {
	CacheStats() cache.Stats
}

// Health reports database connectivity, feed cache and latency statistics.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	dbConnected := h.db != nil && h.db.Ping(r.Context()) == nil

	status := "healthy"
	if !dbConnected {
		status = "degraded"
	}

	health := HealthStatus{
		Status:            status,
		DatabaseConnected: dbConnected,
		Uptime:            time.Since(h.startTime).Seconds(),
		Endpoints:         h.perfMon.GetStats(),
	}
	if cs, ok := h.service.(cacheStatser); ok {
		stats := cs.CacheStats()
		health.FeedCache = &stats
	}

	respondSuccess(w, http.StatusOK, health, start, false)
}

// HealthLive answers 200 while the process is alive, regardless of
// dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, time.Now(), false)
}

// HealthReady answers 200 only when the database is reachable.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ready := h.db != nil && h.db.Ping(r.Context()) == nil
	if !ready {
		respondAPIError(w, http.StatusServiceUnavailable, &models.APIError{
			Code:    "NOT_READY",
			Message: "Database is not reachable",
			Details: map[string]interface{}{"retryable": true},
		})
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"ready":              true,
		"database_connected": true,
	}, start, false)
}
