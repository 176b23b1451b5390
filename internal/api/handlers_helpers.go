// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/upnext/internal/logging"
	"github.com/tomtom215/upnext/internal/models"
	"github.com/tomtom215/upnext/internal/validation"
	"github.com/tomtom215/upnext/internal/watching"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

// sanitizeLogValue removes control characters so request data cannot forge
// log lines.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&result, "\\x%02x", r)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondSuccess wraps data in a success envelope with timing metadata.
func respondSuccess(w http.ResponseWriter, status int, data interface{}, start time.Time, cached bool) {
	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Cached:      cached,
		},
	})
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().Str("code", sanitizeLogValue(code)).Str("error", sanitizeLogValue(err.Error())).Msg("API Error")
	}
	respondAPIError(w, status, &models.APIError{Code: code, Message: message})
}

func respondAPIError(w http.ResponseWriter, status int, apiErr *models.APIError) {
	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
		Error: apiErr,
	})
}

// respondServiceError maps an engine error to a status code and envelope.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		respondAPIError(w, http.StatusBadRequest, verr.ToAPIError())
	case errors.Is(err, watching.ErrInvalidInput):
		respondAPIError(w, http.StatusBadRequest, &models.APIError{Code: "VALIDATION_ERROR", Message: err.Error()})
	case errors.Is(err, watching.ErrNotFound):
		respondAPIError(w, http.StatusNotFound, &models.APIError{Code: "NOT_FOUND", Message: "No watch history found"})
	case errors.Is(err, watching.ErrUnavailable):
		logging.Ctx(r.Context()).Warn().Str("error", sanitizeLogValue(err.Error())).Msg("Collaborator unavailable")
		respondAPIError(w, http.StatusServiceUnavailable, &models.APIError{
			Code:    "SERVICE_UNAVAILABLE",
			Message: "A backing service is temporarily unavailable",
			Details: map[string]interface{}{"retryable": true},
		})
	default:
		logging.Ctx(r.Context()).Error().Str("error", sanitizeLogValue(err.Error())).Msg("Unhandled API error")
		respondAPIError(w, http.StatusInternalServerError, &models.APIError{Code: "INTERNAL_ERROR", Message: "Internal server error"})
	}
}

// decodeJSONBody decodes a bounded JSON body into v, rejecting unknown
// fields and trailing data.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// queryParser collects the first parse error so handlers can read several
// parameters and check once.
type queryParser struct {
	r   *http.Request
	err error
}

func (p *queryParser) fail(key, want string) {
	if p.err == nil {
		p.err = fmt.Errorf("%s must be %s", key, want)
	}
}

func (p *queryParser) Int(key string, def int) int {
	v := p.r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		p.fail(key, "an integer")
		return def
	}
	return n
}

func (p *queryParser) Bool(key string) bool {
	v := p.r.URL.Query().Get(key)
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(key, "a boolean")
	}
	return b
}

func (p *queryParser) Float(key string) *float64 {
	v := p.r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		p.fail(key, "a number")
		return nil
	}
	return &f
}

// parseCommaSeparated parses a comma-separated string into a slice.
func parseCommaSeparated(value string) []string {
	if value == "" {
		return nil
	}

	var result []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// validateRequest validates a struct and returns the API error on failure.
func validateRequest(v interface{}) *models.APIError {
	if verr := validation.ValidateStruct(v); verr != nil {
		return verr.ToAPIError()
	}
	return nil
}
