// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

// Package validation provides struct validation using go-playground/validator v10.
//
// A thread-safe singleton validator is configured once with:
//   - JSON field names in error messages (RegisterTagNameFunc)
//   - the watching_pattern tag, accepting the four classifier labels
//   - a struct-level rule for models.OverridePatch: the next-episode pointer
//     is set as a pair, a field is never set and cleared in one patch, and an
//     empty patch is rejected
//
// Errors are returned as *RequestValidationError and convert to the API error
// envelope with ToAPIError, always with code VALIDATION_ERROR.
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
package validation
