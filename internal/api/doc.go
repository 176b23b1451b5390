// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

/*
Package api provides the HTTP REST API for UpNext.

Routes are served by a chi router under /api/v1:

	GET    /users/{userID}/continue-watching
	GET    /users/{userID}/sessions
	GET    /users/{userID}/overrides
	GET    /users/{userID}/shows/{showID}/progress
	GET    /users/{userID}/shows/{showID}/sessions
	POST   /users/{userID}/shows/{showID}/watched
	DELETE /users/{userID}/shows/{showID}/watched
	GET    /users/{userID}/shows/{showID}/override
	PATCH  /users/{userID}/shows/{showID}/override

plus /api/v1/health, /api/v1/health/live, /api/v1/health/ready and /metrics.

Every response uses the models.APIResponse envelope. Errors from the
watching engine map to status codes in one place (respondServiceError):
invalid input and validation failures are 400, missing history is 404 and
collaborator failures are 503 with details.retryable set.
*/
package api
