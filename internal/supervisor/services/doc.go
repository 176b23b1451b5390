// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

// Package services adapts long-running components to suture.Service.
//
// Each wrapper blocks in Serve until its context is canceled and returns
// an error on failure so the supervisor can restart it.
package services
