// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

/*
Package middleware provides HTTP middleware for the UpNext API.

Key Components:

  - RequestID: X-Request-ID propagation and logging context
  - PrometheusMetrics: request count, latency and in-flight gauge
  - PerformanceMonitor: sliding window of recent latencies per route
  - Compression: gzip for larger responses

All middleware has the func(http.Handler) http.Handler shape so it can be
passed to chi's Use and With.

Metrics are labelled with the chi route pattern, not the raw URL path, so
user and show IDs never become label values:

	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(perfMon.Middleware)
*/
package middleware
