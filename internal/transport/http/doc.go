// Package http holds the HTTP handlers of the simulation server.
//
// Handlers stay thin: they decode the request, call the simulation or health
// service and format the answer. Business rules live in internal/services.
//
// Routes, as mounted by the app package:
//
//	GET  /{mode}                        HTML form (mr or dp)
//	POST /{mode}                        result table, DP chart, workbook download
//	POST /api/simulations/{mode}        JSON result table
//	POST /api/simulations/{mode}/export workbook attachment
//	GET  /api/schemas/{mode}            field labels and target range
//	GET  /api/health, /api/version      health and build information
//	GET  /metrics                       Prometheus scrape endpoint
//
// JSON errors are RFC 7807 problem details produced by the errors package.
// The form renders the same failures as a message above the inputs, keeping
// what the user typed.
package http
