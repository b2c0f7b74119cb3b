// Package app assembles the simulation server.
//
// NewApplication takes a loaded configuration and a logger and wires,
// in order:
//
//	1. OpenTelemetry providers and the business metrics
//	2. the record store (Google Sheets, or the offline in-memory store)
//	   wrapped with tracing and store-call metrics
//	3. the simulation and health services
//	4. the chi router with middleware and the HTTP handlers
//	5. the http.Server
//
// Start binds the listener and serves in the background, Stop shuts the
// server and telemetry down, and Run combines both around a context, which
// is how the serve command and the system service drive it.
package app
