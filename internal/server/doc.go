// Package server runs the HTTP API and the optional gRPC health endpoint.
//
// Both transports share one lifecycle: they start together, and a SIGINT,
// SIGTERM or SIGQUIT drains them with a bounded graceful shutdown.
package server
