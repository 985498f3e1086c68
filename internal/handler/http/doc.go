// Package http implements the HTTP transport layer of the authentication
// service.
//
// It exposes route wiring, request handlers, and middleware used by the REST
// API. Cross-cutting concerns such as request tracing, access logging, CORS,
// rate limiting of the credential endpoints and bearer token authentication
// are handled in this package before requests are delegated to the service
// layer.
package http
