package server

// Server is the lifecycle of the process-wide transport set.
//
// RunServer blocks until a termination signal arrives; Shutdown may also be
// called directly, e.g. from tests.
type Server interface {
	// RunServer starts every configured transport and blocks until shutdown.
	RunServer()

	// Shutdown drains in-flight requests and closes the listeners.
	Shutdown()
}
