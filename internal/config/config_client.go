package config

import (
	"fmt"
	"os"
	"time"
)

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the base URL of the server.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	Adapter ClientAdapter
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration. Server-only invariants (token sign key,
// DSN) are not checked.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := newConfigBuilder().
		withDefaults().
		withEnv().
		withFlags(os.Args[1:]).
		withJSON().
		build()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
	}

	return clientCfg, clientCfg.validate()
}
