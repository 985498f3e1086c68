package http

import (
	"net/netip"

	"github.com/MKhiriev/crowdblog-auth/internal/config"
	"github.com/MKhiriev/crowdblog-auth/internal/logger"
	"github.com/MKhiriev/crowdblog-auth/internal/service"
)

type Handler struct {
	services *service.Services
	cfg      config.Server

	// limiter throttles the credential endpoints per client IP.
	limiter *ipRateLimiter
	// trustedProxies are the peers allowed to name the client in
	// X-Forwarded-For or X-Real-IP.
	trustedProxies []netip.Prefix

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.Server, logger *logger.Logger) *Handler {
	trusted, err := config.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		logger.Err(err).Str("func", "NewHandler").Msg("ignoring trusted proxies, forwarded headers will not be honoured")
	}

	logger.Info().Msg("http handler created")
	return &Handler{
		services:       services,
		cfg:            cfg,
		limiter:        newIPRateLimiter(cfg.AuthRateLimit),
		trustedProxies: trusted,
		logger:         logger,
	}
}
