package adapter

import (
	"github.com/MKhiriev/crowdblog-auth/internal/config"
	"github.com/MKhiriev/crowdblog-auth/internal/logger"
)

// Adapters groups the outbound integrations used by the server.
type Adapters struct {
	IdentityProvider IdentityProvider
	Mailer           Mailer
}

// NewAdapters builds the server-side adapters from cfg. Missing Facebook
// credentials or SendGrid key select the disabled provider and the log
// mailer respectively.
func NewAdapters(cfg config.Adapter, logger *logger.Logger) *Adapters {
	return &Adapters{
		IdentityProvider: NewFacebookIdentityProvider(cfg.Facebook, logger),
		Mailer:           NewMailer(cfg.Mail, logger),
	}
}
