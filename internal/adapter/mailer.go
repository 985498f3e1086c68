package adapter

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/MKhiriev/crowdblog-auth/internal/config"
	"github.com/MKhiriev/crowdblog-auth/internal/logger"
	"github.com/MKhiriev/crowdblog-auth/models"
)

const passwordResetSubject = "Reset your password"

// NewMailer returns the SendGrid mailer when an API key is configured and
// the log-only mailer otherwise.
func NewMailer(cfg config.Mail, log *logger.Logger) Mailer {
	if cfg.SendGridAPIKey == "" {
		log.Warn().Str("func", "NewMailer").Msg("sendgrid api key is not configured, reset links will only be logged")
		return NewLogMailer(log)
	}

	return NewSendGridMailer(cfg, log)
}

type sendGridMailer struct {
	// send delivers email and returns the API status code and body.
	send func(ctx context.Context, email *mail.SGMailV3) (int, string, error)
	from *mail.Email

	logger *logger.Logger
}

// NewSendGridMailer builds a [Mailer] delivering through the SendGrid v3 API.
func NewSendGridMailer(cfg config.Mail, log *logger.Logger) Mailer {
	client := sendgrid.NewSendClient(cfg.SendGridAPIKey)

	return &sendGridMailer{
		send: func(ctx context.Context, email *mail.SGMailV3) (int, string, error) {
			resp, err := client.SendWithContext(ctx, email)
			if err != nil {
				return 0, "", err
			}
			return resp.StatusCode, resp.Body, nil
		},
		from:   mail.NewEmail(cfg.FromName, cfg.FromAddress),
		logger: log,
	}
}

func (m *sendGridMailer) SendPasswordReset(ctx context.Context, user models.User, link string, expiresAt time.Time) error {
	to := mail.NewEmail(user.Username, user.Email)
	plain, htmlBody := passwordResetBody(user, link, expiresAt)
	message := mail.NewSingleEmail(m.from, passwordResetSubject, to, plain, htmlBody)

	status, body, err := m.send(ctx, message)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMailDelivery, err)
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: sendgrid status %d: %s", ErrMailDelivery, status, body)
	}

	logger.FromContext(ctx).Info().
		Str("func", "*sendGridMailer.SendPasswordReset").
		Int64("user_id", user.UserID).
		Msg("password reset mail sent")

	return nil
}

type logMailer struct {
	logger *logger.Logger
}

// NewLogMailer builds a [Mailer] that writes the reset link to the log
// instead of sending it. Meant for local development.
func NewLogMailer(log *logger.Logger) Mailer {
	return &logMailer{logger: log}
}

func (m *logMailer) SendPasswordReset(ctx context.Context, user models.User, link string, expiresAt time.Time) error {
	m.logger.Info().
		Str("func", "*logMailer.SendPasswordReset").
		Int64("user_id", user.UserID).
		Str("link", link).
		Time("expires_at", expiresAt).
		Msg("password reset link")

	return nil
}

func passwordResetBody(user models.User, link string, expiresAt time.Time) (string, string) {
	expires := expiresAt.UTC().Format(time.RFC1123)

	plain := fmt.Sprintf(
		"Hi %s,\n\nUse the link below to choose a new password:\n%s\n\nThe link expires at %s. If you did not ask for a reset, ignore this email.\n",
		user.Username, link, expires,
	)
	htmlBody := fmt.Sprintf(
		`<p>Hi %s,</p><p><a href="%s">Choose a new password</a></p><p>The link expires at %s. If you did not ask for a reset, ignore this email.</p>`,
		html.EscapeString(user.Username), html.EscapeString(link), expires,
	)

	return plain, htmlBody
}
