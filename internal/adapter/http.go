package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/crowdblog-auth/internal/config"
	"github.com/MKhiriev/crowdblog-auth/internal/logger"
	"github.com/MKhiriev/crowdblog-auth/internal/utils"
	"github.com/MKhiriev/crowdblog-auth/models"
)

type httpServerAdapter struct {
	client *utils.HTTPClient

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs the REST implementation of [ServerAdapter]
// for the server at adapterCfg.HTTPAddress.
//
// Returns an error if the address is empty or cannot be parsed as a URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	return &httpServerAdapter{
		client: utils.NewHTTPClient(baseURL, adapterCfg.RequestTimeout),
		logger: logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

func (h *httpServerAdapter) Register(ctx context.Context, req models.RegisterRequest) (models.RegisterResponse, error) {
	var out models.RegisterResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&out).
		Post("/users")
	if err != nil {
		return models.RegisterResponse{}, fmt.Errorf("register request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.RegisterResponse{}, err
	}

	return out, nil
}

// CreateSession POSTs the credentials to /session. The token is taken from
// the body, and the Authorization response header is checked to agree
// with it when present.
func (h *httpServerAdapter) CreateSession(ctx context.Context, req models.CreateSessionRequest) (models.CreateSessionResponse, error) {
	var out models.CreateSessionResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&out).
		Post("/session")
	if err != nil {
		return models.CreateSessionResponse{}, fmt.Errorf("create session request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.CreateSessionResponse{}, err
	}

	if header := resp.Header().Get("Authorization"); header != "" {
		token, err := utils.ParseBearerToken(header)
		if err != nil {
			return models.CreateSessionResponse{}, fmt.Errorf("create session parse bearer token: %w", err)
		}
		if out.Token == "" {
			out.Token = token
		}
	}
	if out.Token == "" || out.SessionID == "" {
		return models.CreateSessionResponse{}, fmt.Errorf("create session: incomplete response")
	}

	return out, nil
}

func (h *httpServerAdapter) ExchangeFacebookToken(ctx context.Context, req models.SocialTokenRequest) (models.SocialTokenResponse, error) {
	var out models.SocialTokenResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&out).
		Post("/auth/facebook")
	if err != nil {
		return models.SocialTokenResponse{}, fmt.Errorf("facebook exchange request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.SocialTokenResponse{}, err
	}
	if out.AccessToken == "" {
		return models.SocialTokenResponse{}, fmt.Errorf("facebook exchange: empty access token in response")
	}

	return out, nil
}

func (h *httpServerAdapter) Me(ctx context.Context) (models.User, error) {
	var user models.User

	resp, err := h.authedRequest(ctx).
		SetResult(&user).
		Get("/users/me")
	if err != nil {
		return models.User{}, fmt.Errorf("me request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (h *httpServerAdapter) Sessions(ctx context.Context) ([]models.Session, error) {
	var out models.SessionsResponse

	resp, err := h.authedRequest(ctx).
		SetResult(&out).
		Get("/users/me/sessions")
	if err != nil {
		return nil, fmt.Errorf("sessions request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return out.Sessions, nil
}

func (h *httpServerAdapter) RequestPasswordReset(ctx context.Context, req models.PasswordResetRequest) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/password-reset")
	if err != nil {
		return fmt.Errorf("password reset request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpServerAdapter) Version(ctx context.Context) (string, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		Get("/api/version")
	if err != nil {
		return "", fmt.Errorf("version request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	return strings.TrimSpace(resp.String()), nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetAuthToken(token)
	}

	return req
}
