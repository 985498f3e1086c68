package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/crowdblog-auth/internal/config"
	"github.com/MKhiriev/crowdblog-auth/internal/logger"
	"github.com/MKhiriev/crowdblog-auth/internal/utils"
	"github.com/MKhiriev/crowdblog-auth/models"
)

// ProviderFacebook is the [models.SocialProfile] provider name used for
// Facebook identities.
const ProviderFacebook = "facebook"

type graphError struct {
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

type debugTokenResponse struct {
	Data struct {
		AppID     string `json:"app_id"`
		UserID    string `json:"user_id"`
		IsValid   bool   `json:"is_valid"`
		ExpiresAt int64  `json:"expires_at"`
	} `json:"data"`
}

type meResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type facebookIdentityProvider struct {
	client    *utils.HTTPClient
	appID     string
	appSecret string
	logger    *logger.Logger
}

// NewFacebookIdentityProvider builds an [IdentityProvider] backed by the
// Facebook Graph API. Without an app id every verification fails with
// ErrIdentityUnavailable.
func NewFacebookIdentityProvider(cfg config.Facebook, log *logger.Logger) IdentityProvider {
	if cfg.AppID == "" {
		log.Warn().Str("func", "NewFacebookIdentityProvider").Msg("facebook app id is not configured, social login disabled")
		return disabledIdentityProvider{}
	}

	return &facebookIdentityProvider{
		client:    utils.NewHTTPClient(cfg.GraphURL, cfg.Timeout),
		appID:     cfg.AppID,
		appSecret: cfg.AppSecret,
		logger:    log,
	}
}

// VerifyToken inspects accessToken with debug_token, requiring it to be
// valid and issued for this app, then reads the profile from /me.
func (p *facebookIdentityProvider) VerifyToken(ctx context.Context, accessToken string) (models.SocialProfile, error) {
	log := logger.FromContext(ctx)

	var debug debugTokenResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParam("input_token", accessToken).
		SetQueryParam("access_token", p.appID+"|"+p.appSecret).
		SetResult(&debug).
		SetError(&graphError{}).
		Get("/debug_token")
	if err := p.checkResponse(resp, err); err != nil {
		log.Err(err).Str("func", "*facebookIdentityProvider.VerifyToken").Msg("debug_token failed")
		return models.SocialProfile{}, err
	}

	if !debug.Data.IsValid {
		return models.SocialProfile{}, fmt.Errorf("%w: token is not valid", ErrIdentityRejected)
	}
	if debug.Data.AppID != p.appID {
		return models.SocialProfile{}, fmt.Errorf("%w: token issued for another app", ErrIdentityRejected)
	}

	var me meResponse
	resp, err = p.client.R().
		SetContext(ctx).
		SetQueryParam("fields", "id,name,email").
		SetQueryParam("access_token", accessToken).
		SetResult(&me).
		SetError(&graphError{}).
		Get("/me")
	if err := p.checkResponse(resp, err); err != nil {
		log.Err(err).Str("func", "*facebookIdentityProvider.VerifyToken").Msg("me request failed")
		return models.SocialProfile{}, err
	}

	if me.ID == "" || (debug.Data.UserID != "" && me.ID != debug.Data.UserID) {
		return models.SocialProfile{}, fmt.Errorf("%w: profile does not match token", ErrIdentityRejected)
	}

	profile := models.SocialProfile{
		Provider:   ProviderFacebook,
		ExternalID: me.ID,
		Name:       me.Name,
		Email:      me.Email,
	}
	if debug.Data.ExpiresAt > 0 {
		profile.ExpiresAt = time.Unix(debug.Data.ExpiresAt, 0).UTC()
	}

	return profile, nil
}

// checkResponse classifies a Graph API call: transport errors and 5xx are
// ErrIdentityUnavailable, other non-2xx answers are ErrIdentityRejected.
func (p *facebookIdentityProvider) checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIdentityUnavailable, err)
	}

	status := resp.StatusCode()
	if status >= http.StatusOK && status < http.StatusMultipleChoices {
		return nil
	}

	msg := http.StatusText(status)
	if ge, ok := resp.Error().(*graphError); ok && ge.Error != nil {
		msg = ge.Error.Message
	}

	if status >= http.StatusInternalServerError {
		return fmt.Errorf("%w: graph %d: %s", ErrIdentityUnavailable, status, msg)
	}
	return fmt.Errorf("%w: graph %d: %s", ErrIdentityRejected, status, msg)
}

type disabledIdentityProvider struct{}

func (disabledIdentityProvider) VerifyToken(context.Context, string) (models.SocialProfile, error) {
	return models.SocialProfile{}, errors.Join(ErrIdentityUnavailable, errors.New("social login is not configured"))
}
