package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/MKhiriev/crowdblog-auth/internal/adapter"
	"github.com/MKhiriev/crowdblog-auth/internal/logger"
	"github.com/MKhiriev/crowdblog-auth/internal/mock"
	"github.com/MKhiriev/crowdblog-auth/internal/store"
	"github.com/MKhiriev/crowdblog-auth/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestClientAuthSvc builds clientAuthService over a mock adapter.
func newTestClientAuthSvc(t *testing.T, ctrl *gomock.Controller) (ClientAuthService, *mock.MockServerAdapter, *models.ClientSession) {
	t.Helper()
	mockAdapter := mock.NewMockServerAdapter(ctrl)
	session := &models.ClientSession{}

	return NewClientAuthService(mockAdapter, session, logger.Nop()), mockAdapter, session
}

func adapterErr(sentinel error, body string) error {
	return fmt.Errorf("%w: %s", sentinel, body)
}

// ── Login ────────────────────────────────────────────────────────────────────

func TestClientAuthService_Login_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, mockAdapter, session := newTestClientAuthSvc(t, ctrl)
	ctx := context.Background()

	gomock.InOrder(
		mockAdapter.EXPECT().SetToken(""),
		mockAdapter.EXPECT().CreateSession(ctx, models.CreateSessionRequest{Username: "alice", Password: "secret123"}).
			Return(models.CreateSessionResponse{SessionID: "sid-1", Token: "jwt-1", User: models.UserRef{Username: "alice"}}, nil),
		mockAdapter.EXPECT().SetToken("jwt-1"),
	)

	got, err := svc.Login(ctx, "alice", "secret123")
	require.NoError(t, err)
	assert.Same(t, session, got)
	assert.True(t, session.IsAuthenticated())
	assert.Equal(t, "jwt-1", session.Token())
	assert.Equal(t, "sid-1", session.SessionID())
	assert.Equal(t, "alice", session.Username())
	assert.Equal(t, models.AuthMethodPassword, session.Method())
}

func TestClientAuthService_Login_WrongPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, mockAdapter, session := newTestClientAuthSvc(t, ctrl)
	ctx := context.Background()

	mockAdapter.EXPECT().SetToken("")
	mockAdapter.EXPECT().CreateSession(ctx, gomock.Any()).
		Return(models.CreateSessionResponse{}, adapterErr(adapter.ErrUnauthorized, "Invalid username or password"))

	_, err := svc.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrLoginOnServer)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.False(t, session.IsAuthenticated())
}

func TestClientAuthService_Login_EmptyInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, _ := newTestClientAuthSvc(t, ctrl)

	_, err := svc.Login(context.Background(), " ", "secret")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

// ── ExchangeSocialToken ──────────────────────────────────────────────────────

func TestClientAuthService_ExchangeSocialToken_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, mockAdapter, session := newTestClientAuthSvc(t, ctrl)
	ctx := context.Background()

	gomock.InOrder(
		mockAdapter.EXPECT().SetToken(""),
		mockAdapter.EXPECT().ExchangeFacebookToken(ctx, models.SocialTokenRequest{AccessToken: "fb-token"}).
			Return(models.SocialTokenResponse{AccessToken: "jwt-fb", SessionID: "sid-fb"}, nil).Times(1),
		mockAdapter.EXPECT().SetToken("jwt-fb"),
		mockAdapter.EXPECT().Me(ctx).Return(models.User{UserID: 3, Username: "fb_10001"}, nil),
	)

	got, err := svc.ExchangeSocialToken(ctx, "fb-token")
	require.NoError(t, err)
	assert.Same(t, session, got)
	assert.Equal(t, "jwt-fb", session.Token())
	assert.Equal(t, "sid-fb", session.SessionID())
	assert.Equal(t, "fb_10001", session.Username())
	assert.Equal(t, models.AuthMethodFacebook, session.Method())
}

func TestClientAuthService_ExchangeSocialToken_ProfileLookupFailureKeepsLogin(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, mockAdapter, session := newTestClientAuthSvc(t, ctrl)
	ctx := context.Background()

	mockAdapter.EXPECT().SetToken(gomock.Any()).Times(2)
	mockAdapter.EXPECT().ExchangeFacebookToken(ctx, gomock.Any()).Return(models.SocialTokenResponse{AccessToken: "jwt-fb", SessionID: "sid-fb"}, nil)
	mockAdapter.EXPECT().Me(ctx).Return(models.User{}, adapterErr(adapter.ErrInternalServerError, "internal server error"))

	_, err := svc.ExchangeSocialToken(ctx, "fb-token")
	require.NoError(t, err)
	assert.True(t, session.IsAuthenticated())
	assert.Empty(t, session.Username())
}

// The exchange is attempted exactly once; gomock fails the test on a second
// call to ExchangeFacebookToken.
func TestClientAuthService_ExchangeSocialToken_FailsWithoutRetry(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{name: "provider rejected", err: adapterErr(adapter.ErrBadGateway, "social login failed"), wantErr: ErrUpstreamIdentity},
		{name: "bad request", err: adapterErr(adapter.ErrBadRequest, "invalid data provided"), wantErr: ErrInvalidDataProvided},
		{name: "rate limited", err: adapterErr(adapter.ErrTooManyRequests, "too many requests"), wantErr: ErrTooManyAttempts},
		{name: "transport", err: fmt.Errorf("dial tcp: connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc, mockAdapter, session := newTestClientAuthSvc(t, ctrl)
			ctx := context.Background()

			mockAdapter.EXPECT().SetToken("")
			mockAdapter.EXPECT().ExchangeFacebookToken(ctx, gomock.Any()).Return(models.SocialTokenResponse{}, tt.err).Times(1)

			got, err := svc.ExchangeSocialToken(ctx, "fb-token")
			assert.Nil(t, got)
			assert.ErrorIs(t, err, ErrSocialLoginFailed)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.False(t, session.IsAuthenticated())
		})
	}
}

func TestClientAuthService_ExchangeSocialToken_EmptyResponseToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, mockAdapter, session := newTestClientAuthSvc(t, ctrl)
	ctx := context.Background()

	mockAdapter.EXPECT().SetToken("")
	mockAdapter.EXPECT().ExchangeFacebookToken(ctx, gomock.Any()).Return(models.SocialTokenResponse{SessionID: "sid"}, nil)

	_, err := svc.ExchangeSocialToken(ctx, "fb-token")
	assert.ErrorIs(t, err, ErrSocialLoginFailed)
	assert.False(t, session.IsAuthenticated())
}

func TestClientAuthService_ExchangeSocialToken_EmptyInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, _ := newTestClientAuthSvc(t, ctrl)

	_, err := svc.ExchangeSocialToken(context.Background(), "")
	assert.ErrorIs(t, err, ErrSocialLoginFailed)
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

// ── Authenticated calls ──────────────────────────────────────────────────────

func TestClientAuthService_Me(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, mockAdapter, session := newTestClientAuthSvc(t, ctrl)
	ctx := context.Background()

	t.Run("not logged in", func(t *testing.T) {
		_, err := svc.Me(ctx)
		assert.ErrorIs(t, err, ErrNotLoggedIn)
	})

	t.Run("success", func(t *testing.T) {
		session.Set("jwt", "sid", "alice", models.AuthMethodPassword)
		mockAdapter.EXPECT().Me(ctx).Return(models.User{UserID: 1, Username: "alice"}, nil)

		user, err := svc.Me(ctx)
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("token rejected logs out", func(t *testing.T) {
		session.Set("jwt", "sid", "alice", models.AuthMethodPassword)
		mockAdapter.EXPECT().Me(ctx).Return(models.User{}, adapterErr(adapter.ErrUnauthorized, "unauthorized"))
		mockAdapter.EXPECT().SetToken("")

		_, err := svc.Me(ctx)
		assert.ErrorIs(t, err, ErrUnauthenticated)
		assert.False(t, session.IsAuthenticated())
	})
}

func TestClientAuthService_Sessions(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, mockAdapter, session := newTestClientAuthSvc(t, ctrl)
	ctx := context.Background()

	_, err := svc.Sessions(ctx)
	require.ErrorIs(t, err, ErrNotLoggedIn)

	session.Set("jwt", "sid", "alice", models.AuthMethodPassword)
	want := []models.Session{{SessionID: "sid", UserID: 1}}
	mockAdapter.EXPECT().Sessions(ctx).Return(want, nil)

	got, err := svc.Sessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestClientAuthService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, mockAdapter, _ := newTestClientAuthSvc(t, ctrl)
	ctx := context.Background()
	req := models.RegisterRequest{Username: "alice", Password: "secret123"}

	mockAdapter.EXPECT().Register(ctx, req).Return(models.RegisterResponse{UserID: 1, Username: "alice"}, nil)
	resp, err := svc.Register(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.UserID)

	mockAdapter.EXPECT().Register(ctx, req).Return(models.RegisterResponse{}, adapterErr(adapter.ErrConflict, "username already exists"))
	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, ErrRegisterOnServer)
	assert.ErrorIs(t, err, store.ErrUsernameAlreadyExists)
}

func TestClientAuthService_Logout(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, mockAdapter, session := newTestClientAuthSvc(t, ctrl)
	session.Set("jwt", "sid", "alice", models.AuthMethodPassword)

	mockAdapter.EXPECT().SetToken("")
	svc.Logout()

	assert.False(t, session.IsAuthenticated())
	assert.Empty(t, session.Username())
}

func TestClientAuthService_PasswordResetAndVersion(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, mockAdapter, _ := newTestClientAuthSvc(t, ctrl)
	ctx := context.Background()

	mockAdapter.EXPECT().RequestPasswordReset(ctx, models.PasswordResetRequest{Email: "a@example.com"}).Return(nil)
	require.NoError(t, svc.RequestPasswordReset(ctx, " a@example.com "))

	mockAdapter.EXPECT().Version(ctx).Return("1.2.3", nil)
	version, err := svc.ServerVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", version)
}
