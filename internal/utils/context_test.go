package utils

import (
	"context"
	"testing"
	"time"

	"github.com/MKhiriev/crowdblog-auth/models"
	"github.com/stretchr/testify/assert"
)

func TestContextKeyString(t *testing.T) {
	assert.Equal(t, "userID", UserIDCtxKey.String())
	assert.Equal(t, "claims", ClaimsCtxKey.String())
}

func TestGetUserIDFromContext(t *testing.T) {
	tests := []struct {
		name   string
		ctx    context.Context
		wantID int64
		wantOK bool
	}{
		{name: "present", ctx: context.WithValue(context.Background(), UserIDCtxKey, int64(42)), wantID: 42, wantOK: true},
		{name: "missing", ctx: context.Background()},
		{name: "wrong type", ctx: context.WithValue(context.Background(), UserIDCtxKey, "42")},
		{name: "plain string key", ctx: context.WithValue(context.Background(), "userID", int64(42))}, //nolint:staticcheck
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := GetUserIDFromContext(tt.ctx)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestWithPrincipal(t *testing.T) {
	claims := models.Claims{UserID: 7, SessionID: "sess", Issuer: "crowdblog", ExpiresAt: time.Unix(100, 0)}

	ctx := WithPrincipal(context.Background(), claims)

	got, ok := GetClaimsFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, claims, got)

	id, ok := GetUserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)

	_, ok = GetClaimsFromContext(context.Background())
	assert.False(t, ok)
}
