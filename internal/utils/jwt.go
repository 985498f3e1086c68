package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/crowdblog-auth/models"
	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformedAuthHeader is returned by ParseBearerToken when the header is
// not of the form "Bearer <token>".
var ErrMalformedAuthHeader = errors.New("invalid authorization header")

// TokenParams describes a token to be minted by GenerateJWTToken.
type TokenParams struct {
	Issuer    string
	UserID    int64
	SessionID string
	IssuedAt  time.Time
	Duration  time.Duration
	SignKey   string
}

// GenerateJWTToken creates a signed HMAC-SHA256 JWT token.
//
// The token includes the following claims:
//   - Issuer    (iss): identifies the service that issued the token
//   - Subject   (sub): the user ID encoded as a decimal string
//   - ID        (jti): the session ID, omitted when empty
//   - IssuedAt  (iat): p.IssuedAt
//   - ExpiresAt (exp): p.IssuedAt plus p.Duration
//
// Issuer, a positive Duration and SignKey are required.
func GenerateJWTToken(p TokenParams) (models.Token, error) {
	if p.Issuer == "" || p.Duration <= 0 || p.SignKey == "" {
		return models.Token{}, errors.New("invalid params for generating JWT Token")
	}

	claims := &jwt.RegisteredClaims{
		Issuer:    p.Issuer,
		Subject:   strconv.FormatInt(p.UserID, 10),
		ID:        p.SessionID,
		ExpiresAt: jwt.NewNumericDate(p.IssuedAt.Add(p.Duration)),
		IssuedAt:  jwt.NewNumericDate(p.IssuedAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(p.SignKey))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred during signing JWT token: %w", err)
	}

	return models.Token{
		Token:        token,
		SignedString: tokenString,
		Claims:       toModelClaims(claims, p.UserID),
	}, nil
}

// ValidateAndParseJWTToken verifies tokenString and extracts its claims.
//
// Validation includes:
//   - HS256 as the only accepted algorithm
//   - Signature verification using signKey
//   - Issuer (iss) claim equal to issuer
//   - Expiration (exp) present and later than now()
//   - Subject (sub) present and a decimal int64
//
// The returned error wraps the jwt/v5 sentinel (e.g. jwt.ErrTokenExpired).
func ValidateAndParseJWTToken(tokenString, signKey, issuer string, now func() time.Time) (models.Token, error) {
	if now == nil {
		now = time.Now
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(signKey), nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(now),
	)
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	userID, err := subjectToUserID(claims.Subject)
	if err != nil {
		return models.Token{}, err
	}

	return models.Token{
		Token:        token,
		SignedString: tokenString,
		Claims:       toModelClaims(claims, userID),
	}, nil
}

// ParseUnverifiedClaims decodes the claims of tokenString without checking
// its signature. The result must not be trusted for authorization.
func ParseUnverifiedClaims(tokenString string) (models.Claims, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return models.Claims{}, err
	}

	userID, err := subjectToUserID(claims.Subject)
	if err != nil {
		return models.Claims{}, err
	}

	return toModelClaims(claims, userID), nil
}

// ParseBearerToken extracts the token from an Authorization header value.
// The scheme is matched case-insensitively.
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Fields(authorizationHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrMalformedAuthHeader
	}
	return parts[1], nil
}

func subjectToUserID(sub string) (int64, error) {
	if sub == "" {
		return 0, errors.New("empty subject error")
	}

	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("error occurred during converting subject to user id: %w", err)
	}

	return userID, nil
}

func toModelClaims(c *jwt.RegisteredClaims, userID int64) models.Claims {
	claims := models.Claims{
		UserID:    userID,
		SessionID: c.ID,
		Issuer:    c.Issuer,
	}
	if c.IssuedAt != nil {
		claims.IssuedAt = c.IssuedAt.Time.UTC()
	}
	if c.ExpiresAt != nil {
		claims.ExpiresAt = c.ExpiresAt.Time.UTC()
	}

	return claims
}
