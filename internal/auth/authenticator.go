package auth

import (
	"context"
	"strings"

	"go.uber.org/zap"

	apperrors "clubhub/internal/errors"
)

// BearerScheme is the only accepted Authorization scheme. The match is case-sensitive.
const BearerScheme = "Bearer"

// ParseBearer extracts the token from an Authorization header value.
func ParseBearer(header string) (string, error) {
	if header == "" {
		return "", apperrors.ErrMissingCredentials
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != BearerScheme {
		return "", apperrors.ErrMalformedCredentials
	}
	// exactly one space separates the scheme from a non-empty token
	if parts[1] == "" || strings.ContainsAny(parts[1], " \t") {
		return "", apperrors.ErrMalformedCredentials
	}
	return parts[1], nil
}

// Authenticator turns a raw token into a verified identity. When a token
// store is configured, revoked tokens are rejected as well.
type Authenticator struct {
	jwtService *JWTService
	tokenStore Denylist
	log        *zap.Logger
}

// NewAuthenticator creates an Authenticator. tokenStore may be nil, which
// disables revocation checks.
func NewAuthenticator(jwtService *JWTService, tokenStore Denylist, log *zap.Logger) *Authenticator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Authenticator{jwtService: jwtService, tokenStore: tokenStore, log: log}
}

// RevocationEnabled reports whether logout denylisting is active.
func (a *Authenticator) RevocationEnabled() bool {
	return a.tokenStore != nil
}

// Authenticate verifies token and checks the denylist.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (*Identity, error) {
	id, err := a.jwtService.Verify(token)
	if err != nil {
		return nil, err
	}
	if a.tokenStore == nil {
		return id, nil
	}

	revoked, err := a.tokenStore.IsTokenRevoked(ctx, id.TokenID)
	if err != nil {
		// fail open: an unavailable denylist must not lock every user out
		a.log.Warn("token denylist unavailable", zap.Error(err))
		return id, nil
	}
	if revoked {
		return nil, apperrors.ErrTokenRevoked
	}
	return id, nil
}
