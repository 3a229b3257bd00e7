// Package auth resolves the caller of a request and decides whether it may
// use member or admin routes.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"investment_platform/internal/domain"
	"investment_platform/internal/ledger"
	"investment_platform/internal/utils"
)

var (
	// ErrUnauthorized means the request carries no valid session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden means the session is valid but the caller may not proceed.
	ErrForbidden = errors.New("forbidden")
)

// Principal is the authenticated caller.
type Principal struct {
	UserID    uint
	Role      domain.Role
	Email     string
	SessionID string
	ExpiresAt time.Time
}

// IsAdmin reports whether the principal holds the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == domain.RoleAdmin
}

// Authorizer is the single gate every protected route goes through.
type Authorizer interface {
	Authorize(r *http.Request) (Principal, error)
}

// UserLookup loads the current state of a user. A removed user is reported
// as ledger.ErrUserNotFound.
type UserLookup interface {
	FindUser(ctx context.Context, id uint) (*domain.User, error)
}

// RevocationList reports revoked session ids.
type RevocationList interface {
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// SessionAuthorizer accepts any caller with a valid, unrevoked session whose
// user still exists.
type SessionAuthorizer struct {
	Secret  string         // JWT signing secret
	Cookie  string         // Session cookie name
	Users   UserLookup     // Current user state
	Revoked RevocationList // optional
}

// Authorize resolves the session from the cookie or the bearer header. The
// first token that verifies wins, so a stale cookie does not shadow a valid
// header.
func (a *SessionAuthorizer) Authorize(r *http.Request) (Principal, error) {
	tokens := sessionTokens(r, a.Cookie)
	if len(tokens) == 0 {
		return Principal{}, ErrUnauthorized
	}
	var (
		claims *utils.Claims
		err    error
	)
	for _, token := range tokens {
		if claims, err = utils.ParseJWT(token, a.Secret); err == nil {
			break
		}
	}
	if err != nil {
		return Principal{}, errors.Join(ErrUnauthorized, err)
	}
	ctx := r.Context()
	if a.Revoked != nil {
		revoked, err := a.Revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return Principal{}, err
		}
		if revoked {
			return Principal{}, ErrUnauthorized
		}
	}
	// Role is read from the store on every request so demotions apply at once.
	user, err := a.Users.FindUser(ctx, claims.UserID)
	if errors.Is(err, ledger.ErrUserNotFound) {
		return Principal{}, errors.Join(ErrForbidden, err)
	}
	if err != nil {
		return Principal{}, err
	}
	p := Principal{
		UserID:    user.ID,
		Role:      user.Role,
		Email:     user.Email,
		SessionID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time
	}
	return p, nil
}

// AdminAuthorizer narrows another authorizer to admin principals.
type AdminAuthorizer struct {
	Next Authorizer
}

// Authorize runs Next and rejects principals without the admin role.
func (a AdminAuthorizer) Authorize(r *http.Request) (Principal, error) {
	p, err := a.Next.Authorize(r)
	if err != nil {
		return Principal{}, err
	}
	if !p.IsAdmin() {
		return Principal{}, ErrForbidden
	}
	return p, nil
}

// sessionTokens returns the session cookie and the bearer header token, in
// that order, skipping whichever is absent.
func sessionTokens(r *http.Request, cookie string) []string {
	var tokens []string
	if c, err := r.Cookie(cookie); err == nil && c.Value != "" {
		tokens = append(tokens, c.Value) // Browser session
	}
	h := r.Header.Get("Authorization")
	if t := strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")); strings.HasPrefix(h, "Bearer ") && t != "" {
		tokens = append(tokens, t) // API clients
	}
	return tokens
}
