package internal

import (
	"context"
	"time"

	"github.com/frahmantamala/employee-dashboard/internal/core/identity"
)

type ctxKey string

const (
	ContextSessionKey   ctxKey = "session"
	ContextPrincipalKey ctxKey = "principal"
)

func ContextWithSession(ctx context.Context, s identity.Session) context.Context {
	return context.WithValue(ctx, ContextSessionKey, s)
}

// SessionFromContext returns the session set by the auth middleware. ok is
// false for unauthenticated requests.
func SessionFromContext(ctx context.Context) (identity.Session, bool) {
	if ctx == nil {
		return identity.Session{}, false
	}
	s, ok := ctx.Value(ContextSessionKey).(identity.Session)
	if !ok || s.UID == "" {
		return identity.Session{}, false
	}
	return s, true
}

func ContextWithPrincipal(ctx context.Context, p *identity.Principal) context.Context {
	return context.WithValue(ctx, ContextPrincipalKey, p)
}

// PrincipalFromContext returns the principal resolved by the access middleware.
func PrincipalFromContext(ctx context.Context) (*identity.Principal, bool) {
	if ctx == nil {
		return nil, false
	}
	p, ok := ctx.Value(ContextPrincipalKey).(*identity.Principal)
	return p, ok && p != nil
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
