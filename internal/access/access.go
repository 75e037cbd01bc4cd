// Package access decides whether a principal may open a dashboard view.
//
// The decision itself is pure: Authorize only looks at the resolved role.
// Role resolution goes through the directory and fails closed, so any lookup
// problem ends in Deny for admin-only capabilities.
package access

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/employee-dashboard/internal/core/identity"
)

type Capability string

const (
	CapabilityAny       Capability = "any"
	CapabilityAdminOnly Capability = "admin_only"
)

type Decision string

const (
	// DecisionPending means the session has not been resolved yet. Callers
	// render a waiting state and must not redirect.
	DecisionPending Decision = "pending"
	DecisionAllow   Decision = "allow"
	DecisionDeny    Decision = "deny"
)

// Authorize maps a principal and a capability to a decision. A nil principal
// is still being resolved and yields Pending.
func Authorize(p *identity.Principal, capability Capability) Decision {
	if p == nil {
		return DecisionPending
	}
	switch capability {
	case CapabilityAny:
		return DecisionAllow
	case CapabilityAdminOnly:
		if p.Role.IsAdmin() {
			return DecisionAllow
		}
	}
	return DecisionDeny
}

// DirectoryAPI is the part of the directory the gate reads.
type DirectoryAPI interface {
	GetByUID(ctx context.Context, uid string) (*identity.Principal, error)
}

type Resolver struct {
	directory DirectoryAPI
	logger    *slog.Logger
}

func NewResolver(directory DirectoryAPI, logger *slog.Logger) *Resolver {
	return &Resolver{directory: directory, logger: logger}
}

// Resolve loads the principal behind a session. Lookup failures produce a
// principal with an undefined role rather than an error; the only error
// returned is the context's, when the caller gave up mid-resolution and no
// decision should be applied.
func (r *Resolver) Resolve(ctx context.Context, session identity.Session) (*identity.Principal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p, err := r.directory.GetByUID(ctx, session.UID)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil || p == nil {
		r.logger.WarnContext(ctx, "role resolution failed, denying elevated access",
			"uid", session.UID,
			"error", err)
		return &identity.Principal{
			UID:   session.UID,
			Email: session.Email,
			Role:  identity.RoleUndefined,
		}, nil
	}
	return p, nil
}
