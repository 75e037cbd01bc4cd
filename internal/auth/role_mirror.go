package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/employee-dashboard/internal/core/events"
	"github.com/frahmantamala/employee-dashboard/internal/core/identity"
)

// RoleMirror copies a principal's directory role into the identity claims
// whenever a principal is created.
type RoleMirror struct {
	directory DirectoryAPI
	claims    ClaimStoreAPI
	logger    *slog.Logger
}

func NewRoleMirror(directory DirectoryAPI, claims ClaimStoreAPI, logger *slog.Logger) *RoleMirror {
	return &RoleMirror{directory: directory, claims: claims, logger: logger}
}

func (m *RoleMirror) Register(bus *events.EventBus) {
	bus.Subscribe(events.EventTypePrincipalCreated, m.Handle)
}

func (m *RoleMirror) Handle(ctx context.Context, event events.Event) error {
	uid, err := principalUID(event)
	if err != nil {
		return err
	}

	p, err := m.directory.GetByUID(ctx, uid)
	if err != nil {
		m.logger.ErrorContext(ctx, "role mirror: failed to load principal", "uid", uid, "error", err)
		return fmt.Errorf("load principal %s: %w", uid, err)
	}
	if p.Role == identity.RoleUndefined {
		m.logger.WarnContext(ctx, "role mirror: principal has no role", "uid", uid)
		return nil
	}

	if err := m.claims.SetRole(ctx, uid, p.Role); err != nil {
		m.logger.ErrorContext(ctx, "role mirror: failed to set claim", "uid", uid, "error", err)
		return fmt.Errorf("set role claim for %s: %w", uid, err)
	}

	m.logger.InfoContext(ctx, "role mirrored into claims", "uid", uid, "role", p.Role)
	return nil
}

func principalUID(event events.Event) (string, error) {
	if created, ok := event.(*events.PrincipalCreatedEvent); ok {
		return created.UID, nil
	}
	if data, ok := event.Payload().(map[string]interface{}); ok {
		if uid, ok := data["uid"].(string); ok && uid != "" {
			return uid, nil
		}
	}
	return "", fmt.Errorf("event %s carries no principal uid", event.EventID())
}
