package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kiogloss/storefront/internal/core/domain"
	"github.com/kiogloss/storefront/internal/core/port"
)

var _ port.SessionManager = (*SessionService)(nil)

// SessionService tracks credential presence per client. State lives in
// the client store; every mutation is broadcast on the session bus so
// independently running views stay consistent without polling.
type SessionService struct {
	store port.ClientStore
	bus   port.SessionBus
}

func NewSessionService(store port.ClientStore, bus port.SessionBus) SessionService {
	return SessionService{store, bus}
}

// Login persists the access token (and the refresh token when present)
// and flips the client to authenticated.
func (s SessionService) Login(
	ctx context.Context, clientID string, t domain.Tokens,
) error {
	const op = "SessionService.Login"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.store.SetTokens(ctx, clientID, t); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.publish(ctx, domain.SessionChange{ClientID: clientID, Authenticated: true})
	return nil
}

// Logout clears every known token key, current and legacy, and flips
// the client to unauthenticated.
func (s SessionService) Logout(ctx context.Context, clientID string) error {
	const op = "SessionService.Logout"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.store.ClearTokens(ctx, clientID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.publish(ctx, domain.SessionChange{ClientID: clientID, Authenticated: false})
	return nil
}

func (s SessionService) Authenticated(
	ctx context.Context, clientID string,
) (bool, error) {
	const op = "SessionService.Authenticated"

	token, err := s.store.Token(ctx, clientID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return token != "", nil
}

// Subscribe yields the session change stream for any interested view.
func (s SessionService) Subscribe(
	ctx context.Context,
) (<-chan domain.SessionChange, error) {
	const op = "SessionService.Subscribe"

	c, err := s.bus.Subscribe(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// publish is best-effort: a broadcast failure leaves the stored state
// authoritative and is only logged.
func (s SessionService) publish(ctx context.Context, change domain.SessionChange) {
	const op = "SessionService.publish"
	log := slog.With("op", op)

	if err := s.bus.Publish(ctx, change); err != nil {
		log.Error("failed to broadcast session change", "err", err)
	}
}
