// Package clientstore keeps per-client storefront state in redis:
// credential tokens, the shadow wishlist, and the session change
// broadcast channel.
package clientstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/kiogloss/storefront/internal/core/domain"
	"github.com/kiogloss/storefront/internal/core/port"
	"github.com/redis/go-redis/v9"
)

var (
	_ port.ClientStore = (*Store)(nil)
	_ port.SessionBus  = (*Store)(nil)
)

const (
	// token hash fields; "access" is the legacy key some clients
	// still carry and must be cleared together with the current ones.
	fieldAccess       = "accessToken"
	fieldRefresh      = "refreshToken"
	fieldLegacyAccess = "access"

	sessionChannel = "session:changes"

	defaultTTL = 30 * 24 * time.Hour
)

type Opt func(*Store)

func TTLOpt(d time.Duration) Opt {
	return func(s *Store) {
		s.ttl = d
	}
}

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(ctx context.Context, addr string, opts ...Opt) (*Store, error) {
	const op = "clientstore.New"

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s := &Store{rdb: rdb, ttl: defaultTTL}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.rdb.Close()
}

// Token returns the client's access token, falling back to the legacy
// field. A missing token is an empty string, not an error.
func (s *Store) Token(ctx context.Context, clientID string) (string, error) {
	const op = "clientstore.Store.Token"

	vals, err := s.rdb.HMGet(
		ctx, tokensKey(clientID), fieldAccess, fieldLegacyAccess,
	).Result()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	for _, v := range vals {
		if token, ok := v.(string); ok && token != "" {
			return token, nil
		}
	}
	return "", nil
}

func (s *Store) SetTokens(
	ctx context.Context, clientID string, t domain.Tokens,
) error {
	const op = "clientstore.Store.SetTokens"

	key := tokensKey(clientID)
	fields := map[string]any{fieldAccess: t.Access}
	if t.Refresh != "" {
		fields[fieldRefresh] = t.Refresh
	}

	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, fields)
	pipe.HDel(ctx, key, fieldLegacyAccess)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ClearTokens removes every token field, legacy included.
func (s *Store) ClearTokens(ctx context.Context, clientID string) error {
	const op = "clientstore.Store.ClearTokens"

	if err := s.rdb.Del(ctx, tokensKey(clientID)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Store) Wishlist(
	ctx context.Context, clientID string,
) ([]domain.WishlistEntry, error) {
	const op = "clientstore.Store.Wishlist"

	raw, err := s.rdb.Get(ctx, wishlistKey(clientID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var list []wishlistEntry
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return entriesToDomain(list), nil
}

func (s *Store) SetWishlist(
	ctx context.Context, clientID string, list []domain.WishlistEntry,
) error {
	const op = "clientstore.Store.SetWishlist"

	raw, err := json.Marshal(entriesFromDomain(list))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = s.rdb.Set(ctx, wishlistKey(clientID), raw, s.ttl).Err()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Publish broadcasts a session change to every subscriber.
func (s *Store) Publish(ctx context.Context, change domain.SessionChange) error {
	const op = "clientstore.Store.Publish"

	raw, err := json.Marshal(sessionChangeMsg{
		ClientID:      change.ClientID,
		Authenticated: change.Authenticated,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.rdb.Publish(ctx, sessionChannel, raw).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Subscribe yields session changes until the context ends. Undecodable
// messages are logged and skipped.
func (s *Store) Subscribe(
	ctx context.Context,
) (<-chan domain.SessionChange, error) {
	const op = "clientstore.Store.Subscribe"
	log := slog.With("op", op)

	sub := s.rdb.Subscribe(ctx, sessionChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make(chan domain.SessionChange)
	go func() {
		defer close(out)
		defer sub.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				var m sessionChangeMsg
				if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
					log.Warn("skipping malformed session change", "err", err)
					continue
				}
				select {
				case out <- domain.SessionChange{
					ClientID:      m.ClientID,
					Authenticated: m.Authenticated,
				}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func tokensKey(clientID string) string {
	return "client:" + clientID + ":tokens"
}

func wishlistKey(clientID string) string {
	return "client:" + clientID + ":wishlist"
}

type sessionChangeMsg struct {
	ClientID      string `json:"clientId"`
	Authenticated bool   `json:"authenticated"`
}

// wishlistEntry is the stored JSON shape, kept compatible with the
// browser-era localStorage wishlist array.
type wishlistEntry struct {
	ProductID  int64   `json:"productId"`
	Title      string  `json:"title"`
	Price      float64 `json:"price"`
	Image      string  `json:"image,omitempty"`
	Slug       string  `json:"slug,omitempty"`
	FavoriteID *int64  `json:"favoriteId,omitempty"`
}

func entriesFromDomain(list []domain.WishlistEntry) []wishlistEntry {
	out := make([]wishlistEntry, len(list))
	for i, e := range list {
		out[i] = wishlistEntry(e)
	}
	return out
}

func entriesToDomain(list []wishlistEntry) []domain.WishlistEntry {
	out := make([]domain.WishlistEntry, len(list))
	for i, e := range list {
		out[i] = domain.WishlistEntry(e)
	}
	return out
}
