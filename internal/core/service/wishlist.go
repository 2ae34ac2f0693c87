package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kiogloss/storefront/internal/core/domain"
	"github.com/kiogloss/storefront/internal/core/port"
	"github.com/kiogloss/storefront/pkg/claims"
)

// WishlistService keeps a best-effort local mirror of favorited
// products, reconciled opportunistically with the upstream favorites
// list. The upstream favorite-record id is distinct from the product
// id; the local shadow knows only product ids.
type WishlistService struct {
	favorites port.FavoritesProvider
	store     port.ClientStore
	events    port.EventsProducer
}

func NewWishlistService(
	favorites port.FavoritesProvider,
	store port.ClientStore,
	events port.EventsProducer,
) WishlistService {
	return WishlistService{favorites, store, events}
}

// Add submits the favorite upstream and appends a shadow copy on
// success, deduplicated by product id. Upstream failure is logged
// only; the caller sees favorited=false with no error.
func (s WishlistService) Add(
	ctx context.Context, clientID string, p domain.Product,
) (favorited bool, err error) {
	const op = "WishlistService.Add"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	token := s.token(ctx, clientID)
	accountID := s.accountID(token)

	if err := s.favorites.AddFavorite(ctx, p.ID, accountID, token); err != nil {
		log.Error("failed to add favorite", "product", p.ID, "err", err)
		return false, nil
	}

	s.appendShadow(ctx, clientID, p)
	s.emit(ctx, domain.ClientEvent{
		ClientID:    clientID,
		Kind:        domain.EventFavorite,
		ProductID:   p.ID,
		ProductName: p.Title,
		OccurredAt:  time.Now(),
	})
	return true, nil
}

// Load returns the upstream favorites when the client holds a
// decodable credential; otherwise, and on any upstream failure, it
// falls back entirely to the local shadow copy, whose entries carry no
// favorite-record id.
func (s WishlistService) Load(
	ctx context.Context, clientID string,
) ([]domain.WishlistEntry, error) {
	const op = "WishlistService.Load"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	token := s.token(ctx, clientID)
	if token != "" {
		accountID, err := claims.AccountID(token)
		if err != nil {
			log.Warn("could not decode credential", "err", err)
		} else {
			entries, err := s.favorites.ListFavorites(ctx, accountID, token)
			if err == nil {
				return entries, nil
			}
			log.Warn("favorites unavailable, falling back to shadow", "err", err)
		}
	}

	list, err := s.store.Wishlist(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// Remove deletes the upstream favorite when a favorite-record id is
// known and always filters the shadow by product id. A shadow write
// failure surfaces: silent failure would leave the view inconsistent
// with stored state.
func (s WishlistService) Remove(
	ctx context.Context, clientID string, productID int64, favoriteID *int64,
) error {
	const op = "WishlistService.Remove"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if favoriteID != nil {
		token := s.token(ctx, clientID)
		if err := s.favorites.RemoveFavorite(ctx, *favoriteID, token); err != nil {
			log.Error("failed to remove upstream favorite",
				"favorite", *favoriteID, "err", err)
		}
	} else {
		log.Warn("no favorite id, removing from shadow only", "product", productID)
	}

	list, err := s.store.Wishlist(ctx, clientID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = s.store.SetWishlist(ctx, clientID, domain.RemoveByProduct(list, productID))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s WishlistService) appendShadow(
	ctx context.Context, clientID string, p domain.Product,
) {
	const op = "WishlistService.appendShadow"
	log := slog.With("op", op)

	list, err := s.store.Wishlist(ctx, clientID)
	if err != nil {
		log.Warn("could not read shadow wishlist", "err", err)
		list = nil
	}

	list = domain.AppendUnique(list, domain.WishlistEntry{
		ProductID: p.ID,
		Title:     p.Title,
		Price:     p.UnitPrice(),
		Image:     p.FirstImage(),
		Slug:      p.Slug,
	})

	if err := s.store.SetWishlist(ctx, clientID, list); err != nil {
		log.Warn("could not persist shadow wishlist", "err", err)
	}
}

// accountID decodes the credential claims, falling back to the fixed
// default account when nothing usable is present.
func (s WishlistService) accountID(token string) int64 {
	const op = "WishlistService.accountID"

	if token == "" {
		return domain.FallbackAccountID
	}

	id, err := claims.AccountID(token)
	if err != nil {
		slog.With("op", op).Warn("could not decode credential", "err", err)
		return domain.FallbackAccountID
	}
	return id
}

func (s WishlistService) token(ctx context.Context, clientID string) string {
	const op = "WishlistService.token"

	token, err := s.store.Token(ctx, clientID)
	if err != nil {
		slog.With("op", op).Warn("token unavailable", "err", err)
		return ""
	}
	return token
}

func (s WishlistService) emit(ctx context.Context, evt domain.ClientEvent) {
	const op = "WishlistService.emit"

	if s.events == nil {
		return
	}
	if err := s.events.ProduceEvents(ctx, []domain.ClientEvent{evt}); err != nil {
		slog.With("op", op).Warn("failed to produce client event", "err", err)
	}
}
