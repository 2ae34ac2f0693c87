package port

import (
	"context"

	"github.com/kiogloss/storefront/internal/core/domain"
)

// Outbound: upstream catalog REST API.

type CatalogProvider interface {
	ListProducts(ctx context.Context, q domain.ListingQuery, bearer string) (domain.ProductPage, error)
	ListTags(ctx context.Context) ([]domain.Tag, error)
}

type FavoritesProvider interface {
	AddFavorite(ctx context.Context, productID, accountID int64, bearer string) error
	ListFavorites(ctx context.Context, accountID int64, bearer string) ([]domain.WishlistEntry, error)
	RemoveFavorite(ctx context.Context, favoriteID int64, bearer string) error
}

type OrdersProvider interface {
	ListOrders(ctx context.Context, q domain.OrdersQuery, bearer string) (domain.OrderPage, error)
}

// Outbound: client-scoped persistent state.

type ClientStore interface {
	Token(ctx context.Context, clientID string) (string, error)
	SetTokens(ctx context.Context, clientID string, t domain.Tokens) error
	ClearTokens(ctx context.Context, clientID string) error
	Wishlist(ctx context.Context, clientID string) ([]domain.WishlistEntry, error)
	SetWishlist(ctx context.Context, clientID string, list []domain.WishlistEntry) error
}

// SessionBus broadcasts session changes so independently running
// views observe login and logout without polling.
type SessionBus interface {
	Publish(ctx context.Context, change domain.SessionChange) error
	Subscribe(ctx context.Context) (<-chan domain.SessionChange, error)
}

// Outbound: activity events stream.

type EventsProducer interface {
	ProduceEvents(ctx context.Context, evts []domain.ClientEvent) error
}

type EventsStorage interface {
	StoreEvents(ctx context.Context, evts []domain.ClientEvent) error
}

// Inbound: core service contracts used by the HTTP layer and the
// events consumer.

type SessionManager interface {
	Login(ctx context.Context, clientID string, t domain.Tokens) error
	Logout(ctx context.Context, clientID string) error
	Authenticated(ctx context.Context, clientID string) (bool, error)
}

type EventsSaver interface {
	SaveEvents(ctx context.Context, evts []domain.ClientEvent) error
}

// TrendingProvider serves per-product activity counts.
type TrendingProvider interface {
	TopProducts(ctx context.Context, n int) ([]domain.ProductActivity, error)
}
