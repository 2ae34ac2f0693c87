package service

import (
	"context"
	"sync"

	"github.com/kiogloss/storefront/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

type MockCatalogProvider struct {
	mock.Mock
}

func (m *MockCatalogProvider) ListProducts(
	ctx context.Context, q domain.ListingQuery, bearer string,
) (domain.ProductPage, error) {
	args := m.Called(ctx, q, bearer)
	return args.Get(0).(domain.ProductPage), args.Error(1)
}

func (m *MockCatalogProvider) ListTags(
	ctx context.Context,
) ([]domain.Tag, error) {
	args := m.Called(ctx)
	var tags []domain.Tag
	if v := args.Get(0); v != nil {
		tags = v.([]domain.Tag)
	}
	return tags, args.Error(1)
}

type MockFavoritesProvider struct {
	mock.Mock
}

func (m *MockFavoritesProvider) AddFavorite(
	ctx context.Context, productID, accountID int64, bearer string,
) error {
	args := m.Called(ctx, productID, accountID, bearer)
	return args.Error(0)
}

func (m *MockFavoritesProvider) ListFavorites(
	ctx context.Context, accountID int64, bearer string,
) ([]domain.WishlistEntry, error) {
	args := m.Called(ctx, accountID, bearer)
	var list []domain.WishlistEntry
	if v := args.Get(0); v != nil {
		list = v.([]domain.WishlistEntry)
	}
	return list, args.Error(1)
}

func (m *MockFavoritesProvider) RemoveFavorite(
	ctx context.Context, favoriteID int64, bearer string,
) error {
	args := m.Called(ctx, favoriteID, bearer)
	return args.Error(0)
}

type MockOrdersProvider struct {
	mock.Mock
}

func (m *MockOrdersProvider) ListOrders(
	ctx context.Context, q domain.OrdersQuery, bearer string,
) (domain.OrderPage, error) {
	args := m.Called(ctx, q, bearer)
	return args.Get(0).(domain.OrderPage), args.Error(1)
}

type MockEventsProducer struct {
	mock.Mock
}

func (m *MockEventsProducer) ProduceEvents(
	ctx context.Context, evts []domain.ClientEvent,
) error {
	args := m.Called(ctx, evts)
	return args.Error(0)
}

type MockEventsStorage struct {
	mock.Mock
}

func (m *MockEventsStorage) StoreEvents(
	ctx context.Context, evts []domain.ClientEvent,
) error {
	args := m.Called(ctx, evts)
	return args.Error(0)
}

// fakeClientStore is an in-memory stand-in for the redis-backed client
// state store.
type fakeClientStore struct {
	mu        sync.Mutex
	tokens    map[string]domain.Tokens
	wishlists map[string][]domain.WishlistEntry
}

func newFakeClientStore() *fakeClientStore {
	return &fakeClientStore{
		tokens:    make(map[string]domain.Tokens),
		wishlists: make(map[string][]domain.WishlistEntry),
	}
}

func (f *fakeClientStore) Token(_ context.Context, clientID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokens[clientID].Access, nil
}

func (f *fakeClientStore) SetTokens(
	_ context.Context, clientID string, t domain.Tokens,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[clientID] = t
	return nil
}

func (f *fakeClientStore) ClearTokens(_ context.Context, clientID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, clientID)
	return nil
}

func (f *fakeClientStore) Wishlist(
	_ context.Context, clientID string,
) ([]domain.WishlistEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.WishlistEntry(nil), f.wishlists[clientID]...), nil
}

func (f *fakeClientStore) SetWishlist(
	_ context.Context, clientID string, list []domain.WishlistEntry,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.wishlists[clientID] = append([]domain.WishlistEntry(nil), list...)
	return nil
}

// fakeSessionBus delivers changes synchronously to every subscriber.
type fakeSessionBus struct {
	mu   sync.Mutex
	subs []chan domain.SessionChange
}

func newFakeSessionBus() *fakeSessionBus {
	return &fakeSessionBus{}
}

func (b *fakeSessionBus) Publish(_ context.Context, change domain.SessionChange) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.subs {
		c <- change
	}
	return nil
}

func (b *fakeSessionBus) Subscribe(
	_ context.Context,
) (<-chan domain.SessionChange, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c := make(chan domain.SessionChange, 8)
	b.subs = append(b.subs, c)
	return c, nil
}
