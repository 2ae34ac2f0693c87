package httphandler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/kiogloss/storefront/internal/core/domain"
	"github.com/kiogloss/storefront/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBrowseProvider struct {
	mock.Mock
}

func (m *MockBrowseProvider) Open(
	ctx context.Context, clientID string, params url.Values,
) (service.BrowseView, error) {
	args := m.Called(ctx, clientID, params)
	return args.Get(0).(service.BrowseView), args.Error(1)
}

func (m *MockBrowseProvider) SetFilters(
	ctx context.Context, clientID string, f domain.FilterState,
) (service.BrowseView, error) {
	args := m.Called(ctx, clientID, f)
	return args.Get(0).(service.BrowseView), args.Error(1)
}

func (m *MockBrowseProvider) SetSearch(
	ctx context.Context, clientID, search string,
) (service.BrowseView, error) {
	args := m.Called(ctx, clientID, search)
	return args.Get(0).(service.BrowseView), args.Error(1)
}

func (m *MockBrowseProvider) SetSort(
	ctx context.Context, clientID, label string,
) (service.BrowseView, error) {
	args := m.Called(ctx, clientID, label)
	return args.Get(0).(service.BrowseView), args.Error(1)
}

func (m *MockBrowseProvider) SetPage(
	ctx context.Context, clientID string, page int,
) (service.BrowseView, error) {
	args := m.Called(ctx, clientID, page)
	return args.Get(0).(service.BrowseView), args.Error(1)
}

func (m *MockBrowseProvider) ClearFilters(
	ctx context.Context, clientID string,
) (service.BrowseView, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).(service.BrowseView), args.Error(1)
}

func (m *MockBrowseProvider) Tags(ctx context.Context) ([]domain.Tag, error) {
	args := m.Called(ctx)
	var tags []domain.Tag
	if v := args.Get(0); v != nil {
		tags = v.([]domain.Tag)
	}
	return tags, args.Error(1)
}

type MockWishlistManager struct {
	mock.Mock
}

func (m *MockWishlistManager) Add(
	ctx context.Context, clientID string, p domain.Product,
) (bool, error) {
	args := m.Called(ctx, clientID, p)
	return args.Bool(0), args.Error(1)
}

func (m *MockWishlistManager) Load(
	ctx context.Context, clientID string,
) ([]domain.WishlistEntry, error) {
	args := m.Called(ctx, clientID)
	var list []domain.WishlistEntry
	if v := args.Get(0); v != nil {
		list = v.([]domain.WishlistEntry)
	}
	return list, args.Error(1)
}

func (m *MockWishlistManager) Remove(
	ctx context.Context, clientID string, productID int64, favoriteID *int64,
) error {
	args := m.Called(ctx, clientID, productID, favoriteID)
	return args.Error(0)
}

type MockOrdersProvider struct {
	mock.Mock
}

func (m *MockOrdersProvider) List(
	ctx context.Context, clientID string, q domain.OrdersQuery,
) (domain.OrderPage, error) {
	args := m.Called(ctx, clientID, q)
	return args.Get(0).(domain.OrderPage), args.Error(1)
}

func (m *MockOrdersProvider) Export(
	ctx context.Context, clientID string, o domain.Order, f service.ExportFormat,
) (service.ExportResult, error) {
	args := m.Called(ctx, clientID, o, f)
	return args.Get(0).(service.ExportResult), args.Error(1)
}

func serveJSON(
	t *testing.T, handler http.Handler, method, target string, body any,
) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(clientIDHeader, "client-1")

	rec := httptest.NewRecorder()
	WithClientID(AllowJSON(handler)).ServeHTTP(rec, req)
	return rec
}

func TestClientIDMiddleware(t *testing.T) {
	t.Run("IssuesUUIDWhenMissing", func(t *testing.T) {
		var seen string
		h := WithClientID(http.HandlerFunc(
			func(_ http.ResponseWriter, r *http.Request) {
				seen = clientID(r)
			},
		))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get(clientIDHeader),
			"the issued id is echoed back")
	})

	t.Run("KeepsCallerID", func(t *testing.T) {
		var seen string
		h := WithClientID(http.HandlerFunc(
			func(_ http.ResponseWriter, r *http.Request) {
				seen = clientID(r)
			},
		))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(clientIDHeader, "client-1")
		h.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "client-1", seen)
	})
}

func TestShopHandler(t *testing.T) {
	view := service.BrowseView{
		State: service.StateSuccess,
		Products: []domain.Product{
			{ID: 1, Title: "Labial mate", Price: "12.500"},
		},
		TotalPages: 2,
		Sort:       domain.DefaultSort,
		PageParams: url.Values{"search": {"labial"}},
		Search:     "labial",
	}

	t.Run("GetShopPassesURLParams", func(t *testing.T) {
		browse := new(MockBrowseProvider)
		browse.On("Open", mock.Anything, "client-1", url.Values{
			"search": {"labial"}, "category": {"maquillaje"},
		}).Return(view, nil).Once()

		mux := http.NewServeMux()
		RegisterShop(mux, browse)

		rec := serveJSON(t, mux, http.MethodGet,
			"/v1/shop?search=labial&category=maquillaje", nil)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp BrowseView
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "success", resp.State)
		assert.Equal(t, "published,desc", resp.Sort)
		assert.Equal(t, "search=labial", resp.PageParams)
		browse.AssertExpectations(t)
	})

	t.Run("PostFilters", func(t *testing.T) {
		browse := new(MockBrowseProvider)
		browse.On("SetFilters", mock.Anything, "client-1", domain.FilterState{
			TagIDs: []int64{4}, MinPrice: "10000", MaxPrice: "50000",
		}).Return(view, nil).Once()

		mux := http.NewServeMux()
		RegisterShop(mux, browse)

		rec := serveJSON(t, mux, http.MethodPost, "/v1/shop/filters", Filters{
			Tags: []int64{4}, MinPrice: "10000", MaxPrice: "50000",
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		browse.AssertExpectations(t)
	})

	t.Run("PostFiltersRejectsMalformedJSON", func(t *testing.T) {
		mux := http.NewServeMux()
		RegisterShop(mux, new(MockBrowseProvider))

		req := httptest.NewRequest(
			http.MethodPost, "/v1/shop/filters",
			bytes.NewReader([]byte("{broken")),
		)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		WithClientID(mux).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("NonJSONBodyRejected", func(t *testing.T) {
		mux := http.NewServeMux()
		RegisterShop(mux, new(MockBrowseProvider))

		req := httptest.NewRequest(
			http.MethodPost, "/v1/shop/search",
			bytes.NewReader([]byte("search=labial")),
		)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		WithClientID(AllowJSON(mux)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})

	t.Run("DeleteFilters", func(t *testing.T) {
		cleared := service.BrowseView{
			State:      service.StateSuccess,
			Sort:       domain.DefaultSort,
			PageParams: url.Values{},
		}

		browse := new(MockBrowseProvider)
		browse.On("ClearFilters", mock.Anything, "client-1").
			Return(cleared, nil).Once()

		mux := http.NewServeMux()
		RegisterShop(mux, browse)

		rec := serveJSON(t, mux, http.MethodDelete, "/v1/shop/filters", nil)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp BrowseView
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Empty(t, resp.PageParams)
		assert.Empty(t, resp.Filters.Tags)
	})
}

func TestWishlistHandler(t *testing.T) {
	t.Run("DeleteWithFavoriteID", func(t *testing.T) {
		wishlist := new(MockWishlistManager)
		wishlist.On("Remove", mock.Anything, "client-1", int64(10),
			mock.MatchedBy(func(id *int64) bool {
				return id != nil && *id == 77
			}),
		).Return(nil).Once()

		mux := http.NewServeMux()
		RegisterWishlist(mux, wishlist)

		rec := serveJSON(t, mux, http.MethodDelete,
			"/v1/wishlist/10?favoriteId=77", nil)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		wishlist.AssertExpectations(t)
	})

	t.Run("DeleteWithoutFavoriteID", func(t *testing.T) {
		wishlist := new(MockWishlistManager)
		wishlist.On("Remove", mock.Anything, "client-1", int64(10), (*int64)(nil)).
			Return(nil).Once()

		mux := http.NewServeMux()
		RegisterWishlist(mux, wishlist)

		rec := serveJSON(t, mux, http.MethodDelete, "/v1/wishlist/10", nil)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		wishlist.AssertExpectations(t)
	})

	t.Run("PostRequiresProductID", func(t *testing.T) {
		mux := http.NewServeMux()
		RegisterWishlist(mux, new(MockWishlistManager))

		rec := serveJSON(t, mux, http.MethodPost, "/v1/wishlist",
			WishlistAddRequest{})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestOrdersHandler(t *testing.T) {
	order := Order{
		ID: 501, Status: "P", Date: "2025-11-02", Amount: 2500,
		Items: []OrderItem{
			{Title: "Serum facial", Quantity: 1, Price: 2500},
		},
	}

	t.Run("ExportInvoiceSetsHeaders", func(t *testing.T) {
		orders := new(MockOrdersProvider)
		orders.On("Export", mock.Anything, "client-1", order.toDomain(),
			service.FormatInvoice,
		).Return(service.ExportResult{
			Filename:    "factura-kiogloss-501.txt",
			ContentType: "text/plain; charset=utf-8",
			Data:        []byte("FACTURA"),
		}, nil).Once()

		mux := http.NewServeMux()
		RegisterOrders(mux, orders)

		rec := serveJSON(t, mux, http.MethodPost,
			"/v1/orders/export?format=invoice", order)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Disposition"),
			"factura-kiogloss-501.txt")
		assert.Empty(t, rec.Header().Get("X-Export-Notice"))
	})

	t.Run("ExportFallbackNoticeHeader", func(t *testing.T) {
		orders := new(MockOrdersProvider)
		orders.On("Export", mock.Anything, mock.Anything, mock.Anything,
			service.FormatInvoice,
		).Return(service.ExportResult{
			Filename:    "order-501.json",
			ContentType: "application/json",
			Data:        []byte("{}"),
			Notice:      "invoice export unavailable, JSON document attached instead",
		}, nil).Once()

		mux := http.NewServeMux()
		RegisterOrders(mux, orders)

		rec := serveJSON(t, mux, http.MethodPost,
			"/v1/orders/export?format=invoice", order)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("X-Export-Notice"), "JSON document")
	})

	t.Run("ExportRejectsUnknownFormat", func(t *testing.T) {
		mux := http.NewServeMux()
		RegisterOrders(mux, new(MockOrdersProvider))

		rec := serveJSON(t, mux, http.MethodPost,
			"/v1/orders/export?format=xml", order)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("ListPassesQuery", func(t *testing.T) {
		orders := new(MockOrdersProvider)
		orders.On("List", mock.Anything, "client-1", domain.OrdersQuery{
			Page:   2,
			Status: domain.OrderShipping,
		}).Return(domain.OrderPage{TotalPages: 3}, nil).Once()

		mux := http.NewServeMux()
		RegisterOrders(mux, orders)

		rec := serveJSON(t, mux, http.MethodGet,
			"/v1/orders?page=2&status=E", nil)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp OrdersPage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 3, resp.TotalPages)
		orders.AssertExpectations(t)
	})
}
