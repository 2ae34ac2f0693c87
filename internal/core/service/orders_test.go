package service

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/kiogloss/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const ordersClient = "client-3"

func sampleOrder() domain.Order {
	return domain.Order{
		ID:     501,
		Status: "P",
		Date:   "2025-11-02",
		Amount: 10500,
		User: domain.OrderUser{
			Name:    "Ana Torres",
			Phone:   "3001234567",
			Address: "Calle 10 #4-20",
		},
		Items: []domain.OrderItem{
			{Title: "Serum facial", Size: "30ml", Color: "-", Quantity: 1, Price: 2500},
		},
	}
}

func TestOrdersList(t *testing.T) {
	t.Run("WithToken", func(t *testing.T) {
		orders := new(MockOrdersProvider)
		q := domain.OrdersQuery{Page: 1, Status: domain.OrderShipping}
		orders.On("ListOrders", mock.Anything, q, "tok").
			Return(domain.OrderPage{
				Orders:     []domain.Order{sampleOrder()},
				TotalPages: 2,
			}, nil).Once()

		store := newFakeClientStore()
		require.NoError(t, store.SetTokens(t.Context(), ordersClient,
			domain.Tokens{Access: "tok"}))

		s := NewOrdersService(orders, store, nil)

		page, err := s.List(t.Context(), ordersClient, q)
		require.NoError(t, err)
		assert.Len(t, page.Orders, 1)
		assert.Equal(t, 2, page.TotalPages)
		orders.AssertExpectations(t)
	})

	t.Run("WithoutTokenReturnsEmpty", func(t *testing.T) {
		orders := new(MockOrdersProvider)
		s := NewOrdersService(orders, newFakeClientStore(), nil)

		page, err := s.List(t.Context(), ordersClient, domain.OrdersQuery{})
		require.NoError(t, err)
		assert.Empty(t, page.Orders)
		assert.Equal(t, 1, page.TotalPages)
		orders.AssertNotCalled(t, "ListOrders",
			mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestOrdersExport(t *testing.T) {
	t.Run("JSON", func(t *testing.T) {
		s := NewOrdersService(nil, newFakeClientStore(), nil)

		res, err := s.Export(t.Context(), ordersClient, sampleOrder(), FormatJSON)
		require.NoError(t, err)

		assert.Equal(t, "order-501.json", res.Filename)
		assert.Equal(t, "application/json", res.ContentType)
		assert.Empty(t, res.Notice)

		var decoded domain.Order
		require.NoError(t, json.Unmarshal(res.Data, &decoded))
		assert.Equal(t, sampleOrder(), decoded)
	})

	t.Run("Invoice", func(t *testing.T) {
		s := NewOrdersService(nil, newFakeClientStore(), nil)

		res, err := s.Export(t.Context(), ordersClient, sampleOrder(), FormatInvoice)
		require.NoError(t, err)

		assert.Equal(t, "factura-kiogloss-501.txt", res.Filename)
		assert.Equal(t, "text/plain; charset=utf-8", res.ContentType)
		assert.Empty(t, res.Notice)

		doc := string(res.Data)
		assert.Contains(t, doc, "FACTURA N° 501")
		assert.Contains(t, doc, "TOTAL     10,500")
	})

	t.Run("InvoiceFallsBackToJSON", func(t *testing.T) {
		s := NewOrdersService(nil, newFakeClientStore(), nil)

		o := sampleOrder()
		o.Items = nil

		res, err := s.Export(t.Context(), ordersClient, o, FormatInvoice)
		require.NoError(t, err)

		assert.Equal(t, "order-501.json", res.Filename)
		assert.Equal(t, "application/json", res.ContentType)
		assert.Contains(t, res.Notice, "JSON document attached")
		assert.True(t, strings.HasPrefix(string(res.Data), "{"))
	})

	t.Run("UnknownFormat", func(t *testing.T) {
		s := NewOrdersService(nil, newFakeClientStore(), nil)

		_, err := s.Export(t.Context(), ordersClient, sampleOrder(), ExportFormat("xml"))
		require.Error(t, err)
	})

	t.Run("EmitsExportEvent", func(t *testing.T) {
		events := new(MockEventsProducer)
		events.On("ProduceEvents", mock.Anything, mock.MatchedBy(
			func(evts []domain.ClientEvent) bool {
				return len(evts) == 1 && evts[0].Kind == domain.EventOrderExport
			},
		)).Return(nil).Once()

		s := NewOrdersService(nil, newFakeClientStore(), events)

		_, err := s.Export(t.Context(), ordersClient, sampleOrder(), FormatJSON)
		require.NoError(t, err)
		events.AssertExpectations(t)
	})
}
