package domain_test

import (
	"testing"

	"github.com/kiogloss/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestParseSortOption(t *testing.T) {
	testCases := []struct {
		label string
		want  string
	}{
		{"price-low-to-high", "price,asc"},
		{"price-high-to-low", "price,desc"},
		{"latest", "published,desc"},
		{"", "published,desc"},
		{"unknown-option", "published,desc"},
	}
	for _, tc := range testCases {
		t.Run(tc.label, func(t *testing.T) {
			assert.Equal(t, tc.want, domain.ParseSortOption(tc.label).String())
		})
	}
}

func TestFilterStateWithTag(t *testing.T) {
	var f domain.FilterState

	f = f.WithTag(3)
	f = f.WithTag(7)
	assert.Equal(t, []int64{3, 7}, f.TagIDs)

	f = f.WithTag(3)
	assert.Equal(t, []int64{7}, f.TagIDs, "toggling removes a selected tag")

	f = f.WithTag(7)
	assert.True(t, f.Empty())
}

func TestListingQueryValues(t *testing.T) {
	t.Run("OptionalPartsOmitted", func(t *testing.T) {
		q := domain.NewListingQuery()
		v := q.Values()

		assert.Equal(t, "0", v.Get("page"))
		assert.Equal(t, "12", v.Get("page_size"))
		assert.Equal(t, "published,desc", v.Get("sort"))
		assert.NotContains(t, v, "tags")
		assert.NotContains(t, v, "search")
		assert.NotContains(t, v, "minPrice")
		assert.NotContains(t, v, "maxPrice")
	})

	t.Run("FullDescriptor", func(t *testing.T) {
		q := domain.NewListingQuery()
		q.Page = 2
		q.Sort = domain.ParseSortOption("price-low-to-high")
		q.TagIDs = []int64{1, 4}
		q.MinPrice = "10000"
		q.MaxPrice = "50000"
		q.Search = "labial"

		v := q.Values()
		assert.Equal(t, []string{"1", "4"}, v["tags"])
		assert.Equal(t, "10000", v.Get("minPrice"))
		assert.Equal(t, "50000", v.Get("maxPrice"))
		assert.Equal(t, "labial", v.Get("search"))
		assert.Equal(t, "price,asc", v.Get("sort"))
	})
}

func TestPageParams(t *testing.T) {
	assert.Empty(t, domain.PageParams(""))

	v := domain.PageParams("crema")
	assert.Equal(t, "crema", v.Get("search"))
	assert.Len(t, v, 1, "only the search term is written back to the URL")
}

func TestOrdersQueryValues(t *testing.T) {
	q := domain.OrdersQuery{
		Page:       1,
		Status:     domain.OrderShipping,
		DateAfter:  "2025-01-01",
		DateBefore: "2025-02-01",
	}
	v := q.Values()
	assert.Equal(t, "1", v.Get("page"))
	assert.Equal(t, "En Camino", v.Get("statusOrder"))
	assert.Equal(t, "2025-01-01", v.Get("rangeDate_after"))
	assert.Equal(t, "2025-02-01", v.Get("rangeDate_before"))

	v = domain.OrdersQuery{}.Values()
	assert.NotContains(t, v, "statusOrder")
}
