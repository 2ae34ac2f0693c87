package domain_test

import (
	"strconv"
	"testing"

	"github.com/kiogloss/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePrice(t *testing.T) {
	t.Run("Regular", func(t *testing.T) {
		testCases := []struct {
			in   string
			want float64
		}{
			{"1000", 1000},
			{"1000.50", 1000.50},
			{"1000,50", 1000.50},
			{"1,000.50", 1000.50},
			{"12,345,678.90", 12345678.90},
			{"COP 25000", 25000},
			{"$ 1.234,00", 1.234},
		}
		for _, tc := range testCases {
			t.Run(tc.in, func(t *testing.T) {
				assert.InDelta(t, tc.want, domain.NormalizePrice(tc.in), 1e-9)
			})
		}
	})

	t.Run("MalformedYieldsZero", func(t *testing.T) {
		for _, in := range []string{"", "abc", "--", "...", ",,", "-.", "precio"} {
			assert.Zero(t, domain.NormalizePrice(in), "input %q", in)
		}
	})

	t.Run("NegativeClampsToZero", func(t *testing.T) {
		assert.Zero(t, domain.NormalizePrice("-5000"))
	})

	t.Run("Idempotent", func(t *testing.T) {
		for _, in := range []string{"1,000.50", "8000", "2.500,75", "garbage", ""} {
			once := domain.NormalizePrice(in)
			again := domain.NormalizePrice(strconv.FormatFloat(once, 'f', -1, 64))
			assert.InDelta(t, once, again, 1e-9, "input %q", in)
		}
	})
}

func TestMatchCategoryTag(t *testing.T) {
	tags := []domain.Tag{
		{ID: 1, Name: "Maquillaje"},
		{ID: 2, Name: "Cuidado de la piel"},
		{ID: 3, Name: "Maquillaje de ojos"},
	}

	t.Run("ExactCaseInsensitive", func(t *testing.T) {
		tag, ok := domain.MatchCategoryTag(tags, "MAQUILLAJE")
		require.True(t, ok)
		assert.Equal(t, int64(1), tag.ID)
	})

	t.Run("AliasResolvesToTagName", func(t *testing.T) {
		withAliased := append(tags, domain.Tag{ID: 4, Name: "Cuidado Facial"})
		tag, ok := domain.MatchCategoryTag(withAliased, "facial")
		require.True(t, ok)
		assert.Equal(t, int64(4), tag.ID)
	})

	t.Run("NoFuzzyMatch", func(t *testing.T) {
		_, ok := domain.MatchCategoryTag(tags, "todo el maquillaje")
		assert.False(t, ok)
	})

	t.Run("NoMatch", func(t *testing.T) {
		_, ok := domain.MatchCategoryTag(tags, "zapatos")
		assert.False(t, ok)
	})

	t.Run("EmptyParam", func(t *testing.T) {
		_, ok := domain.MatchCategoryTag(tags, "  ")
		assert.False(t, ok)
	})
}

func TestProductDisplayPrice(t *testing.T) {
	p := domain.Product{Price: "30000", DiscountPrice: "25000"}
	assert.Equal(t, "25000", p.DisplayPrice())
	assert.InDelta(t, 25000, p.UnitPrice(), 1e-9)

	p.DiscountPrice = ""
	assert.Equal(t, "30000", p.DisplayPrice())
}
