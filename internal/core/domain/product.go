package domain

import (
	"strconv"
	"strings"
)

type (
	Product struct {
		ID            int64
		Title         string
		Slug          string
		Price         string
		DiscountPrice string
		Images        []string
		Stock         int
		TagIDs        []int64
	}

	Tag struct {
		ID           int64
		Name         string
		Slug         string
		ProductCount int
	}

	ProductPage struct {
		Products   []Product
		TotalPages int
	}
)

// DisplayPrice returns the discount price when one is set,
// otherwise the regular price.
func (p Product) DisplayPrice() string {
	if p.DiscountPrice != "" {
		return p.DiscountPrice
	}
	return p.Price
}

// UnitPrice is the normalized numeric value of the display price.
func (p Product) UnitPrice() float64 {
	return NormalizePrice(p.DisplayPrice())
}

// FirstImage returns the leading image reference or an empty string.
func (p Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// NormalizePrice parses a loosely formatted price string into a
// non-negative number. The upstream catalog emits prices both as plain
// numbers and as locale-formatted strings with mixed thousands and
// decimal separators. When the string carries both comma and dot, the
// comma is a thousands separator; a lone comma is a decimal separator.
// Malformed or negative input degrades to zero.
func NormalizePrice(s string) float64 {
	cleaned := stripNonNumeric(s)
	if cleaned == "" {
		return 0
	}

	if strings.Contains(cleaned, ",") && strings.Contains(cleaned, ".") {
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	} else {
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func stripNonNumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == ',', r == '.', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// categoryAliases maps landing-page category slugs to the tag names
// the catalog publishes them under.
var categoryAliases = map[string]string{
	"facial":          "cuidado facial",
	"capilar":         "cuidado capilar",
	"tonicos":         "tónicos",
	"desmaquillantes": "desmaquillantes",
	"maquillaje":      "maquillaje",
	"brochas":         "brochas",
}

// MatchCategoryTag resolves a category slug from a URL parameter to a
// tag. The slug must equal a tag name (case-insensitive) or appear in
// the alias table; there is no fuzzy matching.
func MatchCategoryTag(tags []Tag, category string) (Tag, bool) {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		return Tag{}, false
	}

	wanted := category
	if alias, ok := categoryAliases[category]; ok {
		wanted = alias
	}

	for _, t := range tags {
		name := strings.ToLower(t.Name)
		if name == "" {
			continue
		}
		if name == category || name == wanted {
			return t, true
		}
	}
	return Tag{}, false
}
