package domain

import (
	"net/url"
	"slices"
	"strconv"
)

const DefaultPageSize = 12

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

type Sort struct {
	Field     string
	Direction SortDirection
}

// DefaultSort is used for empty or unrecognized sort selections.
var DefaultSort = Sort{Field: "published", Direction: SortDesc}

func (s Sort) String() string {
	return s.Field + "," + string(s.Direction)
}

// ParseSortOption maps the closed set of storefront sort labels to a
// sort key. Anything else falls back to published descending.
func ParseSortOption(label string) Sort {
	switch label {
	case "price-low-to-high":
		return Sort{Field: "price", Direction: SortAsc}
	case "price-high-to-low":
		return Sort{Field: "price", Direction: SortDesc}
	case "latest":
		return DefaultSort
	default:
		return DefaultSort
	}
}

// FilterState is the sidebar selection: a unique unordered set of tag
// ids and optional price bounds kept as entered.
type FilterState struct {
	TagIDs   []int64
	MinPrice string
	MaxPrice string
}

func (f FilterState) Empty() bool {
	return len(f.TagIDs) == 0 && f.MinPrice == "" && f.MaxPrice == ""
}

// WithTag toggles tag membership, preserving set semantics.
func (f FilterState) WithTag(tagID int64) FilterState {
	if slices.Contains(f.TagIDs, tagID) {
		f.TagIDs = slices.DeleteFunc(slices.Clone(f.TagIDs), func(id int64) bool {
			return id == tagID
		})
		return f
	}
	f.TagIDs = append(slices.Clone(f.TagIDs), tagID)
	return f
}

// ListingQuery is the single canonical request descriptor sent to the
// product listing endpoint.
type ListingQuery struct {
	Page     int
	PageSize int
	Sort     Sort
	TagIDs   []int64
	MinPrice string
	MaxPrice string
	Search   string
}

func NewListingQuery() ListingQuery {
	return ListingQuery{PageSize: DefaultPageSize, Sort: DefaultSort}
}

// Values serializes the descriptor for the upstream listing endpoint.
// Optional parts are omitted when unset.
func (q ListingQuery) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("page_size", strconv.Itoa(q.PageSize))
	v.Set("sort", q.Sort.String())
	for _, id := range q.TagIDs {
		v.Add("tags", strconv.FormatInt(id, 10))
	}
	if q.MinPrice != "" {
		v.Set("minPrice", q.MinPrice)
	}
	if q.MaxPrice != "" {
		v.Set("maxPrice", q.MaxPrice)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	return v
}

// PageParams is the canonical browser-visible URL state. Tag and price
// selections are deliberately not round-tripped through the URL; only
// the search term survives a manual filter change.
func PageParams(search string) url.Values {
	v := url.Values{}
	if search != "" {
		v.Set("search", search)
	}
	return v
}

// OrdersQuery filters the order history listing.
type OrdersQuery struct {
	Page       int
	Status     OrderStatus
	DateAfter  string
	DateBefore string
}

func (q OrdersQuery) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	if q.Status != "" {
		v.Set("statusOrder", q.Status.DisplayName())
	}
	if q.DateAfter != "" {
		v.Set("rangeDate_after", q.DateAfter)
	}
	if q.DateBefore != "" {
		v.Set("rangeDate_before", q.DateBefore)
	}
	return v
}
