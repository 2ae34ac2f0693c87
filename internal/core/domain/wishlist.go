package domain

// WishlistEntry is the cached shape of a favorited product. FavoriteID
// is the backend-assigned id of the favorites row, distinct from the
// product id; it is nil for entries known only to the local shadow.
type WishlistEntry struct {
	ProductID  int64
	Title      string
	Price      float64
	Image      string
	Slug       string
	FavoriteID *int64
}

// AppendUnique adds an entry unless one with the same product id is
// already present.
func AppendUnique(list []WishlistEntry, e WishlistEntry) []WishlistEntry {
	for _, it := range list {
		if it.ProductID == e.ProductID {
			return list
		}
	}
	return append(list, e)
}

// RemoveByProduct filters out every entry with the given product id.
func RemoveByProduct(list []WishlistEntry, productID int64) []WishlistEntry {
	filtered := list[:0:0]
	for _, it := range list {
		if it.ProductID != productID {
			filtered = append(filtered, it)
		}
	}
	return filtered
}
