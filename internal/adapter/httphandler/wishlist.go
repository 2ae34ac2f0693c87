package httphandler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/kiogloss/storefront/internal/core/domain"
)

// WishlistManager is the wishlist mirror contract served by the
// wishlist service.
type WishlistManager interface {
	Add(ctx context.Context, clientID string, p domain.Product) (bool, error)
	Load(ctx context.Context, clientID string) ([]domain.WishlistEntry, error)
	Remove(ctx context.Context, clientID string, productID int64, favoriteID *int64) error
}

type WishlistHandler struct {
	wishlist WishlistManager
}

func RegisterWishlist(mux *http.ServeMux, wishlist WishlistManager) {
	h := WishlistHandler{wishlist}
	mux.HandleFunc("GET /v1/wishlist", h.GetWishlist)
	mux.HandleFunc("POST /v1/wishlist", h.PostWishlist)
	mux.HandleFunc("DELETE /v1/wishlist/{productID}", h.DeleteWishlist)
}

func (h WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	const op = "WishlistHandler.GetWishlist"

	list, err := h.wishlist.Load(r.Context(), clientID(r))
	if err != nil {
		writeUnavailable(w, op, err)
		return
	}
	writeJSON(w, op, wishlistToResponse(list))
}

func (h WishlistHandler) PostWishlist(w http.ResponseWriter, r *http.Request) {
	const op = "WishlistHandler.PostWishlist"
	log := slog.With("op", op)

	var req WishlistAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}
	if req.Product.ID == 0 {
		http.Error(w, "product id is required", http.StatusBadRequest)
		return
	}

	favorited, err := h.wishlist.Add(r.Context(), clientID(r), domain.Product{
		ID:            req.Product.ID,
		Title:         req.Product.Title,
		Slug:          req.Product.Slug,
		Price:         req.Product.Price,
		DiscountPrice: req.Product.DiscountPrice,
		Images:        req.Product.Images,
		Stock:         req.Product.Stock,
	})
	if err != nil {
		writeUnavailable(w, op, err)
		return
	}
	writeJSON(w, op, WishlistAddResponse{Favorited: favorited})
}

// DeleteWishlist removes a product from the wishlist. The upstream
// favorite-record id, when the caller knows it, travels in the
// favoriteId query parameter.
func (h WishlistHandler) DeleteWishlist(w http.ResponseWriter, r *http.Request) {
	const op = "WishlistHandler.DeleteWishlist"

	productID, err := strconv.ParseInt(r.PathValue("productID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	var favoriteID *int64
	if raw := r.URL.Query().Get("favoriteId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "invalid favorite id", http.StatusBadRequest)
			return
		}
		favoriteID = &id
	}

	err = h.wishlist.Remove(r.Context(), clientID(r), productID, favoriteID)
	if err != nil {
		writeUnavailable(w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
