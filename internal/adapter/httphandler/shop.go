package httphandler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/kiogloss/storefront/internal/core/domain"
	"github.com/kiogloss/storefront/internal/core/service"
)

// BrowseProvider is the shop listing contract served by the browse
// service.
type BrowseProvider interface {
	Open(ctx context.Context, clientID string, params url.Values) (service.BrowseView, error)
	SetFilters(ctx context.Context, clientID string, f domain.FilterState) (service.BrowseView, error)
	SetSearch(ctx context.Context, clientID, search string) (service.BrowseView, error)
	SetSort(ctx context.Context, clientID, label string) (service.BrowseView, error)
	SetPage(ctx context.Context, clientID string, page int) (service.BrowseView, error)
	ClearFilters(ctx context.Context, clientID string) (service.BrowseView, error)
	Tags(ctx context.Context) ([]domain.Tag, error)
}

type ShopHandler struct {
	browse BrowseProvider
}

func RegisterShop(mux *http.ServeMux, browse BrowseProvider) {
	h := ShopHandler{browse}
	mux.HandleFunc("GET /v1/shop", h.GetShop)
	mux.HandleFunc("POST /v1/shop/filters", h.PostFilters)
	mux.HandleFunc("POST /v1/shop/sort", h.PostSort)
	mux.HandleFunc("POST /v1/shop/search", h.PostSearch)
	mux.HandleFunc("POST /v1/shop/page", h.PostPage)
	mux.HandleFunc("DELETE /v1/shop/filters", h.DeleteFilters)
	mux.HandleFunc("GET /v1/tags", h.GetTags)
}

func (h ShopHandler) GetShop(w http.ResponseWriter, r *http.Request) {
	const op = "ShopHandler.GetShop"

	view, err := h.browse.Open(r.Context(), clientID(r), r.URL.Query())
	if err != nil {
		writeUnavailable(w, op, err)
		return
	}
	writeJSON(w, op, viewToResponse(view))
}

func (h ShopHandler) PostFilters(w http.ResponseWriter, r *http.Request) {
	const op = "ShopHandler.PostFilters"
	log := slog.With("op", op)

	var req Filters
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	view, err := h.browse.SetFilters(r.Context(), clientID(r), domain.FilterState{
		TagIDs:   req.Tags,
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
	})
	if err != nil {
		writeUnavailable(w, op, err)
		return
	}
	writeJSON(w, op, viewToResponse(view))
}

func (h ShopHandler) PostSort(w http.ResponseWriter, r *http.Request) {
	const op = "ShopHandler.PostSort"
	log := slog.With("op", op)

	var req struct {
		Sort string `json:"sort"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	view, err := h.browse.SetSort(r.Context(), clientID(r), req.Sort)
	if err != nil {
		writeUnavailable(w, op, err)
		return
	}
	writeJSON(w, op, viewToResponse(view))
}

func (h ShopHandler) PostSearch(w http.ResponseWriter, r *http.Request) {
	const op = "ShopHandler.PostSearch"
	log := slog.With("op", op)

	var req struct {
		Search string `json:"search"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	view, err := h.browse.SetSearch(r.Context(), clientID(r), req.Search)
	if err != nil {
		writeUnavailable(w, op, err)
		return
	}
	writeJSON(w, op, viewToResponse(view))
}

func (h ShopHandler) PostPage(w http.ResponseWriter, r *http.Request) {
	const op = "ShopHandler.PostPage"
	log := slog.With("op", op)

	var req struct {
		Page int `json:"page"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	view, err := h.browse.SetPage(r.Context(), clientID(r), req.Page)
	if err != nil {
		writeUnavailable(w, op, err)
		return
	}
	writeJSON(w, op, viewToResponse(view))
}

func (h ShopHandler) DeleteFilters(w http.ResponseWriter, r *http.Request) {
	const op = "ShopHandler.DeleteFilters"

	view, err := h.browse.ClearFilters(r.Context(), clientID(r))
	if err != nil {
		writeUnavailable(w, op, err)
		return
	}
	writeJSON(w, op, viewToResponse(view))
}

func (h ShopHandler) GetTags(w http.ResponseWriter, r *http.Request) {
	const op = "ShopHandler.GetTags"

	tags, err := h.browse.Tags(r.Context())
	if err != nil {
		writeUnavailable(w, op, err)
		return
	}
	writeJSON(w, op, tagsToResponse(tags))
}

func writeJSON(w http.ResponseWriter, op string, v any) {
	log := slog.With("op", op)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

func writeUnavailable(w http.ResponseWriter, op string, err error) {
	slog.With("op", op).Error("request failed", "err", err)
	http.Error(w, "service unavailable", http.StatusServiceUnavailable)
}
