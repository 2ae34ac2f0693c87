package httphandler

import (
	"net/http"
	"strconv"

	"github.com/kiogloss/storefront/internal/core/port"
)

const defaultTrendingLimit = 10

type TrendingHandler struct {
	trending port.TrendingProvider
}

func RegisterTrending(mux *http.ServeMux, trending port.TrendingProvider) {
	h := TrendingHandler{trending}
	mux.HandleFunc("GET /v1/trending", h.GetTrending)
}

func (h TrendingHandler) GetTrending(w http.ResponseWriter, r *http.Request) {
	const op = "TrendingHandler.GetTrending"

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = defaultTrendingLimit
	}

	list, err := h.trending.TopProducts(r.Context(), limit)
	if err != nil {
		writeUnavailable(w, op, err)
		return
	}
	writeJSON(w, op, trendingToResponse(list))
}
