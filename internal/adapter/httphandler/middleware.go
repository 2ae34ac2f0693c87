package httphandler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

func AllowJSON(next http.Handler) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength == 0 {
			next.ServeHTTP(w, r)
			return
		}

		if r.Header.Get("Content-Type") != "application/json" {
			http.Error(w, "invalid media type", http.StatusUnsupportedMediaType)
			return
		}

		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(hf)
}

const clientIDHeader = "X-Client-ID"

type clientIDKey struct{}

// WithClientID reads the client id header, issuing a fresh uuid when
// the caller has none yet. The id is echoed back so the caller can
// persist it.
func WithClientID(next http.Handler) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		clientID := r.Header.Get(clientIDHeader)
		if clientID == "" {
			clientID = uuid.NewString()
		}

		w.Header().Set(clientIDHeader, clientID)
		ctx := context.WithValue(r.Context(), clientIDKey{}, clientID)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
	return http.HandlerFunc(hf)
}

func clientID(r *http.Request) string {
	id, _ := r.Context().Value(clientIDKey{}).(string)
	return id
}
