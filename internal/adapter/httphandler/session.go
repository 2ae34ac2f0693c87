package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/kiogloss/storefront/internal/core/domain"
	"github.com/kiogloss/storefront/internal/core/port"
)

type SessionHandler struct {
	sessions port.SessionManager
}

func RegisterSession(mux *http.ServeMux, sessions port.SessionManager) {
	h := SessionHandler{sessions}
	mux.HandleFunc("POST /v1/session", h.PostSession)
	mux.HandleFunc("DELETE /v1/session", h.DeleteSession)
	mux.HandleFunc("GET /v1/session", h.GetSession)
}

func (h SessionHandler) PostSession(w http.ResponseWriter, r *http.Request) {
	const op = "SessionHandler.PostSession"
	log := slog.With("op", op)

	var req SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}
	if req.AccessToken == "" {
		http.Error(w, "accessToken is required", http.StatusBadRequest)
		return
	}

	err := h.sessions.Login(r.Context(), clientID(r), domain.Tokens{
		Access:  req.AccessToken,
		Refresh: req.RefreshToken,
	})
	if err != nil {
		writeUnavailable(w, op, err)
		return
	}
	writeJSON(w, op, SessionState{Authenticated: true})
}

func (h SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	const op = "SessionHandler.DeleteSession"

	if err := h.sessions.Logout(r.Context(), clientID(r)); err != nil {
		writeUnavailable(w, op, err)
		return
	}
	writeJSON(w, op, SessionState{Authenticated: false})
}

func (h SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	const op = "SessionHandler.GetSession"

	authenticated, err := h.sessions.Authenticated(r.Context(), clientID(r))
	if err != nil {
		writeUnavailable(w, op, err)
		return
	}
	writeJSON(w, op, SessionState{Authenticated: authenticated})
}
