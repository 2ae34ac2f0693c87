// Package httphandler is the inbound HTTP surface of the storefront:
// shop browsing, session, wishlist, orders and trending.
package httphandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// handlerTimeout must outlast the catalog client budget (timeout times
// retry attempts), otherwise retried upstream calls are cut short.
const handlerTimeout = 35 * time.Second

const timeoutBody = `{"error":"request timed out"}`

type HTTPServer struct {
	httpServer *http.Server
}

func NewHTTPServer(addr string, handler http.Handler) HTTPServer {
	handler = http.TimeoutHandler(handler, handlerTimeout, timeoutBody)
	s := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return HTTPServer{s}
}

func (s HTTPServer) Run(stopFn context.CancelFunc) {
	const op = "HTTPServer.Run"
	log := slog.With("op", op)

	defer stopFn()
	err := s.httpServer.ListenAndServe()
	if err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return
		}
		log.Error("http server stopped unexpectedly", "err", err)
	}
}

func (s HTTPServer) Close(ctx context.Context) {
	const op = "HTTPServer.Close"
	log := slog.With("op", op)

	log.Info("closing http server...")

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		log.Error("failed to shutdown gracefully", "err", err)
	}
	log.Info("http server is closed")
}
