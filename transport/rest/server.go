package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

const shutdownTimeout = 5 * time.Second

// NewRouter wires the page, the JSON API and the websocket endpoint.
func NewRouter(handlers *Handlers, socket http.Handler) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/", handlers.Index).Methods(http.MethodGet)
	router.HandleFunc("/ping", handlers.Ping).Methods(http.MethodGet)
	router.Handle("/ws", socket).Methods(http.MethodGet)

	router.HandleFunc("/api/state", handlers.State).Methods(http.MethodGet)
	router.HandleFunc("/api/dice-count", handlers.SetDiceCount).Methods(http.MethodPost)
	router.HandleFunc("/api/roll/start", handlers.StartRoll).Methods(http.MethodPost)
	router.HandleFunc("/api/roll/stop", handlers.StopRoll).Methods(http.MethodPost)
	router.HandleFunc("/api/history/reset", handlers.ResetHistory).Methods(http.MethodPost)

	return router
}

// Start serves handler on port until ctx is done, then shuts the server down gracefully.
func Start(ctx context.Context, logger *slog.Logger, port string, handler http.Handler) error {
	log := logger.With("component", "http")

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server", "port", port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped: %w", err)
	}

	return nil
}
