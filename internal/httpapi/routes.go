package httpapi

import (
	"net/http"

	"github.com/DoyleJ11/lobby-sync/internal/authority"
	"github.com/DoyleJ11/lobby-sync/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// SetupRoutes builds the authority router. events may be nil when no audit store is configured.
func SetupRoutes(a *authority.Authority, events EventSource, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	// Public routes
	r.Get("/healthz", Healthz)
	r.Get("/rooms", ListRooms(a))
	if events != nil {
		r.Get("/rooms/{id}/events", RoomEvents(events))
	}
	r.Get("/ws", ws.Handler(a, log.Named("ws")))
	return r
}
