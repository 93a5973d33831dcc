package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/DoyleJ11/lobby-sync/internal/authority"
	"github.com/DoyleJ11/lobby-sync/internal/room"
	"github.com/DoyleJ11/lobby-sync/internal/store"
	"github.com/go-chi/chi/v5"
)

const stateTimeout = 2 * time.Second

// EventSource is the read side of the audit store.
type EventSource interface {
	Recent(ctx context.Context, roomID, limit int) ([]store.RoomEvent, error)
}

// ListRooms returns every room the authority holds, hidden ones included.
func ListRooms(a *authority.Authority) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-a.Done():
			http.Error(w, "authority stopped", http.StatusServiceUnavailable)
			return
		default:
		}
		ctx, cancel := context.WithTimeout(r.Context(), stateTimeout)
		defer cancel()

		reply := make(chan authority.View, 1)
		select {
		case a.Inbox() <- authority.GetState{Reply: reply}:
		case <-a.Done():
			http.Error(w, "authority stopped", http.StatusServiceUnavailable)
			return
		case <-ctx.Done():
			http.Error(w, "authority busy", http.StatusServiceUnavailable)
			return
		}

		var view authority.View
		select {
		case view = <-reply:
		case <-ctx.Done():
			http.Error(w, "authority busy", http.StatusServiceUnavailable)
			return
		}

		rooms := view.Rooms
		if rooms == nil {
			rooms = []room.Room{}
		}
		writeJSON(w, http.StatusOK, struct {
			Rooms   []room.Room `json:"rooms"`
			Clients int         `json:"clients"`
		}{Rooms: rooms, Clients: view.NumClients})
	}
}

// RoomEvents serves the audit trail of one room. ?limit= caps the result.
func RoomEvents(src EventSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "bad room id", http.StatusBadRequest)
			return
		}
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			if limit, err = strconv.Atoi(raw); err != nil || limit < 0 {
				http.Error(w, "bad limit", http.StatusBadRequest)
				return
			}
		}

		events, err := src.Recent(r.Context(), id, limit)
		if err != nil {
			http.Error(w, "failed to load events", http.StatusInternalServerError)
			return
		}
		if events == nil {
			events = []store.RoomEvent{}
		}
		writeJSON(w, http.StatusOK, struct {
			Events []store.RoomEvent `json:"events"`
		}{Events: events})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
