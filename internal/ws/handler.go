package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/DoyleJ11/lobby-sync/internal/authority"
	"github.com/DoyleJ11/lobby-sync/internal/types"
	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	writeTimeout = 3 * time.Second
	idleTimeout  = 5 * time.Minute
	outboxSize   = 64
	maxUserLen   = 64
)

// Handler upgrades a request to a websocket session with the authority. The user name comes
// from the "user" query parameter.
func Handler(a *authority.Authority, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := strings.TrimSpace(r.URL.Query().Get("user"))
		if user == "" {
			http.Error(w, "missing user", http.StatusBadRequest)
			return
		}
		if len(user) > maxUserLen {
			http.Error(w, "user name too long", http.StatusBadRequest)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			log.Warn("websocket accept", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan types.ServerMessage, outboxSize)
		clientID := uuid.NewString()
		log := log.With(zap.String("client", clientID), zap.String("user", user))

		if !post(a, authority.Connect{ClientID: clientID, User: user, Outbox: out}) {
			conn.Close(websocket.StatusGoingAway, "shutting down")
			return
		}
		defer post(a, authority.Disconnect{ClientID: clientID})

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for m := range out {
				payload, err := json.Marshal(m)
				if err != nil {
					log.Error("encode notification", zap.String("type", m.Type), zap.Error(err))
					continue
				}
				ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
				err = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
				if err != nil {
					log.Debug("write", zap.Error(err))
				}
			}
			if writeCtx.Err() == nil {
				// authority dropped us
				conn.Close(websocket.StatusPolicyViolation, "too slow")
			}
		}()

		// Reader loop
		for {
			ctx, cancel := context.WithTimeout(r.Context(), idleTimeout)
			_, data, err := conn.Read(ctx)
			cancel()
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					log.Debug("client closed")
				default:
					log.Info("read", zap.Error(err))
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				log.Warn("bad json from client", zap.Error(err))
				continue
			}
			req, err := types.DecodeRequest(cm)
			if err != nil {
				log.Warn("dropping request", zap.String("type", cm.Type), zap.Error(err))
				continue
			}

			if !post(a, authority.FromClient{ClientID: clientID, Req: req}) {
				return
			}
		}
	}
}

// post hands m to the authority unless it has already shut down.
func post(a *authority.Authority, m authority.Msg) bool {
	select {
	case a.Inbox() <- m:
		return true
	case <-a.Done():
		return false
	}
}
