package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MahdiMurshed/bookshare/internal/httputil"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The REST API is already open to any origin; the socket carries only
	// the authenticated user's own events.
	CheckOrigin: func(*http.Request) bool { return true },
}

// handleWS upgrades the connection and streams the user's realtime events.
// The token comes from the Authorization header or, for browsers, the
// `token` query parameter.
func (a *API) handleWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	if token == "" {
		httputil.Unauthorized(w, "token required")
		return
	}
	claims, err := a.jwtManager.Validate(token)
	if err != nil {
		httputil.Unauthorized(w, "invalid token")
		return
	}
	userID := claims.UserID

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("WebSocket upgrade failed", "user_id", userID, "error", err)
		return
	}

	sub := a.hub.Subscribe(userID)
	slog.Info("WebSocket connected", "user_id", userID)

	// Reader: the client sends nothing meaningful; this loop just detects
	// disconnects and keeps pong handling alive.
	go func() {
		defer sub.Close()
		conn.SetReadLimit(512)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Writer: pushes hub events and periodic pings until the subscription
	// closes or a write fails.
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()
	defer conn.Close()

	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(wsWriteTimeout))
				slog.Info("WebSocket closed", "user_id", userID)
				return
			}
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(ev); err != nil {
				slog.Warn("WebSocket write failed", "user_id", userID, "error", err)
				sub.Close()
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				sub.Close()
				return
			}
		}
	}
}
