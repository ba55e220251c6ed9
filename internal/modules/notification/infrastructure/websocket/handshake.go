package websocket

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wayfarerhq/wayfarer-backend/internal/modules/auth/infrastructure/jwt"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Cross-origin browser clients are expected; the bearer token is
		// the access control, not the Origin header.
		return true
	},
}

// ServeWS upgrades the request and performs the authentication handshake
// out-of-band from the regular request pipeline. The credential is taken from
// the Authorization header or the token query parameter, first non-empty
// source wins. On any failure the client receives a single error event naming
// the failure and the connection is closed: a connection is either fully
// authenticated and registered, or never registered.
//
// On success the current unread count is pushed immediately so the client
// learns its baseline state without polling.
func ServeWS(hub *Hub, service NotificationReader, jwtSecret string, w http.ResponseWriter, r *http.Request) {
	tokenStr := bearerToken(r)
	if tokenStr == "" {
		tokenStr = r.URL.Query().Get("token")
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		log.Printf("[WebSocket] Upgrade failed: %v", err)
		return
	}

	if tokenStr == "" {
		rejectHandshake(conn, "missing credentials")
		return
	}

	claims, err := jwt.ValidateToken(tokenStr, jwtSecret)
	if err != nil {
		rejectHandshake(conn, "invalid or expired token")
		return
	}

	client := newClient(hub, conn, service, claims.UserID)
	hub.Register(claims.UserID, client)

	go client.writePump()
	go client.readPump()

	if count, countErr := service.UnreadCount(r.Context(), claims.UserID); countErr == nil {
		client.reply(EventUnreadCount, UnreadCountPayload{Count: count})
	} else {
		log.Printf("[WebSocket] Failed to read baseline unread count (user: %s): %v", claims.UserID, countErr)
	}
}

// rejectHandshake sends a single error event and forcibly closes the
// connection. The client is never registered.
func rejectHandshake(conn *websocket.Conn, reason string) {
	frame, err := marshalEnvelope(EventError, ErrorPayload{Message: reason})
	if err == nil {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = conn.WriteMessage(websocket.TextMessage, frame)
	}
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason))
	_ = conn.Close()
	log.Printf("[WebSocket] Handshake rejected: %s", reason)
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}
