package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/wayfarerhq/wayfarer-backend/internal/modules/notification/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = 30 * time.Second
	maxMessageSize = 4096
	sendBufferSize = 64
)

// NotificationReader serves the request events a connected client may send.
// Implemented by the notification application service.
type NotificationReader interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error)
	ListUnread(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, notificationID, userID uuid.UUID) (*domain.Notification, error)
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
}

// Client is a single authenticated WebSocket connection. Frames pushed to the
// send channel are written by a single goroutine, which preserves
// per-connection FIFO ordering.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	service NotificationReader
	userID  uuid.UUID

	send chan []byte

	closed   bool
	closedMu sync.Mutex
}

func newClient(hub *Hub, conn *websocket.Conn, service NotificationReader, userID uuid.UUID) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		service: service,
		userID:  userID,
		send:    make(chan []byte, sendBufferSize),
	}
}

// UserID returns the authenticated user this connection belongs to.
func (c *Client) UserID() uuid.UUID {
	return c.userID
}

// enqueue hands a frame to the write pump without blocking. A full buffer
// drops the frame; the client re-pulls over REST.
func (c *Client) enqueue(frame []byte) bool {
	c.closedMu.Lock()
	defer c.closedMu.Unlock()
	if c.closed {
		return false
	}

	select {
	case c.send <- frame:
		return true
	default:
		log.Printf("[WebSocket] Send buffer full, dropping frame (user: %s)", c.userID)
		return false
	}
}

// Close closes the underlying connection and the send channel. Safe to call
// more than once.
func (c *Client) Close() {
	c.closedMu.Lock()
	defer c.closedMu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
}

// readPump reads inbound request events until the connection drops, then
// unregisters the client. The hub's conditional unregister keeps a stale
// disconnect from evicting a newer connection for the same user.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c.userID, c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WebSocket] Read error (user: %s): %v", c.userID, err)
			}
			return
		}
		c.handleRequest(message)
	}
}

// writePump writes queued frames and keepalive pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleRequest dispatches one inbound request event. Operation failures are
// reported with a best-effort error event; the connection stays open.
func (c *Client) handleRequest(message []byte) {
	var env Envelope
	if err := json.Unmarshal(message, &env); err != nil {
		c.sendError("invalid message format")
		return
	}

	ctx := context.Background()

	switch env.Event {
	case EventFetchAllNotifications:
		notifications, err := c.service.ListForUser(ctx, c.userID)
		if err != nil {
			c.sendError("failed to fetch notifications")
			return
		}
		c.reply(EventAllNotifications, notifications)

	case EventFetchUnreadNotifications:
		notifications, err := c.service.ListUnread(ctx, c.userID)
		if err != nil {
			c.sendError("failed to fetch unread notifications")
			return
		}
		c.reply(EventUnreadNotifications, notifications)

	case EventMarkAsRead:
		var payload MarkAsReadPayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			c.sendError("notificationId is required for markAsRead")
			return
		}
		notificationID, err := uuid.Parse(payload.NotificationID)
		if err != nil {
			c.sendError("invalid notificationId")
			return
		}
		if _, err := c.service.MarkAsRead(ctx, notificationID, c.userID); err != nil {
			c.sendError("failed to mark notification as read")
			return
		}
		c.reply(EventMarkAsReadSuccess, MarkAsReadPayload{NotificationID: payload.NotificationID})

	case EventMarkAllAsRead:
		if _, err := c.service.MarkAllAsRead(ctx, c.userID); err != nil {
			c.sendError("failed to mark all notifications as read")
			return
		}
		c.reply(EventMarkAllAsReadSuccess, struct{}{})

	default:
		c.sendError("unknown event: " + env.Event)
	}
}

func (c *Client) reply(event string, payload any) {
	frame, err := marshalEnvelope(event, payload)
	if err != nil {
		log.Printf("[WebSocket] Failed to marshal %s reply: %v", event, err)
		return
	}
	c.enqueue(frame)
}

func (c *Client) sendError(message string) {
	c.reply(EventError, ErrorPayload{Message: message})
}
