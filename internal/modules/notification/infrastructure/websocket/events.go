package websocket

import "encoding/json"

// Outbound push events.
const (
	EventUnreadCount          = "unreadCount"
	EventNewFollow            = "newFollow"
	EventNewInteraction       = "newInteraction"
	EventAllNotifications     = "allNotifications"
	EventUnreadNotifications  = "unreadNotifications"
	EventMarkAsReadSuccess    = "markAsReadSuccess"
	EventMarkAllAsReadSuccess = "markAllAsReadSuccess"
	EventError                = "error"
)

// Inbound request events, accepted only on authenticated connections.
const (
	EventFetchAllNotifications    = "fetchAllNotifications"
	EventFetchUnreadNotifications = "fetchUnreadNotifications"
	EventMarkAsRead               = "markAsRead"
	EventMarkAllAsRead            = "markAllAsRead"
)

// Envelope is the wire frame for every message in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// UnreadCountPayload carries the unread badge value.
type UnreadCountPayload struct {
	Count int `json:"count"`
}

// ErrorPayload carries a best-effort error description.
type ErrorPayload struct {
	Message string `json:"message"`
}

// MarkAsReadPayload is the inbound payload for markAsRead and the outbound
// payload for markAsReadSuccess.
type MarkAsReadPayload struct {
	NotificationID string `json:"notificationId"`
}

func marshalEnvelope(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}
