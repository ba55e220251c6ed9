package http

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/wayfarerhq/wayfarer-backend/internal/gateway/middleware"
	"github.com/wayfarerhq/wayfarer-backend/internal/modules/notification/application"
	"github.com/wayfarerhq/wayfarer-backend/internal/modules/notification/domain"
	"github.com/wayfarerhq/wayfarer-backend/internal/modules/notification/infrastructure/websocket"
	"github.com/wayfarerhq/wayfarer-backend/internal/shared/utils"
)

// NotificationHandler exposes the notification store over REST. It is backed
// by the exact same service as the push channel, so the two views never
// diverge.
type NotificationHandler struct {
	service   *application.NotificationService
	hub       *websocket.Hub
	jwtSecret string
}

func NewNotificationHandler(service *application.NotificationService, hub *websocket.Hub, jwtSecret string) *NotificationHandler {
	return &NotificationHandler{service: service, hub: hub, jwtSecret: jwtSecret}
}

// Subscribe upgrades to WebSocket. Authentication happens inside the
// handshake, not in middleware, so failures can be reported over the socket
// before it is closed.
func (h *NotificationHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	websocket.ServeWS(h.hub, h.service, h.jwtSecret, w, r)
}

func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserID).(uuid.UUID)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	notifications, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to fetch notifications", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{"data": notifications})
}

func (h *NotificationHandler) ListUnread(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserID).(uuid.UUID)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	notifications, err := h.service.ListUnread(r.Context(), userID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to fetch unread notifications", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{"data": notifications})
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserID).(uuid.UUID)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	count, err := h.service.UnreadCount(r.Context(), userID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to get unread count", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	notificationID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid notification id", nil)
		return
	}

	userID, ok := r.Context().Value(middleware.ContextKeyUserID).(uuid.UUID)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	n, err := h.service.MarkAsRead(r.Context(), notificationID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotificationNotFound) {
			utils.WriteError(w, http.StatusNotFound, "notification not found", nil)
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, "failed to mark notification as read", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, n)
}

func (h *NotificationHandler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserID).(uuid.UUID)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	affected, err := h.service.MarkAllAsRead(r.Context(), userID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to mark all notifications as read", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]int64{"count": affected})
}
