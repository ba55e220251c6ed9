package application

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/wayfarerhq/wayfarer-backend/internal/modules/notification/domain"
	"github.com/wayfarerhq/wayfarer-backend/internal/modules/notification/infrastructure/websocket"
	userDomain "github.com/wayfarerhq/wayfarer-backend/internal/modules/user/domain"
)

// Pusher delivers an event to a user's live connection, if one exists.
// Implemented by the WebSocket hub; the service never sees the transport.
type Pusher interface {
	PushToUser(userID uuid.UUID, event string, payload any) bool
}

// PostResolver resolves the owner of a post for comment/like notifications.
type PostResolver interface {
	PostOwner(ctx context.Context, postID uuid.UUID) (uuid.UUID, error)
}

// CountCache is a read-through cache for unread counts. Cache failures must
// degrade to the database, never surface.
type CountCache interface {
	Get(ctx context.Context, userID uuid.UUID) (int, bool)
	Set(ctx context.Context, userID uuid.UUID, count int)
	Invalidate(ctx context.Context, userID uuid.UUID)
}

// SkipReason names why a notification was intentionally not created.
type SkipReason string

const (
	SkipSelfNotification  SkipReason = "self_notification"
	SkipActorNotFound     SkipReason = "actor_not_found"
	SkipRecipientNotFound SkipReason = "recipient_not_found"
)

// Outcome is the result of a notification creation attempt: either a
// persisted notification or an explicit skip reason. Skips are not errors.
type Outcome struct {
	Notification *domain.Notification
	Skipped      SkipReason
}

func (o Outcome) IsSkipped() bool {
	return o.Skipped != ""
}

func skipped(reason SkipReason) Outcome {
	return Outcome{Skipped: reason}
}

// CreateParams describes a notification to persist and fan out.
type CreateParams struct {
	Type          domain.NotificationType
	Title         string
	Message       string
	RecipientID   uuid.UUID
	ActorID       *uuid.UUID
	RelatedPostID *uuid.UUID
}

type NotificationService struct {
	repo   domain.NotificationRepository
	users  userDomain.UserFinder
	posts  PostResolver
	pusher Pusher
	cache  CountCache
}

func NewNotificationService(
	repo domain.NotificationRepository,
	users userDomain.UserFinder,
	posts PostResolver,
	pusher Pusher,
	cache CountCache,
) *NotificationService {
	return &NotificationService{
		repo:   repo,
		users:  users,
		posts:  posts,
		pusher: pusher,
		cache:  cache,
	}
}

// Create persists a notification and fans it out to the recipient's live
// connection together with a fresh unread count. Self-notifications are
// suppressed: no row is written and the outcome reports the skip.
func (s *NotificationService) Create(ctx context.Context, params CreateParams) (Outcome, error) {
	if params.ActorID != nil && *params.ActorID == params.RecipientID {
		return skipped(SkipSelfNotification), nil
	}

	n := &domain.Notification{
		Type:          params.Type,
		Title:         params.Title,
		Message:       params.Message,
		RecipientID:   params.RecipientID,
		ActorID:       params.ActorID,
		RelatedPostID: params.RelatedPostID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return Outcome{}, fmt.Errorf("failed to create notification: %w", err)
	}

	event := websocket.EventNewInteraction
	if n.Type == domain.NotificationTypeNewFollow {
		event = websocket.EventNewFollow
	}
	s.pusher.PushToUser(n.RecipientID, event, n)
	s.PushUnreadCount(ctx, n.RecipientID)

	return Outcome{Notification: n}, nil
}

// NotifyNewFollow composes and creates the notification for a follow action.
// An unresolvable actor yields a skip outcome, not an error: this runs inline
// on the hot path of the follow action and must not abort it.
func (s *NotificationService) NotifyNewFollow(ctx context.Context, actorID, recipientID uuid.UUID) (Outcome, error) {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return skipped(SkipActorNotFound), nil
	}

	return s.Create(ctx, CreateParams{
		Type:        domain.NotificationTypeNewFollow,
		Title:       "New follower",
		Message:     fmt.Sprintf("%s started following you", actor.DisplayName),
		RecipientID: recipientID,
		ActorID:     &actorID,
	})
}

// NotifyPostCommented composes and creates the notification for a comment on
// a post, resolving the post owner as recipient.
func (s *NotificationService) NotifyPostCommented(ctx context.Context, actorID, postID uuid.UUID) (Outcome, error) {
	ownerID, err := s.posts.PostOwner(ctx, postID)
	if err != nil {
		return skipped(SkipRecipientNotFound), nil
	}
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return skipped(SkipActorNotFound), nil
	}

	return s.Create(ctx, CreateParams{
		Type:          domain.NotificationTypeNewComment,
		Title:         "New comment",
		Message:       fmt.Sprintf("%s commented on your post", actor.DisplayName),
		RecipientID:   ownerID,
		ActorID:       &actorID,
		RelatedPostID: &postID,
	})
}

// NotifyPostLiked composes and creates the notification for a like. Every
// liked branch composes a new notification; an unlike does not revoke it.
func (s *NotificationService) NotifyPostLiked(ctx context.Context, actorID, postID uuid.UUID) (Outcome, error) {
	ownerID, err := s.posts.PostOwner(ctx, postID)
	if err != nil {
		return skipped(SkipRecipientNotFound), nil
	}
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return skipped(SkipActorNotFound), nil
	}

	return s.Create(ctx, CreateParams{
		Type:          domain.NotificationTypeNewLike,
		Title:         "New like",
		Message:       fmt.Sprintf("%s liked your post", actor.DisplayName),
		RecipientID:   ownerID,
		ActorID:       &actorID,
		RelatedPostID: &postID,
	})
}

func (s *NotificationService) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	return s.repo.ListByRecipient(ctx, userID)
}

func (s *NotificationService) ListUnread(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	return s.repo.ListUnread(ctx, userID)
}

// UnreadCount reads through the cache; on a miss it queries the store and
// primes the cache.
func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	if count, ok := s.cache.Get(ctx, userID); ok {
		return count, nil
	}
	count, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.cache.Set(ctx, userID, count)
	return count, nil
}

// MarkAsRead flips a single notification, scoped by recipient, then pushes
// the updated unread count.
func (s *NotificationService) MarkAsRead(ctx context.Context, notificationID, userID uuid.UUID) (*domain.Notification, error) {
	n, err := s.repo.MarkAsRead(ctx, notificationID, userID)
	if err != nil {
		return nil, err
	}
	s.PushUnreadCount(ctx, userID)
	return n, nil
}

// MarkAllAsRead flips every unread notification for the user and pushes the
// updated unread count. Idempotent: the second call affects zero rows.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	affected, err := s.repo.MarkAllAsRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.PushUnreadCount(ctx, userID)
	return affected, nil
}

// PushUnreadCount invalidates the cached count, re-reads it and pushes it to
// the user's live connection. Failures are logged, never surfaced: the badge
// is a low-latency hint, the store is the source of truth.
func (s *NotificationService) PushUnreadCount(ctx context.Context, userID uuid.UUID) {
	s.cache.Invalidate(ctx, userID)
	count, err := s.UnreadCount(ctx, userID)
	if err != nil {
		log.Printf("[Notifications] Failed to read unread count for push (user: %s): %v", userID, err)
		return
	}
	s.pusher.PushToUser(userID, websocket.EventUnreadCount, websocket.UnreadCountPayload{Count: count})
}
