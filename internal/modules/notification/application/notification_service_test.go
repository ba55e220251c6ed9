package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wayfarerhq/wayfarer-backend/internal/modules/notification/application"
	"github.com/wayfarerhq/wayfarer-backend/internal/modules/notification/domain"
	"github.com/wayfarerhq/wayfarer-backend/internal/modules/notification/infrastructure/websocket"
	userDomain "github.com/wayfarerhq/wayfarer-backend/internal/modules/user/domain"
)

type fakeRepo struct {
	created   []*domain.Notification
	createErr error
	unread    int
	unreadErr error
	marked    int64
}

func (f *fakeRepo) Create(ctx context.Context, n *domain.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	n.ID = uuid.New()
	f.created = append(f.created, n)
	return nil
}

func (f *fakeRepo) ListByRecipient(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	return nil, nil
}

func (f *fakeRepo) ListUnread(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	return nil, nil
}

func (f *fakeRepo) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return f.unread, f.unreadErr
}

func (f *fakeRepo) MarkAsRead(ctx context.Context, notificationID, userID uuid.UUID) (*domain.Notification, error) {
	return &domain.Notification{ID: notificationID, RecipientID: userID, IsRead: true}, nil
}

func (f *fakeRepo) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return f.marked, nil
}

type pushedEvent struct {
	userID  uuid.UUID
	event   string
	payload any
}

type fakePusher struct {
	pushes []pushedEvent
}

func (f *fakePusher) PushToUser(userID uuid.UUID, event string, payload any) bool {
	f.pushes = append(f.pushes, pushedEvent{userID: userID, event: event, payload: payload})
	return true
}

func (f *fakePusher) eventsFor(userID uuid.UUID) []string {
	var events []string
	for _, p := range f.pushes {
		if p.userID == userID {
			events = append(events, p.event)
		}
	}
	return events
}

type fakeUsers struct {
	users map[uuid.UUID]*userDomain.User
}

func (f *fakeUsers) GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, userDomain.ErrUserNotFound
}

type fakePosts struct {
	owners map[uuid.UUID]uuid.UUID
}

func (f *fakePosts) PostOwner(ctx context.Context, postID uuid.UUID) (uuid.UUID, error) {
	if owner, ok := f.owners[postID]; ok {
		return owner, nil
	}
	return uuid.Nil, errors.New("post not found")
}

type noopCache struct{}

func (noopCache) Get(ctx context.Context, userID uuid.UUID) (int, bool) { return 0, false }
func (noopCache) Set(ctx context.Context, userID uuid.UUID, count int)  {}
func (noopCache) Invalidate(ctx context.Context, userID uuid.UUID)     {}

type fixture struct {
	service *application.NotificationService
	repo    *fakeRepo
	pusher  *fakePusher
	users   *fakeUsers
	posts   *fakePosts
}

func newFixture() *fixture {
	repo := &fakeRepo{}
	pusher := &fakePusher{}
	users := &fakeUsers{users: map[uuid.UUID]*userDomain.User{}}
	posts := &fakePosts{owners: map[uuid.UUID]uuid.UUID{}}
	return &fixture{
		service: application.NewNotificationService(repo, users, posts, pusher, noopCache{}),
		repo:    repo,
		pusher:  pusher,
		users:   users,
		posts:   posts,
	}
}

func (f *fixture) addUser(displayName string) uuid.UUID {
	id := uuid.New()
	f.users.users[id] = &userDomain.User{ID: id, DisplayName: displayName}
	return id
}

func (f *fixture) addPost(ownerID uuid.UUID) uuid.UUID {
	id := uuid.New()
	f.posts.owners[id] = ownerID
	return id
}

func TestNotificationService_NotifyNewFollow(t *testing.T) {
	f := newFixture()
	actorID := f.addUser("Marco Polo")
	recipientID := f.addUser("Ibn Battuta")

	outcome, err := f.service.NotifyNewFollow(context.Background(), actorID, recipientID)
	require.NoError(t, err)
	require.False(t, outcome.IsSkipped())
	assert.Equal(t, "Marco Polo started following you", outcome.Notification.Message)
	assert.Equal(t, recipientID, outcome.Notification.RecipientID)

	events := f.pusher.eventsFor(recipientID)
	require.Equal(t, []string{websocket.EventNewFollow, websocket.EventUnreadCount}, events)
}

func TestNotificationService_SelfNotificationSuppressed(t *testing.T) {
	f := newFixture()
	actorID := f.addUser("Marco Polo")
	postID := f.addPost(actorID)

	outcome, err := f.service.NotifyPostLiked(context.Background(), actorID, postID)
	require.NoError(t, err)
	assert.True(t, outcome.IsSkipped())
	assert.Equal(t, application.SkipSelfNotification, outcome.Skipped)
	assert.Empty(t, f.repo.created, "self notification must not be persisted")
	assert.Empty(t, f.pusher.pushes)
}

func TestNotificationService_NotifyPostLiked(t *testing.T) {
	f := newFixture()
	actorID := f.addUser("Marco Polo")
	ownerID := f.addUser("Ibn Battuta")
	postID := f.addPost(ownerID)

	outcome, err := f.service.NotifyPostLiked(context.Background(), actorID, postID)
	require.NoError(t, err)
	require.False(t, outcome.IsSkipped())
	assert.Equal(t, domain.NotificationTypeNewLike, outcome.Notification.Type)
	assert.Equal(t, "Marco Polo liked your post", outcome.Notification.Message)
	require.NotNil(t, outcome.Notification.RelatedPostID)
	assert.Equal(t, postID, *outcome.Notification.RelatedPostID)

	events := f.pusher.eventsFor(ownerID)
	assert.Equal(t, []string{websocket.EventNewInteraction, websocket.EventUnreadCount}, events)
}

func TestNotificationService_NotifyPostCommented_UnknownPostSkips(t *testing.T) {
	f := newFixture()
	actorID := f.addUser("Marco Polo")

	outcome, err := f.service.NotifyPostCommented(context.Background(), actorID, uuid.New())
	require.NoError(t, err, "composition failures are skips, not errors")
	assert.Equal(t, application.SkipRecipientNotFound, outcome.Skipped)
	assert.Empty(t, f.repo.created)
}

func TestNotificationService_UnknownActorSkips(t *testing.T) {
	f := newFixture()
	recipientID := f.addUser("Ibn Battuta")

	outcome, err := f.service.NotifyNewFollow(context.Background(), uuid.New(), recipientID)
	require.NoError(t, err)
	assert.Equal(t, application.SkipActorNotFound, outcome.Skipped)
	assert.Empty(t, f.repo.created)
}

func TestNotificationService_CreateStoreErrorPropagates(t *testing.T) {
	f := newFixture()
	f.repo.createErr = errors.New("db down")
	actorID := f.addUser("Marco Polo")
	recipientID := f.addUser("Ibn Battuta")

	_, err := f.service.NotifyNewFollow(context.Background(), actorID, recipientID)
	require.Error(t, err)
	assert.Empty(t, f.pusher.pushes, "nothing is pushed when the store write fails")
}

func TestNotificationService_MarkAsReadPushesCount(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	f.repo.unread = 2

	n, err := f.service.MarkAsRead(context.Background(), uuid.New(), userID)
	require.NoError(t, err)
	assert.True(t, n.IsRead)

	events := f.pusher.eventsFor(userID)
	require.Equal(t, []string{websocket.EventUnreadCount}, events)
	assert.Equal(t, websocket.UnreadCountPayload{Count: 2}, f.pusher.pushes[0].payload)
}

func TestNotificationService_MarkAllAsReadPushesCount(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	f.repo.marked = 5

	affected, err := f.service.MarkAllAsRead(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), affected)
	assert.Equal(t, []string{websocket.EventUnreadCount}, f.pusher.eventsFor(userID))
}

func TestNotificationService_PushUnreadCountSwallowsReadError(t *testing.T) {
	f := newFixture()
	f.repo.unreadErr = errors.New("count fail")

	f.service.PushUnreadCount(context.Background(), uuid.New())
	assert.Empty(t, f.pusher.pushes)
}
