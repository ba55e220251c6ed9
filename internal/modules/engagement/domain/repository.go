package domain

import (
	"context"

	"github.com/google/uuid"
)

// EngagementRepository is the counter ledger: every method that touches a
// counter and its fact rows does so in a single all-or-nothing transaction,
// so the counter and the fact table never disagree.
type EngagementRepository interface {
	GetPost(ctx context.Context, postID uuid.UUID) (*Post, error)
	PostOwner(ctx context.Context, postID uuid.UUID) (uuid.UUID, error)

	// ToggleLike inserts or deletes the (userID, postID) like fact and
	// adjusts like_count by exactly 1 in the same transaction. Concurrent
	// toggles on the same pair are serialized by a row lock on the post.
	ToggleLike(ctx context.Context, postID, userID uuid.UUID) (*LikeResult, error)

	// InsertComment inserts the comment and increments comments_count in
	// one transaction.
	InsertComment(ctx context.Context, comment *Comment) error

	// DeleteComment verifies authorship, deletes the comment and decrements
	// comments_count in one transaction.
	DeleteComment(ctx context.Context, commentID, userID uuid.UUID) error

	CreateFollow(ctx context.Context, followerID, followingID uuid.UUID) error
	DeleteFollow(ctx context.Context, followerID, followingID uuid.UUID) error
}
