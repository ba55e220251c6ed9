package domain

import (
	"time"

	"github.com/google/uuid"
)

// Post carries the denormalized engagement counters. The invariant the
// ledger maintains: like_count equals the number of live like facts and
// comments_count the number of live comments, after every committed mutation.
type Post struct {
	ID            uuid.UUID `json:"id" db:"id"`
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	Title         string    `json:"title" db:"title"`
	Body          string    `json:"body" db:"body"`
	LikeCount     int       `json:"like_count" db:"like_count"`
	CommentsCount int       `json:"comments_count" db:"comments_count"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

type Comment struct {
	ID        uuid.UUID `json:"id" db:"id"`
	PostID    uuid.UUID `json:"post_id" db:"post_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Follow struct {
	FollowerID  uuid.UUID `json:"follower_id" db:"follower_id"`
	FollowingID uuid.UUID `json:"following_id" db:"following_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// LikeStatus names which branch a toggle fired.
type LikeStatus string

const (
	LikeStatusLiked   LikeStatus = "liked"
	LikeStatusUnliked LikeStatus = "unliked"
)

// LikeResult is the outcome of a toggle: the branch that fired and the
// post's new counter value.
type LikeResult struct {
	Status    LikeStatus `json:"status"`
	LikeCount int        `json:"like_count"`
}
