package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/wayfarerhq/wayfarer-backend/internal/modules/engagement/domain"
)

type PgEngagementRepository struct {
	db *sqlx.DB
}

func NewPgEngagementRepository(db *sqlx.DB) *PgEngagementRepository {
	return &PgEngagementRepository{db: db}
}

func (r *PgEngagementRepository) GetPost(ctx context.Context, postID uuid.UUID) (*domain.Post, error) {
	var post domain.Post
	query := `SELECT * FROM posts WHERE id = $1`
	err := r.db.GetContext(ctx, &post, query, postID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return &post, nil
}

func (r *PgEngagementRepository) PostOwner(ctx context.Context, postID uuid.UUID) (uuid.UUID, error) {
	var ownerID uuid.UUID
	query := `SELECT user_id FROM posts WHERE id = $1`
	err := r.db.GetContext(ctx, &ownerID, query, postID)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, domain.ErrPostNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to get post owner: %w", err)
	}
	return ownerID, nil
}

// ToggleLike flips the like fact for (userID, postID) and adjusts the
// post's like_count in the same transaction. The row lock taken by
// SELECT ... FOR UPDATE serializes concurrent toggles on the same post, so
// two near-simultaneous toggles can neither both insert nor decrement below
// the true fact count.
func (r *PgEngagementRepository) ToggleLike(ctx context.Context, postID, userID uuid.UUID) (*domain.LikeResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// 1. Lock the post row
	var likeCount int
	err = tx.GetContext(ctx, &likeCount, `SELECT like_count FROM posts WHERE id = $1 FOR UPDATE`, postID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock post: %w", err)
	}

	// 2. Flip the like fact
	res, err := tx.ExecContext(ctx, `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete like: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	}

	result := &domain.LikeResult{}
	if deleted > 0 {
		// 3a. Unliked: decrement the counter
		result.Status = domain.LikeStatusUnliked
		err = tx.GetContext(ctx, &result.LikeCount,
			`UPDATE posts SET like_count = like_count - 1, updated_at = NOW() WHERE id = $1 RETURNING like_count`, postID)
	} else {
		// 3b. Liked: insert the fact and increment the counter
		result.Status = domain.LikeStatusLiked
		_, err = tx.ExecContext(ctx,
			`INSERT INTO post_likes (user_id, post_id, created_at) VALUES ($1, $2, NOW())`, userID, postID)
		if err != nil {
			return nil, fmt.Errorf("failed to insert like: %w", err)
		}
		err = tx.GetContext(ctx, &result.LikeCount,
			`UPDATE posts SET like_count = like_count + 1, updated_at = NOW() WHERE id = $1 RETURNING like_count`, postID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update like count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit like toggle: %w", err)
	}
	return result, nil
}

// InsertComment inserts the comment row and increments comments_count as one
// transaction; a crash between the two can never leave them disagreeing.
func (r *PgEngagementRepository) InsertComment(ctx context.Context, comment *domain.Comment) error {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	comment.UpdatedAt = comment.CreatedAt

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// 1. Increment the counter; zero rows means the post is gone
	res, err := tx.ExecContext(ctx,
		`UPDATE posts SET comments_count = comments_count + 1, updated_at = NOW() WHERE id = $1`, comment.PostID)
	if err != nil {
		return fmt.Errorf("failed to increment comments count: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrPostNotFound
	}

	// 2. Insert the fact row
	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO comments (id, post_id, user_id, body, created_at, updated_at)
		VALUES (:id, :post_id, :user_id, :body, :created_at, :updated_at)
	`, comment)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit comment insert: %w", err)
	}
	return nil
}

// DeleteComment verifies authorship, then deletes the row and decrements
// comments_count in one transaction.
func (r *PgEngagementRepository) DeleteComment(ctx context.Context, commentID, userID uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// 1. Fetch and lock the comment
	var comment domain.Comment
	err = tx.GetContext(ctx, &comment, `SELECT * FROM comments WHERE id = $1 FOR UPDATE`, commentID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrCommentNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get comment: %w", err)
	}
	if comment.UserID != userID {
		return domain.ErrNotCommentAuthor
	}

	// 2. Delete the fact row
	if _, err = tx.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, commentID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	// 3. Decrement the counter
	_, err = tx.ExecContext(ctx,
		`UPDATE posts SET comments_count = comments_count - 1, updated_at = NOW() WHERE id = $1`, comment.PostID)
	if err != nil {
		return fmt.Errorf("failed to decrement comments count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit comment delete: %w", err)
	}
	return nil
}

func (r *PgEngagementRepository) CreateFollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO follows (follower_id, following_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (follower_id, following_id) DO NOTHING
	`, followerID, followingID)
	if err != nil {
		return fmt.Errorf("failed to create follow: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrAlreadyFollowing
	}
	return nil
}

func (r *PgEngagementRepository) DeleteFollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`, followerID, followingID)
	if err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrFollowNotFound
	}
	return nil
}
