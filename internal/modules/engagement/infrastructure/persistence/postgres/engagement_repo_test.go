package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wayfarerhq/wayfarer-backend/internal/modules/engagement/domain"
	"github.com/wayfarerhq/wayfarer-backend/internal/modules/engagement/infrastructure/persistence/postgres"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	db := sqlx.NewDb(mockDB, "sqlmock")
	return db, mock, func() { _ = db.Close() }
}

func commentColumns() []string {
	return []string{"id", "post_id", "user_id", "body", "created_at", "updated_at"}
}

func TestPgEngagementRepository_ToggleLike_Like(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := postgres.NewPgEngagementRepository(db)
	postID := uuid.New()
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT like_count FROM posts WHERE id = \$1 FOR UPDATE`).
		WithArgs(postID).
		WillReturnRows(sqlmock.NewRows([]string{"like_count"}).AddRow(4))
	mock.ExpectExec(`DELETE FROM post_likes`).
		WithArgs(postID, userID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO post_likes`).
		WithArgs(userID, postID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`UPDATE posts SET like_count = like_count \+ 1`).
		WithArgs(postID).
		WillReturnRows(sqlmock.NewRows([]string{"like_count"}).AddRow(5))
	mock.ExpectCommit()

	result, err := repo.ToggleLike(context.Background(), postID, userID)
	require.NoError(t, err)
	assert.Equal(t, domain.LikeStatusLiked, result.Status)
	assert.Equal(t, 5, result.LikeCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgEngagementRepository_ToggleLike_Unlike(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := postgres.NewPgEngagementRepository(db)
	postID := uuid.New()
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT like_count FROM posts WHERE id = \$1 FOR UPDATE`).
		WithArgs(postID).
		WillReturnRows(sqlmock.NewRows([]string{"like_count"}).AddRow(5))
	mock.ExpectExec(`DELETE FROM post_likes`).
		WithArgs(postID, userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`UPDATE posts SET like_count = like_count \- 1`).
		WithArgs(postID).
		WillReturnRows(sqlmock.NewRows([]string{"like_count"}).AddRow(4))
	mock.ExpectCommit()

	result, err := repo.ToggleLike(context.Background(), postID, userID)
	require.NoError(t, err)
	assert.Equal(t, domain.LikeStatusUnliked, result.Status)
	assert.Equal(t, 4, result.LikeCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgEngagementRepository_ToggleLike_PostNotFound(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := postgres.NewPgEngagementRepository(db)
	postID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT like_count FROM posts WHERE id = \$1 FOR UPDATE`).
		WithArgs(postID).
		WillReturnRows(sqlmock.NewRows([]string{"like_count"}))
	mock.ExpectRollback()

	result, err := repo.ToggleLike(context.Background(), postID, uuid.New())
	require.ErrorIs(t, err, domain.ErrPostNotFound)
	assert.Nil(t, result)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgEngagementRepository_ToggleLike_RollbackOnFailure(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := postgres.NewPgEngagementRepository(db)
	postID := uuid.New()
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT like_count FROM posts WHERE id = \$1 FOR UPDATE`).
		WithArgs(postID).
		WillReturnRows(sqlmock.NewRows([]string{"like_count"}).AddRow(0))
	mock.ExpectExec(`DELETE FROM post_likes`).
		WithArgs(postID, userID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO post_likes`).
		WithArgs(userID, postID).
		WillReturnError(errors.New("insert fail"))
	mock.ExpectRollback()

	_, err := repo.ToggleLike(context.Background(), postID, userID)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgEngagementRepository_InsertComment(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := postgres.NewPgEngagementRepository(db)
	comment := &domain.Comment{
		PostID: uuid.New(),
		UserID: uuid.New(),
		Body:   "Stunning sunset over the fjord",
	}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE posts SET comments_count = comments_count \+ 1`).
		WithArgs(comment.PostID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO comments`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.InsertComment(context.Background(), comment))
	assert.NotEqual(t, uuid.Nil, comment.ID)
	assert.False(t, comment.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgEngagementRepository_InsertComment_PostGone(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := postgres.NewPgEngagementRepository(db)
	comment := &domain.Comment{PostID: uuid.New(), UserID: uuid.New(), Body: "hello"}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE posts SET comments_count = comments_count \+ 1`).
		WithArgs(comment.PostID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.InsertComment(context.Background(), comment)
	require.ErrorIs(t, err, domain.ErrPostNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgEngagementRepository_DeleteComment(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := postgres.NewPgEngagementRepository(db)
	commentID := uuid.New()
	postID := uuid.New()
	authorID := uuid.New()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM comments WHERE id = \$1 FOR UPDATE`).
		WithArgs(commentID).
		WillReturnRows(sqlmock.NewRows(commentColumns()).
			AddRow(commentID, postID, authorID, "great trip", now, now))
	mock.ExpectExec(`DELETE FROM comments`).
		WithArgs(commentID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE posts SET comments_count = comments_count \- 1`).
		WithArgs(postID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteComment(context.Background(), commentID, authorID))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgEngagementRepository_DeleteComment_NotAuthor(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := postgres.NewPgEngagementRepository(db)
	commentID := uuid.New()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM comments WHERE id = \$1 FOR UPDATE`).
		WithArgs(commentID).
		WillReturnRows(sqlmock.NewRows(commentColumns()).
			AddRow(commentID, uuid.New(), uuid.New(), "great trip", now, now))
	mock.ExpectRollback()

	err := repo.DeleteComment(context.Background(), commentID, uuid.New())
	require.ErrorIs(t, err, domain.ErrNotCommentAuthor)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgEngagementRepository_DeleteComment_NotFound(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := postgres.NewPgEngagementRepository(db)
	commentID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM comments WHERE id = \$1 FOR UPDATE`).
		WithArgs(commentID).
		WillReturnRows(sqlmock.NewRows(commentColumns()))
	mock.ExpectRollback()

	err := repo.DeleteComment(context.Background(), commentID, uuid.New())
	require.ErrorIs(t, err, domain.ErrCommentNotFound)
}

func TestPgEngagementRepository_Follows(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := postgres.NewPgEngagementRepository(db)
	followerID := uuid.New()
	followingID := uuid.New()

	mock.ExpectExec(`INSERT INTO follows`).
		WithArgs(followerID, followingID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.CreateFollow(context.Background(), followerID, followingID))

	// Duplicate pair hits ON CONFLICT DO NOTHING.
	mock.ExpectExec(`INSERT INTO follows`).
		WithArgs(followerID, followingID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.CreateFollow(context.Background(), followerID, followingID)
	require.ErrorIs(t, err, domain.ErrAlreadyFollowing)

	mock.ExpectExec(`DELETE FROM follows`).
		WithArgs(followerID, followingID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeleteFollow(context.Background(), followerID, followingID))

	mock.ExpectExec(`DELETE FROM follows`).
		WithArgs(followerID, followingID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.DeleteFollow(context.Background(), followerID, followingID)
	require.ErrorIs(t, err, domain.ErrFollowNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgEngagementRepository_GetPost(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := postgres.NewPgEngagementRepository(db)
	postID := uuid.New()
	ownerID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM posts WHERE id = \$1`).
		WithArgs(postID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "body", "like_count", "comments_count", "created_at", "updated_at"}).
			AddRow(postID, ownerID, "Ten days in Patagonia", "Day one we landed in...", 12, 3, now, now))

	post, err := repo.GetPost(context.Background(), postID)
	require.NoError(t, err)
	assert.Equal(t, 12, post.LikeCount)
	assert.Equal(t, ownerID, post.UserID)

	mock.ExpectQuery(`SELECT user_id FROM posts WHERE id = \$1`).
		WithArgs(postID).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	_, err = repo.PostOwner(context.Background(), postID)
	require.ErrorIs(t, err, domain.ErrPostNotFound)
}
