package application

import (
	"context"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/wayfarerhq/wayfarer-backend/internal/modules/engagement/domain"
	notification "github.com/wayfarerhq/wayfarer-backend/internal/modules/notification/application"
)

var validate = validator.New()

// Notifier composes and delivers the notification for an engagement action.
// Satisfied by the notification module's service. Composition failures are
// reported through the outcome or error and never abort the action that
// triggered them.
type Notifier interface {
	NotifyNewFollow(ctx context.Context, actorID, recipientID uuid.UUID) (notification.Outcome, error)
	NotifyPostCommented(ctx context.Context, actorID, postID uuid.UUID) (notification.Outcome, error)
	NotifyPostLiked(ctx context.Context, actorID, postID uuid.UUID) (notification.Outcome, error)
}

// CreateCommentInput is the validated body of a comment creation request.
type CreateCommentInput struct {
	Body string `json:"body" validate:"required,max=2000"`
}

type EngagementService struct {
	repo     domain.EngagementRepository
	notifier Notifier
}

func NewEngagementService(repo domain.EngagementRepository, notifier Notifier) *EngagementService {
	return &EngagementService{repo: repo, notifier: notifier}
}

// ToggleLike flips the caller's like on a post. The ledger write is the
// primary action and its error propagates; the notification on the liked
// branch is best-effort and only logged on failure.
func (s *EngagementService) ToggleLike(ctx context.Context, postID, actorID uuid.UUID) (*domain.LikeResult, error) {
	result, err := s.repo.ToggleLike(ctx, postID, actorID)
	if err != nil {
		return nil, err
	}

	if result.Status == domain.LikeStatusLiked {
		if _, err := s.notifier.NotifyPostLiked(ctx, actorID, postID); err != nil {
			log.Printf("[Engagement] Failed to notify like (post: %s, actor: %s): %v", postID, actorID, err)
		}
	}
	return result, nil
}

// AddComment validates and persists a comment, then notifies the post owner.
func (s *EngagementService) AddComment(ctx context.Context, postID, authorID uuid.UUID, input CreateCommentInput) (*domain.Comment, error) {
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidComment, err)
	}

	comment := &domain.Comment{
		PostID: postID,
		UserID: authorID,
		Body:   input.Body,
	}
	if err := s.repo.InsertComment(ctx, comment); err != nil {
		return nil, err
	}

	if _, err := s.notifier.NotifyPostCommented(ctx, authorID, postID); err != nil {
		log.Printf("[Engagement] Failed to notify comment (post: %s, actor: %s): %v", postID, authorID, err)
	}
	return comment, nil
}

// RemoveComment deletes a comment owned by the caller. No notification is
// composed for removals.
func (s *EngagementService) RemoveComment(ctx context.Context, commentID, userID uuid.UUID) error {
	return s.repo.DeleteComment(ctx, commentID, userID)
}

// FollowUser records the follow edge and notifies the followed user.
func (s *EngagementService) FollowUser(ctx context.Context, followerID, followingID uuid.UUID) error {
	if followerID == followingID {
		return domain.ErrSelfFollow
	}
	if err := s.repo.CreateFollow(ctx, followerID, followingID); err != nil {
		return err
	}

	if _, err := s.notifier.NotifyNewFollow(ctx, followerID, followingID); err != nil {
		log.Printf("[Engagement] Failed to notify follow (follower: %s, following: %s): %v", followerID, followingID, err)
	}
	return nil
}

func (s *EngagementService) UnfollowUser(ctx context.Context, followerID, followingID uuid.UUID) error {
	return s.repo.DeleteFollow(ctx, followerID, followingID)
}

func (s *EngagementService) GetPost(ctx context.Context, postID uuid.UUID) (*domain.Post, error) {
	return s.repo.GetPost(ctx, postID)
}
