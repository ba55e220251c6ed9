package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/wayfarerhq/wayfarer-backend/internal/gateway/middleware"
	"github.com/wayfarerhq/wayfarer-backend/internal/modules/engagement/application"
	"github.com/wayfarerhq/wayfarer-backend/internal/modules/engagement/domain"
	"github.com/wayfarerhq/wayfarer-backend/internal/shared/utils"
)

type EngagementHandler struct {
	service *application.EngagementService
}

func NewEngagementHandler(service *application.EngagementService) *EngagementHandler {
	return &EngagementHandler{service: service}
}

// ToggleLike flips the caller's like on a post and returns the new state and
// counter in one response.
func (h *EngagementHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid post id", nil)
		return
	}

	userID, ok := r.Context().Value(middleware.ContextKeyUserID).(uuid.UUID)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	result, err := h.service.ToggleLike(r.Context(), postID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			utils.WriteError(w, http.StatusNotFound, "post not found", nil)
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, "failed to toggle like", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"status":    result.Status,
		"likeCount": result.LikeCount,
	})
}

func (h *EngagementHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid post id", nil)
		return
	}

	userID, ok := r.Context().Value(middleware.ContextKeyUserID).(uuid.UUID)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var input application.CreateCommentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	comment, err := h.service.AddComment(r.Context(), postID, userID, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidComment):
			utils.WriteError(w, http.StatusBadRequest, "invalid comment", err)
		case errors.Is(err, domain.ErrPostNotFound):
			utils.WriteError(w, http.StatusNotFound, "post not found", nil)
		default:
			utils.WriteError(w, http.StatusInternalServerError, "failed to add comment", err)
		}
		return
	}

	utils.WriteJSON(w, http.StatusCreated, comment)
}

func (h *EngagementHandler) RemoveComment(w http.ResponseWriter, r *http.Request) {
	commentID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid comment id", nil)
		return
	}

	userID, ok := r.Context().Value(middleware.ContextKeyUserID).(uuid.UUID)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	if err := h.service.RemoveComment(r.Context(), commentID, userID); err != nil {
		switch {
		case errors.Is(err, domain.ErrCommentNotFound):
			utils.WriteError(w, http.StatusNotFound, "comment not found", nil)
		case errors.Is(err, domain.ErrNotCommentAuthor):
			utils.WriteError(w, http.StatusForbidden, "comment can only be deleted by its author", nil)
		default:
			utils.WriteError(w, http.StatusInternalServerError, "failed to delete comment", err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *EngagementHandler) FollowUser(w http.ResponseWriter, r *http.Request) {
	followingID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid user id", nil)
		return
	}

	userID, ok := r.Context().Value(middleware.ContextKeyUserID).(uuid.UUID)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	if err := h.service.FollowUser(r.Context(), userID, followingID); err != nil {
		switch {
		case errors.Is(err, domain.ErrSelfFollow):
			utils.WriteError(w, http.StatusBadRequest, "cannot follow yourself", nil)
		case errors.Is(err, domain.ErrAlreadyFollowing):
			utils.WriteError(w, http.StatusConflict, "already following this user", nil)
		default:
			utils.WriteError(w, http.StatusInternalServerError, "failed to follow user", err)
		}
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]string{"status": "following"})
}

func (h *EngagementHandler) UnfollowUser(w http.ResponseWriter, r *http.Request) {
	followingID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid user id", nil)
		return
	}

	userID, ok := r.Context().Value(middleware.ContextKeyUserID).(uuid.UUID)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	if err := h.service.UnfollowUser(r.Context(), userID, followingID); err != nil {
		if errors.Is(err, domain.ErrFollowNotFound) {
			utils.WriteError(w, http.StatusNotFound, "follow relationship not found", nil)
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, "failed to unfollow user", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *EngagementHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid post id", nil)
		return
	}

	post, err := h.service.GetPost(r.Context(), postID)
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			utils.WriteError(w, http.StatusNotFound, "post not found", nil)
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, "failed to fetch post", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, post)
}
