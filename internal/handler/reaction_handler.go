package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/abdulra7ma/social-media-app/internal/common"
	"github.com/abdulra7ma/social-media-app/internal/domain"
	"github.com/abdulra7ma/social-media-app/internal/middleware"
	"github.com/abdulra7ma/social-media-app/internal/service"
	"github.com/gin-gonic/gin"
)

// ReactionHandler handles like/dislike requests
type ReactionHandler struct {
	service service.ReactionService
}

// NewReactionHandler creates a new ReactionHandler
func NewReactionHandler(service service.ReactionService) *ReactionHandler {
	return &ReactionHandler{service: service}
}

// Like handles POST /api/v1/post/:id/like (requires JWT)
func (h *ReactionHandler) Like(c *gin.Context) {
	h.react(c, "like", h.service.Like)
}

// Unlike handles DELETE /api/v1/post/:id/unlike (requires JWT)
func (h *ReactionHandler) Unlike(c *gin.Context) {
	h.react(c, "unlike", h.service.Unlike)
}

// Dislike handles POST /api/v1/post/:id/dislike (requires JWT)
func (h *ReactionHandler) Dislike(c *gin.Context) {
	h.react(c, "dislike", h.service.Dislike)
}

// Undislike handles DELETE /api/v1/post/:id/undislike (requires JWT)
func (h *ReactionHandler) Undislike(c *gin.Context) {
	h.react(c, "undislike", h.service.Undislike)
}

// react runs one state transition and maps its outcome to a response.
// Precondition failures are client errors, never 500s.
func (h *ReactionHandler) react(c *gin.Context, op string, fn func(context.Context, uint, uint) (*domain.ReactionResponse, error)) {
	postID, ok := parseID(c)
	if !ok {
		return
	}

	resp, err := fn(c.Request.Context(), postID, middleware.GetUserID(c))
	switch {
	case err == nil:
		middleware.CountReactionWrite(op)
		c.JSON(http.StatusOK, common.APIResponse{Data: resp})
	case errors.Is(err, common.ErrPostNotFound):
		common.ErrorResponse(c, 404, "Post not found", err)
	case errors.Is(err, common.ErrSelfReaction):
		common.ErrorResponse(c, 400, "You can not react to your own post", err)
	case errors.Is(err, common.ErrAlreadyLiked):
		common.ErrorResponse(c, 400, "You have already liked this post", err)
	case errors.Is(err, common.ErrAlreadyDisliked):
		common.ErrorResponse(c, 400, "You have already disliked this post", err)
	case errors.Is(err, common.ErrNotLiked):
		common.ErrorResponse(c, 400, "Post should be liked first", err)
	case errors.Is(err, common.ErrNotDisliked):
		common.ErrorResponse(c, 400, "Post should be disliked first", err)
	default:
		common.ErrorResponse(c, 500, "Reaction failed", err)
	}
}
