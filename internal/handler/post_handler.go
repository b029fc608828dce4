package handler

import (
	"errors"
	"net/http"

	"github.com/abdulra7ma/social-media-app/internal/common"
	"github.com/abdulra7ma/social-media-app/internal/domain"
	"github.com/abdulra7ma/social-media-app/internal/middleware"
	"github.com/abdulra7ma/social-media-app/internal/service"
	"github.com/abdulra7ma/social-media-app/pkg/ginutil"
	"github.com/gin-gonic/gin"
)

// PostHandler handles post CRUD requests
type PostHandler struct {
	service service.PostService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(service service.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// parseID extracts the :id path parameter
func parseID(c *gin.Context) (uint, bool) {
	id, err := ginutil.ParamUint(c, "id")
	if err != nil || id == 0 {
		common.ErrorResponse(c, 400, "Invalid post id", err)
		return 0, false
	}
	return id, true
}

// List handles GET /api/v1/posts
func (h *PostHandler) List(c *gin.Context) {
	page := ginutil.QueryInt(c, "page", 1)
	limit := ginutil.QueryInt(c, "limit", 20)

	posts, meta, err := h.service.ListPosts(page, limit)
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to list posts", err)
		return
	}

	common.SuccessResponse(c, posts, meta)
}

// Get handles GET /api/v1/post/:id
func (h *PostHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	post, err := h.service.GetPost(c.Request.Context(), id)
	if errors.Is(err, common.ErrPostNotFound) {
		common.ErrorResponse(c, 404, "Post not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to load post", err)
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{Data: post})
}

// Create handles POST /api/v1/post (requires JWT)
func (h *PostHandler) Create(c *gin.Context) {
	var req domain.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	post, err := h.service.CreatePost(&req, middleware.GetUserID(c))
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to create post", err)
		return
	}

	c.JSON(http.StatusCreated, common.APIResponse{Data: post})
}

// Update handles PUT /api/v1/post/:id (requires JWT, author only)
func (h *PostHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req domain.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	post, err := h.service.UpdatePost(id, &req, middleware.GetUserID(c))
	if errors.Is(err, common.ErrPostNotFound) {
		common.ErrorResponse(c, 404, "Post not found", err)
		return
	}
	if errors.Is(err, common.ErrForbidden) {
		common.ErrorResponse(c, 403, "Only the author can modify this post", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to update post", err)
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{Data: post})
}

// Delete handles DELETE /api/v1/post/:id (requires JWT, author only)
func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	err := h.service.DeletePost(c.Request.Context(), id, middleware.GetUserID(c))
	if errors.Is(err, common.ErrPostNotFound) {
		common.ErrorResponse(c, 404, "Post not found", err)
		return
	}
	if errors.Is(err, common.ErrForbidden) {
		common.ErrorResponse(c, 403, "Only the author can delete this post", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to delete post", err)
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{
		Data: gin.H{"message": "Post deleted"},
	})
}
