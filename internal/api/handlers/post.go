package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"boardsite/internal/models"
	"boardsite/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// PostHandler handles HTTP requests for the bulletin board
type PostHandler struct {
	postRepo repository.PostRepository
	policy   *bluemonday.Policy
	location *time.Location
	logger   *slog.Logger
}

// NewPostHandler creates a new post handler. Post content is sanitized with
// bluemonday's user generated content policy.
func NewPostHandler(postRepo repository.PostRepository, location *time.Location, logger *slog.Logger) *PostHandler {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostHandler{
		postRepo: postRepo,
		policy:   bluemonday.UGCPolicy(),
		location: location,
		logger:   logger,
	}
}

// ListPosts godoc
// @Summary List posts
// @Description Search, filter and paginate board posts, newest first
// @Tags posts
// @Produce json
// @Param search query string false "Search term"
// @Param field query string false "Search field (all, title, content)" default(all)
// @Param start_date query string false "First creation day (YYYY-MM-DD)"
// @Param end_date query string false "Last creation day (YYYY-MM-DD)"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(10)
// @Success 200 {object} models.PageResponse[models.Post]
// @Failure 400 {object} models.ErrorResponse "Invalid query"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /posts [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
	q, ok := bindListQuery(c, models.PostFieldAll, h.location)
	if !ok {
		return
	}

	posts, err := h.postRepo.List(c.Request.Context())
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list posts failed", "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to list posts"})
		return
	}

	writePage(c, posts, q)
}

// GetPost godoc
// @Summary Get a post
// @Description Returns a post and counts the view
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} models.Post
// @Failure 400 {object} models.ErrorResponse "Invalid post ID"
// @Failure 404 {object} models.ErrorResponse "Post not found"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /posts/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid post ID"})
		return
	}

	post, err := h.postRepo.IncrementViews(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "post not found"})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "get post failed", "post_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to get post"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// CreatePost godoc
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Param request body models.CreatePostRequest true "Post"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse "Invalid input"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Security CookieAuth
// @Router /posts [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req models.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	post := &models.Post{
		Number:   req.Number,
		Title:    strings.TrimSpace(req.Title),
		Content:  h.policy.Sanitize(req.Content),
		FileURLs: req.FileURLs,
	}
	if err := h.postRepo.Create(c.Request.Context(), post); err != nil {
		h.logger.ErrorContext(c.Request.Context(), "create post failed", "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to create post"})
		return
	}

	c.JSON(http.StatusCreated, post)
}

// UpdatePost godoc
// @Summary Update a post
// @Tags posts
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param request body models.UpdatePostRequest true "Fields to change"
// @Success 200 {object} models.Post
// @Failure 400 {object} models.ErrorResponse "Invalid input"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 404 {object} models.ErrorResponse "Post not found"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Security CookieAuth
// @Router /posts/{id} [put]
func (h *PostHandler) UpdatePost(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid post ID"})
		return
	}

	var req models.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	post, err := h.postRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "post not found"})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "get post failed", "post_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to get post"})
		return
	}

	if req.Title != nil {
		post.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		post.Content = h.policy.Sanitize(*req.Content)
	}
	if req.FileURLs != nil {
		post.FileURLs = *req.FileURLs
	}

	if err := h.postRepo.Update(c.Request.Context(), post); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "post not found"})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "update post failed", "post_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to update post"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// DeletePost godoc
// @Summary Delete a post
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse "Invalid post ID"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 404 {object} models.ErrorResponse "Post not found"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Security CookieAuth
// @Router /posts/{id} [delete]
func (h *PostHandler) DeletePost(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid post ID"})
		return
	}

	if err := h.postRepo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "post not found"})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "delete post failed", "post_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to delete post"})
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Message: "post deleted"})
}
