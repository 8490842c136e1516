package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	postapp "github.com/oksasatya/go-blog-api/internal/application"
	"github.com/oksasatya/go-blog-api/internal/domain/repository"
	"github.com/oksasatya/go-blog-api/internal/interface/middleware"
	"github.com/oksasatya/go-blog-api/pkg/response"
	"github.com/oksasatya/go-blog-api/pkg/validation"
)

type PostHandler struct {
	Svc    *postapp.PostService
	Logger *logrus.Logger
}

func NewPostHandler(svc *postapp.PostService, logger *logrus.Logger) *PostHandler {
	return &PostHandler{Svc: svc, Logger: logger}
}

// postRequest carries no binding tags: absent fields flow to the store as
// empty strings, same as the database would see them.
type postRequest struct {
	Title    string `json:"title"`
	Detail   string `json:"detail"`
	Category string `json:"category"`
}

func postID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "post not found", nil)
		return 0, false
	}
	return id, true
}

// Create POST /create-post (auth). The owner comes from the verified token.
func (h *PostHandler) Create(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Svc.Create(c.Request.Context(), uid, req.Title, req.Detail, req.Category)
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Error("create post failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to create post", nil)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"post_id": p.ID}, "post created")
}

// ListMine GET /read-post (auth). An empty result is reported as 404.
func (h *PostHandler) ListMine(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	posts, err := h.Svc.ListMine(c.Request.Context(), uid)
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Error("list posts failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to fetch posts", nil)
		return
	}
	if len(posts) == 0 {
		response.Error[any](c, http.StatusNotFound, "no posts found", nil)
		return
	}
	response.Success(c, http.StatusOK, posts, "posts")
}

// Get GET /post/:id (no auth, not owner-scoped)
func (h *PostHandler) Get(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	p, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, "post not found", nil)
			return
		}
		h.Logger.WithError(err).WithField("post_id", id).Error("get post failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to fetch post", nil)
		return
	}
	response.Success(c, http.StatusOK, p, "post")
}

// Update PUT /post/:id (no auth, not owner-scoped)
func (h *PostHandler) Update(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.Update(c.Request.Context(), id, req.Title, req.Detail, req.Category); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, "post not found", nil)
			return
		}
		h.Logger.WithError(err).WithField("post_id", id).Error("update post failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to update post", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "post updated")
}

// Delete DELETE /post/:id (no auth, not owner-scoped)
func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, "post not found", nil)
			return
		}
		h.Logger.WithError(err).WithField("post_id", id).Error("delete post failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to delete post", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "post deleted")
}

// Search GET /search-post?q= (auth)
func (h *PostHandler) Search(c *gin.Context) {
	q := c.Query("q")
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		h.Logger.WithError(err).WithField("q", q).Error("post search failed")
		response.Error[any](c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results")
}
