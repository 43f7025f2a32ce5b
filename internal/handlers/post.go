package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"postboard/internal/models"
	"postboard/internal/repository"
	"postboard/internal/response"
	"postboard/internal/utils"
)

type PostHandler struct {
	posts *repository.PostRepository
}

func NewPostHandler(posts *repository.PostRepository) *PostHandler {
	return &PostHandler{posts: posts}
}

type createPostRequest struct {
	Title   string `json:"title" binding:"title_len"`
	Content string `json:"content" binding:"content_len"`
}

func render(view *models.PostView) {
	view.ContentHTML = utils.RenderMarkdown(view.Content)
}

// List returns every post, newest first.
func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.posts.List(c.Request.Context())
	if err != nil {
		response.Abort(c, response.Internal(err))
		return
	}
	for i := range posts {
		render(&posts[i])
	}
	response.Success(c, gin.H{"posts": posts})
}

func (h *PostHandler) Get(c *gin.Context) {
	id, err := postIDParam(c)
	if err != nil {
		response.Abort(c, err)
		return
	}
	view, err := h.posts.FindView(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		response.Abort(c, postNotFound())
		return
	}
	if err != nil {
		response.Abort(c, response.Internal(err))
		return
	}
	render(view)
	response.Success(c, gin.H{"post": view})
}

func (h *PostHandler) Create(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		response.Abort(c, err)
		return
	}
	var req createPostRequest
	if err := bindJSON(c, &req); err != nil {
		response.Abort(c, err)
		return
	}

	ctx := c.Request.Context()
	post := &models.Post{UserID: user.ID, Title: req.Title, Content: req.Content}
	if err := h.posts.Create(ctx, post); err != nil {
		response.Abort(c, response.Internal(err))
		return
	}
	view, err := h.posts.FindView(ctx, post.ID)
	if err != nil {
		response.Abort(c, response.Internal(err))
		return
	}
	render(view)
	response.Success(c, gin.H{"post": view})
}

// Delete removes a post owned by the current user.
func (h *PostHandler) Delete(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		response.Abort(c, err)
		return
	}
	id, err := postIDParam(c)
	if err != nil {
		response.Abort(c, err)
		return
	}

	ctx := c.Request.Context()
	owner, err := h.posts.OwnerOf(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		response.Abort(c, postNotFound())
		return
	}
	if err != nil {
		response.Abort(c, response.Internal(err))
		return
	}
	if owner != user.ID {
		response.Abort(c, response.Unauthorized("authorization", "user not authorized to delete this"))
		return
	}

	if err := h.posts.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Abort(c, postNotFound())
			return
		}
		response.Abort(c, response.Internal(err))
		return
	}
	response.Success(c, nil)
}
