package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"postboard/internal/models"
	"postboard/internal/repository"
	"postboard/internal/response"
)

type CommentHandler struct {
	posts    *repository.PostRepository
	comments *repository.CommentRepository
}

func NewCommentHandler(posts *repository.PostRepository, comments *repository.CommentRepository) *CommentHandler {
	return &CommentHandler{posts: posts, comments: comments}
}

type createCommentRequest struct {
	Content string `json:"content" binding:"content_len"`
}

func (h *CommentHandler) List(c *gin.Context) {
	postID, err := postIDParam(c)
	if err != nil {
		response.Abort(c, err)
		return
	}
	ctx := c.Request.Context()
	exists, err := h.posts.Exists(ctx, postID)
	if err != nil {
		response.Abort(c, response.Internal(err))
		return
	}
	if !exists {
		response.Abort(c, postNotFound())
		return
	}

	comments, err := h.comments.ListByPost(ctx, postID)
	if err != nil {
		response.Abort(c, response.Internal(err))
		return
	}
	response.Success(c, gin.H{"comments": comments})
}

func (h *CommentHandler) Create(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		response.Abort(c, err)
		return
	}
	postID, err := postIDParam(c)
	if err != nil {
		response.Abort(c, err)
		return
	}
	var req createCommentRequest
	if err := bindJSON(c, &req); err != nil {
		response.Abort(c, err)
		return
	}

	ctx := c.Request.Context()
	exists, err := h.posts.Exists(ctx, postID)
	if err != nil {
		response.Abort(c, response.Internal(err))
		return
	}
	if !exists {
		response.Abort(c, postNotFound())
		return
	}

	comment := &models.Comment{PostID: postID, UserID: user.ID, Content: req.Content}
	if err := h.comments.Create(ctx, comment); err != nil {
		if errors.Is(err, repository.ErrMissingParent) {
			response.Abort(c, postNotFound())
			return
		}
		response.Abort(c, response.Internal(err))
		return
	}
	response.Success(c, nil)
}
