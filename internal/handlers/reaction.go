package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"postboard/internal/repository"
	"postboard/internal/response"
)

type ReactionHandler struct {
	posts     *repository.PostRepository
	reactions *repository.ReactionRepository
}

func NewReactionHandler(posts *repository.PostRepository, reactions *repository.ReactionRepository) *ReactionHandler {
	return &ReactionHandler{posts: posts, reactions: reactions}
}

type reactRequest struct {
	IsLike *bool `json:"is_like" binding:"required"`
}

// React sets the user's like or dislike on a post and returns the new
// tallies.
func (h *ReactionHandler) React(c *gin.Context) {
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
	var req reactRequest
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

	if err := h.reactions.Upsert(ctx, user.ID, postID, *req.IsLike); err != nil {
		if errors.Is(err, repository.ErrMissingParent) {
			response.Abort(c, postNotFound())
			return
		}
		response.Abort(c, response.Internal(err))
		return
	}
	counts, err := h.reactions.Counts(ctx, postID)
	if err != nil {
		response.Abort(c, response.Internal(err))
		return
	}
	response.Success(c, gin.H{
		"post_id":       postID,
		"like_count":    counts.Likes,
		"dislike_count": counts.Dislikes,
	})
}
