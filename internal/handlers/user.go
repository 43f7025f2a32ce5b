package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"postboard/internal/repository"
	"postboard/internal/response"
)

type UserHandler struct {
	users    *repository.UserRepository
	profiles *repository.ProfileRepository
}

func NewUserHandler(users *repository.UserRepository, profiles *repository.ProfileRepository) *UserHandler {
	return &UserHandler{users: users, profiles: profiles}
}

// List returns the profile summary of every user.
func (h *UserHandler) List(c *gin.Context) {
	summaries, err := h.users.ListProfiles(c.Request.Context())
	if err != nil {
		response.Abort(c, response.Internal(err))
		return
	}
	response.Success(c, gin.H{"users": summaries})
}

func (h *UserHandler) Profile(c *gin.Context) {
	ctx := c.Request.Context()
	user, err := h.users.FindByUsername(ctx, c.Param("username"))
	if errors.Is(err, repository.ErrNotFound) {
		response.Abort(c, response.NotFound("user", "user not found"))
		return
	}
	if err != nil {
		response.Abort(c, response.Internal(err))
		return
	}

	view, err := h.profiles.View(ctx, user)
	if errors.Is(err, repository.ErrNotFound) {
		response.Abort(c, response.NotFound("profile", "profile not found"))
		return
	}
	if err != nil {
		response.Abort(c, response.Internal(err))
		return
	}
	response.Success(c, gin.H{"profile": view})
}
