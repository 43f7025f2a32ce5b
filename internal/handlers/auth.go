package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"postboard/internal/middleware"
	"postboard/internal/models"
	"postboard/internal/repository"
	"postboard/internal/response"
	"postboard/internal/utils"
	"postboard/internal/validation"
)

type AuthHandler struct {
	users       *repository.UserRepository
	store       sessions.Store
	sessionName string
}

func NewAuthHandler(users *repository.UserRepository, store sessions.Store, sessionName string) *AuthHandler {
	return &AuthHandler{users: users, store: store, sessionName: sessionName}
}

type registerRequest struct {
	Username string `json:"username" binding:"username_len"`
	Email    string `json:"email" binding:"email_len"`
	Password string `json:"password" binding:"password_len"`
}

type loginRequest struct {
	Username string `json:"username" binding:"username_len"`
	Password string `json:"password" binding:"password_len"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := bindJSON(c, &req); err != nil {
		response.Abort(c, err)
		return
	}
	req.Email = strings.ToLower(req.Email)
	ctx := c.Request.Context()

	conflicts, err := h.conflicts(ctx, req.Username, req.Email)
	if err != nil {
		response.Abort(c, response.Internal(err))
		return
	}
	if !conflicts.Empty() {
		response.Abort(c, response.Conflict(conflicts))
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		response.Abort(c, response.Internal(err))
		return
	}

	user := &models.User{Username: req.Username, Email: req.Email, Password: hash}
	if _, err := h.users.CreateWithProfile(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// lost a race with a concurrent registration
			if conflicts, cerr := h.conflicts(ctx, req.Username, req.Email); cerr == nil && !conflicts.Empty() {
				response.Abort(c, response.Conflict(conflicts))
				return
			}
		}
		response.Abort(c, response.Internal(err))
		return
	}

	response.Success(c, nil)
}

// conflicts reports every taken field, not just the first.
func (h *AuthHandler) conflicts(ctx context.Context, username, email string) (validation.Errors, error) {
	errs := validation.Errors{}
	taken, err := h.users.UsernameExists(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		errs["username"] = "username already exists"
	}
	taken, err = h.users.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		errs["email"] = "email already exists"
	}
	return errs, nil
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		response.Abort(c, err)
		return
	}

	user, err := h.users.FindByUsername(c.Request.Context(), req.Username)
	if errors.Is(err, repository.ErrNotFound) {
		utils.BurnPasswordCheck(req.Password)
		response.Abort(c, response.NotFound("username", "user does not exist"))
		return
	}
	if err != nil {
		response.Abort(c, response.Internal(err))
		return
	}
	if !utils.CheckPasswordHash(req.Password, user.Password) {
		response.Abort(c, response.Unauthorized("password", "password is incorrect"))
		return
	}

	session, err := middleware.LoadSession(c, h.store, h.sessionName)
	if err != nil {
		response.Abort(c, response.Internal(err))
		return
	}
	session.Clear()
	session.Set(middleware.SessionUserKey, user.ID.String())
	if err := session.Save(); err != nil {
		response.Abort(c, response.Internal(err))
		return
	}

	response.Success(c, gin.H{"username": user.Username})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session, err := middleware.LoadSession(c, h.store, h.sessionName)
	if err != nil {
		response.Abort(c, response.Internal(err))
		return
	}
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		response.Abort(c, response.Internal(err))
		return
	}
	response.Success(c, nil)
}

func (h *AuthHandler) Status(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		response.Abort(c, err)
		return
	}
	response.Success(c, gin.H{"is_logged_in": true, "username": user.Username})
}
