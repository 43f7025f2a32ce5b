package middleware

import (
	"context"
	"errors"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"postboard/internal/models"
	"postboard/internal/repository"
	"postboard/internal/response"
)

const (
	CheckUserKey = "user"
	// SessionUserKey holds the user id as a string in the session.
	SessionUserKey = "user_id"
)

type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// LoadSession returns the request's session, or the store error that
// sessions.Default only logs.
func LoadSession(c *gin.Context, store sessions.Store, name string) (sessions.Session, error) {
	if _, err := store.Get(c.Request, name); err != nil {
		return nil, err
	}
	return sessions.Default(c), nil
}

// AuthRequired resolves the session to a user and refreshes the session
// expiry. Requests without a live session get the unauthenticated fail;
// a store failure is internal.
func AuthRequired(users UserFinder, store sessions.Store, name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := LoadSession(c, store, name)
		if err != nil {
			response.Abort(c, response.Internal(err))
			return
		}
		raw, _ := session.Get(SessionUserKey).(string)
		userID, err := uuid.Parse(raw)
		if err != nil {
			response.Abort(c, response.Unauthenticated())
			return
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		if errors.Is(err, repository.ErrNotFound) {
			// account is gone
			session.Clear()
			session.Options(sessions.Options{Path: "/", MaxAge: -1})
			if err := session.Save(); err != nil {
				_ = c.Error(err)
			}
			response.Abort(c, response.Unauthenticated())
			return
		}
		if err != nil {
			response.Abort(c, response.Internal(err))
			return
		}

		session.Set(SessionUserKey, user.ID.String())
		if err := session.Save(); err != nil {
			response.Abort(c, response.Internal(err))
			return
		}

		c.Set(CheckUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user set by AuthRequired.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(CheckUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
