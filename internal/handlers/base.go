package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"postboard/internal/middleware"
	"postboard/internal/models"
	"postboard/internal/response"
	"postboard/internal/validation"
)

// bindJSON decodes and validates the body. Length failures become a
// validation fail, anything else a malformed-input error.
func bindJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		if errs, ok := validation.FromBinding(err); ok {
			return response.Validation(errs)
		}
		return response.Malformed("invalid json data")
	}
	return nil
}

func postIDParam(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("post_id"))
	if err != nil {
		return uuid.Nil, response.InvalidField("post_id", "not a valid UUID")
	}
	return id, nil
}

func currentUser(c *gin.Context) (*models.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, response.Unauthenticated()
	}
	return user, nil
}

func postNotFound() *response.Error {
	return response.NotFound("post", "post does not exist")
}
