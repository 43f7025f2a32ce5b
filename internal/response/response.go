// Package response renders the {status, message, data} envelope every
// endpoint replies with.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"postboard/internal/metrics"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusFail    Status = "fail"
	StatusError   Status = "error"
)

type Envelope struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

const internalMessage = "internal server error"

// Success writes a 200 success envelope. A nil data omits the field.
func Success(c *gin.Context, data any) {
	write(c, http.StatusOK, Envelope{Status: StatusSuccess, Data: data})
}

// Abort writes the envelope for err and stops the handler chain. Errors
// that are not *Error are rendered as internal failures.
func Abort(c *gin.Context, err error) {
	var e *Error
	if !errors.As(err, &e) {
		e = Internal(err)
	}
	if e.Err != nil {
		_ = c.Error(e.Err)
	}
	code, env := e.envelope()
	write(c, code, env)
	c.Abort()
}

func write(c *gin.Context, code int, env Envelope) {
	metrics.ResponsesByStatus.WithLabelValues(string(env.Status)).Inc()
	c.JSON(code, env)
}
