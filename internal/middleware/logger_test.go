package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"postboard/internal/response"
)

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := gin.New()
	r.Use(RequestLogger(zap.New(core)), Metrics())
	r.GET("/ok", func(c *gin.Context) { response.Success(c, nil) })
	r.GET("/boom", func(c *gin.Context) { response.Abort(c, errors.New("disk full")) })

	for _, path := range []string{"/ok", "/boom"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "/ok", entries[0].ContextMap()["path"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	fields := entries[1].ContextMap()
	assert.EqualValues(t, http.StatusInternalServerError, fields["status"])
	assert.Equal(t, "disk full", fields["error"])
}
