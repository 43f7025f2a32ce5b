package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"postboard/internal/db"
	"postboard/internal/response"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db       *gorm.DB
	sessions Pinger
}

func NewHealthHandler(conn *gorm.DB, sessions Pinger) *HealthHandler {
	return &HealthHandler{db: conn, sessions: sessions}
}

func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := db.Ping(ctx, h.db); err != nil {
		response.Abort(c, response.Internal(fmt.Errorf("database: %w", err)))
		return
	}
	if err := h.sessions.Ping(ctx); err != nil {
		response.Abort(c, response.Internal(fmt.Errorf("sessions: %w", err)))
		return
	}
	response.Success(c, gin.H{"database": "ok", "sessions": "ok"})
}
