package router

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"postboard/internal/config"
	"postboard/internal/handlers"
	"postboard/internal/middleware"
	"postboard/internal/repository"
	"postboard/internal/response"
	"postboard/internal/services"
	"postboard/internal/validation"
)

// SessionStore is a gin-contrib store that can report its health.
type SessionStore interface {
	sessions.Store
	Ping(ctx context.Context) error
}

type Deps struct {
	DB       *gorm.DB
	Sessions SessionStore
	Logger   *zap.Logger
	Config   *config.Config
}

// New builds the engine with every route registered.
func New(deps Deps) (*gin.Engine, error) {
	if err := validation.RegisterBindings(); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	deps.Sessions.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionTTL.Seconds()),
		Secure:   cfg.SessionSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	r := gin.New()
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		response.Abort(c, response.Internal(fmt.Errorf("panic: %v", recovered)))
	}))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Metrics())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Origins(),
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Authorization", "Accept", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(sessions.Sessions(cfg.SessionName, deps.Sessions))

	RegisterRoutes(r, deps)
	return r, nil
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	cfg := deps.Config
	repos := repository.New(deps.DB)
	auth := middleware.AuthRequired(repos.Users, deps.Sessions, cfg.SessionName)

	authHandler := handlers.NewAuthHandler(repos.Users, deps.Sessions, cfg.SessionName)
	userHandler := handlers.NewUserHandler(repos.Users, repos.Profiles)
	profileHandler := handlers.NewProfileHandler(repos.Profiles, services.NewAvatarStore(cfg.AssetsDir), cfg.MaxAvatarBytes)
	postHandler := handlers.NewPostHandler(repos.Posts)
	commentHandler := handlers.NewCommentHandler(repos.Posts, repos.Comments)
	reactionHandler := handlers.NewReactionHandler(repos.Posts, repos.Reactions)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Sessions)

	r.GET("/health", healthHandler.Check)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static("/assets", cfg.AssetsDir)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/logout", auth, authHandler.Logout)
		authGroup.POST("/status", auth, authHandler.Status)
	}

	r.GET("/users", userHandler.List)
	r.GET("/user/:username", userHandler.Profile)
	r.POST("/profile/upload", auth, profileHandler.UploadAvatar)

	posts := r.Group("/posts")
	{
		posts.GET("", postHandler.List)
		posts.POST("", auth, postHandler.Create)
		posts.GET("/:post_id", postHandler.Get)
		posts.DELETE("/:post_id", auth, postHandler.Delete)
		posts.POST("/:post_id/react", auth, reactionHandler.React)
		posts.GET("/:post_id/comments", commentHandler.List)
		posts.POST("/:post_id/comments", auth, commentHandler.Create)
	}

	r.NoRoute(func(c *gin.Context) {
		response.Abort(c, response.RouteNotFound())
	})
}
