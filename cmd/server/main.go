package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"postboard/internal/config"
	"postboard/internal/db"
	"postboard/internal/logging"
	"postboard/internal/router"
	"postboard/internal/session"
)

var envFile string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "postboard",
		Short:         "Social posting backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE:  runServe,
	})
	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE:  runMigrate,
	})
	return root
}

func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	conn, err := db.Open(cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer db.Close(conn)

	if err := db.Migrate(conn); err != nil {
		return err
	}
	logger.Info("database migration completed")
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if !cfg.SessionSecure {
		logger.Warn("session cookie is not marked Secure; set SESSION_SECURE=true behind TLS")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer db.Close(conn)
	logger.Info("database connection established")

	if cfg.AutoMigrate {
		if err := db.Migrate(conn); err != nil {
			return err
		}
		logger.Info("database migration completed")
	}

	client, err := session.Connect(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	defer client.Close()
	logger.Info("redis connected")

	if err := os.MkdirAll(cfg.AssetsDir, 0o755); err != nil {
		return fmt.Errorf("create assets dir: %w", err)
	}

	store, err := session.NewRedisStore(ctx, client, []byte(cfg.SessionSecret))
	if err != nil {
		return err
	}

	engine, err := router.New(router.Deps{
		DB:       conn,
		Sessions: store,
		Logger:   logger,
		Config:   cfg,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
