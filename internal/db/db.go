// Package db opens the gorm connection and owns the schema migration.
package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"postboard/internal/models"
)

// Open connects to Postgres.
func Open(dsn string, logger *zap.Logger) (*gorm.DB, error) {
	return OpenDialector(postgres.Open(dsn), logger)
}

// OpenDialector opens any gorm dialector with the shared settings. Unique
// violations come back as gorm.ErrDuplicatedKey.
func OpenDialector(dialector gorm.Dialector, logger *zap.Logger) (*gorm.DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	conn, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(
			zap.NewStdLog(logger.Named("gorm")),
			gormlogger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return conn, nil
}

func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func Ping(ctx context.Context, conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close(conn *gorm.DB) {
	sqlDB, err := conn.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("close database: %v", err)
	}
}
