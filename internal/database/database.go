// Package database opens the SQL (PostgreSQL or MySQL) and Redis connections of the service.
package database

import (
	"context"
	"fmt"
	"time"

	"tutormatch/backend/internal/config"
	"tutormatch/backend/internal/storage"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const pingTimeout = 5 * time.Second

// dialector picks the GORM driver; PostgreSQL unless MySQL is configured.
func dialector(cfg *config.DatabaseConfig) gorm.Dialector {
	if cfg.Driver == config.DriverMySQL {
		return mysql.Open(cfg.DSN())
	}
	return postgres.Open(cfg.DSN())
}

// NewDB connects to the database, applies the pool settings and runs the migrations.
func NewDB(cfg *config.DatabaseConfig, logger *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(dialector(cfg), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s: %w", db.Dialector.Name(), err)
	}

	// Міграції (створення таблиць)
	if err := storage.Migrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("database connected, migrations complete",
		zap.String("driver", db.Dialector.Name()), zap.String("host", cfg.Host), zap.String("db", cfg.Name))
	return db, nil
}

// NewRedis returns nil without error when no address is configured.
// An unreachable server is an error; the caller decides whether to run without it.
func NewRedis(cfg *config.RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}
