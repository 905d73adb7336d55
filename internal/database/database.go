package database

import (
	"context"
	"fmt"
	"time"

	"github.com/01moynul/storefront-api/internal/config"
	"github.com/01moynul/storefront-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open initializes the primary Read/Write connection pool from the config.
func Open(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	// 1. Open the GORM handle on top of the MySQL driver.
	db, err := gorm.Open(mysql.Open(cfg.DBDSN), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger(cfg, log),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// 2. Configure the connection pool settings.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access sql pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	// 3. Ping the database to verify the connection.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info("Database connection pool established successfully",
		zap.Int("max_open_conns", cfg.DBMaxOpenConns),
		zap.Duration("conn_max_lifetime", cfg.DBConnMaxLifetime))
	return db, nil
}

func gormLogger(cfg *config.Config, log *zap.Logger) logger.Interface {
	level := logger.Error
	if cfg.IsDevelopment() {
		level = logger.Warn
	}
	return NewGormLogger(log, level, 200*time.Millisecond)
}

// Models lists every table in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Inventory{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
	}
}

// Migrate creates or updates the schema, including foreign keys and check constraints.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Ping reports whether the database answers within the context deadline.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
