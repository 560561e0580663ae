package db

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tahoak/park-collective/internal/config"
	"github.com/tahoak/park-collective/internal/models"
)

func NewDB(cfg config.DatabaseConfig, logger *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.URL), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.UserRole{},
		&models.Category{},
		&models.Tag{},
		&models.Entity{},
		&models.EntityTag{},
		&models.PendingChange{},
		&models.EntityClaim{},
		&models.Subscriber{},
		&models.AuditLog{},
	); err != nil {
		return nil, err
	}

	logger.Info("database ready")
	return db, nil
}
