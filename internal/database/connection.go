// internal/database/connection.go
package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/AkhlaqurRahmanOmi/lottery-system-backend-sub003/internal/config"
	"github.com/AkhlaqurRahmanOmi/lottery-system-backend-sub003/internal/models"
)

var DB *gorm.DB

// Initialize opens the database connection and configures the pool.
func Initialize(cfg *config.DatabaseConfig) error {
	var err error

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel(cfg.LogLevel)),
		// Surface unique violations as gorm.ErrDuplicatedKey so callers
		// can map them to conflicts without inspecting driver errors.
		TranslateError: true,
	}

	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.Info("Database connection established")
	return nil
}

// RunMigrations creates or updates the schema for all models.
func RunMigrations() error {
	logrus.Info("Running database migrations...")

	err := DB.AutoMigrate(
		&models.Admin{},
		&models.Reward{},
		&models.RewardAccount{},
		&models.Coupon{},
		&models.Submission{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logrus.Info("Database migrations completed")
	return nil
}

func createIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_coupons_status ON coupons(status)",
		"CREATE INDEX IF NOT EXISTS idx_coupons_expires_at ON coupons(expires_at)",
		"CREATE INDEX IF NOT EXISTS idx_reward_accounts_status ON reward_accounts(status)",
		"CREATE INDEX IF NOT EXISTS idx_reward_accounts_assigned_at ON reward_accounts(assigned_at)",
		"CREATE INDEX IF NOT EXISTS idx_submissions_submitted_at ON submissions(submitted_at)",
		"CREATE INDEX IF NOT EXISTS idx_submissions_selected_reward ON submissions(selected_reward_id)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_resource ON audit_logs(resource_type, resource_id)",
	}

	for _, index := range indexes {
		if err := DB.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// SeedInitialData creates the default admin account and reward catalog
// when the database is empty.
func SeedInitialData() error {
	var adminCount int64
	if err := DB.Model(&models.Admin{}).Count(&adminCount).Error; err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}

	if adminCount == 0 {
		admin := &models.Admin{
			Username: "admin",
			Email:    "admin@lottery-system.local",
			Status:   models.AdminStatusActive,
		}
		if err := admin.SetPassword("admin123!"); err != nil {
			return fmt.Errorf("failed to hash default admin password: %w", err)
		}
		if err := DB.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to seed default admin: %w", err)
		}
		logrus.Warn("Seeded default admin account; change its password before going live")
	}

	var rewardCount int64
	if err := DB.Model(&models.Reward{}).Count(&rewardCount).Error; err != nil {
		return fmt.Errorf("failed to count rewards: %w", err)
	}

	if rewardCount == 0 {
		rewards := []models.Reward{
			{Name: "Streaming Premium", Description: "One month of premium streaming", IsActive: true, DisplayOrder: 1},
			{Name: "Music Unlimited", Description: "One month of ad-free music", IsActive: true, DisplayOrder: 2},
			{Name: "Cloud Storage Plus", Description: "Extra cloud storage for a month", IsActive: true, DisplayOrder: 3},
		}
		if err := DB.Create(&rewards).Error; err != nil {
			return fmt.Errorf("failed to seed reward catalog: %w", err)
		}
		logrus.Info("Seeded default reward catalog")
	}

	return nil
}

// Close closes the database connection.
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func logLevel(level string) logger.LogLevel {
	switch level {
	case "info":
		return logger.Info
	case "warn":
		return logger.Warn
	case "error":
		return logger.Error
	default:
		return logger.Silent
	}
}
