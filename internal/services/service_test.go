// internal/services/service_test.go
package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/AkhlaqurRahmanOmi/lottery-system-backend-sub003/internal/models"
	"github.com/AkhlaqurRahmanOmi/lottery-system-backend-sub003/internal/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared-cache database keeps the schema visible across the
	// pooled connections.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Admin{},
		&models.Reward{},
		&models.RewardAccount{},
		&models.Coupon{},
		&models.Submission{},
		&models.AuditLog{},
	))

	return db
}

func newTestCipher(t *testing.T) *utils.AESCipher {
	t.Helper()
	cipher, err := utils.NewAESCipher("test-credential-secret")
	require.NoError(t, err)
	return cipher
}

func createTestAdmin(t *testing.T, db *gorm.DB) *models.Admin {
	t.Helper()
	admin := &models.Admin{
		Username: "admin-" + uuid.NewString()[:8],
		Email:    uuid.NewString()[:8] + "@example.com",
		Status:   models.AdminStatusActive,
	}
	require.NoError(t, admin.SetPassword("password123"))
	require.NoError(t, db.Create(admin).Error)
	return admin
}

func createTestReward(t *testing.T, db *gorm.DB, name string, active bool) *models.Reward {
	t.Helper()
	reward := &models.Reward{
		Name:     name,
		IsActive: active,
	}
	require.NoError(t, db.Create(reward).Error)
	return reward
}

func createTestCoupon(t *testing.T, db *gorm.DB, adminID uint, code string, expiresAt *time.Time) *models.Coupon {
	t.Helper()
	coupon := &models.Coupon{
		CouponCode: code,
		CodeLength: len(code),
		Status:     models.CouponStatusActive,
		CreatedBy:  adminID,
		ExpiresAt:  expiresAt,
	}
	require.NoError(t, db.Create(coupon).Error)
	return coupon
}

func createTestAccount(t *testing.T, db *gorm.DB, adminID uint, category string) *models.RewardAccount {
	t.Helper()
	account := &models.RewardAccount{
		ServiceName:          "Streaming Premium",
		AccountType:          "premium",
		EncryptedCredentials: "encrypted-placeholder",
		Category:             category,
		Status:               models.RewardAccountStatusAvailable,
		CreatedBy:            adminID,
	}
	require.NoError(t, db.Create(account).Error)
	return account
}

func validSubmissionRequest(code string, rewardID uint) *CreateSubmissionRequest {
	return &CreateSubmissionRequest{
		CouponCode:       code,
		Name:             "Taro Yamada",
		Email:            "taro@example.com",
		Phone:            "090-1234-5678",
		Address:          "1-2-3 Chiyoda, Tokyo",
		SelectedRewardID: rewardID,
	}
}
