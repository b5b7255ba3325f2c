// internal/handlers/submission_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/AkhlaqurRahmanOmi/lottery-system-backend-sub003/internal/models"
	"github.com/AkhlaqurRahmanOmi/lottery-system-backend-sub003/internal/services"
	"github.com/AkhlaqurRahmanOmi/lottery-system-backend-sub003/internal/utils"
)

type redemptionFixture struct {
	db     *gorm.DB
	router *gin.Engine
	admin  *models.Admin
	reward *models.Reward
}

func newRedemptionFixture(t *testing.T) *redemptionFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

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
	))

	admin := &models.Admin{Username: "admin", Email: "admin@example.com", Status: models.AdminStatusActive}
	require.NoError(t, admin.SetPassword("password123"))
	require.NoError(t, db.Create(admin).Error)

	reward := &models.Reward{Name: "Streaming Premium", IsActive: true}
	require.NoError(t, db.Create(reward).Error)

	cipher, err := utils.NewAESCipher("test-secret")
	require.NoError(t, err)

	couponService := services.NewCouponService(db)
	rewardService := services.NewRewardService(db, cipher, services.DefaultRetentionDays)
	submissionService := services.NewSubmissionService(db, couponService, rewardService)
	handler := NewSubmissionHandler(submissionService)

	router := gin.New()
	router.POST("/v1/submissions", handler.Create)

	return &redemptionFixture{db: db, router: router, admin: admin, reward: reward}
}

func (f *redemptionFixture) createCoupon(t *testing.T, code string, expiresAt *time.Time) *models.Coupon {
	t.Helper()
	coupon := &models.Coupon{
		CouponCode: code,
		CodeLength: len(code),
		Status:     models.CouponStatusActive,
		CreatedBy:  f.admin.ID,
		ExpiresAt:  expiresAt,
	}
	require.NoError(t, f.db.Create(coupon).Error)
	return coupon
}

func (f *redemptionFixture) postSubmission(t *testing.T, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	jsonData, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest("POST", "/v1/submissions", bytes.NewBuffer(jsonData))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "handler-test")

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func submissionBody(code string, rewardID uint) map[string]interface{} {
	return map[string]interface{}{
		"coupon_code":        code,
		"name":               "Taro Yamada",
		"email":              "taro@example.com",
		"phone":              "090-1234-5678",
		"address":            "1-2-3 Chiyoda, Tokyo",
		"selected_reward_id": rewardID,
	}
}

func TestPublicRedemptionEndpoint(t *testing.T) {
	f := newRedemptionFixture(t)
	f.createCoupon(t, "TEST123456", nil)

	w := f.postSubmission(t, submissionBody("TEST123456", f.reward.ID))
	assert.Equal(t, http.StatusCreated, w.Code)

	var response utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Success)

	// Provenance is taken from the request, never the payload.
	var submission models.Submission
	require.NoError(t, f.db.First(&submission).Error)
	assert.Equal(t, "handler-test", submission.UserAgent)
	assert.NotEmpty(t, submission.IPAddress)
}

func TestPublicRedemptionSecondAttemptIsConflict(t *testing.T) {
	f := newRedemptionFixture(t)
	f.createCoupon(t, "TEST123456", nil)

	w := f.postSubmission(t, submissionBody("TEST123456", f.reward.ID))
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.postSubmission(t, submissionBody("TEST123456", f.reward.ID))
	assert.Equal(t, http.StatusConflict, w.Code)

	var response utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotNil(t, response.Error)
	assert.Equal(t, "CONFLICT", response.Error.Code)
}

func TestPublicRedemptionUnknownCouponIs404(t *testing.T) {
	f := newRedemptionFixture(t)

	w := f.postSubmission(t, submissionBody("NOSUCHCODE", f.reward.ID))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPublicRedemptionExpiredCouponIs422(t *testing.T) {
	f := newRedemptionFixture(t)
	expired := time.Now().Add(-time.Hour)
	f.createCoupon(t, "EXPIRED123", &expired)

	w := f.postSubmission(t, submissionBody("EXPIRED123", f.reward.ID))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var response utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotNil(t, response.Error)
	assert.Equal(t, "INVALID_STATE", response.Error.Code)
}

func TestPublicRedemptionValidation(t *testing.T) {
	f := newRedemptionFixture(t)
	f.createCoupon(t, "TEST123456", nil)

	body := submissionBody("TEST123456", f.reward.ID)
	body["email"] = "not-an-email"

	w := f.postSubmission(t, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The failed attempt must not consume the coupon.
	var coupon models.Coupon
	require.NoError(t, f.db.Where("coupon_code = ?", "TEST123456").First(&coupon).Error)
	assert.Equal(t, models.CouponStatusActive, coupon.Status)
}
