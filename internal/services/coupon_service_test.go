// internal/services/coupon_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AkhlaqurRahmanOmi/lottery-system-backend-sub003/internal/models"
)

func TestGenerateCouponsBatch(t *testing.T) {
	db := newTestDB(t)
	admin := createTestAdmin(t, db)
	service := NewCouponService(db)

	coupons, err := service.GenerateCoupons(admin.ID, &GenerateCouponsRequest{Count: 5})
	require.NoError(t, err)
	require.Len(t, coupons, 5)

	seen := map[string]bool{}
	for _, coupon := range coupons {
		assert.Equal(t, models.CouponStatusActive, coupon.Status)
		assert.Equal(t, defaultCodeLength, coupon.CodeLength)
		assert.Len(t, coupon.CouponCode, defaultCodeLength)
		assert.Equal(t, admin.ID, coupon.CreatedBy)
		require.NotNil(t, coupon.BatchID)
		assert.Equal(t, *coupons[0].BatchID, *coupon.BatchID)
		assert.False(t, seen[coupon.CouponCode], "duplicate code %s", coupon.CouponCode)
		seen[coupon.CouponCode] = true
	}

	var total int64
	require.NoError(t, db.Model(&models.Coupon{}).Count(&total).Error)
	assert.EqualValues(t, 5, total)
}

func TestGenerateCouponsCustomLength(t *testing.T) {
	db := newTestDB(t)
	admin := createTestAdmin(t, db)
	service := NewCouponService(db)

	coupons, err := service.GenerateCoupons(admin.ID, &GenerateCouponsRequest{Count: 1, CodeLength: 16})
	require.NoError(t, err)
	assert.Len(t, coupons[0].CouponCode, 16)
}

func TestGenerateCouponsRejectsInvalidCount(t *testing.T) {
	db := newTestDB(t)
	admin := createTestAdmin(t, db)
	service := NewCouponService(db)

	_, err := service.GenerateCoupons(admin.ID, &GenerateCouponsRequest{Count: 0})
	require.Error(t, err)

	_, err = service.GenerateCoupons(admin.ID, &GenerateCouponsRequest{Count: 1001})
	require.Error(t, err)
}

func TestGenerateCouponsRejectsPastExpiry(t *testing.T) {
	db := newTestDB(t)
	admin := createTestAdmin(t, db)
	service := NewCouponService(db)

	past := time.Now().Add(-time.Hour)
	_, err := service.GenerateCoupons(admin.ID, &GenerateCouponsRequest{Count: 1, ExpiresAt: &past})
	assert.True(t, IsInvalidState(err))
}

func TestGetCouponByCode(t *testing.T) {
	db := newTestDB(t)
	admin := createTestAdmin(t, db)
	service := NewCouponService(db)

	created := createTestCoupon(t, db, admin.ID, "LOOKUP1234", nil)

	coupon, err := service.GetCouponByCode("LOOKUP1234")
	require.NoError(t, err)
	assert.Equal(t, created.ID, coupon.ID)

	_, err = service.GetCouponByCode("MISSING999")
	assert.True(t, IsNotFound(err))
}

func TestValidateForRedemptionNotFound(t *testing.T) {
	db := newTestDB(t)
	service := NewCouponService(db)

	_, err := service.ValidateForRedemption("NOSUCHCODE")
	assert.True(t, IsNotFound(err))
}

func TestValidateForRedemptionLazyExpiryPersists(t *testing.T) {
	db := newTestDB(t)
	admin := createTestAdmin(t, db)
	service := NewCouponService(db)

	expired := time.Now().Add(-time.Hour)
	coupon := createTestCoupon(t, db, admin.ID, "EXPIRED123", &expired)

	_, err := service.ValidateForRedemption("EXPIRED123")
	assert.True(t, IsInvalidState(err))

	// The EXPIRED flip outlives the failed validation.
	var reloaded models.Coupon
	require.NoError(t, db.First(&reloaded, coupon.ID).Error)
	assert.Equal(t, models.CouponStatusExpired, reloaded.Status)

	// Subsequent attempts fail the same way without another write.
	_, err = service.ValidateForRedemption("EXPIRED123")
	assert.True(t, IsInvalidState(err))
}

func TestValidateForRedemptionFutureExpiryPasses(t *testing.T) {
	db := newTestDB(t)
	admin := createTestAdmin(t, db)
	service := NewCouponService(db)

	future := time.Now().Add(time.Hour)
	createTestCoupon(t, db, admin.ID, "FUTURE1234", &future)

	coupon, err := service.ValidateForRedemption("FUTURE1234")
	require.NoError(t, err)
	assert.Equal(t, models.CouponStatusActive, coupon.Status)
}

func TestDeactivateCoupon(t *testing.T) {
	db := newTestDB(t)
	admin := createTestAdmin(t, db)
	service := NewCouponService(db)

	coupon := createTestCoupon(t, db, admin.ID, "ACTIVE1234", nil)

	deactivated, err := service.DeactivateCoupon(coupon.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CouponStatusDeactivated, deactivated.Status)

	_, err = service.DeactivateCoupon(coupon.ID)
	assert.True(t, IsConflict(err))

	_, err = service.ValidateForRedemption("ACTIVE1234")
	assert.True(t, IsInvalidState(err))
}

func TestDeactivateRedeemedCouponConflicts(t *testing.T) {
	db := newTestDB(t)
	admin := createTestAdmin(t, db)
	service := NewCouponService(db)

	coupon := createTestCoupon(t, db, admin.ID, "REDEEM1234", nil)
	require.NoError(t, db.Model(coupon).Update("status", models.CouponStatusRedeemed).Error)

	_, err := service.DeactivateCoupon(coupon.ID)
	assert.True(t, IsConflict(err))
}

func TestDeleteCoupon(t *testing.T) {
	db := newTestDB(t)
	admin := createTestAdmin(t, db)
	service := NewCouponService(db)

	coupon := createTestCoupon(t, db, admin.ID, "DELETE1234", nil)

	require.NoError(t, service.DeleteCoupon(coupon.ID))

	err := service.DeleteCoupon(coupon.ID)
	assert.True(t, IsNotFound(err))
}

func TestDeleteRedeemedCouponConflicts(t *testing.T) {
	db := newTestDB(t)
	admin := createTestAdmin(t, db)
	service := NewCouponService(db)

	coupon := createTestCoupon(t, db, admin.ID, "KEEPME1234", nil)
	require.NoError(t, db.Model(coupon).Update("status", models.CouponStatusRedeemed).Error)

	err := service.DeleteCoupon(coupon.ID)
	assert.True(t, IsConflict(err))

	var reloaded models.Coupon
	require.NoError(t, db.First(&reloaded, coupon.ID).Error)
}

func TestListCouponsFilters(t *testing.T) {
	db := newTestDB(t)
	admin := createTestAdmin(t, db)
	service := NewCouponService(db)

	createTestCoupon(t, db, admin.ID, "AAAA111111", nil)
	second := createTestCoupon(t, db, admin.ID, "BBBB222222", nil)
	require.NoError(t, db.Model(second).Update("status", models.CouponStatusDeactivated).Error)

	status := models.CouponStatusActive
	coupons, total, err := service.ListCoupons(CouponFilter{Status: &status})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, coupons, 1)
	assert.Equal(t, "AAAA111111", coupons[0].CouponCode)
}
