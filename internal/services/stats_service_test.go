// internal/services/stats_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/AkhlaqurRahmanOmi/lottery-system-backend-sub003/internal/models"
)

func TestDashboardStatsEmptyDatabase(t *testing.T) {
	db := newTestDB(t)
	service := NewStatsService(db)

	stats, err := service.GetDashboardStats()
	require.NoError(t, err)

	assert.EqualValues(t, 0, stats.TotalCoupons)
	assert.EqualValues(t, 0, stats.TotalSubmissions)
	assert.EqualValues(t, 0, stats.TotalRewardAccounts)
	// Zero denominators never divide.
	assert.Equal(t, 0.0, stats.RedemptionRate)
	assert.Equal(t, 0.0, stats.AssignmentRate)
}

func TestDashboardStatsRates(t *testing.T) {
	db := newTestDB(t)
	admin := createTestAdmin(t, db)
	service := NewStatsService(db)

	createTestCoupon(t, db, admin.ID, "AAAA111111", nil)
	createTestCoupon(t, db, admin.ID, "BBBB222222", nil)
	redeemed := createTestCoupon(t, db, admin.ID, "CCCC333333", nil)
	require.NoError(t, db.Model(redeemed).Update("status", models.CouponStatusRedeemed).Error)

	reward := createTestReward(t, db, "Streaming Premium", true)
	seedSubmission(t, db, redeemed.ID, reward.ID, time.Now(), nil)

	stats, err := service.GetDashboardStats()
	require.NoError(t, err)

	assert.EqualValues(t, 3, stats.TotalCoupons)
	assert.EqualValues(t, 2, stats.ActiveCoupons)
	assert.EqualValues(t, 1, stats.RedeemedCoupons)
	assert.Equal(t, 33.33, stats.RedemptionRate)

	assert.EqualValues(t, 1, stats.TotalSubmissions)
	assert.EqualValues(t, 0, stats.AssignedSubmissions)
	assert.EqualValues(t, 1, stats.UnassignedSubmissions)
	assert.Equal(t, 0.0, stats.AssignmentRate)
}

func TestRewardStatsPopularity(t *testing.T) {
	db := newTestDB(t)
	admin := createTestAdmin(t, db)
	service := NewStatsService(db)

	popular := createTestReward(t, db, "Popular Reward", true)
	unpicked := createTestReward(t, db, "Unpicked Reward", true)

	first := createTestCoupon(t, db, admin.ID, "AAAA111111", nil)
	second := createTestCoupon(t, db, admin.ID, "BBBB222222", nil)
	seedSubmission(t, db, first.ID, popular.ID, time.Now(), nil)
	seedSubmission(t, db, second.ID, popular.ID, time.Now(), nil)

	stats, err := service.GetRewardStats()
	require.NoError(t, err)

	require.Len(t, stats.Popularity, 2)
	assert.Equal(t, popular.ID, stats.Popularity[0].RewardID)
	assert.EqualValues(t, 2, stats.Popularity[0].SelectionCount)
	assert.Equal(t, 100.0, stats.Popularity[0].SelectionRate)
	assert.Equal(t, unpicked.ID, stats.Popularity[1].RewardID)
	assert.EqualValues(t, 0, stats.Popularity[1].SelectionCount)
	assert.Equal(t, 0.0, stats.Popularity[1].SelectionRate)
}

func TestRewardStatsInventoryBuckets(t *testing.T) {
	db := newTestDB(t)
	admin := createTestAdmin(t, db)
	service := NewStatsService(db)

	createTestAccount(t, db, admin.ID, "music")
	createTestAccount(t, db, admin.ID, "streaming")
	assigned := createTestAccount(t, db, admin.ID, "streaming")
	require.NoError(t, db.Model(assigned).Update("status", models.RewardAccountStatusAssigned).Error)

	stats, err := service.GetRewardStats()
	require.NoError(t, err)

	require.Len(t, stats.Inventory, 3)
	counts := map[string]int64{}
	for _, bucket := range stats.Inventory {
		counts[bucket.Category+"/"+bucket.Status] = bucket.Count
	}
	assert.EqualValues(t, 1, counts["music/AVAILABLE"])
	assert.EqualValues(t, 1, counts["streaming/AVAILABLE"])
	assert.EqualValues(t, 1, counts["streaming/ASSIGNED"])
}

func TestSubmissionTrendZeroFills(t *testing.T) {
	db := newTestDB(t)
	admin := createTestAdmin(t, db)
	service := NewStatsService(db)

	fixed := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return fixed }

	reward := createTestReward(t, db, "Streaming Premium", true)
	first := createTestCoupon(t, db, admin.ID, "AAAA111111", nil)
	second := createTestCoupon(t, db, admin.ID, "BBBB222222", nil)
	third := createTestCoupon(t, db, admin.ID, "CCCC333333", nil)
	seedSubmission(t, db, first.ID, reward.ID, fixed, nil)
	seedSubmission(t, db, second.ID, reward.ID, fixed.AddDate(0, 0, -2), nil)
	seedSubmission(t, db, third.ID, reward.ID, fixed.AddDate(0, 0, -2), nil)

	trend, err := service.GetSubmissionTrend(3)
	require.NoError(t, err)
	require.Len(t, trend, 3)

	assert.Equal(t, "2026-08-27", trend[0].Date)
	assert.EqualValues(t, 2, trend[0].Count)
	assert.Equal(t, "2026-08-28", trend[1].Date)
	assert.EqualValues(t, 0, trend[1].Count)
	assert.Equal(t, "2026-08-29", trend[2].Date)
	assert.EqualValues(t, 1, trend[2].Count)
}

func TestSubmissionTrendClampsDays(t *testing.T) {
	db := newTestDB(t)
	service := NewStatsService(db)

	trend, err := service.GetSubmissionTrend(0)
	require.NoError(t, err)
	assert.Len(t, trend, 1)
}

func seedSubmission(t *testing.T, db *gorm.DB, couponID, rewardID uint, submittedAt time.Time, assignedRewardID *uint) *models.Submission {
	t.Helper()
	submission := &models.Submission{
		CouponID:         couponID,
		Name:             "Taro Yamada",
		Email:            "taro@example.com",
		Phone:            "090-1234-5678",
		Address:          "1-2-3 Chiyoda, Tokyo",
		SelectedRewardID: rewardID,
		SubmittedAt:      submittedAt,
		AssignedRewardID: assignedRewardID,
	}
	require.NoError(t, db.Create(submission).Error)
	return submission
}
