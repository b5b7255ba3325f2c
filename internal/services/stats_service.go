// internal/services/stats_service.go
package services

import (
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/AkhlaqurRahmanOmi/lottery-system-backend-sub003/internal/models"
)

type StatsService struct {
	db  *gorm.DB
	now func() time.Time
}

type DashboardStats struct {
	TotalCoupons       int64 `json:"total_coupons"`
	ActiveCoupons      int64 `json:"active_coupons"`
	RedeemedCoupons    int64 `json:"redeemed_coupons"`
	ExpiredCoupons     int64 `json:"expired_coupons"`
	DeactivatedCoupons int64 `json:"deactivated_coupons"`

	TotalSubmissions      int64 `json:"total_submissions"`
	AssignedSubmissions   int64 `json:"assigned_submissions"`
	UnassignedSubmissions int64 `json:"unassigned_submissions"`

	TotalRewardAccounts       int64 `json:"total_reward_accounts"`
	AvailableRewardAccounts   int64 `json:"available_reward_accounts"`
	AssignedRewardAccounts    int64 `json:"assigned_reward_accounts"`
	ExpiredRewardAccounts     int64 `json:"expired_reward_accounts"`
	DeactivatedRewardAccounts int64 `json:"deactivated_reward_accounts"`

	// Percentages rounded to 2 decimals; 0 when the denominator is 0.
	RedemptionRate float64 `json:"redemption_rate"`
	AssignmentRate float64 `json:"assignment_rate"`
}

type RewardPopularity struct {
	RewardID       uint    `json:"reward_id"`
	RewardName     string  `json:"reward_name"`
	SelectionCount int64   `json:"selection_count"`
	SelectionRate  float64 `json:"selection_rate"`
}

type InventoryBucket struct {
	Category string `json:"category"`
	Status   string `json:"status"`
	Count    int64  `json:"count"`
}

type RewardStats struct {
	Popularity []RewardPopularity `json:"popularity"`
	Inventory  []InventoryBucket  `json:"inventory"`
}

type TrendPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{
		db:  db,
		now: time.Now,
	}
}

func (s *StatsService) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	couponCounts := map[models.CouponStatus]*int64{
		models.CouponStatusActive:      &stats.ActiveCoupons,
		models.CouponStatusRedeemed:    &stats.RedeemedCoupons,
		models.CouponStatusExpired:     &stats.ExpiredCoupons,
		models.CouponStatusDeactivated: &stats.DeactivatedCoupons,
	}
	if err := s.db.Model(&models.Coupon{}).Count(&stats.TotalCoupons).Error; err != nil {
		return nil, fmt.Errorf("failed to count coupons: %w", err)
	}
	for status, dest := range couponCounts {
		if err := s.db.Model(&models.Coupon{}).Where("status = ?", status).Count(dest).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s coupons: %w", status, err)
		}
	}

	if err := s.db.Model(&models.Submission{}).Count(&stats.TotalSubmissions).Error; err != nil {
		return nil, fmt.Errorf("failed to count submissions: %w", err)
	}
	if err := s.db.Model(&models.Submission{}).
		Where("assigned_reward_id IS NOT NULL").Count(&stats.AssignedSubmissions).Error; err != nil {
		return nil, fmt.Errorf("failed to count assigned submissions: %w", err)
	}
	stats.UnassignedSubmissions = stats.TotalSubmissions - stats.AssignedSubmissions

	accountCounts := map[models.RewardAccountStatus]*int64{
		models.RewardAccountStatusAvailable:   &stats.AvailableRewardAccounts,
		models.RewardAccountStatusAssigned:    &stats.AssignedRewardAccounts,
		models.RewardAccountStatusExpired:     &stats.ExpiredRewardAccounts,
		models.RewardAccountStatusDeactivated: &stats.DeactivatedRewardAccounts,
	}
	if err := s.db.Model(&models.RewardAccount{}).Count(&stats.TotalRewardAccounts).Error; err != nil {
		return nil, fmt.Errorf("failed to count reward accounts: %w", err)
	}
	for status, dest := range accountCounts {
		if err := s.db.Model(&models.RewardAccount{}).Where("status = ?", status).Count(dest).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s reward accounts: %w", status, err)
		}
	}

	stats.RedemptionRate = percentage(stats.RedeemedCoupons, stats.TotalCoupons)
	stats.AssignmentRate = percentage(stats.AssignedSubmissions, stats.TotalSubmissions)

	return stats, nil
}

func (s *StatsService) GetRewardStats() (*RewardStats, error) {
	stats := &RewardStats{
		Popularity: []RewardPopularity{},
		Inventory:  []InventoryBucket{},
	}

	var totalSubmissions int64
	if err := s.db.Model(&models.Submission{}).Count(&totalSubmissions).Error; err != nil {
		return nil, fmt.Errorf("failed to count submissions: %w", err)
	}

	rows := []struct {
		RewardID       uint
		RewardName     string
		SelectionCount int64
	}{}
	err := s.db.Model(&models.Reward{}).
		Select("rewards.id AS reward_id, rewards.name AS reward_name, COUNT(submissions.id) AS selection_count").
		Joins("LEFT JOIN submissions ON submissions.selected_reward_id = rewards.id").
		Group("rewards.id, rewards.name").
		Order("selection_count DESC, rewards.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate reward popularity: %w", err)
	}

	for _, row := range rows {
		stats.Popularity = append(stats.Popularity, RewardPopularity{
			RewardID:       row.RewardID,
			RewardName:     row.RewardName,
			SelectionCount: row.SelectionCount,
			SelectionRate:  percentage(row.SelectionCount, totalSubmissions),
		})
	}

	err = s.db.Model(&models.RewardAccount{}).
		Select("category, status, COUNT(*) AS count").
		Group("category, status").
		Order("category ASC, status ASC").
		Scan(&stats.Inventory).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate inventory: %w", err)
	}

	return stats, nil
}

// GetSubmissionTrend returns one bucket per day for the trailing window,
// zero-filled so the series has no gaps.
func (s *StatsService) GetSubmissionTrend(days int) ([]TrendPoint, error) {
	if days < 1 {
		days = 1
	}
	if days > 365 {
		days = 365
	}

	today := s.now().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, -(days - 1))

	rows := []struct {
		Day   string
		Count int64
	}{}
	err := s.db.Model(&models.Submission{}).
		Select("DATE(submitted_at) AS day, COUNT(*) AS count").
		Where("submitted_at >= ?", since).
		Group("DATE(submitted_at)").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate submission trend: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		// Drivers may return DATE as a full timestamp string.
		day := row.Day
		if len(day) > 10 {
			day = day[:10]
		}
		counts[day] = row.Count
	}

	trend := make([]TrendPoint, 0, days)
	for i := 0; i < days; i++ {
		day := since.AddDate(0, 0, i).Format("2006-01-02")
		trend = append(trend, TrendPoint{Date: day, Count: counts[day]})
	}

	return trend, nil
}

func percentage(numerator, denominator int64) float64 {
	if denominator == 0 {
		return 0
	}
	return math.Round(float64(numerator)/float64(denominator)*10000) / 100
}
