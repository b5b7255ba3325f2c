// internal/services/coupon_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AkhlaqurRahmanOmi/lottery-system-backend-sub003/internal/models"
	"github.com/AkhlaqurRahmanOmi/lottery-system-backend-sub003/internal/utils"
)

const (
	defaultCodeLength = 10

	// Collision retries per code before giving up on a batch.
	codeGenerationAttempts = 5
)

type CouponService struct {
	db  *gorm.DB
	now func() time.Time
}

type GenerateCouponsRequest struct {
	Count      int        `json:"count" validate:"required,gte=1,lte=1000"`
	CodeLength int        `json:"code_length" validate:"omitempty,gte=6,lte=32"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

type CouponFilter struct {
	utils.PaginationParams
	Status        *models.CouponStatus `json:"status,omitempty"`
	BatchID       *string              `json:"batch_id,omitempty"`
	CreatedBy     *uint                `json:"created_by,omitempty"`
	CreatedAfter  *time.Time           `json:"created_after,omitempty"`
	CreatedBefore *time.Time           `json:"created_before,omitempty"`
}

func NewCouponService(db *gorm.DB) *CouponService {
	return &CouponService{
		db:  db,
		now: time.Now,
	}
}

// GenerateCoupons creates a batch of coupons sharing one batch ID.
// The whole batch commits or none of it does.
func (s *CouponService) GenerateCoupons(adminID uint, req *GenerateCouponsRequest) ([]models.Coupon, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	codeLength := req.CodeLength
	if codeLength == 0 {
		codeLength = defaultCodeLength
	}

	if req.ExpiresAt != nil && req.ExpiresAt.Before(s.now()) {
		return nil, InvalidStateError("expiry must be in the future")
	}

	batchID := uuid.NewString()
	coupons := make([]models.Coupon, 0, req.Count)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for i := 0; i < req.Count; i++ {
			coupon, err := s.createOne(tx, adminID, batchID, codeLength, req.ExpiresAt)
			if err != nil {
				return err
			}
			coupons = append(coupons, *coupon)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return coupons, nil
}

func (s *CouponService) createOne(tx *gorm.DB, adminID uint, batchID string, codeLength int, expiresAt *time.Time) (*models.Coupon, error) {
	for attempt := 0; attempt < codeGenerationAttempts; attempt++ {
		code, err := utils.GenerateCouponCode(codeLength)
		if err != nil {
			return nil, fmt.Errorf("generate coupon code: %w", err)
		}

		coupon := &models.Coupon{
			CouponCode: code,
			BatchID:    &batchID,
			CodeLength: codeLength,
			Status:     models.CouponStatusActive,
			CreatedBy:  adminID,
			ExpiresAt:  expiresAt,
		}

		err = tx.Create(coupon).Error
		if err == nil {
			return coupon, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue // code collision, retry with a fresh code
		}
		return nil, fmt.Errorf("insert coupon: %w", err)
	}

	return nil, fmt.Errorf("could not generate a unique coupon code after %d attempts", codeGenerationAttempts)
}

func (s *CouponService) GetCoupon(id uint) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := s.db.Preload("Submission").First(&coupon, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("coupon not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &coupon, nil
}

func (s *CouponService) GetCouponByCode(code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := s.db.Where("coupon_code = ?", code).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("coupon not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &coupon, nil
}

func (s *CouponService) ListCoupons(filter CouponFilter) ([]models.Coupon, int64, error) {
	query := s.db.Model(&models.Coupon{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.BatchID != nil {
		query = query.Where("batch_id = ?", *filter.BatchID)
	}
	if filter.CreatedBy != nil {
		query = query.Where("created_by = ?", *filter.CreatedBy)
	}
	if filter.Search != "" {
		query = query.Where("coupon_code LIKE ?", "%"+filter.Search+"%")
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count coupons: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "coupon_code", "status", "redeemed_at"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var coupons []models.Coupon
	if err := query.Find(&coupons).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch coupons: %w", err)
	}

	return coupons, total, nil
}

// ValidateForRedemption looks up a coupon by code and checks it can be
// redeemed right now. Expiry is enforced lazily here: an ACTIVE coupon
// whose expires_at has passed is flipped to EXPIRED before failing, and
// that flip persists even though the redemption does not.
func (s *CouponService) ValidateForRedemption(code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := s.db.Where("coupon_code = ?", code).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("coupon not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if coupon.Status == models.CouponStatusActive && coupon.ExpiresAt != nil && coupon.ExpiresAt.Before(s.now()) {
		if err := s.db.Model(&coupon).Update("status", models.CouponStatusExpired).Error; err != nil {
			return nil, fmt.Errorf("expire coupon: %w", err)
		}
		return nil, InvalidStateError("coupon has expired")
	}

	if coupon.Status != models.CouponStatusActive {
		return nil, InvalidStateError("coupon is %s", coupon.Status)
	}

	return &coupon, nil
}

// markRedeemed flips an ACTIVE coupon to REDEEMED and stamps the
// submission that consumed it. Must run inside the same transaction as
// the submission insert. The status-conditioned WHERE clause makes a
// losing concurrent redemption affect zero rows, which is reported as a
// Conflict instead of silently overwriting.
func (s *CouponService) markRedeemed(tx *gorm.DB, couponID, submissionID uint) error {
	result := tx.Model(&models.Coupon{}).
		Where("id = ? AND status = ?", couponID, models.CouponStatusActive).
		Updates(map[string]interface{}{
			"status":      models.CouponStatusRedeemed,
			"redeemed_at": s.now(),
			"redeemed_by": submissionID,
		})
	if result.Error != nil {
		return fmt.Errorf("mark coupon redeemed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ConflictError("coupon already redeemed")
	}
	return nil
}

// resetToActive is the compensating action for submission deletion. It
// must only be called from the deletion transaction.
func (s *CouponService) resetToActive(tx *gorm.DB, couponID uint) error {
	result := tx.Model(&models.Coupon{}).
		Where("id = ?", couponID).
		Updates(map[string]interface{}{
			"status":      models.CouponStatusActive,
			"redeemed_at": nil,
			"redeemed_by": nil,
		})
	if result.Error != nil {
		return fmt.Errorf("reset coupon to active: %w", result.Error)
	}
	return nil
}

// DeactivateCoupon takes a coupon out of circulation. Redeemed coupons
// stay REDEEMED; deactivating one would detach it from its submission.
func (s *CouponService) DeactivateCoupon(id uint) (*models.Coupon, error) {
	var coupon models.Coupon
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&coupon, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundError("coupon not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

		if coupon.Status == models.CouponStatusRedeemed {
			return ConflictError("coupon is already redeemed")
		}
		if coupon.Status == models.CouponStatusDeactivated {
			return ConflictError("coupon is already deactivated")
		}

		result := tx.Model(&models.Coupon{}).
			Where("id = ? AND status = ?", id, coupon.Status).
			Update("status", models.CouponStatusDeactivated)
		if result.Error != nil {
			return fmt.Errorf("deactivate coupon: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ConflictError("coupon status changed concurrently")
		}

		coupon.Status = models.CouponStatusDeactivated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// DeleteCoupon is an admin side capability; the consistency engine never
// deletes coupons. Redeemed coupons are blocked to preserve the
// coupon/submission pairing.
func (s *CouponService) DeleteCoupon(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var coupon models.Coupon
		if err := tx.First(&coupon, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundError("coupon not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

		if coupon.Status == models.CouponStatusRedeemed {
			return ConflictError("cannot delete a redeemed coupon")
		}

		result := tx.Where("id = ? AND status <> ?", id, models.CouponStatusRedeemed).
			Delete(&models.Coupon{})
		if result.Error != nil {
			return fmt.Errorf("delete coupon: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ConflictError("coupon was redeemed concurrently")
		}
		return nil
	})
}
