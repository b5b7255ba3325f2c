// internal/services/submission_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/AkhlaqurRahmanOmi/lottery-system-backend-sub003/internal/metrics"
	"github.com/AkhlaqurRahmanOmi/lottery-system-backend-sub003/internal/models"
	"github.com/AkhlaqurRahmanOmi/lottery-system-backend-sub003/internal/utils"
)

type SubmissionService struct {
	db            *gorm.DB
	couponService *CouponService
	rewardService *RewardService
	now           func() time.Time
}

type CreateSubmissionRequest struct {
	CouponCode        string       `json:"coupon_code" validate:"required,min=6,max=32"`
	Name              string       `json:"name" validate:"required,max=255"`
	Email             string       `json:"email" validate:"required,email,max=255"`
	Phone             string       `json:"phone" validate:"required,max=32"`
	Address           string       `json:"address" validate:"required,max=2000"`
	ProductExperience string       `json:"product_experience" validate:"omitempty,max=5000"`
	SelectedRewardID  uint         `json:"selected_reward_id" validate:"required"`
	AdditionalData    models.JSONB `json:"additional_data,omitempty"`

	// Captured by the transport layer, not client-supplied.
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

type AssignRewardRequest struct {
	RewardAccountID uint   `json:"reward_account_id" validate:"required"`
	Notes           string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type SubmissionFilter struct {
	utils.PaginationParams
	SelectedRewardID *uint      `json:"selected_reward_id,omitempty"`
	Assigned         *bool      `json:"assigned,omitempty"`
	CreatedAfter     *time.Time `json:"created_after,omitempty"`
	CreatedBefore    *time.Time `json:"created_before,omitempty"`
}

func NewSubmissionService(db *gorm.DB, couponService *CouponService, rewardService *RewardService) *SubmissionService {
	return &SubmissionService{
		db:            db,
		couponService: couponService,
		rewardService: rewardService,
		now:           time.Now,
	}
}

// Create redeems a coupon by creating a submission. The coupon status
// flip and the submission insert commit together or not at all. A coupon
// can only ever be redeemed once: the unique constraint on
// submissions.coupon_id is the final arbiter when two requests pass the
// pre-checks concurrently, and its violation surfaces as a Conflict.
func (s *SubmissionService) Create(req *CreateSubmissionRequest) (*models.Submission, error) {
	start := time.Now()

	submission, err := s.create(req)
	if err != nil {
		metrics.RecordRedemption("failure", time.Since(start).Seconds())
		return nil, err
	}

	metrics.RecordRedemption("success", time.Since(start).Seconds())
	return submission, nil
}

func (s *SubmissionService) create(req *CreateSubmissionRequest) (*models.Submission, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Step 1: coupon must be redeemable. Failures propagate unchanged.
	coupon, err := s.couponService.ValidateForRedemption(req.CouponCode)
	if err != nil {
		return nil, err
	}

	// Step 2: no submission may already reference this coupon.
	var existing int64
	if err := s.db.Model(&models.Submission{}).
		Where("coupon_id = ?", coupon.ID).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing submission: %w", err)
	}
	if existing > 0 {
		return nil, ConflictError("coupon already redeemed")
	}

	// Step 3: the selected reward category must exist and be active.
	var reward models.Reward
	if err := s.db.First(&reward, req.SelectedRewardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("selected reward not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if !reward.IsActive {
		return nil, InvalidStateError("selected reward is not active")
	}

	// Step 4: insert the submission and flip the coupon atomically.
	submission := &models.Submission{
		CouponID:          coupon.ID,
		Name:              req.Name,
		Email:             req.Email,
		Phone:             req.Phone,
		Address:           req.Address,
		ProductExperience: req.ProductExperience,
		SelectedRewardID:  req.SelectedRewardID,
		SubmittedAt:       s.now(),
		IPAddress:         req.IPAddress,
		UserAgent:         req.UserAgent,
		AdditionalData:    req.AdditionalData,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(submission).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost the race against a concurrent redemption.
				return ConflictError("coupon already redeemed")
			}
			return fmt.Errorf("insert submission: %w", err)
		}

		return s.couponService.markRedeemed(tx, coupon.ID, submission.ID)
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("Coupon").Preload("SelectedReward").First(submission, submission.ID)
	return submission, nil
}

func (s *SubmissionService) Get(id uint) (*models.Submission, error) {
	var submission models.Submission
	if err := s.db.Preload("Coupon").Preload("SelectedReward").Preload("AssignedReward").
		First(&submission, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("submission not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &submission, nil
}

func (s *SubmissionService) List(filter SubmissionFilter) ([]models.Submission, int64, error) {
	query := s.db.Model(&models.Submission{}).
		Preload("Coupon").Preload("SelectedReward").Preload("AssignedReward")

	if filter.SelectedRewardID != nil {
		query = query.Where("selected_reward_id = ?", *filter.SelectedRewardID)
	}
	if filter.Assigned != nil {
		if *filter.Assigned {
			query = query.Where("assigned_reward_id IS NOT NULL")
		} else {
			query = query.Where("assigned_reward_id IS NULL")
		}
	}
	if filter.Search != "" {
		searchTerm := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", searchTerm, searchTerm)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("submitted_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("submitted_at <= ?", *filter.CreatedBefore)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count submissions: %w", err)
	}

	allowedSortFields := []string{"created_at", "submitted_at", "name", "email", "reward_assigned_at"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var submissions []models.Submission
	if err := query.Find(&submissions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch submissions: %w", err)
	}

	return submissions, total, nil
}

// Delete removes a submission and compensates by resetting its coupon to
// ACTIVE. Submissions with an assigned reward are retained for audit and
// must go through UnassignReward first.
func (s *SubmissionService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var submission models.Submission
		if err := tx.First(&submission, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundError("submission not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

		if submission.AssignedRewardID != nil {
			return ConflictError("submission has an assigned reward; unassign it first")
		}

		result := tx.Where("id = ? AND assigned_reward_id IS NULL", id).
			Delete(&models.Submission{})
		if result.Error != nil {
			return fmt.Errorf("delete submission: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ConflictError("submission was assigned a reward concurrently")
		}

		return s.couponService.resetToActive(tx, submission.CouponID)
	})
}

// AssignReward reserves a reward account for a submission and stamps both
// sides of the pointer pair in one transaction.
func (s *SubmissionService) AssignReward(submissionID, rewardAccountID, adminID uint, notes string) (*models.Submission, error) {
	var submission models.Submission

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&submission, submissionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundError("submission not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

		if submission.AssignedRewardID != nil {
			return ConflictError("submission already has an assigned reward")
		}

		account, err := s.rewardService.reserve(tx, rewardAccountID, submissionID)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"assigned_reward_id": account.ID,
			"reward_assigned_at": account.AssignedAt,
			"reward_assigned_by": adminID,
		}
		if notes != "" {
			data := submission.AdditionalData
			if data == nil {
				data = models.JSONB{}
			}
			data["assignment_notes"] = notes
			updates["additional_data"] = data
		}

		result := tx.Model(&models.Submission{}).
			Where("id = ? AND assigned_reward_id IS NULL", submissionID).
			Updates(updates)
		if result.Error != nil {
			return fmt.Errorf("stamp submission assignment: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ConflictError("submission was assigned a reward concurrently")
		}
		return nil
	})
	if err != nil {
		metrics.RecordAssignment("failure")
		return nil, err
	}

	metrics.RecordAssignment("success")
	return s.Get(submissionID)
}

// UnassignReward clears the assignment fields on the submission and
// releases the reward account back to the pool, in one transaction.
func (s *SubmissionService) UnassignReward(submissionID uint) (*models.Submission, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var submission models.Submission
		if err := tx.First(&submission, submissionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundError("submission not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

		if submission.AssignedRewardID == nil {
			return InvalidStateError("submission has no assigned reward")
		}

		if err := s.rewardService.release(tx, *submission.AssignedRewardID); err != nil {
			return err
		}

		result := tx.Model(&models.Submission{}).
			Where("id = ? AND assigned_reward_id IS NOT NULL", submissionID).
			Updates(map[string]interface{}{
				"assigned_reward_id": nil,
				"reward_assigned_at": nil,
				"reward_assigned_by": nil,
			})
		if result.Error != nil {
			return fmt.Errorf("clear submission assignment: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ConflictError("submission assignment changed concurrently")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(submissionID)
}
