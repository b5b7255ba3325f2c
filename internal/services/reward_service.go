// internal/services/reward_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/AkhlaqurRahmanOmi/lottery-system-backend-sub003/internal/models"
	"github.com/AkhlaqurRahmanOmi/lottery-system-backend-sub003/internal/utils"
)

// DefaultRetentionDays is how long an account may stay ASSIGNED before
// the expire sweep retires it.
const DefaultRetentionDays = 365

// CredentialCipher is the encryption collaborator. Plaintext credentials
// never reach the database.
type CredentialCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

type RewardService struct {
	db        *gorm.DB
	cipher    CredentialCipher
	retention time.Duration
	now       func() time.Time
}

type CreateRewardRequest struct {
	Name         string `json:"name" validate:"required,max=255"`
	Description  string `json:"description" validate:"omitempty,max=2000"`
	DisplayOrder int    `json:"display_order" validate:"omitempty,gte=0"`
}

type UpdateRewardRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Description  *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	IsActive     *bool   `json:"is_active,omitempty"`
	DisplayOrder *int    `json:"display_order,omitempty" validate:"omitempty,gte=0"`
}

type CreateRewardAccountRequest struct {
	ServiceName          string  `json:"service_name" validate:"required,max=255"`
	AccountType          string  `json:"account_type" validate:"required,max=100"`
	Credentials          string  `json:"credentials" validate:"required"`
	SubscriptionDuration *string `json:"subscription_duration,omitempty" validate:"omitempty,max=100"`
	Description          *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Category             string  `json:"category" validate:"required,max=100"`
}

type RewardAccountFilter struct {
	utils.PaginationParams
	Status        *models.RewardAccountStatus `json:"status,omitempty"`
	CreatedBy     *uint                       `json:"created_by,omitempty"`
	CreatedAfter  *time.Time                  `json:"created_after,omitempty"`
	CreatedBefore *time.Time                  `json:"created_before,omitempty"`
}

func NewRewardService(db *gorm.DB, cipher CredentialCipher, retentionDays int) *RewardService {
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}
	return &RewardService{
		db:        db,
		cipher:    cipher,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		now:       time.Now,
	}
}

// Reward catalog (read-only for the consistency engine)

func (s *RewardService) CreateReward(req *CreateRewardRequest) (*models.Reward, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	reward := &models.Reward{
		Name:         req.Name,
		Description:  req.Description,
		IsActive:     true,
		DisplayOrder: req.DisplayOrder,
	}

	if err := s.db.Create(reward).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ConflictError("a reward named %q already exists", req.Name)
		}
		return nil, fmt.Errorf("create reward: %w", err)
	}
	return reward, nil
}

func (s *RewardService) UpdateReward(id uint, req *UpdateRewardRequest) (*models.Reward, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var reward models.Reward
	if err := s.db.First(&reward, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("reward not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.DisplayOrder != nil {
		updates["display_order"] = *req.DisplayOrder
	}

	if len(updates) > 0 {
		if err := s.db.Model(&reward).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, ConflictError("a reward named %q already exists", *req.Name)
			}
			return nil, fmt.Errorf("update reward: %w", err)
		}
	}
	return &reward, nil
}

func (s *RewardService) ListRewards(includeInactive bool) ([]models.Reward, error) {
	query := s.db.Model(&models.Reward{}).Order("display_order ASC, name ASC")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var rewards []models.Reward
	if err := query.Find(&rewards).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch rewards: %w", err)
	}
	return rewards, nil
}

func (s *RewardService) GetReward(id uint) (*models.Reward, error) {
	var reward models.Reward
	if err := s.db.First(&reward, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("reward not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &reward, nil
}

func (s *RewardService) DeleteReward(id uint) error {
	var reward models.Reward
	if err := s.db.First(&reward, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundError("reward not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	var referenced int64
	if err := s.db.Model(&models.Submission{}).
		Where("selected_reward_id = ?", id).Count(&referenced).Error; err != nil {
		return fmt.Errorf("failed to check reward references: %w", err)
	}
	if referenced > 0 {
		return ConflictError("reward is referenced by %d submission(s)", referenced)
	}

	if err := s.db.Delete(&reward).Error; err != nil {
		return fmt.Errorf("delete reward: %w", err)
	}
	return nil
}

// Reward inventory

func (s *RewardService) CreateAccount(adminID uint, req *CreateRewardAccountRequest) (*models.RewardAccount, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	encrypted, err := s.cipher.Encrypt(req.Credentials)
	if err != nil {
		return nil, fmt.Errorf("encrypt credentials: %w", err)
	}

	account := &models.RewardAccount{
		ServiceName:          req.ServiceName,
		AccountType:          req.AccountType,
		EncryptedCredentials: encrypted,
		SubscriptionDuration: req.SubscriptionDuration,
		Description:          req.Description,
		Category:             req.Category,
		Status:               models.RewardAccountStatusAvailable,
		CreatedBy:            adminID,
	}

	if err := s.db.Create(account).Error; err != nil {
		return nil, fmt.Errorf("create reward account: %w", err)
	}
	return account, nil
}

func (s *RewardService) GetAccount(id uint) (*models.RewardAccount, error) {
	var account models.RewardAccount
	if err := s.db.Preload("AssignedSubmission").First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("reward account not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &account, nil
}

func (s *RewardService) ListAccounts(filter RewardAccountFilter) ([]models.RewardAccount, int64, error) {
	query := s.db.Model(&models.RewardAccount{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.CreatedBy != nil {
		query = query.Where("created_by = ?", *filter.CreatedBy)
	}
	if filter.Search != "" {
		searchTerm := "%" + filter.Search + "%"
		query = query.Where("service_name LIKE ? OR account_type LIKE ?", searchTerm, searchTerm)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reward accounts: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "service_name", "category", "status", "assigned_at"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var accounts []models.RewardAccount
	if err := query.Find(&accounts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch reward accounts: %w", err)
	}

	return accounts, total, nil
}

// GetCredentials decrypts an account's credentials for admin-facing
// retrieval. Not used by the assignment protocols.
func (s *RewardService) GetCredentials(id uint) (string, error) {
	var account models.RewardAccount
	if err := s.db.First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", NotFoundError("reward account not found")
		}
		return "", fmt.Errorf("database error: %w", err)
	}

	plaintext, err := s.cipher.Decrypt(account.EncryptedCredentials)
	if err != nil {
		return "", fmt.Errorf("decrypt credentials for account %d: %w", id, err)
	}
	return plaintext, nil
}

// reserve transitions an AVAILABLE account to ASSIGNED and stamps the
// submission it now belongs to. Runs inside the caller's transaction.
// The conditional update detects a lost race as zero rows affected and
// reports it as a Conflict.
func (s *RewardService) reserve(tx *gorm.DB, accountID, submissionID uint) (*models.RewardAccount, error) {
	var account models.RewardAccount
	if err := tx.First(&account, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("reward account not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if account.Status != models.RewardAccountStatusAvailable {
		return nil, ConflictError("reward account is %s, not AVAILABLE", account.Status)
	}

	assignedAt := s.now()
	result := tx.Model(&models.RewardAccount{}).
		Where("id = ? AND status = ?", accountID, models.RewardAccountStatusAvailable).
		Updates(map[string]interface{}{
			"status":              models.RewardAccountStatusAssigned,
			"assigned_to_user_id": submissionID,
			"assigned_at":         assignedAt,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("reserve reward account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ConflictError("reward account was assigned concurrently")
	}

	account.Status = models.RewardAccountStatusAssigned
	account.AssignedToUserID = &submissionID
	account.AssignedAt = &assignedAt
	return &account, nil
}

// release is the inverse of reserve. Runs inside the caller's transaction.
func (s *RewardService) release(tx *gorm.DB, accountID uint) error {
	var account models.RewardAccount
	if err := tx.First(&account, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundError("reward account not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	if account.Status != models.RewardAccountStatusAssigned {
		return ConflictError("reward account is %s, not ASSIGNED", account.Status)
	}

	result := tx.Model(&models.RewardAccount{}).
		Where("id = ? AND status = ?", accountID, models.RewardAccountStatusAssigned).
		Updates(map[string]interface{}{
			"status":              models.RewardAccountStatusAvailable,
			"assigned_to_user_id": nil,
			"assigned_at":         nil,
		})
	if result.Error != nil {
		return fmt.Errorf("release reward account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ConflictError("reward account was released concurrently")
	}
	return nil
}

// DeactivateAccount removes an account from the assignment candidate
// pool. An ASSIGNED account cannot be deactivated; that would orphan the
// submission pointing at it.
func (s *RewardService) DeactivateAccount(id uint) (*models.RewardAccount, error) {
	var account models.RewardAccount
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&account, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundError("reward account not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

		if account.Status == models.RewardAccountStatusAssigned {
			return ConflictError("reward account is assigned; unassign it first")
		}

		result := tx.Model(&models.RewardAccount{}).
			Where("id = ? AND status <> ?", id, models.RewardAccountStatusAssigned).
			Update("status", models.RewardAccountStatusDeactivated)
		if result.Error != nil {
			return fmt.Errorf("deactivate reward account: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ConflictError("reward account was assigned concurrently")
		}

		account.Status = models.RewardAccountStatusDeactivated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// ReactivateAccount returns a non-ASSIGNED account to the candidate pool,
// dropping any stale assignment history left by an expiry.
func (s *RewardService) ReactivateAccount(id uint) (*models.RewardAccount, error) {
	var account models.RewardAccount
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&account, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundError("reward account not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

		if account.Status == models.RewardAccountStatusAssigned {
			return ConflictError("reward account is assigned")
		}

		result := tx.Model(&models.RewardAccount{}).
			Where("id = ? AND status <> ?", id, models.RewardAccountStatusAssigned).
			Updates(map[string]interface{}{
				"status":              models.RewardAccountStatusAvailable,
				"assigned_to_user_id": nil,
				"assigned_at":         nil,
			})
		if result.Error != nil {
			return fmt.Errorf("reactivate reward account: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ConflictError("reward account was assigned concurrently")
		}

		account.Status = models.RewardAccountStatusAvailable
		account.AssignedToUserID = nil
		account.AssignedAt = nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// ExpireSweep retires accounts that have stayed ASSIGNED past the
// retention window. The assignment pointer is kept so expired accounts
// retain their history. Returns the number of accounts mutated.
func (s *RewardService) ExpireSweep() (int64, error) {
	cutoff := s.now().Add(-s.retention)

	result := s.db.Model(&models.RewardAccount{}).
		Where("status = ? AND assigned_at < ?", models.RewardAccountStatusAssigned, cutoff).
		Update("status", models.RewardAccountStatusExpired)
	if result.Error != nil {
		return 0, fmt.Errorf("expire sweep: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// CanDelete reports whether an account may be deleted. Assignment blocks
// deletion; everything else is fair game.
func (s *RewardService) CanDelete(id uint) bool {
	var account models.RewardAccount
	if err := s.db.First(&account, id).Error; err != nil {
		return false
	}
	return account.Status != models.RewardAccountStatusAssigned
}

func (s *RewardService) DeleteAccount(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var account models.RewardAccount
		if err := tx.First(&account, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundError("reward account not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

		if account.Status == models.RewardAccountStatusAssigned {
			return ConflictError("reward account is assigned; unassign it first")
		}

		result := tx.Where("id = ? AND status <> ?", id, models.RewardAccountStatusAssigned).
			Delete(&models.RewardAccount{})
		if result.Error != nil {
			return fmt.Errorf("delete reward account: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ConflictError("reward account was assigned concurrently")
		}
		return nil
	})
}
