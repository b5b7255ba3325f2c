// internal/models/reward.go
package models

import (
	"time"
)

// Reward is a catalog entry a user selects at submission time.
// It is a category, not a distributable unit; see RewardAccount.
type Reward struct {
	BaseModel
	Name         string `json:"name" gorm:"uniqueIndex;size:255;not null"`
	Description  string `json:"description" gorm:"type:text"`
	IsActive     bool   `json:"is_active" gorm:"default:true;index"`
	DisplayOrder int    `json:"display_order" gorm:"default:0"`
}

// RewardAccount is a concrete, credential-bearing reward unit held in
// inventory. Credentials are stored encrypted only.
type RewardAccount struct {
	BaseModel
	ServiceName          string              `json:"service_name" gorm:"size:255;not null"`
	AccountType          string              `json:"account_type" gorm:"size:100;not null"`
	EncryptedCredentials string              `json:"-" gorm:"type:text;not null"`
	SubscriptionDuration *string             `json:"subscription_duration,omitempty" gorm:"size:100"`
	Description          *string             `json:"description,omitempty" gorm:"type:text"`
	Category             string              `json:"category" gorm:"size:100;index"`
	Status               RewardAccountStatus `json:"status" gorm:"type:varchar(20);default:'AVAILABLE';index"`
	AssignedToUserID     *uint               `json:"assigned_to_user_id"` // Submission ID
	AssignedAt           *time.Time          `json:"assigned_at"`
	CreatedBy            uint                `json:"created_by" gorm:"not null;index"`

	// Relationships
	Creator            Admin       `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
	AssignedSubmission *Submission `json:"assigned_submission,omitempty" gorm:"foreignKey:AssignedToUserID"`
}
