// internal/models/submission.go
package models

import (
	"time"
)

type Submission struct {
	BaseModel
	CouponID          uint       `json:"coupon_id" gorm:"uniqueIndex;not null"`
	Name              string     `json:"name" gorm:"size:255;not null"`
	Email             string     `json:"email" gorm:"size:255;not null;index"`
	Phone             string     `json:"phone" gorm:"size:32;not null"`
	Address           string     `json:"address" gorm:"type:text;not null"`
	ProductExperience string     `json:"product_experience" gorm:"type:text"`
	SelectedRewardID  uint       `json:"selected_reward_id" gorm:"not null;index"`
	SubmittedAt       time.Time  `json:"submitted_at" gorm:"not null;index"`
	IPAddress         string     `json:"ip_address" gorm:"size:45"`
	UserAgent         string     `json:"user_agent" gorm:"type:text"`
	AdditionalData    JSONB      `json:"additional_data,omitempty" gorm:"type:jsonb"`
	AssignedRewardID  *uint      `json:"assigned_reward_id" gorm:"index"`
	RewardAssignedAt  *time.Time `json:"reward_assigned_at"`
	RewardAssignedBy  *uint      `json:"reward_assigned_by"` // Admin ID

	// Relationships
	Coupon         Coupon         `json:"coupon,omitempty" gorm:"foreignKey:CouponID"`
	SelectedReward Reward         `json:"selected_reward,omitempty" gorm:"foreignKey:SelectedRewardID"`
	AssignedReward *RewardAccount `json:"assigned_reward,omitempty" gorm:"foreignKey:AssignedRewardID"`
}
