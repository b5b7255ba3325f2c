// internal/models/coupon.go
package models

import (
	"time"
)

type Coupon struct {
	BaseModel
	CouponCode string       `json:"coupon_code" gorm:"uniqueIndex;size:32;not null"`
	BatchID    *string      `json:"batch_id,omitempty" gorm:"size:36;index"`
	CodeLength int          `json:"code_length" gorm:"not null"`
	Status     CouponStatus `json:"status" gorm:"type:varchar(20);default:'ACTIVE';index"`
	CreatedBy  uint         `json:"created_by" gorm:"not null;index"`
	ExpiresAt  *time.Time   `json:"expires_at"`
	RedeemedAt *time.Time   `json:"redeemed_at"`
	RedeemedBy *uint        `json:"redeemed_by"` // Submission ID that consumed this coupon

	// Relationships
	Creator    Admin       `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
	Submission *Submission `json:"submission,omitempty" gorm:"foreignKey:CouponID"`
}
