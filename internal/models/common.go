// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Base model with common fields
type BaseModel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type CouponStatus string

const (
	CouponStatusActive      CouponStatus = "ACTIVE"
	CouponStatusRedeemed    CouponStatus = "REDEEMED"
	CouponStatusExpired     CouponStatus = "EXPIRED"
	CouponStatusDeactivated CouponStatus = "DEACTIVATED"
)

type RewardAccountStatus string

const (
	RewardAccountStatusAvailable   RewardAccountStatus = "AVAILABLE"
	RewardAccountStatusAssigned    RewardAccountStatus = "ASSIGNED"
	RewardAccountStatusExpired     RewardAccountStatus = "EXPIRED"
	RewardAccountStatusDeactivated RewardAccountStatus = "DEACTIVATED"
)

type AdminStatus string

const (
	AdminStatusActive    AdminStatus = "active"
	AdminStatusSuspended AdminStatus = "suspended"
)
