package models

import (
	"time"
)

// Profile carries the referral ancestry. ReferredBy points at the sponsor's
// user id; a nil value means the user joined without a referral code.
type Profile struct {
	ID           int       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserId       int       `gorm:"column:user_id;not null;uniqueIndex:idx_profile_user" json:"user_id"`
	FullName     string    `gorm:"column:full_name;size:255" json:"full_name"`
	Email        string    `gorm:"column:email;size:255" json:"email"`
	PhoneNumber  string    `gorm:"column:phone_number;size:20" json:"phone_number"`
	ReferralCode string    `gorm:"column:referral_code;size:20;uniqueIndex" json:"referral_code"`
	ReferredBy   *int      `gorm:"column:referred_by" json:"referred_by"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}
