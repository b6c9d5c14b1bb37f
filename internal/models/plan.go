package models

import (
	"time"
)

// InvestmentPlan is a catalog row. All current plans run for 30 days with a
// fixed daily return; plans do not auto-renew.
type InvestmentPlan struct {
	ID           int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Code         string    `gorm:"column:code;size:5;uniqueIndex;not null" json:"code"`
	Name         string    `gorm:"column:name;size:100;not null" json:"name"`
	Deposit      float64   `gorm:"column:deposit;type:decimal(20,2);not null" json:"deposit"`
	DailyEarning float64   `gorm:"column:daily_earning;type:decimal(20,2);not null" json:"daily_earning"`
	DurationDays int       `gorm:"column:duration_days;default:30" json:"duration_days"`
	Active       bool      `gorm:"column:active;default:true" json:"active"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (InvestmentPlan) TableName() string {
	return "investment_plans"
}
