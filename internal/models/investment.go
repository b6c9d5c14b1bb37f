package models

import (
	"time"
)

// Investment statuses
const (
	InvestmentActive    = "active"
	InvestmentCompleted = "completed"
)

type Investment struct {
	ID              int        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserId          int        `gorm:"column:user_id;not null;index:idx_investment_user" json:"user_id"`
	PlanName        string     `gorm:"column:plan_name;size:100;not null" json:"plan_name"`
	Amount          float64    `gorm:"column:amount;type:decimal(20,2);not null" json:"amount"`
	DailyEarning    float64    `gorm:"column:daily_earning;type:decimal(20,2);not null" json:"daily_earning"`
	TotalDays       int        `gorm:"column:total_days;not null" json:"total_days"`
	DaysCompleted   int        `gorm:"column:days_completed;default:0" json:"days_completed"`
	TotalEarned     float64    `gorm:"column:total_earned;type:decimal(20,2);default:0.00" json:"total_earned"`
	StartDate       time.Time  `gorm:"column:start_date;not null" json:"start_date"`
	MaturityDate    time.Time  `gorm:"column:maturity_date;not null" json:"maturity_date"`
	LastEarningDate *time.Time `gorm:"column:last_earning_date" json:"last_earning_date"`
	Status          string     `gorm:"column:status;size:20;default:active;index" json:"status"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Investment) TableName() string {
	return "investments"
}
