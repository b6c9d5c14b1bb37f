package models

import (
	"time"
)

// Withdrawal statuses
const (
	WithdrawalPending  = 0
	WithdrawalApproved = 1
	WithdrawalRejected = 2
)

type Withdrawal struct {
	ID            int       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserId        int       `gorm:"column:user_id;not null;index:idx_withdrawal_user" json:"user_id"`
	TransactionId int       `gorm:"column:transaction_id;not null" json:"transaction_id"`
	Amount        float64   `gorm:"column:amount;type:decimal(20,2);not null" json:"amount"`
	Fee           float64   `gorm:"column:fee;type:decimal(20,2);not null" json:"fee"`
	NetAmount     float64   `gorm:"column:net_amount;type:decimal(20,2);not null" json:"net_amount"`
	FromEarnings  float64   `gorm:"column:from_earnings;type:decimal(20,2);default:0.00" json:"from_earnings"`
	FromDeposit   float64   `gorm:"column:from_deposit;type:decimal(20,2);default:0.00" json:"from_deposit"`
	PhoneNumber   string    `gorm:"column:phone_number;size:20;not null" json:"phone_number"`
	Comment       string    `gorm:"column:comment;type:text" json:"comment"`
	UpdatedBy     string    `gorm:"column:updated_by;size:150" json:"updated_by"`
	Status        int       `gorm:"column:status;default:0" json:"status"` // 0: pending, 1: approved, 2: rejected
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}
