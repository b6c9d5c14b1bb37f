package models

import (
	"time"
)

// Transaction types
const (
	TrxDeposit       = "deposit"
	TrxWithdrawal    = "withdrawal"
	TrxInvestment    = "investment"
	TrxEarning       = "earning"
	TrxReferralBonus = "referral_bonus"
)

// Transaction statuses. Pending is the only non-terminal state; a transaction
// leaves it exactly once.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusRejected  = "rejected"
)

type Transaction struct {
	ID                 int        `gorm:"primaryKey;autoIncrement" json:"id"`
	TransactionNo      string     `gorm:"column:transaction_no;size:36;uniqueIndex" json:"transaction_no"`
	UserId             int        `gorm:"column:user_id;not null;index:idx_trx_user" json:"user_id"`
	Type               string     `gorm:"column:type;size:50;not null" json:"type"`
	Amount             float64    `gorm:"column:amount;type:decimal(20,2);not null" json:"amount"`
	Status             string     `gorm:"column:status;size:20;default:pending;index" json:"status"`
	Description        string     `gorm:"column:description;type:text" json:"description"`
	CheckoutRequestId  string     `gorm:"column:checkout_request_id;size:100;index" json:"checkout_request_id"`
	MpesaReceiptNumber string     `gorm:"column:mpesa_receipt_number;size:50" json:"mpesa_receipt_number"`
	ReferralLevel      string     `gorm:"column:referral_level;size:1" json:"referral_level,omitempty"`
	CreatedAt          time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	ProcessedAt        *time.Time `gorm:"column:processed_at" json:"processed_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}
