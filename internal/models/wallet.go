package models

import (
	"time"
)

type Wallet struct {
	ID                int       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserId            int       `gorm:"column:user_id;not null;uniqueIndex:idx_wallet_user" json:"user_id"`
	DepositBalance    float64   `gorm:"column:deposit_balance;type:decimal(20,2);default:0.00" json:"deposit_balance"`
	EarningsBalance   float64   `gorm:"column:earnings_balance;type:decimal(20,2);default:0.00" json:"earnings_balance"`
	InvestmentBalance float64   `gorm:"column:investment_balance;type:decimal(20,2);default:0.00" json:"investment_balance"`
	WithdrawalBalance float64   `gorm:"column:withdrawal_balance;type:decimal(20,2);default:0.00" json:"withdrawal_balance"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Wallet) TableName() string {
	return "wallets"
}
