package models

import (
	"time"
)

// CallbackLog keeps the raw inbound gateway payload for every webhook hit,
// accepted or not. Audit only, never read by business logic.
type CallbackLog struct {
	ID                uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Request           string    `gorm:"column:request;type:longtext" json:"request"`
	Response          string    `gorm:"column:response;type:longtext" json:"response"`
	SourceIP          string    `gorm:"column:source_ip;size:45" json:"source_ip"`
	Status            int       `gorm:"column:status;default:0" json:"status"` // 0: rejected, 1: accepted
	CheckoutRequestId string    `gorm:"column:checkout_request_id;size:100;index" json:"checkout_request_id"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (CallbackLog) TableName() string {
	return "callback_logs"
}
