package services

import (
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"
)

// Task types (mirrored in worker/tasks.go to avoid an import cycle)
const (
	TypeDepositEmail    = "email:deposit"
	TypeWithdrawalEmail = "email:withdrawal"
	TypeReferralEmail   = "email:referral"
)

type DepositEmailPayload struct {
	UserId        int     `json:"userId"`
	Amount        float64 `json:"amount"`
	TransactionId int     `json:"transactionId"`
	MpesaReceipt  string  `json:"mpesaReceipt"`
}

type WithdrawalEmailPayload struct {
	UserId        int     `json:"userId"`
	Amount        float64 `json:"amount"`
	PhoneNumber   string  `json:"phoneNumber"`
	TransactionId int     `json:"transactionId"`
}

type ReferralEmailPayload struct {
	ReferrerId    int     `json:"referrerId"`
	DepositorName string  `json:"depositorName"`
	Bonus         float64 `json:"bonus"`
	Level         string  `json:"level"`
	Percentage    int     `json:"percentage"`
}

// NotificationService enqueues email jobs for the worker binary. Dispatch is
// fire-and-forget: enqueue failures are logged and never surfaced to callers,
// so a dead Redis can slow nothing down and fail nothing.
type NotificationService struct {
	Client *asynq.Client
}

func NewNotificationService(client *asynq.Client) *NotificationService {
	return &NotificationService{Client: client}
}

func (s *NotificationService) enqueue(taskType string, payload interface{}) {
	if s == nil || s.Client == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Notification: failed to marshal %s payload: %v", taskType, err)
		return
	}

	if _, err := s.Client.Enqueue(asynq.NewTask(taskType, data)); err != nil {
		log.Printf("Notification: failed to enqueue %s: %v", taskType, err)
	}
}

func (s *NotificationService) SendDepositEmail(p DepositEmailPayload) {
	s.enqueue(TypeDepositEmail, p)
}

func (s *NotificationService) SendWithdrawalEmail(p WithdrawalEmailPayload) {
	s.enqueue(TypeWithdrawalEmail, p)
}

func (s *NotificationService) SendReferralEmail(p ReferralEmailPayload) {
	s.enqueue(TypeReferralEmail, p)
}
