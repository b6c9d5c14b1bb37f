package services

import (
	"time"

	"investment-service/internal/models"
	"investment-service/pkg/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HelperService struct {
	DB *gorm.DB
}

func NewHelperService(db *gorm.DB) *HelperService {
	return &HelperService{DB: db}
}

type TransactionData struct {
	UserId            int
	Type              string
	Amount            float64
	Status            string
	Description       string
	CheckoutRequestId string
	ReferralLevel     string
	Processed         bool
}

// SaveTransaction appends an immutable audit record. Returns the stored row so
// callers can correlate follow-up updates by id.
func (s *HelperService) SaveTransaction(data TransactionData) (models.Transaction, error) {
	trx := models.Transaction{
		TransactionNo:     uuid.NewString(),
		UserId:            data.UserId,
		Type:              data.Type,
		Amount:            data.Amount,
		Status:            data.Status,
		Description:       data.Description,
		CheckoutRequestId: data.CheckoutRequestId,
		ReferralLevel:     data.ReferralLevel,
	}
	if data.Processed {
		now := time.Now()
		trx.ProcessedAt = &now
	}

	if err := s.DB.Create(&trx).Error; err != nil {
		return models.Transaction{}, err
	}
	return trx, nil
}

// SettleTransaction moves a pending transaction into a terminal state. The
// pending precondition is part of the statement, so a transaction settles at
// most once; RowsAffected 0 means another caller already settled it.
func (s *HelperService) SettleTransaction(trxId int, status string, updates map[string]interface{}) (bool, error) {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = status
	updates["processed_at"] = time.Now()

	tx := s.DB.Model(&models.Transaction{}).
		Where("id = ? AND status = ?", trxId, models.StatusPending).
		Updates(updates)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

type ListTransactionsDTO struct {
	UserId int
	Type   string
	Status string
	Page   int
	Limit  int
}

func (s *HelperService) ListTransactions(data ListTransactionsDTO) (common.PaginationResult, error) {
	limit := data.Limit
	if limit <= 0 {
		limit = 50
	}
	page := data.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	query := s.DB.Model(&models.Transaction{}).Where("user_id = ?", data.UserId)
	if data.Type != "" {
		query = query.Where("type = ?", data.Type)
	}
	if data.Status != "" {
		query = query.Where("status = ?", data.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return common.PaginationResult{}, err
	}

	var transactions []models.Transaction
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&transactions).Error; err != nil {
		return common.PaginationResult{}, err
	}

	return common.PaginateResponse(transactions, total, page, limit, "Transactions fetched"), nil
}
