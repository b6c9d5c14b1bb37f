package services

import (
	"fmt"
	"log"

	"investment-service/internal/models"
	"investment-service/pkg/common"

	"gorm.io/gorm"
)

// MinWithdrawalAmount is the smallest request accepted, in KES.
const MinWithdrawalAmount = 100

// WithdrawalFee is 2% of the gross amount, clamped to [10, 50] KES.
func WithdrawalFee(amount float64) float64 {
	fee := amount * 0.02
	if fee < 10 {
		fee = 10
	}
	if fee > 50 {
		fee = 50
	}
	return fee
}

type WithdrawalService struct {
	DB       *gorm.DB
	Wallet   *WalletService
	Helper   *HelperService
	Notifier *NotificationService
}

func NewWithdrawalService(db *gorm.DB, wallet *WalletService, helper *HelperService, notifier *NotificationService) *WithdrawalService {
	return &WithdrawalService{DB: db, Wallet: wallet, Helper: helper, Notifier: notifier}
}

// RequestWithdrawal deducts the gross amount up front - earnings first, then
// deposit - and parks it in the withdrawal balance until an admin settles the
// request. Each leg is an independent atomic debit; any later leg failing
// compensates the earlier ones.
func (s *WithdrawalService) RequestWithdrawal(userId int, amount float64, phoneNumber string) (models.Withdrawal, error) {
	if amount < MinWithdrawalAmount {
		return models.Withdrawal{}, fmt.Errorf("minimum withdrawal amount is %d KES", MinWithdrawalAmount)
	}
	phone, err := FormatPhoneNumber(phoneNumber)
	if err != nil {
		return models.Withdrawal{}, err
	}

	wallet, err := s.Wallet.GetWallet(userId)
	if err != nil {
		return models.Withdrawal{}, err
	}
	if wallet.EarningsBalance+wallet.DepositBalance < amount {
		return models.Withdrawal{}, ErrInsufficientFunds
	}

	fromEarnings := amount
	if wallet.EarningsBalance < amount {
		fromEarnings = wallet.EarningsBalance
	}
	fromDeposit := amount - fromEarnings

	if fromEarnings > 0 {
		if err := s.Wallet.Debit(userId, BalanceEarnings, fromEarnings); err != nil {
			return models.Withdrawal{}, err
		}
	}
	if fromDeposit > 0 {
		if err := s.Wallet.Debit(userId, BalanceDeposit, fromDeposit); err != nil {
			s.compensate(userId, fromEarnings, 0)
			return models.Withdrawal{}, err
		}
	}

	// Hold bucket: the deducted gross sits in withdrawal_balance so the money
	// stays accounted for until approval pays it out or rejection refunds it.
	if err := s.Wallet.Credit(userId, BalanceWithdrawal, amount); err != nil {
		s.compensate(userId, fromEarnings, fromDeposit)
		return models.Withdrawal{}, err
	}

	fee := WithdrawalFee(amount)

	trx, err := s.Helper.SaveTransaction(TransactionData{
		UserId:      userId,
		Type:        models.TrxWithdrawal,
		Amount:      amount,
		Status:      models.StatusPending,
		Description: fmt.Sprintf("Withdrawal to M-Pesa %s", phone),
	})
	if err != nil {
		if derr := s.Wallet.Debit(userId, BalanceWithdrawal, amount); derr != nil {
			log.Printf("Withdrawal: failed to release hold for user %d: %v", userId, derr)
		} else {
			s.compensate(userId, fromEarnings, fromDeposit)
		}
		return models.Withdrawal{}, fmt.Errorf("record withdrawal transaction: %w", err)
	}

	withdrawal := models.Withdrawal{
		UserId:        userId,
		TransactionId: trx.ID,
		Amount:        amount,
		Fee:           fee,
		NetAmount:     amount - fee,
		FromEarnings:  fromEarnings,
		FromDeposit:   fromDeposit,
		PhoneNumber:   phone,
		Status:        models.WithdrawalPending,
	}
	if err := s.DB.Create(&withdrawal).Error; err != nil {
		return models.Withdrawal{}, fmt.Errorf("create withdrawal record: %w", err)
	}

	s.Notifier.SendWithdrawalEmail(WithdrawalEmailPayload{
		UserId:        userId,
		Amount:        amount,
		PhoneNumber:   phone,
		TransactionId: trx.ID,
	})

	return withdrawal, nil
}

// compensate credits back the split legs of a failed multi-step deduction.
func (s *WithdrawalService) compensate(userId int, fromEarnings, fromDeposit float64) {
	if fromEarnings > 0 {
		if err := s.Wallet.Credit(userId, BalanceEarnings, fromEarnings); err != nil {
			log.Printf("COMPENSATION FAILED user=%d earnings amount=%.2f: %v", userId, fromEarnings, err)
		}
	}
	if fromDeposit > 0 {
		if err := s.Wallet.Credit(userId, BalanceDeposit, fromDeposit); err != nil {
			log.Printf("COMPENSATION FAILED user=%d deposit amount=%.2f: %v", userId, fromDeposit, err)
		}
	}
}

// Approve pays the request out: the hold is released and the money exits the
// system. The pending-status precondition on the withdrawal row is the
// serialization point; a second approval of the same request is a no-op error.
func (s *WithdrawalService) Approve(withdrawalId int, updatedBy string) error {
	var withdrawal models.Withdrawal
	if err := s.DB.First(&withdrawal, withdrawalId).Error; err != nil {
		return fmt.Errorf("withdrawal not found: %w", err)
	}

	tx := s.DB.Model(&models.Withdrawal{}).
		Where("id = ? AND status = ?", withdrawalId, models.WithdrawalPending).
		Updates(map[string]interface{}{
			"status":     models.WithdrawalApproved,
			"updated_by": updatedBy,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("withdrawal %d already processed", withdrawalId)
	}

	if err := s.Wallet.Debit(withdrawal.UserId, BalanceWithdrawal, withdrawal.Amount); err != nil {
		log.Printf("Withdrawal: failed to release hold on approval of %d: %v", withdrawalId, err)
	}

	if _, err := s.Helper.SettleTransaction(withdrawal.TransactionId, models.StatusCompleted, nil); err != nil {
		log.Printf("Withdrawal: failed to settle transaction %d: %v", withdrawal.TransactionId, err)
	}
	return nil
}

// Reject refunds the hold back into the buckets it was drawn from.
func (s *WithdrawalService) Reject(withdrawalId int, updatedBy, comment string) error {
	var withdrawal models.Withdrawal
	if err := s.DB.First(&withdrawal, withdrawalId).Error; err != nil {
		return fmt.Errorf("withdrawal not found: %w", err)
	}

	tx := s.DB.Model(&models.Withdrawal{}).
		Where("id = ? AND status = ?", withdrawalId, models.WithdrawalPending).
		Updates(map[string]interface{}{
			"status":     models.WithdrawalRejected,
			"updated_by": updatedBy,
			"comment":    comment,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("withdrawal %d already processed", withdrawalId)
	}

	if err := s.Wallet.Debit(withdrawal.UserId, BalanceWithdrawal, withdrawal.Amount); err != nil {
		log.Printf("Withdrawal: failed to release hold on rejection of %d: %v", withdrawalId, err)
	} else {
		s.compensate(withdrawal.UserId, withdrawal.FromEarnings, withdrawal.FromDeposit)
	}

	if _, err := s.Helper.SettleTransaction(withdrawal.TransactionId, models.StatusRejected, map[string]interface{}{
		"description": gorm.Expr("CONCAT(description, ?)", " - rejected: "+comment),
	}); err != nil {
		log.Printf("Withdrawal: failed to settle transaction %d: %v", withdrawal.TransactionId, err)
	}
	return nil
}

type ListWithdrawalsDTO struct {
	UserId int
	Status *int
	Page   int
	Limit  int
}

func (s *WithdrawalService) ListWithdrawals(data ListWithdrawalsDTO) (common.PaginationResult, error) {
	limit := data.Limit
	if limit <= 0 {
		limit = 50
	}
	page := data.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	query := s.DB.Model(&models.Withdrawal{})
	if data.UserId != 0 {
		query = query.Where("user_id = ?", data.UserId)
	}
	if data.Status != nil {
		query = query.Where("status = ?", *data.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return common.PaginationResult{}, err
	}

	var withdrawals []models.Withdrawal
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&withdrawals).Error; err != nil {
		return common.PaginationResult{}, err
	}

	return common.PaginateResponse(withdrawals, total, page, limit, "Withdrawals fetched"), nil
}
