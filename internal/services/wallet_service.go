package services

import (
	"fmt"
	"log"

	"investment-service/internal/models"

	"gorm.io/gorm"
)

// Balance types. Each maps to one column on the wallets row; every mutation is
// a single-row increment or decrement, never an absolute overwrite.
const (
	BalanceDeposit    = "deposit"
	BalanceEarnings   = "earnings"
	BalanceInvestment = "investment"
	BalanceWithdrawal = "withdrawal"
)

func balanceColumn(balanceType string) (string, error) {
	switch balanceType {
	case BalanceDeposit:
		return "deposit_balance", nil
	case BalanceEarnings:
		return "earnings_balance", nil
	case BalanceInvestment:
		return "investment_balance", nil
	case BalanceWithdrawal:
		return "withdrawal_balance", nil
	}
	return "", ErrInvalidBalanceType
}

type WalletService struct {
	DB *gorm.DB
}

func NewWalletService(db *gorm.DB) *WalletService {
	return &WalletService{DB: db}
}

func (s *WalletService) CreateWallet(userId int) (models.Wallet, error) {
	wallet := models.Wallet{UserId: userId}
	if err := s.DB.Create(&wallet).Error; err != nil {
		return models.Wallet{}, err
	}
	return wallet, nil
}

func (s *WalletService) GetWallet(userId int) (models.Wallet, error) {
	var wallet models.Wallet
	if err := s.DB.Where("user_id = ?", userId).First(&wallet).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return models.Wallet{}, ErrWalletNotFound
		}
		return models.Wallet{}, err
	}
	return wallet, nil
}

// Credit adds amount to the named balance. The increment is a single atomic
// statement so concurrent credits never lose updates.
func (s *WalletService) Credit(userId int, balanceType string, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	col, err := balanceColumn(balanceType)
	if err != nil {
		return err
	}

	tx := s.DB.Model(&models.Wallet{}).
		Where("user_id = ?", userId).
		UpdateColumn(col, gorm.Expr(col+" + ?", amount))
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrWalletNotFound
	}
	return nil
}

// Debit subtracts amount from the named balance. The non-negativity check and
// the decrement happen in one conditional statement; two concurrent debits can
// never overdraw the same balance.
func (s *WalletService) Debit(userId int, balanceType string, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	col, err := balanceColumn(balanceType)
	if err != nil {
		return err
	}

	tx := s.DB.Model(&models.Wallet{}).
		Where("user_id = ? AND "+col+" >= ?", userId, amount).
		UpdateColumn(col, gorm.Expr(col+" - ?", amount))
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		var wallet models.Wallet
		if err := s.DB.Where("user_id = ?", userId).First(&wallet).Error; err != nil {
			return ErrWalletNotFound
		}
		return ErrInsufficientFunds
	}
	return nil
}

// Transfer moves amount between two balances of the same wallet as a debit
// followed by a credit. The two legs are independent atomic statements; if the
// credit leg fails the debit is compensated so the money is never stranded.
func (s *WalletService) Transfer(userId int, fromType, toType string, amount float64) error {
	if err := s.Debit(userId, fromType, amount); err != nil {
		return err
	}

	if err := s.Credit(userId, toType, amount); err != nil {
		if compErr := s.Credit(userId, fromType, amount); compErr != nil {
			// Compensation failed: the debit stands with no matching credit.
			// Loud log so reconciliation can pick it up.
			log.Printf("COMPENSATION FAILED user=%d %s->%s amount=%.2f: %v (original: %v)",
				userId, fromType, toType, amount, compErr, err)
		}
		return fmt.Errorf("credit %s failed: %w", toType, err)
	}
	return nil
}
