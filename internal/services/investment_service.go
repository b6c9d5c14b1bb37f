package services

import (
	"fmt"
	"log"
	"time"

	"investment-service/internal/models"
	"investment-service/pkg/common"

	"gorm.io/gorm"
)

type InvestmentService struct {
	DB     *gorm.DB
	Wallet *WalletService
	Helper *HelperService
}

func NewInvestmentService(db *gorm.DB, wallet *WalletService, helper *HelperService) *InvestmentService {
	return &InvestmentService{DB: db, Wallet: wallet, Helper: helper}
}

func (s *InvestmentService) GetPlans() ([]models.InvestmentPlan, error) {
	var plans []models.InvestmentPlan
	if err := s.DB.Where("active = ?", true).Order("deposit ASC").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// Purchase locks a plan's principal: deposit balance moves into the
// investment balance and an active contract is opened with maturity 30 days
// out. If the contract row cannot be written the principal is moved back, so
// a failed purchase never strands money in the investment bucket.
func (s *InvestmentService) Purchase(userId int, planCode string) (models.Investment, error) {
	var plan models.InvestmentPlan
	if err := s.DB.Where("code = ? AND active = ?", planCode, true).First(&plan).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return models.Investment{}, ErrPlanNotFound
		}
		return models.Investment{}, err
	}

	if err := s.Wallet.Transfer(userId, BalanceDeposit, BalanceInvestment, plan.Deposit); err != nil {
		return models.Investment{}, err
	}

	startDate := time.Now()
	investment := models.Investment{
		UserId:       userId,
		PlanName:     plan.Name,
		Amount:       plan.Deposit,
		DailyEarning: plan.DailyEarning,
		TotalDays:    plan.DurationDays,
		StartDate:    startDate,
		MaturityDate: startDate.AddDate(0, 0, plan.DurationDays),
		Status:       models.InvestmentActive,
	}

	if err := s.DB.Create(&investment).Error; err != nil {
		if compErr := s.Wallet.Transfer(userId, BalanceInvestment, BalanceDeposit, plan.Deposit); compErr != nil {
			log.Printf("Investment: rollback of principal failed for user %d amount %.2f: %v", userId, plan.Deposit, compErr)
		}
		return models.Investment{}, fmt.Errorf("create investment: %w", err)
	}

	_, err := s.Helper.SaveTransaction(TransactionData{
		UserId:      userId,
		Type:        models.TrxInvestment,
		Amount:      plan.Deposit,
		Status:      models.StatusCompleted,
		Description: fmt.Sprintf("Investment in %s (Plan %s)", plan.Name, plan.Code),
		Processed:   true,
	})
	if err != nil {
		log.Printf("Investment: failed to record purchase transaction for user %d: %v", userId, err)
	}

	return investment, nil
}

func (s *InvestmentService) ListInvestments(userId, page, limit int) (common.PaginationResult, error) {
	if limit <= 0 {
		limit = 50
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	query := s.DB.Model(&models.Investment{}).Where("user_id = ?", userId)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return common.PaginationResult{}, err
	}

	var investments []models.Investment
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&investments).Error; err != nil {
		return common.PaginationResult{}, err
	}

	return common.PaginateResponse(investments, total, page, limit, "Investments fetched"), nil
}
