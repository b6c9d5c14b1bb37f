package services

import (
	"fmt"
	"log"
	"math"
	"time"

	"investment-service/internal/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// MinEarningInterval is the idempotency guard for the accrual batch: an
// investment credited less than 55 minutes ago is skipped, which tolerates
// scheduler jitter while making an immediate re-run a no-op. This guard, not a
// lock, is what makes overlapping batch runs safe.
const MinEarningInterval = 55 * time.Minute

type AccrualService struct {
	DB     *gorm.DB
	Wallet *WalletService
	Helper *HelperService
}

func NewAccrualService(db *gorm.DB, wallet *WalletService, helper *HelperService) *AccrualService {
	return &AccrualService{DB: db, Wallet: wallet, Helper: helper}
}

// AccrualDecision is the outcome of the pure per-investment computation.
type AccrualDecision struct {
	Matured       bool
	Skip          bool
	SkipReason    string
	HoursToCredit int
	Amount        float64
	DaysCompleted int
}

// ComputeAccrual decides what a single pass owes an active investment at the
// given instant. Pure function: no store access, fully unit-testable.
func ComputeAccrual(inv models.Investment, now time.Time) AccrualDecision {
	if !now.Before(inv.MaturityDate) {
		return AccrualDecision{Matured: true, DaysCompleted: inv.TotalDays}
	}

	lastEarning := inv.StartDate
	if inv.LastEarningDate != nil {
		lastEarning = *inv.LastEarningDate
	}

	elapsed := now.Sub(lastEarning)
	if elapsed < MinEarningInterval {
		return AccrualDecision{Skip: true, SkipReason: fmt.Sprintf("only %d minutes since last earning", int(elapsed.Minutes()))}
	}

	hoursToCredit := int(math.Floor(elapsed.Hours()))
	if hoursToCredit < 1 {
		return AccrualDecision{Skip: true, SkipReason: "less than one hour since last earning"}
	}

	hourlyEarning := inv.DailyEarning / 24
	daysCompleted := int(math.Floor(now.Sub(inv.StartDate).Hours() / 24))
	if daysCompleted > inv.TotalDays {
		daysCompleted = inv.TotalDays
	}

	return AccrualDecision{
		HoursToCredit: hoursToCredit,
		Amount:        hourlyEarning * float64(hoursToCredit),
		DaysCompleted: daysCompleted,
	}
}

type AccrualSummary struct {
	Timestamp        time.Time `json:"timestamp"`
	TotalInvestments int       `json:"totalInvestments"`
	ProcessedCount   int       `json:"processedCount"`
	CompletedCount   int       `json:"completedCount"`
	SkippedCount     int       `json:"skippedCount"`
	FailedCount      int       `json:"failedCount"`
}

// ProcessEarnings runs one accrual pass over every active investment. A
// failure on one investment never blocks the rest, and re-running immediately
// after a successful pass is a no-op thanks to the 55-minute guard.
func (s *AccrualService) ProcessEarnings(now time.Time) (AccrualSummary, error) {
	summary := AccrualSummary{Timestamp: now}

	var investments []models.Investment
	if err := s.DB.Where("status = ?", models.InvestmentActive).Find(&investments).Error; err != nil {
		return summary, fmt.Errorf("fetch active investments: %w", err)
	}
	summary.TotalInvestments = len(investments)

	for _, inv := range investments {
		decision := ComputeAccrual(inv, now)

		if decision.Matured {
			err := s.DB.Model(&models.Investment{}).
				Where("id = ? AND status = ?", inv.ID, models.InvestmentActive).
				Updates(map[string]interface{}{
					"status":         models.InvestmentCompleted,
					"days_completed": inv.TotalDays,
				}).Error
			if err != nil {
				log.Printf("Accrual: failed to complete investment %d: %v", inv.ID, err)
				summary.FailedCount++
				continue
			}
			summary.CompletedCount++
			continue
		}

		if decision.Skip {
			summary.SkippedCount++
			continue
		}

		if err := s.Wallet.Credit(inv.UserId, BalanceEarnings, decision.Amount); err != nil {
			// Isolated failure: this investment is retried on the next pass.
			log.Printf("Accrual: wallet credit failed for investment %d (user %d): %v", inv.ID, inv.UserId, err)
			summary.FailedCount++
			continue
		}

		// last_earning_date advances to now, not by credited hours: the
		// sub-hour remainder is dropped so a stale investment can never
		// credit an unbounded backlog in one pass.
		err := s.DB.Model(&models.Investment{}).
			Where("id = ?", inv.ID).
			Updates(map[string]interface{}{
				"last_earning_date": now,
				"total_earned":      gorm.Expr("total_earned + ?", decision.Amount),
				"days_completed":    decision.DaysCompleted,
			}).Error
		if err != nil {
			log.Printf("Accrual: failed to update investment %d after credit: %v", inv.ID, err)
			summary.FailedCount++
			continue
		}

		_, err = s.Helper.SaveTransaction(TransactionData{
			UserId:      inv.UserId,
			Type:        models.TrxEarning,
			Amount:      decision.Amount,
			Status:      models.StatusCompleted,
			Description: fmt.Sprintf("Hourly earnings from %s investment", inv.PlanName),
			Processed:   true,
		})
		if err != nil {
			log.Printf("Accrual: failed to record earning transaction for investment %d: %v", inv.ID, err)
		}

		summary.ProcessedCount++
	}

	log.Printf("Accrual pass complete: %d processed, %d completed, %d skipped, %d failed of %d",
		summary.ProcessedCount, summary.CompletedCount, summary.SkippedCount, summary.FailedCount, summary.TotalInvestments)
	return summary, nil
}

// StartScheduler runs the accrual pass on the hour. The pass itself is
// idempotent, so overlap with an externally triggered run is harmless.
func (s *AccrualService) StartScheduler() {
	c := cron.New()
	_, err := c.AddFunc("0 * * * *", func() {
		log.Println("Running scheduled earnings accrual...")
		if _, err := s.ProcessEarnings(time.Now()); err != nil {
			log.Printf("Error in scheduled accrual: %v", err)
		}
	})
	if err != nil {
		log.Printf("Error scheduling accrual: %v", err)
		return
	}
	c.Start()
	log.Println("Accrual scheduler started (hourly)")
}
