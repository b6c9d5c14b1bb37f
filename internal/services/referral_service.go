package services

import (
	"fmt"
	"log"

	"investment-service/internal/models"

	"gorm.io/gorm"
)

// CommissionLevel is one step of the fixed three-level cascade.
type CommissionLevel struct {
	Level string
	Rate  float64
}

// Commission rates by sponsor distance from the depositor.
var commissionLevels = []CommissionLevel{
	{Level: "A", Rate: 0.10},
	{Level: "B", Rate: 0.05},
	{Level: "C", Rate: 0.03},
}

type ReferralService struct {
	DB       *gorm.DB
	Wallet   *WalletService
	Helper   *HelperService
	Notifier *NotificationService
}

func NewReferralService(db *gorm.DB, wallet *WalletService, helper *HelperService, notifier *NotificationService) *ReferralService {
	return &ReferralService{DB: db, Wallet: wallet, Helper: helper, Notifier: notifier}
}

// CommissionPayout records one credited level, mostly for the caller's logs.
type CommissionPayout struct {
	Level     string  `json:"level"`
	SponsorId int     `json:"sponsorId"`
	Amount    float64 `json:"amount"`
}

// PayoutCommissions walks the depositor's sponsor chain and credits 10%/5%/3%
// of the deposit to levels A/B/C. Credits already applied are final: a failure
// mid-cascade stops the walk and is logged, never rolled back or retried. The
// walk is capped at three levels and guards against reference cycles in the
// sponsor graph.
func (s *ReferralService) PayoutCommissions(depositorId int, amount float64) []CommissionPayout {
	var payouts []CommissionPayout

	var depositor models.Profile
	if err := s.DB.Where("user_id = ?", depositorId).First(&depositor).Error; err != nil {
		log.Printf("Referral: no profile for depositor %d: %v", depositorId, err)
		return payouts
	}
	if depositor.ReferredBy == nil {
		return payouts
	}

	depositorName := depositor.FullName
	if depositorName == "" {
		depositorName = "A user"
	}

	seen := map[int]bool{depositorId: true}
	next := depositor.ReferredBy

	for _, level := range commissionLevels {
		if next == nil {
			break
		}
		sponsorId := *next

		if seen[sponsorId] {
			log.Printf("Referral: cycle detected in sponsor chain at user %d, stopping cascade", sponsorId)
			break
		}
		seen[sponsorId] = true

		bonus := amount * level.Rate

		if err := s.Wallet.Credit(sponsorId, BalanceEarnings, bonus); err != nil {
			// Partial cascade failure: earlier levels stand, later levels are
			// skipped. Not retried automatically - a blind retry could double-pay.
			log.Printf("Referral: level %s credit failed for sponsor %d: %v", level.Level, sponsorId, err)
			break
		}

		_, err := s.Helper.SaveTransaction(TransactionData{
			UserId:        sponsorId,
			Type:          models.TrxReferralBonus,
			Amount:        bonus,
			Status:        models.StatusCompleted,
			Description:   fmt.Sprintf("Level %s referral bonus (%.0f%%) from deposit", level.Level, level.Rate*100),
			ReferralLevel: level.Level,
			Processed:     true,
		})
		if err != nil {
			log.Printf("Referral: failed to record level %s bonus transaction for sponsor %d: %v", level.Level, sponsorId, err)
		}

		s.Notifier.SendReferralEmail(ReferralEmailPayload{
			ReferrerId:    sponsorId,
			DepositorName: depositorName,
			Bonus:         bonus,
			Level:         level.Level,
			Percentage:    int(level.Rate * 100),
		})

		payouts = append(payouts, CommissionPayout{Level: level.Level, SponsorId: sponsorId, Amount: bonus})

		var sponsor models.Profile
		if err := s.DB.Where("user_id = ?", sponsorId).First(&sponsor).Error; err != nil {
			log.Printf("Referral: no profile for sponsor %d, stopping cascade: %v", sponsorId, err)
			break
		}
		next = sponsor.ReferredBy
	}

	return payouts
}
