package services

import (
	"fmt"
	"testing"

	"investment-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func seedReferralChain(wallet *WalletService, userIds ...int) {
	// userIds[0] is the depositor, each following id sponsors the previous one
	for i, id := range userIds {
		wallet.CreateWallet(id)
		profile := models.Profile{UserId: id, FullName: "User", ReferralCode: fmt.Sprintf("REF%05d", id)}
		if i+1 < len(userIds) {
			sponsor := userIds[i+1]
			profile.ReferredBy = &sponsor
		}
		testDB.Create(&profile)
	}
}

func TestPayoutCommissionsThreeLevels(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	wallet := NewWalletService(testDB)
	helper := NewHelperService(testDB)
	svc := NewReferralService(testDB, wallet, helper, NewNotificationService(nil))

	// 404 sponsored 403 sponsored 402 sponsored 401 (depositor)
	seedReferralChain(wallet, 401, 402, 403, 404)

	payouts := svc.PayoutCommissions(401, 1000)
	assert.Len(t, payouts, 3)

	w, _ := wallet.GetWallet(402)
	assert.InDelta(t, 100.0, w.EarningsBalance, 0.001)
	w, _ = wallet.GetWallet(403)
	assert.InDelta(t, 50.0, w.EarningsBalance, 0.001)
	w, _ = wallet.GetWallet(404)
	assert.InDelta(t, 30.0, w.EarningsBalance, 0.001)

	var bonuses []models.Transaction
	testDB.Where("type = ?", models.TrxReferralBonus).Order("id ASC").Find(&bonuses)
	if assert.Len(t, bonuses, 3) {
		assert.Equal(t, "A", bonuses[0].ReferralLevel)
		assert.Equal(t, "B", bonuses[1].ReferralLevel)
		assert.Equal(t, "C", bonuses[2].ReferralLevel)
		assert.Equal(t, models.StatusCompleted, bonuses[0].Status)
	}
}

func TestPayoutCommissionsShortChain(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	wallet := NewWalletService(testDB)
	helper := NewHelperService(testDB)
	svc := NewReferralService(testDB, wallet, helper, NewNotificationService(nil))

	// Only a level A sponsor exists
	seedReferralChain(wallet, 411, 412)

	payouts := svc.PayoutCommissions(411, 1000)
	assert.Len(t, payouts, 1)
	assert.Equal(t, "A", payouts[0].Level)

	w, _ := wallet.GetWallet(412)
	assert.InDelta(t, 100.0, w.EarningsBalance, 0.001)
}

func TestPayoutCommissionsStopAfterLevelC(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	wallet := NewWalletService(testDB)
	helper := NewHelperService(testDB)
	svc := NewReferralService(testDB, wallet, helper, NewNotificationService(nil))

	// Four ancestors above the depositor; the fourth is beyond level C
	seedReferralChain(wallet, 441, 442, 443, 444, 445)

	payouts := svc.PayoutCommissions(441, 1000)
	assert.Len(t, payouts, 3)

	w, _ := wallet.GetWallet(444)
	assert.InDelta(t, 30.0, w.EarningsBalance, 0.001)

	// Level D ancestor gets nothing
	w, _ = wallet.GetWallet(445)
	assert.Equal(t, 0.0, w.EarningsBalance)

	var count int64
	testDB.Model(&models.Transaction{}).Where("type = ?", models.TrxReferralBonus).Count(&count)
	assert.Equal(t, int64(3), count)
}

func TestPayoutCommissionsNoSponsor(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	wallet := NewWalletService(testDB)
	helper := NewHelperService(testDB)
	svc := NewReferralService(testDB, wallet, helper, NewNotificationService(nil))

	seedReferralChain(wallet, 421)

	payouts := svc.PayoutCommissions(421, 1000)
	assert.Empty(t, payouts)
}

func TestPayoutCommissionsCycleGuard(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	wallet := NewWalletService(testDB)
	helper := NewHelperService(testDB)
	svc := NewReferralService(testDB, wallet, helper, NewNotificationService(nil))

	// 431 and 432 sponsor each other
	wallet.CreateWallet(431)
	wallet.CreateWallet(432)
	a, b := 431, 432
	testDB.Create(&models.Profile{UserId: a, ReferralCode: "CYCLEA01", ReferredBy: &b})
	testDB.Create(&models.Profile{UserId: b, ReferralCode: "CYCLEB01", ReferredBy: &a})

	payouts := svc.PayoutCommissions(431, 1000)

	// Level A pays 432, then the walk stops instead of bouncing back to 431
	assert.Len(t, payouts, 1)
	w, _ := wallet.GetWallet(432)
	assert.InDelta(t, 100.0, w.EarningsBalance, 0.001)
	w, _ = wallet.GetWallet(431)
	assert.Equal(t, 0.0, w.EarningsBalance)
}
