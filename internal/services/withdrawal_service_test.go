package services

import (
	"math"
	"testing"

	"investment-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestWithdrawalFee(t *testing.T) {
	cases := []struct {
		amount   float64
		expected float64
	}{
		{100, 10},    // 2% = 2, clamped up to the floor
		{500, 10},    // 2% = 10, exactly the floor
		{1000, 20},   // 2% within the band
		{2500, 50},   // 2% = 50, exactly the cap
		{10000, 50},  // 2% = 200, clamped to the cap
	}

	for _, c := range cases {
		got := WithdrawalFee(c.amount)
		if math.Abs(got-c.expected) > 0.001 {
			t.Errorf("WithdrawalFee(%.0f) = %.2f, expected %.2f", c.amount, got, c.expected)
		}
	}
}

func newTestWithdrawalService() (*WithdrawalService, *WalletService) {
	wallet := NewWalletService(testDB)
	helper := NewHelperService(testDB)
	svc := NewWithdrawalService(testDB, wallet, helper, NewNotificationService(nil))
	return svc, wallet
}

func TestRequestWithdrawalEarningsFirst(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc, wallet := newTestWithdrawalService()
	wallet.CreateWallet(501)
	wallet.Credit(501, BalanceEarnings, 300)
	wallet.Credit(501, BalanceDeposit, 400)

	withdrawal, err := svc.RequestWithdrawal(501, 500, "0712345678")
	assert.NoError(t, err)

	// 300 from earnings, remaining 200 from deposit
	assert.InDelta(t, 300.0, withdrawal.FromEarnings, 0.001)
	assert.InDelta(t, 200.0, withdrawal.FromDeposit, 0.001)
	assert.InDelta(t, 10.0, withdrawal.Fee, 0.001)
	assert.InDelta(t, 490.0, withdrawal.NetAmount, 0.001)
	assert.Equal(t, "254712345678", withdrawal.PhoneNumber)
	assert.Equal(t, models.WithdrawalPending, withdrawal.Status)

	// Gross parked in the hold bucket
	w, _ := wallet.GetWallet(501)
	assert.Equal(t, 0.0, w.EarningsBalance)
	assert.InDelta(t, 200.0, w.DepositBalance, 0.001)
	assert.InDelta(t, 500.0, w.WithdrawalBalance, 0.001)
}

func TestRequestWithdrawalRejectsBelowMinimum(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc, wallet := newTestWithdrawalService()
	wallet.CreateWallet(502)
	wallet.Credit(502, BalanceDeposit, 1000)

	_, err := svc.RequestWithdrawal(502, 99, "0712345678")
	assert.Error(t, err)
}

func TestRequestWithdrawalInsufficientCombinedBalance(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc, wallet := newTestWithdrawalService()
	wallet.CreateWallet(503)
	wallet.Credit(503, BalanceEarnings, 100)
	wallet.Credit(503, BalanceDeposit, 100)

	_, err := svc.RequestWithdrawal(503, 300, "0712345678")
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	// Balances untouched
	w, _ := wallet.GetWallet(503)
	assert.InDelta(t, 100.0, w.EarningsBalance, 0.001)
	assert.InDelta(t, 100.0, w.DepositBalance, 0.001)
}

func TestApproveReleasesHold(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc, wallet := newTestWithdrawalService()
	wallet.CreateWallet(504)
	wallet.Credit(504, BalanceEarnings, 600)

	withdrawal, err := svc.RequestWithdrawal(504, 500, "0712345678")
	assert.NoError(t, err)

	assert.NoError(t, svc.Approve(withdrawal.ID, "admin"))

	// Money left the system
	w, _ := wallet.GetWallet(504)
	assert.Equal(t, 0.0, w.WithdrawalBalance)
	assert.InDelta(t, 100.0, w.EarningsBalance, 0.001)

	var settled models.Transaction
	testDB.First(&settled, withdrawal.TransactionId)
	assert.Equal(t, models.StatusCompleted, settled.Status)

	// Second approval is refused
	assert.Error(t, svc.Approve(withdrawal.ID, "admin"))
}

func TestRejectRefundsSplit(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc, wallet := newTestWithdrawalService()
	wallet.CreateWallet(505)
	wallet.Credit(505, BalanceEarnings, 300)
	wallet.Credit(505, BalanceDeposit, 400)

	withdrawal, err := svc.RequestWithdrawal(505, 500, "0712345678")
	assert.NoError(t, err)

	assert.NoError(t, svc.Reject(withdrawal.ID, "admin", "suspicious activity"))

	// Refund lands back in the buckets it was drawn from
	w, _ := wallet.GetWallet(505)
	assert.Equal(t, 0.0, w.WithdrawalBalance)
	assert.InDelta(t, 300.0, w.EarningsBalance, 0.001)
	assert.InDelta(t, 400.0, w.DepositBalance, 0.001)

	var settled models.Transaction
	testDB.First(&settled, withdrawal.TransactionId)
	assert.Equal(t, models.StatusRejected, settled.Status)

	var row models.Withdrawal
	testDB.First(&row, withdrawal.ID)
	assert.Equal(t, models.WithdrawalRejected, row.Status)
	assert.Equal(t, "suspicious activity", row.Comment)
}
