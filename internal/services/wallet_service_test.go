package services

import (
	"errors"
	"log"
	"math"
	"os"
	"testing"

	"investment-service/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NOTE: These tests require a running MySQL instance.
// For this environment, we will write them to be ready for integration testing.
// In a real CI, we would spin up a container or use sqlite (if models are compatible).

var testDB *gorm.DB

func setup() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Println("Skipping DB tests: DATABASE_URL not set")
		return
	}

	var err error
	testDB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		return
	}

	// Migrate schemas
	testDB.AutoMigrate(
		&models.Wallet{},
		&models.Profile{},
		&models.InvestmentPlan{},
		&models.Investment{},
		&models.Transaction{},
		&models.Withdrawal{},
		&models.CallbackLog{},
	)
}

func cleanup() {
	if testDB != nil {
		testDB.Exec("DELETE FROM callback_logs")
		testDB.Exec("DELETE FROM withdrawals")
		testDB.Exec("DELETE FROM transactions")
		testDB.Exec("DELETE FROM investments")
		testDB.Exec("DELETE FROM profiles")
		testDB.Exec("DELETE FROM wallets")
	}
}

func TestCreditAndDebit(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := NewWalletService(testDB)

	if _, err := svc.CreateWallet(101); err != nil {
		t.Fatalf("CreateWallet failed: %v", err)
	}

	if err := svc.Credit(101, BalanceDeposit, 500); err != nil {
		t.Fatalf("Credit failed: %v", err)
	}
	if err := svc.Debit(101, BalanceDeposit, 200); err != nil {
		t.Fatalf("Debit failed: %v", err)
	}

	wallet, err := svc.GetWallet(101)
	if err != nil {
		t.Fatalf("GetWallet failed: %v", err)
	}
	if math.Abs(wallet.DepositBalance-300.00) > 0.01 {
		t.Errorf("Expected DepositBalance 300, got %f", wallet.DepositBalance)
	}
}

func TestDebitInsufficientFunds(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := NewWalletService(testDB)
	svc.CreateWallet(102)
	svc.Credit(102, BalanceEarnings, 50)

	err := svc.Debit(102, BalanceEarnings, 100)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("Expected ErrInsufficientFunds, got %v", err)
	}

	// Balance untouched by the failed debit
	wallet, _ := svc.GetWallet(102)
	if math.Abs(wallet.EarningsBalance-50.00) > 0.01 {
		t.Errorf("Expected EarningsBalance 50, got %f", wallet.EarningsBalance)
	}
}

func TestDebitMissingWallet(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := NewWalletService(testDB)

	err := svc.Debit(999999, BalanceDeposit, 10)
	if !errors.Is(err, ErrWalletNotFound) {
		t.Errorf("Expected ErrWalletNotFound, got %v", err)
	}
}

func TestTransferMovesBetweenBalances(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := NewWalletService(testDB)
	svc.CreateWallet(103)
	svc.Credit(103, BalanceDeposit, 1000)

	if err := svc.Transfer(103, BalanceDeposit, BalanceInvestment, 700); err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}

	wallet, _ := svc.GetWallet(103)
	if math.Abs(wallet.DepositBalance-300.00) > 0.01 {
		t.Errorf("Expected DepositBalance 300, got %f", wallet.DepositBalance)
	}
	if math.Abs(wallet.InvestmentBalance-700.00) > 0.01 {
		t.Errorf("Expected InvestmentBalance 700, got %f", wallet.InvestmentBalance)
	}
}

func TestTransferInsufficientSource(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := NewWalletService(testDB)
	svc.CreateWallet(104)
	svc.Credit(104, BalanceDeposit, 100)

	err := svc.Transfer(104, BalanceDeposit, BalanceInvestment, 500)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("Expected ErrInsufficientFunds, got %v", err)
	}

	// Neither balance moved
	wallet, _ := svc.GetWallet(104)
	if math.Abs(wallet.DepositBalance-100.00) > 0.01 {
		t.Errorf("Expected DepositBalance 100, got %f", wallet.DepositBalance)
	}
	if wallet.InvestmentBalance != 0 {
		t.Errorf("Expected InvestmentBalance 0, got %f", wallet.InvestmentBalance)
	}
}

func TestTransferCompensatesFailedCredit(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := NewWalletService(testDB)
	svc.CreateWallet(106)
	svc.Credit(106, BalanceDeposit, 500)

	// Unknown destination makes the credit leg fail after the debit succeeded;
	// the compensating credit restores the source balance.
	err := svc.Transfer(106, BalanceDeposit, "bonus", 200)
	if !errors.Is(err, ErrInvalidBalanceType) {
		t.Fatalf("Expected ErrInvalidBalanceType, got %v", err)
	}

	wallet, _ := svc.GetWallet(106)
	if math.Abs(wallet.DepositBalance-500.00) > 0.01 {
		t.Errorf("Expected DepositBalance restored to 500, got %f", wallet.DepositBalance)
	}
}

func TestInvalidBalanceType(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := NewWalletService(testDB)
	svc.CreateWallet(105)

	if err := svc.Credit(105, "bonus", 10); !errors.Is(err, ErrInvalidBalanceType) {
		t.Errorf("Expected ErrInvalidBalanceType, got %v", err)
	}
	if err := svc.Credit(105, BalanceDeposit, -10); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}
}

func TestMain(m *testing.M) {
	setup()
	code := m.Run()
	os.Exit(code)
}
