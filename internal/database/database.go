package database

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"investment-service/internal/models"
)

var DB *gorm.DB

func Connect() {
	var err error
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
	)

	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	log.Println("Database connection established")
}

func Migrate() {
	err := DB.AutoMigrate(
		&models.Wallet{},
		&models.Profile{},
		&models.InvestmentPlan{},
		&models.Investment{},
		&models.Transaction{},
		&models.Withdrawal{},
		&models.CallbackLog{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}

	SeedPlans(DB)
	log.Println("Database migration completed")
}

// SeedPlans inserts the fixed plan catalog. Existing rows are left untouched
// so operators can deactivate a plan without the seeder resurrecting it.
func SeedPlans(db *gorm.DB) {
	plans := []models.InvestmentPlan{
		{Code: "A", Name: "British Classic Taxi", Deposit: 200, DailyEarning: 50, DurationDays: 30, Active: true},
		{Code: "B", Name: "American Modern Taxi", Deposit: 500, DailyEarning: 100, DurationDays: 30, Active: true},
		{Code: "C", Name: "Electric Eco Taxi", Deposit: 700, DailyEarning: 120, DurationDays: 30, Active: true},
		{Code: "D", Name: "Bugatti-Style Luxury Taxi", Deposit: 1000, DailyEarning: 200, DurationDays: 30, Active: true},
		{Code: "E", Name: "Premium Sports Taxi", Deposit: 2000, DailyEarning: 300, DurationDays: 30, Active: true},
		{Code: "F", Name: "Ultimate Supercar Taxi", Deposit: 5000, DailyEarning: 500, DurationDays: 30, Active: true},
	}

	for _, plan := range plans {
		var existing models.InvestmentPlan
		if err := db.Where("code = ?", plan.Code).First(&existing).Error; err == gorm.ErrRecordNotFound {
			if err := db.Create(&plan).Error; err != nil {
				log.Printf("Failed to seed plan %s: %v", plan.Code, err)
			}
		}
	}
}
