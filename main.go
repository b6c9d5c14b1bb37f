package main

import (
	"log"
	"os"

	"investment-service/internal/database"
	"investment-service/internal/handlers"
	"investment-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found in current directory, trying parent")
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("No .env file found, using system environment variables")
		}
	}

	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	}

	// Initialize Database
	database.Connect()
	database.Migrate()
	db := database.DB

	// Redis/Asynq Client
	redisAddr := os.Getenv("REDIS_URL")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	defer asynqClient.Close()

	// Init Services
	helperService := services.NewHelperService(db)
	walletService := services.NewWalletService(db)
	notificationService := services.NewNotificationService(asynqClient)
	profileService := services.NewProfileService(db, walletService)
	referralService := services.NewReferralService(db, walletService, helperService, notificationService)
	mpesaService := services.NewMpesaService(db, helperService)
	callbackService := services.NewCallbackService(db, walletService, helperService, referralService, notificationService)
	accrualService := services.NewAccrualService(db, walletService, helperService)
	investmentService := services.NewInvestmentService(db, walletService, helperService)
	withdrawalService := services.NewWithdrawalService(db, walletService, helperService, notificationService)

	// Handlers
	walletHandler := handlers.NewWalletHandler(walletService, helperService, profileService)
	paymentHandler := handlers.NewPaymentHandler(mpesaService, callbackService)
	investmentHandler := handlers.NewInvestmentHandler(investmentService)
	withdrawalHandler := handlers.NewWithdrawalHandler(withdrawalService)
	cronHandler := handlers.NewCronHandler(accrualService)

	// Initialize Gin
	r := gin.Default()

	// Ping endpoint
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Welcome To Investment service",
		})
	})

	api := r.Group("/api")
	{
		api.POST("/users/register", walletHandler.Register)
		api.GET("/wallet", walletHandler.GetBalance)
		api.GET("/transactions", walletHandler.GetTransactions)
		api.GET("/referrals", walletHandler.GetReferrals)

		api.POST("/deposits/initiate", paymentHandler.InitiateDeposit)
		api.POST("/webhooks/mpesa/callback", paymentHandler.MpesaCallback)

		api.GET("/plans", investmentHandler.GetPlans)
		api.POST("/investments", investmentHandler.Purchase)
		api.GET("/investments", investmentHandler.GetInvestments)

		api.POST("/withdrawals", withdrawalHandler.Request)
		api.GET("/withdrawals", withdrawalHandler.GetWithdrawals)
		api.POST("/admin/withdrawals/:id/approve", withdrawalHandler.Approve)
		api.POST("/admin/withdrawals/:id/reject", withdrawalHandler.Reject)
	}

	r.POST("/cron/process-earnings", cronHandler.ProcessEarnings)

	// Start Cron Schedulers
	accrualService.StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("HTTP Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
