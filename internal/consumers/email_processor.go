package consumers

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"investment-service/internal/models"
	"investment-service/internal/services"

	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

// EmailProcessor consumes notification jobs and delivers them over SMTP.
// Delivery failures are logged and dropped; asynq retry handles transient
// SMTP outages at the queue level.
type EmailProcessor struct {
	DB *gorm.DB
}

func NewEmailProcessor(db *gorm.DB) *EmailProcessor {
	return &EmailProcessor{DB: db}
}

func (p *EmailProcessor) send(to, subject, htmlBody string) error {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return fmt.Errorf("SMTP_HOST not configured")
	}
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = os.Getenv("SMTP_USERNAME")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(host, port, os.Getenv("SMTP_USERNAME"), os.Getenv("SMTP_PASSWORD"))
	return d.DialAndSend(m)
}

func (p *EmailProcessor) recipient(userId int) (models.Profile, error) {
	var profile models.Profile
	if err := p.DB.Where("user_id = ?", userId).First(&profile).Error; err != nil {
		return models.Profile{}, err
	}
	if profile.Email == "" {
		return models.Profile{}, fmt.Errorf("user %d has no email address", userId)
	}
	return profile, nil
}

func (p *EmailProcessor) ProcessDepositEmail(data services.DepositEmailPayload) {
	log.Printf("Processing deposit email for user %d", data.UserId)
	profile, err := p.recipient(data.UserId)
	if err != nil {
		log.Printf("Email: deposit notification skipped: %v", err)
		return
	}

	body := fmt.Sprintf(`
		<h2>Deposit Confirmed</h2>
		<p>Hello %s,</p>
		<p>Your deposit of <strong>KES %.2f</strong> has been received and credited to your wallet.</p>
		<p>M-Pesa receipt: <strong>%s</strong></p>
		<p>Transaction reference: #%d</p>`,
		profile.FullName, data.Amount, data.MpesaReceipt, data.TransactionId)

	if err := p.send(profile.Email, "Deposit Confirmed", body); err != nil {
		log.Printf("Email: failed to send deposit notification to %s: %v", profile.Email, err)
	}
}

func (p *EmailProcessor) ProcessWithdrawalEmail(data services.WithdrawalEmailPayload) {
	log.Printf("Processing withdrawal email for user %d", data.UserId)
	profile, err := p.recipient(data.UserId)
	if err != nil {
		log.Printf("Email: withdrawal notification skipped: %v", err)
		return
	}

	body := fmt.Sprintf(`
		<h2>Withdrawal Request Received</h2>
		<p>Hello %s,</p>
		<p>Your withdrawal request of <strong>KES %.2f</strong> to M-Pesa number %s is being reviewed.</p>
		<p>You will be notified once it is processed.</p>
		<p>Transaction reference: #%d</p>`,
		profile.FullName, data.Amount, data.PhoneNumber, data.TransactionId)

	if err := p.send(profile.Email, "Withdrawal Request Received", body); err != nil {
		log.Printf("Email: failed to send withdrawal notification to %s: %v", profile.Email, err)
	}
}

func (p *EmailProcessor) ProcessReferralEmail(data services.ReferralEmailPayload) {
	log.Printf("Processing referral email for user %d", data.ReferrerId)
	profile, err := p.recipient(data.ReferrerId)
	if err != nil {
		log.Printf("Email: referral notification skipped: %v", err)
		return
	}

	body := fmt.Sprintf(`
		<h2>Referral Bonus Earned</h2>
		<p>Hello %s,</p>
		<p>%s made a deposit and you earned a level %s referral bonus of <strong>KES %.2f</strong> (%d%%).</p>
		<p>The bonus has been credited to your earnings balance.</p>`,
		profile.FullName, data.DepositorName, data.Level, data.Bonus, data.Percentage)

	if err := p.send(profile.Email, "Referral Bonus Earned", body); err != nil {
		log.Printf("Email: failed to send referral notification to %s: %v", profile.Email, err)
	}
}
