package services

import (
	"encoding/base64"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"investment-service/internal/models"
	"investment-service/pkg/common"

	"gorm.io/gorm"
)

// Deposit limits in KES, enforced before any gateway call.
const (
	MinDepositAmount = 10
	MaxDepositAmount = 150000
)

// Accepts 07XXXXXXXX, 01XXXXXXXX, 254XXXXXXXXX, +254XXXXXXXXX.
var kenyanPhoneRegex = regexp.MustCompile(`^(?:254|\+254|0)?([17]\d{8})$`)

// FormatPhoneNumber normalizes a Kenyan mobile number to 254XXXXXXXXX form.
func FormatPhoneNumber(phone string) (string, error) {
	cleaned := strings.ReplaceAll(phone, " ", "")
	m := kenyanPhoneRegex.FindStringSubmatch(cleaned)
	if m == nil {
		return "", fmt.Errorf("invalid Kenyan phone number: %q", phone)
	}
	return "254" + m[1], nil
}

// ValidateDepositAmount checks the gateway's accepted range.
func ValidateDepositAmount(amount float64) error {
	if amount < MinDepositAmount || amount > MaxDepositAmount {
		return fmt.Errorf("amount must be between %d and %d KES", MinDepositAmount, MaxDepositAmount)
	}
	return nil
}

// MpesaService initiates STK push deposits against the Daraja API. The
// confirmation side lives in CallbackService.
type MpesaService struct {
	DB     *gorm.DB
	Helper *HelperService
}

func NewMpesaService(db *gorm.DB, helper *HelperService) *MpesaService {
	return &MpesaService{DB: db, Helper: helper}
}

func (s *MpesaService) baseUrl() string {
	if url := os.Getenv("MPESA_BASE_URL"); url != "" {
		return url
	}
	return "https://sandbox.safaricom.co.ke"
}

func (s *MpesaService) shortCode() string {
	if code := os.Getenv("MPESA_BUSINESS_SHORTCODE"); code != "" {
		return code
	}
	return "174379" // Daraja sandbox shortcode
}

func (s *MpesaService) getAccessToken() (string, error) {
	auth := base64.StdEncoding.EncodeToString([]byte(
		os.Getenv("MPESA_CONSUMER_KEY") + ":" + os.Getenv("MPESA_CONSUMER_SECRET")))

	res, err := common.Get(
		s.baseUrl()+"/oauth/v1/generate?grant_type=client_credentials",
		map[string]string{"Authorization": "Basic " + auth},
	)
	if err != nil {
		return "", fmt.Errorf("mpesa token request: %w", err)
	}

	resMap, ok := res.(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("mpesa token response malformed")
	}
	token, _ := resMap["access_token"].(string)
	if token == "" {
		return "", fmt.Errorf("mpesa token missing in response")
	}
	return token, nil
}

type STKPushResult struct {
	TransactionId     int    `json:"transactionId"`
	CheckoutRequestId string `json:"checkoutRequestId"`
	MerchantRequestId string `json:"merchantRequestId"`
}

// InitiateSTKPush validates the request, fires the STK push and records the
// pending deposit transaction that the gateway callback will later settle.
// The returned CheckoutRequestID is the correlation token: only a callback
// echoing an id we stored here can ever be applied.
func (s *MpesaService) InitiateSTKPush(userId int, phoneNumber string, amount float64) (STKPushResult, error) {
	if err := ValidateDepositAmount(amount); err != nil {
		return STKPushResult{}, err
	}
	phone, err := FormatPhoneNumber(phoneNumber)
	if err != nil {
		return STKPushResult{}, err
	}

	token, err := s.getAccessToken()
	if err != nil {
		return STKPushResult{}, err
	}

	timestamp := time.Now().Format("20060102150405")
	password := base64.StdEncoding.EncodeToString([]byte(
		s.shortCode() + os.Getenv("MPESA_PASSKEY") + timestamp))

	res, err := common.Post(s.baseUrl()+"/mpesa/stkpush/v1/processrequest", map[string]interface{}{
		"BusinessShortCode": s.shortCode(),
		"Password":          password,
		"Timestamp":         timestamp,
		"TransactionType":   "CustomerPayBillOnline",
		"Amount":            int(amount + 0.5),
		"PartyA":            phone,
		"PartyB":            s.shortCode(),
		"PhoneNumber":       phone,
		"CallBackURL":       os.Getenv("MPESA_CALLBACK_URL"),
		"AccountReference":  common.GenerateTrxNo(),
		"TransactionDesc":   "Deposit to account",
	}, map[string]string{"Authorization": "Bearer " + token})
	if err != nil {
		return STKPushResult{}, fmt.Errorf("stk push request: %w", err)
	}

	resMap, ok := res.(map[string]interface{})
	if !ok {
		return STKPushResult{}, fmt.Errorf("stk push response malformed")
	}

	checkoutId, _ := resMap["CheckoutRequestID"].(string)
	merchantId, _ := resMap["MerchantRequestID"].(string)
	if checkoutId == "" {
		desc, _ := resMap["errorMessage"].(string)
		return STKPushResult{}, fmt.Errorf("stk push rejected by gateway: %s", desc)
	}

	trx, err := s.Helper.SaveTransaction(TransactionData{
		UserId:            userId,
		Type:              models.TrxDeposit,
		Amount:            amount,
		Status:            models.StatusPending,
		Description:       fmt.Sprintf("M-Pesa deposit from %s", phone),
		CheckoutRequestId: checkoutId,
	})
	if err != nil {
		return STKPushResult{}, fmt.Errorf("record pending deposit: %w", err)
	}

	return STKPushResult{
		TransactionId:     trx.ID,
		CheckoutRequestId: checkoutId,
		MerchantRequestId: merchantId,
	}, nil
}
