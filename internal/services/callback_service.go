package services

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"investment-service/internal/models"

	"gorm.io/gorm"
)

// MaxTransactionAge bounds how long an issued CheckoutRequestID stays
// redeemable. A callback for an older pending transaction is rejected and the
// transaction expired, so a leaked or replayed id goes stale quickly.
const MaxTransactionAge = 30 * time.Minute

// amountEpsilon is the tolerance for the gateway-reported amount cross-check.
const amountEpsilon = 0.01

// Safaricom M-Pesa callback egress ranges. The origin check is a textual
// prefix match over these, as published for the Daraja production gateway.
var safaricomIPRanges = []string{
	"196.201.214.",
	"196.201.212.",
	"196.201.213.",
	"196.201.215.",
	"41.215.130.",
	"41.215.131.",
}

// IsAllowedSourceIP reports whether ip falls inside the gateway's egress
// ranges. A forwarded chain ("a, b, c") is judged by its first hop.
func IsAllowedSourceIP(ip string) bool {
	if ip == "" {
		return false
	}
	actual := strings.TrimSpace(strings.Split(ip, ",")[0])
	for _, prefix := range safaricomIPRanges {
		if strings.HasPrefix(actual, prefix) {
			return true
		}
	}
	return false
}

// CallbackAck is the envelope the gateway inspects. ResultCode 0 stops its
// retry loop; anything nonzero tells it the callback was not accepted.
type CallbackAck struct {
	ResultCode int    `json:"ResultCode"`
	ResultDesc string `json:"ResultDesc"`
}

type CallbackItem struct {
	Name  string      `json:"Name"`
	Value interface{} `json:"Value"`
}

type STKCallback struct {
	MerchantRequestID string `json:"MerchantRequestID"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
	ResultCode        int    `json:"ResultCode"`
	ResultDesc        string `json:"ResultDesc"`
	CallbackMetadata  struct {
		Item []CallbackItem `json:"Item"`
	} `json:"CallbackMetadata"`
}

type CallbackPayload struct {
	Body struct {
		StkCallback STKCallback `json:"stkCallback"`
	} `json:"Body"`
}

// CallbackMetadata is the flattened success metadata list.
type CallbackMetadata struct {
	Amount          float64
	ReceiptNumber   string
	TransactionDate string
	PhoneNumber     string
}

// ParseCallbackMetadata flattens the gateway's name/value item list. Numeric
// values arrive as JSON numbers or strings depending on the field; both are
// accepted.
func ParseCallbackMetadata(items []CallbackItem) CallbackMetadata {
	var meta CallbackMetadata
	for _, item := range items {
		switch item.Name {
		case "Amount":
			meta.Amount = toFloat(item.Value)
		case "MpesaReceiptNumber":
			meta.ReceiptNumber = toString(item.Value)
		case "TransactionDate":
			meta.TransactionDate = toString(item.Value)
		case "PhoneNumber":
			meta.PhoneNumber = toString(item.Value)
		}
	}
	return meta
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, _ := strconv.ParseFloat(n, 64)
		return f
	}
	return 0
}

func toString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return ""
}

// CallbackService is the trust boundary for inbound payment confirmations.
type CallbackService struct {
	DB       *gorm.DB
	Wallet   *WalletService
	Helper   *HelperService
	Referral *ReferralService
	Notifier *NotificationService
}

func NewCallbackService(db *gorm.DB, wallet *WalletService, helper *HelperService, referral *ReferralService, notifier *NotificationService) *CallbackService {
	return &CallbackService{DB: db, Wallet: wallet, Helper: helper, Referral: referral, Notifier: notifier}
}

func (s *CallbackService) ipValidationEnabled() bool {
	return os.Getenv("ENABLE_MPESA_IP_VALIDATION") != "false"
}

func (s *CallbackService) logCallback(sourceIP, checkoutId string, raw []byte, ack CallbackAck, accepted bool) {
	status := 0
	if accepted {
		status = 1
	}
	ackJson, _ := json.Marshal(ack)
	entry := models.CallbackLog{
		Request:           string(raw),
		Response:          string(ackJson),
		SourceIP:          sourceIP,
		Status:            status,
		CheckoutRequestId: checkoutId,
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		log.Printf("Callback: failed to write callback log: %v", err)
	}
}

// HandleCallback authenticates, deduplicates and applies one gateway webhook.
// Rejections at the source/correlation/staleness steps return a nonzero ack;
// once a callback passes those gates the gateway always gets ResultCode 0,
// whether the payment itself succeeded or failed, so its retries stop.
func (s *CallbackService) HandleCallback(sourceIP string, raw []byte) CallbackAck {
	if s.ipValidationEnabled() && !IsAllowedSourceIP(sourceIP) {
		log.Printf("Callback: rejected unauthorized source IP %q", sourceIP)
		ack := CallbackAck{ResultCode: 1, ResultDesc: "Unauthorized source"}
		s.logCallback(sourceIP, "", raw, ack, false)
		return ack
	}

	var payload CallbackPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Printf("Callback: malformed payload: %v", err)
		ack := CallbackAck{ResultCode: 1, ResultDesc: "Malformed callback payload"}
		s.logCallback(sourceIP, "", raw, ack, false)
		return ack
	}
	cb := payload.Body.StkCallback

	// Correlation lookup. Only an id this system issued can match, and only
	// while its transaction is still pending - the primary replay defense.
	var trx models.Transaction
	err := s.DB.Where("checkout_request_id = ? AND status = ?", cb.CheckoutRequestID, models.StatusPending).
		First(&trx).Error
	if err != nil {
		log.Printf("Callback: no pending transaction for CheckoutRequestID %q", cb.CheckoutRequestID)
		ack := CallbackAck{ResultCode: 1, ResultDesc: "Invalid or expired checkout request"}
		s.logCallback(sourceIP, cb.CheckoutRequestID, raw, ack, false)
		return ack
	}

	if time.Since(trx.CreatedAt) > MaxTransactionAge {
		log.Printf("Callback: transaction %d is %s old, expiring", trx.ID, time.Since(trx.CreatedAt).Round(time.Minute))
		if _, err := s.Helper.SettleTransaction(trx.ID, models.StatusFailed, map[string]interface{}{
			"description": "Transaction expired - callback received too late",
		}); err != nil {
			log.Printf("Callback: failed to expire transaction %d: %v", trx.ID, err)
		}
		ack := CallbackAck{ResultCode: 1, ResultDesc: "Transaction expired"}
		s.logCallback(sourceIP, cb.CheckoutRequestID, raw, ack, false)
		return ack
	}

	if cb.ResultCode != 0 {
		if _, err := s.Helper.SettleTransaction(trx.ID, models.StatusFailed, map[string]interface{}{
			"description": cb.ResultDesc,
		}); err != nil {
			log.Printf("Callback: failed to mark transaction %d failed: %v", trx.ID, err)
		}
		ack := CallbackAck{ResultCode: 0, ResultDesc: "Callback received successfully"}
		s.logCallback(sourceIP, cb.CheckoutRequestID, raw, ack, true)
		return ack
	}

	meta := ParseCallbackMetadata(cb.CallbackMetadata.Item)
	creditAmount := meta.Amount
	if creditAmount <= 0 {
		creditAmount = trx.Amount
	}

	description := fmt.Sprintf("M-Pesa deposit confirmed (receipt %s)", meta.ReceiptNumber)
	if math.Abs(trx.Amount-creditAmount) > amountEpsilon {
		// Discrepancy is applied at the gateway-reported amount but flagged
		// on the record for manual review.
		log.Printf("Callback: AMOUNT MISMATCH on transaction %d: expected %.2f, gateway reported %.2f",
			trx.ID, trx.Amount, creditAmount)
		description = fmt.Sprintf("%s - AMOUNT MISMATCH: expected %.2f, received %.2f",
			description, trx.Amount, creditAmount)
	}

	// Single-use claim: the pending precondition inside SettleTransaction is
	// the serialization point. A concurrent duplicate loses the conditional
	// update and is turned away here.
	claimed, err := s.Helper.SettleTransaction(trx.ID, models.StatusCompleted, map[string]interface{}{
		"mpesa_receipt_number": meta.ReceiptNumber,
		"description":          description,
	})
	if err != nil {
		log.Printf("Callback: failed to settle transaction %d: %v", trx.ID, err)
		ack := CallbackAck{ResultCode: 1, ResultDesc: "Database error"}
		s.logCallback(sourceIP, cb.CheckoutRequestID, raw, ack, false)
		return ack
	}
	if !claimed {
		log.Printf("Callback: transaction %d already settled, rejecting duplicate", trx.ID)
		ack := CallbackAck{ResultCode: 1, ResultDesc: "Invalid or expired checkout request"}
		s.logCallback(sourceIP, cb.CheckoutRequestID, raw, ack, false)
		return ack
	}

	if err := s.Wallet.Credit(trx.UserId, BalanceDeposit, creditAmount); err != nil {
		// Last-resort path: direct read-modify-write. Known race risk,
		// accepted over losing a confirmed deposit.
		log.Printf("Callback: atomic credit failed for user %d, falling back: %v", trx.UserId, err)
		var wallet models.Wallet
		if ferr := s.DB.Where("user_id = ?", trx.UserId).First(&wallet).Error; ferr == nil {
			if uerr := s.DB.Model(&models.Wallet{}).Where("user_id = ?", trx.UserId).
				Update("deposit_balance", wallet.DepositBalance+creditAmount).Error; uerr != nil {
				log.Printf("Callback: fallback credit also failed for user %d: %v", trx.UserId, uerr)
			}
		} else {
			log.Printf("Callback: fallback lookup failed for user %d: %v", trx.UserId, ferr)
		}
	}

	s.Referral.PayoutCommissions(trx.UserId, creditAmount)

	s.Notifier.SendDepositEmail(DepositEmailPayload{
		UserId:        trx.UserId,
		Amount:        creditAmount,
		TransactionId: trx.ID,
		MpesaReceipt:  meta.ReceiptNumber,
	})

	ack := CallbackAck{ResultCode: 0, ResultDesc: "Callback received successfully"}
	s.logCallback(sourceIP, cb.CheckoutRequestID, raw, ack, true)
	return ack
}
