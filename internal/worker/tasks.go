package worker

// Task Types (kept in sync with the constants in services)
const (
	TypeDepositEmail    = "email:deposit"
	TypeWithdrawalEmail = "email:withdrawal"
	TypeReferralEmail   = "email:referral"
)
