package services

import "errors"

// Failure taxonomy for the money-movement core. Per-item failures inside batch
// operations are logged and isolated; these sentinels are for callers that
// need to branch on the cause.
var (
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrInvalidBalanceType = errors.New("unknown balance type")
	ErrWalletNotFound     = errors.New("wallet not found")
	ErrPlanNotFound       = errors.New("investment plan not found")
)
