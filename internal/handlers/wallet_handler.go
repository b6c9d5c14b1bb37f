package handlers

import (
	"net/http"
	"strconv"

	"investment-service/internal/services"
	"investment-service/pkg/common"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	Wallet  *services.WalletService
	Helper  *services.HelperService
	Profile *services.ProfileService
}

func NewWalletHandler(wallet *services.WalletService, helper *services.HelperService, profile *services.ProfileService) *WalletHandler {
	return &WalletHandler{Wallet: wallet, Helper: helper, Profile: profile}
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, common.NewErrorResponse(message, nil, status))
}

type RegisterRequest struct {
	UserId       int    `json:"user_id" binding:"required"`
	FullName     string `json:"full_name" binding:"required"`
	Email        string `json:"email" binding:"required"`
	PhoneNumber  string `json:"phone_number" binding:"required"`
	ReferralCode string `json:"referral_code"`
}

func (h *WalletHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := h.Profile.CreateProfile(services.CreateProfileDTO{
		UserId:       req.UserId,
		FullName:     req.FullName,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		ReferralCode: req.ReferralCode,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(profile, "Profile created"))
}

func queryUserId(c *gin.Context) (int, bool) {
	userId, err := strconv.Atoi(c.Query("user_id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid user_id")
		return 0, false
	}
	return userId, true
}

func (h *WalletHandler) GetBalance(c *gin.Context) {
	userId, ok := queryUserId(c)
	if !ok {
		return
	}

	wallet, err := h.Wallet.GetWallet(userId)
	if err != nil {
		respondError(c, http.StatusNotFound, "Wallet not found")
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{
		"deposit_balance":    wallet.DepositBalance,
		"earnings_balance":   wallet.EarningsBalance,
		"investment_balance": wallet.InvestmentBalance,
		"withdrawal_balance": wallet.WithdrawalBalance,
		"total":              wallet.DepositBalance + wallet.EarningsBalance + wallet.InvestmentBalance + wallet.WithdrawalBalance,
	}, "Wallet fetched"))
}

func (h *WalletHandler) GetTransactions(c *gin.Context) {
	userId, ok := queryUserId(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	result, err := h.Helper.ListTransactions(services.ListTransactionsDTO{
		UserId: userId,
		Type:   c.Query("type"),
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch transactions")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *WalletHandler) GetReferrals(c *gin.Context) {
	userId, ok := queryUserId(c)
	if !ok {
		return
	}

	referrals, err := h.Profile.GetReferrals(userId)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch referrals")
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(referrals, "Referrals fetched"))
}
