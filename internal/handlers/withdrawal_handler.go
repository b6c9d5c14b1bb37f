package handlers

import (
	"net/http"
	"strconv"

	"investment-service/internal/services"
	"investment-service/pkg/common"

	"github.com/gin-gonic/gin"
)

type WithdrawalHandler struct {
	Withdrawal *services.WithdrawalService
}

func NewWithdrawalHandler(withdrawal *services.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{Withdrawal: withdrawal}
}

type WithdrawalRequest struct {
	UserId      int     `json:"user_id" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
	PhoneNumber string  `json:"phone_number" binding:"required"`
}

func (h *WithdrawalHandler) Request(c *gin.Context) {
	var req WithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	withdrawal, err := h.Withdrawal.RequestWithdrawal(req.UserId, req.Amount, req.PhoneNumber)
	if err != nil {
		respondError(c, mapServiceError(err), err.Error())
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(withdrawal, "Withdrawal request submitted"))
}

type SettleWithdrawalRequest struct {
	UpdatedBy string `json:"updated_by" binding:"required"`
	Comment   string `json:"comment"`
}

func (h *WithdrawalHandler) Approve(c *gin.Context) {
	withdrawalId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid withdrawal id")
		return
	}

	var req SettleWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Withdrawal.Approve(withdrawalId, req.UpdatedBy); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(nil, "Withdrawal approved"))
}

func (h *WithdrawalHandler) Reject(c *gin.Context) {
	withdrawalId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid withdrawal id")
		return
	}

	var req SettleWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Withdrawal.Reject(withdrawalId, req.UpdatedBy, req.Comment); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(nil, "Withdrawal rejected"))
}

func (h *WithdrawalHandler) GetWithdrawals(c *gin.Context) {
	userId, _ := strconv.Atoi(c.Query("user_id"))
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	var status *int
	if s := c.Query("status"); s != "" {
		val, err := strconv.Atoi(s)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid status")
			return
		}
		status = &val
	}

	result, err := h.Withdrawal.ListWithdrawals(services.ListWithdrawalsDTO{
		UserId: userId,
		Status: status,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch withdrawals")
		return
	}

	c.JSON(http.StatusOK, result)
}
