package handlers

import (
	"errors"
	"io"
	"net/http"

	"investment-service/internal/services"
	"investment-service/pkg/common"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	Mpesa    *services.MpesaService
	Callback *services.CallbackService
}

func NewPaymentHandler(mpesa *services.MpesaService, callback *services.CallbackService) *PaymentHandler {
	return &PaymentHandler{Mpesa: mpesa, Callback: callback}
}

type InitiateDepositRequest struct {
	UserId      int     `json:"user_id" binding:"required"`
	PhoneNumber string  `json:"phone_number" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
}

func (h *PaymentHandler) InitiateDeposit(c *gin.Context) {
	var req InitiateDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.Mpesa.InitiateSTKPush(req.UserId, req.PhoneNumber, req.Amount)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(result, "STK push sent, awaiting confirmation"))
}

// callbackSourceIP resolves the caller's address. X-Forwarded-For wins when the
// service sits behind a proxy; CallbackService judges the chain's first hop.
func callbackSourceIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.ClientIP()
}

// MpesaCallback is the gateway's webhook. The HTTP status is always 200; the
// gateway reads acceptance from the ResultCode in the body.
func (h *PaymentHandler) MpesaCallback(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusOK, services.CallbackAck{ResultCode: 1, ResultDesc: "Unreadable request body"})
		return
	}

	ack := h.Callback.HandleCallback(callbackSourceIP(c), raw)
	c.JSON(http.StatusOK, ack)
}

func mapServiceError(err error) int {
	switch {
	case errors.Is(err, services.ErrWalletNotFound), errors.Is(err, services.ErrPlanNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInsufficientFunds), errors.Is(err, services.ErrInvalidAmount):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
