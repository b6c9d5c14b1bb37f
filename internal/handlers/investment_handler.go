package handlers

import (
	"net/http"
	"strconv"

	"investment-service/internal/services"
	"investment-service/pkg/common"

	"github.com/gin-gonic/gin"
)

type InvestmentHandler struct {
	Investment *services.InvestmentService
}

func NewInvestmentHandler(investment *services.InvestmentService) *InvestmentHandler {
	return &InvestmentHandler{Investment: investment}
}

func (h *InvestmentHandler) GetPlans(c *gin.Context) {
	plans, err := h.Investment.GetPlans()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch plans")
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(plans, "Plans fetched"))
}

type PurchaseRequest struct {
	UserId   int    `json:"user_id" binding:"required"`
	PlanCode string `json:"plan_code" binding:"required"`
}

func (h *InvestmentHandler) Purchase(c *gin.Context) {
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	investment, err := h.Investment.Purchase(req.UserId, req.PlanCode)
	if err != nil {
		respondError(c, mapServiceError(err), err.Error())
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(investment, "Investment created"))
}

func (h *InvestmentHandler) GetInvestments(c *gin.Context) {
	userId, ok := queryUserId(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	result, err := h.Investment.ListInvestments(userId, page, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch investments")
		return
	}

	c.JSON(http.StatusOK, result)
}
