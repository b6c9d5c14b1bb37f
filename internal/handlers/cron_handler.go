package handlers

import (
	"net/http"
	"os"
	"time"

	"investment-service/internal/services"
	"investment-service/pkg/common"

	"github.com/gin-gonic/gin"
)

type CronHandler struct {
	Accrual *services.AccrualService
}

func NewCronHandler(accrual *services.AccrualService) *CronHandler {
	return &CronHandler{Accrual: accrual}
}

// ProcessEarnings triggers an accrual pass outside the internal schedule. The
// shared secret gates it; the pass itself is idempotent so an overlap with the
// hourly cron is harmless.
func (h *CronHandler) ProcessEarnings(c *gin.Context) {
	secret := os.Getenv("CRON_SECRET")
	if secret == "" || c.GetHeader("x-cron-secret") != secret {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	summary, err := h.Accrual.ProcessEarnings(time.Now())
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(summary, "Accrual pass completed"))
}
