package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"investment-service/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newCronRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// Accrual service is never reached when the secret gate rejects
	r.POST("/cron/process-earnings", NewCronHandler(nil).ProcessEarnings)
	return r
}

func TestProcessEarningsRejectsMissingSecret(t *testing.T) {
	t.Setenv("CRON_SECRET", "hourly-secret")
	r := newCronRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cron/process-earnings", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var res common.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.False(t, res.Success)
	assert.Equal(t, http.StatusUnauthorized, res.Status)
	assert.Equal(t, "Unauthorized", res.Message)
}

func TestProcessEarningsRejectsWrongSecret(t *testing.T) {
	t.Setenv("CRON_SECRET", "hourly-secret")
	r := newCronRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cron/process-earnings", nil)
	req.Header.Set("x-cron-secret", "guessed")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProcessEarningsRejectsWhenSecretUnconfigured(t *testing.T) {
	// An unset CRON_SECRET closes the endpoint instead of opening it
	t.Setenv("CRON_SECRET", "")
	r := newCronRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cron/process-earnings", nil)
	req.Header.Set("x-cron-secret", "")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
