package billing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revloop/revloop/internal/utils"
)

type recordingBillingService struct {
	calculatedMonth utils.Month
}

func (s *recordingBillingService) CalculateMonth(ctx context.Context, month utils.Month) (MonthlyBilling, error) {
	s.calculatedMonth = month
	return MonthlyBilling{
		Month:        month,
		TotalHours:   decimal.Zero,
		TotalRevenue: decimal.Zero,
	}, nil
}

func TestBillingHandler_GetMonthlyBilling_DefaultsToCurrentMonth(t *testing.T) {
	// given: no month query parameter and a clock fixed in March 2024
	service := &recordingBillingService{}
	clock := &utils.MockClock{}
	clock.SetNow(time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC))
	handler := NewBillingHandler(service, clock)

	// when
	recorder := httptest.NewRecorder()
	handler.GetMonthlyBilling(recorder, httptest.NewRequest("GET", "/api/billing/monthly", nil))

	// then: the clock's month is calculated and echoed back
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, utils.NewMonth(2024, time.March), service.calculatedMonth)
	var response MonthlyBillingDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, "2024-03", response.Month)
}

func TestBillingHandler_GetMonthlyBilling_ExplicitMonthWins(t *testing.T) {
	service := &recordingBillingService{}
	clock := &utils.MockClock{}
	clock.SetNow(time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC))
	handler := NewBillingHandler(service, clock)

	recorder := httptest.NewRecorder()
	handler.GetMonthlyBilling(recorder, httptest.NewRequest("GET", "/api/billing/monthly?month=2024-01", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, utils.NewMonth(2024, time.January), service.calculatedMonth)
}

func TestBillingHandler_GetMonthlyBilling_RejectsMalformedMonth(t *testing.T) {
	handler := NewBillingHandler(&recordingBillingService{}, &utils.MockClock{})

	recorder := httptest.NewRecorder()
	handler.GetMonthlyBilling(recorder, httptest.NewRequest("GET", "/api/billing/monthly?month=March-2024", nil))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
