package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtanaka/lifeplan/internal/calculation"
	"github.com/mtanaka/lifeplan/internal/domain"
	"github.com/mtanaka/lifeplan/internal/store"
)

func testServer(t *testing.T) http.Handler {
	t.Helper()
	seed := int64(42)
	plan := &domain.Plan{
		Portfolio: domain.PortfolioDetails{
			Name:            "Family",
			CurrentValue:    decimal.NewFromInt(3000000),
			TotalAssets:     decimal.NewFromInt(8000000),
			CurrentDebt:     decimal.NewFromInt(1000000),
			LiquidAssets:    decimal.NewFromInt(2000000),
			MonthlyExpenses: decimal.NewFromInt(250000),
		},
		Goals: []domain.Goal{
			{
				Name:         "House",
				TargetAmount: decimal.NewFromInt(10000000),
				TargetDate:   time.Now().AddDate(8, 0, 0),
				Priority:     domain.PriorityHigh,
			},
		},
		Simulation: domain.SimulationSettings{NumPaths: 100, HorizonYears: 10, Seed: &seed},
	}

	engine, err := calculation.NewSimulationEngine(calculation.SimulatorConfig{NumPaths: 100, Seed: &seed})
	require.NoError(t, err)
	return New(store.NewFileStore(plan), engine).Routes()
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Body.String(), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestServer_Health(t *testing.T) {
	rec, body := doJSON(t, testServer(t), http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestServer_Goals(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/strategy/goals", nil)
	rec := httptest.NewRecorder()
	testServer(t).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var results []domain.GoalResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "House", results[0].GoalName)
}

func TestServer_Overall(t *testing.T) {
	rec, body := doJSON(t, testServer(t), http.MethodGet, "/strategy/overall", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, body["totalGoals"])
	assert.Contains(t, body, "overallProbability")
}

func TestServer_SimulationConfig(t *testing.T) {
	rec, body := doJSON(t, testServer(t), http.MethodGet, "/simulation/config", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, "annual_return")
	assert.Contains(t, body, "monthly_savings")
}

func TestServer_SimulationRun(t *testing.T) {
	rec, body := doJSON(t, testServer(t), http.MethodPost, "/simulation/run", `{"horizon_years": 5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	values, ok := body["projectedValues"].([]any)
	require.True(t, ok)
	assert.Len(t, values, 100)

	trajectory, ok := body["roadmapTrajectory"].([]any)
	require.True(t, ok)
	assert.Len(t, trajectory, 6)
}

func TestServer_SimulationRunDefaultsHorizon(t *testing.T) {
	rec, body := doJSON(t, testServer(t), http.MethodPost, "/simulation/run", "")
	require.Equal(t, http.StatusOK, rec.Code)

	// Plan horizon is 10 years: 11 trajectory points including year 0.
	trajectory, ok := body["roadmapTrajectory"].([]any)
	require.True(t, ok)
	assert.Len(t, trajectory, 11)
}

func TestServer_Sensitivity(t *testing.T) {
	rec, body := doJSON(t, testServer(t), http.MethodPost, "/simulation/sensitivity",
		`{"goal_amount": "10000000", "horizon_years": 5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	returns, ok := body["returnSensitivity"].([]any)
	require.True(t, ok)
	assert.Len(t, returns, 5)
	contributions, ok := body["contributionSensitivity"].([]any)
	require.True(t, ok)
	assert.Len(t, contributions, 5)
}

func TestServer_Budget(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/analysis/budget?month=2025-06", nil)
	rec := httptest.NewRecorder()
	testServer(t).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var items []domain.BudgetItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Savings: House", items[0].Category)
	assert.Equal(t, "2025-06", items[0].Month)
}

func TestServer_NetPosition(t *testing.T) {
	rec, body := doJSON(t, testServer(t), http.MethodGet, "/analysis/net-position", "")
	require.Equal(t, http.StatusOK, rec.Code)

	// 8,000,000 - 1,000,000 - 10,000,000 unfunded = -3,000,000
	assert.Equal(t, "-3000000", body["netPosition"])
	assert.Equal(t, "10000000", body["futureLifeEventCosts"])
}

func TestServer_AuditPurchase(t *testing.T) {
	rec, body := doJSON(t, testServer(t), http.MethodPost, "/audit/purchase",
		`{"item_name": "Camera", "price": "450000", "lifespan_years": 5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "Camera", body["itemName"])
	assert.Contains(t, []any{"GO", "WAIT", "STOP"}, body["decision"])
}

func TestServer_AuditPurchaseRejectsBadJSON(t *testing.T) {
	rec, _ := doJSON(t, testServer(t), http.MethodPost, "/audit/purchase", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_QuickCheck(t *testing.T) {
	rec, body := doJSON(t, testServer(t), http.MethodPost, "/audit/quick-check", `{"price": "50000"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["requiresAudit"])

	rec, body = doJSON(t, testServer(t), http.MethodPost, "/audit/quick-check", `{"price": "1000"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["requiresAudit"])
}
