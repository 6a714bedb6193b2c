// Package server exposes the planning core over a small read-only HTTP API.
// Authentication, sessions and persistence live elsewhere; this surface only
// answers queries against an already-loaded plan.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"

	"github.com/mtanaka/lifeplan/internal/audit"
	"github.com/mtanaka/lifeplan/internal/calculation"
	"github.com/mtanaka/lifeplan/internal/domain"
	"github.com/mtanaka/lifeplan/internal/store"
)

// Server wires the calculation components behind HTTP handlers.
type Server struct {
	store      *store.FileStore
	engine     *calculation.SimulationEngine
	planner    *calculation.Planner
	aggregator *calculation.PortfolioAggregator
	auditor    *audit.PurchaseAuditor
}

// New creates a server around a loaded plan.
func New(fileStore *store.FileStore, engine *calculation.SimulationEngine) *Server {
	return &Server{
		store:      fileStore,
		engine:     engine,
		planner:    calculation.NewPlanner(),
		aggregator: calculation.NewPortfolioAggregator(),
		auditor:    audit.NewPurchaseAuditor(),
	}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/health", s.handleHealth)
	r.Get("/strategy/goals", s.handleGoals)
	r.Get("/strategy/overall", s.handleOverall)
	r.Get("/simulation/config", s.handlePolicy)
	r.Post("/simulation/run", s.handleSimulate)
	r.Post("/simulation/sensitivity", s.handleSensitivity)
	r.Get("/analysis/net-position", s.handleNetPosition)
	r.Get("/analysis/budget", s.handleBudget)
	r.Post("/audit/purchase", s.handleAudit)
	r.Post("/audit/quick-check", s.handleQuickCheck)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGoals(w http.ResponseWriter, r *http.Request) {
	goals, policy, err := s.materialize()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, s.planner.GoalProgress(goals, policy))
}

func (s *Server) handleOverall(w http.ResponseWriter, r *http.Request) {
	goals, policy, err := s.materialize()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	summary := s.aggregator.Aggregate(s.planner.GoalProgress(goals, policy))
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handlePolicy(w http.ResponseWriter, r *http.Request) {
	policy, err := s.store.GetPolicy("")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, policy)
}

type simulateRequest struct {
	HorizonYears int `json:"horizon_years"`
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	horizon := req.HorizonYears
	if horizon == 0 {
		horizon = s.store.Simulation().HorizonYears
	}

	goals, policy, err := s.materialize()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	initialValue, err := s.store.GetCurrentValue("")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	result, err := s.engine.Run(r.Context(), initialValue, policy, goals, horizon)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type sensitivityRequest struct {
	GoalAmount   decimal.Decimal `json:"goal_amount"`
	HorizonYears int             `json:"horizon_years"`
}

func (s *Server) handleSensitivity(w http.ResponseWriter, r *http.Request) {
	var req sensitivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	horizon := req.HorizonYears
	if horizon == 0 {
		horizon = s.store.Simulation().HorizonYears
	}

	policy, err := s.store.GetPolicy("")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	initialValue, err := s.store.GetCurrentValue("")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	result, err := s.engine.SensitivityAnalysis(r.Context(), initialValue, req.GoalAmount, policy, horizon)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	goals, policy, err := s.materialize()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	month := r.URL.Query().Get("month")
	if month == "" {
		month = time.Now().Format("2006-01")
	}
	writeJSON(w, http.StatusOK, s.aggregator.BudgetFromGoals(goals, policy.MonthlySavings, month))
}

func (s *Server) handleNetPosition(w http.ResponseWriter, r *http.Request) {
	goals, _, err := s.materialize()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	portfolio := s.store.Portfolio()
	np := s.aggregator.NetPosition(portfolio.TotalAssets, portfolio.CurrentDebt, goals)
	writeJSON(w, http.StatusOK, np)
}

type auditRequest struct {
	ItemName        string           `json:"item_name"`
	Price           decimal.Decimal  `json:"price"`
	LifespanYears   float64          `json:"lifespan_years"`
	ResaleValue     *decimal.Decimal `json:"resale_value,omitempty"`
	LiquidAssets    *decimal.Decimal `json:"liquid_assets,omitempty"`
	MonthlyExpenses *decimal.Decimal `json:"monthly_expenses,omitempty"`
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	var req auditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	goals, policy, err := s.materialize()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	portfolio := s.store.Portfolio()
	liquidAssets := req.LiquidAssets
	if liquidAssets == nil && portfolio.LiquidAssets.IsPositive() {
		liquidAssets = &portfolio.LiquidAssets
	}
	monthlyExpenses := req.MonthlyExpenses
	if monthlyExpenses == nil && portfolio.MonthlyExpenses.IsPositive() {
		monthlyExpenses = &portfolio.MonthlyExpenses
	}

	result := s.auditor.Audit(audit.Request{
		ItemName:        req.ItemName,
		Price:           req.Price,
		LifespanYears:   req.LifespanYears,
		ResaleValue:     req.ResaleValue,
		LiquidAssets:    liquidAssets,
		MonthlyExpenses: monthlyExpenses,
		GoalResults:     s.planner.GoalProgress(goals, policy),
	})
	writeJSON(w, http.StatusOK, result)
}

type quickCheckRequest struct {
	Price decimal.Decimal `json:"price"`
}

func (s *Server) handleQuickCheck(w http.ResponseWriter, r *http.Request) {
	var req quickCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, s.auditor.QuickCheck(req.Price))
}

// materialize loads everything the handlers need up front: goal list and
// policy in one place, so no handler touches the store mid-computation.
func (s *Server) materialize() ([]domain.Goal, domain.FundingPolicy, error) {
	goals, err := s.store.ListGoals("")
	if err != nil {
		return nil, domain.FundingPolicy{}, err
	}
	policy, err := s.store.GetPolicy("")
	if err != nil {
		return nil, domain.FundingPolicy{}, err
	}
	return goals, policy, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
