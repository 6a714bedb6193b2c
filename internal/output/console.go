// Package output renders planning results for the terminal.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/mtanaka/lifeplan/internal/domain"
)

// ConsoleFormatter writes human-readable reports.
type ConsoleFormatter struct {
	w io.Writer
}

// NewConsoleFormatter creates a formatter writing to w.
func NewConsoleFormatter(w io.Writer) *ConsoleFormatter {
	return &ConsoleFormatter{w: w}
}

// Yen renders an amount as Japanese yen. Rounding happens only here, at
// presentation time.
func Yen(amount decimal.Decimal) string {
	return money.New(amount.Round(0).IntPart(), money.JPY).Display()
}

// FormatSummary prints the per-goal progress table and the weighted
// portfolio line.
func (cf *ConsoleFormatter) FormatSummary(summary domain.PortfolioSummary) {
	cf.header("GOAL FUNDING PLAN")

	if summary.TotalGoals == 0 {
		fmt.Fprintln(cf.w, "No goals configured. Overall probability: 100%")
		return
	}

	for _, r := range summary.Goals {
		fmt.Fprintf(cf.w, "%-24s %10s  target %s  projected %s  progress %s%%\n",
			r.GoalName,
			r.TargetDate.Format("2006-01"),
			Yen(r.TargetAmount),
			Yen(r.ProjectedAmount),
			r.ProgressPct.StringFixed(1))
		if r.Shortfall.IsPositive() {
			fmt.Fprintf(cf.w, "%-24s shortfall %s\n", "", Yen(r.Shortfall))
		}
	}

	fmt.Fprintln(cf.w)
	fmt.Fprintf(cf.w, "Goals: %d  Total target: %s  Total projected: %s\n",
		summary.TotalGoals, Yen(summary.TotalTarget), Yen(summary.TotalProjected))
	fmt.Fprintf(cf.w, "Overall probability (target-weighted): %s%%\n", summary.OverallProbability.StringFixed(1))
}

// FormatSimulation prints the Monte Carlo outcome: distribution, per-goal
// probabilities, trajectory and recommendations.
func (cf *ConsoleFormatter) FormatSimulation(result *domain.SimulationResult) {
	cf.header("MONTE CARLO SIMULATION")

	fmt.Fprintf(cf.w, "Initial investment: %s  Paths: %d\n",
		Yen(result.InitialInvestment), len(result.TerminalValues))
	fmt.Fprintf(cf.w, "Assumptions: return %s%%  volatility %s%%  inflation %s%%\n",
		result.Policy.AnnualReturn.StringFixed(1),
		result.Policy.Volatility.StringFixed(1),
		result.Policy.InflationRate.StringFixed(1))
	fmt.Fprintln(cf.w)

	for _, r := range result.GoalResults {
		fmt.Fprintf(cf.w, "%-24s probability %5s%%  median %s  p10 %s  p90 %s\n",
			r.GoalName,
			r.SuccessProbability.StringFixed(1),
			Yen(r.ProjectedAmount),
			Yen(r.Percentile10),
			Yen(r.Percentile90))
		fmt.Fprintf(cf.w, "%-24s %s\n", "", r.GapAnalysis)
		if r.ContributionNeeded.IsPositive() {
			fmt.Fprintf(cf.w, "%-24s contribution needed: %s/month\n", "", Yen(r.ContributionNeeded))
		}
	}

	fmt.Fprintln(cf.w)
	fmt.Fprintf(cf.w, "Overall success rate: %s%%\n", result.OverallSuccess.StringFixed(1))

	if len(result.Trajectory) > 0 {
		fmt.Fprintln(cf.w)
		fmt.Fprintln(cf.w, "Median trajectory:")
		for _, p := range result.Trajectory {
			fmt.Fprintf(cf.w, "  %d  %s\n", p.Date, Yen(p.MedianValue))
		}
	}

	if len(result.Recommendations) > 0 {
		fmt.Fprintln(cf.w)
		fmt.Fprintln(cf.w, "Recommendations:")
		for _, rec := range result.Recommendations {
			fmt.Fprintf(cf.w, "  - %s\n", rec)
		}
	}
}

// FormatAudit prints a purchase audit verdict.
func (cf *ConsoleFormatter) FormatAudit(result domain.AuditResult) {
	cf.header("PURCHASE AUDIT")

	fmt.Fprintf(cf.w, "Item: %s  Price: %s  Lifespan: %.1f years  Resale: %s\n",
		result.ItemName, Yen(result.PurchasePrice), result.LifespanYears, Yen(result.ResaleValue))
	fmt.Fprintf(cf.w, "True cost: %s  (%s/day, %s/month, %s/year)\n",
		Yen(result.TrueCost), Yen(result.DailyCost), Yen(result.MonthlyCost), Yen(result.AnnualCost))
	fmt.Fprintf(cf.w, "Runway impact: %.1f months  Savings-days impact: %d days\n",
		result.RunwayImpactMonths, result.AssetLifeImpactDays)

	if len(result.TradeOffs) > 0 {
		fmt.Fprintln(cf.w)
		fmt.Fprintln(cf.w, "Goal trade-offs:")
		for _, t := range result.TradeOffs {
			fmt.Fprintf(cf.w, "  %-22s %s%% -> %s%%  (%s)\n",
				t.GoalName,
				t.CurrentProbability.StringFixed(1),
				t.NewProbability.StringFixed(1),
				t.ImpactDescription)
		}
	}

	fmt.Fprintln(cf.w)
	fmt.Fprintf(cf.w, "Decision: %s\n", result.Decision)
	fmt.Fprintf(cf.w, "Reason:   %s\n", result.DecisionReason)
	if len(result.Alternatives) > 0 {
		fmt.Fprintln(cf.w, "Alternatives:")
		for _, alt := range result.Alternatives {
			fmt.Fprintf(cf.w, "  - %s\n", alt)
		}
	}
}

// FormatNetPosition prints the net position breakdown.
func (cf *ConsoleFormatter) FormatNetPosition(np domain.NetPosition) {
	cf.header("NET POSITION")
	fmt.Fprintf(cf.w, "Total assets:        %s\n", Yen(np.TotalAssets))
	fmt.Fprintf(cf.w, "Current debt:        %s\n", Yen(np.CurrentDebt))
	fmt.Fprintf(cf.w, "Future goal costs:   %s\n", Yen(np.FutureGoalCosts))
	fmt.Fprintf(cf.w, "Net position:        %s\n", Yen(np.NetPosition))
}

func (cf *ConsoleFormatter) header(title string) {
	fmt.Fprintln(cf.w, strings.Repeat("=", 64))
	fmt.Fprintln(cf.w, title)
	fmt.Fprintln(cf.w, strings.Repeat("=", 64))
}
