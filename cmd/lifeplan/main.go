package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mtanaka/lifeplan/internal/audit"
	"github.com/mtanaka/lifeplan/internal/calculation"
	"github.com/mtanaka/lifeplan/internal/config"
	"github.com/mtanaka/lifeplan/internal/domain"
	"github.com/mtanaka/lifeplan/internal/output"
	"github.com/mtanaka/lifeplan/internal/server"
	"github.com/mtanaka/lifeplan/internal/store"
	"github.com/mtanaka/lifeplan/internal/tui"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "lifeplan",
	Short: "Goal funding planner CLI",
	Long:  "Financial goal planner: annuity projections, Monte Carlo goal simulation and purchase audits",
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "lifeplan %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
				fmt.Fprintln(os.Stdout, bi.Main.Path)
			}
		},
	}
}

// loadPlan parses and validates the plan file shared by every subcommand.
func loadPlan(path string) (*domain.Plan, error) {
	parser := config.NewInputParser()
	plan, err := parser.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading plan: %w", err)
	}
	return plan, nil
}

// newEngine builds a simulation engine from plan settings plus CLI
// overrides.
func newEngine(plan *domain.Plan, paths int, seed int64, seedSet bool) (*calculation.SimulationEngine, error) {
	simConfig := calculation.SimulatorConfig{
		NumPaths: plan.Simulation.NumPaths,
		Seed:     plan.Simulation.Seed,
		Workers:  plan.Simulation.Workers,
	}
	if paths > 0 {
		simConfig.NumPaths = paths
	}
	if seedSet {
		simConfig.Seed = &seed
	}
	engine, err := calculation.NewSimulationEngine(simConfig)
	if err != nil {
		return nil, err
	}
	return engine, nil
}

var planCmd = &cobra.Command{
	Use:   "plan [plan-file]",
	Short: "Deterministic goal progress via the annuity closed form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := loadPlan(args[0])
		if err != nil {
			return err
		}

		fileStore := store.NewFileStore(plan)
		goals, err := fileStore.ListGoals("")
		if err != nil {
			return err
		}
		policy, err := fileStore.GetPolicy("")
		if err != nil {
			return err
		}

		planner := calculation.NewPlanner()
		results := planner.GoalProgress(goals, policy)
		summary := calculation.NewPortfolioAggregator().Aggregate(results)

		formatter := output.NewConsoleFormatter(os.Stdout)
		formatter.FormatSummary(summary)

		if showNet, _ := cmd.Flags().GetBool("net-position"); showNet {
			np := calculation.NewPortfolioAggregator().NetPosition(plan.Portfolio.TotalAssets, plan.Portfolio.CurrentDebt, goals)
			fmt.Fprintln(os.Stdout)
			formatter.FormatNetPosition(np)
		}
		return nil
	},
}

var simulateCmd = &cobra.Command{
	Use:   "simulate [plan-file]",
	Short: "Run the Monte Carlo goal simulation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := loadPlan(args[0])
		if err != nil {
			return err
		}

		paths, _ := cmd.Flags().GetInt("paths")
		seed, _ := cmd.Flags().GetInt64("seed")
		horizon, _ := cmd.Flags().GetInt("horizon")
		verbose, _ := cmd.Flags().GetBool("verbose")

		engine, err := newEngine(plan, paths, seed, cmd.Flags().Changed("seed"))
		if err != nil {
			return err
		}
		if verbose {
			engine.SetLogger(simpleCLILogger{})
		}
		if horizon == 0 {
			horizon = plan.Simulation.HorizonYears
		}

		result, err := engine.Run(cmd.Context(), plan.Portfolio.CurrentValue, plan.EffectivePolicy(), plan.Goals, horizon)
		if err != nil {
			return err
		}

		output.NewConsoleFormatter(os.Stdout).FormatSimulation(result)
		return nil
	},
}

var auditCmd = &cobra.Command{
	Use:   "audit [plan-file]",
	Short: "Audit a purchase against runway and goal impact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := loadPlan(args[0])
		if err != nil {
			return err
		}

		item, _ := cmd.Flags().GetString("item")
		priceFlag, _ := cmd.Flags().GetFloat64("price")
		lifespan, _ := cmd.Flags().GetFloat64("lifespan")
		resaleFlag, _ := cmd.Flags().GetFloat64("resale")
		if priceFlag <= 0 {
			return fmt.Errorf("--price is required and must be positive")
		}

		req := audit.Request{
			ItemName:      item,
			Price:         decimal.NewFromFloat(priceFlag),
			LifespanYears: lifespan,
		}
		if cmd.Flags().Changed("resale") {
			resale := decimal.NewFromFloat(resaleFlag)
			req.ResaleValue = &resale
		}
		if plan.Portfolio.LiquidAssets.IsPositive() {
			req.LiquidAssets = &plan.Portfolio.LiquidAssets
		}
		if plan.Portfolio.MonthlyExpenses.IsPositive() {
			req.MonthlyExpenses = &plan.Portfolio.MonthlyExpenses
		}

		planner := calculation.NewPlanner()
		req.GoalResults = planner.GoalProgress(plan.Goals, plan.EffectivePolicy())

		result := audit.NewPurchaseAuditor().Audit(req)
		output.NewConsoleFormatter(os.Stdout).FormatAudit(result)
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve [plan-file]",
	Short: "Serve the planning API over HTTP",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := loadPlan(args[0])
		if err != nil {
			return err
		}
		listen, _ := cmd.Flags().GetString("listen")

		engine, err := newEngine(plan, 0, 0, false)
		if err != nil {
			return err
		}
		engine.SetLogger(simpleCLILogger{})

		srv := server.New(store.NewFileStore(plan), engine)
		log.Printf("Serving planning API on %s", listen)
		return http.ListenAndServe(listen, srv.Routes())
	},
}

var tuiCmd = &cobra.Command{
	Use:   "tui [plan-file]",
	Short: "Interactive goal dashboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := loadPlan(args[0])
		if err != nil {
			return err
		}
		engine, err := newEngine(plan, 0, 0, false)
		if err != nil {
			return err
		}

		program := tea.NewProgram(tui.NewModel(plan, engine), tea.WithAltScreen())
		_, err = program.Run()
		return err
	},
}

func init() {
	planCmd.Flags().Bool("net-position", false, "Also print the net position breakdown")

	simulateCmd.Flags().Int("paths", 0, "Override the number of simulation paths")
	simulateCmd.Flags().Int64("seed", 0, "Fix the random seed for a reproducible run")
	simulateCmd.Flags().Int("horizon", 0, "Override the simulation horizon in years")
	simulateCmd.Flags().Bool("verbose", false, "Enable debug logging")

	auditCmd.Flags().String("item", "", "Item name")
	auditCmd.Flags().Float64("price", 0, "Purchase price in yen")
	auditCmd.Flags().Float64("lifespan", 5.0, "Expected useful life in years")
	auditCmd.Flags().Float64("resale", 0, "Expected resale value (default 10% of price)")

	serveCmd.Flags().String("listen", ":8080", "Listen address")

	rootCmd.AddCommand(planCmd, simulateCmd, auditCmd, serveCmd, tuiCmd, versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
