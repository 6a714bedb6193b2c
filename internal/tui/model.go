// Package tui provides an interactive dashboard over the planning core:
// per-goal probabilities with progress bars, the portfolio summary, and a
// detail pane for the selected goal.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mtanaka/lifeplan/internal/calculation"
	"github.com/mtanaka/lifeplan/internal/domain"
)

// Model is the dashboard state.
type Model struct {
	plan   *domain.Plan
	engine *calculation.SimulationEngine

	result  *domain.SimulationResult
	summary domain.PortfolioSummary

	selected int
	width    int
	height   int
	loading  bool
	err      error

	bar     progress.Model
	spinner spinner.Model
}

// simulationDoneMsg carries a finished run back into the update loop.
type simulationDoneMsg struct {
	result  *domain.SimulationResult
	summary domain.PortfolioSummary
}

type errMsg struct{ err error }

// NewModel creates the dashboard model for a loaded plan.
func NewModel(plan *domain.Plan, engine *calculation.SimulationEngine) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		plan:    plan,
		engine:  engine,
		loading: true,
		bar:     progress.New(progress.WithDefaultGradient()),
		spinner: sp,
		width:   80,
		height:  24,
	}
}

// Init kicks off the simulation and the spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, runSimulationCmd(m.plan, m.engine))
}

// Update handles key presses, resize and simulation completion.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
		case "down", "j":
			if m.result != nil && m.selected < len(m.result.GoalResults)-1 {
				m.selected++
			}
		case "r":
			if !m.loading {
				m.loading = true
				return m, tea.Batch(m.spinner.Tick, runSimulationCmd(m.plan, m.engine))
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = msg.Width / 3
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case simulationDoneMsg:
		m.loading = false
		m.result = msg.result
		m.summary = msg.summary
		if m.selected >= len(msg.result.GoalResults) {
			m.selected = 0
		}
		return m, nil

	case errMsg:
		m.loading = false
		m.err = msg.err
		return m, nil
	}
	return m, nil
}

// runSimulationCmd executes the full engine run off the update loop.
func runSimulationCmd(plan *domain.Plan, engine *calculation.SimulationEngine) tea.Cmd {
	return func() tea.Msg {
		policy := plan.EffectivePolicy()
		result, err := engine.Run(context.Background(), plan.Portfolio.CurrentValue, policy, plan.Goals, plan.Simulation.HorizonYears)
		if err != nil {
			return errMsg{err}
		}
		summary := calculation.NewPortfolioAggregator().Aggregate(result.GoalResults)
		return simulationDoneMsg{result: result, summary: summary}
	}
}
