package symbolic

import (
	"context"
	"log"
	"time"

	"github.com/mna/jpamb/internal/interp"
)

// Default bounds used by NewDefaultConfig.
const (
	DefaultMaxSteps       = 10_000
	DefaultMaxDepth       = 200
	DefaultMaxStates      = 100_000
	DefaultTimeoutSeconds = 30
)

// Config bounds one Executor.Run call. Zero-valued fields for the
// numeric bounds (MaxSteps, MaxDepth, MaxStates) mean "unbounded";
// TimeoutSeconds <= 0 means no wall-clock limit beyond ctx itself.
type Config struct {
	MaxSteps       int
	MaxDepth       int
	MaxStates      int
	TimeoutSeconds int
	Strategy       string // "dfs" (default) or "bfs"
	UseSolver      bool
	Debug          bool
}

// NewDefaultConfig returns the documented default bounds: DFS
// ordering, no solver, a generous but finite exploration budget.
func NewDefaultConfig() Config {
	return Config{
		MaxSteps:       DefaultMaxSteps,
		MaxDepth:       DefaultMaxDepth,
		MaxStates:      DefaultMaxStates,
		TimeoutSeconds: DefaultTimeoutSeconds,
		Strategy:       "dfs",
	}
}

// Executor drives Frontend.Step over a Strategy's worklist, applying
// Config's bounds and pruning infeasible paths through Solver.
type Executor struct {
	Frontend *Frontend
	Solver   Solver
}

// NewExecutor returns an Executor; a nil solver defaults to NoOpSolver.
func NewExecutor(fe *Frontend, solver Solver) *Executor {
	if solver == nil {
		solver = NoOpSolver{}
	}
	return &Executor{Frontend: fe, Solver: solver}
}

func newStrategy(cfg Config) Strategy {
	if cfg.Strategy == "bfs" {
		return NewBFSStrategy()
	}
	return NewDFSStrategy()
}

// Run explores from initial until every reachable path is classified,
// a bound is hit, or ctx (or cfg.TimeoutSeconds) expires, returning
// every Finding discovered. Frontend.Step always returns its
// error-discovering successors before the continuing one at a fork, and
// each Strategy's Push honors that order when deciding what it explores
// next, so a bound that cuts exploration short still favors surfacing
// bugs over exhausting the happy path, under DFS and BFS alike. If the
// run ends with zero findings, one synthetic "*" Finding is emitted so
// callers always see at least one outcome line.
func (ex *Executor) Run(ctx context.Context, initial *State, cfg Config) []Finding {
	if cfg.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	strat := newStrategy(cfg)
	strat.Push([]*State{initial})

	var findings []Finding
	statesSeen := 0

runLoop:
	for strat.Len() > 0 {
		select {
		case <-ctx.Done():
			break runLoop
		default:
		}

		s, ok := strat.Pop()
		if !ok {
			break
		}

		if s.Terminated {
			sat, err := ex.Solver.IsSat(s.Path)
			if err != nil || !sat {
				continue
			}
			model, _ := ex.Solver.Model(s.Path)
			findings = append(findings, Finding{
				Label: s.Error,
				PC:    s.PC,
				Path:  s.Path,
				Model: model,
			})
			continue
		}

		if cfg.MaxSteps > 0 && s.Steps >= cfg.MaxSteps {
			continue
		}

		statesSeen++
		if cfg.MaxStates > 0 && statesSeen > cfg.MaxStates {
			break
		}

		if cfg.MaxDepth > 0 && s.Depth >= cfg.MaxDepth {
			continue
		}

		if cfg.UseSolver {
			sat, err := ex.Solver.IsSat(s.Path)
			if err != nil || !sat {
				continue
			}
		}

		if cfg.Debug {
			log.Printf("symbolic: step pc=%s depth=%d steps=%d", s.PC, s.Depth, s.Steps)
		}

		strat.Push(ex.Frontend.Step(s))
	}

	if len(findings) == 0 {
		findings = append(findings, Finding{Label: interp.NonTermination})
	}
	return findings
}
