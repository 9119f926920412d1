package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/mna/jpamb/internal/bytecodecache"
	"github.com/mna/jpamb/internal/scorer"
	"github.com/mna/jpamb/internal/symbolic"
)

// Analyze runs the symbolic engine against the target named by args[0]
// and prints the six mandated scorer lines to stdio.Stdout, optionally
// preceded by a framed JSON findings dump when JPAMB_SE_JSON=1.
func (c *Cmd) Analyze(ctx context.Context, stdio mainer.Stdio, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no target specified")
	}
	method, err := parseTarget(args[0])
	if err != nil {
		return err
	}
	if c.Provider == nil {
		return fmt.Errorf("no bytecode provider configured (class-file loading is out of this tool's scope; inject one at startup)")
	}

	cache := bytecodecache.New(c.Provider)
	fe := symbolic.NewFrontend(cache)
	start, err := fe.InitialState(method)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", method, err)
	}

	ex := symbolic.NewExecutor(fe, symbolic.NoOpSolver{})
	cfg := symbolic.NewDefaultConfig()
	cfg.Debug = c.Debug
	cfg.UseSolver = c.UseSolver
	if c.Strategy != "" {
		cfg.Strategy = c.Strategy
	}

	findings := ex.Run(ctx, start, cfg)

	if err := symbolic.EmitJSON(stdio.Stdout, method, findings); err != nil {
		return fmt.Errorf("analyze %s: %w", method, err)
	}
	for _, line := range scorer.Score(findings) {
		fmt.Fprintln(stdio.Stdout, line.String())
	}
	return nil
}
