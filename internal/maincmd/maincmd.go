// Package maincmd wires the mainer CLI framework to the three analysis
// engines, grounded on the teacher's internal/maincmd package: a Cmd
// struct with flag-tagged fields, Validate, and a Main that handles
// --help/--version/--info itself and otherwise runs Analyze.
package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/mna/jpamb/internal/provider"
	"github.com/mna/jpamb/internal/toolinfo"
)

const binName = "jpamb"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <target>
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <target>
       %[1]s -h|--help
       %[1]s -v|--version
       %[1]s --info

Program-analysis toolkit for JVM bytecode methods in the spirit of the
JPAMB benchmark.

<target> is a method qualname: pkg.Class.method[:descriptor]. A missing
descriptor defaults to "()V".

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
       --info                    Print tool name, version, group, tags,
                                 and platform, then exit.
       --debug                   Enable verbose step tracing.
       --strategy=dfs|bfs        Symbolic worklist order (default dfs).
       --use-solver              Query the configured Solver for path
                                 feasibility (default: accept every path).
`, binName)
)

// Cmd is the jpamb CLI's flag/command surface.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`
	Info    bool `flag:"info"`

	Debug     bool   `flag:"debug"`
	Strategy  string `flag:"strategy"`
	UseSolver bool   `flag:"use-solver"`

	// Provider supplies method opcodes for Analyze. Class-file loading
	// is explicitly out of this tool's scope; cmd/jpamb's main.go leaves
	// this nil, and Analyze fails fast with a diagnostic if none is set.
	Provider provider.BytecodeProvider

	args  []string
	flags map[string]bool
}

func (c *Cmd) SetArgs(args []string) { c.args = args }

func (c *Cmd) SetFlags(flags map[string]bool) { c.flags = flags }

func (c *Cmd) Validate() error {
	if c.Help || c.Version || c.Info {
		return nil
	}

	if len(c.args) == 0 {
		return errors.New("no target specified")
	}
	if len(c.args) > 1 {
		return fmt.Errorf("unexpected extra arguments: %v", c.args[1:])
	}
	if _, err := parseTarget(c.args[0]); err != nil {
		return err
	}

	switch c.Strategy {
	case "", "dfs", "bfs":
	default:
		return fmt.Errorf("invalid --strategy %q: must be dfs or bfs", c.Strategy)
	}

	return nil
}

// Main parses args, dispatches to --help/--version/--info or Analyze,
// and returns the process exit code.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success

	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success

	case c.Info:
		if err := toolinfo.Print(stdio.Stdout); err != nil {
			return mainer.Failure
		}
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if err := c.Analyze(ctx, stdio, c.args); err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return mainer.Failure
	}
	return mainer.Success
}
