package symbolic

import "github.com/mna/jpamb/internal/jvm"

// Finding is one terminal outcome the executor discovered: the
// six-label outcome catalog's label, the PC it terminated at, the path
// constraint that led there, and — when the solver produced one — a
// concrete counterexample model mapping free-variable names to
// witnessing int values.
type Finding struct {
	Label string
	PC    jvm.PC
	Path  PathConstraint
	Model map[string]int
}
