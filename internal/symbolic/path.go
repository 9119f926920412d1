package symbolic

// PathConstraint is the ordered conjunction of branch conditions taken
// to reach a state. Copy is cheap (a fresh backing slice) since forking
// at a branch is the hot path of the executor.
type PathConstraint struct {
	Constraints []SymExpr
}

// Add returns a new PathConstraint with e appended, leaving the
// receiver untouched.
func (p PathConstraint) Add(e SymExpr) PathConstraint {
	next := make([]SymExpr, len(p.Constraints)+1)
	copy(next, p.Constraints)
	next[len(p.Constraints)] = e
	return PathConstraint{Constraints: next}
}

// Copy returns an independent PathConstraint sharing no backing array
// with the receiver.
func (p PathConstraint) Copy() PathConstraint {
	cp := make([]SymExpr, len(p.Constraints))
	copy(cp, p.Constraints)
	return PathConstraint{Constraints: cp}
}

// Depth is the number of branch conditions recorded so far.
func (p PathConstraint) Depth() int {
	return len(p.Constraints)
}
