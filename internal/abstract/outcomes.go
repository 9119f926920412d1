package abstract

import "github.com/mna/jpamb/internal/interp"

// classifyPriority is the mandated order spec.md §4.4 applies when more
// than one terminal label was reached across the explored branches:
// the most specific, most actionable error wins over "ok" or "*".
var classifyPriority = []string{
	interp.DivideByZero,
	interp.AssertionError,
	interp.OutOfBounds,
	interp.NullPointer,
	interp.Ok,
	interp.NonTermination,
}

// Outcomes is the multiset of terminal labels the worklist driver
// collected across every explored branch.
type Outcomes struct {
	counts map[string]int
}

// NewOutcomes returns an empty Outcomes multiset.
func NewOutcomes() *Outcomes {
	return &Outcomes{counts: map[string]int{}}
}

// Add records one more occurrence of label.
func (o *Outcomes) Add(label string) {
	o.counts[label]++
}

// Count returns how many times label was reached.
func (o *Outcomes) Count(label string) int {
	return o.counts[label]
}

// Labels returns every distinct label reached, in no particular order.
func (o *Outcomes) Labels() []string {
	labels := make([]string, 0, len(o.counts))
	for l := range o.counts {
		labels = append(labels, l)
	}
	return labels
}

// Classify applies spec.md §4.4's priority order and returns the single
// winning label, or "*" if nothing was ever reached (the bound was hit
// before any terminal state).
func (o *Outcomes) Classify() string {
	for _, label := range classifyPriority {
		if o.counts[label] > 0 {
			return label
		}
	}
	return interp.NonTermination
}
