// Package scorer aggregates findings from any of the three engines into
// the six-line outcome report spec.md §4.7 mandates.
package scorer

import (
	"fmt"

	"github.com/mna/jpamb/internal/abstract"
	"github.com/mna/jpamb/internal/interp"
	"github.com/mna/jpamb/internal/symbolic"
)

// order is the exact line order spec.md §4.7 mandates, regardless of
// which engine produced the findings.
var order = []string{
	interp.AssertionError,
	interp.Ok,
	interp.NonTermination,
	interp.DivideByZero,
	interp.OutOfBounds,
	interp.NullPointer,
}

// Line is one outcome line: a catalog label and its confidence.
type Line struct {
	Label   string
	Percent int
}

// String renders l as "label;pct%", the CLI's output format.
func (l Line) String() string {
	return fmt.Sprintf("%s;%d%%", l.Label, l.Percent)
}

// Score aggregates symbolic Findings into the six mandated lines,
// applying spec.md §4.7's binary 100%/0% policy: 100 if any finding
// carries that label, 0 otherwise. The proportional alternative the
// original source also implements is deliberately not reproduced.
func Score(findings []symbolic.Finding) []Line {
	seen := map[string]bool{}
	for _, f := range findings {
		seen[f.Label] = true
	}
	return linesFor(seen)
}

// ScoreAbstract aggregates an abstract-interpreter Outcomes multiset
// into the six mandated lines under the same binary policy.
func ScoreAbstract(o *abstract.Outcomes) []Line {
	seen := map[string]bool{}
	for _, l := range o.Labels() {
		if o.Count(l) > 0 {
			seen[l] = true
		}
	}
	return linesFor(seen)
}

// ScoreConcrete turns the concrete interpreter's single terminal label
// into the six mandated lines: the label that fired scores 100%, every
// other label scores 0%.
func ScoreConcrete(label string) []Line {
	return linesFor(map[string]bool{label: true})
}

func linesFor(seen map[string]bool) []Line {
	lines := make([]Line, len(order))
	for i, label := range order {
		pct := 0
		if seen[label] {
			pct = 100
		}
		lines[i] = Line{Label: label, Percent: pct}
	}
	return lines
}
