package symbolic

// Strategy decides the order states are explored in, the one knob
// spec.md §4.5's "Ordering and fairness" leaves open between DFS
// (the default — it finds one failing path deep and fast, good for a
// benchmark that only needs to answer "is this reachable") and BFS
// (explores breadth-first, useful when shallow counterexamples should
// surface first regardless of how deep the search space goes).
type Strategy interface {
	// Push adds newly forked states to the frontier. states arrives in
	// Frontend.Step's order (error-discovering successors first); Push
	// must preserve that as the order Pop later favors.
	Push(states []*State)
	// Pop removes and returns the next state to explore, or false if the
	// frontier is empty.
	Pop() (*State, bool)
	// Len reports the current frontier size.
	Len() int
}

// DFSStrategy explores the most recently forked state first.
type DFSStrategy struct {
	stack []*State
}

// NewDFSStrategy returns an empty depth-first Strategy.
func NewDFSStrategy() *DFSStrategy { return &DFSStrategy{} }

// Push appends states in reverse so that Pop's LIFO order still visits
// them in the order Frontend.Step returned them (error branches first),
// even though a stack would otherwise surface the last-pushed state
// first.
func (s *DFSStrategy) Push(states []*State) {
	for i := len(states) - 1; i >= 0; i-- {
		s.stack = append(s.stack, states[i])
	}
}

func (s *DFSStrategy) Pop() (*State, bool) {
	n := len(s.stack)
	if n == 0 {
		return nil, false
	}
	st := s.stack[n-1]
	s.stack = s.stack[:n-1]
	return st, true
}

func (s *DFSStrategy) Len() int { return len(s.stack) }

// BFSStrategy explores states in the order they were forked.
type BFSStrategy struct {
	queue []*State
}

// NewBFSStrategy returns an empty breadth-first Strategy.
func NewBFSStrategy() *BFSStrategy { return &BFSStrategy{} }

func (s *BFSStrategy) Push(states []*State) { s.queue = append(s.queue, states...) }

func (s *BFSStrategy) Pop() (*State, bool) {
	if len(s.queue) == 0 {
		return nil, false
	}
	st := s.queue[0]
	s.queue = s.queue[1:]
	return st, true
}

func (s *BFSStrategy) Len() int { return len(s.queue) }
