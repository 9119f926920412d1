package domain

import "github.com/mna/jpamb/internal/jvm"

// Product is the reduced product of Sign, Parity, and Interval — the
// "All" domain of spec.md §2/§4.3. It gives the tightest
// over-approximation of the domains in this package; the CLI does not
// run the abstract interpreter, with this or any other domain.
type Product struct {
	Sign     Sign
	Parity   Parity
	Interval Interval
}

// ProductBot is the componentwise-empty Product.
var ProductBot = Product{Sign: SignBot, Parity: ParityBot, Interval: IntervalBot}

// ProductTop is the componentwise-unbounded Product.
var ProductTop = Product{Sign: SignTop, Parity: ParityTop, Interval: IntervalTop}

func (p Product) IsBot() bool {
	return p.Sign.IsBot() || p.Parity.IsBot() || p.Interval.IsBot()
}

func (p Product) Join(other AbstractValue) AbstractValue {
	o := other.(Product)
	return Product{
		Sign:     p.Sign.Join(o.Sign).(Sign),
		Parity:   p.Parity.Join(o.Parity).(Parity),
		Interval: p.Interval.Join(o.Interval).(Interval),
	}
}

func (p Product) Meet(other AbstractValue) AbstractValue {
	o := other.(Product)
	return Product{
		Sign:     p.Sign.Meet(o.Sign).(Sign),
		Parity:   p.Parity.Meet(o.Parity).(Parity),
		Interval: p.Interval.Meet(o.Interval).(Interval),
	}
}

func (p Product) LessEq(other AbstractValue) bool {
	o := other.(Product)
	return p.Sign.LessEq(o.Sign) && p.Parity.LessEq(o.Parity) && p.Interval.LessEq(o.Interval)
}

func (p Product) Abstract(v int32) AbstractValue {
	return Product{
		Sign:     p.Sign.Abstract(v).(Sign),
		Parity:   p.Parity.Abstract(v).(Parity),
		Interval: p.Interval.Abstract(v).(Interval),
	}
}

func (p Product) Contains(v int32) bool {
	return p.Sign.Contains(v) && p.Parity.Contains(v) && p.Interval.Contains(v)
}

// Bounds intersects the Sign and Interval components' bounds, the
// tightest range the reduced product can offer without full reduction.
func (p Product) Bounds() (lo, hi int64) {
	if p.IsBot() {
		return 1, 0
	}
	sLo, sHi := p.Sign.Bounds()
	iLo, iHi := p.Interval.Bounds()
	lo = sLo
	if iLo > lo {
		lo = iLo
	}
	hi = sHi
	if iHi < hi {
		hi = iHi
	}
	if lo > hi {
		return 1, 0
	}
	return lo, hi
}

func (p Product) String() string {
	return p.Sign.String() + "×" + p.Parity.String() + "×" + p.Interval.String()
}

// BinaryOp computes each component's result independently and reduces:
// a componentwise conjunction. MayDivByZero is the conjunction of every
// component's signal, since any single component proving "never zero" is
// conclusive regardless of what the others report — sound without
// tracking correlations across domains, which the reduced product here
// does not attempt (spec.md §4.3 allows per-domain over-approximation
// rather than full reduction).
func (p Product) BinaryOp(op jvm.BinaryOpr, rhs AbstractValue) BinaryResult {
	r := rhs.(Product)
	signRes := p.Sign.BinaryOp(op, r.Sign)
	parityRes := p.Parity.BinaryOp(op, r.Parity)
	intervalRes := p.Interval.BinaryOp(op, r.Interval)

	mayDivZero := signRes.MayDivByZero && parityRes.MayDivByZero && intervalRes.MayDivByZero

	result := Product{
		Sign:     signRes.Value.(Sign),
		Parity:   parityRes.Value.(Parity),
		Interval: intervalRes.Value.(Interval),
	}
	return BinaryResult{Value: result, MayDivByZero: mayDivZero}
}
