package domain

import (
	"fmt"

	"github.com/mna/jpamb/internal/jvm"
)

// negInf and posInf saturate Interval bounds beyond int32's range, so
// saturating arithmetic never has to distinguish "very large" from
// "unbounded".
const (
	negInf = NegInf
	posInf = PosInf
)

// Interval is the closed range [Lo, Hi] domain of spec.md §4.3. An empty
// interval (Lo > Hi) is Bot.
type Interval struct {
	Lo, Hi int64
}

// IntervalBot is the empty Interval.
var IntervalBot = Interval{Lo: 1, Hi: 0}

// IntervalTop is the unbounded Interval.
var IntervalTop = Interval{Lo: negInf, Hi: posInf}

func (iv Interval) IsBot() bool { return iv.Lo > iv.Hi }

func minI64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func maxI64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func (iv Interval) Join(other AbstractValue) AbstractValue {
	o := other.(Interval)
	if iv.IsBot() {
		return o
	}
	if o.IsBot() {
		return iv
	}
	return Interval{Lo: minI64(iv.Lo, o.Lo), Hi: maxI64(iv.Hi, o.Hi)}
}

func (iv Interval) Meet(other AbstractValue) AbstractValue {
	o := other.(Interval)
	lo, hi := maxI64(iv.Lo, o.Lo), minI64(iv.Hi, o.Hi)
	if lo > hi {
		return IntervalBot
	}
	return Interval{Lo: lo, Hi: hi}
}

func (iv Interval) LessEq(other AbstractValue) bool {
	o := other.(Interval)
	if iv.IsBot() {
		return true
	}
	if o.IsBot() {
		return false
	}
	return o.Lo <= iv.Lo && iv.Hi <= o.Hi
}

func (iv Interval) Abstract(v int32) AbstractValue {
	return Interval{Lo: int64(v), Hi: int64(v)}
}

func (iv Interval) Contains(v int32) bool {
	if iv.IsBot() {
		return false
	}
	x := int64(v)
	return iv.Lo <= x && x <= iv.Hi
}

func (iv Interval) String() string {
	if iv.IsBot() {
		return "[]"
	}
	lo, hi := "-inf", "+inf"
	if iv.Lo != negInf {
		lo = fmt.Sprintf("%d", iv.Lo)
	}
	if iv.Hi != posInf {
		hi = fmt.Sprintf("%d", iv.Hi)
	}
	return fmt.Sprintf("[%s, %s]", lo, hi)
}

// satAdd adds a and b, saturating at ±Inf instead of overflowing int64.
func satAdd(a, b int64) int64 {
	if a == negInf || b == negInf {
		return negInf
	}
	if a == posInf || b == posInf {
		return posInf
	}
	sum := a + b
	if sum < negInf/2 {
		return negInf
	}
	if sum > posInf/2 {
		return posInf
	}
	return sum
}

func satNeg(a int64) int64 {
	switch a {
	case negInf:
		return posInf
	case posInf:
		return negInf
	default:
		return -a
	}
}

func satMul(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a == negInf || a == posInf || b == negInf || b == posInf {
		negative := (a < 0) != (b < 0)
		if negative {
			return negInf
		}
		return posInf
	}
	prod := a * b
	if prod/b != a || prod > posInf/2 {
		if (a < 0) != (b < 0) {
			return negInf
		}
		return posInf
	}
	if prod < negInf/2 {
		return negInf
	}
	return prod
}

func (iv Interval) BinaryOp(op jvm.BinaryOpr, rhs AbstractValue) BinaryResult {
	r := rhs.(Interval)
	if iv.IsBot() || r.IsBot() {
		return BinaryResult{Value: IntervalBot}
	}

	switch op {
	case jvm.Add:
		return BinaryResult{Value: Interval{Lo: satAdd(iv.Lo, r.Lo), Hi: satAdd(iv.Hi, r.Hi)}}
	case jvm.Sub:
		return BinaryResult{Value: Interval{Lo: satAdd(iv.Lo, satNeg(r.Hi)), Hi: satAdd(iv.Hi, satNeg(r.Lo))}}
	case jvm.Mul:
		corners := []int64{
			satMul(iv.Lo, r.Lo), satMul(iv.Lo, r.Hi),
			satMul(iv.Hi, r.Lo), satMul(iv.Hi, r.Hi),
		}
		lo, hi := corners[0], corners[0]
		for _, c := range corners[1:] {
			lo, hi = minI64(lo, c), maxI64(hi, c)
		}
		return BinaryResult{Value: Interval{Lo: lo, Hi: hi}}
	case jvm.Div, jvm.Rem:
		mayDivZero := r.Lo <= 0 && 0 <= r.Hi
		// Split the divisor range around zero and join the results of
		// dividing by each non-zero part, since division is not monotone
		// across zero.
		var parts []Interval
		if r.Lo < 0 {
			parts = append(parts, Interval{Lo: r.Lo, Hi: minI64(-1, r.Hi)})
		}
		if r.Hi > 0 {
			parts = append(parts, Interval{Lo: maxI64(1, r.Lo), Hi: r.Hi})
		}
		if len(parts) == 0 {
			return BinaryResult{Value: IntervalBot, MayDivByZero: mayDivZero}
		}
		var result AbstractValue = IntervalBot
		for _, part := range parts {
			var v Interval
			if op == jvm.Div {
				corners := []int64{
					divSat(iv.Lo, part.Lo), divSat(iv.Lo, part.Hi),
					divSat(iv.Hi, part.Lo), divSat(iv.Hi, part.Hi),
				}
				lo, hi := corners[0], corners[0]
				for _, c := range corners[1:] {
					lo, hi = minI64(lo, c), maxI64(hi, c)
				}
				v = Interval{Lo: lo, Hi: hi}
			} else {
				// Remainder's magnitude is bounded by the divisor's; sign
				// follows the dividend. Sound but not tight.
				bound := maxI64(absI64(part.Lo), absI64(part.Hi)) - 1
				if bound < 0 {
					bound = 0
				}
				// Zero is always a possible remainder (any multiple of the
				// divisor), so the range is widened to include it.
				lo := minI64(0, maxI64(iv.Lo, -bound))
				hi := maxI64(0, minI64(iv.Hi, bound))
				v = Interval{Lo: lo, Hi: hi}
			}
			result = result.Join(v)
		}
		return BinaryResult{Value: result, MayDivByZero: mayDivZero}
	default:
		// Bitwise and shift operators have no precise Interval
		// representation here; fall back to Top, a sound approximation.
		return BinaryResult{Value: IntervalTop}
	}
}

// Bounds returns the interval's own bounds directly.
func (iv Interval) Bounds() (lo, hi int64) { return iv.Lo, iv.Hi }

func divSat(a, b int64) int64 {
	if b == 0 {
		if a > 0 {
			return posInf
		}
		if a < 0 {
			return negInf
		}
		return 0
	}
	if a == negInf || a == posInf {
		negative := (a < 0) != (b < 0)
		if negative {
			return negInf
		}
		return posInf
	}
	return a / b
}

func absI64(v int64) int64 {
	if v < 0 {
		return satNeg(v)
	}
	return v
}
