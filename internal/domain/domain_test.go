package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mna/jpamb/internal/jvm"
)

var allDomains = []struct {
	name string
	zero AbstractValue
}{
	{"Sign", SignBot},
	{"Parity", ParityBot},
	{"Interval", IntervalBot},
	{"Product", ProductBot},
}

var sampleValues = []int32{-100, -3, -2, -1, 0, 1, 2, 3, 100, 2147483647, -2147483648}

func TestAbstractContainsItsOwnValue(t *testing.T) {
	for _, d := range allDomains {
		t.Run(d.name, func(t *testing.T) {
			for _, v := range sampleValues {
				av := d.zero.Abstract(v)
				assert.True(t, av.Contains(v), "%s: Abstract(%d) should contain %d", d.name, v, v)
			}
		})
	}
}

func TestJoinIsCommutativeAssociativeIdempotent(t *testing.T) {
	for _, d := range allDomains {
		t.Run(d.name, func(t *testing.T) {
			a := d.zero.Abstract(-3)
			b := d.zero.Abstract(5)
			c := d.zero.Abstract(0)

			assertEqualAV(t, a.Join(b), b.Join(a), "commutative")
			assertEqualAV(t, a.Join(a), a, "idempotent")
			assertEqualAV(t, a.Join(b).Join(c), a.Join(b.Join(c)), "associative")
		})
	}
}

func TestMeetIsCommutativeAssociativeIdempotent(t *testing.T) {
	for _, d := range allDomains {
		t.Run(d.name, func(t *testing.T) {
			a := d.zero.Abstract(-3).Join(d.zero.Abstract(7))
			b := d.zero.Abstract(-3).Join(d.zero.Abstract(2))
			c := d.zero.Abstract(2).Join(d.zero.Abstract(7))

			assertEqualAV(t, a.Meet(b), b.Meet(a), "commutative")
			assertEqualAV(t, a.Meet(a), a, "idempotent")
			assertEqualAV(t, a.Meet(b).Meet(c), a.Meet(b.Meet(c)), "associative")
		})
	}
}

func TestAbstractMonotoneUnderUnion(t *testing.T) {
	for _, d := range allDomains {
		t.Run(d.name, func(t *testing.T) {
			a := d.zero.Abstract(3)
			joined := a.Join(d.zero.Abstract(9))
			assert.True(t, a.LessEq(joined), "%s: a should be <= a join b", d.name)
		})
	}
}

func TestBinaryOpSoundnessAdd(t *testing.T) {
	for _, d := range allDomains {
		t.Run(d.name, func(t *testing.T) {
			for _, lv := range []int32{-5, 0, 3} {
				for _, rv := range []int32{-2, 0, 4} {
					lhs := d.zero.Abstract(lv)
					rhs := d.zero.Abstract(rv)
					res := lhs.BinaryOp(jvm.Add, rhs)
					assert.True(t, res.Value.Contains(lv+rv),
						"%s: %d+%d=%d should be contained in result", d.name, lv, rv, lv+rv)
				}
			}
		})
	}
}

func TestBinaryOpSoundnessMul(t *testing.T) {
	for _, d := range allDomains {
		t.Run(d.name, func(t *testing.T) {
			for _, lv := range []int32{-5, 0, 3} {
				for _, rv := range []int32{-2, 0, 4} {
					lhs := d.zero.Abstract(lv)
					rhs := d.zero.Abstract(rv)
					res := lhs.BinaryOp(jvm.Mul, rhs)
					assert.True(t, res.Value.Contains(lv*rv),
						"%s: %d*%d=%d should be contained in result", d.name, lv, rv, lv*rv)
				}
			}
		})
	}
}

func TestBinaryOpDivSignalsMayDivideByZero(t *testing.T) {
	for _, d := range allDomains {
		t.Run(d.name, func(t *testing.T) {
			lhs := d.zero.Abstract(10)
			rhsMaybeZero := d.zero.Abstract(0).Join(d.zero.Abstract(1))
			res := lhs.BinaryOp(jvm.Div, rhsMaybeZero)
			assert.True(t, res.MayDivByZero, "%s: divisor that could be 0 must set MayDivByZero", d.name)

			rhsNeverZero := d.zero.Abstract(1).Join(d.zero.Abstract(3))
			res2 := lhs.BinaryOp(jvm.Div, rhsNeverZero)
			assert.False(t, res2.MayDivByZero, "%s: divisor that cannot be 0 must not set MayDivByZero", d.name)
		})
	}
}

func TestBinaryOpDivSoundness(t *testing.T) {
	for _, d := range allDomains {
		t.Run(d.name, func(t *testing.T) {
			lhs := d.zero.Abstract(17)
			rhs := d.zero.Abstract(5)
			res := lhs.BinaryOp(jvm.Div, rhs)
			assert.True(t, res.Value.Contains(17/5), "%s: 17/5 should be contained", d.name)
		})
	}
}

func TestBoundsContainAbstractedValue(t *testing.T) {
	for _, d := range allDomains {
		t.Run(d.name, func(t *testing.T) {
			for _, v := range sampleValues {
				lo, hi := d.zero.Abstract(v).Bounds()
				assert.True(t, lo <= int64(v) && int64(v) <= hi,
					"%s: Bounds() for %d gave [%d,%d]", d.name, v, lo, hi)
			}
		})
	}
}

func assertEqualAV(t *testing.T, a, b AbstractValue, msg string) {
	t.Helper()
	assert.True(t, a.LessEq(b) && b.LessEq(a), "%s: expected %v == %v", msg, a, b)
}
