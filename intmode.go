package lpps

// intmode: value resolution shared by real and integer mode.
//
// Whenever a rule or postsolve needs a value x with lo <= coef*x <= up, it
// asks rowInterval for the range of x and singletonValue for a point in it.
// In integer mode the range is shrunk to whole numbers with ceil on the lower
// end and floor on the upper end. All bounds are integral in that mode, so
// the divisions below are exact.
//
// Products and sums of finite bounds are kept below Plinfy in magnitude: a
// reduction whose bound arithmetic would reach the sentinel is not made.

import (
	"math"

	"golang.org/x/exp/constraints"
)

// InfeasibleReason tells why a problem was found infeasible.
type InfeasibleReason int

// Reasons for infeasibility.
const (
	ReasonNone         InfeasibleReason = iota // problem not infeasible
	ReasonArithmetic                           // no integral value satisfies a row
	ReasonParallelRows                         // parallel rows have incompatible bounds
	ReasonImpliedBound                         // a value or row lies outside derived bounds
	ReasonPostsolve                            // postsolve found no value for a substituted column
	ReasonResidual                             // the residual solver found no solution
)

func (r InfeasibleReason) String() string {
	switch r {
	case ReasonNone:
		return "feasible"
	case ReasonArithmetic:
		return "no integral value"
	case ReasonParallelRows:
		return "parallel rows conflict"
	case ReasonImpliedBound:
		return "implied bound violated"
	case ReasonPostsolve:
		return "postsolve substitution failed"
	case ReasonResidual:
		return "residual problem infeasible"
	}
	return "unknown"
}

//==============================================================================

// abs returns the absolute value of x.
func abs[T constraints.Signed | constraints.Float](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// clamp returns v limited to [lo, up].
func clamp[T constraints.Integer | constraints.Float](v, lo, up T) T {
	if v < lo {
		return lo
	}
	if v > up {
		return up
	}
	return v
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

//==============================================================================

// divFloor returns floor(b/c) for integral b.
func divFloor(b float64, c int64) float64 {
	return math.Floor(b / float64(c))
}

// divCeil returns ceil(b/c) for integral b.
func divCeil(b float64, c int64) float64 {
	return math.Ceil(b / float64(c))
}

// isFinite reports whether b lies strictly between the infinity sentinels.
func isFinite(b float64) bool { return b > -Plinfy && b < Plinfy }

// scaleBound returns b*s, keeping infinite bounds infinite with the sign of
// the product. ok is false when a finite b gives a product at or beyond the
// sentinel, which must not be taken for an infinite bound.
func scaleBound(b float64, s int64) (v float64, ok bool) {
	switch {
	case isPlinf(b) && s > 0, isMinf(b) && s < 0:
		return Plinfy, true
	case isPlinf(b), isMinf(b):
		return -Plinfy, true
	}
	v = b * float64(s)
	return v, isFinite(v)
}

// shiftBound returns b+d, keeping infinite bounds infinite. ok is false when
// d or the sum of a finite b and d reaches the sentinel.
func shiftBound(b, d float64) (v float64, ok bool) {
	if isPlinf(b) || isMinf(b) {
		return b, isFinite(d)
	}
	v = b + d
	return v, isFinite(d) && isFinite(v)
}

//==============================================================================

// rowInterval returns the range [xl, xu] of x allowed by lo <= coef*x <= up.
// Infinite ends are -Plinfy and Plinfy. In integer mode the ends are rounded
// inwards to whole numbers, so xl > xu means no integral x exists.
func (ps *Presolver) rowInterval(coef int64, lo, up float64) (xl, xu float64) {
	var bl float64 // bound giving the lower end of the range
	var bu float64 // bound giving the upper end of the range

	bl, bu = lo, up
	if coef < 0 {
		bl, bu = up, lo
	}

	xl, xu = -Plinfy, Plinfy

	if !isPlinf(bl) && !isMinf(bl) {
		if ps.intMode {
			xl = divCeil(bl, coef)
		} else {
			xl = bl / float64(coef)
		}
	}

	if !isPlinf(bu) && !isMinf(bu) {
		if ps.intMode {
			xu = divFloor(bu, coef)
		} else {
			xu = bu / float64(coef)
		}
	}

	return xl, xu
}

// singletonValue returns a value for col satisfying lo <= coef*x <= up and
// the implied bounds of col. The value is taken at the end of the range set
// by the finite lower bound of the row, or by the upper bound when the lower
// one is infinite, or at 0 when both are. If no such value exists the reason
// is returned instead: ReasonArithmetic when the row alone admits no value,
// ReasonImpliedBound when the implied bounds exclude every value it admits.
func (ps *Presolver) singletonValue(col ColIdx, coef int64, lo, up float64) (float64, InfeasibleReason) {
	var target float64 // preferred value before clamping
	var xl, xu float64 // range allowed by the row

	xl, xu = ps.rowInterval(coef, lo, up)
	if ps.exceeds(xl, xu) {
		return 0, ReasonArithmetic
	}

	switch {
	case !isMinf(lo) && coef > 0, isMinf(lo) && !isPlinf(up) && coef < 0:
		target = xl
	case !isMinf(lo), !isPlinf(up):
		target = xu
	default:
		target = 0
	}

	xl = maxf(xl, ps.impLo[col])
	xu = minf(xu, ps.impUp[col])
	if ps.exceeds(xl, xu) {
		return 0, ReasonImpliedBound
	}

	return clamp(target, xl, xu), ReasonNone
}

//==============================================================================

// emptyColValue returns the value given to a column without active rows:
// 0, or the nearest value allowed by its implied bounds.
func (ps *Presolver) emptyColValue(col ColIdx) float64 {
	return clamp(0, ps.impLo[col], ps.impUp[col])
}

// isFeasibleSolutionInteger reports whether every value is a whole number.
func isFeasibleSolutionInteger(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || v != math.Trunc(v) {
			return false
		}
	}
	return true
}
