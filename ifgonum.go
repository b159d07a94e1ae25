package lpps

// ifgonum: Interface Functions for Gonum
//
// Any function which makes use of the gonum simplex solver is in this file.
// The presolver itself never pivots; when rows or columns remain after the
// reduction, the residual problem is handed to a ResidualSolver and its
// answer is completed by postsolve.
//
// The primary function is SolveCombined, which presolves a problem, solves
// the residual if there is one, and returns the complete solution.

import (
	"context"
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// SolveStatus is the answer of a residual solver.
type SolveStatus int

// Answers of a residual solver.
const (
	SolveFeasible       SolveStatus = iota + 1 // values satisfying the residual were found
	SolveInfeasible                            // the residual has no solution
	SolveError                                 // the solver failed
	SolveDidNotConverge                        // no usable answer, e.g. fractional values in integer mode
)

func (s SolveStatus) String() string {
	switch s {
	case SolveFeasible:
		return "feasible"
	case SolveInfeasible:
		return "infeasible"
	case SolveError:
		return "error"
	case SolveDidNotConverge:
		return "did not converge"
	}
	return fmt.Sprintf("SolveStatus(%d)", int(s))
}

// ResidualSolver finds values for the columns of a residual problem. The
// values are returned in the order of ResidualProblem.Cols and are only
// meaningful when the status is SolveFeasible.
type ResidualSolver interface {
	Solve(ctx context.Context, rp *ResidualProblem) (SolveStatus, []float64, error)
}

// GonumSolver solves residual problems with the simplex method of gonum,
// with a zero objective. In integer mode it only succeeds when the vertex
// found happens to be integral.
type GonumSolver struct {
	Tol float64 // Tolerance passed to lp.Simplex, 0 for its default
}

// intTol is how far from a whole number a simplex value may be and still be
// accepted as integral.
const intTol = 1e-6

//==============================================================================

// Solve converts the residual problem to the general form
//
//	minimize 0  s.t.  G*x <= h
//
// with one row of G for each finite row bound and implied bound, and runs
// lp.Simplex on its standard form. Columns with no non-zero coefficient take
// 0, clamped to their implied bounds, and are left out of the LP.
// In case of failure, function returns an error together with SolveError.
func (s GonumSolver) Solve(ctx context.Context, rp *ResidualProblem) (SolveStatus, []float64, error) {
	var used  []int     // residual columns present in the LP
	var gRows []float64 // rows of G, row major
	var h     []float64 // right hand sides of G

	if err := ctx.Err(); err != nil {
		return SolveError, nil, errors.Wrap(err, "Solve cancelled")
	}

	values := make([]float64, rp.NumCols())
	for j := 0; j < rp.NumCols(); j++ {
		if colIsUsed(rp, j) {
			used = append(used, j)
			continue
		}
		values[j] = clamp(0, rp.ImpLo[j], rp.ImpUp[j])
	}

	// Rows of a residual without columns must hold at 0.
	if len(used) == 0 {
		for i := 0; i < rp.NumRows(); i++ {
			if rp.Lower[i] > 0 || rp.Upper[i] < 0 {
				log(pINFO, "Residual row %d excludes 0.\n", rp.Rows[i])
				return SolveInfeasible, nil, nil
			}
		}
		return SolveFeasible, values, nil
	}

	addRow := func(coefs []float64, rhs float64) {
		gRows = append(gRows, coefs...)
		h = append(h, rhs)
	}

	for i := 0; i < rp.NumRows(); i++ {
		coefs := make([]float64, len(used))
		for k, j := range used {
			coefs[k] = rp.At(i, j)
		}

		if !isPlinf(rp.Upper[i]) {
			addRow(coefs, rp.Upper[i])
		}
		if !isMinf(rp.Lower[i]) {
			addRow(negated(coefs), -rp.Lower[i])
		}
	} // End for all residual rows

	for k, j := range used {
		unit := make([]float64, len(used))
		unit[k] = 1
		if !isPlinf(rp.ImpUp[j]) {
			addRow(unit, rp.ImpUp[j])
		}
		if !isMinf(rp.ImpLo[j]) {
			addRow(negated(unit), -rp.ImpLo[j])
		}
	}

	// Nothing is bounded, every column can stay at 0.
	if len(h) == 0 {
		return SolveFeasible, values, nil
	}

	g := mat.NewDense(len(h), len(used), gRows)
	c := make([]float64, len(used))
	cNew, aNew, bNew := lp.Convert(c, g, h, nil, nil)

	log(pDEB, "Simplex on %d rows and %d cols.\n", len(bNew), len(cNew))
	_, optX, err := lp.Simplex(cNew, aNew, bNew, s.Tol, nil)
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		return SolveInfeasible, nil, nil
	case err != nil:
		return SolveError, nil, errors.Wrap(err, "Solve failed")
	}

	// Each column x is split into xp - xn by the conversion.
	n := len(used)
	for k, j := range used {
		values[j] = optX[k] - optX[n+k]
	}

	if rp.IntegerMode {
		for _, j := range used {
			r := math.Round(values[j])
			if math.Abs(values[j]-r) > intTol {
				log(pINFO, "Residual col %d has fractional value %g.\n", rp.Cols[j], values[j])
				return SolveDidNotConverge, nil, nil
			}
			values[j] = r
		}
	}

	return SolveFeasible, values, nil
}

// colIsUsed reports whether residual column j has a non-zero coefficient.
func colIsUsed(rp *ResidualProblem, j int) bool {
	for i := 0; i < rp.NumRows(); i++ {
		if rp.At(i, j) != 0 {
			return true
		}
	}
	return false
}

func negated(v []float64) []float64 {
	n := make([]float64, len(v))
	for i, x := range v {
		n[i] = -x
	}
	return n
}

//==============================================================================
// EXPORTED FUNCTIONS
//==============================================================================

// SolveCombined presolves the problem in with the settings of psc. If rows or
// columns remain, the residual problem is passed to solver and, when it finds
// values, postsolve completes them to a solution of the whole problem. The
// status of the solver is returned alongside the result; it is 0 when the
// solver was not needed.
//
// When the solver finds the residual infeasible the result is infeasible.
// When it fails or does not converge the result is left as a residual.
//
// In case of failure, function returns an error.
func SolveCombined(ctx context.Context, in ProblemInput, psc PsCtrl, solver ResidualSolver) (*PsResult, SolveStatus, error) {

	ps, err := NewPresolver(in)
	if err != nil {
		return nil, 0, errors.Wrap(err, "SolveCombined failed")
	}

	if err = ps.ReduceMatrix(psc); err != nil {
		return nil, 0, errors.Wrap(err, "SolveCombined failed")
	}

	res, err := ps.Result()
	if err != nil {
		return nil, 0, errors.Wrap(err, "SolveCombined failed")
	}

	if res.Status != StatusResidual {
		return res, 0, nil
	}

	status, values, err := solver.Solve(ctx, res.Residual)
	if err != nil {
		return res, status, errors.Wrap(err, "SolveCombined failed")
	}

	switch status {
	case SolveFeasible:
		done, err := ps.CompleteResidual(values)
		if err != nil {
			return res, status, errors.Wrap(err, "SolveCombined failed")
		}
		return done, status, nil

	case SolveInfeasible:
		res.Status = StatusInfeasible
		res.Reason = ReasonResidual
		res.Residual = nil
	}

	log(pINFO, "Residual solver returned %s.\n", status)
	return res, status, nil
}
