package lpps

// solve: results of a presolve run and the functions producing them.
//
// SolveProb builds a presolver for a problem, reduces it and returns a
// PsResult. When presolve decides the problem, the result holds either the
// reason it is infeasible or a full solution obtained by postsolve. When
// rows or columns remain, the result holds the residual problem for an
// external solver; its solution is passed back to CompleteResidual to
// obtain the values of the removed columns.

import (
	"fmt"
	"io"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Status is the outcome of a presolve run.
type Status int

// Outcomes of a presolve run.
const (
	StatusInfeasible     Status = iota + 1 // no solution exists
	StatusReducedToEmpty                   // presolve removed everything, Solution is set
	StatusResidual                         // rows or columns remain, Residual is set
	StatusCompleted                        // Solution completed from a solved residual
)

func (s Status) String() string {
	switch s {
	case StatusInfeasible:
		return "infeasible"
	case StatusReducedToEmpty:
		return "reduced to empty"
	case StatusResidual:
		return "residual"
	case StatusCompleted:
		return "completed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// PsResult returns the results of a presolve run to the caller.
type PsResult struct {
	Status                 Status           // Outcome of the run
	Reason                 InfeasibleReason // Why the problem is infeasible, if it is
	Solution               []float64        // Value of every column, when a solution exists
	AllInteger             bool             // Every value of Solution is a whole number
	Unsatisfied            []int            // Rows the solution does not satisfy
	UnsatisfiedConstraints bool             // Unsatisfied is not empty
	Residual               *ResidualProblem // Problem left for an external solver
	Stats                  PsStats          // Counters of the reduction
}

// ResidualProblem is what remains of a problem after presolve: the active
// rows restricted to the active columns, with the row bounds as modified by
// presolve. Rows and Cols map its indices back to the original problem.
type ResidualProblem struct {
	Matrix      *mat.Dense // Coefficients, nil if there are no rows or no columns
	Lower       []float64  // Row lower bounds, -Plinfy if none
	Upper       []float64  // Row upper bounds, Plinfy if none
	ImpLo       []float64  // Implied lower bound of each column
	ImpUp       []float64  // Implied upper bound of each column
	Rows        []RowIdx   // Original index of each row
	Cols        []ColIdx   // Original index of each column
	IntegerMode bool       // Columns must take integral values
	Partial     []float64  // Values known so far for all original columns, NaN if unknown
}

// NumRows returns the number of rows of the residual problem.
func (rp *ResidualProblem) NumRows() int { return len(rp.Rows) }

// NumCols returns the number of columns of the residual problem.
func (rp *ResidualProblem) NumCols() int { return len(rp.Cols) }

// At returns the coefficient of residual row i and residual column j.
func (rp *ResidualProblem) At(i, j int) float64 {
	if rp.Matrix == nil {
		return 0
	}
	return rp.Matrix.At(i, j)
}

//==============================================================================

// Result returns the outcome of the reduction. For a problem reduced to
// empty postsolve is run to build the solution, and for a residual problem
// it is run in partial mode to give the values that do not depend on the
// residual columns.
// In case of failure, function returns an error.
func (ps *Presolver) Result() (*PsResult, error) {

	if !ps.reduced {
		return nil, errors.New("Result called before ReduceMatrix")
	}

	res := &PsResult{Stats: ps.stats}

	if ps.infeasible {
		res.Status = StatusInfeasible
		res.Reason = ps.reason
		return res, nil
	}

	residual := !ps.ReducedToEmpty()
	st, err := ps.postSolve(nil, residual)
	if err != nil {
		return nil, errors.Wrap(err, "Result failed")
	}

	if st.infeasible {
		res.Status = StatusInfeasible
		res.Reason = ReasonPostsolve
		return res, nil
	}

	if residual {
		res.Status = StatusResidual
		res.Residual = ps.buildResidual(st.value)
		return res, nil
	}

	res.Status = StatusReducedToEmpty
	ps.fillSolution(res, st)
	return res, nil
}

// fillSolution copies the values of a complete replay into res.
func (ps *Presolver) fillSolution(res *PsResult, st *pstState) {
	res.Solution = st.value
	res.AllInteger = isFeasibleSolutionInteger(st.value)
	res.Unsatisfied = st.unsatisfiedRows()
	res.UnsatisfiedConstraints = len(res.Unsatisfied) > 0
}

// buildResidual returns the active part of the problem with partial holding
// the values assigned so far.
func (ps *Presolver) buildResidual(partial []float64) *ResidualProblem {

	rows := ps.act.activeRows()
	cols := ps.act.activeCols()

	rp := &ResidualProblem{
		Lower:       make([]float64, len(rows)),
		Upper:       make([]float64, len(rows)),
		ImpLo:       make([]float64, len(cols)),
		ImpUp:       make([]float64, len(cols)),
		Rows:        rows,
		Cols:        cols,
		IntegerMode: ps.intMode,
		Partial:     partial,
	}

	for i, row := range rows {
		rp.Lower[i], rp.Upper[i] = ps.rowLo[row], ps.rowUp[row]
	}
	for j, col := range cols {
		rp.ImpLo[j], rp.ImpUp[j] = ps.impLo[col], ps.impUp[col]
	}

	if len(rows) > 0 && len(cols) > 0 {
		rp.Matrix = mat.NewDense(len(rows), len(cols), nil)
		for i, row := range rows {
			for j, col := range cols {
				rp.Matrix.Set(i, j, float64(ps.coef(row, col)))
			}
		}
	}

	log(pINFO, "Residual problem has %d rows and %d cols.\n", len(rows), len(cols))
	return rp
}

//==============================================================================

// CompleteResidual completes the solution of a residual problem. The values
// are those of the residual columns, in the order of ResidualProblem.Cols.
// Postsolve is run with those columns fixed, and the result holds the value
// of every column of the original problem with the rows it fails to satisfy.
// In case of failure, function returns an error.
func (ps *Presolver) CompleteResidual(values []float64) (*PsResult, error) {

	if !ps.reduced || ps.infeasible {
		return nil, errors.New("CompleteResidual needs a reduced, feasible problem")
	}

	cols := ps.act.activeCols()
	if len(values) != len(cols) {
		return nil, errors.Wrapf(ErrBadInput, "%d values for %d residual columns", len(values), len(cols))
	}

	seed := make(map[ColIdx]float64, len(cols))
	for j, col := range cols {
		if math.IsNaN(values[j]) {
			return nil, errors.Wrapf(ErrBadInput, "no value for residual col %d", col)
		}
		seed[col] = values[j]
	}

	st, err := ps.postSolve(seed, false)
	if err != nil {
		return nil, errors.Wrap(err, "CompleteResidual failed")
	}

	res := &PsResult{Stats: ps.stats}
	if st.infeasible {
		res.Status = StatusInfeasible
		res.Reason = ReasonPostsolve
		return res, nil
	}

	res.Status = StatusCompleted
	ps.fillSolution(res, st)
	return res, nil
}

//==============================================================================

// SolveProb presolves the problem in and returns the outcome. If
// psc.FileOutPsop is set and the problem is not found infeasible, the list of
// operations is written to that file.
// In case of failure, function returns an error. Infeasibility is not a
// failure; it is reported in the result.
func SolveProb(in ProblemInput, psc PsCtrl) (*PsResult, error) {
	var depsPerLine int // dependencies per line in the PSOP file

	ps, err := NewPresolver(in)
	if err != nil {
		return nil, errors.Wrap(err, "SolveProb failed")
	}

	if err = ps.ReduceMatrix(psc); err != nil {
		return nil, errors.Wrap(err, "SolveProb failed")
	}

	if psc.FileOutPsop != "" && !ps.infeasible {
		depsPerLine = 10
		if err = ps.WritePsopFile(psc.FileOutPsop, depsPerLine); err != nil {
			return nil, errors.Wrap(err, "SolveProb failed")
		}
	}

	res, err := ps.Result()
	if err != nil {
		return nil, errors.Wrap(err, "SolveProb failed")
	}
	return res, nil
}

//==============================================================================
// PRINTING FUNCTIONS
//==============================================================================

// PrintLP writes the problem to w, one row per line with its current bounds,
// marking the rows presolve has removed.
func (ps *Presolver) PrintLP(w io.Writer) error {
	var kind string // row kind printed

	bw := &errWriter{w: w}
	bw.printf("Problem: %d rows (%d inequalities), %d cols, integer mode %t\n",
		ps.NumRows(), ps.numIneq, ps.NumCols(), ps.intMode)

	for i := 0; i < ps.NumRows(); i++ {
		row := RowIdx(i)
		kind = "EQ"
		if ps.isIneqKind(row) {
			kind = "IN"
		}

		mark := " "
		if !ps.act.rowIsActive(row) {
			mark = "x"
		}

		bw.printf("%s %s %4d: %s <=", mark, kind, i, boundString(ps.rowLo[row]))
		for j, a := range ps.matrix[row] {
			if a != 0 {
				bw.printf(" %+d*x%d", a, j)
			}
		}
		bw.printf(" <= %s\n", boundString(ps.rowUp[row]))
	} // End for all rows

	return bw.err
}

// PrintImpliedBounds writes the implied bounds of every column to w.
func (ps *Presolver) PrintImpliedBounds(w io.Writer) error {

	bw := &errWriter{w: w}
	bw.printf("Implied bounds of %d cols:\n", ps.NumCols())
	for j := 0; j < ps.NumCols(); j++ {
		bw.printf("  x%-4d [%s, %s]\n", j, boundString(ps.impLo[j]), boundString(ps.impUp[j]))
	}
	return bw.err
}

// PrintSolution writes the outcome held in res to w.
func PrintSolution(w io.Writer, res *PsResult) error {

	bw := &errWriter{w: w}
	bw.printf("Status: %s\n", res.Status)

	switch res.Status {
	case StatusInfeasible:
		bw.printf("Reason: %s\n", res.Reason)

	case StatusResidual:
		rp := res.Residual
		bw.printf("Residual: %d rows, %d cols\n", rp.NumRows(), rp.NumCols())
		for j, v := range rp.Partial {
			if !math.IsNaN(v) {
				bw.printf("  x%-4d = %g\n", j, v)
			}
		}

	default:
		for j, v := range res.Solution {
			bw.printf("  x%-4d = %g\n", j, v)
		}
		bw.printf("All integer: %t\n", res.AllInteger)
		if res.UnsatisfiedConstraints {
			bw.printf("Unsatisfied rows: %v\n", res.Unsatisfied)
		}
	}

	bw.printf("Passes %d, rows removed %d, cols removed %d\n",
		res.Stats.Passes, res.Stats.RowsDel, res.Stats.ColsDel)
	return bw.err
}

// boundString formats a bound, printing the infinities as -inf and +inf.
func boundString(b float64) string {
	switch {
	case isPlinf(b):
		return "+inf"
	case isMinf(b):
		return "-inf"
	}
	return fmt.Sprintf("%g", b)
}
