package lpps

// model: problem data held by the presolver.
//
// A problem is a coefficient matrix with a lower and an upper bound on every
// row. Rows [0, NumIneq) are inequalities and the remaining NumEq rows are
// equalities. Bounds at or beyond Plinfy in magnitude are infinite. The
// presolver keeps its own copy of the input: the row bounds it works with
// are modified by the reduction rules while the original bounds are kept
// for verifying the reconstructed solution.

import (
	"math"

	"github.com/bits-and-blooms/bitset"
	"github.com/pkg/errors"
)

// Plinfy is the value of plus infinity for row and implied bounds; minus
// infinity is -Plinfy. It is the largest magnitude at which a float64 still
// represents every integer exactly, so integral bound arithmetic stays exact
// below it.
const Plinfy float64 = 1 << 53

// MaxCoef is the largest coefficient magnitude accepted. Products of two
// coefficients fit in an int64.
const MaxCoef = math.MaxInt32

// Featol is the relative tolerance used when real-valued bounds and row
// activities are compared. Integer mode compares exactly.
const Featol = 1e-9

// RowIdx is the index of a row in the problem matrix.
type RowIdx int

// ColIdx is the index of a column (variable) in the problem matrix.
type ColIdx int

// Index values used in records which carry no row or no column.
const (
	NoRow RowIdx = -1
	NoCol ColIdx = -1
)

// ErrBadInput is the cause of every error returned for a malformed problem.
var ErrBadInput = errors.New("invalid problem input")

// ProblemInput is the problem handed to the presolver, normally produced by
// Reformat from the rows of a problem file.
type ProblemInput struct {
	Matrix      [][]int64 // Coefficients, one slice per row
	Lower       []float64 // Row lower bounds, -Plinfy if none
	Upper       []float64 // Row upper bounds, Plinfy if none
	NumIneq     int       // Rows [0, NumIneq) are inequalities
	NumEq       int       // Rows [NumIneq, NumIneq+NumEq) are equalities
	IntegerMode bool      // Variables must take integral values
}

// BoundPair is a lower and upper bound.
type BoundPair struct {
	Lo float64 // Lower bound
	Up float64 // Upper bound
}

// Presolver holds the state of one presolve/postsolve run. A Presolver is
// built for a single problem and is not reused; concurrent solves each need
// their own.
type Presolver struct {
	matrix  [][]int64 // coefficient matrix, never modified
	origLo  []float64 // row lower bounds as given
	origUp  []float64 // row upper bounds as given
	rowLo   []float64 // row lower bounds, modified by the rules
	rowUp   []float64 // row upper bounds, modified by the rules
	impLo   []float64 // implied lower bound of each column
	impUp   []float64 // implied upper bound of each column
	numIneq int       // number of inequality rows
	numCols int       // number of columns
	intMode bool      // integer mode

	ctrl     PsCtrl         // settings of the current reduction
	act      *activeSet     // presolve-active rows and columns
	ineqSeen *bitset.BitSet // inequality singletons already used
	psOpList []PsOp         // reversal records, in order of application
	stats    PsStats        // counters for the reduction

	reduced    bool             // ReduceMatrix has run
	infeasible bool             // presolve proved infeasibility
	reason     InfeasibleReason // why the problem is infeasible
}

//==============================================================================

// NewPresolver validates the problem and returns a presolver holding a copy
// of it. Bounds at or beyond Plinfy in magnitude, including the infinities
// of the math package, are stored as -Plinfy or Plinfy.
// In case of failure, function returns an error wrapping ErrBadInput.
func NewPresolver(in ProblemInput) (*Presolver, error) {
	var numRows int // number of rows in the problem
	var err   error // error returned by secondary functions

	if err = validateInput(in); err != nil {
		return nil, errors.Wrap(err, "NewPresolver failed")
	}

	numRows = len(in.Matrix)
	ps := &Presolver{
		matrix:  make([][]int64, numRows),
		origLo:  make([]float64, numRows),
		origUp:  make([]float64, numRows),
		rowLo:   make([]float64, numRows),
		rowUp:   make([]float64, numRows),
		numIneq: in.NumIneq,
		intMode: in.IntegerMode,
	}

	if numRows > 0 {
		ps.numCols = len(in.Matrix[0])
	}

	for i := 0; i < numRows; i++ {
		ps.matrix[i] = append([]int64(nil), in.Matrix[i]...)
		ps.origLo[i] = normBound(in.Lower[i])
		ps.origUp[i] = normBound(in.Upper[i])
	}
	copy(ps.rowLo, ps.origLo)
	copy(ps.rowUp, ps.origUp)

	ps.impLo = make([]float64, ps.numCols)
	ps.impUp = make([]float64, ps.numCols)
	for j := 0; j < ps.numCols; j++ {
		ps.impLo[j] = -Plinfy
		ps.impUp[j] = Plinfy
	}

	ps.act = newActiveSet(numRows, ps.numCols)
	ps.ineqSeen = bitset.New(uint(numRows))

	return ps, nil
}

//==============================================================================

// validateInput checks the shape of the problem and the consistency of its
// bounds. In case of failure, function returns an error.
func validateInput(in ProblemInput) error {
	var numRows int // rows in the matrix
	var numCols int // columns in the first row

	numRows = len(in.Matrix)
	if in.NumIneq < 0 || in.NumEq < 0 || in.NumIneq+in.NumEq != numRows {
		return errors.Wrapf(ErrBadInput, "%d inequalities and %d equalities for %d rows",
			in.NumIneq, in.NumEq, numRows)
	}

	if len(in.Lower) != numRows || len(in.Upper) != numRows {
		return errors.Wrapf(ErrBadInput, "%d lower and %d upper bounds for %d rows",
			len(in.Lower), len(in.Upper), numRows)
	}

	if numRows > 0 {
		numCols = len(in.Matrix[0])
	}

	for i := 0; i < numRows; i++ {
		if len(in.Matrix[i]) != numCols {
			return errors.Wrapf(ErrBadInput, "row %d has %d coefficients, expected %d",
				i, len(in.Matrix[i]), numCols)
		}

		for j, a := range in.Matrix[i] {
			if a > MaxCoef || a < -MaxCoef {
				return errors.Wrapf(ErrBadInput, "row %d col %d coefficient %d out of range", i, j, a)
			}
		}

		lo, up := in.Lower[i], in.Upper[i]
		if math.IsNaN(lo) || math.IsNaN(up) {
			return errors.Wrapf(ErrBadInput, "row %d has a NaN bound", i)
		}

		lo, up = normBound(lo), normBound(up)
		if lo >= Plinfy || up <= -Plinfy {
			return errors.Wrapf(ErrBadInput, "row %d bounds [%g, %g] admit no value", i, lo, up)
		}

		if lo > up {
			return errors.Wrapf(ErrBadInput, "row %d lower bound %g exceeds upper bound %g", i, lo, up)
		}

		if in.IntegerMode && (!isIntegral(lo) || !isIntegral(up)) {
			return errors.Wrapf(ErrBadInput, "row %d bounds [%g, %g] are not integral", i, lo, up)
		}
	} // End for all rows

	return nil
}

//==============================================================================

// normBound maps bounds at or beyond the sentinel to +/-Plinfy.
func normBound(b float64) float64 {
	if b >= Plinfy {
		return Plinfy
	}
	if b <= -Plinfy {
		return -Plinfy
	}
	return b
}

// isPlinf reports whether b is plus infinity.
func isPlinf(b float64) bool { return b >= Plinfy }

// isMinf reports whether b is minus infinity.
func isMinf(b float64) bool { return b <= -Plinfy }

// isIntegral reports whether b is infinite or a whole number.
func isIntegral(b float64) bool {
	return isPlinf(b) || isMinf(b) || b == math.Trunc(b)
}

//==============================================================================

// NumRows returns the number of rows of the problem.
func (ps *Presolver) NumRows() int { return len(ps.matrix) }

// NumCols returns the number of columns of the problem.
func (ps *Presolver) NumCols() int { return ps.numCols }

// isEquality reports whether row is treated as an equality: it lies in the
// equality block and its current bounds coincide.
func (ps *Presolver) isEquality(row RowIdx) bool {
	return int(row) >= ps.numIneq && ps.rowLo[row] == ps.rowUp[row]
}

// isIneqKind reports whether row lies in the inequality block.
func (ps *Presolver) isIneqKind(row RowIdx) bool {
	return int(row) < ps.numIneq
}

// coef returns the coefficient of col in row.
func (ps *Presolver) coef(row RowIdx, col ColIdx) int64 {
	return ps.matrix[row][col]
}

// exceeds reports whether a is greater than b. In real mode the difference
// must be larger than the relative tolerance Featol.
func (ps *Presolver) exceeds(a, b float64) bool {
	if ps.intMode {
		return a > b
	}
	return a-b > Featol*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}
