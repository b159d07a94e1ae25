package lpps

// pst: PostSolve
//
// Reconstruction of the values of removed columns from the list of
// operations. Records are undone from last to first. A replay works on its
// own copy of the row bounds, which it returns to their original values as
// folds and merges are undone, so the presolver itself is left untouched and
// can be replayed again, for example once a residual problem is solved.

import (
	"math"

	"github.com/bits-and-blooms/bitset"
	"github.com/pkg/errors"
)

// ErrUnresolvedDependency is returned when a substituted column is reached
// during postsolve before the column it depends on has a value.
var ErrUnresolvedDependency = errors.New("dependency resolved out of order")

// pstState is the state of one postsolve replay.
type pstState struct {
	ps         *Presolver
	lo         []float64      // row lower bounds, restored as records are undone
	up         []float64      // row upper bounds, restored as records are undone
	value      []float64      // column values, NaN until assigned
	rowsDone   *bitset.BitSet // postsolve-resolved rows
	colsDone   *bitset.BitSet // postsolve-resolved columns
	unsat      *bitset.BitSet // rows found unsatisfied
	partial    bool           // skip records whose dependencies have no value
	infeasible bool           // a substituted column had no value
}

// newPstState returns a replay state starting from the bounds left by
// presolve, with no column assigned.
func (ps *Presolver) newPstState(partial bool) *pstState {

	st := &pstState{
		ps:       ps,
		lo:       append([]float64(nil), ps.rowLo...),
		up:       append([]float64(nil), ps.rowUp...),
		value:    make([]float64, ps.NumCols()),
		rowsDone: bitset.New(uint(ps.NumRows())),
		colsDone: bitset.New(uint(ps.NumCols())),
		unsat:    bitset.New(uint(ps.NumRows())),
		partial:  partial,
	}

	for j := range st.value {
		st.value[j] = math.NaN()
	}

	return st
}

//==============================================================================

// assign gives col its value. A column is assigned at most once.
func (st *pstState) assign(col ColIdx, v float64) error {
	if st.colsDone.Test(uint(col)) {
		return errors.Errorf("col %d assigned twice", col)
	}

	st.value[col] = v
	st.colsDone.Set(uint(col))
	log(pTRC, "  col %d = %g\n", col, v)
	return nil
}

// isRowReady reports whether every column with a non-zero coefficient in row
// of the original matrix has a value.
func (st *pstState) isRowReady(row RowIdx) bool {
	for j, a := range st.ps.matrix[row] {
		if a != 0 && !st.colsDone.Test(uint(j)) {
			return false
		}
	}
	return true
}

// getPstLhs returns the activity of row over the columns that have a value.
func (st *pstState) getPstLhs(row RowIdx) float64 {
	var lhs float64 // sum of coefficient times value

	for j, a := range st.ps.matrix[row] {
		if a != 0 && st.colsDone.Test(uint(j)) {
			lhs += float64(a) * st.value[j]
		}
	}
	return lhs
}

// checkConstraint compares the activity of row with its original bounds and
// records the row as unsatisfied if they are violated.
func (st *pstState) checkConstraint(row RowIdx) bool {

	lhs := st.getPstLhs(row)
	lo, up := st.ps.origLo[row], st.ps.origUp[row]

	if !st.exceedsTol(lo, lhs) && !st.exceedsTol(lhs, up) {
		return true
	}

	if !st.unsat.Test(uint(row)) {
		st.unsat.Set(uint(row))
		if st.ps.ctrl.PrintUnsatisfied {
			log(pWARN, "Row %d unsatisfied: %g not in [%g, %g].\n", row, lhs, lo, up)
		}
	}
	return false
}

// exceedsTol reports whether a is greater than b beyond the tolerance, even
// in integer mode, since activities are summed in floating point.
func (st *pstState) exceedsTol(a, b float64) bool {
	if isMinf(a) || isPlinf(b) {
		return false
	}
	return a-b > Featol*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

// verifyRow marks row reconstructed and checks it once all of its columns
// have a value. A row that is not ready is left unmarked.
func (st *pstState) verifyRow(row RowIdx) {
	if !st.isRowReady(row) {
		return
	}
	st.rowsDone.Set(uint(row))
	st.checkConstraint(row)
}

//==============================================================================

// postSolve undoes the operation list from last to first, assigning values
// to the columns removed by presolve. Columns in seed already have a value,
// typically the columns of a solved residual problem. In partial mode a
// substituted column whose dependency has no value is skipped; otherwise it
// is an error wrapping ErrUnresolvedDependency.
// In case of failure, function returns an error.
func (ps *Presolver) postSolve(seed map[ColIdx]float64, partial bool) (*pstState, error) {
	var op PsOp // record being undone
	var err error

	st := ps.newPstState(partial)
	for col, v := range seed {
		if err = st.assign(col, v); err != nil {
			return nil, errors.Wrap(err, "postSolve failed")
		}
	}

	for i := len(ps.psOpList) - 1; i >= 0 && !st.infeasible; i-- {
		op = ps.psOpList[i]
		log(pTRC, "Undo %s %d.\n", op.Kind.Code(), i)

		switch op.Kind {

		// Free and empty rows ---------------------------------------------
		case RuleFreeRow, RuleEmptyRow:
			st.verifyRow(op.Row)

		// Row and column singleton ------------------------------------------
		case RuleRowColSingleton:
			v, reason := ps.singletonValue(op.Col, ps.coef(op.Row, op.Col), st.lo[op.Row], st.up[op.Row])
			if reason != ReasonNone {
				st.infeasible = true
				break
			}
			err = st.assign(op.Col, v)
			st.verifyRow(op.Row)

		// Row singletons, the value comes from the fixed column ----------------
		case RuleRowSingletonEquality:
			st.verifyRow(op.Row)

		case RuleRowSingletonInequality:
			st.verifyRow(op.Row)

		// Parallel row ----------------------------------------------------
		case RuleParallelRow:
			small := RowIdx(op.Deps[0])
			st.lo[small], st.up[small] = op.Restore.Lo, op.Restore.Up
			st.verifyRow(op.Row)

		// Empty column ----------------------------------------------------
		case RuleEmptyColumn:
			err = st.assign(op.Col, ps.emptyColValue(op.Col))

		// Fixed column ----------------------------------------------------
		case RuleFixedColumn:
			v := ps.impLo[op.Col]
			for _, r := range op.Deps {
				row := RowIdx(r)
				st.lo[row], _ = shiftBound(st.lo[row], float64(ps.coef(row, op.Col))*v)
				st.up[row], _ = shiftBound(st.up[row], float64(ps.coef(row, op.Col))*v)
			}
			err = st.assign(op.Col, v)

		// Free column substitution ------------------------------------------
		case RuleFreeColumnSubstitution:
			dep := ColIdx(op.Deps[0])
			if !st.colsDone.Test(uint(dep)) {
				if partial {
					continue
				}
				return nil, errors.Wrapf(ErrUnresolvedDependency,
					"postSolve reached col %d before col %d", op.Col, dep)
			}

			rest := float64(ps.coef(op.Row, dep)) * st.value[dep]
			lo, okLo := shiftBound(st.lo[op.Row], -rest)
			up, okUp := shiftBound(st.up[op.Row], -rest)
			if !okLo || !okUp {
				log(pINFO, "Col %d value %g out of range in row %d.\n", dep, st.value[dep], op.Row)
				st.infeasible = true
				break
			}
			v, reason := ps.singletonValue(op.Col, ps.coef(op.Row, op.Col), lo, up)
			if reason != ReasonNone {
				log(pINFO, "No value for col %d from row %d.\n", op.Col, op.Row)
				st.infeasible = true
				break
			}
			err = st.assign(op.Col, v)
			st.verifyRow(op.Row)

		// Something unknown -----------------------------------------------
		default:
			return nil, errors.Errorf("Unexpected operation %d in postSolve", op.Kind)
		} // End switch on operation type

		if err != nil {
			return nil, errors.Wrap(err, "postSolve failed")
		}
	} // End for processing psOpList

	if st.infeasible {
		return st, nil
	}

	// Every row whose columns all have a value is checked, not only the
	// rows touched by the records.
	for i := 0; i < ps.NumRows(); i++ {
		st.verifyRow(RowIdx(i))
	}

	return st, nil
}

//==============================================================================

// unsatisfiedRows returns the rows found unsatisfied, in row order.
func (st *pstState) unsatisfiedRows() []int {
	var rows []int
	for i, ok := st.unsat.NextSet(0); ok; i, ok = st.unsat.NextSet(i + 1) {
		rows = append(rows, int(i))
	}
	return rows
}
