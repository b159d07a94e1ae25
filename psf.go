package lpps

// psf: PreSolving Functions
//
// Reduction rules which remove rows and columns from the problem, and the
// loop which applies them until nothing more can be removed. Rows are never
// physically deleted: the active set records which ones are still part of
// the problem, and every removal is recorded in the operation list so that
// postsolve can recover the values of the removed columns.
//
// Each pass runs the row rules over the active rows in row order and then
// the column rules over the active columns in column order.

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// PsCtrl specifies which reductions are performed and how many passes
// ReduceMatrix may make. DefaultPsCtrl enables every reduction.
type PsCtrl struct {
	MaxIter          int    // Maximum passes, 0 for no limit
	DelFreeRows      bool   // Controls if rows without finite bounds are removed
	DelEmptyRows     bool   // Controls if rows without active columns are removed
	DelParallelRows  bool   // Controls if parallel rows are merged
	DelRowSingleton  bool   // Controls if row singletons are used
	DelEmptyCols     bool   // Controls if empty columns are removed
	DelFixedCols     bool   // Controls if fixed columns are removed
	DelFreeColSubst  bool   // Controls if free columns of two-column rows are substituted
	PrintUnsatisfied bool   // Log each row found unsatisfied by postsolve
	FileOutPsop      string // Output file of pre-solve operations, or "" for none
}

// PsStats holds the counters of a presolve run.
type PsStats struct {
	Passes    int               // Passes made by ReduceMatrix
	RowsDel   int               // Rows removed
	ColsDel   int               // Columns removed
	RuleCount [numRuleKinds]int // Records appended, per rule
}

// ErrAlreadyReduced is returned when ReduceMatrix is called twice.
var ErrAlreadyReduced = errors.New("problem already reduced")

// DefaultPsCtrl returns a control structure with every reduction enabled and
// no limit on the number of passes.
func DefaultPsCtrl() PsCtrl {
	return PsCtrl{
		DelFreeRows:     true,
		DelEmptyRows:    true,
		DelParallelRows: true,
		DelRowSingleton: true,
		DelEmptyCols:    true,
		DelFixedCols:    true,
		DelFreeColSubst: true,
	}
}

//==============================================================================
// GENERAL UTILITY FUNCTIONS
//==============================================================================

// setInfeasible marks the problem infeasible for the reason given. The
// first reason recorded is kept.
func (ps *Presolver) setInfeasible(reason InfeasibleReason, format string, args ...interface{}) {
	if !ps.infeasible {
		ps.infeasible = true
		ps.reason = reason
	}
	log(pINFO, "Infeasible ("+reason.String()+"): "+format, args...)
}

// shiftRow returns the bounds of row with delta added to the finite ones,
// and whether both stay below the sentinel.
func (ps *Presolver) shiftRow(row RowIdx, delta float64) (lo, up float64, ok bool) {
	lo, okLo := shiftBound(ps.rowLo[row], delta)
	up, okUp := shiftBound(ps.rowUp[row], delta)
	return lo, up, okLo && okUp
}

//==============================================================================
// ROW REDUCTION OPERATIONS
//==============================================================================

// delFreeRow removes row if neither of its bounds is finite, and reports
// whether it did.
func (ps *Presolver) delFreeRow(row RowIdx) bool {

	if !isMinf(ps.rowLo[row]) || !isPlinf(ps.rowUp[row]) {
		return false
	}

	ps.act.eliminateRow(row)
	ps.updatePsList(RuleFreeRow, row, NoCol, nil, nil)
	return true
}

//==============================================================================

// delEmptyRow removes row, which has no active columns left. What remains of
// the row is 0 within its current bounds; if 0 lies outside them the problem
// is infeasible.
func (ps *Presolver) delEmptyRow(row RowIdx) {

	if ps.exceeds(ps.rowLo[row], 0) || ps.exceeds(0, ps.rowUp[row]) {
		ps.setInfeasible(ReasonImpliedBound, "empty row %d needs 0 in [%g, %g].\n",
			row, ps.rowLo[row], ps.rowUp[row])
		return
	}

	ps.act.eliminateRow(row)
	ps.updatePsList(RuleEmptyRow, row, NoCol, nil, nil)
}

//==============================================================================

// delParallelRow looks among the active rows before row, of the same kind,
// for one with the same active columns and proportional coefficients. If one
// is found, the two are merged: the row with the larger leading coefficient
// is removed and its bounds are carried over to the other. Function reports
// whether row itself was removed.
func (ps *Presolver) delParallelRow(row RowIdx, cols []ColIdx) bool {
	var start int // first row of the same kind

	if !ps.isIneqKind(row) {
		start = ps.numIneq
	}

	for k := start; k < int(row); k++ {
		other := RowIdx(k)
		if !ps.act.rowIsActive(other) {
			continue
		}

		if !slices.Equal(cols, ps.act.activeColsOf(other)) {
			continue
		}

		if !ps.areRowsParallel(row, other, cols) {
			continue
		}

		return ps.mergeParallelRows(row, other, cols[0])
	} // End for all earlier rows

	return false
}

// areRowsParallel reports whether the coefficients of rows r1 and r2 on cols
// are proportional. Cross products are compared so no division is needed;
// they fit in an int64 since no coefficient exceeds MaxCoef.
func (ps *Presolver) areRowsParallel(r1, r2 RowIdx, cols []ColIdx) bool {
	c0 := cols[0]
	for _, c := range cols[1:] {
		if ps.coef(r1, c)*ps.coef(r2, c0) != ps.coef(r2, c)*ps.coef(r1, c0) {
			return false
		}
	}
	return true
}

// mergeParallelRows merges the parallel rows row and other, c0 being their
// first active column. The small row is the one with the smaller absolute
// coefficient on c0; on a tie row is kept and the earlier row removed. With
// y the activity of the small row and r = a_large[c0]/a_small[c0], the large
// row requires lo_large <= r*y <= up_large, which is intersected into the
// bounds of the small row. The rows are left alone when the scaled bounds
// reach the sentinel. Function reports whether row was removed.
func (ps *Presolver) mergeParallelRows(row, other RowIdx, c0 ColIdx) bool {
	var small, large RowIdx // rows kept and removed
	var lo, up float64      // large row bounds scaled by the small coefficient
	var yl, yu float64      // range of the small row activity required by the large row
	var okLo, okUp bool     // scaled bounds below the sentinel

	small, large = other, row
	if abs(ps.coef(row, c0)) <= abs(ps.coef(other, c0)) {
		small, large = row, other
	}

	aS, aL := ps.coef(small, c0), ps.coef(large, c0)

	// aL*y lies in the large row bounds multiplied by aS.
	lo, okLo = scaleBound(ps.rowLo[large], aS)
	up, okUp = scaleBound(ps.rowUp[large], aS)
	if !okLo || !okUp {
		log(pDEB, "Rows %d and %d not merged, bounds out of range.\n", small, large)
		return false
	}
	if aS < 0 {
		lo, up = up, lo
	}
	yl, yu = ps.rowInterval(aL, lo, up)

	newLo := maxf(ps.rowLo[small], yl)
	newUp := minf(ps.rowUp[small], yu)
	if ps.exceeds(newLo, newUp) {
		ps.setInfeasible(ReasonParallelRows, "rows %d and %d need activity in [%g, %g].\n",
			small, large, newLo, newUp)
		return false
	}

	if newLo > newUp {
		newUp = newLo
	}

	restore := &BoundPair{Lo: ps.rowLo[small], Up: ps.rowUp[small]}
	ps.rowLo[small], ps.rowUp[small] = newLo, newUp

	ps.act.eliminateRow(large)
	ps.updatePsList(RuleParallelRow, large, NoCol, []int{int(small)}, restore)

	return large == row
}

//==============================================================================

// delRowSingleton applies the singleton rules to row, whose only active
// column is col.
func (ps *Presolver) delRowSingleton(row RowIdx, col ColIdx) {

	switch {
	case len(ps.act.activeRowsOf(col)) == 1:
		ps.delRowColSingleton(row, col)

	case ps.isEquality(row):
		ps.delRowSingletonEq(row, col)

	case !ps.ineqSeen.Test(uint(row)):
		ps.useRowSingletonIneq(row, col)
	}
}

// delRowColSingleton removes row together with col, its only column, which
// appears in no other active row. The value of col is chosen by postsolve;
// here it is only checked that one exists.
func (ps *Presolver) delRowColSingleton(row RowIdx, col ColIdx) {

	if _, reason := ps.singletonValue(col, ps.coef(row, col), ps.rowLo[row], ps.rowUp[row]); reason != ReasonNone {
		ps.setInfeasible(reason, "row %d has no value for col %d.\n", row, col)
		return
	}

	ps.act.eliminateRow(row)
	ps.act.eliminateCol(col)
	ps.updatePsList(RuleRowColSingleton, row, col, nil, nil)
}

// delRowSingletonEq removes the equality row whose only active column is
// col, fixing the implied bounds of col to the value the row requires. The
// column itself is removed by the fixed column rule.
func (ps *Presolver) delRowSingletonEq(row RowIdx, col ColIdx) {

	value, reason := ps.singletonValue(col, ps.coef(row, col), ps.rowLo[row], ps.rowUp[row])
	if reason != ReasonNone {
		ps.setInfeasible(reason, "equality row %d has no value for col %d.\n", row, col)
		return
	}

	ps.impLo[col] = value
	ps.impUp[col] = value

	ps.act.eliminateRow(row)
	ps.updatePsList(RuleRowSingletonEquality, row, col, nil, nil)
}

// useRowSingletonIneq tightens the implied bounds of col with the range
// allowed by the inequality row, whose only active column is col. The row
// stays active and is marked so it is not used again.
func (ps *Presolver) useRowSingletonIneq(row RowIdx, col ColIdx) {

	xl, xu := ps.rowInterval(ps.coef(row, col), ps.rowLo[row], ps.rowUp[row])
	if ps.exceeds(xl, xu) {
		ps.setInfeasible(ReasonArithmetic, "inequality row %d has no value for col %d.\n", row, col)
		return
	}

	newLo := maxf(ps.impLo[col], xl)
	newUp := minf(ps.impUp[col], xu)
	if ps.exceeds(newLo, newUp) {
		ps.setInfeasible(ReasonImpliedBound, "col %d implied bounds [%g, %g] are empty.\n",
			col, newLo, newUp)
		return
	}

	if newLo > newUp {
		newUp = newLo
	}

	ps.impLo[col], ps.impUp[col] = newLo, newUp
	ps.ineqSeen.Set(uint(row))
	ps.updatePsList(RuleRowSingletonInequality, row, col, nil, nil)
}

//==============================================================================

// applyRowRules makes one pass of the row rules over the active rows. It
// stops as soon as the problem is found infeasible.
func (ps *Presolver) applyRowRules() {

	for i := 0; i < ps.NumRows(); i++ {
		row := RowIdx(i)
		if !ps.act.rowIsActive(row) {
			continue
		}

		if ps.ctrl.DelFreeRows && ps.delFreeRow(row) {
			continue
		}

		cols := ps.act.activeColsOf(row)
		if len(cols) == 0 {
			if ps.ctrl.DelEmptyRows {
				ps.delEmptyRow(row)
			}
			if ps.infeasible {
				return
			}
			continue
		}

		if ps.ctrl.DelParallelRows && ps.delParallelRow(row, cols) {
			continue
		}
		if ps.infeasible {
			return
		}

		if len(cols) == 1 && ps.ctrl.DelRowSingleton {
			ps.delRowSingleton(row, cols[0])
			if ps.infeasible {
				return
			}
		}
	} // End for all rows
}

//==============================================================================
// COLUMN REDUCTION OPERATIONS
//==============================================================================

// delFixedCol removes col, whose implied bounds are equal, after folding its
// value into the bounds of every active row that contains it. The rows are
// recorded so postsolve can undo the fold. If a folded bound would reach the
// sentinel no row is changed and col stays active. Function reports whether
// col was removed.
func (ps *Presolver) delFixedCol(col ColIdx) bool {
	var value float64 // fixed value of the column

	value = ps.impLo[col]
	rows := ps.act.activeRowsOf(col)
	lo := make([]float64, len(rows))
	up := make([]float64, len(rows))

	for k, row := range rows {
		var ok bool
		if lo[k], up[k], ok = ps.shiftRow(row, -float64(ps.coef(row, col))*value); !ok {
			log(pDEB, "Col %d kept, fold into row %d out of range.\n", col, row)
			return false
		}
	}

	deps := make([]int, 0, len(rows))
	for k, row := range rows {
		ps.rowLo[row], ps.rowUp[row] = lo[k], up[k]
		deps = append(deps, int(row))
	}

	ps.act.eliminateCol(col)
	ps.updatePsList(RuleFixedColumn, NoRow, col, deps, nil)
	return true
}

// delEmptyCol removes col, which has no active rows left.
func (ps *Presolver) delEmptyCol(col ColIdx) {

	ps.act.eliminateCol(col)
	ps.updatePsList(RuleEmptyColumn, NoRow, col, nil, nil)
}

// delFreeColSubst removes col together with row, its only active row, when
// col has no implied bounds and row has exactly one other active column.
// Postsolve later solves row for col from the value of the other column. In
// integer mode the row must always admit an integral solution: either col has
// a unit coefficient or one of the row bounds is infinite. The row bounds less
// the other column at either of its finite implied bounds must stay below the
// sentinel.
func (ps *Presolver) delFreeColSubst(col ColIdx, row RowIdx) {
	var other ColIdx // the remaining column of the row

	if !isMinf(ps.impLo[col]) || !isPlinf(ps.impUp[col]) {
		return
	}

	cols := ps.act.activeColsOf(row)
	if len(cols) != 2 {
		return
	}

	other = cols[0]
	if other == col {
		other = cols[1]
	}

	if ps.intMode && abs(ps.coef(row, col)) != 1 && !isMinf(ps.rowLo[row]) && !isPlinf(ps.rowUp[row]) {
		return
	}

	for _, b := range []float64{ps.impLo[other], ps.impUp[other]} {
		if !isFinite(b) {
			continue
		}
		rest, ok := scaleBound(b, ps.coef(row, other))
		if ok {
			_, _, ok = ps.shiftRow(row, -rest)
		}
		if !ok {
			log(pDEB, "Col %d not substituted, row %d out of range.\n", col, row)
			return
		}
	}

	ps.act.eliminateRow(row)
	ps.act.eliminateCol(col)
	ps.updatePsList(RuleFreeColumnSubstitution, row, col, []int{int(other)}, nil)
}

//==============================================================================

// applyColRules makes one pass of the column rules over the active columns.
func (ps *Presolver) applyColRules() {

	for j := 0; j < ps.NumCols(); j++ {
		col := ColIdx(j)
		if !ps.act.colIsActive(col) {
			continue
		}

		if ps.ctrl.DelFixedCols && ps.impLo[col] == ps.impUp[col] && ps.delFixedCol(col) {
			continue
		}

		rows := ps.act.activeRowsOf(col)
		switch {
		case len(rows) == 0 && ps.ctrl.DelEmptyCols:
			ps.delEmptyCol(col)

		case len(rows) == 1 && ps.ctrl.DelFreeColSubst:
			ps.delFreeColSubst(col, rows[0])
		}
	} // End for all columns
}

//==============================================================================
// EXPORTED FUNCTIONS
//==============================================================================

// ReduceMatrix repeatedly applies the reductions enabled in psc until a pass
// removes nothing, every row and column has been removed, the problem is
// found infeasible, or psc.MaxIter passes have been made. When the problem
// is infeasible the list of operations is discarded, since no solution will
// be reconstructed from it.
//
// In case of failure, the function returns an error.
//
//	The fields of the psc structure have the following meaning for this function:
//	   MaxIter           int    - maximum passes, 0 for no limit
//	   Del...            bool   - if true, apply the corresponding reduction
//	   PrintUnsatisfied  bool   - ignored by this function
//	   FileOutPsop       string - ignored by this function
func (ps *Presolver) ReduceMatrix(psc PsCtrl) error {
	var rowsBefore int // active rows at the start of the pass
	var colsBefore int // active columns at the start of the pass

	if ps.reduced {
		return errors.Wrap(ErrAlreadyReduced, "ReduceMatrix failed")
	}
	ps.reduced = true
	ps.ctrl = psc

	for i := 1; ps.act.rowCount() > 0 || ps.act.colCount() > 0; i++ {

		if psc.MaxIter > 0 && i > psc.MaxIter {
			log(pINFO, "Reduction stopped after %d passes.\n", psc.MaxIter)
			break
		}

		rowsBefore, colsBefore = ps.act.rowCount(), ps.act.colCount()
		log(pINFO, "Pass %d: %d rows, %d cols.\n", i, rowsBefore, colsBefore)

		ps.act.refresh(ps.matrix)
		ps.applyRowRules()
		if !ps.infeasible {
			ps.applyColRules()
		}
		ps.stats.Passes = i

		if ps.infeasible {
			ps.psOpList = nil
			break
		}

		if ps.act.rowCount() == rowsBefore && ps.act.colCount() == colsBefore {
			break
		}
	} // End for reduction passes

	ps.stats.RowsDel = ps.NumRows() - ps.act.rowCount()
	ps.stats.ColsDel = ps.NumCols() - ps.act.colCount()

	log(pINFO, "Reduction done after %d passes, %d rows and %d cols removed.\n",
		ps.stats.Passes, ps.stats.RowsDel, ps.stats.ColsDel)

	return nil
}

//==============================================================================

// Stats returns the counters of the reduction.
func (ps *Presolver) Stats() PsStats { return ps.stats }

// Infeasible reports whether presolve proved the problem infeasible, and why.
func (ps *Presolver) Infeasible() (bool, InfeasibleReason) { return ps.infeasible, ps.reason }

// ReducedToEmpty reports whether every row and column has been removed.
func (ps *Presolver) ReducedToEmpty() bool {
	return !ps.infeasible && ps.act.rowCount() == 0 && ps.act.colCount() == 0
}
