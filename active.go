package lpps

import (
	"github.com/bits-and-blooms/bitset"
)

// activeSet tracks which rows and columns are still part of the problem
// during presolve, with the number of each. Rows and columns are only ever
// removed, and only through eliminateRow and eliminateCol, so the counts
// always equal the population of the bitsets.
//
// The non-zero caches are rebuilt by refresh at the start of each pass.
// Within a pass the cached lists may still name rows or columns removed
// since the rebuild; activeColsOf and activeRowsOf filter those out.
type activeSet struct {
	rows    *bitset.BitSet // presolve-active rows
	cols    *bitset.BitSet // presolve-active columns
	numRows int            // active row count
	numCols int            // active column count
	rowNz   [][]ColIdx     // per row, non-zero columns active at last refresh
	colNz   [][]RowIdx     // per column, non-zero rows active at last refresh
}

// newActiveSet returns a tracker with every row and column active.
func newActiveSet(nRows, nCols int) *activeSet {
	as := &activeSet{
		rows:    bitset.New(uint(nRows)),
		cols:    bitset.New(uint(nCols)),
		numRows: nRows,
		numCols: nCols,
		rowNz:   make([][]ColIdx, nRows),
		colNz:   make([][]RowIdx, nCols),
	}

	for i := 0; i < nRows; i++ {
		as.rows.Set(uint(i))
	}
	for j := 0; j < nCols; j++ {
		as.cols.Set(uint(j))
	}

	return as
}

// refresh rebuilds the non-zero caches from the matrix for the rows and
// columns that are active now.
func (as *activeSet) refresh(matrix [][]int64) {

	for i := range as.rowNz {
		as.rowNz[i] = as.rowNz[i][:0]
	}
	for j := range as.colNz {
		as.colNz[j] = as.colNz[j][:0]
	}

	for i, ok := as.rows.NextSet(0); ok; i, ok = as.rows.NextSet(i + 1) {
		for j, ok2 := as.cols.NextSet(0); ok2; j, ok2 = as.cols.NextSet(j + 1) {
			if matrix[i][j] == 0 {
				continue
			}
			as.rowNz[i] = append(as.rowNz[i], ColIdx(j))
			as.colNz[j] = append(as.colNz[j], RowIdx(i))
		}
	} // End for all active rows

	log(pTRC, "Caches rebuilt for %d rows and %d cols.\n", as.numRows, as.numCols)
}

// eliminateRow removes row from the active set. Removing an inactive row
// has no effect.
func (as *activeSet) eliminateRow(row RowIdx) {
	if !as.rows.Test(uint(row)) {
		return
	}
	as.rows.Clear(uint(row))
	as.numRows--
}

// eliminateCol removes col from the active set. Removing an inactive column
// has no effect.
func (as *activeSet) eliminateCol(col ColIdx) {
	if !as.cols.Test(uint(col)) {
		return
	}
	as.cols.Clear(uint(col))
	as.numCols--
}

func (as *activeSet) rowIsActive(row RowIdx) bool { return as.rows.Test(uint(row)) }

func (as *activeSet) colIsActive(col ColIdx) bool { return as.cols.Test(uint(col)) }

func (as *activeSet) rowCount() int { return as.numRows }

func (as *activeSet) colCount() int { return as.numCols }

// activeColsOf returns the columns of row with a non-zero coefficient that
// are still active, in column order. An inactive row has none.
func (as *activeSet) activeColsOf(row RowIdx) []ColIdx {
	var cols []ColIdx // active columns of the row

	if !as.rows.Test(uint(row)) {
		return nil
	}

	for _, col := range as.rowNz[row] {
		if as.cols.Test(uint(col)) {
			cols = append(cols, col)
		}
	}
	return cols
}

// activeRowsOf returns the rows with a non-zero coefficient in col that are
// still active, in row order. An inactive column has none.
func (as *activeSet) activeRowsOf(col ColIdx) []RowIdx {
	var rows []RowIdx // active rows of the column

	if !as.cols.Test(uint(col)) {
		return nil
	}

	for _, row := range as.colNz[col] {
		if as.rows.Test(uint(row)) {
			rows = append(rows, row)
		}
	}
	return rows
}

// activeRows returns every active row in row order.
func (as *activeSet) activeRows() []RowIdx {
	rows := make([]RowIdx, 0, as.numRows)
	for i, ok := as.rows.NextSet(0); ok; i, ok = as.rows.NextSet(i + 1) {
		rows = append(rows, RowIdx(i))
	}
	return rows
}

// activeCols returns every active column in column order.
func (as *activeSet) activeCols() []ColIdx {
	cols := make([]ColIdx, 0, as.numCols)
	for j, ok := as.cols.NextSet(0); ok; j, ok = as.cols.NextSet(j + 1) {
		cols = append(cols, ColIdx(j))
	}
	return cols
}
