package lpps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActiveSetRefreshAndFilter(t *testing.T) {
	matrix := [][]int64{
		{1, 0, 2},
		{0, 3, 0},
		{4, 5, 0},
	}

	as := newActiveSet(3, 3)
	require.Equal(t, 3, as.rowCount())
	require.Equal(t, 3, as.colCount())

	as.refresh(matrix)
	assert.Equal(t, []ColIdx{0, 2}, as.activeColsOf(0))
	assert.Equal(t, []RowIdx{0, 2}, as.activeRowsOf(0))
	assert.Equal(t, []RowIdx{1, 2}, as.activeRowsOf(1))

	// Removals are seen at once, before the next refresh.
	as.eliminateCol(0)
	as.eliminateRow(2)
	assert.Equal(t, []ColIdx{2}, as.activeColsOf(0))
	assert.Equal(t, []RowIdx{1}, as.activeRowsOf(1))
	assert.Empty(t, as.activeRowsOf(0))
	assert.Empty(t, as.activeColsOf(2))

	as.refresh(matrix)
	assert.Empty(t, as.rowNz[2])
	assert.Empty(t, as.colNz[0])
	assert.Equal(t, []RowIdx{0, 1}, as.activeRows())
	assert.Equal(t, []ColIdx{1, 2}, as.activeCols())
}

func TestActiveSetCountsMatchBitsets(t *testing.T) {
	as := newActiveSet(4, 2)

	as.eliminateRow(1)
	as.eliminateRow(1)
	as.eliminateCol(0)
	as.eliminateCol(0)

	assert.Equal(t, 3, as.rowCount())
	assert.Equal(t, int(as.rows.Count()), as.rowCount())
	assert.Equal(t, 1, as.colCount())
	assert.Equal(t, int(as.cols.Count()), as.colCount())
	assert.False(t, as.rowIsActive(1))
	assert.True(t, as.colIsActive(1))
}
