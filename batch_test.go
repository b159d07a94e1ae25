package lpps

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func batchProblems() []RawProblem {
	return []RawProblem{
		{NumVars: 2},                                          // empty
		{NumVars: 1, Eq: [][]int64{{-6, 3}}},                  // 3x = 6
		{NumVars: 2, Eq: [][]int64{{-2, 1, 1}, {-5, 2, 2}}},   // parallel conflict
		{NumVars: 2, Ineq: [][]int64{{-1, 1, 1}, {0, 1, -1}}}, // residual
		{NumVars: 2, Eq: [][]int64{{1, 1}}},                   // short row
	}
}

// feed sends problems on a channel which is closed afterwards.
func feed(problems []RawProblem) <-chan RawProblem {
	ch := make(chan RawProblem)
	go func() {
		defer close(ch)
		for _, p := range problems {
			ch <- p
		}
	}()
	return ch
}

func TestRunBatch(t *testing.T) {
	bc := BatchCtrl{Psc: DefaultPsCtrl(), IntegerMode: true, Workers: 2}

	stats, err := RunBatch(context.Background(), feed(batchProblems()), bc)
	require.NoError(t, err)

	assert.Equal(t, 5, stats.Problems)
	assert.Equal(t, 1, stats.Empty)
	assert.Equal(t, 1, stats.ReducedToEmpty)
	assert.Equal(t, 1, stats.IntegerFeasible)
	assert.Equal(t, 1, stats.Infeasible)
	assert.Equal(t, 1, stats.InfeasibleParallel)
	assert.Equal(t, 1, stats.Residual)
	assert.Equal(t, 1, stats.Errors)
	assert.Zero(t, stats.Unsatisfied)
	assert.Zero(t, stats.Completed)
	assert.Equal(t, 1, stats.RuleCount[RuleRowColSingleton])
}

func TestRunBatchWithSolver(t *testing.T) {
	bc := BatchCtrl{Psc: DefaultPsCtrl(), Workers: 3, Solver: GonumSolver{}}

	stats, err := RunBatch(context.Background(), feed(batchProblems()), bc)
	require.NoError(t, err)

	assert.Equal(t, 5, stats.Problems)
	assert.Equal(t, 1, stats.Infeasible)
	assert.Equal(t, 1, stats.Completed+stats.Unsatisfied)
	assert.Zero(t, stats.Residual)
}

func TestRunBatchIgnoresPsopFile(t *testing.T) {
	psc := DefaultPsCtrl()
	psc.FileOutPsop = "/nonexistent/dir/psop_file.txt"

	stats, err := RunBatch(context.Background(), feed(batchProblems()[1:2]), BatchCtrl{Psc: psc})
	require.NoError(t, err)
	assert.Zero(t, stats.Errors)
	assert.Equal(t, 1, stats.ReducedToEmpty)
}

func TestPrintBatchStats(t *testing.T) {
	bs := BatchStats{Problems: 7, Empty: 2, InfeasibleParallel: 1, Errors: 1}
	bs.RuleCount[RuleEmptyColumn] = 4

	var buf bytes.Buffer
	require.NoError(t, PrintBatchStats(&buf, bs))
	text := buf.String()

	assert.Contains(t, text, "7 problems read")
	assert.Contains(t, text, "2 problems were empty.")
	assert.Contains(t, text, "1 problems were infeasible due to parallel rows.")
	assert.Contains(t, text, "1 problems could not be processed.")
	assert.Contains(t, text, "MTC (Empty Column)")
}
