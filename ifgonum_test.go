package lpps

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSolver answers every residual problem the same way.
type stubSolver struct {
	status SolveStatus
	values []float64
	err    error
	calls  int
}

func (s *stubSolver) Solve(_ context.Context, _ *ResidualProblem) (SolveStatus, []float64, error) {
	s.calls++
	return s.status, s.values, s.err
}

// rowsHold checks every row of in against x with a small tolerance.
func rowsHold(t *testing.T, in ProblemInput, x []float64) {
	t.Helper()

	for i, row := range in.Matrix {
		var lhs float64
		for j, a := range row {
			lhs += float64(a) * x[j]
		}
		assert.GreaterOrEqual(t, lhs, in.Lower[i]-1e-7, "row %d", i)
		assert.LessOrEqual(t, lhs, in.Upper[i]+1e-7, "row %d", i)
	}
}

func TestGonumSolverFeasible(t *testing.T) {
	in := residualProblem()

	res, status, err := SolveCombined(context.Background(), in, DefaultPsCtrl(), GonumSolver{})
	require.NoError(t, err)
	assert.Equal(t, SolveFeasible, status)
	require.Equal(t, StatusCompleted, res.Status)
	require.Len(t, res.Solution, 3)
	assert.Equal(t, 3.0, res.Solution[2])
	rowsHold(t, in, res.Solution)
}

// x0 + x1 <= 1, x0 - x1 >= 3 and x0 + 3x1 >= 5 have no common point, which
// no reduction detects.
func TestGonumSolverInfeasible(t *testing.T) {
	in := ProblemInput{
		Matrix:  [][]int64{{1, 1}, {1, -1}, {1, 3}},
		Lower:   []float64{-Plinfy, 3, 5},
		Upper:   []float64{1, Plinfy, Plinfy},
		NumIneq: 3,
	}

	res, status, err := SolveCombined(context.Background(), in, DefaultPsCtrl(), GonumSolver{})
	require.NoError(t, err)
	assert.Equal(t, SolveInfeasible, status)
	assert.Equal(t, StatusInfeasible, res.Status)
	assert.Equal(t, ReasonResidual, res.Reason)
	assert.Nil(t, res.Residual)
}

// The only point of x0 + x1 = 1 and x0 - x1 = 0 is fractional.
func TestGonumSolverFractionalInIntegerMode(t *testing.T) {
	in := ProblemInput{
		Matrix:      [][]int64{{1, 1}, {1, -1}},
		Lower:       []float64{1, 0},
		Upper:       []float64{1, 0},
		NumIneq:     2,
		IntegerMode: true,
	}

	res, status, err := SolveCombined(context.Background(), in, DefaultPsCtrl(), GonumSolver{})
	require.NoError(t, err)
	assert.Equal(t, SolveDidNotConverge, status)
	assert.Equal(t, StatusResidual, res.Status)
	assert.NotNil(t, res.Residual)

	in.IntegerMode = false
	res, status, err = SolveCombined(context.Background(), in, DefaultPsCtrl(), GonumSolver{})
	require.NoError(t, err)
	assert.Equal(t, SolveFeasible, status)
	require.Equal(t, StatusCompleted, res.Status)
	assert.InDelta(t, 0.5, res.Solution[0], 1e-9)
	assert.InDelta(t, 0.5, res.Solution[1], 1e-9)
}

func TestGonumSolverWithoutColumns(t *testing.T) {
	rp := &ResidualProblem{
		Lower: []float64{1},
		Upper: []float64{Plinfy},
		Rows:  []RowIdx{4},
	}

	status, _, err := GonumSolver{}.Solve(context.Background(), rp)
	require.NoError(t, err)
	assert.Equal(t, SolveInfeasible, status)

	rp.Lower[0] = -1
	status, values, err := GonumSolver{}.Solve(context.Background(), rp)
	require.NoError(t, err)
	assert.Equal(t, SolveFeasible, status)
	assert.Empty(t, values)
}

func TestGonumSolverUnusedColumnTakesImpliedBound(t *testing.T) {
	rp := &ResidualProblem{
		ImpLo: []float64{2},
		ImpUp: []float64{5},
		Cols:  []ColIdx{0},
	}

	status, values, err := GonumSolver{}.Solve(context.Background(), rp)
	require.NoError(t, err)
	assert.Equal(t, SolveFeasible, status)
	assert.Equal(t, []float64{2}, values)
}

func TestGonumSolverCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	status, _, err := GonumSolver{}.Solve(ctx, &ResidualProblem{})
	assert.Error(t, err)
	assert.Equal(t, SolveError, status)
}

func TestSolveCombinedSolverAnswers(t *testing.T) {
	in := residualProblem()

	failing := &stubSolver{status: SolveError, err: errors.New("boom")}
	res, status, err := SolveCombined(context.Background(), in, DefaultPsCtrl(), failing)
	assert.Error(t, err)
	assert.Equal(t, SolveError, status)
	assert.Equal(t, StatusResidual, res.Status)

	stuck := &stubSolver{status: SolveDidNotConverge}
	res, status, err = SolveCombined(context.Background(), in, DefaultPsCtrl(), stuck)
	require.NoError(t, err)
	assert.Equal(t, SolveDidNotConverge, status)
	assert.Equal(t, StatusResidual, res.Status)

	short := &stubSolver{status: SolveFeasible, values: []float64{1}}
	_, _, err = SolveCombined(context.Background(), in, DefaultPsCtrl(), short)
	assert.True(t, errors.Is(err, ErrBadInput))
}

func TestSolveCombinedSkipsSolver(t *testing.T) {
	in := ProblemInput{
		Matrix:      [][]int64{{3}},
		Lower:       []float64{6},
		Upper:       []float64{6},
		NumEq:       1,
		IntegerMode: true,
	}

	solver := &stubSolver{}
	res, status, err := SolveCombined(context.Background(), in, DefaultPsCtrl(), solver)
	require.NoError(t, err)
	assert.Equal(t, SolveStatus(0), status)
	assert.Equal(t, StatusReducedToEmpty, res.Status)
	assert.Zero(t, solver.calls)
}
