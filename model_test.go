package lpps

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPresolverRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		in   ProblemInput
	}{
		{
			name: "row count mismatch",
			in: ProblemInput{
				Matrix: [][]int64{{1}}, Lower: []float64{0}, Upper: []float64{1},
				NumIneq: 1, NumEq: 1,
			},
		},
		{
			name: "bounds length mismatch",
			in: ProblemInput{
				Matrix: [][]int64{{1}}, Lower: []float64{0, 0}, Upper: []float64{1},
				NumIneq: 1,
			},
		},
		{
			name: "ragged matrix",
			in: ProblemInput{
				Matrix: [][]int64{{1, 2}, {1}}, Lower: []float64{0, 0}, Upper: []float64{1, 1},
				NumIneq: 2,
			},
		},
		{
			name: "lower above upper",
			in: ProblemInput{
				Matrix: [][]int64{{1}}, Lower: []float64{2}, Upper: []float64{1},
				NumIneq: 1,
			},
		},
		{
			name: "NaN bound",
			in: ProblemInput{
				Matrix: [][]int64{{1}}, Lower: []float64{math.NaN()}, Upper: []float64{1},
				NumIneq: 1,
			},
		},
		{
			name: "lower bound at plus infinity",
			in: ProblemInput{
				Matrix: [][]int64{{1}}, Lower: []float64{math.Inf(1)}, Upper: []float64{math.Inf(1)},
				NumIneq: 1,
			},
		},
		{
			name: "coefficient out of range",
			in: ProblemInput{
				Matrix: [][]int64{{1 << 32, 1}, {1 << 32, 1<<32 + 1}}, Lower: []float64{0, 0}, Upper: []float64{1, 1},
				NumIneq: 2,
			},
		},
		{
			name: "negative coefficient out of range",
			in: ProblemInput{
				Matrix: [][]int64{{-MaxCoef - 1}}, Lower: []float64{0}, Upper: []float64{1},
				NumIneq: 1,
			},
		},
		{
			name: "fractional bound in integer mode",
			in: ProblemInput{
				Matrix: [][]int64{{1}}, Lower: []float64{0.5}, Upper: []float64{1},
				NumIneq: 1, IntegerMode: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPresolver(tt.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrBadInput), "error %v does not wrap ErrBadInput", err)
		})
	}
}

func TestNewPresolverNormalizesAndCopies(t *testing.T) {
	in := ProblemInput{
		Matrix:  [][]int64{{1, 2}, {3, 4}},
		Lower:   []float64{math.Inf(-1), 1},
		Upper:   []float64{1e300, 1},
		NumIneq: 1,
		NumEq:   1,
	}

	ps, err := NewPresolver(in)
	require.NoError(t, err)

	assert.Equal(t, 2, ps.NumRows())
	assert.Equal(t, 2, ps.NumCols())
	assert.Equal(t, -Plinfy, ps.origLo[0])
	assert.Equal(t, Plinfy, ps.origUp[0])
	assert.Equal(t, []float64{-Plinfy, -Plinfy}, ps.impLo)
	assert.Equal(t, []float64{Plinfy, Plinfy}, ps.impUp)

	in.Matrix[0][0] = 9
	in.Lower[1] = 7
	assert.Equal(t, int64(1), ps.coef(0, 0))
	assert.Equal(t, 1.0, ps.rowLo[1])

	assert.True(t, ps.isIneqKind(0))
	assert.False(t, ps.isEquality(0))
	assert.True(t, ps.isEquality(1))
}

func TestNewPresolverEmptyProblem(t *testing.T) {
	ps, err := NewPresolver(ProblemInput{})
	require.NoError(t, err)
	assert.Equal(t, 0, ps.NumRows())
	assert.Equal(t, 0, ps.NumCols())
}

func TestExceeds(t *testing.T) {
	rm := &Presolver{}
	assert.False(t, rm.exceeds(1+1e-12, 1))
	assert.True(t, rm.exceeds(1.001, 1))
	assert.False(t, rm.exceeds(1e12+1e-3, 1e12))

	im := &Presolver{intMode: true}
	assert.True(t, im.exceeds(1+1e-12, 1))
	assert.False(t, im.exceeds(1, 1))
}
