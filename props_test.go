package lpps

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// randomProblem returns a problem of at most 3 rows and 3 columns with
// coefficients in [-2, 2] and integral bounds in [-3, 6], some of them
// infinite.
func randomProblem(rng *rand.Rand, intMode bool) ProblemInput {
	nRows := 1 + rng.Intn(3)
	nCols := 1 + rng.Intn(3)
	nIneq := rng.Intn(nRows + 1)

	in := ProblemInput{
		Matrix:      make([][]int64, nRows),
		Lower:       make([]float64, nRows),
		Upper:       make([]float64, nRows),
		NumIneq:     nIneq,
		NumEq:       nRows - nIneq,
		IntegerMode: intMode,
	}

	for i := 0; i < nRows; i++ {
		in.Matrix[i] = make([]int64, nCols)
		for j := range in.Matrix[i] {
			in.Matrix[i][j] = int64(rng.Intn(5) - 2)
		}

		lo := float64(rng.Intn(7) - 3)
		if i >= nIneq {
			in.Lower[i], in.Upper[i] = lo, lo
			continue
		}

		up := lo + float64(rng.Intn(4))
		switch rng.Intn(4) {
		case 0:
			lo = -Plinfy
		case 1:
			up = Plinfy
		}
		in.Lower[i], in.Upper[i] = lo, up
	} // End for all rows

	return in
}

// randomCtrl enables each reduction with probability 3/4.
func randomCtrl(rng *rand.Rand) PsCtrl {
	on := func() bool { return rng.Intn(4) != 0 }
	return PsCtrl{
		DelFreeRows:     on(),
		DelEmptyRows:    on(),
		DelParallelRows: on(),
		DelRowSingleton: on(),
		DelEmptyCols:    on(),
		DelFixedCols:    on(),
		DelFreeColSubst: on(),
	}
}

// hasIntegerPoint searches [-4, 4]^n for an integral point satisfying every
// row of in exactly.
func hasIntegerPoint(in ProblemInput) bool {
	n := 0
	if len(in.Matrix) > 0 {
		n = len(in.Matrix[0])
	}

	x := make([]int64, n)
	for i := range x {
		x[i] = -4
	}

	for {
		ok := true
		for i, row := range in.Matrix {
			var lhs int64
			for j, a := range row {
				lhs += a * x[j]
			}
			if float64(lhs) < in.Lower[i] || float64(lhs) > in.Upper[i] {
				ok = false
				break
			}
		}
		if ok {
			return true
		}

		k := 0
		for k < n && x[k] == 4 {
			x[k] = -4
			k++
		}
		if k == n {
			return false
		}
		x[k]++
	}
}

func TestPresolveProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("reduced problems come back with a satisfying solution", prop.ForAll(
		func(seed int64, intMode bool) bool {
			in := randomProblem(rand.New(rand.NewSource(seed)), intMode)
			res, err := SolveProb(in, DefaultPsCtrl())
			if err != nil {
				return false
			}
			if res.Status != StatusReducedToEmpty {
				return true
			}
			return !res.UnsatisfiedConstraints && len(res.Solution) == len(in.Matrix[0]) &&
				(!intMode || res.AllInteger)
		},
		gen.Int64(), gen.Bool(),
	))

	properties.Property("infeasibility is never claimed for a solvable problem", prop.ForAll(
		func(seed int64, intMode bool) bool {
			rng := rand.New(rand.NewSource(seed))
			in := randomProblem(rng, intMode)
			res, err := SolveProb(in, randomCtrl(rng))
			if err != nil {
				return false
			}
			return res.Status != StatusInfeasible || !hasIntegerPoint(in)
		},
		gen.Int64(), gen.Bool(),
	))

	properties.Property("a further pass removes nothing", prop.ForAll(
		func(seed int64, intMode bool) bool {
			in := randomProblem(rand.New(rand.NewSource(seed)), intMode)
			ps, err := NewPresolver(in)
			if err != nil || ps.ReduceMatrix(DefaultPsCtrl()) != nil {
				return false
			}
			if ps.infeasible {
				return true
			}

			rows, cols := ps.act.rowCount(), ps.act.colCount()
			ps.act.refresh(ps.matrix)
			ps.applyRowRules()
			ps.applyColRules()
			return rows == ps.act.rowCount() && cols == ps.act.colCount()
		},
		gen.Int64(), gen.Bool(),
	))

	properties.Property("encoded records decode unchanged", prop.ForAll(
		func(seed int64) bool {
			in := randomProblem(rand.New(rand.NewSource(seed)), true)
			ps, err := NewPresolver(in)
			if err != nil || ps.ReduceMatrix(DefaultPsCtrl()) != nil {
				return false
			}

			var buf bytes.Buffer
			if ps.EncodePsops(&buf) != nil {
				return false
			}
			ops, rows, cols, err := DecodePsops(&buf)
			if err != nil {
				return false
			}
			return rows == ps.NumRows() && cols == ps.NumCols() &&
				cmp.Equal(ps.Psops(), ops, cmpopts.EquateEmpty())
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}
