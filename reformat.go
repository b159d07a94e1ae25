package lpps

import (
	"github.com/pkg/errors"
)

// Reformat turns a problem read from a file into the input of the
// presolver. The constant term of each row moves to the bounds: a row
// c0 + a.x >= 0 becomes -c0 <= a.x with no upper bound, and a row
// c0 + a.x == 0 becomes -c0 <= a.x <= -c0.
// In case of failure, function returns an error wrapping ErrBadInput.
func Reformat(raw RawProblem, integerMode bool) (ProblemInput, error) {

	in := ProblemInput{
		Matrix:      make([][]int64, 0, len(raw.Ineq)+len(raw.Eq)),
		Lower:       make([]float64, 0, len(raw.Ineq)+len(raw.Eq)),
		Upper:       make([]float64, 0, len(raw.Ineq)+len(raw.Eq)),
		NumIneq:     len(raw.Ineq),
		NumEq:       len(raw.Eq),
		IntegerMode: integerMode,
	}

	add := func(row []int64, equality bool) error {
		if len(row) != raw.NumVars+1 {
			return errors.Wrapf(ErrBadInput, "row of %d values for %d variables", len(row), raw.NumVars)
		}

		lo := -float64(row[0])
		up := Plinfy
		if equality {
			up = lo
		}

		in.Matrix = append(in.Matrix, append([]int64(nil), row[1:]...))
		in.Lower = append(in.Lower, lo)
		in.Upper = append(in.Upper, up)
		return nil
	}

	for i, row := range raw.Ineq {
		if err := add(row, false); err != nil {
			return ProblemInput{}, errors.Wrapf(err, "Reformat failed on inequality %d", i)
		}
	}
	for i, row := range raw.Eq {
		if err := add(row, true); err != nil {
			return ProblemInput{}, errors.Wrapf(err, "Reformat failed on equality %d", i)
		}
	}

	return in, nil
}
