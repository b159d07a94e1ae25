package lpps

// reader: problem files.
//
// A problem file holds any number of problems separated by lines containing
// a '~'. Each problem is written as
//
//	nvars
//	nineq
//	c0 a1 ... an      (nineq inequality rows, c0 + a.x >= 0)
//	neq
//	c0 a1 ... an      (neq equality rows, c0 + a.x == 0)
//
// with n = nvars. Blank lines are ignored.

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// RawProblem is a problem as written in a problem file. Each row starts with
// its constant term, followed by one coefficient per variable.
type RawProblem struct {
	NumVars int       // Number of variables
	Ineq    [][]int64 // Inequality rows, c0 + a.x >= 0
	Eq      [][]int64 // Equality rows, c0 + a.x == 0
}

// ProblemReader reads the problems of a problem file one at a time.
type ProblemReader struct {
	sc     *bufio.Scanner
	line   int  // lines read so far
	peeked bool // the current line has been read but not consumed
	text   string
	count  int // problems returned or skipped
}

// NewProblemReader returns a reader of the problems in r.
func NewProblemReader(r io.Reader) *ProblemReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return &ProblemReader{sc: sc}
}

// Count returns the number of problems read or skipped so far.
func (pr *ProblemReader) Count() int { return pr.count }

//==============================================================================

// nextLine returns the next line which is neither blank nor, if skipSep is
// set, a separator. It returns io.EOF at the end of the input.
func (pr *ProblemReader) nextLine(skipSep bool) (string, error) {

	for {
		if !pr.peeked {
			if !pr.sc.Scan() {
				if err := pr.sc.Err(); err != nil {
					return "", errors.Wrapf(err, "read failed after line %d", pr.line)
				}
				return "", io.EOF
			}
			pr.line++
			pr.text = strings.TrimSpace(pr.sc.Text())
		}
		pr.peeked = false

		if pr.text == "" || (skipSep && strings.Contains(pr.text, "~")) {
			continue
		}
		return pr.text, nil
	}
}

// readCount reads a line holding a single non-negative count.
func (pr *ProblemReader) readCount(what string) (int, error) {

	text, err := pr.nextLine(false)
	if err == io.EOF {
		return 0, errors.Errorf("unexpected end of input, expected %s", what)
	}
	if err != nil {
		return 0, err
	}

	n, err := strconv.Atoi(text)
	if err != nil || n < 0 {
		return 0, errors.Errorf("line %d: bad %s %q", pr.line, what, text)
	}
	return n, nil
}

// readRows reads n rows of width values.
func (pr *ProblemReader) readRows(n, width int) ([][]int64, error) {

	rows := make([][]int64, 0, n)
	for i := 0; i < n; i++ {
		text, err := pr.nextLine(false)
		if err == io.EOF {
			return nil, errors.Errorf("unexpected end of input, expected %d more rows", n-i)
		}
		if err != nil {
			return nil, err
		}

		fields := strings.Fields(text)
		if len(fields) != width {
			return nil, errors.Errorf("line %d: %d values, expected %d", pr.line, len(fields), width)
		}

		row := make([]int64, width)
		for j, f := range fields {
			if row[j], err = strconv.ParseInt(f, 10, 64); err != nil {
				return nil, errors.Errorf("line %d: bad value %q", pr.line, f)
			}
		}
		rows = append(rows, row)
	} // End for all rows

	return rows, nil
}

//==============================================================================

// Next returns the next problem of the file, or io.EOF when there are none
// left. In case of failure, function returns an error giving the line.
func (pr *ProblemReader) Next() (*RawProblem, error) {
	var raw RawProblem
	var err error

	text, err := pr.nextLine(true)
	if err != nil {
		return nil, err
	}
	pr.peeked = true
	pr.text = text

	if raw.NumVars, err = pr.readCount("number of variables"); err != nil {
		return nil, errors.Wrapf(err, "problem %d", pr.count+1)
	}

	nIneq, err := pr.readCount("number of inequalities")
	if err != nil {
		return nil, errors.Wrapf(err, "problem %d", pr.count+1)
	}
	if raw.Ineq, err = pr.readRows(nIneq, raw.NumVars+1); err != nil {
		return nil, errors.Wrapf(err, "problem %d", pr.count+1)
	}

	nEq, err := pr.readCount("number of equalities")
	if err != nil {
		return nil, errors.Wrapf(err, "problem %d", pr.count+1)
	}
	if raw.Eq, err = pr.readRows(nEq, raw.NumVars+1); err != nil {
		return nil, errors.Wrapf(err, "problem %d", pr.count+1)
	}

	pr.count++
	log(pTRC, "Read problem %d: %d vars, %d ineq, %d eq.\n", pr.count, raw.NumVars, nIneq, nEq)
	return &raw, nil
}

// Skip reads past the next n problems. It returns io.EOF if the file holds
// fewer.
func (pr *ProblemReader) Skip(n int) error {
	for i := 0; i < n; i++ {
		if _, err := pr.Next(); err != nil {
			return err
		}
	}
	return nil
}
