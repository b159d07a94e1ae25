package lpps

// psop: the list of presolve operations.
//
// Every rule that changes the problem appends a PsOp to the presolver's
// list. Postsolve walks the list from the end, so the order in which records
// are appended is what makes reconstruction possible: a record only depends
// on columns that were still active when it was appended, and those are
// resolved by records appended later.
//
// The list can be written as text (WritePsopFile) for inspection, or as CBOR
// (EncodePsops) for storing alongside a residual problem.

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/blang/semver/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
)

// RuleKind identifies the reduction that produced a PsOp.
type RuleKind uint8

// Reductions performed by the presolver.
const (
	RuleFreeRow                RuleKind = iota + 1 // row without finite bounds removed
	RuleEmptyRow                                   // row without active columns removed
	RuleParallelRow                                // row proportional to an earlier one removed
	RuleRowColSingleton                            // row and its only column removed together
	RuleRowSingletonEquality                       // equality with one column fixes the column
	RuleRowSingletonInequality                     // inequality with one column bounds the column
	RuleEmptyColumn                                // column without active rows removed
	RuleFixedColumn                                // column with equal implied bounds removed
	RuleFreeColumnSubstitution                     // free column of a two-column row removed with the row
	numRuleKinds                                   // not a rule; size of per-rule tables
)

// Codes printed in the PSOP file for each rule.
var ruleCodes = [numRuleKinds]string{
	RuleFreeRow:                "FRR",
	RuleEmptyRow:               "MTR",
	RuleParallelRow:            "PLR",
	RuleRowColSingleton:        "RCS",
	RuleRowSingletonEquality:   "RSE",
	RuleRowSingletonInequality: "RSI",
	RuleEmptyColumn:            "MTC",
	RuleFixedColumn:            "FXC",
	RuleFreeColumnSubstitution: "FCS",
}

var ruleNames = [numRuleKinds]string{
	RuleFreeRow:                "Free Row",
	RuleEmptyRow:               "Empty Row",
	RuleParallelRow:            "Parallel Row",
	RuleRowColSingleton:        "Row and Column Singleton",
	RuleRowSingletonEquality:   "Row Singleton Equality",
	RuleRowSingletonInequality: "Row Singleton Inequality",
	RuleEmptyColumn:            "Empty Column",
	RuleFixedColumn:            "Fixed Column",
	RuleFreeColumnSubstitution: "Free Column Substitution",
}

// String returns the descriptive name of the rule.
func (k RuleKind) String() string {
	if k == 0 || k >= numRuleKinds {
		return fmt.Sprintf("RuleKind(%d)", uint8(k))
	}
	return ruleNames[k]
}

// Code returns the three letter code of the rule used in PSOP files.
func (k RuleKind) Code() string {
	if k == 0 || k >= numRuleKinds {
		return "???"
	}
	return ruleCodes[k]
}

// PsOp records one reduction. Which fields are set depends on Kind:
//
//	RuleFreeRow, RuleEmptyRow             Row
//	RuleParallelRow                       Row (large row), Deps [small row], Restore
//	RuleRowColSingleton                   Row, Col
//	RuleRowSingletonEquality              Row, Col
//	RuleRowSingletonInequality            Row, Col
//	RuleEmptyColumn                       Col
//	RuleFixedColumn                       Col, Deps (rows the value was folded into)
//	RuleFreeColumnSubstitution            Row, Col, Deps [other column of the row]
//
// Unset indices are NoRow and NoCol.
type PsOp struct {
	Kind    RuleKind   `cbor:"1,keyasint"`           // Reduction performed
	Row     RowIdx     `cbor:"2,keyasint"`           // Row removed or used, or NoRow
	Col     ColIdx     `cbor:"3,keyasint"`           // Column removed or bounded, or NoCol
	Deps    []int      `cbor:"4,keyasint,omitempty"` // Rows or columns this record depends on
	Restore *BoundPair `cbor:"5,keyasint,omitempty"` // Small row bounds before a parallel row merge
}

// PsopFormatVersion is the version written in the header of CBOR encoded
// operation lists. Lists with a different major version are rejected.
const PsopFormatVersion = "1.0.0"

// ErrPsopVersion is returned when an encoded list has an unsupported version.
var ErrPsopVersion = errors.New("unsupported PSOP format version")

// psopFile is the CBOR layout of an encoded operation list.
type psopFile struct {
	Version string `cbor:"version"` // PsopFormatVersion at encoding time
	NumRows int    `cbor:"rows"`    // rows of the problem
	NumCols int    `cbor:"cols"`    // columns of the problem
	Ops     []PsOp `cbor:"ops"`     // records in order of application
}

// Delimiter for sections in PSOP file
const fileDelim = "#------------------------------------------------------------------------------\n"

//==============================================================================

// updatePsList appends a record of the operation kind to the presolver's
// list of operations and counts it. The row and/or column that took part in
// the operation are given by row and col, NoRow or NoCol if absent.
func (ps *Presolver) updatePsList(kind RuleKind, row RowIdx, col ColIdx, deps []int, restore *BoundPair) {

	ps.psOpList = append(ps.psOpList, PsOp{
		Kind:    kind,
		Row:     row,
		Col:     col,
		Deps:    deps,
		Restore: restore,
	})
	ps.stats.RuleCount[kind]++

	log(pDEB, "  %s: row %d col %d deps %v\n", kind.Code(), row, col, deps)
}

//==============================================================================

// Psops returns a copy of the list of operations in order of application.
func (ps *Presolver) Psops() []PsOp {
	ops := make([]PsOp, len(ps.psOpList))
	copy(ops, ps.psOpList)
	return ops
}

//==============================================================================

// WritePsopFile writes the operations performed by presolve to the text file
// fileName, overwriting it if it exists. The depsPerLine argument controls
// how the dependencies of each record are printed:
//
//	< 0 - all dependencies are written on a single line
//	  0 - dependencies are not printed
//	  n - a line break is inserted after every n dependencies
//
// In case of failure, the function returns an error.
func (ps *Presolver) WritePsopFile(fileName string, depsPerLine int) error {

	f, err := os.Create(fileName)
	if err != nil {
		return errors.Wrapf(err, "Failed to create new file %s", fileName)
	}
	defer f.Close()

	if err = ps.writePsops(f, depsPerLine); err != nil {
		return errors.Wrapf(err, "Failed to write %s", fileName)
	}

	log(pINFO, "Successfully wrote %d operations to %s.\n", len(ps.psOpList), fileName)
	return nil
}

// writePsops writes the text form of the operation list to w.
func (ps *Presolver) writePsops(w io.Writer, depsPerLine int) error {
	var printDeps bool // controls if dependencies are printed
	var depsCr    bool // controls if line breaks separate dependencies
	var index     int  // dependencies printed for the current record

	printDeps = true
	depsCr = true
	if depsPerLine < 0 {
		depsCr = false
		depsPerLine *= -1
	} else if depsPerLine == 0 {
		printDeps = false
	}

	bw := &errWriter{w: w}

	bw.printf("%s", fileDelim)
	bw.printf("# LPPS record of pre-solve operations\n")
	bw.printf("# Problem size: %d rows, %d cols\n", ps.NumRows(), ps.NumCols())
	bw.printf("# Created on:   %s\n", time.Now().Format("2006-01-02 15:04:05"))
	bw.printf("#\n# Row format:   ROW:  Index  LowerBound  UpperBound\n")
	bw.printf("# Col format:   COL:  Index  ImpliedLower  ImpliedUpper\n")
	if printDeps {
		bw.printf("# Followed by:  DEP: indices (up to %d per line)\n#\n", depsPerLine)
	} else {
		bw.printf("# Dependencies are not printed.\n#\n")
	}

	for i, op := range ps.psOpList {

		bw.printf("%s", fileDelim)
		bw.printf("# %s\n", op.Kind)
		bw.printf("PSOP: %s %5d\n", op.Kind.Code(), i)

		if op.Row != NoRow {
			bw.printf("ROW:  %5d %15e %15e\n", op.Row, ps.origLo[op.Row], ps.origUp[op.Row])
		}

		if op.Col != NoCol {
			bw.printf("COL:  %5d %15e %15e\n", op.Col, ps.impLo[op.Col], ps.impUp[op.Col])
		}

		if !printDeps || len(op.Deps) == 0 {
			continue
		}

		bw.printf("DEP: ")
		for index = 0; index < len(op.Deps); index++ {
			bw.printf(" %5d", op.Deps[index])
			if depsCr && (index+1)%depsPerLine == 0 && index+1 < len(op.Deps) {
				bw.printf("\nDEP: ")
			}
		}
		bw.printf("\n")
	} // End for all operations

	return bw.err
}

// errWriter keeps the first write error so a sequence of prints can be
// checked once.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

//==============================================================================

// EncodePsops writes the operation list to w in CBOR, preceded by the format
// version and the problem size. In case of failure, function returns an error.
func (ps *Presolver) EncodePsops(w io.Writer) error {

	pf := psopFile{
		Version: PsopFormatVersion,
		NumRows: ps.NumRows(),
		NumCols: ps.NumCols(),
		Ops:     ps.psOpList,
	}

	if err := cbor.NewEncoder(w).Encode(pf); err != nil {
		return errors.Wrap(err, "EncodePsops failed")
	}
	return nil
}

// DecodePsops reads an operation list written by EncodePsops and returns its
// records with the problem size they apply to. Lists whose major format
// version differs from PsopFormatVersion are rejected with ErrPsopVersion.
// In case of failure, function returns an error.
func DecodePsops(r io.Reader) (ops []PsOp, numRows int, numCols int, err error) {
	var pf psopFile // decoded file contents

	if err = cbor.NewDecoder(r).Decode(&pf); err != nil {
		return nil, 0, 0, errors.Wrap(err, "DecodePsops failed")
	}

	got, err := semver.Parse(pf.Version)
	if err != nil {
		return nil, 0, 0, errors.Wrapf(ErrPsopVersion, "bad version %q", pf.Version)
	}

	want := semver.MustParse(PsopFormatVersion)
	if got.Major != want.Major {
		return nil, 0, 0, errors.Wrapf(ErrPsopVersion, "version %s, expected %d.x.x", got, want.Major)
	}

	for i, op := range pf.Ops {
		if op.Kind == 0 || op.Kind >= numRuleKinds {
			return nil, 0, 0, errors.Errorf("DecodePsops found unknown rule %d in record %d", op.Kind, i)
		}
	}

	return pf.Ops, pf.NumRows, pf.NumCols, nil
}
