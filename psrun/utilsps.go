// Wrapper functions exported by the lpps package.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-opt/lpps"
	"github.com/pkg/errors"
)

//==============================================================================

// wpReadProblem reads problem number index (from 1) of fileName and stores it
// in probInput, reformatted for the presolver.
// In case of failure, function returns an error.
func wpReadProblem(fileName string, index int) error {

	f, err := os.Open(fileName)
	if err != nil {
		return errors.Wrapf(err, "Failed to open %s", fileName)
	}
	defer f.Close()

	pr := lpps.NewProblemReader(f)
	if err = pr.Skip(index - 1); err != nil {
		return errors.Wrapf(err, "File %s has fewer than %d problems", fileName, index)
	}

	raw, err := pr.Next()
	if err != nil {
		return errors.Wrapf(err, "Failed to read problem %d", index)
	}

	if probInput, err = lpps.Reformat(*raw, integerMode); err != nil {
		return errors.Wrapf(err, "Failed to reformat problem %d", index)
	}

	fmt.Printf("Problem %d read: %d vars, %d inequalities, %d equalities.\n",
		index, raw.NumVars, len(raw.Ineq), len(raw.Eq))
	return nil
}

//==============================================================================

// wpRunBatch solves every problem of fileName on a worker pool and prints the
// counters of the run. If useSolver is set, residual problems are passed to
// the gonum simplex solver.
// In case of failure, function returns an error.
func wpRunBatch(fileName string, intMode bool, workers int, useSolver bool) error {
	var readErr error // error reading the file

	f, err := os.Open(fileName)
	if err != nil {
		return errors.Wrapf(err, "Failed to open %s", fileName)
	}
	defer f.Close()

	bc := lpps.BatchCtrl{
		Psc:         lpps.DefaultPsCtrl(),
		IntegerMode: intMode,
		Workers:     workers,
	}
	if useSolver {
		bc.Solver = lpps.GonumSolver{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	problems := make(chan lpps.RawProblem)
	go func() {
		defer close(problems)
		pr := lpps.NewProblemReader(f)
		for {
			raw, err := pr.Next()
			if err != nil {
				if err != io.EOF {
					readErr = err
				}
				return
			}
			select {
			case problems <- *raw:
			case <-ctx.Done():
				return
			}
		}
	}()

	stats, err := lpps.RunBatch(ctx, problems, bc)
	if err != nil {
		return errors.Wrap(err, "wpRunBatch failed")
	}
	if readErr != nil {
		return errors.Wrapf(readErr, "wpRunBatch failed reading %s", fileName)
	}

	return lpps.PrintBatchStats(os.Stdout, stats)
}

//==============================================================================

// printFunctions displays the lpps functions that can be exercised.
func printFunctions() {

	fmt.Println("\nFunction exerciser:")
	fmt.Println()
	fmt.Println(" 1 - GetLogLevel       - Get the current log level")
	fmt.Println(" 2 - SetLogLevel       - Set the log level")
	fmt.Println(" 3 - PrintLP           - Print the problem")
	fmt.Println(" 4 - PrintImpliedBounds - Print the implied bounds")
	fmt.Println(" 5 - Psops             - List the pre-solve operations")
	fmt.Println(" 6 - WritePsopFile     - Write the pre-solve operations to a text file")
	fmt.Println(" 7 - EncodePsops       - Write the pre-solve operations in CBOR")
	fmt.Println(" 8 - DecodePsops       - Read pre-solve operations written in CBOR")
	fmt.Println(" 9 - Stats             - Print the counters of the reduction")
}

// runFunctionWrapper prompts for one of the exported functions and runs it
// against the last presolver built.
// In case of failure, function returns an error.
func runFunctionWrapper() error {
	var cmdOption  string // command option
	var userString string // holder for general input from user
	var userInt    int    // holder for integer input from user
	var tmpInt     int    // integer returned by called functions
	var err        error  // error returned by called functions

	printFunctions()
	fmt.Printf("\nEnter function: ")
	fmt.Scanln(&cmdOption)

	// Options reading the presolver need one to exist.
	switch cmdOption {
	case "3", "4", "5", "6", "7", "9":
		if presolver == nil {
			return errors.New("No problem has been reduced, use option 1 first")
		}
	}

	switch cmdOption {

	//--------------------------------------------------------------------------
	case "1":
		if err = lpps.GetLogLevel(&tmpInt); err != nil {
			fmt.Println(err)
		} else {
			fmt.Printf("Log level is set to %d.\n", tmpInt)
		}

	//--------------------------------------------------------------------------
	case "2":
		fmt.Printf("Enter new log level: ")
		fmt.Scanln(&userInt)
		if err = lpps.SetLogLevel(userInt); err != nil {
			fmt.Println(err)
		} else {
			fmt.Printf("Log level changed to %d.\n", userInt)
		}

	//--------------------------------------------------------------------------
	case "3":
		if err = presolver.PrintLP(os.Stdout); err != nil {
			fmt.Println(err)
		}

	//--------------------------------------------------------------------------
	case "4":
		if err = presolver.PrintImpliedBounds(os.Stdout); err != nil {
			fmt.Println(err)
		}

	//--------------------------------------------------------------------------
	case "5":
		for i, op := range presolver.Psops() {
			fmt.Printf("%5d %s row %d col %d deps %v\n", i, op.Kind.Code(), op.Row, op.Col, op.Deps)
		}

	//--------------------------------------------------------------------------
	case "6":
		userString = ""
		fmt.Printf("Enter name of PSOP file: ")
		fmt.Scanln(&userString)
		if userString == "" {
			userString = outPsop
		}
		fmt.Printf("Enter number of deps per line, <0 for all, 0 for none: ")
		fmt.Scanln(&userInt)

		if err = presolver.WritePsopFile(userString, userInt); err != nil {
			fmt.Println(err)
		} else {
			fmt.Printf("PSOP written to file '%s'.\n", userString)
		}

	//--------------------------------------------------------------------------
	case "7":
		f, err := os.Create(outPsopBin)
		if err != nil {
			return errors.Wrapf(err, "Failed to create %s", outPsopBin)
		}
		defer f.Close()

		if err = presolver.EncodePsops(f); err != nil {
			fmt.Println(err)
		} else {
			fmt.Printf("PSOP encoded to file '%s'.\n", outPsopBin)
		}

	//--------------------------------------------------------------------------
	case "8":
		f, err := os.Open(outPsopBin)
		if err != nil {
			return errors.Wrapf(err, "Failed to open %s", outPsopBin)
		}
		defer f.Close()

		ops, rows, cols, err := lpps.DecodePsops(f)
		if err != nil {
			fmt.Println(err)
		} else {
			fmt.Printf("Decoded %d operations for %d rows and %d cols.\n", len(ops), rows, cols)
		}

	//--------------------------------------------------------------------------
	case "9":
		st := presolver.Stats()
		fmt.Printf("Passes %d, rows removed %d, cols removed %d.\n", st.Passes, st.RowsDel, st.ColsDel)
		for k, n := range st.RuleCount {
			if n > 0 {
				fmt.Printf("  %-26s %d\n", lpps.RuleKind(k), n)
			}
		}

	//--------------------------------------------------------------------------
	default:
		return errors.Errorf("Command %s not in functions menu", cmdOption)

	} // End switch on command option

	return nil
}
