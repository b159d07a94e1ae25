//==============================================================================
// psrun: Executable for running lpps functions.
//
// This file contains the menu and the wrapper functions demonstrating how the
// main lpps functions are used. Wrappers exercising individual functions are
// in utilsps.go, and those using the gonum residual solver in utilsgonum.go.

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/go-opt/lpps"
	"github.com/pkg/errors"
)

// Default input and output files. If the files are in a different directory
// than the one where the executable is launched, full absolute path must be used.
var inputProbs string = "feasibility_testcases.txt" // problem file
var outPsop    string = "psop_file.txt"             // PSOP output file
var outPsopBin string = "psop_file.cbor"            // PSOP binary output file

// Other useful package global variables. The problem, presolver and result are
// global to avoid having to pass them in function calls in this sample program.
var pauseAfter  int = 50          // number of items to print before pausing
var probIndex   int = 1           // problem of the file used by the menu options
var integerMode bool = true       // problems are solved in integer mode
var probInput   lpps.ProblemInput // problem read from file
var presolver   *lpps.Presolver   // presolver of the last problem reduced
var psResult    *lpps.PsResult    // result of the last problem solved

//==============================================================================

// printOptions displays the options that are available for testing.
// The function accepts no arguments and returns no values.
func printOptions() {

	fmt.Println("\nAvailable Options:")
	fmt.Println()
	fmt.Println(" 0 - EXIT program")
	fmt.Println(" 1 - read, print, and reduce problem without solving")
	fmt.Println(" 2 - solve problem with presolve only")
	fmt.Println(" 3 - solve problem with presolve and gonum simplex")
	fmt.Println(" 4 - solve all problems of the file")
	fmt.Println(" 5 - display lpps solution")
	fmt.Println(" 6 - select problem of the file")
	fmt.Println(" 7 - toggle integer mode")
	fmt.Println(" f - function exerciser")
}

//==============================================================================

// wpPauseOutput is used to pause output at specific points so it does not scroll
// off the screen before the user has a chance to see it.
// The function accepts no arguments. The function returns an error which is
// interpreted by the calling function as a desire to abort the operation in progress.
func wpPauseOutput() error {
	var userString string

	fmt.Printf("Enter 'q' to abort, any other key to continue: ")
	fmt.Scanln(&userString)
	if userString == "q" || userString == "Q" {
		return errors.New("Aborted by user")
	}

	return nil
}

//==============================================================================

// wpShowProb illustrates how a problem is read from file, displayed, and
// reduced, but not solved. The function accepts no arguments.
// In case of failure, function returns an error.
func wpShowProb() error {
	var err error // error received from called functions

	fmt.Printf("\nThis example illustrates how to read a problem from file, display\n")
	fmt.Printf("it, reduce it, and save the pre-solve operations without solving.\n\n")

	if err = wpReadProblem(inputProbs, probIndex); err != nil {
		return errors.Wrap(err, "wpShowProb failed reading problem")
	}

	if presolver, err = lpps.NewPresolver(probInput); err != nil {
		return errors.Wrap(err, "wpShowProb failed")
	}

	if err = presolver.PrintLP(os.Stdout); err != nil {
		return errors.Wrap(err, "wpShowProb failed to print problem")
	}

	fmt.Printf("\nPaused after PrintLP...\n")
	if err = wpPauseOutput(); err != nil {
		return errors.Wrap(err, "wpShowProb aborted")
	}

	if err = presolver.ReduceMatrix(lpps.DefaultPsCtrl()); err != nil {
		return errors.Wrap(err, "wpShowProb failed to reduce matrix")
	}

	if err = presolver.PrintLP(os.Stdout); err != nil {
		return errors.Wrap(err, "wpShowProb failed to print problem")
	}

	if err = presolver.PrintImpliedBounds(os.Stdout); err != nil {
		return errors.Wrap(err, "wpShowProb failed to print implied bounds")
	}

	if err = presolver.WritePsopFile(outPsop, 10); err != nil {
		return errors.Wrap(err, "wpShowProb failed to write PSOP file")
	}

	fmt.Printf("PSOP file saved: '%s'\n", outPsop)
	return nil
}

//==============================================================================

// wpSolveProb illustrates how a problem is read from file and solved by
// presolve alone. The function accepts no arguments.
// In case of failure, function returns an error.
func wpSolveProb() error {
	var userString string      // holder for general input from user
	var psCtrl     lpps.PsCtrl // control structure for reductions
	var err        error       // error received from called functions

	if err = wpReadProblem(inputProbs, probIndex); err != nil {
		return errors.Wrap(err, "wpSolveProb failed reading problem")
	}

	psCtrl = lpps.DefaultPsCtrl()
	psCtrl.PrintUnsatisfied = true
	psCtrl.FileOutPsop = outPsop

	if psResult, err = lpps.SolveProb(probInput, psCtrl); err != nil {
		return errors.Wrap(err, "wpSolveProb failed")
	}

	fmt.Printf("\nStatus: %s\n", psResult.Status)
	fmt.Printf("Presolve removed %d rows and %d cols in %d passes.\n",
		psResult.Stats.RowsDel, psResult.Stats.ColsDel, psResult.Stats.Passes)

	fmt.Printf("Do you want to see the detailed solution [Y|N]: ")
	fmt.Scanln(&userString)
	if userString == "y" || userString == "Y" {
		wpPrintSoln()
	}

	return nil
}

//==============================================================================

// wpPrintSoln prints the last result obtained, pausing periodically so
// output does not scroll off the screen. The function accepts no input and
// returns no values.
func wpPrintSoln() {
	var userString string
	var counter    int

	if psResult == nil {
		fmt.Printf("WARNING: No problem has been solved.\n")
		return
	}

	fmt.Printf("\nStatus: %s\n", psResult.Status)
	if psResult.Status == lpps.StatusInfeasible {
		fmt.Printf("Reason: %s\n", psResult.Reason)
		return
	}

	values := psResult.Solution
	if psResult.Status == lpps.StatusResidual {
		fmt.Printf("Residual has %d rows and %d cols, known values are:\n",
			psResult.Residual.NumRows(), psResult.Residual.NumCols())
		values = psResult.Residual.Partial
	}

	fmt.Printf("%6s %15s\n", "INDEX", "VALUE")
	for j, v := range values {
		fmt.Printf("%6d %15g\n", j, v)
		counter++
		if counter == pauseAfter {
			counter = 0
			userString = ""
			fmt.Printf("\nPAUSED... <CR> continue, any key to quit: ")
			fmt.Scanln(&userString)
			if userString != "" {
				break
			}
		} // end if pause required
	} // end for all values

	if psResult.UnsatisfiedConstraints {
		fmt.Printf("Unsatisfied rows: %v\n", psResult.Unsatisfied)
	}
}

//==============================================================================

// runMainWrapper displays the menu of options available, prompts the user to enter
// one of the options, and executes the command specified.
// The function accepts no arguments and returns no values.
func runMainWrapper() {
	var cmdOption string // command option
	var err       error  // error returned by called functions

	fmt.Println("\nDEMONSTRATION OF LPPS FUNCTIONALITY.")

	for {

		printOptions()
		cmdOption = ""
		fmt.Printf("\nEnter a new option: ")
		fmt.Scanln(&cmdOption)

		switch cmdOption {

		case "0":
			fmt.Println("\n===> NORMAL PROGRAM TERMINATION <===")
			return

		case "1":
			if err = wpShowProb(); err != nil {
				fmt.Println(err)
			}

		case "2":
			if err = wpSolveProb(); err != nil {
				fmt.Println(err)
			}

		case "3":
			if err = wpSolveCombined(); err != nil {
				fmt.Println(err)
			}

		case "4":
			if err = wpRunBatch(inputProbs, integerMode, 0, false); err != nil {
				fmt.Println(err)
			}

		case "5":
			wpPrintSoln()

		case "6":
			fmt.Printf("Enter problem number (from 1): ")
			fmt.Scanln(&probIndex)
			if probIndex < 1 {
				probIndex = 1
			}

		case "7":
			integerMode = !integerMode
			fmt.Printf("Integer mode is %t.\n", integerMode)

		case "f", "F":
			if err = runFunctionWrapper(); err != nil {
				fmt.Println(err)
			}

		default:
			fmt.Printf("Unsupported option: '%s'\n", cmdOption)

		} // end of switch on cmdOption
	} // end for looping over commands
}

//==============================================================================

// main function parses the command line. With -batch it solves every problem
// of the file given and exits; otherwise it runs the menu.
func main() {
	var batchFile string // problem file solved in batch mode
	var workers   int    // workers in batch mode
	var useSolver bool   // solve residual problems in batch mode
	var logLevel  int    // lpps log level

	flag.StringVar(&batchFile, "batch", "", "solve every problem of `file` and print the counters")
	flag.StringVar(&inputProbs, "input", inputProbs, "problem `file` used by the menu")
	flag.BoolVar(&integerMode, "int", integerMode, "solve problems in integer mode")
	flag.IntVar(&workers, "workers", 0, "batch workers, 0 for one per CPU")
	flag.BoolVar(&useSolver, "solve", false, "solve residual problems with gonum simplex in batch mode")
	flag.IntVar(&logLevel, "loglevel", 1, "lpps log level, 0 (errors) to 4 (trace)")
	flag.Parse()

	if err := lpps.SetLogLevel(logLevel); err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	if batchFile != "" {
		if err := wpRunBatch(batchFile, integerMode, workers, useSolver); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		return
	}

	runMainWrapper()
}

//============================ END OF FILE =====================================
