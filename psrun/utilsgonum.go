//==============================================================================
// This file contains functions which depend on the gonum residual solver.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/go-opt/lpps"
	"github.com/pkg/errors"
)

// wpSolveCombined illustrates how a problem is presolved and, if rows or
// columns remain, completed by the gonum simplex solver. The function
// accepts no arguments. In case of failure, function returns an error.
func wpSolveCombined() error {
	var userString string             // holder for general input from user
	var status     lpps.SolveStatus   // answer of the residual solver
	var solver     lpps.ResidualSolver // solver for the residual problem
	var err        error              // error received from called functions

	fmt.Printf("\nThis example illustrates how to presolve a problem and pass what\n")
	fmt.Printf("remains of it to the gonum simplex solver.\n\n")

	if err = wpReadProblem(inputProbs, probIndex); err != nil {
		return errors.Wrap(err, "wpSolveCombined failed reading problem")
	}

	solver = lpps.GonumSolver{}

	startTime := time.Now()
	psResult, status, err = lpps.SolveCombined(context.Background(), probInput, lpps.DefaultPsCtrl(), solver)
	endTime := time.Now()

	if err != nil {
		return errors.Wrap(err, "wpSolveCombined failed")
	}

	fmt.Printf("\nStatus: %s\n", psResult.Status)
	if status != 0 {
		fmt.Printf("Residual solver returned: %s\n", status)
	} else {
		fmt.Printf("Residual solver was not needed.\n")
	}

	fmt.Printf("\nStarted at:  %s\n", startTime.Format("2006-01-02 15:04:05"))
	fmt.Printf("Finished at: %s\n\n", endTime.Format("2006-01-02 15:04:05"))

	fmt.Printf("Do you want to see the detailed solution [Y|N]: ")
	fmt.Scanln(&userString)
	if userString == "y" || userString == "Y" {
		wpPrintSoln()
	}

	return nil
}
