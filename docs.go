/*
Package lpps ("linear programming presolve") reduces linear and integer
feasibility problems before a general solver is invoked, and rebuilds the
values of the variables it removed. Many problems are decided by the
reduction alone: either it proves that no solution exists, or it removes
every row and column and a full solution is reconstructed without running a
simplex method. Problems it cannot decide are left as a smaller residual
problem for an external solver.

A problem is a matrix of integer coefficients with a lower and an upper bound
on each row:

	lower[i] <= a[i][0]*x[0] + ... + a[i][n-1]*x[n-1] <= upper[i]

The first NumIneq rows are inequalities and the rest are equalities. A bound
of Plinfy or -Plinfy is infinite. In integer mode every variable must take a
whole number.

Presolving

The presolver removes rows and columns from the problem by repeatedly
applying the following reductions until a pass removes nothing:

	- free rows                  (no finite bound)
	- empty rows                 (no variables left)
	- parallel rows              (coefficients proportional to an earlier row)
	- row singletons             (a single variable left in the row)
	- empty columns              (variable in no row)
	- fixed columns              (implied lower bound equals the implied upper bound)
	- free column substitution   (unbounded variable in a single two-variable row)

Each reduction can be turned off through the control structure:

	type PsCtrl struct {
		MaxIter          int     // Maximum passes, 0 for no limit
		DelFreeRows      bool    // Controls if rows without finite bounds are removed
		DelEmptyRows     bool    // Controls if rows without active columns are removed
		DelParallelRows  bool    // Controls if parallel rows are merged
		DelRowSingleton  bool    // Controls if row singletons are used
		DelEmptyCols     bool    // Controls if empty columns are removed
		DelFixedCols     bool    // Controls if fixed columns are removed
		DelFreeColSubst  bool    // Controls if free columns of two-column rows are substituted
		PrintUnsatisfied bool    // Log each row found unsatisfied by postsolve
		FileOutPsop      string  // Output file of pre-solve operations, or "" for none
	}

Every reduction is recorded in a list of operations. Postsolve undoes the list
from the last operation to the first, giving each removed variable a value.
The list can be written to a text file with WritePsopFile, or encoded in CBOR
with EncodePsops.

Solving Problems

SolveProb runs the whole sequence and returns a PsResult:

	res, err := lpps.SolveProb(in, lpps.DefaultPsCtrl())
	if err != nil {
		fmt.Printf("lpps returned the following error: %s\n", err)
		return
	}

	switch res.Status {
	case lpps.StatusInfeasible:
		fmt.Printf("Infeasible: %s\n", res.Reason)
	case lpps.StatusReducedToEmpty:
		fmt.Printf("Solution: %v\n", res.Solution)
	case lpps.StatusResidual:
		fmt.Printf("%d rows left\n", res.Residual.NumRows())
	}

Infeasibility is a result, not an error. Errors are returned for malformed
input only.

Residual Problems

A residual problem can be handed to any ResidualSolver. GonumSolver solves it
with the simplex method of gonum; SolveCombined presolves, calls the solver
and completes the solution in one call. Callers using their own solver pass
its values to the CompleteResidual method of the presolver.

Problem Files

Problems are read from files with ProblemReader and turned into presolver
input with Reformat. RunBatch solves the problems of a file concurrently and
counts the outcomes.

Function Exerciser

The executable provided with the package (psrun) contains a menu to exercise
the functions of lpps on single problems, and a batch mode for whole files.
*/
package lpps
