package lpps

// batch: presolving many problems at once.
//
// RunBatch reads problems from a channel and solves each one on a worker
// pool, a fresh presolver per problem. The outcome of every problem is added
// to a BatchStats; individual solutions are not kept.

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/go-opt/lpps/internal/parallel"
	"github.com/pkg/errors"
)

// BatchCtrl specifies how RunBatch solves each problem.
type BatchCtrl struct {
	Psc         PsCtrl         // Presolve settings; FileOutPsop is ignored
	IntegerMode bool           // Solve every problem in integer mode
	Workers     int            // Number of workers, 0 for one per CPU
	Solver      ResidualSolver // Solver for residual problems, or nil to leave them
}

// BatchStats holds the counters of a batch run. A problem is counted once,
// under the first of Empty, Unsatisfied, Infeasible, ReducedToEmpty,
// Completed, Residual and Errors which applies to it.
type BatchStats struct {
	Problems           int               // Problems read
	Empty              int               // Problems without rows
	ReducedToEmpty     int               // Decided feasible by presolve alone
	IntegerFeasible    int               // Of those, with an all integral solution
	Infeasible         int               // Found infeasible
	InfeasibleParallel int               // Of those, by parallel rows
	Unsatisfied        int               // Solutions failing an original row
	Residual           int               // Left undecided
	Completed          int               // Decided feasible after solving the residual
	Errors             int               // Problems which could not be processed
	RuleCount          [numRuleKinds]int // Records appended, per rule, over all problems
	Elapsed            time.Duration     // Time taken by the run
}

// add counts the outcome of one problem.
func (bs *BatchStats) add(res *PsResult, err error) {

	bs.Problems++
	if err != nil {
		bs.Errors++
		return
	}

	for k, n := range res.Stats.RuleCount {
		bs.RuleCount[k] += n
	}

	switch {
	case res.UnsatisfiedConstraints:
		bs.Unsatisfied++

	case res.Status == StatusInfeasible:
		bs.Infeasible++
		if res.Reason == ReasonParallelRows {
			bs.InfeasibleParallel++
		}

	case res.Status == StatusReducedToEmpty:
		bs.ReducedToEmpty++
		if res.AllInteger {
			bs.IntegerFeasible++
		}

	case res.Status == StatusCompleted:
		bs.Completed++

	default:
		bs.Residual++
	}
}

//==============================================================================

// RunBatch solves every problem received from problems until the channel is
// closed or ctx is done, and returns the counters of the run.
// In case of failure, function returns an error with the counters gathered
// so far.
func RunBatch(ctx context.Context, problems <-chan RawProblem, bc BatchCtrl) (BatchStats, error) {
	var stats BatchStats // counters of the run
	var mu sync.Mutex    // protects stats
	var err error

	start := time.Now()
	psc := bc.Psc
	psc.FileOutPsop = ""

	pool := parallel.NewWorkerPool(bc.Workers)
	log(pINFO, "Batch started with %d workers.\n", pool.Size())

	for raw := range problems {
		raw := raw

		if len(raw.Ineq)+len(raw.Eq) == 0 {
			mu.Lock()
			stats.Problems++
			stats.Empty++
			mu.Unlock()
			continue
		}

		task := func() {
			res, err := solveRaw(ctx, raw, bc, psc)
			if err != nil {
				log(pWARN, "Batch problem failed: %v\n", err)
			}
			mu.Lock()
			stats.add(res, err)
			mu.Unlock()
		}

		if err = pool.Submit(ctx, task); err != nil {
			err = errors.Wrap(err, "RunBatch stopped")
			break
		}
	} // End for all problems

	pool.Shutdown()
	stats.Elapsed = time.Since(start)

	log(pINFO, "Batch of %d problems done in %v.\n", stats.Problems, stats.Elapsed)
	return stats, err
}

// solveRaw reformats and solves one problem of a batch.
func solveRaw(ctx context.Context, raw RawProblem, bc BatchCtrl, psc PsCtrl) (*PsResult, error) {

	in, err := Reformat(raw, bc.IntegerMode)
	if err != nil {
		return nil, err
	}

	if bc.Solver == nil {
		return SolveProb(in, psc)
	}

	res, _, err := SolveCombined(ctx, in, psc, bc.Solver)
	return res, err
}

//==============================================================================

// PrintBatchStats writes the counters of a batch run to w.
func PrintBatchStats(w io.Writer, bs BatchStats) error {

	bw := &errWriter{w: w}
	bw.printf("%d problems read in %v.\n", bs.Problems, bs.Elapsed.Round(time.Millisecond))
	bw.printf("%d non-empty problems were reduced to empty with a feasible solution.\n", bs.ReducedToEmpty)
	bw.printf("%d problems had an integer feasible solution.\n", bs.IntegerFeasible)
	bw.printf("%d problems were empty.\n", bs.Empty)
	bw.printf("%d problems were infeasible.\n", bs.Infeasible)
	bw.printf("%d problems were infeasible due to parallel rows.\n", bs.InfeasibleParallel)
	bw.printf("%d problems led to unsatisfied constraints.\n", bs.Unsatisfied)
	bw.printf("%d problems were completed by the residual solver.\n", bs.Completed)
	bw.printf("%d problems were left with a residual.\n", bs.Residual)
	if bs.Errors > 0 {
		bw.printf("%d problems could not be processed.\n", bs.Errors)
	}

	bw.printf("Records per rule:\n")
	for k := RuleKind(1); k < numRuleKinds; k++ {
		bw.printf("  %s %-26s %d\n", k.Code(), fmt.Sprintf("(%s)", k), bs.RuleCount[k])
	}
	return bw.err
}
