package workflow

import (
	"context"

	"github.com/testpilot-ai/testpilot/pkg/report"
	"github.com/testpilot-ai/testpilot/pkg/schema"
)

// Simulator is the single gateway operation the run loop depends on.
type Simulator interface {
	SimulateTestExecution(ctx context.Context, targetURL string, tc schema.TestCase) (schema.SimulatedTestResult, error)
}

// Saver is the slice of the store contract the run loop needs.
type Saver interface {
	Save(r schema.Report) ([]schema.Report, error)
}

// ProgressFunc observes the run list after every status change. The slice is
// a fresh copy; observers may retain it.
type ProgressFunc func(index int, runs []schema.TestRun)

// RunBatch executes a finalized batch strictly sequentially: for each index
// in order, the run is marked running, simulated, and marked completed —
// with the result on success or the error details on failure — before the
// next index begins. Call i+1 is never issued before call i's outcome is
// recorded; that ordering is a hard contract, not an optimization.
//
// Cancellation is cooperative between iterations: on a cancelled context the
// runs completed so far are returned, all of them valid records, alongside
// the context error. No run is ever left in the running state.
func RunBatch(ctx context.Context, sim Simulator, targetURL string, cases []schema.TestCase, progress ProgressFunc) ([]schema.TestRun, error) {
	runs := MaterializeRuns(cases)
	notify := func(i int) {
		if progress != nil {
			progress(i, append([]schema.TestRun(nil), runs...))
		}
	}

	for i := range runs {
		if err := ctx.Err(); err != nil {
			return runs, err
		}

		runs[i].RunStatus = schema.RunRunning
		notify(i)

		result, err := sim.SimulateTestExecution(ctx, targetURL, runs[i].TestCase)
		if err != nil {
			runs[i].ErrorDetails = err.Error()
		} else {
			r := result
			runs[i].SimulatedResult = &r
		}
		runs[i].RunStatus = schema.RunCompleted
		notify(i)
	}
	return runs, nil
}

// RunToReport runs the batch, folds the completed runs into a UI report, and
// persists it. On cancellation nothing is persisted and the context error is
// returned.
func RunToReport(ctx context.Context, sim Simulator, saver Saver, targetURL, targetDescription string, cases []schema.TestCase, progress ProgressFunc) (schema.Report, error) {
	runs, err := RunBatch(ctx, sim, targetURL, cases, progress)
	if err != nil {
		return schema.Report{}, err
	}

	rep := report.NewUIReport(targetURL, targetDescription, runs)
	if _, err := saver.Save(rep); err != nil {
		return schema.Report{}, err
	}
	return rep, nil
}
