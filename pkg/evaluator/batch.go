package evaluator

import (
	"context"
	"runtime"
	"sync"
)

// Result is the outcome of one formula in an EvalMany batch.
type Result struct {
	Index int
	Value int64
	Err   error
}

// EvalMany evaluates every formula and returns the results in input order.
//
// With Concurrency enabled the formulas are spread over a bounded worker
// pool. Once ctx is done no further formulas are started and the remaining
// results carry ctx.Err().
func (e *Evaluator) EvalMany(ctx context.Context, formulas [][]string) []Result {
	results := make([]Result, len(formulas))
	if len(formulas) == 0 {
		return results
	}

	workers := e.opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, len(formulas))

	if !e.opts.Concurrency || workers < 2 {
		for i, f := range formulas {
			if err := ctx.Err(); err != nil {
				fillCanceled(results, i, err)
				break
			}
			v, err := e.Eval(f)
			results[i] = Result{Index: i, Value: v, Err: err}
		}
		return results
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				v, err := e.Eval(formulas[i])
				results[i] = Result{Index: i, Value: v, Err: err}
			}
		}()
	}

feed:
	for i := range formulas {
		if err := ctx.Err(); err != nil {
			fillCanceled(results, i, err)
			break
		}
		select {
		case <-ctx.Done():
			fillCanceled(results, i, ctx.Err())
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if e.opts.Debug {
		e.logger.Debug("rpn batch", "formulas", len(formulas), "workers", workers)
	}
	return results
}

func fillCanceled(results []Result, from int, err error) {
	for j := from; j < len(results); j++ {
		results[j] = Result{Index: j, Err: err}
	}
}
