package engine

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"mapcover/internal/combin"
	"mapcover/internal/mapping"
	"mapcover/internal/outcome"
	"mapcover/internal/schema"
)

// Engine exercises one mapping function against one input schema at a time.
//
// The engine owns no long-lived resources. Each Run extracts domains,
// generates combinations, builds its validators, and tears everything down
// before returning; nothing leaks across runs, on success or failure.
//
// INVARIANTS:
//   - Every generated combination produces exactly one outcome
//   - Outcome order equals generation order in both execution modes
//   - Mapping errors and panics never abort a run
//
// Thread-safety: an Engine is immutable after New and safe for concurrent
// Run calls.
type Engine struct {
	fn     mapping.Func
	name   string // mapping name for reports and logs; may be empty
	runIDs RunIDGenerator

	parallel bool
	workers  int // 0 means one per CPU
}

// EngineOption allows configuration of engine parameters.
type EngineOption func(*Engine)

// WithParallel selects the worker-pool execution mode. The default is
// serial execution.
func WithParallel(parallel bool) EngineOption {
	return func(e *Engine) {
		e.parallel = parallel
	}
}

// WithWorkers sets the worker count for parallel runs. Values below one
// fall back to the default of one worker per CPU. Serial runs ignore it.
func WithWorkers(n int) EngineOption {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithMappingName records the mapping's registry name in reports and logs.
func WithMappingName(name string) EngineOption {
	return func(e *Engine) {
		e.name = name
	}
}

// WithRunIDGenerator replaces the UUIDv7 run ID generator. Tests use this
// for deterministic run identifiers.
func WithRunIDGenerator(g RunIDGenerator) EngineOption {
	return func(e *Engine) {
		e.runIDs = g
	}
}

// New creates an Engine around a mapping function. The function must be
// non-nil; Run rejects an engine built without one.
func New(fn mapping.Func, opts ...EngineOption) *Engine {
	e := &Engine{
		fn:     fn,
		runIDs: UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Report is the product of one coverage run.
type Report struct {
	RunID     string
	SchemaSHA string // digest of the schema document the run exercised
	Mapping   string
	Parallel  bool
	Workers   int // workers that ran; 1 for serial runs
	Started   time.Time
	Finished  time.Time
	Results   outcome.ResultSet
}

// Total returns the number of combinations the run exercised.
func (r *Report) Total() int {
	return r.Results.Total()
}

// Elapsed returns the run's wall-clock duration.
func (r *Report) Elapsed() time.Duration {
	return r.Finished.Sub(r.Started)
}

// Run performs one exhaustive coverage run over schemaJSON.
//
// Every value combination the schema admits is generated, validated, and
// fed through the mapping function; the report partitions them into valid
// and invalid buckets in generation order.
//
// Run returns an error only when the run as a whole cannot proceed: a
// malformed schema (schema.ShapeError), an infrastructure failure
// (ResourceError), or context cancellation. There is no partial report;
// callers get either every outcome or none.
func (e *Engine) Run(ctx context.Context, schemaJSON []byte) (*Report, error) {
	if e.fn == nil {
		return nil, NewResourceError("resolve mapping function", errors.New("no mapping function configured"))
	}

	started := time.Now()
	runID := e.runIDs.Generate()

	domains, err := schema.Extract(schemaJSON)
	if err != nil {
		return nil, err
	}

	combs := combin.Generate(domains)
	workers := 1
	if e.parallel {
		workers = e.effectiveWorkers()
	}

	slog.Info("coverage run starting",
		"run_id", runID,
		"mapping", e.name,
		"parallel", e.parallel,
		"workers", workers,
		"properties", domains.Len(),
		"combinations", len(combs),
	)

	// One slot per combination, indexed by generation position. Workers
	// write disjoint slots, so no locking and no reordering.
	outcomes := make([]outcome.Outcome, len(combs))

	if e.parallel {
		err = e.runParallel(ctx, schemaJSON, combs, outcomes, workers)
	} else {
		err = e.runSerial(ctx, schemaJSON, combs, outcomes)
	}
	if err != nil {
		slog.Error("coverage run aborted", "run_id", runID, "error", err)
		return nil, err
	}

	report := &Report{
		RunID:     runID,
		SchemaSHA: schema.SchemaDigest(schemaJSON),
		Mapping:   e.name,
		Parallel:  e.parallel,
		Workers:   workers,
		Started:   started,
		Finished:  time.Now(),
		Results:   outcome.Partition(outcomes),
	}

	slog.Info("coverage run complete",
		"run_id", report.RunID,
		"total", report.Total(),
		"valid", len(report.Results.Valid),
		"invalid", len(report.Results.Invalid),
		"elapsed", report.Elapsed(),
	)

	return report, nil
}

// runSerial exercises every combination on the calling goroutine with a
// single shared validator.
func (e *Engine) runSerial(ctx context.Context, schemaJSON []byte, combs []schema.Combination, outcomes []outcome.Outcome) error {
	v, err := NewValidator(schemaJSON)
	if err != nil {
		return NewResourceError("create validator", err)
	}

	for i, comb := range combs {
		if err := ctx.Err(); err != nil {
			return err
		}
		outcomes[i] = exercise(v, e.fn, comb)
	}
	return nil
}

// runParallel exercises combinations on a bounded worker pool.
//
// A feeder goroutine streams combination indices to the workers; each
// worker builds its own validator and writes outcomes into its tasks'
// slots. The pool lives exactly as long as the run: g.Wait returns only
// after the feeder and every worker have exited, on success, failure, and
// cancellation alike.
func (e *Engine) runParallel(ctx context.Context, schemaJSON []byte, combs []schema.Combination, outcomes []outcome.Outcome, workers int) error {
	g, ctx := errgroup.WithContext(ctx)

	tasks := make(chan int)
	g.Go(func() error {
		defer close(tasks)
		for i := range combs {
			select {
			case tasks <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			// Validators are not shared across goroutines; each worker
			// compiles its own.
			v, err := NewValidator(schemaJSON)
			if err != nil {
				return NewResourceError("create worker validator", err)
			}
			for i := range tasks {
				outcomes[i] = exercise(v, e.fn, combs[i])
			}
			return nil
		})
	}

	return g.Wait()
}

// effectiveWorkers resolves the configured worker count, defaulting to one
// worker per CPU.
func (e *Engine) effectiveWorkers() int {
	if e.workers > 0 {
		return e.workers
	}
	return runtime.NumCPU()
}
