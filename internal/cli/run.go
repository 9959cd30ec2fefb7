package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"mapcover/internal/engine"
	"mapcover/internal/mapping"
	"mapcover/internal/outcome"
	"mapcover/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Mapping    string
	Serial     bool
	Workers    int
	ValidOut   string
	InvalidOut string
	Database   string

	// RunIDs allows overriding the run ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs engine.RunIDGenerator
}

// RunSummary is the JSON payload for a completed coverage run.
type RunSummary struct {
	RunID       string  `json:"run_id"`
	Mapping     string  `json:"mapping"`
	SchemaSHA   string  `json:"schema_sha"`
	Mode        string  `json:"mode"`
	Workers     int     `json:"workers"`
	Total       int     `json:"total"`
	Valid       int     `json:"valid"`
	Invalid     int     `json:"invalid"`
	Seconds     float64 `json:"seconds"`
	ValidFile   string  `json:"valid_file"`
	InvalidFile string  `json:"invalid_file"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run [schema-file]",
		Short: "Run exhaustive coverage over a schema",
		Long: `Run a mapping function against every combination of values its input
schema admits.

Each combination is validated against the schema and fed through the
mapping function; combinations that fail either step land in the invalid
bucket with the failure message. Results are written to JSON files and,
with --db, archived to a SQLite database.

Without a schema file argument the mapping's bundled schema is used.
Runs execute in parallel by default; --serial runs one combination at a
time.

Exit codes:
  0 - Run completed
  1 - Run aborted (cancelled or infrastructure failure)
  2 - Command error (unknown mapping, unreadable schema, write failure)

Examples:
  mapcover run
  mapcover run ./input_schema.json --serial
  mapcover run --workers 4 --db ./coverage.db
  mapcover run --valid-out ./out/valid.json --invalid-out ./out/invalid.json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCoverage(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Mapping, "mapping", mapping.HazusEarthquakeName, "registered mapping to exercise")
	cmd.Flags().BoolVar(&opts.Serial, "serial", false, "run combinations one at a time instead of in parallel")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "parallel worker count (0 = one per CPU)")
	cmd.Flags().StringVar(&opts.ValidOut, "valid-out", outcome.DefaultValidFileName, "output file for valid combinations")
	cmd.Flags().StringVar(&opts.InvalidOut, "invalid-out", outcome.DefaultInvalidFileName, "output file for invalid combinations")
	cmd.Flags().StringVar(&opts.Database, "db", "", "archive the run to this SQLite database")

	return cmd
}

func runCoverage(opts *RunOptions, args []string, cmd *cobra.Command) error {
	// Configure logging based on verbose flag
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))

	mod, err := lookupMapping(opts.Mapping)
	if err != nil {
		return err
	}

	schemaJSON, err := resolveCoverageSchema(args, mod)
	if err != nil {
		return err
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	runIDs := opts.RunIDs
	if runIDs == nil {
		runIDs = engine.UUIDv7Generator{}
	}

	engOpts := []engine.EngineOption{
		engine.WithMappingName(mod.Name),
		engine.WithParallel(!opts.Serial),
		engine.WithRunIDGenerator(runIDs),
	}
	if opts.Workers > 0 {
		engOpts = append(engOpts, engine.WithWorkers(opts.Workers))
	}
	eng := engine.New(mod.Fn, engOpts...)

	// Setup signal handling for graceful cancellation
	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan) // Prevent signal handler leak

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, cancelling run", "signal", sig)
			cancel()
		case <-ctx.Done():
			// Run finished or parent context cancelled
		}
	}()

	formatter.VerboseLog("Exercising mapping %q over %d-byte schema", mod.Name, len(schemaJSON))

	report, err := eng.Run(ctx, schemaJSON)
	if err != nil {
		return WrapExitError(ExitFailure, "coverage run failed", err)
	}

	if err := outcome.WriteResultFiles(report.Results, opts.ValidOut, opts.InvalidOut); err != nil {
		return WrapExitError(ExitCommandError, "failed to write result files", err)
	}
	formatter.VerboseLog("Results written to %s and %s", opts.ValidOut, opts.InvalidOut)

	if opts.Database != "" {
		if err := archiveRun(ctx, opts.Database, report); err != nil {
			return err
		}
		formatter.VerboseLog("Run %s archived to %s", report.RunID, opts.Database)
	}

	if opts.Format == "json" {
		return outputRunJSON(formatter, opts, report)
	}
	return outputRunText(formatter, report)
}

// archiveRun saves a completed run to the SQLite archive.
func archiveRun(ctx context.Context, path string, report *engine.Report) error {
	st, err := store.Open(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	rec := store.RunRecord{
		ID:         report.RunID,
		Mapping:    report.Mapping,
		SchemaSHA:  report.SchemaSHA,
		Mode:       runMode(report),
		Workers:    report.Workers,
		StartedAt:  report.Started,
		FinishedAt: report.Finished,
	}
	if err := st.SaveRun(ctx, rec, report.Results); err != nil {
		return WrapExitError(ExitCommandError, "failed to archive run", err)
	}
	return nil
}

func outputRunText(f *OutputFormatter, report *engine.Report) error {
	w := f.Writer
	fmt.Fprintln(w, "\nSummary:")
	fmt.Fprintf(w, "Total combinations: %d\n", report.Total())
	fmt.Fprintf(w, "Valid combinations: %d\n", len(report.Results.Valid))
	fmt.Fprintf(w, "Invalid combinations: %d\n", len(report.Results.Invalid))
	fmt.Fprintf(w, "Time taken: %.2f seconds\n", report.Elapsed().Seconds())
	return nil
}

func outputRunJSON(f *OutputFormatter, opts *RunOptions, report *engine.Report) error {
	return f.Success(RunSummary{
		RunID:       report.RunID,
		Mapping:     report.Mapping,
		SchemaSHA:   report.SchemaSHA,
		Mode:        runMode(report),
		Workers:     report.Workers,
		Total:       report.Total(),
		Valid:       len(report.Results.Valid),
		Invalid:     len(report.Results.Invalid),
		Seconds:     report.Elapsed().Seconds(),
		ValidFile:   opts.ValidOut,
		InvalidFile: opts.InvalidOut,
	})
}

// runMode names a report's execution mode using the archive vocabulary.
func runMode(report *engine.Report) string {
	if report.Parallel {
		return store.ModeParallel
	}
	return store.ModeSerial
}

// lookupMapping resolves a built-in mapping module by name.
func lookupMapping(name string) (mapping.Module, error) {
	registry := mapping.Builtins()
	mod, ok := registry.Lookup(name)
	if !ok {
		return mapping.Module{}, NewExitError(ExitCommandError,
			fmt.Sprintf("unknown mapping %q (available: %s)", name, strings.Join(registry.Names(), ", ")))
	}
	return mod, nil
}

// resolveCoverageSchema returns the schema document to exercise: the file
// argument when given, otherwise the module's bundled schema.
func resolveCoverageSchema(args []string, mod mapping.Module) ([]byte, error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to read schema file", err)
		}
		return data, nil
	}
	if mod.Schema != nil {
		return mod.Schema, nil
	}
	return nil, NewExitError(ExitCommandError,
		fmt.Sprintf("no schema file given and mapping %q bundles none", mod.Name))
}
