package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"mapcover/internal/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Database string
	Tag      string
}

// RunInfo is the JSON payload for one archived run.
type RunInfo struct {
	ID        string `json:"id"`
	Mapping   string `json:"mapping"`
	SchemaSHA string `json:"schema_sha"`
	Mode      string `json:"mode"`
	Workers   int    `json:"workers"`
	Total     int    `json:"total"`
	Valid     int    `json:"valid"`
	Invalid   int    `json:"invalid"`
	StartedAt string `json:"started_at"`
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "List archived coverage runs",
		Long: `List coverage runs archived to a SQLite database, newest first.

With a run ID argument, show that run's record instead; add --tag to
also list its outcomes by bucket.

Examples:
  mapcover runs --db ./coverage.db
  mapcover runs 0190cafe-... --db ./coverage.db
  mapcover runs 0190cafe-... --db ./coverage.db --tag invalid`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite database to read")
	cmd.Flags().StringVar(&opts.Tag, "tag", "", "list a run's outcomes with this tag (valid|invalid)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runRuns(opts *RunsOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if opts.Tag != "" {
		if len(args) == 0 {
			return NewExitError(ExitCommandError, "--tag requires a run ID argument")
		}
		if opts.Tag != store.TagValid && opts.Tag != store.TagInvalid {
			return NewExitError(ExitCommandError,
				fmt.Sprintf("invalid tag %q: must be %q or %q", opts.Tag, store.TagValid, store.TagInvalid))
		}
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if len(args) == 1 {
		return showRun(ctx, formatter, st, args[0], opts.Tag)
	}
	return listRuns(ctx, formatter, st)
}

func listRuns(ctx context.Context, f *OutputFormatter, st *store.Store) error {
	records, err := st.ListRuns(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	if f.Format == "json" {
		infos := make([]RunInfo, 0, len(records))
		for _, rec := range records {
			infos = append(infos, runInfo(rec))
		}
		return f.Success(map[string][]RunInfo{"runs": infos})
	}

	if len(records) == 0 {
		fmt.Fprintln(f.Writer, "No archived runs.")
		return nil
	}
	for _, rec := range records {
		printRunText(f, rec)
	}
	return nil
}

func showRun(ctx context.Context, f *OutputFormatter, st *store.Store, id, tag string) error {
	rec, err := st.GetRun(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return NewExitError(ExitCommandError, fmt.Sprintf("no archived run %q", id))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load run", err)
	}

	if tag == "" {
		if f.Format == "json" {
			return f.Success(runInfo(rec))
		}
		printRunText(f, rec)
		return nil
	}

	outcomes, err := st.ListOutcomes(ctx, id, tag)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list outcomes", err)
	}

	if f.Format == "json" {
		return f.Success(map[string]any{
			"run":      runInfo(rec),
			"tag":      tag,
			"outcomes": outcomes,
		})
	}

	printRunText(f, rec)
	fmt.Fprintf(f.Writer, "\n%s outcomes: %d\n", tag, len(outcomes))
	for _, oc := range outcomes {
		data, err := oc.Combination.MarshalJSON()
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to encode combination", err)
		}
		if tag == store.TagValid {
			fmt.Fprintf(f.Writer, "%d: %s -> %v\n", oc.Seq, data, oc.ModelIDs)
		} else {
			fmt.Fprintf(f.Writer, "%d: %s -> %s\n", oc.Seq, data, oc.Error)
		}
	}
	return nil
}

func runInfo(rec store.RunRecord) RunInfo {
	return RunInfo{
		ID:        rec.ID,
		Mapping:   rec.Mapping,
		SchemaSHA: rec.SchemaSHA,
		Mode:      rec.Mode,
		Workers:   rec.Workers,
		Total:     rec.Total,
		Valid:     rec.ValidCount,
		Invalid:   rec.InvalidCount,
		StartedAt: rec.StartedAt.Format("2006-01-02 15:04:05"),
	}
}

func printRunText(f *OutputFormatter, rec store.RunRecord) {
	fmt.Fprintf(f.Writer, "%s  %s  %s  total=%d valid=%d invalid=%d  %s\n",
		rec.ID, rec.Mapping, rec.Mode,
		rec.Total, rec.ValidCount, rec.InvalidCount,
		rec.StartedAt.Format("2006-01-02 15:04:05"))
}
