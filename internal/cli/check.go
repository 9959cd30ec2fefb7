package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mapcover/internal/coverage"
	"mapcover/internal/outcome"
)

// CheckResult is the JSON payload for a fragility coverage check.
type CheckResult struct {
	Summary           coverage.Summary `json:"summary"`
	StatusFile        string           `json:"status_file"`
	ModelIDCountsFile string           `json:"model_id_counts_file"`
	CombinationsFile  string           `json:"combination_counts_file"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <valid-results.json> <fragility.csv> <output.json>",
		Short: "Cross-reference valid results against a fragility database",
		Long: `Check which fragility model IDs from a CSV database were mapped to by a
coverage run's valid results.

The fragility database's first column holds model IDs; the header row is
skipped. Three files are written next to the output base:

  <output>.json                       per-ID mapped/unmapped status
  <output>_model_id_counts.json       occurrences of each model ID
  <output>_combination_counts.json    occurrences of each model-ID set

The summary and the unmapped IDs are printed.`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args[0], args[1], args[2], cmd)
		},
	}

	return cmd
}

func runCheck(opts *RootOptions, validPath, csvPath, outPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	valid, err := outcome.ReadValidFile(validPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read valid results", err)
	}
	formatter.VerboseLog("Loaded %d valid results from %s", len(valid), validPath)

	csvFile, err := os.Open(csvPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open fragility database", err)
	}
	defer csvFile.Close()

	statuses, summary, err := coverage.CheckFragilityMapping(valid, csvFile)
	if err != nil {
		return WrapExitError(ExitFailure, "fragility check failed", err)
	}

	idCountsPath := coverage.OutputPath(outPath, "_model_id_counts")
	setCountsPath := coverage.OutputPath(outPath, "_combination_counts")

	if err := outcome.WriteFile(idCountsPath, coverage.ModelIDCounts(valid)); err != nil {
		return WrapExitError(ExitCommandError, "failed to write model ID counts", err)
	}
	if err := outcome.WriteFile(setCountsPath, coverage.ModelIDSetCounts(valid)); err != nil {
		return WrapExitError(ExitCommandError, "failed to write combination counts", err)
	}
	if err := outcome.WriteFile(outPath, statuses); err != nil {
		return WrapExitError(ExitCommandError, "failed to write mapping status", err)
	}

	if opts.Format == "json" {
		return formatter.Success(CheckResult{
			Summary:           summary,
			StatusFile:        outPath,
			ModelIDCountsFile: idCountsPath,
			CombinationsFile:  setCountsPath,
		})
	}
	return outputCheckText(formatter, summary)
}

func outputCheckText(f *OutputFormatter, summary coverage.Summary) error {
	w := f.Writer
	fmt.Fprintln(w, "\nFragility Mapping Summary:")
	fmt.Fprintf(w, "Total fragility model IDs: %d\n", summary.TotalFragilityIDs)
	fmt.Fprintf(w, "Mapped fragility model IDs: %d\n", summary.Mapped)
	fmt.Fprintf(w, "Unmapped fragility model IDs: %d\n", summary.Unmapped)
	if len(summary.UnmappedIDs) > 0 {
		fmt.Fprintln(w, "\nUnmapped IDs:")
		for _, id := range summary.UnmappedIDs {
			fmt.Fprintln(w, id)
		}
	}
	return nil
}
