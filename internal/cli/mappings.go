package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"mapcover/internal/mapping"
)

// MappingInfo describes one registered mapping module.
type MappingInfo struct {
	Name          string `json:"name"`
	BundlesSchema bool   `json:"bundles_schema"`
}

// MappingsResult is the JSON payload for the mappings listing.
type MappingsResult struct {
	Mappings []MappingInfo `json:"mappings"`
}

// NewMappingsCommand creates the mappings command.
func NewMappingsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mappings",
		Short: "List registered mapping modules",
		Long: `List every mapping module this build registers, with whether it bundles
its own input schema. Mappings without a bundled schema need a schema
file argument on the run command.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMappings(rootOpts, cmd)
		},
	}

	return cmd
}

func runMappings(opts *RootOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	registry := mapping.Builtins()
	names := registry.Names()

	infos := make([]MappingInfo, 0, len(names))
	for _, name := range names {
		mod, _ := registry.Lookup(name)
		infos = append(infos, MappingInfo{
			Name:          mod.Name,
			BundlesSchema: mod.Schema != nil,
		})
	}

	if opts.Format == "json" {
		return formatter.Success(MappingsResult{Mappings: infos})
	}

	w := formatter.Writer
	for _, info := range infos {
		if info.BundlesSchema {
			fmt.Fprintf(w, "%s (bundled schema)\n", info.Name)
		} else {
			fmt.Fprintln(w, info.Name)
		}
	}
	return nil
}
