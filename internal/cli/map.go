package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mapcover/internal/engine"
	"mapcover/internal/mapping"
	"mapcover/internal/schema"
)

// MapOptions holds flags for the map command.
type MapOptions struct {
	*RootOptions
	Mapping  string
	Validate bool
}

// MapResult is the JSON payload for a single-asset mapping execution.
type MapResult struct {
	Mapping    string                  `json:"mapping"`
	ModelIDs   []string                `json:"model_ids"`
	Components *mapping.ComponentTable `json:"components"`
	LossParams mapping.LossParams      `json:"loss_params"`
}

// NewMapCommand creates the map command.
func NewMapCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MapOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "map <asset-file>",
		Short: "Run a mapping function on a single asset",
		Long: `Run a mapping function on one asset description and print the component
assignment it produces.

The asset file is a JSON document whose GeneralInformation object holds
the building attributes the mapping reads. With --validate the asset is
first checked against the mapping's bundled input schema.

Exit codes:
  0 - Asset mapped
  1 - Asset rejected (schema violation or mapping failure)
  2 - Command error (unknown mapping, unreadable asset file)

Examples:
  mapcover map ./AIM.json
  mapcover map ./AIM.json --validate`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMap(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Mapping, "mapping", mapping.HazusEarthquakeName, "registered mapping to run")
	cmd.Flags().BoolVar(&opts.Validate, "validate", false, "validate the asset against the mapping's bundled schema first")

	return cmd
}

func runMap(opts *MapOptions, assetPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	mod, err := lookupMapping(opts.Mapping)
	if err != nil {
		return err
	}

	asset, err := readAsset(assetPath)
	if err != nil {
		return err
	}

	if opts.Validate {
		if err := validateAsset(mod, asset); err != nil {
			return err
		}
		formatter.VerboseLog("Asset conforms to the %s input schema", mod.Name)
	}

	assignment, err := mod.Fn(asset)
	if err != nil {
		return WrapExitError(ExitFailure, "mapping failed", err)
	}

	if opts.Format == "json" {
		return formatter.Success(MapResult{
			Mapping:    mod.Name,
			ModelIDs:   assignment.Components.Labels(),
			Components: assignment.Components,
			LossParams: assignment.LossParams,
		})
	}
	return outputMapText(formatter, assignment)
}

func outputMapText(f *OutputFormatter, assignment *mapping.Assignment) error {
	w := f.Writer
	fmt.Fprintln(w, "Component Assignment:")
	for _, label := range assignment.Components.Labels() {
		c, _ := assignment.Components.Lookup(label)
		fmt.Fprintf(w, "%s: units=%s location=%d direction=%d theta_0=%g family=%s\n",
			label, c.Units, c.Location, c.Direction, c.Theta0, c.Family)
	}
	return nil
}

// readAsset loads and strictly decodes an asset envelope.
func readAsset(path string) (mapping.Asset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return mapping.Asset{}, WrapExitError(ExitCommandError, "failed to read asset file", err)
	}

	var asset mapping.Asset
	if err := json.Unmarshal(data, &asset); err != nil {
		return mapping.Asset{}, WrapExitError(ExitCommandError, "failed to parse asset file", err)
	}
	if asset.GeneralInformation == nil {
		return mapping.Asset{}, NewExitError(ExitCommandError, "asset file has no GeneralInformation object")
	}
	return asset, nil
}

// validateAsset checks an asset's general information against the module's
// bundled schema.
func validateAsset(mod mapping.Module, asset mapping.Asset) error {
	if mod.Schema == nil {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("mapping %q bundles no schema to validate against", mod.Name))
	}
	v, err := engine.NewValidator(mod.Schema)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to compile bundled schema", err)
	}
	if err := v.Validate(schema.Combination(asset.GeneralInformation)); err != nil {
		return WrapExitError(ExitFailure, "asset does not conform to the input schema", err)
	}
	return nil
}
