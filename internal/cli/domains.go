package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"mapcover/internal/combin"
	"mapcover/internal/schema"
)

// DomainsOptions holds flags for the domains command.
type DomainsOptions struct {
	*RootOptions
	Show int
}

// DomainInfo describes one extracted property domain.
type DomainInfo struct {
	Name     string   `json:"name"`
	Kind     string   `json:"kind"`
	Required bool     `json:"required"`
	Values   []string `json:"values"`
}

// DomainsResult is the JSON payload for the domains command.
type DomainsResult struct {
	Properties   []DomainInfo         `json:"properties"`
	Combinations int64                `json:"combinations"`
	Sample       []schema.Combination `json:"sample,omitempty"`
}

// NewDomainsCommand creates the domains command.
func NewDomainsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DomainsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "domains <schema-file>",
		Short: "Show the value domains a schema admits",
		Long: `Extract every property's value domain from a JSON Schema and report the
total number of combinations a coverage run over it would exercise.

Optional properties count one extra slot for the combination where they
are absent. With --show N the first N combinations are printed in
generation order.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDomains(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Show, "show", 0, "print the first N combinations")

	return cmd
}

func runDomains(opts *DomainsOptions, schemaPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	data, err := os.ReadFile(schemaPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read schema file", err)
	}

	domains, err := schema.Extract(data)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to extract domains", err)
	}

	count := combin.Count(domains)
	formatter.VerboseLog("Extracted %d properties from %s", domains.Len(), schemaPath)

	var sample []schema.Combination
	if opts.Show > 0 {
		combs := combin.Generate(domains)
		n := opts.Show
		if n > len(combs) {
			n = len(combs)
		}
		sample = combs[:n]
	}

	if opts.Format == "json" {
		result := DomainsResult{
			Properties:   make([]DomainInfo, 0, domains.Len()),
			Combinations: count,
			Sample:       sample,
		}
		for _, p := range domains.Properties() {
			result.Properties = append(result.Properties, DomainInfo{
				Name:     p.Name,
				Kind:     string(p.Kind),
				Required: p.Required,
				Values:   displayValues(p.Values),
			})
		}
		return formatter.Success(result)
	}

	return outputDomainsText(formatter, domains, count, sample)
}

func outputDomainsText(f *OutputFormatter, domains *schema.Domains, count int64, sample []schema.Combination) error {
	w := f.Writer
	for _, p := range domains.Properties() {
		requirement := "optional"
		if p.Required {
			requirement = "required"
		}
		fmt.Fprintf(w, "%s (%s, %s, %d values): %s\n",
			p.Name, p.Kind, requirement, len(p.Values),
			strings.Join(displayValues(p.Values), ", "))
	}
	fmt.Fprintf(w, "\nTotal combinations: %d\n", count)

	if len(sample) > 0 {
		fmt.Fprintf(w, "\nFirst %d combinations:\n", len(sample))
		for _, comb := range sample {
			data, err := comb.MarshalJSON()
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to encode combination", err)
			}
			fmt.Fprintln(w, string(data))
		}
	}
	return nil
}

func displayValues(values []schema.Value) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = schema.Display(v)
	}
	return out
}
