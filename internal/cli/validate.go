package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/stride/internal/fixture"
)

// ValidationResult summarizes a successful validation.
type ValidationResult struct {
	Valid     bool `json:"valid"`
	Fixtures  int  `json:"fixtures"`
	FileCount int  `json:"file_count"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [fixtures-dir]",
		Short: "Validate CUE fixtures",
		Long: `Check every fixture in a directory and report all errors at once.

Errors carry a code and, when available, the CUE source position:
  E101 kind, E102 elem, E103 values, E104 value type, E105 not sorted.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, firstArg(args), cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, dirArg string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	dir := opts.fixturesDir(dirArg)

	loadResult, loadErrors := fixture.LoadDir(dir, fixture.LoadModeCollectAll)
	if loadResult == nil && len(loadErrors) > 0 {
		code, message := parseLoadError(loadErrors[0])
		return formatter.fail(code, message)
	}
	if len(loadErrors) > 0 {
		return outputLoadErrors(formatter, "Validation failed", loadErrors)
	}

	result := ValidationResult{Valid: true, Fixtures: len(loadResult.Fixtures), FileCount: loadResult.FileCount}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ All fixtures valid (%d fixture(s) in %d file(s))\n", result.Fixtures, result.FileCount)
	return nil
}
