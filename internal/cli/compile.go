package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/stride/internal/fixture"
	"github.com/roach88/stride/internal/probe"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// FixtureSummary describes one compiled fixture.
type FixtureSummary struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Elem   string `json:"elem"`
	Tier   string `json:"tier"`
	Len    int    `json:"len"`
	Sorted bool   `json:"sorted"`
	Hash   string `json:"hash"`
	Values any    `json:"values"`
}

// CompilationResult holds the compiled fixtures.
type CompilationResult struct {
	Fixtures []FixtureSummary `json:"fixtures"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile [fixtures-dir]",
		Short: "Compile CUE fixtures",
		Long: `Compile every CUE fixture in a directory and print a summary of each:
its kind, element type, capability tier, length and content hash.

The directory defaults to the configured fixtures path.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, firstArg(args), cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write compiled fixtures as JSON to this file")

	return cmd
}

func runCompile(opts *CompileOptions, dirArg string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	dir := opts.fixturesDir(dirArg)

	loadResult, loadErrors := fixture.LoadDir(dir, fixture.LoadModeCollectAll)
	if loadResult == nil && len(loadErrors) > 0 {
		code, message := parseLoadError(loadErrors[0])
		return formatter.fail(code, message)
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, dir)
	if len(loadErrors) > 0 {
		return outputLoadErrors(formatter, "Compilation failed", loadErrors)
	}

	result := &CompilationResult{Fixtures: make([]FixtureSummary, 0, len(loadResult.Fixtures))}
	for i := range loadResult.Fixtures {
		spec := &loadResult.Fixtures[i]
		formatter.VerboseLog("Compiled fixture: %s", spec)
		summary, err := summarize(spec)
		if err != nil {
			return formatter.fail(fixture.ErrCodeGeneric, err.Error())
		}
		result.Fixtures = append(result.Fixtures, summary)
	}

	if opts.Output != "" {
		if err := writeJSONFile(result, opts.Output); err != nil {
			return formatter.fail(fixture.ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err))
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ Compiled %d fixture(s)\n\n", len(result.Fixtures))
	for _, f := range result.Fixtures {
		sorted := ""
		if f.Sorted {
			sorted = ", sorted"
		}
		fmt.Fprintf(w, "  %s: %s of %s, %d value(s), tier %s%s\n", f.Name, f.Kind, f.Elem, f.Len, f.Tier, sorted)
	}
	if opts.Output != "" {
		fmt.Fprintf(w, "\nWrote fixtures to %s\n", opts.Output)
	}
	return nil
}

// summarize builds the output form of a fixture.
func summarize(spec *fixture.Spec) (FixtureSummary, error) {
	hash, err := probe.HashFixture(spec)
	if err != nil {
		return FixtureSummary{}, err
	}
	tier := probe.TierAssociative
	if t, ok := spec.Kind.Tier(); ok {
		tier = t.String()
	}
	var values any = spec.Strings
	if spec.Elem == fixture.ElemInt {
		values = spec.Ints
	}
	return FixtureSummary{
		Name:   spec.Name,
		Kind:   string(spec.Kind),
		Elem:   string(spec.Elem),
		Tier:   tier,
		Len:    spec.Len(),
		Sorted: spec.Sorted,
		Hash:   hash,
		Values: values,
	}, nil
}

// outputLoadErrors reports every load or compile error.
func outputLoadErrors(formatter *OutputFormatter, heading string, errs []error) error {
	cliErrors := make([]CLIError, len(errs))
	for i, err := range errs {
		code, message := parseLoadError(err)
		cliErrors[i] = CLIError{Code: code, Message: message}
	}
	exitErr := NewExitError(ExitCommandError, fmt.Sprintf("%s with %d error(s)", heading, len(errs)))

	if formatter.Format == "json" {
		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(CLIResponse{Status: "error", Error: &cliErrors[0], Data: cliErrors}); err != nil {
			return err
		}
		return exitErr
	}

	fmt.Fprintf(formatter.Writer, "✗ %s\n\n", heading)
	for i, err := range errs {
		if pos := errorPosition(err); pos != "" {
			fmt.Fprintln(formatter.Writer, pos)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", cliErrors[i].Code, cliErrors[i].Message)
	}
	return exitErr
}

// parseLoadError extracts an error code and message.
func parseLoadError(err error) (string, string) {
	var compileErr *fixture.CompileError
	if errors.As(err, &compileErr) {
		return fixture.MapFieldToErrorCode(compileErr.Field), compileErr.Message
	}
	var loadErr *fixture.LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	return fixture.ErrCodeGeneric, err.Error()
}

// errorPosition renders file:line:col for errors that carry a CUE position.
func errorPosition(err error) string {
	var loadErr *fixture.LoadError
	if errors.As(err, &loadErr) && loadErr.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d", loadErr.Pos.Filename(), loadErr.Pos.Line(), loadErr.Pos.Column())
	}
	var compileErr *fixture.CompileError
	if errors.As(err, &compileErr) && compileErr.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d", compileErr.Pos.Filename(), compileErr.Pos.Line(), compileErr.Pos.Column())
	}
	return ""
}

// writeJSONFile writes v as indented JSON. Canonical JSON is reserved for
// hashing.
func writeJSONFile(v any, filename string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
