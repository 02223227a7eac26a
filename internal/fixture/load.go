package fixture

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"
)

// LoadMode controls how errors are handled during loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the fixtures loaded from a directory.
type LoadResult struct {
	Fixtures  []Spec
	CUEValue  cue.Value
	FileCount int
}

// Lookup returns the fixture named name.
func (r *LoadResult) Lookup(name string) (*Spec, bool) {
	for i := range r.Fixtures {
		if r.Fixtures[i].Name == name {
			return &r.Fixtures[i], true
		}
	}
	return nil, false
}

// LoadError is an error that occurred while loading fixtures, tagged with a
// stable code for CLI output.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes, shared by every CLI command.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // File write error

	ErrCodeInvalidKind   = "E101" // Missing or unknown kind
	ErrCodeInvalidElem   = "E102" // Missing or unknown elem
	ErrCodeInvalidValues = "E103" // Missing values or element type mismatch
	ErrCodeInvalidType   = "E104" // Float or unsupported value
	ErrCodeNotSorted     = "E105" // sorted: true on unsorted values
)

// MapFieldToErrorCode maps a CompileError field to an error code.
func MapFieldToErrorCode(field string) string {
	switch field {
	case "kind":
		return ErrCodeInvalidKind
	case "elem":
		return ErrCodeInvalidElem
	case "values":
		return ErrCodeInvalidValues
	case "type":
		return ErrCodeInvalidType
	case "sorted":
		return ErrCodeNotSorted
	default:
		return ErrCodeGeneric
	}
}

// LoadDir loads every fixture from the CUE package in dir.
// With LoadModeFailFast it returns on the first error; with
// LoadModeCollectAll it compiles every fixture and returns all errors.
func LoadDir(dir string, mode LoadMode) (*LoadResult, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("fixtures directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing fixtures directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	result := &LoadResult{CUEValue: value, FileCount: len(cueFiles)}
	errs := compileAll(value, result, mode)
	return result, errs
}

// LoadFile compiles the fixtures declared in a single CUE file.
func LoadFile(path string) ([]Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading fixture file: %v", err)}
	}

	value := cuecontext.New().CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}

	result := &LoadResult{CUEValue: value, FileCount: 1}
	if errs := compileAll(value, result, LoadModeFailFast); len(errs) > 0 {
		return nil, errs[0]
	}
	return result.Fixtures, nil
}

func compileAll(value cue.Value, result *LoadResult, mode LoadMode) []error {
	var errs []error

	fixturesVal := value.LookupPath(cue.ParsePath("fixture"))
	if fixturesVal.Exists() {
		iter, err := fixturesVal.Fields()
		if err != nil {
			return []error{&LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating fixtures: %v", err)}}
		}
		for iter.Next() {
			spec, err := Compile(iter.Value())
			if err != nil {
				errs = append(errs, convertCompileError(err, "fixture."+iter.Label()))
				if mode == LoadModeFailFast {
					return errs
				}
				continue
			}
			result.Fixtures = append(result.Fixtures, *spec)
		}
	}

	if len(result.Fixtures) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no fixtures found"})
	}

	slices.SortFunc(result.Fixtures, func(a, b Spec) int {
		return strings.Compare(a.Name, b.Name)
	})
	return errs
}

// FindCUEFiles walks dir and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func convertCompileError(err error, context string) *LoadError {
	var compileErr *CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: fmt.Sprintf("%s: %s", context, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}
