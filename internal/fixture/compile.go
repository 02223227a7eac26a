package fixture

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"golang.org/x/text/unicode/norm"
)

// Compile parses a CUE value into a Spec.
//
// The value should be the fixture struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`fixture: nums: { ... }`)
//	spec, err := Compile(v.LookupPath(cue.ParsePath("fixture.nums")))
func Compile(v cue.Value) (*Spec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &Spec{}
	if labels := v.Path().Selectors(); len(labels) > 0 {
		spec.Name = labels[len(labels)-1].String()
	}

	kind, err := requiredString(v, "kind")
	if err != nil {
		return nil, err
	}
	spec.Kind = Kind(kind)
	if !spec.Kind.Valid() {
		return nil, &CompileError{
			Field:   "kind",
			Message: fmt.Sprintf("unknown kind %q (want one of %s)", kind, joinKinds()),
			Pos:     v.LookupPath(cue.ParsePath("kind")).Pos(),
		}
	}

	elem, err := requiredString(v, "elem")
	if err != nil {
		return nil, err
	}
	spec.Elem = Elem(elem)
	if !spec.Elem.Valid() {
		return nil, &CompileError{
			Field:   "elem",
			Message: fmt.Sprintf("unknown element type %q (want int or string)", elem),
			Pos:     v.LookupPath(cue.ParsePath("elem")).Pos(),
		}
	}

	if err := parseValues(v, spec); err != nil {
		return nil, err
	}

	if sortedVal := v.LookupPath(cue.ParsePath("sorted")); sortedVal.Exists() {
		sorted, err := sortedVal.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		spec.Sorted = sorted
		if sorted && !isSorted(spec) {
			return nil, &CompileError{
				Field:   "sorted",
				Message: "values are not in ascending order",
				Pos:     sortedVal.Pos(),
			}
		}
	}

	return spec, nil
}

func requiredString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", &CompileError{
			Field:   field,
			Message: field + " is required",
			Pos:     v.Pos(),
		}
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func parseValues(v cue.Value, spec *Spec) error {
	valuesVal := v.LookupPath(cue.ParsePath("values"))
	if !valuesVal.Exists() {
		return &CompileError{
			Field:   "values",
			Message: "values are required (use [] for an empty fixture)",
			Pos:     v.Pos(),
		}
	}

	iter, err := valuesVal.List()
	if err != nil {
		return formatCUEError(err)
	}

	for i := 0; iter.Next(); i++ {
		ev := iter.Value()
		switch ev.IncompleteKind() {
		case cue.IntKind:
			if spec.Elem != ElemInt {
				return elemMismatch(ev, i, spec.Elem)
			}
			n, err := ev.Int64()
			if err != nil {
				return formatCUEError(err)
			}
			spec.Ints = append(spec.Ints, int(n))
		case cue.StringKind:
			if spec.Elem != ElemString {
				return elemMismatch(ev, i, spec.Elem)
			}
			s, err := ev.String()
			if err != nil {
				return formatCUEError(err)
			}
			s = norm.NFC.String(s)
			if spec.Kind == KindStream && !isToken(s) {
				return &CompileError{
					Field:   "values",
					Message: fmt.Sprintf("values[%d]: stream elements must be non-empty and contain no whitespace", i),
					Pos:     ev.Pos(),
				}
			}
			spec.Strings = append(spec.Strings, s)
		case cue.FloatKind, cue.NumberKind:
			return &CompileError{
				Field:   "type",
				Message: fmt.Sprintf("values[%d]: float values are forbidden - use int instead", i),
				Pos:     ev.Pos(),
			}
		default:
			return &CompileError{
				Field:   "type",
				Message: fmt.Sprintf("values[%d]: unsupported value kind: %v", i, ev.IncompleteKind()),
				Pos:     ev.Pos(),
			}
		}
	}
	return nil
}

func elemMismatch(v cue.Value, i int, want Elem) error {
	return &CompileError{
		Field:   "values",
		Message: fmt.Sprintf("values[%d]: got %v, fixture elem is %s", i, v.IncompleteKind(), want),
		Pos:     v.Pos(),
	}
}

func isToken(s string) bool {
	return s != "" && strings.IndexFunc(s, unicode.IsSpace) < 0
}

func isSorted(spec *Spec) bool {
	if spec.Elem == ElemInt {
		return slices.IsSorted(spec.Ints)
	}
	return slices.IsSorted(spec.Strings)
}

func joinKinds() string {
	names := make([]string, len(Kinds))
	for i, k := range Kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

// CompileError is a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
