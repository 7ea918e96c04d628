package core

// validation.go resolves sheet records against a generator's field specs.
//
// Each FieldSpec is looked up in the header by its name and aliases. The
// matching cell is cleaned, checked against the field type and replaced
// by the default when empty or unparsable. A missing required value is
// fatal for the row; a bad number is only a warning.

import (
	"fmt"

	"github.com/JonMunkholm/mobgen/internal/sheet"
)

// ValidationError represents a single validation problem for a field.
type ValidationError struct {
	Field   string // Field name
	Value   string // The offending cell
	Message string // Human-readable message
	Fatal   bool   // The row cannot be used
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// RowValidator resolves records against a generator's field specifications.
type RowValidator struct {
	specs     []FieldSpec
	positions []int // header position per spec, -1 when absent
}

// NewRowValidator creates a validator for the given specs and header index.
func NewRowValidator(specs []FieldSpec, idx sheet.HeaderIndex) *RowValidator {
	positions := make([]int, len(specs))
	for i, spec := range specs {
		pos, ok := idx.Lookup(spec.Column()...)
		if !ok {
			pos = -1
		}
		positions[i] = pos
	}
	return &RowValidator{specs: specs, positions: positions}
}

// Resolve returns the cleaned values of rec with defaults applied, along
// with every problem found. The row is unusable when any returned error
// is Fatal.
func (v *RowValidator) Resolve(rec sheet.Record) (Values, []ValidationError) {
	values := make(Values, len(v.specs))
	var errs []ValidationError

	for i, spec := range v.specs {
		raw := ""
		if pos := v.positions[i]; pos >= 0 {
			raw = sheet.CleanCell(rec.Cell(pos))
		}

		if raw == "" {
			if spec.Required {
				errs = append(errs, ValidationError{
					Field:   spec.Name,
					Message: "required value is empty",
					Fatal:   true,
				})
			}
			values[spec.Name] = spec.Default
			continue
		}

		if err := checkType(spec.Type, raw); err != nil {
			errs = append(errs, ValidationError{
				Field:   spec.Name,
				Value:   raw,
				Message: fmt.Sprintf("%v, using default %q", err, spec.Default),
			})
			values[spec.Name] = spec.Default
			continue
		}

		values[spec.Name] = raw
	}

	return values, errs
}

// HasFatal reports whether any error makes the row unusable.
func HasFatal(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Fatal {
			return true
		}
	}
	return false
}

func checkType(t FieldType, raw string) error {
	switch t {
	case FieldInt:
		_, err := ParseInt(raw)
		return err
	case FieldFloat:
		_, err := ParseFloat(raw)
		return err
	}
	return nil
}
