package core

import (
	"strconv"

	"github.com/JonMunkholm/mobgen/internal/sheet"
)

// FieldType represents the expected data type for a sheet column.
type FieldType int

const (
	FieldText FieldType = iota
	FieldInt
	FieldFloat
)

func (t FieldType) String() string {
	switch t {
	case FieldInt:
		return "int"
	case FieldFloat:
		return "float"
	default:
		return "text"
	}
}

// FieldSpec defines how a single logical column is read from a sheet.
type FieldSpec struct {
	Name     string    // Canonical column header, also the key in Values
	Aliases  []string  // Alternative headers, matched case-insensitively
	Type     FieldType // Expected data type
	Required bool      // Column must exist in the header and the cell must be non-empty
	Default  string    // Used when the column is absent, the cell is empty, or a number does not parse
}

// Column returns the header names accepted for this field, canonical first.
func (f FieldSpec) Column() sheet.Column {
	col := make(sheet.Column, 0, 1+len(f.Aliases))
	col = append(col, f.Name)
	return append(col, f.Aliases...)
}

// Values holds the cleaned, defaulted cells of one row keyed by FieldSpec.Name.
type Values map[string]string

// String returns the value of field name.
func (v Values) String(name string) string {
	return v[name]
}

// Int returns the value of field name as an integer, or 0.
func (v Values) Int(name string) int {
	n, err := ParseInt(v[name])
	if err != nil {
		return 0
	}
	return n
}

// Float returns the value of field name as a float, or 0.
func (v Values) Float(name string) float64 {
	f, err := ParseFloat(v[name])
	if err != nil {
		return 0
	}
	return f
}

// Row is a resolved data row handed to a generator.
type Row struct {
	Line   int // 1-based CSV line
	Seq    int // 1-based position below the header, blank rows included
	Values Values
}

// File is one rendered output file. Path is slash-separated and relative
// to the datapack directory.
type File struct {
	Path    string `json:"path"`
	Content string `json:"-"`
}

// Entry is everything a generator renders for one row.
type Entry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Line  int    `json:"line"`
	Files []File `json:"files"`
}

// Options carries run settings that change what a generator renders.
type Options struct {
	SpawnFunctions bool
}

// GeneratorInfo contains display information about a generator.
type GeneratorInfo struct {
	Key   string `json:"key"`   // Unique identifier: "mob"
	Label string `json:"label"` // Display name: "Mobs"
	Sheet string `json:"sheet"` // Which configured sheet gid to read: "mob" or "item"
}

// BuildFunc turns a resolved row into an entry. A returned error skips the
// row with the error text as the reason.
type BuildFunc func(row Row, opts Options) (Entry, error)

// Definition contains everything needed to run a generator.
type Definition struct {
	Info       GeneratorInfo
	FieldSpecs []FieldSpec
	Build      BuildFunc
}

// RequiredColumns returns the header columns that must be present.
func (d Definition) RequiredColumns() []sheet.Column {
	var cols []sheet.Column
	for _, spec := range d.FieldSpecs {
		if spec.Required {
			cols = append(cols, spec.Column())
		}
	}
	return cols
}

// RowIssue describes a skipped row, a row warning or a write failure.
type RowIssue struct {
	Line   int    `json:"line"`
	ID     string `json:"id,omitempty"`
	Path   string `json:"path,omitempty"`
	Reason string `json:"reason"`
}

// Duplicate lists every line that produced the same identifier.
type Duplicate struct {
	ID    string `json:"id"`
	Lines []int  `json:"lines"`
}

func (d Duplicate) String() string {
	s := d.ID + " (lines"
	for i, l := range d.Lines {
		if i > 0 {
			s += ","
		}
		s += " " + strconv.Itoa(l)
	}
	return s + ")"
}
