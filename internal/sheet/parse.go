package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ParseError reports malformed CSV or a header row that lacks required columns.
// Line is the 1-based CSV line, or zero when the error concerns the whole sheet.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid csv at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("invalid csv: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ErrMissingColumns is wrapped by ParseError when the header lacks required columns.
var ErrMissingColumns = errors.New("missing required columns")

// Column lists the accepted header names of one logical column. The first
// name is canonical; the rest are aliases.
type Column []string

// Name returns the canonical column name.
func (c Column) Name() string {
	if len(c) == 0 {
		return ""
	}
	return c[0]
}

// Record is one data row in sheet order.
type Record struct {
	Line    int // 1-based CSV line of the row's first field
	Ordinal int // 1-based position below the header, blank rows included
	Cells   []string
}

// Cell returns the raw cell at pos, or "" when the row is shorter.
func (r Record) Cell(pos int) string {
	if pos < 0 || pos >= len(r.Cells) {
		return ""
	}
	return r.Cells[pos]
}

// Table is a parsed sheet: the header row and the records below it.
type Table struct {
	Header     []string
	HeaderLine int
	Index      HeaderIndex
	Records    []Record
}

type rawRow struct {
	line  int
	cells []string
}

// ReadRows reads every CSV row of text. Unterminated quotes and rows whose
// field count differs from the first row are reported as *ParseError.
func ReadRows(text string) ([][]string, error) {
	rows, err := readRows(text)
	if err != nil {
		return nil, err
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = r.cells
	}
	return out, nil
}

func readRows(text string) ([]rawRow, error) {
	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(text, "\uFEFF")))

	var rows []rawRow
	for {
		cells, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				return nil, &ParseError{Line: csvErr.Line, Err: csvErr.Err}
			}
			return nil, &ParseError{Err: err}
		}
		line, _ := r.FieldPos(0)
		rows = append(rows, rawRow{line: line, cells: cells})
	}
	return rows, nil
}

// FindHeaderRow returns the index of the first row, among the first maxScan
// rows, that contains every required column under any of its names.
// With no required columns the first row is the header.
func FindHeaderRow(rows [][]string, required []Column, maxScan int) (int, error) {
	if len(rows) == 0 {
		return 0, &ParseError{Err: errors.New("empty sheet")}
	}
	if len(required) == 0 {
		return 0, nil
	}
	if maxScan <= 0 || maxScan > len(rows) {
		maxScan = len(rows)
	}

	for i := 0; i < maxScan; i++ {
		if len(MakeHeaderIndex(rows[i]).Missing(required)) == 0 {
			return i, nil
		}
	}

	missing := MakeHeaderIndex(rows[0]).Missing(required)
	return 0, &ParseError{
		Line: 1,
		Err:  fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", ")),
	}
}

// Parse reads text, locates the header row and returns the records below it
// in sheet order. Rows whose cells are all blank are dropped but still
// count toward the Ordinal of the rows after them.
func Parse(text string, required []Column, maxScan int) (*Table, error) {
	rows, err := readRows(text)
	if err != nil {
		return nil, err
	}

	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = r.cells
	}

	headerIdx, err := FindHeaderRow(cells, required, maxScan)
	if err != nil {
		return nil, err
	}

	t := &Table{
		Header:     rows[headerIdx].cells,
		HeaderLine: rows[headerIdx].line,
		Index:      MakeHeaderIndex(rows[headerIdx].cells),
	}
	for i, r := range rows[headerIdx+1:] {
		if isBlank(r.cells) {
			continue
		}
		t.Records = append(t.Records, Record{Line: r.line, Ordinal: i + 1, Cells: r.cells})
	}
	return t, nil
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
