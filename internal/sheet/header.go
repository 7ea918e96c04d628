package sheet

import "strings"

// HeaderIndex maps column names (lowercase) to their position in the CSV row.
type HeaderIndex map[string]int

// MakeHeaderIndex creates a HeaderIndex from a CSV header row.
// Keys are lowercased for case-insensitive matching. When a name repeats,
// the leftmost column wins.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := strings.ToLower(CleanCell(h))
		if key == "" {
			continue
		}
		if _, dup := idx[key]; dup {
			continue
		}
		idx[key] = i
	}
	return idx
}

// Lookup returns the position of the first of names present in the index.
func (idx HeaderIndex) Lookup(names ...string) (int, bool) {
	for _, n := range names {
		if pos, ok := idx[strings.ToLower(strings.TrimSpace(n))]; ok {
			return pos, true
		}
	}
	return -1, false
}

// Missing returns the canonical names of required columns absent from the index.
func (idx HeaderIndex) Missing(required []Column) []string {
	var missing []string
	for _, col := range required {
		if _, ok := idx.Lookup(col...); !ok {
			missing = append(missing, col.Name())
		}
	}
	return missing
}

// CleanCell removes common spreadsheet artifacts from a cell value:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	if len(s) >= 2 && (s[0] == '"' && s[len(s)-1] == '"' || s[0] == '\'' && s[len(s)-1] == '\'') {
		s = s[1 : len(s)-1]
	}

	return strings.TrimSpace(s)
}
