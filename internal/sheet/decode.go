package sheet

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// NewDecodingReader wraps r so that a leading UTF-8 or UTF-16 byte order mark
// selects the decoding and is dropped. Without a BOM the input is read as
// UTF-8 with invalid sequences replaced by U+FFFD.
func NewDecodingReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}
