package textutil

import (
	"bytes"
	"strconv"
)

// Lossy decodes b as UTF-8, replacing invalid byte sequences with the
// Unicode replacement character. Class files store modified UTF-8, so
// NUL and supplementary characters show up as replacements.
func Lossy(b []byte) string {
	return string(bytes.ToValidUTF8(b, []byte("�")))
}

// OneLine renders a constant on a single line. Quotes are added only when
// the text contains characters that would break a line-based diff.
func OneLine(b []byte) string {
	s := Lossy(b)
	if bytes.ContainsAny(b, "\r\n\t\"") {
		return strconv.Quote(s)
	}
	return s
}

// EnsureTrailingLF appends a single \n if not already present.
func EnsureTrailingLF(b []byte) []byte {
	if len(b) == 0 || b[len(b)-1] == '\n' {
		return b
	}
	return append(b, '\n')
}
