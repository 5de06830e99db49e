// Package pattern holds the (source, target) package prefix pair applied to
// archive entry names and to class-file text.
//
// Matching is always literal. Neither prefix is ever treated as a regular
// expression.
package pattern

import (
	"bytes"
	"strings"

	"jar-rename/internal/errdefs"
)

// Pattern is an immutable, slash-delimited rename pair.
type Pattern struct {
	source string
	target string

	src []byte
	dst []byte
}

// Normalize converts a dotted package name ("com.acme") to its internal
// slash form ("com/acme").
func Normalize(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}

// New normalizes both prefixes and returns the pattern. An empty source is
// a usage error: it would match everywhere.
func New(source, target string) (Pattern, error) {
	source, target = Normalize(source), Normalize(target)
	if source == "" {
		return Pattern{}, errdefs.Usagef("source package must not be empty")
	}
	return Pattern{
		source: source,
		target: target,
		src:    []byte(source),
		dst:    []byte(target),
	}, nil
}

// Source returns the normalized source prefix.
func (p Pattern) Source() string { return p.source }

// Target returns the normalized target prefix.
func (p Pattern) Target() string { return p.target }

// IsNoop reports whether applying p can never change anything.
func (p Pattern) IsNoop() bool { return p.source == p.target }

// String renders p as "source -> target".
func (p Pattern) String() string { return p.source + " -> " + p.target }

// ReplaceText replaces every non-overlapping occurrence of the source prefix
// in b, scanning left to right. It returns b itself and 0 when nothing
// matched, so unchanged text keeps its exact bytes.
func (p Pattern) ReplaceText(b []byte) ([]byte, int) {
	n := bytes.Count(b, p.src)
	if n == 0 {
		return b, 0
	}
	return bytes.ReplaceAll(b, p.src, p.dst), n
}

// EntryName renames an archive entry path. Only a leading source prefix is
// replaced; an occurrence further inside the name is left alone.
func (p Pattern) EntryName(name string) (string, bool) {
	if !strings.HasPrefix(name, p.source) {
		return name, false
	}
	return p.target + name[len(p.source):], true
}
