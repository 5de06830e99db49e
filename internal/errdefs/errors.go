// Package errdefs defines the error kinds surfaced by jar-rename and the
// process exit status each kind maps to.
//
// Every error produced by the tool can be classified with IsUsage, IsIO or
// IsFormat regardless of how many times it was wrapped on its way up.
package errdefs

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrUsage marks invalid arguments (bad suffix, empty package, ...).
	ErrUsage = errors.New("usage error")
	// ErrIO marks failures opening, reading or writing an archive.
	ErrIO = errors.New("i/o error")
	// ErrFormat marks a class file that cannot be parsed.
	ErrFormat = errors.New("format error")

	// ErrTruncated is a format error: a field declares more bytes than remain.
	ErrTruncated = errors.WithMessage(ErrFormat, "truncated class file")
	// ErrLengthOverflow is a format error: a rewritten UTF-8 constant no
	// longer fits in its 16-bit length field.
	ErrLengthOverflow = errors.WithMessage(ErrFormat, "utf8 constant length overflow")
)

// Exit statuses, following sysexits(3).
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 64
	ExitDataErr = 65
	ExitIOErr   = 74
)

// kindError attaches a kind to an optional underlying cause.
type kindError struct {
	kind  error
	cause error
	msg   string
}

func (e *kindError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return e.msg + ": " + e.cause.Error()
}

func (e *kindError) Unwrap() []error {
	if e.cause == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.cause}
}

// Usagef returns a usage error with a formatted message.
func Usagef(format string, args ...interface{}) error {
	return &kindError{kind: ErrUsage, msg: fmt.Sprintf(format, args...)}
}

// IO wraps err as an I/O error. It returns nil when err is nil.
func IO(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: ErrIO, cause: err, msg: fmt.Sprintf(format, args...)}
}

// IsUsage returns true if the error is due to invalid arguments.
func IsUsage(err error) bool {
	return errors.Is(err, ErrUsage)
}

// IsIO returns true if the error is due to archive I/O.
func IsIO(err error) bool {
	return errors.Is(err, ErrIO)
}

// IsFormat returns true if the error is due to an unparseable class file.
func IsFormat(err error) bool {
	return errors.Is(err, ErrFormat)
}

// ExitCode maps err to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case IsUsage(err):
		return ExitUsage
	case IsFormat(err):
		return ExitDataErr
	case IsIO(err):
		return ExitIOErr
	default:
		return ExitFailure
	}
}
