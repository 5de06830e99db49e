package classfile

import (
	"encoding/binary"
	"fmt"

	"jar-rename/internal/errdefs"
)

// FormatError reports where a class file could not be parsed.
type FormatError struct {
	Offset int    // byte offset of the field that failed
	Index  int    // constant-pool index being read, 0 for the header
	Field  string // e.g. "magic", "utf8 length", "tag 5 payload"
	Err    error  // errdefs.ErrTruncated or errdefs.ErrLengthOverflow
}

func (e *FormatError) Error() string {
	if e.Index == 0 {
		return fmt.Sprintf("class file: %s at offset %d: %v", e.Field, e.Offset, e.Err)
	}
	return fmt.Sprintf("class file: constant #%d %s at offset %d: %v", e.Index, e.Field, e.Offset, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// reader is a position-tracking big-endian cursor over a class file.
type reader struct {
	buf   []byte
	off   int
	index int
}

func (r *reader) take(n int, field string) ([]byte, error) {
	if n > len(r.buf)-r.off {
		return nil, &FormatError{Offset: r.off, Index: r.index, Field: field, Err: errdefs.ErrTruncated}
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) u8(field string) (uint8, error) {
	b, err := r.take(1, field)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) u16(field string) (uint16, error) {
	b, err := r.take(2, field)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *reader) u32(field string) (uint32, error) {
	b, err := r.take(4, field)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// rest returns everything not yet consumed.
func (r *reader) rest() []byte {
	b := r.buf[r.off:]
	r.off = len(r.buf)
	return b
}

// writer is an append-only big-endian output buffer.
type writer struct {
	buf []byte
}

func (w *writer) u8(v uint8) { w.buf = append(w.buf, v) }

func (w *writer) u16(v uint16) { w.buf = binary.BigEndian.AppendUint16(w.buf, v) }

func (w *writer) u32(v uint32) { w.buf = binary.BigEndian.AppendUint32(w.buf, v) }

func (w *writer) bytes(b []byte) { w.buf = append(w.buf, b...) }
