package classfile

import (
	"math"

	"jar-rename/internal/errdefs"
	"jar-rename/internal/pattern"
)

// Header is the fixed prefix of a class file. It is copied unchanged.
type Header struct {
	Magic     uint32
	Minor     uint16
	Major     uint16
	PoolCount uint16
}

// Change describes one rewritten UTF-8 constant.
type Change struct {
	Index   int    // constant-pool index, counted one slot per record
	Old     []byte // text before the rename
	New     []byte // text after the rename
	Matches int    // occurrences of the source prefix that were replaced
}

// Result is the outcome of rewriting one class file.
type Result struct {
	Header  Header
	Bytes   []byte
	Changes []Change
}

// Changed reports whether any constant was rewritten.
func (r *Result) Changed() bool { return len(r.Changes) > 0 }

// Rewrite parses the header and constant pool of code and renames every
// UTF-8 constant through p. All other records and the unparsed remainder of
// the class are copied verbatim.
//
// The loop runs PoolCount-1 times and advances the index by one per record,
// including Long and Double, which the class-file format counts as two
// slots. Every record is still consumed exactly, so the byte stream stays in
// sync; only Change.Index numbering is affected.
func Rewrite(code []byte, p pattern.Pattern) (*Result, error) {
	r := &reader{buf: code}
	w := &writer{buf: make([]byte, 0, len(code)+64)}

	var (
		h   Header
		err error
	)
	if h.Magic, err = r.u32("magic"); err != nil {
		return nil, err
	}
	if h.Minor, err = r.u16("minor version"); err != nil {
		return nil, err
	}
	if h.Major, err = r.u16("major version"); err != nil {
		return nil, err
	}
	if h.PoolCount, err = r.u16("constant pool count"); err != nil {
		return nil, err
	}
	w.u32(h.Magic)
	w.u16(h.Minor)
	w.u16(h.Major)
	w.u16(h.PoolCount)

	var changes []Change
	for i := 1; i < int(h.PoolCount); i++ {
		r.index = i
		tag, err := r.u8("tag")
		if err != nil {
			return nil, err
		}
		w.u8(tag)

		l := LengthFor(tag)
		if !l.Variable {
			if l.Fixed == 0 {
				continue
			}
			payload, err := r.take(l.Fixed, "payload")
			if err != nil {
				return nil, err
			}
			w.bytes(payload)
			continue
		}

		n, err := r.u16("utf8 length")
		if err != nil {
			return nil, err
		}
		at := r.off
		text, err := r.take(int(n), "utf8 bytes")
		if err != nil {
			return nil, err
		}
		// Raw bytes, not lossily decoded text: modified UTF-8 must survive.
		renamed, matches := p.ReplaceText(text)
		if len(renamed) > math.MaxUint16 {
			return nil, &FormatError{Offset: at, Index: i, Field: "utf8 length", Err: errdefs.ErrLengthOverflow}
		}
		w.u16(uint16(len(renamed)))
		w.bytes(renamed)
		if matches > 0 {
			changes = append(changes, Change{Index: i, Old: append([]byte(nil), text...), New: renamed, Matches: matches})
		}
	}

	w.bytes(r.rest())
	return &Result{Header: h, Bytes: w.buf, Changes: changes}, nil
}
