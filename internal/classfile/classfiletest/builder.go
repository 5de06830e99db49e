// Package classfiletest builds minimal class files for tests.
package classfiletest

import "encoding/binary"

// Magic is the class-file magic number.
const Magic = 0xCAFEBABE

// Builder assembles a class file record by record. The pool count written
// by Bytes is one more than the number of records added, so every record
// is visited by a reader that loops count-1 times.
type Builder struct {
	Minor, Major uint16

	records [][]byte
	tail    []byte
}

// New returns a builder for a Java 8 class.
func New() *Builder {
	return &Builder{Major: 52}
}

// Utf8 adds a UTF-8 constant.
func (b *Builder) Utf8(s string) *Builder {
	return b.RawUtf8([]byte(s))
}

// RawUtf8 adds a UTF-8 constant with arbitrary bytes.
func (b *Builder) RawUtf8(p []byte) *Builder {
	rec := []byte{1}
	rec = binary.BigEndian.AppendUint16(rec, uint16(len(p)))
	rec = append(rec, p...)
	b.records = append(b.records, rec)
	return b
}

// Class adds a Class constant pointing at name index idx.
func (b *Builder) Class(idx uint16) *Builder {
	return b.Record(7, binary.BigEndian.AppendUint16(nil, idx)...)
}

// Long adds a Long constant.
func (b *Builder) Long(v uint64) *Builder {
	return b.Record(5, binary.BigEndian.AppendUint64(nil, v)...)
}

// Record adds a record with the given tag and payload, copied as is.
func (b *Builder) Record(tag uint8, payload ...byte) *Builder {
	rec := append([]byte{tag}, payload...)
	b.records = append(b.records, rec)
	return b
}

// Tail sets the bytes that follow the constant pool.
func (b *Builder) Tail(p []byte) *Builder {
	b.tail = p
	return b
}

// Bytes encodes the class file.
func (b *Builder) Bytes() []byte {
	out := binary.BigEndian.AppendUint32(nil, Magic)
	out = binary.BigEndian.AppendUint16(out, b.Minor)
	out = binary.BigEndian.AppendUint16(out, b.Major)
	out = binary.BigEndian.AppendUint16(out, uint16(len(b.records)+1))
	for _, r := range b.records {
		out = append(out, r...)
	}
	return append(out, b.tail...)
}

// DefaultTail is a plausible class body: access flags, this/super class
// indices, no interfaces, fields, methods or attributes.
var DefaultTail = []byte{0x00, 0x21, 0x00, 0x02, 0x00, 0x04, 0, 0, 0, 0, 0, 0, 0, 0}
