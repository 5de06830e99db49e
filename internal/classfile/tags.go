// Package classfile rewrites the constant pool of a compiled Java class.
//
// Only the header and the constant pool are parsed. UTF-8 constants are the
// only records whose content may change; every other record, and everything
// after the pool (interfaces, fields, methods, attributes), is copied
// byte-for-byte. Symbolic references in the class body are 2-byte pool
// indices, so renaming the pool text renames every use of it.
package classfile

// Constant-pool tags with a name in the class-file format. Tags not listed
// here fall into the 2-byte payload class.
const (
	TagSentinel           uint8 = 0
	TagUtf8               uint8 = 1
	TagInteger            uint8 = 3
	TagFloat              uint8 = 4
	TagLong               uint8 = 5
	TagDouble             uint8 = 6
	TagClass              uint8 = 7
	TagString             uint8 = 8
	TagFieldref           uint8 = 9
	TagMethodref          uint8 = 10
	TagInterfaceMethodref uint8 = 11
	TagNameAndType        uint8 = 12
	TagMethodHandle       uint8 = 15
	TagMethodType         uint8 = 16
	TagDynamic            uint8 = 17
	TagInvokeDynamic      uint8 = 18
	TagModule             uint8 = 19
	TagPackage            uint8 = 20
)

// Length is the payload size class of a tag. Variable is set only for
// UTF-8, whose payload is a u16 length followed by that many bytes; for
// every other tag Fixed is the exact number of bytes after the tag byte.
type Length struct {
	Fixed    int
	Variable bool
}

// LengthFor reports the payload size of tag. Unknown tags default to 2
// bytes. The sentinel tag 0 has no payload at all.
func LengthFor(tag uint8) Length {
	switch tag {
	case TagUtf8:
		return Length{Variable: true}
	case TagLong, TagDouble:
		return Length{Fixed: 8}
	case TagMethodHandle:
		return Length{Fixed: 3}
	case TagModule:
		return Length{Fixed: 5}
	case TagInteger, TagFloat,
		TagFieldref, TagMethodref, TagInterfaceMethodref, TagNameAndType,
		14, TagDynamic, TagInvokeDynamic:
		return Length{Fixed: 4}
	case TagSentinel:
		return Length{Fixed: 0}
	default:
		return Length{Fixed: 2}
	}
}
