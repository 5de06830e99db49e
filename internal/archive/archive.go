// Package archive is the container layer of jar-rename: it reads the entries
// of a source JAR and writes a fresh one, one entry at a time.
//
// The transcoder only sees the Reader and Writer interfaces; ZipReader and
// ZipWriter back them with archive/zip and klauspost's flate codec.
package archive

import (
	"io"
	"strings"
	"time"
)

// Compression methods that a JAR may use.
const (
	Store   uint16 = 0
	Deflate uint16 = 8
)

// Header describes one archive entry.
type Header struct {
	Name     string
	Method   uint16
	Modified time.Time
	Comment  string
	// CreatorVersion's high byte names the host system that
	// ExternalAttrs is encoded for (0 MS-DOS, 3 Unix).
	CreatorVersion uint16
	ExternalAttrs  uint32
}

// IsDir reports whether the entry is a directory marker.
func (h Header) IsDir() bool {
	return strings.HasSuffix(h.Name, "/")
}

// Reader gives indexed access to the entries of a source archive.
type Reader interface {
	// Len returns the number of entries.
	Len() int
	// Entry returns the header of entry i and a stream of its
	// uncompressed content. The caller closes the stream.
	Entry(i int) (Header, io.ReadCloser, error)
}

// Writer builds an archive sequentially. Bytes written go to the entry
// most recently begun.
type Writer interface {
	Begin(h Header) error
	Write(p []byte) (int, error)
	// Finish writes the central directory. The writer is unusable after.
	Finish() error
}
