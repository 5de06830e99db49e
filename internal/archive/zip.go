package archive

import (
	"archive/zip"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/pkg/errors"
)

// ZipReader reads a ZIP/JAR file from disk.
type ZipReader struct {
	rc *zip.ReadCloser
}

// OpenZip opens the archive at path.
func OpenZip(path string) (*ZipReader, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	rc.RegisterDecompressor(zip.Deflate, flate.NewReader)
	return &ZipReader{rc: rc}, nil
}

// Len returns the number of entries in stored order.
func (z *ZipReader) Len() int {
	return len(z.rc.File)
}

// Entry opens entry i.
func (z *ZipReader) Entry(i int) (Header, io.ReadCloser, error) {
	if i < 0 || i >= len(z.rc.File) {
		return Header{}, nil, errors.Errorf("entry index %d out of range [0,%d)", i, len(z.rc.File))
	}
	f := z.rc.File[i]
	h := Header{
		Name:           f.Name,
		Method:         f.Method,
		Modified:       f.Modified,
		Comment:        f.Comment,
		CreatorVersion: f.CreatorVersion,
		ExternalAttrs:  f.ExternalAttrs,
	}
	r, err := f.Open()
	if err != nil {
		return h, nil, errors.Wrapf(err, "open entry %q", f.Name)
	}
	return h, r, nil
}

// Close releases the underlying file.
func (z *ZipReader) Close() error {
	return z.rc.Close()
}

// ZipWriter writes a ZIP/JAR stream.
type ZipWriter struct {
	zw  *zip.Writer
	cur io.Writer

	force  bool
	method uint16
}

// NewZipWriter returns a writer that streams the archive into w.
func NewZipWriter(w io.Writer) *ZipWriter {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.DefaultCompression)
	})
	return &ZipWriter{zw: zw}
}

// ForceMethod makes every later file entry use method m instead of the
// method in its header.
func (z *ZipWriter) ForceMethod(m uint16) {
	z.force, z.method = true, m
}

// Begin starts a new entry. Directory entries are stored without content.
func (z *ZipWriter) Begin(h Header) error {
	fh := &zip.FileHeader{
		Name:           h.Name,
		Method:         h.Method,
		Modified:       h.Modified,
		Comment:        h.Comment,
		CreatorVersion: h.CreatorVersion,
		ExternalAttrs:  h.ExternalAttrs,
	}
	if z.force && !h.IsDir() {
		fh.Method = z.method
	}
	w, err := z.zw.CreateHeader(fh)
	if err != nil {
		z.cur = nil
		return errors.Wrapf(err, "create %s", h.Name)
	}
	z.cur = w
	return nil
}

// Write appends p to the current entry.
func (z *ZipWriter) Write(p []byte) (int, error) {
	if z.cur == nil {
		return 0, errors.New("zip: write before begin")
	}
	return z.cur.Write(p)
}

// Finish writes the central directory. It does not close the
// underlying writer.
func (z *ZipWriter) Finish() error {
	z.cur = nil
	return z.zw.Close()
}
