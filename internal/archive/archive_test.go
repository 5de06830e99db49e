package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var modTime = time.Date(2021, 3, 4, 5, 6, 8, 0, time.UTC)

func writeTestZip(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, e := range []struct {
		name   string
		method uint16
		body   string
	}{
		{"META-INF/", zip.Store, ""},
		{"META-INF/MANIFEST.MF", zip.Deflate, "Manifest-Version: 1.0\n"},
		{"com/acme/Foo.class", zip.Store, "\xca\xfe\xba\xbe"},
	} {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: e.name, Method: e.method, Modified: modTime, Comment: "c:" + e.name})
		require.NoError(t, err)
		_, err = io.WriteString(w, e.body)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

func TestZipRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.jar")
	writeTestZip(t, src)

	zr, err := OpenZip(src)
	require.NoError(t, err)
	defer zr.Close()
	require.Equal(t, 3, zr.Len())

	var out bytes.Buffer
	zw := NewZipWriter(&out)
	for i := 0; i < zr.Len(); i++ {
		h, rc, err := zr.Entry(i)
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())

		require.NoError(t, zw.Begin(h))
		_, err = zw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Finish())

	got, err := zip.NewReader(bytes.NewReader(out.Bytes()), int64(out.Len()))
	require.NoError(t, err)
	require.Len(t, got.File, 3)
	assert.Equal(t, "META-INF/", got.File[0].Name)
	assert.Equal(t, "META-INF/MANIFEST.MF", got.File[1].Name)
	assert.Equal(t, zip.Deflate, got.File[1].Method)
	assert.Equal(t, "com/acme/Foo.class", got.File[2].Name)
	assert.Equal(t, zip.Store, got.File[2].Method)
	assert.Equal(t, "c:com/acme/Foo.class", got.File[2].Comment)
	assert.True(t, got.File[2].Modified.Equal(modTime))
}

func TestZipKeepsUnixMode(t *testing.T) {
	var in bytes.Buffer
	zw := zip.NewWriter(&in)
	fh := &zip.FileHeader{Name: "bin/run.sh", Method: zip.Deflate}
	fh.SetMode(0o755)
	w, err := zw.CreateHeader(fh)
	require.NoError(t, err)
	_, err = io.WriteString(w, "#!/bin/sh\n")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	dir := t.TempDir()
	src := filepath.Join(dir, "in.jar")
	require.NoError(t, os.WriteFile(src, in.Bytes(), 0o644))
	zr, err := OpenZip(src)
	require.NoError(t, err)
	defer zr.Close()

	h, rc, err := zr.Entry(0)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, uint16(3), h.CreatorVersion>>8)

	var out bytes.Buffer
	w2 := NewZipWriter(&out)
	require.NoError(t, w2.Begin(h))
	require.NoError(t, w2.Finish())

	got, err := zip.NewReader(bytes.NewReader(out.Bytes()), int64(out.Len()))
	require.NoError(t, err)
	require.Len(t, got.File, 1)
	assert.Equal(t, os.FileMode(0o755), got.File[0].Mode())
}

func TestZipWriterForceMethod(t *testing.T) {
	var out bytes.Buffer
	zw := NewZipWriter(&out)
	zw.ForceMethod(Deflate)
	require.NoError(t, zw.Begin(Header{Name: "dir/", Method: Store}))
	require.NoError(t, zw.Begin(Header{Name: "dir/a.txt", Method: Store}))
	_, err := zw.Write([]byte("hello hello hello"))
	require.NoError(t, err)
	require.NoError(t, zw.Finish())

	got, err := zip.NewReader(bytes.NewReader(out.Bytes()), int64(out.Len()))
	require.NoError(t, err)
	assert.Equal(t, zip.Store, got.File[0].Method)
	assert.Equal(t, zip.Deflate, got.File[1].Method)
}

func TestZipWriterWriteBeforeBegin(t *testing.T) {
	zw := NewZipWriter(io.Discard)
	_, err := zw.Write([]byte("x"))
	assert.Error(t, err)
}

func TestZipReaderErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := OpenZip(filepath.Join(dir, "missing.jar"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.jar")
	require.NoError(t, os.WriteFile(bad, []byte("not a zip"), 0o644))
	_, err = OpenZip(bad)
	assert.Error(t, err)

	src := filepath.Join(dir, "in.jar")
	writeTestZip(t, src)
	zr, err := OpenZip(src)
	require.NoError(t, err)
	defer zr.Close()
	_, _, err = zr.Entry(3)
	assert.Error(t, err)
}

func TestHeaderIsDir(t *testing.T) {
	assert.True(t, Header{Name: "com/acme/"}.IsDir())
	assert.False(t, Header{Name: "com/acme/Foo.class"}.IsDir())
}

func TestAtomicFileCommit(t *testing.T) {
	dir := t.TempDir()
	final := filepath.Join(dir, "nested", "out.jar")

	a, err := CreateAtomic(final)
	require.NoError(t, err)
	_, err = a.Write([]byte("payload"))
	require.NoError(t, err)

	_, err = os.Stat(final)
	assert.True(t, os.IsNotExist(err), "final path must not exist before commit")

	require.NoError(t, a.Commit())
	b, err := os.ReadFile(final)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(b))
	assert.Equal(t, final, a.Path())

	entries, err := os.ReadDir(filepath.Dir(final))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	assert.Error(t, a.Commit())
}

func TestAtomicFileAbort(t *testing.T) {
	dir := t.TempDir()
	final := filepath.Join(dir, "out.jar")
	require.NoError(t, os.WriteFile(final, []byte("previous"), 0o644))

	a, err := CreateAtomic(final)
	require.NoError(t, err)
	_, err = a.Write([]byte("partial"))
	require.NoError(t, err)
	a.Abort()
	a.Abort()

	b, err := os.ReadFile(final)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
