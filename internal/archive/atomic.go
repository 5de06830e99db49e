package archive

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// AtomicFile is an output file that only appears at its final path once
// Commit succeeds. Until then the bytes live in a temporary sibling, so
// readers never observe a partially-written archive.
type AtomicFile struct {
	*os.File
	final string
	done  bool
}

// CreateAtomic creates the parent directory of path if needed and opens a
// temporary file next to it (".tmp-<base>-<rand>").
func CreateAtomic(path string) (*AtomicFile, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create directory %s", dir)
	}
	f, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(path)+"-")
	if err != nil {
		return nil, errors.Wrapf(err, "create temp file in %s", dir)
	}
	return &AtomicFile{File: f, final: path}, nil
}

// Commit flushes, closes and renames the temporary file into place,
// replacing any existing file.
func (a *AtomicFile) Commit() error {
	if a.done {
		return errors.New("atomic file already committed or aborted")
	}
	a.done = true
	tmp := a.Name()
	if err := a.Sync(); err != nil {
		_ = a.File.Close()
		_ = os.Remove(tmp)
		return errors.Wrap(err, "sync")
	}
	if err := a.File.Close(); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(err, "close")
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(err, "chmod")
	}
	if err := os.Rename(tmp, a.final); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrapf(err, "rename to %s", a.final)
	}
	return nil
}

// Abort discards the temporary file. It is safe to call after Commit and
// more than once; cleanup is best-effort.
func (a *AtomicFile) Abort() {
	if a.done {
		return
	}
	a.done = true
	_ = a.File.Close()
	_ = os.Remove(a.Name())
}

// Path returns the final destination path.
func (a *AtomicFile) Path() string {
	return a.final
}
