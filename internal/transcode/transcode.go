// Package transcode drives a package rename through a whole JAR: every entry
// of the source archive is read, renamed, rewritten if it is a class file,
// and written to a fresh archive in the same order.
package transcode

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/opencontainers/go-digest"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"jar-rename/internal/archive"
	"jar-rename/internal/classfile"
	"jar-rename/internal/errdefs"
	"jar-rename/internal/meta"
	"jar-rename/internal/pattern"
)

// ClassSuffix marks the entries whose content is rewritten.
const ClassSuffix = ".class"

// Options tunes a run. The zero value is a sequential run that preserves
// each entry's compression method.
type Options struct {
	// Jobs is the number of class files rewritten concurrently. Values
	// below 2 select the sequential path.
	Jobs int
	// ForceDeflate writes every file entry with Deflate.
	ForceDeflate bool
	// DryRun rewrites in memory but never creates the output file.
	DryRun bool
	// Report keeps a Report for every renamed or rewritten entry.
	Report bool
	// Log receives progress. Nil means the standard logger.
	Log *logrus.Entry
}

func (o Options) logger() *logrus.Entry {
	if o.Log != nil {
		return o.Log
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

// Report is what happened to one entry.
type Report struct {
	Name    string
	NewName string
	Class   bool
	Changes []classfile.Change
}

// Summary aggregates a run.
type Summary struct {
	Entries     int // entries written
	Classes     int // entries parsed as class files
	Passthrough int // entries copied without parsing
	Renamed     int // entries whose name changed
	Rewritten   int // class files with at least one changed constant
	Constants   int // UTF-8 constants changed across all classes

	Versions meta.Info // class-file versions seen

	Output  string        // final archive path, empty on a dry run
	Digest  digest.Digest // digest of the archive bytes produced
	Reports []Report
}

// OutputPath is where the rewritten copy of input lands inside dir.
func OutputPath(input, dir string) string {
	return filepath.Join(dir, filepath.Base(input))
}

// Transcode rewrites the archive at input into <outputDir>/<base of input>.
// The output directory is created if needed. The archive is written to a
// temporary file and only renamed into place once sealed, so a failed run
// leaves no partial output behind.
func Transcode(ctx context.Context, input, outputDir string, p pattern.Pattern, opt Options) (*Summary, error) {
	log := opt.logger()
	output := OutputPath(input, outputDir)
	if samePath(input, output) {
		return nil, errdefs.Usagef("output %s would overwrite the input archive", output)
	}
	if p.IsNoop() {
		log.Warnf("source and target are both %q, entries are copied unchanged", p.Source())
	}

	zr, err := archive.OpenZip(input)
	if err != nil {
		return nil, errdefs.IO(err, "failed to read %s", input)
	}
	defer zr.Close()

	var (
		sink io.Writer = io.Discard
		out  *archive.AtomicFile
	)
	if !opt.DryRun {
		out, err = archive.CreateAtomic(output)
		if err != nil {
			return nil, errdefs.IO(err, "failed to create %s", output)
		}
		defer out.Abort()
		sink = out
	}

	digester := digest.Canonical.Digester()
	zw := archive.NewZipWriter(io.MultiWriter(sink, digester.Hash()))
	if opt.ForceDeflate {
		zw.ForceMethod(archive.Deflate)
	}

	log.WithField("entries", zr.Len()).Info("start operation")
	sum, err := Run(ctx, zr, zw, p, opt)
	if err != nil {
		return nil, err
	}

	log.Info("compressing archive")
	if err := zw.Finish(); err != nil {
		return nil, errdefs.IO(err, "failed to finalize %s", output)
	}
	if out != nil {
		if err := out.Commit(); err != nil {
			return nil, errdefs.IO(err, "failed to finalize %s", output)
		}
		sum.Output = output
	}
	sum.Digest = digester.Digest()
	return sum, nil
}

// Run copies every entry of src into dst in stored order, renaming and
// rewriting along the way. It does not call dst.Finish; the caller seals
// the archive only when Run succeeds.
func Run(ctx context.Context, src archive.Reader, dst archive.Writer, p pattern.Pattern, opt Options) (*Summary, error) {
	t := &transcoder{
		src: src,
		dst: dst,
		p:   p,
		opt: opt,
		log: opt.logger(),
		sum: &Summary{},
	}
	var err error
	if opt.Jobs > 1 {
		err = t.runParallel(ctx)
	} else {
		err = t.runSequential(ctx)
	}
	if err != nil {
		return nil, err
	}
	return t.sum, nil
}

type transcoder struct {
	src archive.Reader
	dst archive.Writer
	p   pattern.Pattern
	opt Options
	log *logrus.Entry
	sum *Summary
}

// entry is one archive member on its way from src to dst.
type entry struct {
	header  archive.Header
	data    []byte
	name    string // name in the output archive
	class   bool
	major   uint16
	changes []classfile.Change
}

func (t *transcoder) runSequential(ctx context.Context) error {
	for i := 0; i < t.src.Len(); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		e, err := t.read(i)
		if err != nil {
			return err
		}
		if err := e.transform(t.p); err != nil {
			return err
		}
		if err := t.emit(e); err != nil {
			return err
		}
	}
	return nil
}

// read loads entry i fully into memory.
func (t *transcoder) read(i int) (*entry, error) {
	h, rc, err := t.src.Entry(i)
	if err != nil {
		return nil, errdefs.IO(err, "failed to read entry %d", i)
	}
	data, err := io.ReadAll(rc)
	if cerr := rc.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, errdefs.IO(err, "failed to read entry %q", h.Name)
	}
	return &entry{header: h, data: data}, nil
}

// transform renames the entry and, for class files, rewrites its constant
// pool. It touches nothing outside e, so entries can be transformed
// concurrently.
func (e *entry) transform(p pattern.Pattern) error {
	e.name, _ = p.EntryName(e.header.Name)
	if !strings.HasSuffix(e.header.Name, ClassSuffix) {
		return nil
	}
	e.class = true
	res, err := classfile.Rewrite(e.data, p)
	if err != nil {
		return errors.Wrapf(err, "failed to rename %s in entry %q", p, e.header.Name)
	}
	e.data = res.Bytes
	e.major = res.Header.Major
	e.changes = res.Changes
	return nil
}

// emit writes e to dst and accounts for it. Only the writer goroutine calls
// emit, so the summary needs no locking.
func (t *transcoder) emit(e *entry) error {
	log := t.log.WithField("entry", e.header.Name)
	renamed := e.name != e.header.Name
	if renamed {
		log.WithField("renamed_to", e.name).Info("rename entry")
	} else {
		log.Debug("copy entry")
	}

	h := e.header
	h.Name = e.name
	if err := t.dst.Begin(h); err != nil {
		return errdefs.IO(err, "failed to write entry %q", e.name)
	}
	if len(e.data) > 0 {
		if _, err := t.dst.Write(e.data); err != nil {
			return errdefs.IO(err, "failed to write entry %q", e.name)
		}
	}

	s := t.sum
	s.Entries++
	if renamed {
		s.Renamed++
	}
	if e.class {
		s.Classes++
		s.Versions.Observe(e.major)
		if len(e.changes) > 0 {
			s.Rewritten++
			s.Constants += len(e.changes)
		}
	} else {
		s.Passthrough++
	}
	if t.opt.Report && (renamed || len(e.changes) > 0) {
		s.Reports = append(s.Reports, Report{
			Name:    e.header.Name,
			NewName: e.name,
			Class:   e.class,
			Changes: e.changes,
		})
	}
	return nil
}

// samePath reports whether a and b name the same file.
func samePath(a, b string) bool {
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	if err1 != nil || err2 != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return aa == bb
}
