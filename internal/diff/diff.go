// Package diff renders what a rename did to one archive entry as a classic
// unified patch (---/+++ headers, @@ hunks, lines prefixed with ' ', '-',
// '+'). It uses github.com/pmezard/go-difflib/difflib.
//
// The "file" being diffed is a listing of the rewritten UTF-8 constants,
// one per line, keyed by constant-pool index:
//
//	#12 com/old/Foo
//	#15 Lcom/old/Bar;
package diff

import (
	"fmt"
	"strings"

	difflib "github.com/pmezard/go-difflib/difflib"

	"jar-rename/internal/classfile"
	"jar-rename/internal/textutil"
)

// Options controls patch generation behavior.
type Options struct {
	// MaxBytes is a guardrail on input size (old+new). When exceeded,
	// a minimal placeholder patch is returned and oversize=true.
	// 0 means "no limit".
	MaxBytes int

	// Context controls the number of CONTEXT LINES in unified hunks.
	// If 0, default to 1.
	Context int

	// NoPrefix controls whether FromFile/ToFile are prefixed with "a/" and "b/".
	NoPrefix bool
}

// Entry produces the patch for one archive entry that was renamed from
// oldName to newName and whose constants changed as listed. It returns ""
// when there is nothing to report.
func Entry(oldName, newName string, changes []classfile.Change, opt Options) (body string, oversize bool) {
	aName, bName := oldName, newName
	if !opt.NoPrefix {
		aName, bName = "a/"+oldName, "b/"+newName
	}
	if len(changes) == 0 {
		if oldName == newName {
			return "", false
		}
		return renameOnly(aName, bName), false
	}

	a := make([]string, 0, len(changes))
	b := make([]string, 0, len(changes))
	size := 0
	for _, c := range changes {
		a = append(a, fmt.Sprintf("#%d %s\n", c.Index, textutil.OneLine(c.Old)))
		b = append(b, fmt.Sprintf("#%d %s\n", c.Index, textutil.OneLine(c.New)))
		size += len(c.Old) + len(c.New)
	}
	if opt.MaxBytes > 0 && size > opt.MaxBytes {
		return omitted(aName, bName), true
	}

	ctx := opt.Context
	if ctx <= 0 {
		ctx = 1
	}
	u := difflib.UnifiedDiff{
		A:        a,
		B:        b,
		FromFile: aName,
		ToFile:   bName,
		Context:  ctx,
	}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil || s == "" {
		return omitted(aName, bName), false
	}
	return s, false
}

// renameOnly describes an entry whose content did not change.
func renameOnly(aName, bName string) string {
	return fmt.Sprintf("--- %s\n+++ %s\n# renamed, content unchanged\n", aName, bName)
}

// omitted returns a compact placeholder when size limits are exceeded.
func omitted(aName, bName string) string {
	return fmt.Sprintf("--- %s\n+++ %s\n@@\n# diff omitted (oversize)\n", aName, bName)
}

// Join concatenates patches, skipping empty ones.
func Join(patches []string) string {
	var sb strings.Builder
	for _, p := range patches {
		if p == "" {
			continue
		}
		sb.Write(textutil.EnsureTrailingLF([]byte(p)))
	}
	return sb.String()
}
