// Package filefinder resolves an \input/\include/\subimport reference
// written in a calling document into the canonical path and raw bytes of
// the document it names.
package filefinder

import (
	"path/filepath"

	"github.com/spf13/afero"

	"flachtex/pkg/ferrors"
	"flachtex/pkg/trace"
)

// Finder resolves references against an afero.Fs, so the same resolution
// logic runs unchanged against the real filesystem or an in-memory tree
// built for tests.
type Finder struct {
	fs       afero.Fs
	rootPath string
}

// New builds a Finder anchored at rootPath's directory for step 3/4 of the
// resolution order.
func New(fs afero.Fs, rootPath string) *Finder {
	abs, _ := filepath.Abs(rootPath)
	return &Finder{fs: fs, rootPath: abs}
}

// Resolve implements contract.FileFinder: reference resolved relative to
// the calling source's directory, then the root directory, each tried
// plain and with ".tex" appended, then repeated while walking up the
// calling source's ancestor directories to the filesystem root.
func (f *Finder) Resolve(reference string, callingSource trace.SourceID) (trace.SourceID, []byte, error) {
	if filepath.IsAbs(reference) {
		if b, err := afero.ReadFile(f.fs, reference); err == nil {
			return trace.SourceID(reference), b, nil
		}
	}

	var tried []string
	rootDir := filepath.Dir(f.rootPath)
	dir := filepath.Dir(string(callingSource))

	for {
		for _, base := range []string{dir, rootDir} {
			for _, cand := range candidates(base, reference) {
				tried = append(tried, cand)
				if b, err := afero.ReadFile(f.fs, cand); err == nil {
					return trace.SourceID(cand), b, nil
				}
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", nil, ferrors.NewFileNotFound(reference, string(callingSource), tried)
}

func candidates(base, reference string) []string {
	plain := filepath.Join(base, reference)
	out := []string{plain}
	if filepath.Ext(reference) == "" {
		out = append(out, plain+".tex")
	}
	return out
}

// ReadRoot fetches the root document itself, used to seed expansion
// before any calling source exists.
func (f *Finder) ReadRoot() (trace.SourceID, []byte, error) {
	b, err := afero.ReadFile(f.fs, f.rootPath)
	if err != nil {
		return "", nil, ferrors.NewFileNotFound(f.rootPath, "", []string{f.rootPath})
	}
	return trace.SourceID(f.rootPath), b, nil
}
