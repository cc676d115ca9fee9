// Package contract defines the interfaces a rewrite rule or a file finder
// must satisfy to participate in document expansion, and the small value
// types they exchange with the engine.
package contract

import (
	"flachtex/pkg/span"
	"flachtex/pkg/trace"
)

// SkipMatch is a byte range a SkipRule wants removed entirely.
type SkipMatch struct {
	Range span.Range
}

// SkipRule finds regions of content that must be deleted before imports or
// substitutions are considered (comments, %%FLACHTEX-SKIP blocks).
type SkipRule interface {
	FindAll(content string) ([]SkipMatch, error)
}

// ImportMatch is a byte range naming another source to splice in.
type ImportMatch struct {
	Range span.Range
	// Path is the reference as written in the source (not yet resolved).
	// For \subimport{dir}{file}, this is already dir and file joined by a
	// single "/": the File Finder never sees dir and file separately, matching how the
	// reference implementation joins them with os.path.join before an
	// Import is ever constructed.
	Path string
}

// ImportRule finds import directives in content (\input, \include,
// \subimport, %%FLACHTEX-EXPLICIT-IMPORT).
type ImportRule interface {
	FindAll(content string) ([]ImportMatch, error)
}

// Substitution is a byte range to replace with Replacement, a traceable
// string carrying its own provenance (generated, or inherited from the
// match's own source text).
type Substitution struct {
	Range       span.Range
	Replacement trace.String
}

// SubstitutionRule finds call sites to rewrite (changes-package commands,
// \todo, \newcommand expansions). It receives the full traceable string so
// it can slice out provenance-preserving replacement text.
type SubstitutionRule interface {
	FindAll(ts trace.String) ([]Substitution, error)
}

// FileFinder resolves an import reference, written from callingSource, to
// the SourceID and raw bytes of the referenced document.
type FileFinder interface {
	Resolve(reference string, callingSource trace.SourceID) (trace.SourceID, []byte, error)
}
