// Package flachtex flattens a LaTeX document tree into one traceable
// string, expanding \input/\include/\subimport (and a handful of
// annotation commands) while remembering, for every byte of the result,
// which source file and offset it came from.
package flachtex

import (
	"flachtex/internal/expand"
	"flachtex/internal/filefinder"
	"flachtex/pkg/contract"
	"flachtex/pkg/registry"
	"flachtex/pkg/rewrite"
	"flachtex/pkg/rules"
	"flachtex/pkg/trace"

	"github.com/spf13/afero"
)

// Structure is the per-source entry of the expansion's side map (C8): a
// source's raw content and the sources it directly includes.
type Structure = expand.Entry

// Options configures which optional rules participate in an Expand call.
type Options struct {
	EnableComments bool
	EnableChanges  bool
	ChangesPrefix  string
	EnableTodos    bool
	EnableNewcmd   bool
}

func (o Options) registryOptions() registry.Options {
	return registry.Options{
		EnableComments: o.EnableComments,
		EnableChanges:  o.EnableChanges,
		ChangesPrefix:  o.ChangesPrefix,
		EnableTodos:    o.EnableTodos,
	}
}

// Expand resolves rootPath against fs and returns the fully expanded
// traceable string plus the structure map discovered along the way. A nil
// fs defaults to the real filesystem.
func Expand(rootPath string, fs afero.Fs, opts Options) (trace.String, map[trace.SourceID]Structure, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	finder := filefinder.New(fs, rootPath)
	rootID, content, err := finder.ReadRoot()
	if err != nil {
		return trace.String{}, nil, err
	}
	return ExpandWithFinder(finder, rootID, content, opts)
}

// ExpandWithFinder runs the same pipeline as Expand against a caller-
// supplied contract.FileFinder, for tests or in-memory document sets that
// do not exist on any filesystem.
func ExpandWithFinder(finder contract.FileFinder, rootID trace.SourceID, rootContent []byte, opts Options) (trace.String, map[trace.SourceID]Structure, error) {
	ropts := opts.registryOptions()
	exp := expand.New(
		finder,
		registry.SkipRules(ropts),
		registry.ImportRules(),
		registry.SubstitutionRules(ropts),
		expand.Options{EnableNewcmd: opts.EnableNewcmd},
		nil,
	)
	return exp.Expand(rootID, rootContent)
}

// RemoveComments strips unescaped '%' line comments from ts, independent
// of any expansion. It is the library-surface equivalent of the --comments
// CLI flag applied to an already-built traceable string.
func RemoveComments(ts trace.String) (trace.String, error) {
	rule := rules.CommentSkipRule{}
	return rewrite.ApplySkip(ts, []rewrite.SkipRuleFn{func(content string) ([]rewrite.Match, error) {
		ms, err := rule.FindAll(content)
		if err != nil {
			return nil, err
		}
		out := make([]rewrite.Match, len(ms))
		for i, m := range ms {
			out[i] = rewrite.Match{Range: m.Range}
		}
		return out, nil
	}})
}
