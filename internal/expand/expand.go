// Package expand implements the import expander (C7) and the structure
// recorder (C8): the top-level driver that turns a root document into a
// fully-expanded traceable string, recursing through \input/\include/
// \subimport edges with cycle detection, plus the side map of every
// source it visited along the way.
package expand

import (
	"errors"

	"flachtex/internal/diag"
	"flachtex/pkg/contract"
	"flachtex/pkg/ferrors"
	"flachtex/pkg/rewrite"
	"flachtex/pkg/rules"
	"flachtex/pkg/trace"
)

// Entry is one node of the structure recorder: a source's raw content and
// the sources it directly includes, in the order their import sites
// appear in the (skip-stripped) content.
type Entry struct {
	Content  []byte
	Includes []trace.SourceID
}

// Recorder accumulates Entry values across one Expander.Expand call. A
// source loaded more than once (a DAG, not a tree) is recorded once; the
// edges into it are still collected on the source that imports it.
type Recorder struct {
	entries map[trace.SourceID]*Entry
}

func newRecorder() *Recorder { return &Recorder{entries: map[trace.SourceID]*Entry{}} }

func (r *Recorder) ensure(id trace.SourceID, content []byte) *Entry {
	e, ok := r.entries[id]
	if !ok {
		e = &Entry{Content: content}
		r.entries[id] = e
	}
	return e
}

func (r *Recorder) addEdge(from, to trace.SourceID) {
	e := r.ensure(from, nil)
	e.Includes = append(e.Includes, to)
}

// Snapshot returns the accumulated source-identifier to Entry mapping.
func (r *Recorder) Snapshot() map[trace.SourceID]Entry {
	out := make(map[trace.SourceID]Entry, len(r.entries))
	for id, e := range r.entries {
		out[id] = *e
	}
	return out
}

// Options controls which optional substitution passes participate, beyond
// the always-on skip and import stages. Skip/import/substitution rule
// selection itself is the caller's job (see pkg/registry) since those
// rules are supplied pre-built; Options only carries the one pass that
// lives inside the expander itself rather than in subRules.
type Options struct {
	EnableNewcmd bool
}

// Expander owns the cache, structure recorder and logging for its Expand
// calls. The cache and recorder are plain maps created once in New, so a
// single instance is not safe for concurrent Expand calls, and a second
// Expand on the same instance reuses the first call's cache and recorder.
type Expander struct {
	finder      contract.FileFinder
	skipRules   []contract.SkipRule
	importRules []contract.ImportRule
	subRules    []contract.SubstitutionRule
	opts        Options
	log         *diag.Logger

	cache  map[trace.SourceID]trace.String
	rec    *Recorder
	macros rules.MacroExpander
}

// New builds an Expander. log may be nil to disable macro-overflow
// warnings entirely.
func New(finder contract.FileFinder, skip []contract.SkipRule, imports []contract.ImportRule, subs []contract.SubstitutionRule, opts Options, log *diag.Logger) *Expander {
	return &Expander{
		finder:      finder,
		skipRules:   skip,
		importRules: imports,
		subRules:    subs,
		opts:        opts,
		log:         log,
		cache:       map[trace.SourceID]trace.String{},
		rec:         newRecorder(),
	}
}

// Expand runs C7 against rootID/rootContent and returns the fully expanded
// traceable string plus the structure map (C8).
func (e *Expander) Expand(rootID trace.SourceID, rootContent []byte) (trace.String, map[trace.SourceID]Entry, error) {
	ts, err := e.expandSource(rootID, rootContent, []trace.SourceID{rootID})
	if err != nil {
		return trace.String{}, nil, err
	}
	ts, err = e.applySubstitutions(ts)
	if err != nil {
		return trace.String{}, nil, err
	}
	return ts, e.rec.Snapshot(), nil
}

func (e *Expander) expandSource(id trace.SourceID, content []byte, ancestors []trace.SourceID) (trace.String, error) {
	e.rec.ensure(id, content)

	term := diag.GetTerminal()
	term.SourceStart(string(id))
	defer term.SourceFinish()

	sidPtr := id
	ts := trace.FromSource(string(content), &sidPtr, 0)

	ts, err := e.applySkips(ts)
	if err != nil {
		return trace.String{}, err
	}

	for {
		matches, err := e.collectImports(ts)
		if err != nil {
			return trace.String{}, err
		}
		if len(matches) == 0 {
			break
		}
		ts, err = e.spliceImports(ts, id, ancestors, matches)
		if err != nil {
			return trace.String{}, err
		}
	}
	return ts, nil
}

func (e *Expander) applySkips(ts trace.String) (trace.String, error) {
	var fns []rewrite.SkipRuleFn
	for _, r := range e.skipRules {
		r := r
		fns = append(fns, func(content string) ([]rewrite.Match, error) {
			ms, err := r.FindAll(content)
			if err != nil {
				return nil, err
			}
			out := make([]rewrite.Match, len(ms))
			for i, m := range ms {
				out[i] = rewrite.Match{Range: m.Range}
			}
			return out, nil
		})
	}
	return rewrite.ApplySkip(ts, fns)
}

func (e *Expander) collectImports(ts trace.String) ([]contract.ImportMatch, error) {
	var all []contract.ImportMatch
	for _, r := range e.importRules {
		ms, err := r.FindAll(ts.String())
		if err != nil {
			return nil, err
		}
		all = append(all, ms...)
	}
	return all, nil
}

func (e *Expander) spliceImports(ts trace.String, callingSource trace.SourceID, ancestors []trace.SourceID, matches []contract.ImportMatch) (trace.String, error) {
	sorted := make([]contract.ImportMatch, len(matches))
	copy(sorted, matches)
	sortImportMatches(sorted)
	for i := 0; i+1 < len(sorted); i++ {
		if sorted[i].Range.Overlaps(sorted[i+1].Range) {
			a, b := sorted[i].Range, sorted[i+1].Range
			return trace.String{}, ferrors.NewOverlappingMatches("import", a.Begin, a.End, b.Begin, b.End)
		}
	}

	result := trace.Empty()
	cursor := 0
	for _, m := range sorted {
		kept, err := ts.Slice(cursor, m.Range.Begin)
		if err != nil {
			return trace.String{}, err
		}
		result = result.Concat(kept)

		rep, err := e.resolveOne(callingSource, ancestors, m)
		if err != nil {
			return trace.String{}, err
		}
		result = result.Concat(rep)
		cursor = m.Range.End
	}
	tail, err := ts.Slice(cursor, ts.Len())
	if err != nil {
		return trace.String{}, err
	}
	return result.Concat(tail), nil
}

func (e *Expander) resolveOne(callingSource trace.SourceID, ancestors []trace.SourceID, m contract.ImportMatch) (trace.String, error) {
	targetID, content, err := e.finder.Resolve(m.Path, callingSource)
	if err != nil {
		return trace.String{}, err
	}
	for _, a := range ancestors {
		if a == targetID {
			cycle := append(append([]trace.SourceID{}, ancestors...), targetID)
			return trace.String{}, ferrors.NewImportCycle(sourceIDsToStrings(cycle))
		}
	}
	e.rec.addEdge(callingSource, targetID)

	if cached, ok := e.cache[targetID]; ok {
		return cached, nil
	}
	sub, err := e.expandSource(targetID, content, append(append([]trace.SourceID{}, ancestors...), targetID))
	if err != nil {
		return trace.String{}, err
	}
	e.cache[targetID] = sub
	return sub, nil
}

func (e *Expander) applySubstitutions(ts trace.String) (trace.String, error) {
	var fns []rewrite.SubstitutionRuleFn
	for _, r := range e.subRules {
		r := r
		fns = append(fns, func(ts trace.String) ([]rewrite.SubstitutionMatch, error) {
			ms, err := r.FindAll(ts)
			if err != nil {
				return nil, err
			}
			out := make([]rewrite.SubstitutionMatch, len(ms))
			for i, m := range ms {
				out[i] = rewrite.SubstitutionMatch{Range: m.Range, Replacement: m.Replacement}
			}
			return out, nil
		})
	}
	ts, err := rewrite.ApplySubstitution(ts, fns)
	if err != nil {
		return trace.String{}, err
	}

	if !e.opts.EnableNewcmd {
		return ts, nil
	}
	result, err := e.macros.Expand(ts)
	if err != nil {
		if !isMacroRecursionLimit(err) {
			return trace.String{}, err
		}
		if e.log != nil {
			e.log.Warn("expand", "macro expansion pass cap reached; leaving remaining call sites untouched", map[string]string{
				"unexpanded": joinComma(result.UnexpandedLog),
			})
		}
	}
	return result.Text, nil
}

func isMacroRecursionLimit(err error) bool {
	return errors.Is(err, ferrors.ErrMacroRecursionLimit)
}

func sortImportMatches(ms []contract.ImportMatch) {
	for i := 1; i < len(ms); i++ {
		for j := i; j > 0 && ms[j-1].Range.Begin > ms[j].Range.Begin; j-- {
			ms[j-1], ms[j] = ms[j], ms[j-1]
		}
	}
}

func sourceIDsToStrings(ids []trace.SourceID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func joinComma(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += ","
		}
		out += s
	}
	return out
}
