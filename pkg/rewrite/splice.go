// Package rewrite implements the single mechanism every rule category rides
// on: sort a list of non-overlapping matches, then rebuild a traceable
// string by slicing the kept spans and concatenating a replacement for each
// match, in position order.
package rewrite

import (
	"sort"

	"flachtex/pkg/ferrors"
	"flachtex/pkg/span"
	"flachtex/pkg/trace"
)

// Match is the byte range of one rule match. Splice hands each sorted
// Match, with its index in sorted order, to the Replacer.
type Match struct {
	Range span.Range
}

// Replacer returns the traceable string to substitute for the i-th sorted
// match (sorted by Range.Begin). It is only ever asked for each match once,
// in left-to-right order.
type Replacer func(i int, m Match) (trace.String, error)

// Splice sorts matches by Begin, rejects any pair that overlaps, and
// returns ts with each match's span replaced by Replacer's traceable
// string. Gaps between matches are kept verbatim via ts.Slice, so
// provenance outside the matched spans is untouched.
func Splice(ts trace.String, ruleKind string, matches []Match, replace Replacer) (trace.String, error) {
	if len(matches) == 0 {
		return ts, nil
	}
	sorted := make([]Match, len(matches))
	copy(sorted, matches)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Range.Less(sorted[j].Range) })

	for i := 0; i+1 < len(sorted); i++ {
		if sorted[i].Range.Overlaps(sorted[i+1].Range) {
			a, b := sorted[i].Range, sorted[i+1].Range
			return trace.String{}, ferrors.NewOverlappingMatches(ruleKind, a.Begin, a.End, b.Begin, b.End)
		}
	}

	result := trace.Empty()
	cursor := 0
	for i, m := range sorted {
		kept, err := ts.Slice(cursor, m.Range.Begin)
		if err != nil {
			return trace.String{}, err
		}
		result = result.Concat(kept)
		rep, err := replace(i, m)
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

// ApplySkip deletes every match returned by any rule in rules, rejecting
// overlaps across the combined match list.
func ApplySkip(ts trace.String, rules []SkipRuleFn) (trace.String, error) {
	var matches []Match
	for _, find := range rules {
		ms, err := find(ts.String())
		if err != nil {
			return trace.String{}, err
		}
		matches = append(matches, ms...)
	}
	return Splice(ts, "skip", matches, func(int, Match) (trace.String, error) {
		return trace.Empty(), nil
	})
}

// SkipRuleFn adapts a contract.SkipRule-shaped function to the matches this
// package sorts and splices.
type SkipRuleFn func(content string) ([]Match, error)

// SubstitutionRuleFn adapts a contract.SubstitutionRule-shaped function;
// each call returns matches paired with their own replacement text.
type SubstitutionRuleFn func(ts trace.String) ([]SubstitutionMatch, error)

// SubstitutionMatch is a substitution candidate together with its
// already-built replacement text.
type SubstitutionMatch struct {
	Range       span.Range
	Replacement trace.String
}

// ApplySubstitution replaces every match returned by any rule in rules with
// its associated replacement text, rejecting overlaps across the combined
// list.
func ApplySubstitution(ts trace.String, rules []SubstitutionRuleFn) (trace.String, error) {
	var all []SubstitutionMatch
	for _, find := range rules {
		ms, err := find(ts)
		if err != nil {
			return trace.String{}, err
		}
		all = append(all, ms...)
	}
	if len(all) == 0 {
		return ts, nil
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Range.Less(all[j].Range) })
	for i := 0; i+1 < len(all); i++ {
		if all[i].Range.Overlaps(all[i+1].Range) {
			a, b := all[i].Range, all[i+1].Range
			return trace.String{}, ferrors.NewOverlappingMatches("substitution", a.Begin, a.End, b.Begin, b.End)
		}
	}
	result := trace.Empty()
	cursor := 0
	for _, m := range all {
		kept, err := ts.Slice(cursor, m.Range.Begin)
		if err != nil {
			return trace.String{}, err
		}
		result = result.Concat(kept).Concat(m.Replacement)
		cursor = m.Range.End
	}
	tail, err := ts.Slice(cursor, ts.Len())
	if err != nil {
		return trace.String{}, err
	}
	return result.Concat(tail), nil
}
