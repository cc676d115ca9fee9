package rewrite

import (
	"testing"

	"github.com/stretchr/testify/require"

	"flachtex/pkg/span"
	"flachtex/pkg/trace"
)

func TestApplySkipRemovesMatchesAndKeepsProvenance(t *testing.T) {
	id := trace.SourceID("main.tex")
	ts := trace.FromSource("abcXXXdef", &id, 0)
	skip := SkipRuleFn(func(content string) ([]Match, error) {
		return []Match{{Range: span.Range{Begin: 3, End: 6}}}, nil
	})
	out, err := ApplySkip(ts, []SkipRuleFn{skip})
	require.NoError(t, err)
	require.Equal(t, "abcdef", out.String())
	o, err := out.GetOrigin(3)
	require.NoError(t, err)
	require.Equal(t, trace.Origin{Source: id, Offset: 6}, o)
}

func TestApplySkipRejectsOverlap(t *testing.T) {
	ts := trace.Generated("abcdef")
	r1 := SkipRuleFn(func(string) ([]Match, error) { return []Match{{Range: span.Range{Begin: 0, End: 3}}}, nil })
	r2 := SkipRuleFn(func(string) ([]Match, error) { return []Match{{Range: span.Range{Begin: 2, End: 5}}}, nil })
	_, err := ApplySkip(ts, []SkipRuleFn{r1, r2})
	require.Error(t, err)
}

func TestApplySubstitutionReplacesWithInheritedOrigin(t *testing.T) {
	id := trace.SourceID("main.tex")
	ts := trace.FromSource("\\added{X}rest", &id, 0)
	payload, err := ts.Slice(7, 8) // "X"
	require.NoError(t, err)
	rule := SubstitutionRuleFn(func(trace.String) ([]SubstitutionMatch, error) {
		return []SubstitutionMatch{{Range: span.Range{Begin: 0, End: 9}, Replacement: payload}}, nil
	})
	out, err := ApplySubstitution(ts, []SubstitutionRuleFn{rule})
	require.NoError(t, err)
	require.Equal(t, "Xrest", out.String())
	o, err := out.GetOrigin(0)
	require.NoError(t, err)
	require.Equal(t, trace.Origin{Source: id, Offset: 7}, o)
}

func TestApplySubstitutionRejectsOverlap(t *testing.T) {
	ts := trace.Generated("abcdef")
	r1 := SubstitutionRuleFn(func(trace.String) ([]SubstitutionMatch, error) {
		return []SubstitutionMatch{{Range: span.Range{Begin: 0, End: 3}, Replacement: trace.Empty()}}, nil
	})
	r2 := SubstitutionRuleFn(func(trace.String) ([]SubstitutionMatch, error) {
		return []SubstitutionMatch{{Range: span.Range{Begin: 2, End: 4}, Replacement: trace.Empty()}}, nil
	})
	_, err := ApplySubstitution(ts, []SubstitutionRuleFn{r1, r2})
	require.Error(t, err)
}

func TestSpliceNoMatchesReturnsInputUnchanged(t *testing.T) {
	ts := trace.Generated("abc")
	out, err := Splice(ts, "skip", nil, nil)
	require.NoError(t, err)
	require.Equal(t, ts, out)
}
