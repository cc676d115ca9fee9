package rules

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"flachtex/pkg/ferrors"
	"flachtex/pkg/trace"
)

func TestMacroExpanderSimpleSubstitution(t *testing.T) {
	ts := trace.Generated(`\newcommand{\greet}[1]{Hello, #1!} \greet{World}`)
	res, err := MacroExpander{}.Expand(ts)
	require.NoError(t, err)
	require.Equal(t, " Hello, World!", res.Text.String())
}

func TestMacroExpanderOutOfOrderPlaceholders(t *testing.T) {
	ts := trace.Generated(`\newcommand{\greet}[2]{#2, #1!}\greet{World}{Hello}`)
	res, err := MacroExpander{}.Expand(ts)
	require.NoError(t, err)
	require.Equal(t, "Hello, World!", res.Text.String())
}

func TestMacroExpanderZeroArityEatsTrailingSpace(t *testing.T) {
	ts := trace.Generated(`\newcommand{\name}{Bob}\name foo`)
	res, err := MacroExpander{}.Expand(ts)
	require.NoError(t, err)
	require.Equal(t, "Bobfoo", res.Text.String())
}

func TestMacroExpanderXspaceBodyKeepsTrailingSpace(t *testing.T) {
	ts := trace.Generated(`\newcommand{\name}{Bob\xspace}\name foo`)
	res, err := MacroExpander{}.Expand(ts)
	require.NoError(t, err)
	require.Equal(t, `Bob\xspace foo`, res.Text.String())
}

func TestMacroExpanderArgumentRetainsOwnProvenance(t *testing.T) {
	ts := trace.FromSource(`\newcommand{\greet}[1]{Hi #1!}\greet{World}`, srcPtrRules("doc.tex"), 0)
	res, err := MacroExpander{}.Expand(ts)
	require.NoError(t, err)
	idx := len("Hi ")
	o, err := res.Text.GetOrigin(idx)
	require.NoError(t, err)
	require.False(t, o.Generated)
}

func TestMacroExpanderNoDefinitionsIsNoop(t *testing.T) {
	ts := trace.Generated("plain text, no macros here")
	res, err := MacroExpander{}.Expand(ts)
	require.NoError(t, err)
	require.Equal(t, "plain text, no macros here", res.Text.String())
}

func TestMacroExpanderRecursionLimitIsNonFatal(t *testing.T) {
	ts := trace.Generated(`\newcommand{\loop}{\loop}\loop`)
	res, err := MacroExpander{MaxPasses: 2}.Expand(ts)
	require.Error(t, err)
	require.True(t, errors.Is(err, ferrors.ErrMacroRecursionLimit))
	require.NotEmpty(t, res.UnexpandedLog)
}

func srcPtrRules(s string) *trace.SourceID {
	id := trace.SourceID(s)
	return &id
}
