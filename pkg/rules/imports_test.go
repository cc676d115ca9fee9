package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNativeImportRuleInput(t *testing.T) {
	ms, err := NativeImportRule{}.FindAll("intro\n\\input{chapters/one}\nmore")
	require.NoError(t, err)
	require.Len(t, ms, 1)
	require.Equal(t, "chapters/one", ms[0].Path)
}

func TestNativeImportRuleInclude(t *testing.T) {
	ms, err := NativeImportRule{}.FindAll("before\n\\include{sections/intro}\nafter")
	require.NoError(t, err)
	require.Len(t, ms, 1)
	require.Equal(t, "sections/intro", ms[0].Path)
}

func TestNativeImportRuleRejectsWhitespaceInPath(t *testing.T) {
	ms, err := NativeImportRule{}.FindAll("\\input{ typo path }")
	require.NoError(t, err)
	require.Empty(t, ms)
}

func TestNativeImportRuleIgnoresCommentedLine(t *testing.T) {
	ms, err := NativeImportRule{}.FindAll("% \\input{skip.tex}\nreal")
	require.NoError(t, err)
	require.Empty(t, ms)
}

func TestSubimportRuleJoinsDirAndFile(t *testing.T) {
	ms, err := SubimportRule{}.FindAll("\\subimport{chapters/}{one}")
	require.NoError(t, err)
	require.Len(t, ms, 1)
	require.Equal(t, "chapters/one", ms[0].Path)
}

func TestSubimportRuleStarredVariant(t *testing.T) {
	ms, err := SubimportRule{}.FindAll("\\subimport*{chapters/}{one}")
	require.NoError(t, err)
	require.Len(t, ms, 1)
	require.Equal(t, "chapters/one", ms[0].Path)
}

func TestExplicitImportRuleBracketDelimited(t *testing.T) {
	ms, err := ExplicitImportRule{}.FindAll("%%FLACHTEX-EXPLICIT-IMPORT[generated/macros.tex]\n")
	require.NoError(t, err)
	require.Len(t, ms, 1)
	require.Equal(t, "generated/macros.tex", ms[0].Path)
}

func TestExplicitImportRuleNoMatchWithoutMarker(t *testing.T) {
	ms, err := ExplicitImportRule{}.FindAll("just text")
	require.NoError(t, err)
	require.Empty(t, ms)
}
