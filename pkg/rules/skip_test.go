package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlachtexSkipRuleBasicBlock(t *testing.T) {
	content := "before\n%%FLACHTEX-SKIP-START\nhidden\n%%FLACHTEX-SKIP-STOP\nafter"
	ms, err := FlachtexSkipRule{}.FindAll(content)
	require.NoError(t, err)
	require.Len(t, ms, 1)
	require.Equal(t, "hidden\n%%FLACHTEX-SKIP-STOP", content[ms[0].Range.Begin+len("%%FLACHTEX-SKIP-START\n"):ms[0].Range.End])
}

func TestFlachtexSkipRuleMultipleBlocks(t *testing.T) {
	content := "%%FLACHTEX-SKIP-START\na\n%%FLACHTEX-SKIP-STOP\nkeep\n%%FLACHTEX-SKIP-START\nb\n%%FLACHTEX-SKIP-STOP"
	ms, err := FlachtexSkipRule{}.FindAll(content)
	require.NoError(t, err)
	require.Len(t, ms, 2)
	require.True(t, ms[0].Range.Begin < ms[1].Range.Begin)
}

func TestFlachtexSkipRuleRejectsNestedStart(t *testing.T) {
	content := "%%FLACHTEX-SKIP-START\n%%FLACHTEX-SKIP-START\n%%FLACHTEX-SKIP-STOP"
	_, err := FlachtexSkipRule{}.FindAll(content)
	require.Error(t, err)
}

func TestFlachtexSkipRuleRejectsStopWithoutStart(t *testing.T) {
	_, err := FlachtexSkipRule{}.FindAll("text\n%%FLACHTEX-SKIP-STOP\n")
	require.Error(t, err)
}

func TestFlachtexSkipRuleRejectsUnclosedStart(t *testing.T) {
	_, err := FlachtexSkipRule{}.FindAll("%%FLACHTEX-SKIP-START\nhidden")
	require.Error(t, err)
}

func TestFlachtexSkipRuleNoMarkers(t *testing.T) {
	ms, err := FlachtexSkipRule{}.FindAll("plain text with no markers at all")
	require.NoError(t, err)
	require.Empty(t, ms)
}
