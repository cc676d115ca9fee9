package envelope

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"flachtex/internal/expand"
	"flachtex/pkg/trace"
)

func TestBuildWithoutAttach(t *testing.T) {
	ts := trace.Generated("hello")
	doc := Build(ts, nil, false)
	require.Nil(t, doc.Sources)
	b, err := Marshal(doc)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	require.NotContains(t, out, "sources")
}

func TestBuildWithAttach(t *testing.T) {
	ts := trace.Generated("hello")
	structure := map[trace.SourceID]expand.Entry{
		"main.tex": {Content: []byte("root content")},
	}
	doc := Build(ts, structure, true)
	require.Equal(t, "root content", doc.Sources["main.tex"])
	b, err := Marshal(doc)
	require.NoError(t, err)
	require.Contains(t, string(b), `"sources"`)
}
