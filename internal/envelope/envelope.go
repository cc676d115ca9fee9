// Package envelope builds the CLI's --to_json wire payload: the
// traceable string's own envelope, plus an optional "sources" map of raw
// source content requested by --attach.
package envelope

import (
	"encoding/json"

	"flachtex/internal/expand"
	"flachtex/pkg/trace"
)

// Document is the top-level JSON object emitted for --to_json.
type Document struct {
	trace.Envelope
	Sources map[string]string `json:"sources,omitempty"`
}

// Build projects ts to its wire envelope, attaching raw source contents
// from structure when attach is true.
func Build(ts trace.String, structure map[trace.SourceID]expand.Entry, attach bool) Document {
	doc := Document{Envelope: ts.ToJSON()}
	if !attach {
		return doc
	}
	doc.Sources = make(map[string]string, len(structure))
	for id, entry := range structure {
		doc.Sources[string(id)] = string(entry.Content)
	}
	return doc
}

// Marshal renders doc as indented JSON. encoding/json already emits
// map[string]string keys in sorted order, so the sources map comes out
// with a stable diff with no extra work here.
func Marshal(doc Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}
