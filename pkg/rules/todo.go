package rules

import (
	"flachtex/pkg/contract"
	"flachtex/pkg/span"
	"flachtex/pkg/trace"
)

// TodoRule removes \todo{text} and \todo[options]{text} entirely,
// including the optional bracketed options group, replacing each
// occurrence with generated empty text.
type TodoRule struct{}

func (TodoRule) FindAll(ts trace.String) ([]contract.Substitution, error) {
	f := newCommandFinder(false)
	f.addCommand("todo", 1, 1)

	var out []contract.Substitution
	for _, m := range f.findAll(ts.String()) {
		out = append(out, contract.Substitution{
			Range:       span.Range{Begin: m.start, End: m.end},
			Replacement: trace.Empty(),
		})
	}
	return out, nil
}
