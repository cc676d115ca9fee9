package rules

import (
	"flachtex/pkg/contract"
	"flachtex/pkg/span"
	"flachtex/pkg/trace"
)

// ChangesRule rewrites the canonical changes-package markup: \added,
// \deleted, and \replaced. \highlight and \comment are not part of this
// canonical set and are deliberately left unhandled. With Prefix set to
// "ch", the commands searched for become \chadded, \chdeleted,
// \chreplaced, matching the changes package's alternate command family.
type ChangesRule struct {
	Prefix string
}

func (r ChangesRule) names() (added, deleted, replaced string) {
	return r.Prefix + "added", r.Prefix + "deleted", r.Prefix + "replaced"
}

func (r ChangesRule) FindAll(ts trace.String) ([]contract.Substitution, error) {
	added, deleted, replaced := r.names()
	f := newCommandFinder(false)
	f.addCommand(added, 1, 1)
	f.addCommand(deleted, 1, 1)
	f.addCommand(replaced, 2, 1)

	var out []contract.Substitution
	for _, m := range f.findAll(ts.String()) {
		rep, err := r.replacement(ts, m, added, deleted)
		if err != nil {
			return nil, err
		}
		out = append(out, contract.Substitution{
			Range:       span.Range{Begin: m.start, End: m.end},
			Replacement: rep,
		})
	}
	return out, nil
}

func (r ChangesRule) replacement(ts trace.String, m commandMatch, added, deleted string) (trace.String, error) {
	switch m.name {
	case added:
		return ts.Slice(m.params[0].begin, m.params[0].end)
	case deleted:
		return trace.Empty(), nil
	default: // replaced: keep the new text, drop the old text
		return ts.Slice(m.params[0].begin, m.params[0].end)
	}
}
