// Package registry assembles the ordered rule lists an expansion run
// applies: skip rules before import rules before substitution rules, per
// the engine's fixed pipeline order.
package registry

import (
	"flachtex/pkg/contract"
	"flachtex/pkg/rules"
)

// Options selects which optional substitution rules participate, mirroring
// the command-line surface's feature flags.
type Options struct {
	EnableComments bool
	EnableChanges  bool
	ChangesPrefix  string
	EnableTodos    bool
}

// SkipRules returns the skip stage: %%FLACHTEX-SKIP blocks are always on;
// comment stripping (C3) joins the same stage when requested, so a
// commented-out \input in an included file is stripped before that
// file's own imports are resolved, exactly as an uncommented skip block
// would be.
func SkipRules(opts Options) []contract.SkipRule {
	out := []contract.SkipRule{rules.FlachtexSkipRule{}}
	if opts.EnableComments {
		out = append(out, rules.CommentSkipRule{})
	}
	return out
}

// ImportRules returns the always-on import stage, explicit imports listed
// first. The expander merges the matches of all three rules, sorts them by
// position and rejects overlaps, so list order does not make one rule take
// precedence over another.
func ImportRules() []contract.ImportRule {
	return []contract.ImportRule{
		rules.ExplicitImportRule{},
		rules.NativeImportRule{},
		rules.SubimportRule{},
	}
}

// SubstitutionRules returns the optional single-pass substitution stage
// per opts. \newcommand expansion is not included here: it is iterative
// and owned directly by the import expander rather than one splice pass.
func SubstitutionRules(opts Options) []contract.SubstitutionRule {
	var out []contract.SubstitutionRule
	if opts.EnableChanges {
		out = append(out, rules.ChangesRule{Prefix: opts.ChangesPrefix})
	}
	if opts.EnableTodos {
		out = append(out, rules.TodoRule{})
	}
	return out
}
