package rules

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"flachtex/pkg/ferrors"
	"flachtex/pkg/span"
	"flachtex/pkg/trace"
)

// macroDef is one \newcommand/\renewcommand definition: how many mandatory
// arguments it takes, and its body with #1..#9 placeholder positions
// recorded so a call site's argument text can be spliced back in.
type macroDef struct {
	arity        int
	body         string
	placeholders []placeholder
	endsXspace   bool
}

type placeholder struct {
	begin, end int // half-open span of "#k" within body
	arg        int // 1-indexed argument number
}

var placeholderRe = regexp.MustCompile(`#([1-9])`)

func newMacroDef(arity int, body string) macroDef {
	var ps []placeholder
	for _, m := range placeholderRe.FindAllStringSubmatchIndex(body, -1) {
		n, _ := strconv.Atoi(body[m[2]:m[3]])
		ps = append(ps, placeholder{begin: m[0], end: m[1], arg: n})
	}
	return macroDef{
		arity:        arity,
		body:         body,
		placeholders: ps,
		endsXspace:   strings.HasSuffix(strings.TrimRight(body, " \t"), `\xspace`),
	}
}

// MacroExpander implements the \newcommand/\renewcommand expansion pass
// (C9): a first scan collects definitions, discarding the definition sites
// themselves, then repeated scans rewrite call sites of the collected
// names, substituting #1..#9 with the call's own argument text (using
// LaTeX's 1-indexed convention) until no more expansions occur or the pass
// cap is reached. Call sites of a macro taking zero arguments, used as a
// bare control word, also swallow one following whitespace character, as
// real LaTeX does — unless the macro's body itself ends in \xspace, which
// already decides on its own whether to emit a trailing space.
type MacroExpander struct {
	MaxPasses int
}

const defaultMaxMacroPasses = 16

// ExpandResult reports, alongside the rewritten text, any macro call sites
// that were still present after the pass cap was hit.
type ExpandResult struct {
	Text          trace.String
	UnexpandedLog []string
}

func (e MacroExpander) maxPasses() int {
	if e.MaxPasses > 0 {
		return e.MaxPasses
	}
	return defaultMaxMacroPasses
}

// Expand runs the definition scan followed by the fixed-point call-site
// rewrite. If the cap is reached with macro calls still present, those call
// sites are left untouched and listed in ExpandResult.UnexpandedLog, and
// the returned error wraps ferrors.ErrMacroRecursionLimit while Text still
// holds the usable, partially expanded result.
func (e MacroExpander) Expand(ts trace.String) (ExpandResult, error) {
	ts, defs, err := e.stripDefinitions(ts)
	if err != nil {
		return ExpandResult{}, err
	}
	if len(defs) == 0 {
		return ExpandResult{Text: ts}, nil
	}

	finder := newCommandFinder(true)
	names := make([]string, 0, len(defs))
	for name, d := range defs {
		finder.addCommand(name, d.arity, 0)
		names = append(names, name)
	}
	sort.Strings(names)

	passes := e.maxPasses()
	for pass := 0; pass < passes; pass++ {
		matches := finder.findAll(ts.String())
		if len(matches) == 0 {
			return ExpandResult{Text: ts}, nil
		}
		next, err := e.expandOnce(ts, defs, matches)
		if err != nil {
			return ExpandResult{}, err
		}
		ts = next
	}

	var leftover []string
	for _, m := range finder.findAll(ts.String()) {
		leftover = append(leftover, m.name)
	}
	if len(leftover) > 0 {
		return ExpandResult{Text: ts, UnexpandedLog: leftover}, ferrors.NewMacroRecursionLimit(strings.Join(leftover, ","), passes)
	}
	return ExpandResult{Text: ts}, nil
}

func (e MacroExpander) stripDefinitions(ts trace.String) (trace.String, map[string]macroDef, error) {
	finder := newCommandFinder(true)
	for _, n := range []string{"newcommand", "renewcommand", "newcommand*", "renewcommand*"} {
		finder.addCommand(n, 2, 1)
	}
	matches := finder.findAll(ts.String())
	if len(matches) == 0 {
		return ts, nil, nil
	}

	defs := map[string]macroDef{}
	var cuts []span.Range
	content := ts.String()
	for _, m := range matches {
		nameText := strings.TrimPrefix(content[m.params[0].begin:m.params[0].end], `\`)
		bodyText := content[m.params[1].begin:m.params[1].end]
		arity := 0
		if m.optParams[0].present {
			n, err := strconv.Atoi(strings.TrimSpace(content[m.optParams[0].begin:m.optParams[0].end]))
			if err == nil {
				arity = n
			}
		}
		defs[nameText] = newMacroDef(arity, bodyText)
		cuts = append(cuts, span.Range{Begin: m.start, End: m.end})
	}

	result := trace.Empty()
	cursor := 0
	for _, c := range cuts {
		kept, err := ts.Slice(cursor, c.Begin)
		if err != nil {
			return trace.String{}, nil, err
		}
		result = result.Concat(kept)
		cursor = c.End
	}
	tail, err := ts.Slice(cursor, ts.Len())
	if err != nil {
		return trace.String{}, nil, err
	}
	return result.Concat(tail), defs, nil
}

func (e MacroExpander) expandOnce(ts trace.String, defs map[string]macroDef, matches []commandMatch) (trace.String, error) {
	content := ts.String()
	result := trace.Empty()
	cursor := 0
	for _, m := range matches {
		kept, err := ts.Slice(cursor, m.start)
		if err != nil {
			return trace.String{}, err
		}
		result = result.Concat(kept)

		def := defs[m.name]
		rep, err := e.substituteBody(ts, def, m)
		if err != nil {
			return trace.String{}, err
		}
		result = result.Concat(rep)

		end := m.end
		if def.arity == 0 && !def.endsXspace && end < len(content) && isEatableSpace(content[end]) {
			end++
		}
		cursor = end
	}
	tail, err := ts.Slice(cursor, ts.Len())
	if err != nil {
		return trace.String{}, err
	}
	return result.Concat(tail), nil
}

func isEatableSpace(c byte) bool { return c == ' ' || c == '\t' }

func (e MacroExpander) substituteBody(ts trace.String, def macroDef, m commandMatch) (trace.String, error) {
	out := trace.Empty()
	cursor := 0
	for _, p := range def.placeholders {
		out = out.Concat(trace.Generated(def.body[cursor:p.begin]))
		if p.arg-1 < len(m.params) {
			arg, err := ts.Slice(m.params[p.arg-1].begin, m.params[p.arg-1].end)
			if err != nil {
				return trace.String{}, err
			}
			out = out.Concat(arg)
		}
		cursor = p.end
	}
	out = out.Concat(trace.Generated(def.body[cursor:]))
	return out, nil
}
