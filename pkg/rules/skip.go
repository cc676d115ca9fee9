package rules

import (
	"regexp"

	"flachtex/pkg/contract"
	"flachtex/pkg/ferrors"
	"flachtex/pkg/span"
)

var (
	skipStartRe = regexp.MustCompile(`(?m)^[ \t]*%%FLACHTEX-SKIP-START`)
	skipStopRe  = regexp.MustCompile(`(?m)^[ \t]*%%FLACHTEX-SKIP-STOP`)
)

// FlachtexSkipRule matches %%FLACHTEX-SKIP-START / %%FLACHTEX-SKIP-STOP
// blocks. A match spans from the first character of the START marker's
// line through the last character of the matching STOP marker (not
// including its trailing newline, so a blank line survives where the block
// used to be). Nesting is rejected as a SkipMismatch.
type FlachtexSkipRule struct{}

type marker struct {
	pos   int
	end   int
	start bool
}

func (FlachtexSkipRule) FindAll(content string) ([]contract.SkipMatch, error) {
	var markers []marker
	for _, m := range skipStartRe.FindAllStringIndex(content, -1) {
		markers = append(markers, marker{pos: m[0], end: m[1], start: true})
	}
	for _, m := range skipStopRe.FindAllStringIndex(content, -1) {
		markers = append(markers, marker{pos: m[0], end: m[1], start: false})
	}
	sortMarkers(markers)

	var matches []contract.SkipMatch
	open := false
	var openPos int
	for _, mk := range markers {
		if mk.start {
			if open {
				return nil, ferrors.NewSkipMismatch("nested %%FLACHTEX-SKIP-START", mk.pos)
			}
			open = true
			openPos = mk.pos
			continue
		}
		if !open {
			return nil, ferrors.NewSkipMismatch("%%FLACHTEX-SKIP-STOP without a matching START", mk.pos)
		}
		open = false
		matches = append(matches, contract.SkipMatch{Range: span.Range{Begin: openPos, End: mk.end}})
	}
	if open {
		return nil, ferrors.NewSkipMismatch("%%FLACHTEX-SKIP-START without a matching STOP", openPos)
	}
	return matches, nil
}

func sortMarkers(ms []marker) {
	for i := 1; i < len(ms); i++ {
		for j := i; j > 0 && ms[j-1].pos > ms[j].pos; j-- {
			ms[j-1], ms[j] = ms[j], ms[j-1]
		}
	}
}
