package rules

import (
	"flachtex/pkg/contract"
	"flachtex/pkg/span"
)

// CommentSkipRule removes LaTeX line comments: an unescaped '%' through the
// end of its line, not including the newline itself, so the line break
// that separated the comment from the next line survives. It walks the
// source with the same escape-tracking cursor the command scanner uses,
// rather than a regular expression, so a "\%" never starts a comment.
type CommentSkipRule struct{}

func (CommentSkipRule) FindAll(content string) ([]contract.SkipMatch, error) {
	var out []contract.SkipMatch
	s := newLatexStream(content, 0)
	commentStart := -1
	for s.hasNext() {
		wasInComment := s.inComment
		pos := s.pos
		c := s.next()
		if !wasInComment && s.inComment {
			commentStart = pos
		}
		if wasInComment && !s.inComment {
			out = append(out, contract.SkipMatch{Range: span.Range{Begin: commentStart, End: pos}})
		}
		_ = c
	}
	if s.inComment {
		out = append(out, contract.SkipMatch{Range: span.Range{Begin: commentStart, End: len(content)}})
	}
	return out, nil
}
