// Package trace implements the traceable string: an immutable byte buffer
// annotated with an origin segment list so that every character can be
// traced back to the (source, offset) it came from, or to no source at all
// for text introduced by a rewrite rule.
package trace

// SourceID names a single input document. It is opaque to this package —
// callers decide whether it is a file path, a URL, or anything else.
type SourceID string

// Segment is one run of the origin partition: bytes [Begin, End) of the
// owning string all came from Source at consecutive offsets starting at
// Offset. Source == nil marks generated text (the bottom origin, written
// "⊥" in the design notes) that was not copied from any input.
type Segment struct {
	Begin, End int
	Source     *SourceID
	Offset     int
}

// Len returns the number of bytes the segment covers.
func (s Segment) Len() int { return s.End - s.Begin }

// Generated reports whether the segment has no source (⊥).
func (s Segment) Generated() bool { return s.Source == nil }

// sameOrigin reports whether two segments have the same origin kind: both
// ⊥, or both the same source. It does not look at offsets; adjacentOrigin
// adds that check.
func sameOrigin(a, b Segment) bool {
	if a.Generated() != b.Generated() {
		return false
	}
	if a.Generated() {
		return true
	}
	return *a.Source == *b.Source
}

// adjacentOrigin reports whether b continues a's run in the origin space,
// i.e. whether the two segments can be merged into one without changing
// what GetOrigin reports for any byte (the Merge Rule invariant).
func adjacentOrigin(a, b Segment) bool {
	if !sameOrigin(a, b) {
		return false
	}
	if a.Generated() {
		return true
	}
	return a.Offset+a.Len() == b.Offset
}

// clip returns the portion of s visible within [lo, hi), rebased so Begin/End
// are relative to lo, or ok=false if the segment does not intersect the
// range at all.
func (s Segment) clip(lo, hi int) (Segment, bool) {
	b, e := max(s.Begin, lo), min(s.End, hi)
	if b >= e {
		return Segment{}, false
	}
	cut := b - s.Begin
	return Segment{
		Begin:  b - lo,
		End:    e - lo,
		Source: s.Source,
		Offset: s.Offset + cut,
	}, true
}

// shift translates a segment by n bytes, used when appending one string's
// segments after another's during Concat.
func (s Segment) shift(n int) Segment {
	s.Begin += n
	s.End += n
	return s
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// coalesce merges adjacent segments that share an origin run, preserving
// the partition invariant while collapsing runs that invariant 4 requires
// to be a single segment.
func coalesce(segs []Segment) []Segment {
	if len(segs) == 0 {
		return segs
	}
	out := make([]Segment, 0, len(segs))
	cur := segs[0]
	for _, s := range segs[1:] {
		if cur.End == s.Begin && adjacentOrigin(cur, s) {
			cur.End = s.End
			continue
		}
		out = append(out, cur)
		cur = s
	}
	return append(out, cur)
}
