package trace

import (
	"encoding/json"
	"sort"

	"flachtex/pkg/ferrors"
)

// String is an immutable byte buffer paired with an origin partition: a
// sorted, non-overlapping, gap-free list of Segments covering [0, Len()).
// Every operation below reconstructs this partition rather than mutating it
// in place, so a String handed to a caller never changes under them.
type String struct {
	content  string
	segments []Segment
}

// Empty returns the zero-length traceable string.
func Empty() String { return String{} }

// FromSource builds a String whose entire content is attributed to source
// at consecutive offsets starting at offset. Pass a nil source to build
// generated (⊥) text instead.
func FromSource(content string, source *SourceID, offset int) String {
	if len(content) == 0 {
		return Empty()
	}
	return String{
		content:  content,
		segments: []Segment{{Begin: 0, End: len(content), Source: source, Offset: offset}},
	}
}

// Generated builds a String of generated text with no provenance.
func Generated(content string) String {
	return FromSource(content, nil, 0)
}

// Len returns the number of bytes in the string.
func (s String) Len() int { return len(s.content) }

// String returns the raw bytes as a Go string.
func (s String) String() string { return s.content }

// Bytes returns the raw bytes.
func (s String) Bytes() []byte { return []byte(s.content) }

// At returns the byte at index i.
func (s String) At(i int) (byte, error) {
	if i < 0 || i >= len(s.content) {
		return 0, ferrors.NewIndexOutOfRange(i, len(s.content))
	}
	return s.content[i], nil
}

// segmentAt returns the index of the segment containing byte i.
func (s String) segmentAt(i int) int {
	return sort.Search(len(s.segments), func(k int) bool { return s.segments[k].End > i })
}

// Slice returns the sub-string [begin, end), with every origin segment
// clipped and rebased per the Merge Rule (cut_front/cut_back in the
// original terminology).
func (s String) Slice(begin, end int) (String, error) {
	if begin < 0 || end > len(s.content) || begin > end {
		return String{}, ferrors.NewIndexOutOfRange(end, len(s.content))
	}
	if begin == end {
		return Empty(), nil
	}
	out := make([]Segment, 0, 4)
	for _, seg := range s.segments {
		if seg.End <= begin {
			continue
		}
		if seg.Begin >= end {
			break
		}
		clipped, ok := seg.clip(begin, end)
		if ok {
			out = append(out, clipped)
		}
	}
	return String{content: s.content[begin:end], segments: coalesce(out)}, nil
}

// Concat appends other after s, shifting other's segments by Len(s) and
// coalescing the seam between the two origin partitions.
func (s String) Concat(other String) String {
	if s.Len() == 0 {
		return other
	}
	if other.Len() == 0 {
		return s
	}
	segs := make([]Segment, 0, len(s.segments)+len(other.segments))
	segs = append(segs, s.segments...)
	n := s.Len()
	for _, seg := range other.segments {
		segs = append(segs, seg.shift(n))
	}
	return String{content: s.content + other.content, segments: coalesce(segs)}
}

// Origin is the result of a provenance lookup: either (Source, Offset) for a
// byte that came from an input document, or Generated=true for ⊥.
type Origin struct {
	Source    SourceID
	Offset    int
	Generated bool
}

// GetOrigin returns the origin of byte i.
func (s String) GetOrigin(i int) (Origin, error) {
	if i < 0 || i >= len(s.content) {
		return Origin{}, ferrors.NewIndexOutOfRange(i, len(s.content))
	}
	seg := s.segments[s.segmentAt(i)]
	if seg.Generated() {
		return Origin{Generated: true}, nil
	}
	return Origin{Source: *seg.Source, Offset: seg.Offset + (i - seg.Begin)}, nil
}

func (s String) lineIndex() []int {
	idx := []int{0}
	for i := 0; i < len(s.content); i++ {
		if s.content[i] == '\n' {
			idx = append(idx, i+1)
		}
	}
	return idx
}

// GetOriginOfLine returns the origin of the byte at zero-based (line, col).
func (s String) GetOriginOfLine(line, col int) (Origin, error) {
	idx := s.lineIndex()
	if line < 0 || line >= len(idx) {
		return Origin{}, ferrors.NewIndexOutOfRange(line, len(idx))
	}
	return s.GetOrigin(idx[line] + col)
}

// jsonSegment is the wire representation of one Segment: field name
// "origin" (singular) instead of the internal "Source", and a null origin
// for generated text.
type jsonSegment struct {
	Begin  int     `json:"begin"`
	End    int     `json:"end"`
	Origin *string `json:"origin"`
	Offset int     `json:"offset"`
}

// Envelope is the minimal wire form of a String: content plus its origin
// segments. The CLI layer wraps this with an optional "sources" map.
type Envelope struct {
	Content string        `json:"content"`
	Origins []jsonSegment `json:"origins"`
}

// ToJSON projects s onto its wire envelope.
func (s String) ToJSON() Envelope {
	origins := make([]jsonSegment, 0, len(s.segments))
	for _, seg := range s.segments {
		js := jsonSegment{Begin: seg.Begin, End: seg.End, Offset: seg.Offset}
		if !seg.Generated() {
			v := string(*seg.Source)
			js.Origin = &v
		}
		origins = append(origins, js)
	}
	return Envelope{Content: s.content, Origins: origins}
}

// MarshalJSON lets String be embedded directly in a larger payload.
func (s String) MarshalJSON() ([]byte, error) { return json.Marshal(s.ToJSON()) }

// FromJSON rebuilds a String from its wire envelope, validating the origin
// segment invariants (partition of [0, len(content)), non-decreasing,
// non-overlapping, no zero-length segments).
func FromJSON(env Envelope) (String, error) {
	segs := make([]Segment, 0, len(env.Origins))
	cursor := 0
	for _, js := range env.Origins {
		if js.Begin != cursor {
			return String{}, ferrors.NewMalformedEnvelope("origin segments do not partition the content without gaps")
		}
		if js.End <= js.Begin {
			return String{}, ferrors.NewMalformedEnvelope("zero or negative length origin segment")
		}
		seg := Segment{Begin: js.Begin, End: js.End, Offset: js.Offset}
		if js.Origin != nil {
			v := SourceID(*js.Origin)
			seg.Source = &v
		}
		segs = append(segs, seg)
		cursor = js.End
	}
	if cursor != len(env.Content) {
		return String{}, ferrors.NewMalformedEnvelope("origin segments do not cover the full content")
	}
	return String{content: env.Content, segments: segs}, nil
}
