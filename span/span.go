// Package span implements Span, the data type every parsed node in this
// module embeds: a byte-range set locating a node's source bytes, paired
// with a direct view of those bytes.
package span

import "github.com/tlscontext/webtranscript/rangeset"

// Span binds a parsed node to the set of absolute byte positions it
// occupies in its source buffer, plus a direct view of those bytes.
//
// Indices is the only state that Offset may mutate after construction;
// everything else about a Span is fixed at construction time.
type Span struct {
	source  []byte
	Indices rangeset.Set
}

// New creates a Span over a contiguous byte range [start, end) of source.
func New(source []byte, start, end uint64) Span {
	return Span{
		source:  source[start:end],
		Indices: rangeset.FromSingle(start, end),
	}
}

// NewDisjoint creates a Span over a (possibly non-contiguous) set of
// indices into source. view must already equal the concatenation of the
// bytes named by indices, in index order; callers that materialize a
// composite span from contiguous sub-spans satisfy this automatically.
func NewDisjoint(view []byte, indices rangeset.Set) Span {
	return Span{source: view, Indices: indices}
}

// Bytes returns the raw bytes this span covers.
func (s Span) Bytes() []byte {
	return s.source
}

// Str returns the span's bytes interpreted as a string.
func (s Span) Str() string {
	return string(s.source)
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int {
	return len(s.source)
}

// IsEmpty reports whether the span covers zero bytes.
func (s Span) IsEmpty() bool {
	return len(s.source) == 0
}

// Offset shifts every index in the span by n. It is the only legal mutation
// of a Span after construction.
func (s *Span) Offset(n uint64) {
	shifted := make([]rangeset.Range, 0, len(s.Indices.Ranges()))
	for _, r := range s.Indices.Ranges() {
		shifted = append(shifted, rangeset.Range{Start: r.Start + n, End: r.End + n})
	}
	s.Indices = rangeset.New(shifted...)
}

// EqualBytes reports whether the span's bytes are byte-for-byte equal to b.
func (s Span) EqualBytes(b []byte) bool {
	if len(s.source) != len(b) {
		return false
	}
	for i := range s.source {
		if s.source[i] != b[i] {
			return false
		}
	}
	return true
}

// EqualString reports whether the span's bytes equal str.
func (s Span) EqualString(str string) bool {
	return s.Str() == str
}

// Spanned is implemented by every node that carries a Span.
type Spanned interface {
	Span() Span
}
