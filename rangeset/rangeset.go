// Package rangeset implements a sorted, disjoint set of half-open integer
// ranges with the set algebra the rest of the module builds on: union,
// intersection, difference, and membership.
package rangeset

import "sort"

// Range is a half-open interval [Start, End).
type Range struct {
	Start uint64
	End   uint64
}

func (r Range) empty() bool {
	return r.Start >= r.End
}

// Set is a canonical (sorted, disjoint, no-adjacent-unmerged) collection of
// Ranges over uint64. The zero value is an empty set.
type Set struct {
	ranges []Range
}

// New returns a Set containing the given ranges, canonicalized.
func New(ranges ...Range) Set {
	s := Set{ranges: append([]Range(nil), ranges...)}
	return s.canonicalize()
}

// FromSingle returns a Set containing a single range [start, end).
func FromSingle(start, end uint64) Set {
	return New(Range{Start: start, End: end})
}

func (s Set) canonicalize() Set {
	filtered := make([]Range, 0, len(s.ranges))
	for _, r := range s.ranges {
		if !r.empty() {
			filtered = append(filtered, r)
		}
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].Start < filtered[j].Start
	})

	merged := make([]Range, 0, len(filtered))
	for _, r := range filtered {
		if len(merged) > 0 && r.Start <= merged[len(merged)-1].End {
			last := &merged[len(merged)-1]
			if r.End > last.End {
				last.End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}

	return Set{ranges: merged}
}

// IsEmpty reports whether the set contains no positions.
func (s Set) IsEmpty() bool {
	return len(s.ranges) == 0
}

// Len returns the total number of positions contained in the set.
func (s Set) Len() uint64 {
	var n uint64
	for _, r := range s.ranges {
		n += r.End - r.Start
	}
	return n
}

// Min returns the smallest position in the set.
func (s Set) Min() (uint64, bool) {
	if s.IsEmpty() {
		return 0, false
	}
	return s.ranges[0].Start, true
}

// Max returns one past the largest position in the set, i.e. the exclusive
// end of the last range. Callers wanting the largest contained position
// should subtract 1.
func (s Set) Max() (uint64, bool) {
	if s.IsEmpty() {
		return 0, false
	}
	return s.ranges[len(s.ranges)-1].End, true
}

// Contains reports whether point is a member of the set.
func (s Set) Contains(point uint64) bool {
	i := sort.Search(len(s.ranges), func(i int) bool {
		return s.ranges[i].End > point
	})
	return i < len(s.ranges) && s.ranges[i].Start <= point
}

// Ranges returns the maximal disjoint ranges in ascending order. The
// returned slice must not be mutated by the caller.
func (s Set) Ranges() []Range {
	return s.ranges
}

// Union returns the set of positions in s or other.
func (s Set) Union(other Set) Set {
	combined := make([]Range, 0, len(s.ranges)+len(other.ranges))
	combined = append(combined, s.ranges...)
	combined = append(combined, other.ranges...)
	return New(combined...)
}

// Intersection returns the set of positions in both s and other.
func (s Set) Intersection(other Set) Set {
	var out []Range
	i, j := 0, 0
	for i < len(s.ranges) && j < len(other.ranges) {
		a, b := s.ranges[i], other.ranges[j]
		start := max64(a.Start, b.Start)
		end := min64(a.End, b.End)
		if start < end {
			out = append(out, Range{Start: start, End: end})
		}
		if a.End < b.End {
			i++
		} else {
			j++
		}
	}
	return New(out...)
}

// Difference returns the set of positions in s but not in other (s \ other).
func (s Set) Difference(other Set) Set {
	if other.IsEmpty() || s.IsEmpty() {
		return New(s.ranges...)
	}

	var out []Range
	for _, r := range s.ranges {
		cur := r.Start
		for _, o := range other.ranges {
			if o.End <= cur || o.Start >= r.End {
				continue
			}
			if o.Start > cur {
				out = append(out, Range{Start: cur, End: o.Start})
			}
			if o.End > cur {
				cur = o.End
			}
		}
		if cur < r.End {
			out = append(out, Range{Start: cur, End: r.End})
		}
	}
	return New(out...)
}

// Equal reports whether s and other contain exactly the same positions.
func (s Set) Equal(other Set) bool {
	if len(s.ranges) != len(other.ranges) {
		return false
	}
	for i := range s.ranges {
		if s.ranges[i] != other.ranges[i] {
			return false
		}
	}
	return true
}

func max64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
