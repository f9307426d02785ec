package transcript

import "github.com/tlscontext/webtranscript/rangeset"

// RangeSetter is implemented by any node whose byte positions can be
// reduced to a rangeset.Set for commitment purposes (a Span, a JsonValue,
// an HTTP header, ...). It mirrors the original crate's ToRangeSet trait.
type RangeSetter interface {
	ToRangeSet() rangeset.Set
}

// CommitmentBuilder is the abstract sink the reveal planner writes to: a
// consumer of (range set, direction) pairs. The commitment cryptography
// itself is out of scope for this module (§1); this is the interface an
// external commitment scheme plugs into.
type CommitmentBuilder interface {
	// Commit records that the bytes at ranges, in the given direction,
	// should be revealed/committed. It returns the builder (for chaining)
	// or a *CommitError if the builder rejects the range, e.g. because it
	// is unknown or has already been committed (P6).
	Commit(ranges rangeset.Set, direction Direction) (CommitmentBuilder, error)

	// Build finalizes the builder into a Commitment.
	Build() (Commitment, error)
}

// Commitment is the built result of a CommitmentBuilder: a queryable record
// of what was committed.
type Commitment interface {
	// Contains reports whether ranges, in direction, were committed.
	Contains(ranges rangeset.Set, direction Direction) bool
}

// MemoryCommitment is an in-memory reference Commitment/CommitmentBuilder
// implementation suitable for tests and for callers that don't need a
// networked or cryptographic commitment scheme. It rejects duplicate
// commits within a direction, enforcing P6.
type MemoryCommitment struct {
	committed map[Direction]rangeset.Set
}

// NewMemoryBuilder creates an empty in-memory CommitmentBuilder.
func NewMemoryBuilder() *MemoryCommitment {
	return &MemoryCommitment{committed: map[Direction]rangeset.Set{}}
}

// Commit implements CommitmentBuilder.
func (m *MemoryCommitment) Commit(ranges rangeset.Set, direction Direction) (CommitmentBuilder, error) {
	if ranges.IsEmpty() {
		return m, nil
	}

	existing := m.committed[direction]
	if !existing.Intersection(ranges).IsEmpty() {
		return nil, NewCommitIndexError("range already committed", nil)
	}

	m.committed[direction] = existing.Union(ranges)
	return m, nil
}

// Build implements CommitmentBuilder.
func (m *MemoryCommitment) Build() (Commitment, error) {
	return m, nil
}

// Contains implements Commitment.
func (m *MemoryCommitment) Contains(ranges rangeset.Set, direction Direction) bool {
	existing, ok := m.committed[direction]
	if !ok {
		return ranges.IsEmpty()
	}
	return existing.Intersection(ranges).Equal(ranges)
}

// CommittedRanges returns the committed range set for direction, mainly for
// tests that want to assert on the exact reveal plan (P5, scenario 6).
func (m *MemoryCommitment) CommittedRanges(direction Direction) rangeset.Set {
	return m.committed[direction]
}
