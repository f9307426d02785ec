package rangeset

import "testing"

func TestCanonicalizeMergesAdjacentAndOverlapping(t *testing.T) {
	s := New(Range{0, 3}, Range{3, 5}, Range{10, 12}, Range{11, 14})
	want := []Range{{0, 5}, {10, 14}}
	got := s.Ranges()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestEmptyRangesDropped(t *testing.T) {
	s := New(Range{5, 5}, Range{2, 2}, Range{1, 4})
	if !s.Equal(New(Range{1, 4})) {
		t.Fatalf("expected empty ranges to be dropped, got %v", s.Ranges())
	}
}

func TestUnion(t *testing.T) {
	a := New(Range{0, 2}, Range{5, 7})
	b := New(Range{1, 6})
	got := a.Union(b)
	want := New(Range{0, 7})
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got.Ranges(), want.Ranges())
	}
}

func TestIntersection(t *testing.T) {
	a := New(Range{0, 5}, Range{10, 20})
	b := New(Range{3, 12})
	got := a.Intersection(b)
	want := New(Range{3, 5}, Range{10, 12})
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got.Ranges(), want.Ranges())
	}
}

func TestDifference(t *testing.T) {
	a := New(Range{0, 10})
	b := New(Range{3, 5}, Range{8, 12})
	got := a.Difference(b)
	want := New(Range{0, 3}, Range{5, 8})
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got.Ranges(), want.Ranges())
	}
}

func TestDifferenceDisjoint(t *testing.T) {
	a := New(Range{0, 3})
	b := New(Range{10, 12})
	got := a.Difference(b)
	if !got.Equal(a) {
		t.Fatalf("disjoint difference should be unchanged: got %v", got.Ranges())
	}
}

func TestContains(t *testing.T) {
	s := New(Range{2, 5}, Range{10, 11})
	cases := map[uint64]bool{0: false, 2: true, 4: true, 5: false, 10: true, 11: false}
	for point, want := range cases {
		if got := s.Contains(point); got != want {
			t.Errorf("Contains(%d) = %v, want %v", point, got, want)
		}
	}
}

func TestMinMaxLen(t *testing.T) {
	s := New(Range{2, 5}, Range{10, 14})
	minv, ok := s.Min()
	if !ok || minv != 2 {
		t.Fatalf("Min() = %v, %v", minv, ok)
	}
	maxv, ok := s.Max()
	if !ok || maxv != 14 {
		t.Fatalf("Max() = %v, %v", maxv, ok)
	}
	if s.Len() != 7 {
		t.Fatalf("Len() = %d, want 7", s.Len())
	}
}

func TestEmptySet(t *testing.T) {
	var s Set
	if !s.IsEmpty() {
		t.Fatal("zero value should be empty")
	}
	if _, ok := s.Min(); ok {
		t.Fatal("Min() on empty set should report false")
	}
}

func TestIdempotentDifference(t *testing.T) {
	a := New(Range{0, 100})
	b := New(Range{10, 20})
	once := a.Difference(b)
	twice := once.Difference(b)
	if !once.Equal(twice) {
		t.Fatalf("difference is not idempotent: %v vs %v", once.Ranges(), twice.Ranges())
	}
}
