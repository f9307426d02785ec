package span

import "testing"

func TestNewSpanBytes(t *testing.T) {
	src := []byte("hello world")
	s := New(src, 6, 11)
	if s.Str() != "world" {
		t.Fatalf("Str() = %q, want %q", s.Str(), "world")
	}
	if s.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", s.Len())
	}
}

func TestOffsetShiftsIndices(t *testing.T) {
	src := []byte("hello world")
	s := New(src, 6, 11)
	s.Offset(3)
	if min, _ := s.Indices.Min(); min != 9 {
		t.Fatalf("Min() after offset = %d, want 9", min)
	}
}

func TestEqualBytesAndString(t *testing.T) {
	src := []byte("abc")
	s := New(src, 0, 3)
	if !s.EqualBytes([]byte("abc")) {
		t.Fatal("expected EqualBytes to match")
	}
	if !s.EqualString("abc") {
		t.Fatal("expected EqualString to match")
	}
	if s.EqualBytes([]byte("abcd")) {
		t.Fatal("expected EqualBytes to reject differing length")
	}
}

func TestIsEmpty(t *testing.T) {
	src := []byte("abc")
	s := New(src, 1, 1)
	if !s.IsEmpty() {
		t.Fatal("expected zero-width span to be empty")
	}
}
