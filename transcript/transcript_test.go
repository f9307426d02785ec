package transcript

import (
	"bytes"
	"testing"

	"github.com/tlscontext/webtranscript/rangeset"
)

func TestSetUnauthedIdempotent(t *testing.T) {
	tr := New([]byte("GET /a HTTP/1.1\r\nHost: example.com\r\n\r\n"), nil)
	authed := rangeset.FromSingle(0, 16) // the request line and its CR
	p := tr.ToPartial(authed, rangeset.Set{})

	p.SetUnauthed('*')
	first := append([]byte(nil), p.SentUnsafe()...)
	p.SetUnauthed('*')
	second := p.SentUnsafe()

	if !bytes.Equal(first, second) {
		t.Fatalf("SetUnauthed is not idempotent: %q vs %q", first, second)
	}
	if !p.AuthedSent().Equal(authed) {
		t.Fatal("authenticated ranges must not change after fill")
	}
}

func TestSetUnauthedPreservesAuthedBytes(t *testing.T) {
	src := []byte("ABCDEFGH")
	tr := New(src, nil)
	authed := rangeset.FromSingle(2, 5)
	p := tr.ToPartial(authed, rangeset.Set{})
	p.SetUnauthed('*')

	got := p.SentUnsafe()
	for i := 0; i < 8; i++ {
		if authed.Contains(uint64(i)) {
			if got[i] != src[i] {
				t.Errorf("byte %d: got %q, want authenticated %q", i, got[i], src[i])
			}
		} else if got[i] != '*' {
			t.Errorf("byte %d: got %q, want sentinel", i, got[i])
		}
	}
}

func TestMemoryCommitmentRejectsDuplicate(t *testing.T) {
	b := NewMemoryBuilder()
	r := rangeset.FromSingle(0, 5)
	if _, err := b.Commit(r, Sent); err != nil {
		t.Fatalf("first commit failed: %v", err)
	}
	if _, err := b.Commit(r, Sent); err == nil {
		t.Fatal("expected duplicate commit to fail (P6)")
	}
}

func TestMemoryCommitmentContains(t *testing.T) {
	b := NewMemoryBuilder()
	r := rangeset.FromSingle(0, 5)
	if _, err := b.Commit(r, Sent); err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	commitment, err := b.Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if !commitment.Contains(r, Sent) {
		t.Fatal("expected committed range to be contained")
	}
	if commitment.Contains(r, Received) {
		t.Fatal("committed range should not appear in the other direction")
	}
}
