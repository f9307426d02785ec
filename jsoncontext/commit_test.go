package jsoncontext

import (
	"testing"

	"github.com/tlscontext/webtranscript/jsonspan"
	"github.com/tlscontext/webtranscript/transcript"
)

// TestCommitStructureOmitsPrimitiveLiterals pins the worked trace for
// `{"a":[1,2]}`: the committed bytes are the braces, the `"a":` key header,
// the brackets, and the separating comma — the `1` and `2` literals
// themselves are left uncommitted for the caller to reveal separately.
func TestCommitStructureOmitsPrimitiveLiterals(t *testing.T) {
	src := `{"a":[1,2]}`
	v, err := jsonspan.Parse([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	b := transcript.NewMemoryBuilder()
	built, err := CommitStructure(b, v, transcript.Sent)
	if err != nil {
		t.Fatal(err)
	}
	mc := built.(*transcript.MemoryCommitment)
	committed := mc.CommittedRanges(transcript.Sent)

	oneIdx := uint64(6)
	twoIdx := uint64(8)
	if committed.Contains(oneIdx) {
		t.Error("expected the `1` literal to be left uncommitted")
	}
	if committed.Contains(twoIdx) {
		t.Error("expected the `2` literal to be left uncommitted")
	}
	if committed.Len() != uint64(len(src))-2 {
		t.Errorf("expected %d bytes committed, got %d", len(src)-2, committed.Len())
	}
}

func TestCommitRedactedCommitsNothing(t *testing.T) {
	src := `{"a": ***}`
	v, err := jsonspan.Parse([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	b := transcript.NewMemoryBuilder()
	built, err := CommitStructure(b, v, transcript.Sent)
	if err != nil {
		t.Fatal(err)
	}
	mc := built.(*transcript.MemoryCommitment)
	committed := mc.CommittedRanges(transcript.Sent)
	// Everything except the three redacted bytes should be committed.
	if committed.Len() != uint64(len(src)-3) {
		t.Errorf("expected %d bytes committed, got %d", len(src)-3, committed.Len())
	}
}

func TestToCanonicalJSONRendersRedactedMarker(t *testing.T) {
	v, err := jsonspan.Parse([]byte(`{"token": ***}`))
	if err != nil {
		t.Fatal(err)
	}
	out, err := ToCanonicalJSON(v)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"token":"__REDACTED__"}` {
		t.Errorf("unexpected canonical JSON: %s", out)
	}
}

func TestToCanonicalJSONPreservesNumberText(t *testing.T) {
	v, err := jsonspan.Parse([]byte(`[1, 2.5, true, null]`))
	if err != nil {
		t.Fatal(err)
	}
	out, err := ToCanonicalJSON(v)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `[1,2.5,true,null]` {
		t.Errorf("unexpected canonical JSON: %s", out)
	}
}
