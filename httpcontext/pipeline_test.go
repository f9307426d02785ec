package httpcontext

import (
	"testing"

	"github.com/tlscontext/webtranscript/httpspan"
	"github.com/tlscontext/webtranscript/jsoncontext"
	"github.com/tlscontext/webtranscript/rangeset"
	"github.com/tlscontext/webtranscript/transcript"
)

// TestRevealJSONResponseWithContentTypeLeavesLiteralsUncommitted exercises the
// HTTP-level reveal plan for a response whose headers include Content-Type
// (a framing-critical header committed whole) alongside a JSON body
// ({"a":[1,2]}) whose structural bytes are decomposed by jsoncontext: the
// braces, the `"a":` key header, the brackets, and the comma end up
// committed, while the `1`/`2` literals are left for the caller to reveal
// separately (spec.md §4.4/§8 Scenario 6).
func TestRevealJSONResponseWithContentTypeLeavesLiteralsUncommitted(t *testing.T) {
	received := "HTTP/1.1 200 OK\r\nContent-Type: application/json\r\nContent-Length: 11\r\n\r\n{\"a\":[1,2]}"
	msg, err := httpspan.ParseResponse([]byte(received))
	if err != nil {
		t.Fatal(err)
	}

	builder := transcript.NewMemoryBuilder()
	built, err := RevealStructure(builder, httpspan.HttpTranscript{Responses: []httpspan.Message{msg}})
	if err != nil {
		t.Fatal(err)
	}
	mc := built.(*transcript.MemoryCommitment)
	committed := mc.CommittedRanges(transcript.Received)

	oneIdx, twoIdx := uint64(77), uint64(79)
	if committed.Contains(oneIdx) {
		t.Error("expected the `1` literal to be left uncommitted")
	}
	if committed.Contains(twoIdx) {
		t.Error("expected the `2` literal to be left uncommitted")
	}
	if committed.Len() != uint64(len(received))-2 {
		t.Errorf("expected %d bytes committed, got %d", len(received)-2, committed.Len())
	}

	ctHeader, ok := msg.Header("Content-Type")
	if !ok {
		t.Fatal("expected Content-Type header")
	}
	if !committed.Equal(committed.Union(rangeset.New(rangeset.Range{
		Start: ctHeader.ToRangeSet().Ranges()[0].Start,
		End:   ctHeader.ToRangeSet().Ranges()[0].End,
	}))) {
		t.Error("expected the whole Content-Type header line committed as one unit")
	}
}

// TestEnforceAndSerializeRedactedFieldThroughPartialTranscript drives the
// full pipeline an operator runs: a PartialTranscript with an unauthenticated
// field, sentinel-filled and parsed, enforced against a structure, then
// rendered to canonical JSON — the redacted field must surface as the
// "__REDACTED__" marker rather than raw sentinel bytes or a parse failure.
func TestEnforceAndSerializeRedactedFieldThroughPartialTranscript(t *testing.T) {
	sent := "GET /accounts/42 HTTP/1.1\r\nHost: api.example.com\r\n\r\n"
	received := "HTTP/1.1 200 OK\r\nContent-Type: application/json\r\nContent-Length: 33\r\n\r\n{\"status\":\"active\",\"token\":\"xyz\"}"

	tokenStart := indexOf(t, received, `"xyz"`)
	authedReceived := rangeset.New(
		rangeset.Range{Start: 0, End: uint64(tokenStart)},
		rangeset.Range{Start: uint64(tokenStart + 5), End: uint64(len(received))},
	)

	full := transcript.New([]byte(sent), []byte(received))
	partial := full.ToPartial(rangeset.FromSingle(0, uint64(len(sent))), authedReceived)

	httpTr, err := httpspan.ParsePartial(&partial, transcript.DefaultSentinel)
	if err != nil {
		t.Fatal(err)
	}

	ctx, err := Enforce(Structure{
		Requests:  []StructureRequest{{Method: "GET", Target: "/accounts/42"}},
		Responses: []StructureResponse{{Status: "200"}},
	}, httpTr)
	if err != nil {
		t.Fatalf("unexpected enforcement error: %v", err)
	}

	if ctx.Responses[0].Body.JSON == nil {
		t.Fatal("expected a parsed JSON body")
	}
	tokenValue, ok := ctx.Responses[0].Body.JSON.Get("token")
	if !ok {
		t.Fatal("expected a token field")
	}
	if tokenValue.Span().Str() != "*****" {
		t.Errorf("expected sentinel-filled token span, got %q", tokenValue.Span().Str())
	}

	canon, err := jsoncontext.ToCanonicalJSON(ctx.Responses[0].Body.JSON)
	if err != nil {
		t.Fatal(err)
	}
	if string(canon) != `{"status":"active","token":"__REDACTED__"}` {
		t.Errorf("unexpected canonical JSON: %s", canon)
	}
}

func indexOf(t *testing.T, s, substr string) int {
	t.Helper()
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	t.Fatalf("substring %q not found in %q", substr, s)
	return -1
}
