package jsoncontext

import (
	"testing"

	"github.com/tlscontext/webtranscript/jsonspan"
)

func mustParse(t *testing.T, src string) jsonspan.Value {
	t.Helper()
	v, err := jsonspan.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return v
}

func TestVisitValueAllowsExtraCandidateKeys(t *testing.T) {
	structure := mustParse(t, `{"status": "ok"}`)
	candidate := mustParse(t, `{"status": "ok", "extra": 1}`)
	if err := VisitValue(structure, candidate); err != nil {
		t.Fatalf("expected extra keys to be permitted: %v", err)
	}
}

func TestVisitValueDetectsMismatchAtPath(t *testing.T) {
	structure := mustParse(t, `{"status": "ok"}`)
	candidate := mustParse(t, `{"status": "error"}`)
	err := VisitValue(structure, candidate)
	if err == nil {
		t.Fatal("expected structure mismatch")
	}
}

func TestVisitValueRedactedStructureIsWildcard(t *testing.T) {
	structure := mustParse(t, `{"token": ***}`)
	candidate := mustParse(t, `{"token": "secret-value"}`)
	if err := VisitValue(structure, candidate); err != nil {
		t.Fatalf("expected wildcard match: %v", err)
	}
}

func TestVisitValueArrayLengthMismatch(t *testing.T) {
	structure := mustParse(t, `[1, 2]`)
	candidate := mustParse(t, `[1, 2, 3]`)
	if err := VisitValue(structure, candidate); err == nil {
		t.Fatal("expected array length mismatch")
	}
}

func TestVisitValueMissingKey(t *testing.T) {
	structure := mustParse(t, `{"a": 1, "b": 2}`)
	candidate := mustParse(t, `{"a": 1}`)
	if err := VisitValue(structure, candidate); err == nil {
		t.Fatal("expected missing-key mismatch")
	}
}
