// Package jsoncontext enforces contextual integrity between a JSON
// structure template and a candidate parse tree, and plans the
// reveal/commitment ranges for a validated candidate (spec.md §4.4, §4.6;
// grounded on
// original_source/crates/context/src/json/{context.rs,enforce.rs}). The
// original crate kept two near-duplicate code paths for this — a
// JsonContextVisitor and a standalone JsonContextEnforcer — that diverged
// only in how they were invoked; this package consolidates them into one
// comparator.
package jsoncontext

import (
	"strconv"

	"github.com/tlscontext/webtranscript/jsonspan"
	"github.com/tlscontext/webtranscript/transcript"
)

// VisitValue compares structure against candidate, returning nil if
// candidate satisfies structure and a *transcript.EnforcementError
// otherwise. A Redacted node in structure matches any candidate value at
// that position (a structural wildcard): the prover can redact a field the
// verifier never constrained. A Redacted node in candidate only matches a
// Redacted node in structure, since a concrete structure value demands a
// concrete, comparable candidate value.
func VisitValue(structure, candidate jsonspan.Value) error {
	if _, ok := structure.(jsonspan.Redacted); ok {
		return nil
	}
	switch s := structure.(type) {
	case jsonspan.Null:
		if _, ok := candidate.(jsonspan.Null); !ok {
			return mismatch("")
		}
		return nil
	case jsonspan.Bool:
		return visitLiteral(s, candidate)
	case jsonspan.Number:
		return visitLiteral(s, candidate)
	case jsonspan.JString:
		return visitLiteral(s, candidate)
	case jsonspan.Object:
		return visitObject(s, candidate)
	case jsonspan.Array:
		return visitArray(s, candidate)
	default:
		return mismatch("")
	}
}

func visitLiteral(structure, candidate jsonspan.Value) error {
	if !sameKind(structure, candidate) {
		return mismatch("")
	}
	if structure.Span().Str() != candidate.Span().Str() {
		return mismatch("")
	}
	return nil
}

func sameKind(a, b jsonspan.Value) bool {
	switch a.(type) {
	case jsonspan.Bool:
		_, ok := b.(jsonspan.Bool)
		return ok
	case jsonspan.Number:
		_, ok := b.(jsonspan.Number)
		return ok
	case jsonspan.JString:
		_, ok := b.(jsonspan.JString)
		return ok
	}
	return false
}

func visitObject(structure jsonspan.Object, candidate jsonspan.Value) error {
	cObj, ok := candidate.(jsonspan.Object)
	if !ok {
		return mismatch("")
	}
	for _, skv := range structure.Elems {
		name := skv.Key.Span().Str()
		ckv, found := cObj.GetKeyValue(name)
		if !found {
			return mismatch(name)
		}
		if _, redacted := skv.Value.(jsonspan.Redacted); redacted {
			continue
		}
		if err := VisitValue(skv.Value, ckv.Value); err != nil {
			if ee, ok := err.(*transcript.EnforcementError); ok && ee.Path == "" {
				ee.Path = name
			} else if ok {
				ee.Path = name + "." + ee.Path
			}
			return err
		}
	}
	// Extra candidate keys not named in structure are permitted: the
	// structure constrains what must be present, not an exhaustive key set.
	return nil
}

func visitArray(structure jsonspan.Array, candidate jsonspan.Value) error {
	cArr, ok := candidate.(jsonspan.Array)
	if !ok {
		return mismatch("")
	}
	if len(cArr.Elems) != len(structure.Elems) {
		return mismatch("")
	}
	for i, sElem := range structure.Elems {
		if _, redacted := sElem.(jsonspan.Redacted); redacted {
			continue
		}
		if err := VisitValue(sElem, cArr.Elems[i]); err != nil {
			if ee, ok := err.(*transcript.EnforcementError); ok {
				if ee.Path == "" {
					ee.Path = strconv.Itoa(i)
				} else {
					ee.Path = strconv.Itoa(i) + "." + ee.Path
				}
			}
			return err
		}
	}
	return nil
}

func mismatch(path string) *transcript.EnforcementError {
	return &transcript.EnforcementError{Kind: transcript.KindStructureMismatch, Path: path}
}
