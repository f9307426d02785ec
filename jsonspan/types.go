// Package jsonspan parses a byte slice into a tagged JSON value tree whose
// leaves carry byte-range Spans, tolerating contiguous sentinel runs as
// first-class Redacted nodes (spec §4.2; grounded on
// original_source/crates/spanner/src/json/types.rs).
package jsonspan

import (
	"errors"
	"strings"

	"github.com/tlscontext/webtranscript/rangeset"
	"github.com/tlscontext/webtranscript/span"
)

var errInvalidIndex = errors.New("jsonspan: invalid array index")

// Value is the common interface every JSON node implements: Null, Bool,
// Number, JString, Redacted, Array, Object.
type Value interface {
	// Span returns the byte range this node occupies in its source buffer.
	Span() span.Span
	// ToRangeSet returns the node's byte positions as a range set.
	ToRangeSet() rangeset.Set
	// Offset returns a copy of this node with every span shifted by n.
	Offset(n uint64) Value
	// Get resolves a dotted path ("foo.bar.1") against this node, the way
	// Object/Array keys and indices compose.
	Get(path string) (Value, bool)
}

// Null is a JSON null literal.
type Null struct{ span span.Span }

// Bool is a JSON boolean literal.
type Bool struct{ span span.Span }

// Number is a JSON number literal, kept as its exact source text (no
// numeric normalization per spec §4.4).
type Number struct{ span span.Span }

// JString is a JSON string value. Its span excludes the surrounding quotes.
type JString struct{ span span.Span }

// Redacted is a value position whose bytes are a maximal contiguous
// sentinel run, or a literal cut short by one: "12*" and "tr**" each parse
// as a single Redacted covering every byte, the literal prefix included.
type Redacted struct{ span span.Span }

// KeyValue is one "key": value pair inside an Object. Its span covers the
// pair including the key's quotes, the colon, surrounding whitespace, and
// the value — but not a trailing separator comma.
type KeyValue struct {
	span  span.Span
	Key   JsonKey
	Value Value
}

// JsonKey is the key of a KeyValue. Its span excludes surrounding quotes,
// unless Redacted is true, in which case it is the sentinel run itself.
type JsonKey struct {
	span     span.Span
	Redacted bool
}

// Array is a JSON array value.
type Array struct {
	span  span.Span
	Elems []Value
}

// Object is a JSON object value.
type Object struct {
	span  span.Span
	Elems []KeyValue
}

func (v Null) Span() span.Span     { return v.span }
func (v Bool) Span() span.Span     { return v.span }
func (v Number) Span() span.Span   { return v.span }
func (v JString) Span() span.Span  { return v.span }
func (v Redacted) Span() span.Span { return v.span }
func (v Array) Span() span.Span    { return v.span }
func (v Object) Span() span.Span   { return v.span }
func (k JsonKey) Span() span.Span  { return k.span }
func (kv KeyValue) Span() span.Span { return kv.span }

func (v Null) ToRangeSet() rangeset.Set     { return v.span.Indices }
func (v Bool) ToRangeSet() rangeset.Set     { return v.span.Indices }
func (v Number) ToRangeSet() rangeset.Set   { return v.span.Indices }
func (v JString) ToRangeSet() rangeset.Set  { return v.span.Indices }
func (v Redacted) ToRangeSet() rangeset.Set { return v.span.Indices }
func (v Array) ToRangeSet() rangeset.Set    { return v.span.Indices }
func (v Object) ToRangeSet() rangeset.Set   { return v.span.Indices }
func (k JsonKey) ToRangeSet() rangeset.Set  { return k.span.Indices }
func (kv KeyValue) ToRangeSet() rangeset.Set { return kv.span.Indices }

func (v Null) Offset(n uint64) Value {
	s := v.span
	s.Offset(n)
	return Null{span: s}
}

func (v Bool) Offset(n uint64) Value {
	s := v.span
	s.Offset(n)
	return Bool{span: s}
}

func (v Number) Offset(n uint64) Value {
	s := v.span
	s.Offset(n)
	return Number{span: s}
}

func (v JString) Offset(n uint64) Value {
	s := v.span
	s.Offset(n)
	return JString{span: s}
}

func (v Redacted) Offset(n uint64) Value {
	s := v.span
	s.Offset(n)
	return Redacted{span: s}
}

func (v Array) Offset(n uint64) Value {
	s := v.span
	s.Offset(n)
	elems := make([]Value, len(v.Elems))
	for i, e := range v.Elems {
		elems[i] = e.Offset(n)
	}
	return Array{span: s, Elems: elems}
}

func (v Object) Offset(n uint64) Value {
	s := v.span
	s.Offset(n)
	elems := make([]KeyValue, len(v.Elems))
	for i, kv := range v.Elems {
		elems[i] = kv.offset(n)
	}
	return Object{span: s, Elems: elems}
}

func (k JsonKey) offset(n uint64) JsonKey {
	s := k.span
	s.Offset(n)
	return JsonKey{span: s, Redacted: k.Redacted}
}

func (kv KeyValue) offset(n uint64) KeyValue {
	s := kv.span
	s.Offset(n)
	return KeyValue{span: s, Key: kv.Key.offset(n), Value: kv.Value.Offset(n)}
}

// Get implements dotted-path lookup for leaf nodes: leaves have no
// children, so any non-empty path fails to resolve.
func (v Null) Get(path string) (Value, bool)     { return leafGet(path) }
func (v Bool) Get(path string) (Value, bool)     { return leafGet(path) }
func (v Number) Get(path string) (Value, bool)   { return leafGet(path) }
func (v JString) Get(path string) (Value, bool)  { return leafGet(path) }
func (v Redacted) Get(path string) (Value, bool) { return leafGet(path) }

func leafGet(path string) (Value, bool) {
	return nil, false
}

// Get resolves a dotted path against an array: the first segment must be a
// non-negative index.
func (v Array) Get(path string) (Value, bool) {
	head, rest, hasRest := splitPath(path)
	idx, err := parseIndex(head)
	if err != nil {
		return nil, false
	}
	if idx < 0 || idx >= len(v.Elems) {
		return nil, false
	}
	elem := v.Elems[idx]
	if !hasRest {
		return elem, true
	}
	return elem.Get(rest)
}

// Get resolves a dotted path against an object: the first segment names a key.
func (v Object) Get(path string) (Value, bool) {
	head, rest, hasRest := splitPath(path)
	kv, ok := v.GetKeyValue(head)
	if !ok {
		return nil, false
	}
	if !hasRest {
		return kv.Value, true
	}
	return kv.Value.Get(rest)
}

// GetKeyValue returns the first key-value pair in v whose key byte-equals
// key, resolving duplicates to the first match in source order.
func (v Object) GetKeyValue(key string) (KeyValue, bool) {
	for _, kv := range v.Elems {
		if kv.Key.span.Str() == key {
			return kv, true
		}
	}
	return KeyValue{}, false
}

// WithoutPairs returns the object's delimiter bytes: its span minus every
// key-value pair's span. For {"k":"v"} this is the positions of { and }.
func (v Object) WithoutPairs() rangeset.Set {
	indices := v.span.Indices
	for _, kv := range v.Elems {
		indices = indices.Difference(kv.span.Indices)
	}
	return indices
}

// WithoutValue returns the key-value pair's span minus its value's span:
// the key, colon, and surrounding whitespace.
func (kv KeyValue) WithoutValue() rangeset.Set {
	return kv.span.Indices.Difference(kv.Value.Span().Indices)
}

// WithoutValues returns just the array's bracket positions.
func (v Array) WithoutValues() rangeset.Set {
	minv, ok := v.span.Indices.Min()
	if !ok {
		return rangeset.Set{}
	}
	maxv, _ := v.span.Indices.Max()
	return rangeset.New(
		rangeset.Range{Start: minv, End: minv + 1},
		rangeset.Range{Start: maxv - 1, End: maxv},
	)
}

// Separators returns the array's comma and surrounding-whitespace bytes:
// its span minus the brackets minus every element's span.
func (v Array) Separators() rangeset.Set {
	indices := v.span.Indices.Difference(v.WithoutValues())
	for _, e := range v.Elems {
		indices = indices.Difference(e.ToRangeSet())
	}
	return indices
}

func splitPath(path string) (head, rest string, hasRest bool) {
	if i := strings.IndexByte(path, '.'); i >= 0 {
		return path[:i], path[i+1:], true
	}
	return path, "", false
}

func parseIndex(s string) (int, error) {
	n := 0
	if s == "" {
		return 0, errInvalidIndex
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, errInvalidIndex
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}
