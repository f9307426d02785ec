package jsonspan

import "testing"

func TestParseScalarTypes(t *testing.T) {
	cases := map[string]string{
		"null":  `null`,
		"true":  `true`,
		"false": `false`,
		"num":   `42`,
		"frac":  `3.25`,
		"exp":   `1.5e10`,
		"str":   `"hello"`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			v, err := Parse([]byte(src))
			if err != nil {
				t.Fatalf("parse %q: %v", src, err)
			}
			if !v.Span().EqualBytes([]byte(src)) && name != "str" {
				t.Errorf("span mismatch for %q: got %q", src, v.Span().Bytes())
			}
		})
	}
}

func TestParseStringExcludesQuotes(t *testing.T) {
	v, err := Parse([]byte(`"hello"`))
	if err != nil {
		t.Fatal(err)
	}
	s, ok := v.(JString)
	if !ok {
		t.Fatalf("expected JString, got %T", v)
	}
	if s.Span().Str() != "hello" {
		t.Errorf("expected content without quotes, got %q", s.Span().Str())
	}
}

func TestParseObjectAndGet(t *testing.T) {
	v, err := Parse([]byte(`{"a": 1, "b": {"c": "d"}}`))
	if err != nil {
		t.Fatal(err)
	}
	obj, ok := v.(Object)
	if !ok {
		t.Fatalf("expected Object, got %T", v)
	}
	if len(obj.Elems) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(obj.Elems))
	}
	got, ok := obj.Get("b.c")
	if !ok {
		t.Fatal("expected b.c to resolve")
	}
	if got.(JString).Span().Str() != "d" {
		t.Errorf("expected \"d\", got %q", got.Span().Bytes())
	}
}

func TestParseArrayAndGet(t *testing.T) {
	v, err := Parse([]byte(`[1, 2, [3, 4]]`))
	if err != nil {
		t.Fatal(err)
	}
	arr, ok := v.(Array)
	if !ok {
		t.Fatalf("expected Array, got %T", v)
	}
	if len(arr.Elems) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(arr.Elems))
	}
	got, ok := arr.Get("2.1")
	if !ok {
		t.Fatal("expected 2.1 to resolve")
	}
	if got.Span().Str() != "4" {
		t.Errorf("expected \"4\", got %q", got.Span().Bytes())
	}
}

func TestRedactedWholeValue(t *testing.T) {
	v, err := Parse([]byte(`***`))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := v.(Redacted); !ok {
		t.Fatalf("expected Redacted, got %T", v)
	}
}

func TestRedactedMidLiteral(t *testing.T) {
	// "12*" must parse as a single Redacted node spanning all three bytes,
	// not a Number "12" followed by a separate node.
	v, err := Parse([]byte(`12*`))
	if err != nil {
		t.Fatal(err)
	}
	r, ok := v.(Redacted)
	if !ok {
		t.Fatalf("expected Redacted, got %T", v)
	}
	if r.Span().Str() != "12*" {
		t.Errorf("expected span to cover \"12*\", got %q", r.Span().Bytes())
	}
}

func TestRedactedInObjectValue(t *testing.T) {
	v, err := Parse([]byte(`{"k": ***}`))
	if err != nil {
		t.Fatal(err)
	}
	obj := v.(Object)
	kv, ok := obj.GetKeyValue("k")
	if !ok {
		t.Fatal("expected key k")
	}
	if _, ok := kv.Value.(Redacted); !ok {
		t.Fatalf("expected Redacted value, got %T", kv.Value)
	}
}

func TestRedactedInArrayElement(t *testing.T) {
	v, err := Parse([]byte(`[1, ***, 3]`))
	if err != nil {
		t.Fatal(err)
	}
	arr := v.(Array)
	if _, ok := arr.Elems[1].(Redacted); !ok {
		t.Fatalf("expected Redacted element, got %T", arr.Elems[1])
	}
}

func TestRedactedEntireKey(t *testing.T) {
	v, err := Parse([]byte(`{***: "v"}`))
	if err != nil {
		t.Fatal(err)
	}
	obj := v.(Object)
	if len(obj.Elems) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(obj.Elems))
	}
	if !obj.Elems[0].Key.Redacted {
		t.Error("expected key to be marked redacted")
	}
}

func TestWithoutPairsYieldsBraces(t *testing.T) {
	src := `{"k":"v"}`
	v, err := Parse([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	obj := v.(Object)
	without := obj.WithoutPairs()
	if without.Len() != 2 {
		t.Errorf("expected 2 bytes (braces), got %d", without.Len())
	}
	if !without.Contains(0) || !without.Contains(uint64(len(src)-1)) {
		t.Error("expected braces at start and end to be in WithoutPairs")
	}
}

func TestWithoutValueYieldsKeyColonWhitespace(t *testing.T) {
	src := `{"key": "value"}`
	v, err := Parse([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	obj := v.(Object)
	kv := obj.Elems[0]
	without := kv.WithoutValue()
	// value "value" occupies 5 bytes; kv span is `"key": "value"` (14 bytes).
	if without.Len() != uint64(len(`"key": "value"`))-5 {
		t.Errorf("unexpected WithoutValue length: %d", without.Len())
	}
}

func TestArraySeparatorsAndWithoutValues(t *testing.T) {
	src := `[1, 2, 3]`
	v, err := Parse([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	arr := v.(Array)
	brackets := arr.WithoutValues()
	if brackets.Len() != 2 {
		t.Errorf("expected 2 bracket bytes, got %d", brackets.Len())
	}
	seps := arr.Separators()
	// ", " appears twice between three single-digit elements: 2*2 = 4 bytes.
	if seps.Len() != 4 {
		t.Errorf("expected 4 separator bytes, got %d", seps.Len())
	}
}

func TestParseRejectsTrailingBytes(t *testing.T) {
	_, err := Parse([]byte(`1 2`))
	if err == nil {
		t.Fatal("expected error for trailing bytes")
	}
}

func TestParseRejectsUnterminatedString(t *testing.T) {
	_, err := Parse([]byte(`"abc`))
	if err == nil {
		t.Fatal("expected error for unterminated string")
	}
}

func TestOffsetShiftsNestedSpans(t *testing.T) {
	v, err := Parse([]byte(`{"a": 1}`))
	if err != nil {
		t.Fatal(err)
	}
	shifted := v.Offset(100)
	obj := shifted.(Object)
	minv, _ := obj.Span().Indices.Min()
	if minv != 100 {
		t.Errorf("expected shifted object to start at 100, got %d", minv)
	}
	kv := obj.Elems[0]
	kvMin, _ := kv.Span().Indices.Min()
	if kvMin < 100 {
		t.Errorf("expected key-value span to be shifted, got min %d", kvMin)
	}
}
