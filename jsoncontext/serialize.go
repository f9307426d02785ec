package jsoncontext

import (
	"encoding/json"
	"strconv"

	"github.com/tlscontext/webtranscript/jsonspan"
)

// redactedMarker is substituted for any Redacted leaf when serializing to
// canonical JSON, matching the original crate's JsonSerializationVisitor.
const redactedMarker = "__REDACTED__"

// ToCanonicalJSON renders value as canonical JSON text: Redacted nodes
// become the string "__REDACTED__", numbers are re-parsed as int64, then
// float64, then kept as their raw source text if neither parse succeeds
// (spec.md §4.4's emitted-HttpContext serialization rule).
func ToCanonicalJSON(value jsonspan.Value) ([]byte, error) {
	return json.Marshal(toInterface(value))
}

func toInterface(value jsonspan.Value) interface{} {
	switch v := value.(type) {
	case jsonspan.Null:
		return nil
	case jsonspan.Redacted:
		return redactedMarker
	case jsonspan.Bool:
		return v.Span().Str() == "true"
	case jsonspan.JString:
		return v.Span().Str()
	case jsonspan.Number:
		return canonicalNumber(v.Span().Str())
	case jsonspan.Array:
		out := make([]interface{}, len(v.Elems))
		for i, e := range v.Elems {
			out[i] = toInterface(e)
		}
		return out
	case jsonspan.Object:
		values := make(map[string]interface{}, len(v.Elems))
		keys := make([]string, 0, len(v.Elems))
		for _, kv := range v.Elems {
			name := kv.Key.Span().Str()
			values[name] = toInterface(kv.Value)
			keys = append(keys, name)
		}
		return orderedObject{keys: keys, values: values}
	default:
		return nil
	}
}

func canonicalNumber(text string) interface{} {
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return f
	}
	return text
}

// orderedObject marshals as a JSON object preserving JSON-source key
// declaration order (spec.md §5), which map[string]interface{} cannot.
type orderedObject struct {
	keys   []string
	values map[string]interface{}
}

func (o orderedObject) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, k := range o.keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		keyJSON, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf = append(buf, keyJSON...)
		buf = append(buf, ':')
		valJSON, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf = append(buf, valJSON...)
	}
	buf = append(buf, '}')
	return buf, nil
}
