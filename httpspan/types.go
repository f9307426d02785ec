// Package httpspan parses HTTP/1.1 requests and responses into a byte-span
// tree tolerant of sentinel-filled redaction, the way jsonspan does for
// JSON bodies. It does not use net/http: that package normalizes header
// casing/ordering and discards the exact byte offsets of header values and
// delimiters that the reveal planner needs (grounded on
// original_source/crates/context/src/http/transcript.rs).
package httpspan

import (
	"strings"

	"github.com/tlscontext/webtranscript/jsonspan"
	"github.com/tlscontext/webtranscript/rangeset"
	"github.com/tlscontext/webtranscript/span"
)

// MessageKind distinguishes a request from a response, mirroring the
// original crate's MessageKind enum (supplemented feature).
type MessageKind int

const (
	// KindRequest identifies an HTTP request message.
	KindRequest MessageKind = iota
	// KindResponse identifies an HTTP response message.
	KindResponse
)

func (k MessageKind) String() string {
	if k == KindResponse {
		return "response"
	}
	return "request"
}

// BodyKind distinguishes how a message body was interpreted.
type BodyKind int

const (
	// BodyNone means the message declared no body.
	BodyNone BodyKind = iota
	// BodyJSON means the body was dispatched to jsonspan.
	BodyJSON
	// BodyUnknown means the body bytes were kept as an opaque span: the
	// Content-Type wasn't JSON, a JSON-typed body failed to parse, the body
	// was chunked, or the Content-Length value couldn't be read (e.g. it was
	// sentinel-filled) and the rest of the buffer became the body
	// (contextual integrity still binds these bytes as a unit; it just can't
	// walk their internal structure).
	BodyUnknown
)

// Header is one "Name: Value" header line.
type Header struct {
	span  span.Span
	Name  span.Span
	Value span.Span
}

// Body is a message body: either absent, parsed as JSON, or an opaque
// byte span whose framing (chunked vs. Content-Length) is still recorded.
type Body struct {
	span   span.Span
	Kind   BodyKind
	JSON   jsonspan.Value // valid iff Kind == BodyJSON
	Opaque span.Span      // valid iff Kind == BodyUnknown
	// Chunked records whether the body was transfer-encoded in chunks. For a
	// chunked body the Span covers the whole encoded region (chunk-size
	// lines, CRLFs, and trailer), while Opaque covers only the concatenated
	// chunk data.
	Chunked bool
}

// Message is a parsed HTTP request or response.
type Message struct {
	span    span.Span
	Kind    MessageKind
	Method  span.Span // requests only
	Target  span.Span // requests only
	Status  span.Span // responses only: the status code digits
	Reason  span.Span // responses only
	Version span.Span
	Headers []Header
	Trailer []Header // chunked trailer headers, if any
	Body    Body
}

func (h Header) Span() span.Span { return h.span }
func (m Message) Span() span.Span { return m.span }
func (b Body) Span() span.Span    { return b.span }

func (h Header) ToRangeSet() rangeset.Set  { return h.span.Indices }
func (m Message) ToRangeSet() rangeset.Set { return m.span.Indices }
func (b Body) ToRangeSet() rangeset.Set    { return b.span.Indices }

// NameEquals reports whether the header's name case-insensitively equals
// name, mirroring the teacher's case-insensitive Header() lookup in
// request.go/response.go.
func (h Header) NameEquals(name string) bool {
	return strings.EqualFold(h.Name.Str(), name)
}

// Header returns the first header whose name case-insensitively equals
// name, mirroring the teacher's Header(name) accessor.
func (m Message) Header(name string) (Header, bool) {
	for _, h := range m.Headers {
		if h.NameEquals(name) {
			return h, true
		}
	}
	return Header{}, false
}

// HeaderAll returns every header whose name case-insensitively equals name.
func (m Message) HeaderAll(name string) []Header {
	var out []Header
	for _, h := range m.Headers {
		if h.NameEquals(name) {
			out = append(out, h)
		}
	}
	return out
}

// HasHeader reports whether any header case-insensitively matches name.
func (m Message) HasHeader(name string) bool {
	_, ok := m.Header(name)
	return ok
}

// ContentType returns the value of the Content-Type header, if present.
func (m Message) ContentType() (string, bool) {
	h, ok := m.Header("Content-Type")
	if !ok {
		return "", false
	}
	return h.Value.Str(), true
}

// IsJSON reports whether the message's Content-Type names a JSON media type.
func (m Message) IsJSON() bool {
	ct, ok := m.ContentType()
	if !ok {
		return false
	}
	ct = strings.ToLower(strings.TrimSpace(strings.SplitN(ct, ";", 2)[0]))
	return ct == "application/json" || strings.HasSuffix(ct, "+json")
}

// WithoutData returns the message's span minus every header line, every
// trailer line, and the body: the request/status line and the CRLFs that
// terminate each line. Header names and colons are not included; the
// reveal planner commits them separately through Header.WithoutValue.
func (m Message) WithoutData() rangeset.Set {
	indices := m.span.Indices
	for _, h := range m.Headers {
		indices = indices.Difference(h.span.Indices)
	}
	for _, h := range m.Trailer {
		indices = indices.Difference(h.span.Indices)
	}
	indices = indices.Difference(m.Body.span.Indices)
	return indices
}

// WithoutValue returns the header's span minus its value: the name and
// separating colon/whitespace, mirroring jsonspan.KeyValue.WithoutValue.
func (h Header) WithoutValue() rangeset.Set {
	return h.span.Indices.Difference(h.Value.Indices)
}
