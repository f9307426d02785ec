// Package httpcontext enforces contextual integrity between an HTTP
// structure template and a candidate transcript, and emits the frozen
// HttpContext record plus the byte-range reveal plan (spec.md §4.5, §4.6;
// grounded on
// original_source/crates/context/src/http/{context.rs,enforce.rs}). As
// with jsoncontext, the original crate's two parallel code paths — a
// builder-driven enforcer and a standalone HttpEnforcer — are consolidated
// into the single Enforce function below.
package httpcontext

import (
	"net/url"
	"strings"

	"github.com/tlscontext/webtranscript/httpspan"
	"github.com/tlscontext/webtranscript/jsoncontext"
	"github.com/tlscontext/webtranscript/jsonspan"
	"github.com/tlscontext/webtranscript/span"
	"github.com/tlscontext/webtranscript/transcript"
)

// framingCriticalHeaders are always committed whole during reveal planning,
// never subject to without_value() decomposition, since hiding them would
// make the message unframeable (spec.md §4.6 Open Question resolution).
var framingCriticalHeaders = []string{"host", "content-length", "content-type", "transfer-encoding"}

func isFramingCritical(name string) bool {
	lower := strings.ToLower(name)
	for _, h := range framingCriticalHeaders {
		if h == lower {
			return true
		}
	}
	return false
}

// BodyContext is the frozen, enforced view of a message body.
type BodyContext struct {
	Kind httpspan.BodyKind
	JSON jsonspan.Value
	Raw  []byte
}

// HeaderContext is one enforced, named header's value, kept only for
// headers the structure template actually named (wildcard-if-all-sentinel
// headers in the structure are dropped from the emitted context, since they
// carry no asserted value).
type HeaderContext struct {
	Name  string
	Value string
}

// RequestContext is the frozen, enforced view of one HTTP request.
type RequestContext struct {
	Method  string
	Target  string
	Headers []HeaderContext
	Body    BodyContext
}

// ResponseContext is the frozen, enforced view of one HTTP response.
type ResponseContext struct {
	Status  string
	Reason  string
	Headers []HeaderContext
	Body    BodyContext
}

// HttpContext is the canonical, structurally-enforced record of an HTTP
// transcript: the emitted artifact of this module (spec.md §1).
type HttpContext struct {
	Requests  []RequestContext
	Responses []ResponseContext
}

// Structure is the contextual-integrity template an HttpTranscript is
// enforced against: the same shape as a transcript, but with fewer/partial
// fields standing in for "don't care".
type Structure struct {
	Requests  []StructureRequest
	Responses []StructureResponse
}

// StructureRequest declares the expected shape of one request. A zero-value
// Method/Target/Body field is not enforced, unlike a header with Wildcard
// set: the caller must construct one header entry per constraint it wants,
// and omit the ones it doesn't.
type StructureRequest struct {
	Method  string
	Target  string
	Headers []StructureHeader
	Body    jsonspan.Value // nil: body not enforced
}

// StructureResponse declares the expected shape of one response.
type StructureResponse struct {
	Status  string
	Headers []StructureHeader
	Body    jsonspan.Value
}

// StructureHeader names a header the candidate must carry. Wildcard means
// "this header must be present, with any value" (all-sentinel structure
// value); a non-wildcard header additionally constrains the value.
type StructureHeader struct {
	Name     string
	Value    string
	Wildcard bool
}

// EnforceTemplate walks a structure template and a candidate in lockstep,
// both parsed as httpspan.HttpTranscript, the way spec.md §4.5 describes:
// "Walks structure: HttpTranscript and candidate: HttpTranscript in
// lockstep." template is built from byte-template source the same way a
// candidate is (e.g. via httpspan.ParsePartial over an all-sentinel
// PartialTranscript, or httpspan.Parse over literal template bytes); a
// header whose value is a contiguous run of sentinel is treated as a
// wildcard, the way §6 describes sentinel bytes denoting "don't care" and
// §8 Scenario 1 parses "Host: *" into a wildcarded Host header. JSON bodies
// need no translation here: a template body's Redacted nodes already
// compare as wildcards via jsoncontext.VisitValue.
func EnforceTemplate(template, candidate httpspan.HttpTranscript, sentinel byte) (HttpContext, error) {
	structure := Structure{}
	for _, req := range template.Requests {
		structure.Requests = append(structure.Requests, templateRequest(req, sentinel))
	}
	for _, resp := range template.Responses {
		structure.Responses = append(structure.Responses, templateResponse(resp, sentinel))
	}
	return Enforce(structure, candidate)
}

func templateRequest(req httpspan.Message, sentinel byte) StructureRequest {
	method := req.Method.Str()
	if isAllSentinel(req.Method, sentinel) {
		method = ""
	}
	target := req.Target.Str()
	if isAllSentinel(req.Target, sentinel) {
		target = ""
	}
	return StructureRequest{
		Method:  method,
		Target:  target,
		Headers: templateHeaders(req.Headers, sentinel),
		Body:    templateBody(req.Body),
	}
}

func templateResponse(resp httpspan.Message, sentinel byte) StructureResponse {
	status := resp.Status.Str()
	if isAllSentinel(resp.Status, sentinel) {
		status = ""
	}
	return StructureResponse{
		Status:  status,
		Headers: templateHeaders(resp.Headers, sentinel),
		Body:    templateBody(resp.Body),
	}
}

func templateHeaders(headers []httpspan.Header, sentinel byte) []StructureHeader {
	var out []StructureHeader
	for _, h := range headers {
		out = append(out, StructureHeader{
			Name:     h.Name.Str(),
			Value:    h.Value.Str(),
			Wildcard: isAllSentinel(h.Value, sentinel),
		})
	}
	return out
}

func templateBody(body httpspan.Body) jsonspan.Value {
	if body.Kind == httpspan.BodyJSON {
		return body.JSON
	}
	return nil
}

// isAllSentinel reports whether s is a nonempty, contiguous run of sentinel
// bytes, the byte-template equivalent of jsonspan's redaction detection.
func isAllSentinel(s span.Span, sentinel byte) bool {
	b := s.Bytes()
	if len(b) == 0 {
		return false
	}
	for _, c := range b {
		if c != sentinel {
			return false
		}
	}
	return true
}

// Enforce validates candidate against structure, returning the frozen
// HttpContext on success or a *transcript.EnforcementError describing the
// first violation (never panicking, per spec.md §7).
func Enforce(structure Structure, candidate httpspan.HttpTranscript) (HttpContext, error) {
	if len(candidate.Requests) != len(structure.Requests) {
		return HttpContext{}, &transcript.EnforcementError{
			Kind: transcript.KindCountMismatch, Expected: len(structure.Requests), Actual: len(candidate.Requests),
		}
	}
	if len(candidate.Responses) != len(structure.Responses) {
		return HttpContext{}, &transcript.EnforcementError{
			Kind: transcript.KindCountMismatch, Expected: len(structure.Responses), Actual: len(candidate.Responses),
		}
	}

	ctx := HttpContext{}
	for i, sReq := range structure.Requests {
		rc, err := enforceRequest(sReq, candidate.Requests[i])
		if err != nil {
			return HttpContext{}, err
		}
		ctx.Requests = append(ctx.Requests, rc)
	}
	for i, sResp := range structure.Responses {
		rc, err := enforceResponse(sResp, candidate.Responses[i])
		if err != nil {
			return HttpContext{}, err
		}
		ctx.Responses = append(ctx.Responses, rc)
	}
	return ctx, nil
}

func enforceRequest(structure StructureRequest, candidate httpspan.Message) (RequestContext, error) {
	if structure.Method != "" && candidate.Method.Str() != structure.Method {
		return RequestContext{}, &transcript.EnforcementError{Kind: transcript.KindMethodMismatch}
	}
	if structure.Target != "" {
		if err := enforceTarget(structure.Target, candidate.Target.Str()); err != nil {
			return RequestContext{}, err
		}
	}
	headers, err := enforceHeaders(structure.Headers, candidate)
	if err != nil {
		return RequestContext{}, err
	}
	body, err := enforceBody(structure.Body, candidate.Body)
	if err != nil {
		return RequestContext{}, err
	}
	return RequestContext{
		Method:  candidate.Method.Str(),
		Target:  candidate.Target.Str(),
		Headers: headers,
		Body:    body,
	}, nil
}

func enforceResponse(structure StructureResponse, candidate httpspan.Message) (ResponseContext, error) {
	if structure.Status != "" && candidate.Status.Str() != structure.Status {
		return ResponseContext{}, &transcript.EnforcementError{Kind: transcript.KindStatusMismatch}
	}
	headers, err := enforceHeaders(structure.Headers, candidate)
	if err != nil {
		return ResponseContext{}, err
	}
	body, err := enforceBody(structure.Body, candidate.Body)
	if err != nil {
		return ResponseContext{}, err
	}
	return ResponseContext{
		Status:  candidate.Status.Str(),
		Reason:  candidate.Reason.Str(),
		Headers: headers,
		Body:    body,
	}, nil
}

// enforceTarget compares two request targets by resolving both against a
// dummy base URL, the way the original crate uses url::Url::join against a
// placeholder base to normalize relative-vs-absolute targets identically.
func enforceTarget(want, got string) error {
	const dummyBase = "http://dummy.invalid"
	base, err := url.Parse(dummyBase)
	if err != nil {
		return transcript.NewMalformed(0, "internal: invalid dummy base URL")
	}
	wantURL, err := base.Parse(want)
	if err != nil {
		return &transcript.EnforcementError{Kind: transcript.KindTargetMismatch}
	}
	gotURL, err := base.Parse(got)
	if err != nil {
		return &transcript.EnforcementError{Kind: transcript.KindTargetMismatch}
	}
	if wantURL.String() != gotURL.String() {
		return &transcript.EnforcementError{Kind: transcript.KindTargetMismatch}
	}
	return nil
}

func enforceHeaders(structure []StructureHeader, candidate httpspan.Message) ([]HeaderContext, error) {
	var out []HeaderContext
	for _, sh := range structure {
		// Content-Length is framing metadata derived from the body, not an
		// independently asserted value: it is never itself enforced or
		// emitted as a header context entry.
		if strings.EqualFold(sh.Name, "Content-Length") {
			continue
		}
		ch, ok := candidate.Header(sh.Name)
		if !ok {
			return nil, &transcript.EnforcementError{Kind: transcript.KindHeaderMissing, Name: sh.Name}
		}
		if sh.Wildcard {
			continue
		}
		if ch.Value.Str() != sh.Value {
			return nil, &transcript.EnforcementError{Kind: transcript.KindHeaderValueMismatch, Name: sh.Name}
		}
		out = append(out, HeaderContext{Name: sh.Name, Value: ch.Value.Str()})
	}
	return out, nil
}

func enforceBody(structure jsonspan.Value, candidate httpspan.Body) (BodyContext, error) {
	if structure == nil {
		switch candidate.Kind {
		case httpspan.BodyJSON:
			return BodyContext{Kind: candidate.Kind, JSON: candidate.JSON}, nil
		case httpspan.BodyUnknown:
			return BodyContext{Kind: candidate.Kind, Raw: candidate.Opaque.Bytes()}, nil
		default:
			return BodyContext{Kind: httpspan.BodyNone}, nil
		}
	}
	if candidate.Kind != httpspan.BodyJSON {
		return BodyContext{}, &transcript.EnforcementError{Kind: transcript.KindBodyTypeMismatch}
	}
	if err := jsoncontext.VisitValue(structure, candidate.JSON); err != nil {
		return BodyContext{}, err
	}
	return BodyContext{Kind: httpspan.BodyJSON, JSON: candidate.JSON}, nil
}
