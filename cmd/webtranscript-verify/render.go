package main

import (
	"encoding/json"

	"github.com/tlscontext/webtranscript/httpcontext"
	"github.com/tlscontext/webtranscript/httpspan"
	"github.com/tlscontext/webtranscript/jsoncontext"
)

// renderedBody is the JSON-printable form of an httpcontext.BodyContext:
// json.RawMessage for a JSON body (already canonicalized, redacted values
// replaced by the "__REDACTED__" marker), a plain string for anything else.
type renderedBody struct {
	Kind string          `json:"kind"`
	JSON json.RawMessage `json:"json,omitempty"`
	Raw  string          `json:"raw,omitempty"`
}

func renderBody(b httpcontext.BodyContext) (renderedBody, error) {
	out := renderedBody{Kind: bodyKindName(b.Kind)}
	if b.Kind == httpspan.BodyJSON && b.JSON != nil {
		canon, err := jsoncontext.ToCanonicalJSON(b.JSON)
		if err != nil {
			return out, err
		}
		out.JSON = canon
		return out, nil
	}
	out.Raw = string(b.Raw)
	return out, nil
}

func bodyKindName(k httpspan.BodyKind) string {
	switch k {
	case httpspan.BodyJSON:
		return "json"
	case httpspan.BodyNone:
		return "none"
	default:
		return "unknown"
	}
}

type renderedHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type renderedRequest struct {
	Method  string           `json:"method"`
	Target  string           `json:"target"`
	Headers []renderedHeader `json:"headers"`
	Body    renderedBody     `json:"body"`
}

type renderedResponse struct {
	Status  string           `json:"status"`
	Reason  string           `json:"reason"`
	Headers []renderedHeader `json:"headers"`
	Body    renderedBody     `json:"body"`
}

type renderedContext struct {
	Requests  []renderedRequest  `json:"requests"`
	Responses []renderedResponse `json:"responses"`
}

func renderHeaders(in []httpcontext.HeaderContext) []renderedHeader {
	out := make([]renderedHeader, len(in))
	for i, h := range in {
		out[i] = renderedHeader{Name: h.Name, Value: h.Value}
	}
	return out
}

// renderContext converts an httpcontext.HttpContext into a plain JSON-
// marshalable tree, canonicalizing every JSON body through jsoncontext so
// redacted values surface as the "__REDACTED__" marker rather than raw
// sentinel bytes.
func renderContext(ctx httpcontext.HttpContext) (renderedContext, error) {
	var out renderedContext
	for _, req := range ctx.Requests {
		body, err := renderBody(req.Body)
		if err != nil {
			return out, err
		}
		out.Requests = append(out.Requests, renderedRequest{
			Method: req.Method, Target: req.Target,
			Headers: renderHeaders(req.Headers), Body: body,
		})
	}
	for _, resp := range ctx.Responses {
		body, err := renderBody(resp.Body)
		if err != nil {
			return out, err
		}
		out.Responses = append(out.Responses, renderedResponse{
			Status: resp.Status, Reason: resp.Reason,
			Headers: renderHeaders(resp.Headers), Body: body,
		})
	}
	return out, nil
}
