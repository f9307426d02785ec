package main

import (
	"encoding/json"
	"fmt"

	"github.com/tlscontext/webtranscript/httpcontext"
	"github.com/tlscontext/webtranscript/jsonspan"
)

// structureFile is the on-disk JSON shape of a --structure template: a
// human-editable description of the requests/responses an operator expects,
// independent of any parsed transcript.
type structureFile struct {
	Requests  []structureRequestFile  `json:"requests"`
	Responses []structureResponseFile `json:"responses"`
}

type structureRequestFile struct {
	Method  string                 `json:"method"`
	Target  string                 `json:"target"`
	Headers []structureHeaderFile  `json:"headers"`
	Body    json.RawMessage        `json:"body"`
}

type structureResponseFile struct {
	Status  string                `json:"status"`
	Headers []structureHeaderFile `json:"headers"`
	Body    json.RawMessage       `json:"body"`
}

type structureHeaderFile struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Wildcard bool   `json:"wildcard"`
}

func (f structureFile) toStructure() (httpcontext.Structure, error) {
	var out httpcontext.Structure
	for _, r := range f.Requests {
		body, err := parseStructureBody(r.Body)
		if err != nil {
			return out, fmt.Errorf("request %q %q: %w", r.Method, r.Target, err)
		}
		out.Requests = append(out.Requests, httpcontext.StructureRequest{
			Method:  r.Method,
			Target:  r.Target,
			Headers: toStructureHeaders(r.Headers),
			Body:    body,
		})
	}
	for _, r := range f.Responses {
		body, err := parseStructureBody(r.Body)
		if err != nil {
			return out, fmt.Errorf("response %q: %w", r.Status, err)
		}
		out.Responses = append(out.Responses, httpcontext.StructureResponse{
			Status:  r.Status,
			Headers: toStructureHeaders(r.Headers),
			Body:    body,
		})
	}
	return out, nil
}

func toStructureHeaders(in []structureHeaderFile) []httpcontext.StructureHeader {
	out := make([]httpcontext.StructureHeader, len(in))
	for i, h := range in {
		out[i] = httpcontext.StructureHeader{Name: h.Name, Value: h.Value, Wildcard: h.Wildcard}
	}
	return out
}

// parseStructureBody turns the raw JSON bytes of a "body" field into a
// jsonspan.Value span tree, the same parser the candidate transcript's
// body is parsed with, so structural enforcement compares like with like.
func parseStructureBody(raw json.RawMessage) (jsonspan.Value, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	return jsonspan.Parse(raw)
}
