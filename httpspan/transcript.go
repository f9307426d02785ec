package httpspan

import "github.com/tlscontext/webtranscript/transcript"

// HttpTranscript is a fully parsed view of an HTTP transcript's sent and
// received halves: zero or more pipelined requests, and zero or more
// pipelined responses (grounded on
// original_source/crates/context/src/http/transcript.rs).
type HttpTranscript struct {
	Requests  []Message
	Responses []Message
}

// Parse parses t's sent bytes as a sequence of requests and received bytes
// as a sequence of responses.
func Parse(t transcript.Transcript) (HttpTranscript, error) {
	requests, err := parseMessages(t.Sent(), KindRequest)
	if err != nil {
		return HttpTranscript{}, err
	}
	responses, err := parseMessages(t.Received(), KindResponse)
	if err != nil {
		return HttpTranscript{}, err
	}
	return HttpTranscript{Requests: requests, Responses: responses}, nil
}

// ParsePartial fills unauthenticated byte positions in p with sentinel,
// then parses the resulting buffers the same way Parse does. Sentinel runs
// surface as Redacted nodes in JSON bodies and as unverifiable Unknown
// bodies where framing headers can't be read, rather than failing the parse
// (spec.md §4.2/§4.3).
func ParsePartial(p *transcript.PartialTranscript, sentinel byte) (HttpTranscript, error) {
	p.SetUnauthed(sentinel)
	requests, err := parseMessages(p.SentUnsafe(), KindRequest)
	if err != nil {
		return HttpTranscript{}, err
	}
	responses, err := parseMessages(p.ReceivedUnsafe(), KindResponse)
	if err != nil {
		return HttpTranscript{}, err
	}
	return HttpTranscript{Requests: requests, Responses: responses}, nil
}

func parseMessages(data []byte, kind MessageKind) ([]Message, error) {
	var out []Message
	pos := 0
	for pos < len(data) {
		pp := &parser{src: data, pos: pos}
		msg, err := pp.parseMessage(kind)
		if err != nil {
			return nil, err
		}
		out = append(out, msg)
		if pp.pos <= pos {
			break
		}
		pos = pp.pos
	}
	return out, nil
}
