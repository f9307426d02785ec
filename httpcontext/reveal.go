package httpcontext

import (
	"github.com/tlscontext/webtranscript/httpspan"
	"github.com/tlscontext/webtranscript/jsoncontext"
	"github.com/tlscontext/webtranscript/rangeset"
	"github.com/tlscontext/webtranscript/transcript"
)

// RevealStructure walks an already-enforced HttpTranscript and commits its
// byte ranges to builder: requests before responses, envelope before
// headers before body within a message, declaration order within headers
// (spec.md §4.6, §5). Framing-critical headers (Host, Content-Length,
// Content-Type, Transfer-Encoding) are always committed whole rather than
// split into name/value via WithoutValue, since a verifier that can't read
// them can't safely parse the message framing at all.
func RevealStructure(builder transcript.CommitmentBuilder, t httpspan.HttpTranscript) (transcript.CommitmentBuilder, error) {
	var err error
	for _, req := range t.Requests {
		builder, err = revealMessage(builder, req, transcript.Sent)
		if err != nil {
			return nil, err
		}
	}
	for _, resp := range t.Responses {
		builder, err = revealMessage(builder, resp, transcript.Received)
		if err != nil {
			return nil, err
		}
	}
	return builder, nil
}

func commit(builder transcript.CommitmentBuilder, ranges rangeset.Set, direction transcript.Direction) (transcript.CommitmentBuilder, error) {
	if ranges.IsEmpty() {
		return builder, nil
	}
	return builder.Commit(ranges, direction)
}

func revealMessage(builder transcript.CommitmentBuilder, msg httpspan.Message, direction transcript.Direction) (transcript.CommitmentBuilder, error) {
	var err error

	// Envelope: request-line or status-line, plus the non-header/body
	// framing bytes. WithoutData already subtracts every header, trailer,
	// and the body from the message span.
	builder, err = commit(builder, msg.WithoutData(), direction)
	if err != nil {
		return nil, err
	}

	for _, h := range msg.Headers {
		builder, err = revealHeader(builder, h, direction)
		if err != nil {
			return nil, err
		}
	}

	builder, err = revealBody(builder, msg.Body, direction)
	if err != nil {
		return nil, err
	}

	for _, h := range msg.Trailer {
		builder, err = revealHeader(builder, h, direction)
		if err != nil {
			return nil, err
		}
	}

	return builder, nil
}

// revealHeader commits a framing-critical header (Host, Content-Length,
// Content-Type, Transfer-Encoding) whole. Any other header commits only its
// name/colon/whitespace via WithoutValue — the value itself stays
// uncommitted at this layer, leaving higher layers free to choose per-field
// disclosure (spec.md §4.6).
func revealHeader(builder transcript.CommitmentBuilder, h httpspan.Header, direction transcript.Direction) (transcript.CommitmentBuilder, error) {
	if isFramingCritical(h.Name.Str()) {
		return commit(builder, h.ToRangeSet(), direction)
	}
	return commit(builder, h.WithoutValue(), direction)
}

func revealBody(builder transcript.CommitmentBuilder, body httpspan.Body, direction transcript.Direction) (transcript.CommitmentBuilder, error) {
	switch body.Kind {
	case httpspan.BodyNone:
		return builder, nil
	case httpspan.BodyJSON:
		return jsoncontext.CommitStructure(builder, body.JSON, direction)
	default:
		// Unknown bodies (non-JSON Content-Type, unparseable JSON, or a
		// Content-Length region that couldn't be read) are committed as an
		// undifferentiated opaque span: there's no finer structure to plan.
		return commit(builder, body.ToRangeSet(), direction)
	}
}
