// Package transcript holds the raw byte record of a TLS session (split into
// sent and received buffers), the per-direction authenticated range sets
// that make it a PartialTranscript, and the abstractions (Direction,
// CommitmentBuilder, the error taxonomy) every higher layer builds on.
package transcript

import "github.com/tlscontext/webtranscript/rangeset"

// Direction identifies which half of a transcript a byte range belongs to.
type Direction int

const (
	// Sent identifies bytes the client sent.
	Sent Direction = iota
	// Received identifies bytes the client received.
	Received
)

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	switch d {
	case Sent:
		return "sent"
	case Received:
		return "received"
	default:
		return "unknown"
	}
}

// DefaultSentinel is the byte substituted into unauthenticated positions
// before parsing. ASCII '*' is valid inside HTTP header values and JSON
// literal positions while being reserved enough that contiguous runs of it
// can be recognized as redacted by the JSON and HTTP parsers.
const DefaultSentinel byte = '*'

// Transcript is the frozen byte record of a TLS session: what was sent and
// what was received. It is immutable after construction.
type Transcript struct {
	sent     []byte
	received []byte
}

// New creates a Transcript from the given sent and received byte buffers.
func New(sent, received []byte) Transcript {
	return Transcript{
		sent:     append([]byte(nil), sent...),
		received: append([]byte(nil), received...),
	}
}

// Sent returns the bytes sent by the client.
func (t Transcript) Sent() []byte { return t.sent }

// Received returns the bytes received by the client.
func (t Transcript) Received() []byte { return t.received }

// ToPartial creates a PartialTranscript view of t with the given
// per-direction authenticated ranges.
func (t Transcript) ToPartial(authedSent, authedReceived rangeset.Set) PartialTranscript {
	return PartialTranscript{
		transcript:      t,
		authedSent:      authedSent,
		authedReceived:  authedReceived,
		sentFilled:      append([]byte(nil), t.sent...),
		receivedFilled:  append([]byte(nil), t.received...),
	}
}

// PartialTranscript is a Transcript plus the subset of byte positions in
// each direction that are authenticated. Positions outside those sets are
// unauthenticated; SetUnauthed overwrites them with a sentinel byte so the
// buffer becomes parseable while still surfacing redactions.
type PartialTranscript struct {
	transcript     Transcript
	authedSent     rangeset.Set
	authedReceived rangeset.Set
	sentFilled     []byte
	receivedFilled []byte
	filled         bool
}

// AuthedSent returns the authenticated range set for the sent direction.
func (p PartialTranscript) AuthedSent() rangeset.Set { return p.authedSent }

// AuthedReceived returns the authenticated range set for the received direction.
func (p PartialTranscript) AuthedReceived() rangeset.Set { return p.authedReceived }

// Len returns the length of the sent and received buffers.
func (p PartialTranscript) Len() (sent, received int) {
	return len(p.transcript.sent), len(p.transcript.received)
}

// SetUnauthed overwrites every unauthenticated position in both directions
// with sentinel. Calling it multiple times with the same sentinel is
// idempotent: the result and the authenticated ranges are unchanged by a
// second call (P1).
func (p *PartialTranscript) SetUnauthed(sentinel byte) {
	fillDirection(p.transcript.sent, p.sentFilled, p.authedSent, sentinel)
	fillDirection(p.transcript.received, p.receivedFilled, p.authedReceived, sentinel)
	p.filled = true
}

func fillDirection(original, dst []byte, authed rangeset.Set, sentinel byte) {
	for i := range dst {
		if authed.Contains(uint64(i)) {
			dst[i] = original[i]
		} else {
			dst[i] = sentinel
		}
	}
}

// SentUnsafe returns the parseable sent buffer: authenticated bytes as
// originally transmitted, unauthenticated bytes overwritten with sentinel.
// It is "unsafe" in the sense the original TLSNotary naming uses: the
// caller must not treat unauthenticated positions as attested data, only as
// a parse aid.
func (p PartialTranscript) SentUnsafe() []byte {
	if !p.filled {
		return p.transcript.sent
	}
	return p.sentFilled
}

// ReceivedUnsafe is the received-direction counterpart of SentUnsafe.
func (p PartialTranscript) ReceivedUnsafe() []byte {
	if !p.filled {
		return p.transcript.received
	}
	return p.receivedFilled
}
