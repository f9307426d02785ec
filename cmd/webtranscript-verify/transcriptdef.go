package main

import (
	"github.com/tlscontext/webtranscript/rangeset"
	"github.com/tlscontext/webtranscript/transcript"
)

// transcriptFile is the on-disk JSON shape of a --transcript file: raw
// sent/received bytes (base64-encoded by encoding/json's []byte handling)
// plus the byte ranges in each direction that are authenticated. Bytes
// outside those ranges are unauthenticated and get overwritten with the
// sentinel before parsing.
type transcriptFile struct {
	Sent           []byte      `json:"sent"`
	Received       []byte      `json:"received"`
	AuthedSent     []wireRange `json:"authed_sent"`
	AuthedReceived []wireRange `json:"authed_received"`
}

type wireRange struct {
	Start uint64 `json:"start"`
	End   uint64 `json:"end"`
}

func (f transcriptFile) toPartial() transcript.PartialTranscript {
	full := transcript.New(f.Sent, f.Received)
	return full.ToPartial(toRangeSet(f.AuthedSent), toRangeSet(f.AuthedReceived))
}

func toRangeSet(wire []wireRange) rangeset.Set {
	ranges := make([]rangeset.Range, len(wire))
	for i, r := range wire {
		ranges[i] = rangeset.Range{Start: r.Start, End: r.End}
	}
	return rangeset.New(ranges...)
}
