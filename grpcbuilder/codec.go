// Package grpcbuilder adapts transcript.CommitmentBuilder to a gRPC
// service, so the reveal plan httpcontext.RevealStructure produces can be
// forwarded to a remote commitment service instead of an in-process one.
// It reuses the teacher's manual grpc.ServiceDesc + JSON encoding.Codec
// technique (grounded on
// _examples/zentinelproxy-zentinel-agent-go-sdk/v2/grpc_service.go) rather
// than protoc-generated stubs, since this module has no .proto toolchain
// step of its own.
package grpcbuilder

import (
	"encoding/json"

	grpcencoding "google.golang.org/grpc/encoding"
)

// jsonMessage is a raw JSON container used as the gRPC wire message type,
// the same shape as the teacher's jsonMessage.
type jsonMessage struct {
	Data json.RawMessage
}

// jsonCodec implements grpc encoding.Codec for JSON marshaling, registered
// under the name "json" so client and server agree on wire format without
// protobuf.
type jsonCodec struct{}

var _ grpcencoding.Codec = jsonCodec{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	msg, ok := v.(*jsonMessage)
	if !ok {
		return json.Marshal(v)
	}
	if msg.Data == nil {
		return []byte("{}"), nil
	}
	return []byte(msg.Data), nil
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	msg, ok := v.(*jsonMessage)
	if !ok {
		return json.Unmarshal(data, v)
	}
	msg.Data = make(json.RawMessage, len(data))
	copy(msg.Data, data)
	return nil
}

func (jsonCodec) Name() string { return "json" }

func init() {
	grpcencoding.RegisterCodec(jsonCodec{})
}

// wireRange is the JSON wire representation of one rangeset.Range.
type wireRange struct {
	Start uint64 `json:"start"`
	End   uint64 `json:"end"`
}

// commitRequest is the wire request for the Commit RPC.
type commitRequest struct {
	Ranges    []wireRange `json:"ranges"`
	Direction string      `json:"direction"`
}

type commitResponse struct {
	Error string `json:"error,omitempty"`
}

type buildRequest struct{}

type buildResponse struct {
	Error string `json:"error,omitempty"`
}

// containsRequest is the wire request for the Contains RPC.
type containsRequest struct {
	Ranges    []wireRange `json:"ranges"`
	Direction string      `json:"direction"`
}

type containsResponse struct {
	Contains bool `json:"contains"`
}

func unmarshalWire(in *jsonMessage, v interface{}) error {
	return json.Unmarshal(in.Data, v)
}

func marshalWire(v interface{}) (*jsonMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &jsonMessage{Data: data}, nil
}
