package grpcbuilder

import (
	"context"

	"google.golang.org/grpc"

	"github.com/tlscontext/webtranscript/rangeset"
	"github.com/tlscontext/webtranscript/transcript"
)

// Client is a transcript.CommitmentBuilder/Commitment that forwards every
// call to a remote CommitService over an existing gRPC connection, using
// the "json" codec registered in codec.go instead of protobuf.
type Client struct {
	conn *grpc.ClientConn
	ctx  context.Context
}

// NewClient creates a Client bound to conn. ctx is used for every RPC; pass
// context.Background() if the caller has no per-call deadline.
func NewClient(ctx context.Context, conn *grpc.ClientConn) *Client {
	return &Client{conn: conn, ctx: ctx}
}

var _ transcript.CommitmentBuilder = (*Client)(nil)
var _ transcript.Commitment = (*Client)(nil)

// Commit implements transcript.CommitmentBuilder by invoking the remote
// Commit RPC. It returns c itself on success, since the remote builder's
// state lives server-side, not in this client value.
func (c *Client) Commit(ranges rangeset.Set, direction transcript.Direction) (transcript.CommitmentBuilder, error) {
	req, err := marshalWire(commitRequest{Ranges: toWireRanges(ranges), Direction: direction.String()})
	if err != nil {
		return nil, transcript.NewCommitIndexError("marshal commit request", err)
	}

	reply := &jsonMessage{}
	if err := c.conn.Invoke(c.ctx, "/"+ServiceName+"/Commit", req, reply,
		grpc.CallContentSubtype(jsonCodec{}.Name())); err != nil {
		return nil, transcript.NewCommitIndexError("commit RPC failed", err)
	}
	var resp commitResponse
	if err := unmarshalWire(reply, &resp); err != nil {
		return nil, transcript.NewCommitIndexError("decode commit response", err)
	}
	if resp.Error != "" {
		return nil, transcript.NewCommitIndexError(resp.Error, nil)
	}
	return c, nil
}

// Build implements transcript.CommitmentBuilder by invoking the remote
// Build RPC, then returns c as the Commitment: subsequent Contains calls
// are themselves forwarded RPCs.
func (c *Client) Build() (transcript.Commitment, error) {
	req, err := marshalWire(struct{}{})
	if err != nil {
		return nil, transcript.NewCommitIndexError("marshal build request", err)
	}
	reply := &jsonMessage{}
	if err := c.conn.Invoke(c.ctx, "/"+ServiceName+"/Build", req, reply,
		grpc.CallContentSubtype(jsonCodec{}.Name())); err != nil {
		return nil, transcript.NewCommitIndexError("build RPC failed", err)
	}
	var resp buildResponse
	if err := unmarshalWire(reply, &resp); err != nil {
		return nil, transcript.NewCommitIndexError("decode build response", err)
	}
	if resp.Error != "" {
		return nil, transcript.NewCommitIndexError(resp.Error, nil)
	}
	return c, nil
}

// Contains implements transcript.Commitment by invoking the remote
// Contains RPC.
func (c *Client) Contains(ranges rangeset.Set, direction transcript.Direction) bool {
	req, err := marshalWire(containsRequest{Ranges: toWireRanges(ranges), Direction: direction.String()})
	if err != nil {
		return false
	}
	reply := &jsonMessage{}
	if err := c.conn.Invoke(c.ctx, "/"+ServiceName+"/Contains", req, reply,
		grpc.CallContentSubtype(jsonCodec{}.Name())); err != nil {
		return false
	}
	var resp containsResponse
	if err := unmarshalWire(reply, &resp); err != nil {
		return false
	}
	return resp.Contains
}
