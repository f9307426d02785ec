package grpcbuilder

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/tlscontext/webtranscript/rangeset"
	"github.com/tlscontext/webtranscript/transcript"
)

// ServiceName is the gRPC service name exposed by RegisterService, in the
// same dotted-path style as the teacher's "zentinel.agent.v2.AgentServiceV2".
const ServiceName = "webtranscript.commit.v1.CommitService"

// commitService implements the CommitService gRPC service by forwarding
// RPCs to an underlying transcript.CommitmentBuilder.
type commitService struct {
	builder transcript.CommitmentBuilder
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*commitService)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Commit", Handler: commitHandler},
		{MethodName: "Build", Handler: buildHandler},
		{MethodName: "Contains", Handler: containsHandler},
	},
	Metadata: "commit_v1.proto",
}

// RegisterService registers the CommitService on s, forwarding to builder.
func RegisterService(s *grpc.Server, builder transcript.CommitmentBuilder) {
	s.RegisterService(&serviceDesc, &commitService{builder: builder})
}

func toRangeSet(wire []wireRange) rangeset.Set {
	ranges := make([]rangeset.Range, len(wire))
	for i, r := range wire {
		ranges[i] = rangeset.Range{Start: r.Start, End: r.End}
	}
	return rangeset.New(ranges...)
}

func toWireRanges(s rangeset.Set) []wireRange {
	ranges := s.Ranges()
	out := make([]wireRange, len(ranges))
	for i, r := range ranges {
		out[i] = wireRange{Start: r.Start, End: r.End}
	}
	return out
}

func parseDirection(name string) transcript.Direction {
	if name == "received" {
		return transcript.Received
	}
	return transcript.Sent
}

func commitHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	svc := srv.(*commitService)
	in := &jsonMessage{}
	if err := dec(in); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "failed to decode commit request: %v", err)
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return svc.commit(req.(*jsonMessage))
	}
	if interceptor == nil {
		return handler(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/Commit"}
	return interceptor(ctx, in, info, handler)
}

func (s *commitService) commit(in *jsonMessage) (*jsonMessage, error) {
	var req commitRequest
	if err := unmarshalWire(in, &req); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "malformed commit request: %v", err)
	}
	next, err := s.builder.Commit(toRangeSet(req.Ranges), parseDirection(req.Direction))
	if err != nil {
		return marshalWire(commitResponse{Error: err.Error()})
	}
	s.builder = next
	return marshalWire(commitResponse{})
}

func buildHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	svc := srv.(*commitService)
	in := &jsonMessage{}
	if err := dec(in); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "failed to decode build request: %v", err)
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return svc.build()
	}
	if interceptor == nil {
		return handler(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/Build"}
	return interceptor(ctx, in, info, handler)
}

func (s *commitService) build() (*jsonMessage, error) {
	_, err := s.builder.Build()
	if err != nil {
		return marshalWire(buildResponse{Error: err.Error()})
	}
	return marshalWire(buildResponse{})
}

func containsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	svc := srv.(*commitService)
	in := &jsonMessage{}
	if err := dec(in); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "failed to decode contains request: %v", err)
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return svc.contains(req.(*jsonMessage))
	}
	if interceptor == nil {
		return handler(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/Contains"}
	return interceptor(ctx, in, info, handler)
}

func (s *commitService) contains(in *jsonMessage) (*jsonMessage, error) {
	var req containsRequest
	if err := unmarshalWire(in, &req); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "malformed contains request: %v", err)
	}
	commitment, err := s.builder.Build()
	if err != nil {
		return nil, status.Errorf(codes.Internal, "build failed: %v", err)
	}
	ok := commitment.Contains(toRangeSet(req.Ranges), parseDirection(req.Direction))
	return marshalWire(containsResponse{Contains: ok})
}
