package grpcbuilder

import (
	"context"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/tlscontext/webtranscript/rangeset"
	"github.com/tlscontext/webtranscript/transcript"
)

func dialTestServer(t *testing.T) (*grpc.ClientConn, func()) {
	t.Helper()
	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer()
	RegisterService(srv, transcript.NewMemoryBuilder())
	go func() {
		_ = srv.Serve(lis)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	return conn, func() {
		conn.Close()
		srv.Stop()
	}
}

func TestClientCommitAndContainsRoundTrip(t *testing.T) {
	conn, cleanup := dialTestServer(t)
	defer cleanup()

	client := NewClient(context.Background(), conn)
	r := rangeset.FromSingle(0, 10)

	if _, err := client.Commit(r, transcript.Sent); err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if _, err := client.Build(); err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if !client.Contains(r, transcript.Sent) {
		t.Error("expected committed range to be reported as contained")
	}
	if client.Contains(r, transcript.Received) {
		t.Error("expected range not committed in the other direction to be absent")
	}
}

func TestClientRejectsDuplicateCommit(t *testing.T) {
	conn, cleanup := dialTestServer(t)
	defer cleanup()

	client := NewClient(context.Background(), conn)
	r := rangeset.FromSingle(0, 5)
	if _, err := client.Commit(r, transcript.Sent); err != nil {
		t.Fatalf("first commit failed: %v", err)
	}
	if _, err := client.Commit(r, transcript.Sent); err == nil {
		t.Fatal("expected duplicate commit to fail (P6)")
	}
}
