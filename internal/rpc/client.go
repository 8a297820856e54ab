package rpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/agentroom/agentroom/internal/models"
)

// Dial opens a client connection to addr that speaks the JSON codec.
func Dial(addr string) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	return conn, nil
}

// RoomClient is the client API for RoomService.
type RoomClient struct {
	cc grpc.ClientConnInterface
}

// NewRoomClient wraps a connection.
func NewRoomClient(cc grpc.ClientConnInterface) *RoomClient {
	return &RoomClient{cc: cc}
}

// GetState requests a fresh snapshot.
func (c *RoomClient) GetState(ctx context.Context, opts ...grpc.CallOption) (*models.State, error) {
	out := new(models.State)
	if err := c.cc.Invoke(ctx, MethodGetState, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// GetSession looks up one session by id.
func (c *RoomClient) GetSession(ctx context.Context, id string, opts ...grpc.CallOption) (*models.Session, error) {
	out := new(models.Session)
	if err := c.cc.Invoke(ctx, MethodGetSession, &SessionRequest{ID: id}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// GetStatus returns daemon status and counters.
func (c *RoomClient) GetStatus(ctx context.Context, opts ...grpc.CallOption) (*DaemonStatus, error) {
	out := new(DaemonStatus)
	if err := c.cc.Invoke(ctx, MethodGetStatus, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Shutdown asks the daemon to exit.
func (c *RoomClient) Shutdown(ctx context.Context, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, MethodShutdown, &emptypb.Empty{}, &emptypb.Empty{}, opts...)
}

// SubscribeStream receives pushes from the daemon.
type SubscribeStream struct {
	grpc.ClientStream
}

// Recv blocks for the next push.
func (s *SubscribeStream) Recv() (*models.Message, error) {
	m := new(models.Message)
	if err := s.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Subscribe opens the push stream. The first message is always an init.
func (c *RoomClient) Subscribe(ctx context.Context, opts ...grpc.CallOption) (*SubscribeStream, error) {
	stream, err := c.cc.NewStream(ctx, &RoomServiceDesc.Streams[0], MethodSubscribe, opts...)
	if err != nil {
		return nil, err
	}
	if err := stream.SendMsg(&emptypb.Empty{}); err != nil {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}
	return &SubscribeStream{ClientStream: stream}, nil
}
