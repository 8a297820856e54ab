package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/agentroom/agentroom/internal/models"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "agentroom.v1.RoomService"

// Full method names.
const (
	MethodGetState   = "/" + ServiceName + "/GetState"
	MethodGetSession = "/" + ServiceName + "/GetSession"
	MethodGetStatus  = "/" + ServiceName + "/GetStatus"
	MethodShutdown   = "/" + ServiceName + "/Shutdown"
	MethodSubscribe  = "/" + ServiceName + "/Subscribe"
)

// ============================================================================
// Message Types
// ============================================================================

// SessionRequest identifies one session.
type SessionRequest struct {
	ID string `json:"id"`
}

// DaemonStatus describes the running daemon.
type DaemonStatus struct {
	Version        string                 `json:"version"`
	Host           string                 `json:"host"`
	Port           int32                  `json:"port"`
	Pid            int32                  `json:"pid"`
	AgentsRoot     string                 `json:"agentsRoot"`
	StartedAt      *timestamppb.Timestamp `json:"startedAt"`
	Files          int32                  `json:"files"`
	Sessions       int32                  `json:"sessions"`
	ActiveSessions int32                  `json:"activeSessions"`
	Observers      int32                  `json:"observers"`
	LinesFolded    uint64                 `json:"linesFolded"`
	ParseErrors    uint64                 `json:"parseErrors"`
	ReadErrors     uint64                 `json:"readErrors"`
	Evicted        uint64                 `json:"evicted"`
}

// ============================================================================
// Service Definition
// ============================================================================

// RoomServiceServer is the server interface for RoomService.
type RoomServiceServer interface {
	GetState(context.Context, *emptypb.Empty) (*models.State, error)
	GetSession(context.Context, *SessionRequest) (*models.Session, error)
	GetStatus(context.Context, *emptypb.Empty) (*DaemonStatus, error)
	Shutdown(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	Subscribe(*emptypb.Empty, RoomService_SubscribeServer) error
}

// RoomService_SubscribeServer is the server side of the Subscribe stream.
type RoomService_SubscribeServer interface {
	Send(*models.Message) error
	grpc.ServerStream
}

type roomSubscribeServer struct {
	grpc.ServerStream
}

func (s *roomSubscribeServer) Send(m *models.Message) error {
	return s.ServerStream.SendMsg(m)
}

// RegisterRoomServiceServer registers srv with the gRPC server.
func RegisterRoomServiceServer(s grpc.ServiceRegistrar, srv RoomServiceServer) {
	s.RegisterService(&RoomServiceDesc, srv)
}

// RoomServiceDesc is the grpc.ServiceDesc for RoomService.
var RoomServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RoomServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetState", Handler: getStateHandler},
		{MethodName: "GetSession", Handler: getSessionHandler},
		{MethodName: "GetStatus", Handler: getStatusHandler},
		{MethodName: "Shutdown", Handler: shutdownHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Subscribe", Handler: subscribeHandler, ServerStreams: true},
	},
	Metadata: "agentroom/v1/room",
}

func getStateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RoomServiceServer).GetState(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodGetState}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(RoomServiceServer).GetState(ctx, req.(*emptypb.Empty))
	})
}

func getSessionHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SessionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RoomServiceServer).GetSession(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodGetSession}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(RoomServiceServer).GetSession(ctx, req.(*SessionRequest))
	})
}

func getStatusHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RoomServiceServer).GetStatus(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodGetStatus}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(RoomServiceServer).GetStatus(ctx, req.(*emptypb.Empty))
	})
}

func shutdownHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RoomServiceServer).Shutdown(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodShutdown}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(RoomServiceServer).Shutdown(ctx, req.(*emptypb.Empty))
	})
}

func subscribeHandler(srv any, stream grpc.ServerStream) error {
	in := new(emptypb.Empty)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(RoomServiceServer).Subscribe(in, &roomSubscribeServer{stream})
}
