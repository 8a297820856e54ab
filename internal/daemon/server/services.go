package server

import (
	"context"
	"errors"
	"os"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/agentroom/agentroom/internal/buildinfo"
	"github.com/agentroom/agentroom/internal/daemon/session"
	"github.com/agentroom/agentroom/internal/daemon/tracker"
	"github.com/agentroom/agentroom/internal/models"
	"github.com/agentroom/agentroom/internal/rpc"
)

type roomService struct {
	server   *Server
	shutdown func()
}

func (s *roomService) GetState(ctx context.Context, _ *emptypb.Empty) (*models.State, error) {
	state, err := s.server.tracker.Snapshot(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return state, nil
}

func (s *roomService) GetSession(ctx context.Context, req *rpc.SessionRequest) (*models.Session, error) {
	if req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "session id is required")
	}
	sess, err := s.server.tracker.Session(req.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return sess, nil
}

func (s *roomService) GetStatus(ctx context.Context, _ *emptypb.Empty) (*rpc.DaemonStatus, error) {
	stats := s.server.tracker.Stats()
	state := s.server.tracker.State()

	return &rpc.DaemonStatus{
		Version:        buildinfo.Version,
		Host:           s.server.host,
		Port:           int32(s.server.port),
		Pid:            int32(os.Getpid()),
		AgentsRoot:     s.server.agentsRoot,
		StartedAt:      timestamppb.New(s.server.startedAt),
		Files:          int32(stats.Files),
		Sessions:       int32(stats.Sessions),
		ActiveSessions: int32(state.ActiveCount()),
		Observers:      int32(stats.Observers),
		LinesFolded:    stats.LinesFolded,
		ParseErrors:    stats.ParseErrors,
		ReadErrors:     stats.ReadErrors,
		Evicted:        stats.Evicted,
	}, nil
}

func (s *roomService) Shutdown(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	if s.shutdown == nil {
		return nil, status.Error(codes.Unimplemented, "shutdown is not enabled")
	}
	// Let the reply go out before the server starts closing connections.
	go s.shutdown()
	return &emptypb.Empty{}, nil
}

func (s *roomService) Subscribe(_ *emptypb.Empty, stream rpc.RoomService_SubscribeServer) error {
	hub := s.server.tracker.Hub()
	id, ch := hub.Subscribe()
	defer hub.Unsubscribe(id)

	for {
		select {
		case <-stream.Context().Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return status.Error(codes.Unavailable, "daemon is shutting down")
			}
			if err := stream.Send(msg); err != nil {
				return err
			}
		}
	}
}

// toStatus maps engine errors to gRPC status codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, tracker.ErrStopped):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
