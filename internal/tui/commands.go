package tui

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/agentroom/agentroom/internal/config"
	"github.com/agentroom/agentroom/internal/rpc"
)

func connectDaemonCmd() tea.Cmd {
	return func() tea.Msg {
		info, err := config.LoadDaemonInfo()
		if err != nil || info == nil {
			return ErrorMsg{Err: fmt.Errorf("daemon not running")}
		}

		conn, err := rpc.Dial(net.JoinHostPort(info.DialHost(), strconv.Itoa(info.Port)))
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return DaemonConnectedMsg{Conn: conn}
	}
}

// subscribeCmd opens the push stream and forwards every message to the
// program from a background goroutine.
func subscribeCmd(ctx context.Context, conn *grpc.ClientConn, program *programRef) tea.Cmd {
	return func() tea.Msg {
		stream, err := rpc.NewRoomClient(conn).Subscribe(ctx)
		if err != nil {
			if isConnectionLost(err) {
				return DaemonDisconnectedMsg{}
			}
			return ErrorMsg{Err: fmt.Errorf("failed to subscribe: %w", err)}
		}

		go func() {
			for {
				msg, err := stream.Recv()
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					if isConnectionLost(err) {
						program.Send(DaemonDisconnectedMsg{})
					} else {
						program.Send(StreamEndedMsg{Err: err})
					}
					return
				}
				program.Send(PushMsg{Message: msg})
			}
		}()

		return nil
	}
}

// refreshCmd asks the daemon for a snapshot. The result arrives through the
// push stream, since every snapshot request is also published.
func refreshCmd(conn *grpc.ClientConn) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := rpc.NewRoomClient(conn).GetState(ctx); err != nil {
			if isConnectionLost(err) {
				return DaemonDisconnectedMsg{}
			}
			return ErrorMsg{Err: fmt.Errorf("refresh failed: %w", err)}
		}
		return nil
	}
}

func spinnerTick() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(_ time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

func reconnectTick() tea.Cmd {
	return tea.Tick(3*time.Second, func(_ time.Time) tea.Msg {
		return ReconnectMsg{}
	})
}

func clearErrorAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return ClearErrorMsg{}
	})
}

// isConnectionLost checks if a gRPC error indicates the server is gone.
func isConnectionLost(err error) bool {
	code := status.Code(err)
	return code == codes.Unavailable || code == codes.Canceled
}

