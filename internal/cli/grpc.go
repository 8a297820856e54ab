package cli

import (
	"fmt"
	"net"
	"strconv"

	"google.golang.org/grpc"

	"github.com/agentroom/agentroom/internal/config"
	"github.com/agentroom/agentroom/internal/rpc"
)

// connectDaemon establishes a gRPC connection to the running daemon.
func connectDaemon() (*grpc.ClientConn, *rpc.RoomClient, error) {
	info, err := config.LoadDaemonInfo()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load daemon info: %w", err)
	}
	if info == nil {
		return nil, nil, fmt.Errorf("daemon not running (start it with 'agentroom daemon start')")
	}

	conn, err := rpc.Dial(net.JoinHostPort(info.DialHost(), strconv.Itoa(info.Port)))
	if err != nil {
		return nil, nil, err
	}
	return conn, rpc.NewRoomClient(conn), nil
}
