package tui

import (
	"google.golang.org/grpc"

	"github.com/agentroom/agentroom/internal/models"
)

// DaemonConnectedMsg signals a successful gRPC connection.
type DaemonConnectedMsg struct {
	Conn *grpc.ClientConn
}

// DaemonDisconnectedMsg signals the daemon connection was lost.
type DaemonDisconnectedMsg struct{}

// PushMsg carries one init or update message from the Subscribe stream.
type PushMsg struct {
	Message *models.Message
}

// StreamEndedMsg signals the Subscribe stream closed for a reason other
// than a lost connection.
type StreamEndedMsg struct {
	Err error
}

// ErrorMsg carries an error to display.
type ErrorMsg struct {
	Err error
}

// ClearErrorMsg clears the error display.
type ClearErrorMsg struct{}

// ReconnectMsg triggers a reconnection attempt.
type ReconnectMsg struct{}

// spinnerTickMsg advances the animated marker for active sessions.
type spinnerTickMsg struct{}
