// Package server exposes the tracker over HTTP, WebSocket, gRPC and gRPC-Web
// on a single port.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/improbable-eng/grpc-web/go/grpcweb"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"google.golang.org/grpc"

	"github.com/agentroom/agentroom/internal/daemon/tracker"
	"github.com/agentroom/agentroom/internal/rpc"
)

// Options configures a Server.
type Options struct {
	Host       string
	Port       int // 0 for dynamic allocation
	AgentsRoot string
	Tracker    *tracker.Tracker
	// Shutdown is invoked by the Shutdown RPC. Nil disables the RPC.
	Shutdown func()
}

// Server is the daemon's network front end.
type Server struct {
	grpcServer *grpc.Server
	webServer  *grpcweb.WrappedGrpcServer
	httpServer *http.Server
	listener   net.Listener
	host       string
	port       int
	agentsRoot string
	startedAt  time.Time
	tracker    *tracker.Tracker
}

// New creates a new server listening on the configured address.
func New(opts Options) (*Server, error) {
	if opts.Tracker == nil {
		return nil, errors.New("server: tracker is required")
	}

	addr := net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port))
	listener, err := (&net.ListenConfig{}).Listen(context.TODO(), "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}

	// Get actual port if dynamically allocated
	actualPort := listener.Addr().(*net.TCPAddr).Port

	grpcServer := grpc.NewServer()

	srv := &Server{
		grpcServer: grpcServer,
		listener:   listener,
		host:       opts.Host,
		port:       actualPort,
		agentsRoot: opts.AgentsRoot,
		startedAt:  time.Now().UTC(),
		tracker:    opts.Tracker,
	}

	rpc.RegisterRoomServiceServer(grpcServer, &roomService{server: srv, shutdown: opts.Shutdown})

	srv.webServer = grpcweb.WrapServer(grpcServer,
		grpcweb.WithOriginFunc(func(string) bool { return true }),
		grpcweb.WithWebsockets(true),
		grpcweb.WithWebsocketOriginFunc(func(*http.Request) bool { return true }),
	)

	srv.httpServer = &http.Server{
		Handler:           h2c.NewHandler(srv.Handler(), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return srv, nil
}

// Port returns the port the server is listening on.
func (s *Server) Port() int {
	return s.port
}

// Addr returns the listener address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// StartedAt returns when the server was created.
func (s *Server) StartedAt() time.Time {
	return s.startedAt
}

// Serve starts serving requests. This blocks until Stop is called.
func (s *Server) Serve() error {
	log.Printf("[server] Listening on %s", s.listener.Addr())
	if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop closes gRPC streams and shuts the HTTP server down, waiting up to
// five seconds for in-flight requests.
func (s *Server) Stop() {
	s.grpcServer.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Printf("[server] shutdown: %v", err)
		_ = s.httpServer.Close()
	}
}
