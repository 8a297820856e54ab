package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/agentroom/agentroom/internal/daemon/session"
)

// wsWriteTimeout bounds a single push to a WebSocket observer.
const wsWriteTimeout = 5 * time.Second

// Handler returns the routing handler: native gRPC and gRPC-Web requests go
// to the gRPC server, everything else to the REST and WebSocket routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("GET /api/session/{id}", s.handleSession)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case s.webServer.IsGrpcWebSocketRequest(r),
			s.webServer.IsGrpcWebRequest(r),
			s.webServer.IsAcceptableGrpcCorsRequest(r):
			s.webServer.ServeHTTP(w, r)
		case isGRPC(r):
			s.grpcServer.ServeHTTP(w, r)
		default:
			mux.ServeHTTP(w, r)
		}
	})
}

func isGRPC(r *http.Request) bool {
	return r.ProtoMajor == 2 && strings.HasPrefix(r.Header.Get("Content-Type"), "application/grpc")
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	state, err := s.tracker.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.tracker.Session(r.PathValue("id"))
	if errors.Is(err, session.ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// errHubClosed ends a push loop when the daemon stops publishing.
var errHubClosed = errors.New("daemon shutting down")

// handleWebSocket streams init and update messages to one observer until the
// peer goes away or the daemon shuts down. Anything the peer sends is ignored.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		log.Printf("[server] websocket accept: %v", err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go func() {
		defer cancel()
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	}()

	err = s.pushUpdates(ctx, conn)
	if err != nil && !errors.Is(err, errHubClosed) {
		log.Printf("[server] websocket: %v", err)
	}
	code, reason := closeStatus(err)
	_ = conn.Close(code, reason)
}

// pushUpdates writes hub messages to conn. It returns nil when the peer goes
// away, errHubClosed on shutdown and the write error otherwise.
func (s *Server) pushUpdates(ctx context.Context, conn *websocket.Conn) error {
	hub := s.tracker.Hub()
	id, ch := hub.Subscribe()
	defer hub.Unsubscribe(id)

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return errHubClosed
			}
			wctx, wcancel := context.WithTimeout(ctx, wsWriteTimeout)
			err := wsjson.Write(wctx, conn, msg)
			wcancel()
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("write update: %w", err)
			}
		}
	}
}

// closeStatus maps the end of a push loop to a WebSocket close code.
func closeStatus(err error) (websocket.StatusCode, string) {
	switch {
	case err == nil:
		return websocket.StatusNormalClosure, ""
	case errors.Is(err, errHubClosed):
		return websocket.StatusGoingAway, errHubClosed.Error()
	default:
		return websocket.StatusInternalError, "write failed"
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[server] write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
