// Package statsserver pushes streaming tile counts to websocket clients and
// accepts reload requests.
package statsserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Faultbox/terrastream/internal/logger"
)

// Message types.
const (
	TypeGetStats   = "get_chunk_stats"
	TypeReload     = "reload_chunks"
	TypeChunkStats = "chunk_stats"
	TypeError      = "error"
)

const writeTimeout = 5 * time.Second

// Controller is the terrain surface exposed to clients.
type Controller interface {
	ChunkStats() map[string]int
	ReloadChunks()
}

// Request is a client message.
type Request struct {
	Type string `json:"type"`
}

// Message is a server message.
type Message struct {
	Type  string         `json:"type"`
	Stats map[string]int `json:"stats,omitempty"`
	Error string         `json:"error,omitempty"`
}

// Server serves /ws for pushed stats and /stats for a one-shot JSON read.
type Server struct {
	ctrl     Controller
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]*sync.Mutex

	log *zap.Logger
}

// New creates a server reading from ctrl.
func New(ctrl Controller) *Server {
	return &Server{
		ctrl: ctrl,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]*sync.Mutex),
		log:     logger.Named("statsserver"),
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/stats", s.handleStats)
	return mux
}

// ListenAndServe serves on addr and pushes stats every interval until ctx is
// done.
func (s *Server) ListenAndServe(ctx context.Context, addr string, interval time.Duration) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	go s.Run(ctx, interval)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("stats server listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Run broadcasts stats every interval until ctx is done.
func (s *Server) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return
		case <-ticker.C:
			s.Broadcast()
		}
	}
}

// Broadcast sends the current stats to every client.
func (s *Server) Broadcast() {
	msg := s.statsMessage()

	s.mu.Lock()
	targets := make(map[*websocket.Conn]*sync.Mutex, len(s.clients))
	for c, l := range s.clients {
		targets[c] = l
	}
	s.mu.Unlock()

	for conn, lock := range targets {
		if err := s.write(conn, lock, msg); err != nil {
			s.log.Debug("dropping stats client", zap.String("remote", conn.RemoteAddr().String()), zap.Error(err))
			s.remove(conn)
		}
	}
}

// Clients returns the number of connected websocket clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) statsMessage() Message {
	return Message{Type: TypeChunkStats, Stats: s.ctrl.ChunkStats()}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.statsMessage()); err != nil {
		s.log.Warn("writing stats", zap.Error(err))
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	lock := &sync.Mutex{}
	s.mu.Lock()
	s.clients[conn] = lock
	s.mu.Unlock()
	defer s.remove(conn)

	if err := s.write(conn, lock, s.statsMessage()); err != nil {
		return
	}

	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("websocket read failed", zap.Error(err))
			}
			return
		}

		reply := s.statsMessage()
		switch req.Type {
		case TypeGetStats:
		case TypeReload:
			s.ctrl.ReloadChunks()
			s.log.Info("reload requested by stats client")
			reply = s.statsMessage()
		default:
			reply = Message{Type: TypeError, Error: "unknown request type " + req.Type}
		}
		if err := s.write(conn, lock, reply); err != nil {
			return
		}
	}
}

func (s *Server) write(conn *websocket.Conn, lock *sync.Mutex, msg Message) error {
	lock.Lock()
	defer lock.Unlock()
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}

func (s *Server) remove(conn *websocket.Conn) {
	s.mu.Lock()
	_, ok := s.clients[conn]
	delete(s.clients, conn)
	s.mu.Unlock()
	if ok {
		conn.Close()
	}
}

func (s *Server) closeAll() {
	s.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for c := range s.clients {
		conns = append(conns, c)
	}
	s.mu.Unlock()
	for _, c := range conns {
		s.remove(c)
	}
}
