package feed

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ErrServerRunning is returned when Start is called twice.
var ErrServerRunning = errors.New("feed server already running")

// maxMessageSize bounds inbound frames; progress messages are tiny.
const maxMessageSize = 4096

// Config holds feed server settings.
type Config struct {
	Listen       string // host:port; a bare :port binds loopback only
	Path         string
	WriteTimeout time.Duration

	// AllowedOrigins lists browser origins (scheme://host[:port]) that may
	// connect besides same-host pages. "*" accepts any origin. Clients that
	// send no Origin header, such as native tools, are always accepted.
	AllowedOrigins []string
}

// Server accepts WebSocket connections and posts their text frames to an
// Inbox. It can broadcast messages back to every connected client.
type Server struct {
	cfg      Config
	inbox    *Inbox
	log      *zap.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]*sync.Mutex // Per-connection write lock
	srv     *http.Server
	ln      net.Listener
	wg      sync.WaitGroup
}

// NewServer creates a server that posts to inbox.
func NewServer(cfg Config, inbox *Inbox, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Path == "" {
		cfg.Path = "/progress"
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	cfg.Listen = loopbackDefault(cfg.Listen)
	s := &Server{
		cfg:     cfg,
		inbox:   inbox,
		log:     log,
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
	s.upgrader.CheckOrigin = s.checkOrigin
	return s
}

// loopbackDefault pins a listen address without a host to 127.0.0.1.
func loopbackDefault(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil || host != "" {
		return addr
	}
	return net.JoinHostPort("127.0.0.1", port)
}

// checkOrigin accepts requests without an Origin header, same-host pages
// and the configured origins.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range s.cfg.AllowedOrigins {
		if o == "*" || strings.EqualFold(strings.TrimSuffix(o, "/"), origin) {
			return true
		}
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// Handler returns the HTTP handler serving the WebSocket endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.cfg.Path, s.serveWS)
	return mux
}

// Start listens on cfg.Listen and serves in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		return ErrServerRunning
	}

	ln, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Listen, err)
	}
	s.ln = ln
	s.srv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("feed server stopped", zap.Error(err))
		}
	}()

	s.log.Info("feed server listening",
		zap.String("addr", ln.Addr().String()),
		zap.String("path", s.cfg.Path),
	)
	return nil
}

// Addr returns the bound listen address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Clients returns the number of open connections.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed",
			zap.String("origin", r.Header.Get("Origin")),
			zap.Error(err),
		)
		return
	}
	conn.SetReadLimit(maxMessageSize)

	s.mu.Lock()
	s.clients[conn] = &sync.Mutex{}
	s.mu.Unlock()
	s.log.Debug("feed client connected", zap.String("remote", conn.RemoteAddr().String()))

	defer s.drop(conn)

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Warn("feed client read failed", zap.Error(err))
			}
			return
		}
		if msgType != websocket.TextMessage {
			s.log.Debug("ignoring non-text frame", zap.Int("type", msgType))
			continue
		}
		s.inbox.Post(data)
	}
}

func (s *Server) drop(conn *websocket.Conn) {
	s.mu.Lock()
	lock, ok := s.clients[conn]
	delete(s.clients, conn)
	s.mu.Unlock()
	if !ok {
		return
	}
	lock.Lock()
	conn.Close()
	lock.Unlock()
	s.log.Debug("feed client disconnected", zap.String("remote", conn.RemoteAddr().String()))
}

// Broadcast writes msg as a text frame to every client. Clients whose
// write fails are disconnected.
func (s *Server) Broadcast(msg []byte) {
	type target struct {
		conn *websocket.Conn
		lock *sync.Mutex
	}
	s.mu.Lock()
	targets := make([]target, 0, len(s.clients))
	for c, l := range s.clients {
		targets = append(targets, target{c, l})
	}
	s.mu.Unlock()

	for _, t := range targets {
		t.lock.Lock()
		t.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
		err := t.conn.WriteMessage(websocket.TextMessage, msg)
		t.lock.Unlock()
		if err != nil {
			s.log.Warn("feed broadcast failed",
				zap.String("remote", t.conn.RemoteAddr().String()),
				zap.Error(err),
			)
			s.drop(t.conn)
		}
	}
}

// Close stops the listener and disconnects every client.
func (s *Server) Close() error {
	s.mu.Lock()
	srv := s.srv
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for c := range s.clients {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	var err error
	if srv != nil {
		err = srv.Close()
	}
	for _, c := range conns {
		s.drop(c)
	}
	s.wg.Wait()
	return err
}
