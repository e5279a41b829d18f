package chart

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	apperrors "cryptoboard/internal/errors"
	"cryptoboard/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 512
)

// Stream pushes every frame to connected websocket clients. Each message
// is a whole frame, so browsers redraw from scratch. A client that falls
// behind only ever gets the newest frame.
type Stream struct {
	upgrader websocket.Upgrader
	logger   logger.Interface

	mu      sync.Mutex
	clients map[*streamClient]struct{}
	last    []byte
}

type streamClient struct {
	conn *websocket.Conn
	send chan []byte
}

func NewStream(log logger.Interface) *Stream {
	return &Stream{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		logger:  log,
		clients: make(map[*streamClient]struct{}),
	}
}

// Render broadcasts frame and keeps it for clients that connect later.
func (s *Stream) Render(_ context.Context, frame Frame) error {
	payload, err := json.Marshal(frame.wire())
	if err != nil {
		return apperrors.Fatal(apperrors.RenderError, "failed to encode frame", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = payload
	for c := range s.clients {
		offer(c.send, payload)
	}
	return nil
}

// offer replaces a pending frame rather than queueing behind it.
func offer(ch chan []byte, payload []byte) {
	select {
	case ch <- payload:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- payload:
	default:
	}
}

// ServeHTTP upgrades the request and streams frames until the client leaves.
func (s *Stream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", logger.NewField("error", err.Error()))
		return
	}

	c := &streamClient{conn: conn, send: make(chan []byte, 1)}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	if s.last != nil {
		c.send <- s.last
	}
	total := len(s.clients)
	s.mu.Unlock()
	s.logger.Info("chart viewer connected", logger.NewField("remote", r.RemoteAddr), logger.NewField("viewers", total))

	go s.writePump(c)
	s.readPump(c)
}

func (s *Stream) readPump(c *streamClient) {
	defer s.unregister(c)
	c.conn.SetReadLimit(maxMessageSize)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Stream) writePump(c *streamClient) {
	defer c.conn.Close()
	for payload := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			s.unregister(c)
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (s *Stream) unregister(c *streamClient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
}

// Viewers returns the number of connected clients.
func (s *Stream) Viewers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Close disconnects every client.
func (s *Stream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		delete(s.clients, c)
		close(c.send)
	}
}
