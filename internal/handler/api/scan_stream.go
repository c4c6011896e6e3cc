package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"FinScore/internal/domain/models"
	domrepo "FinScore/internal/domain/repository"
	xlogger "FinScore/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const streamWriteTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StreamMessage is the frame pushed to websocket subscribers.
type StreamMessage struct {
	Type    string               `json:"type"`
	Payload *models.ScanResponse `json:"payload"`
}

// ScanStream pushes finished scans to every connected websocket client.
type ScanStream struct {
	logger  *xlogger.Logger
	mu      sync.RWMutex
	clients map[*websocket.Conn]*sync.Mutex
}

func NewScanStream(logger *xlogger.Logger) *ScanStream {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &ScanStream{logger: logger, clients: make(map[*websocket.Conn]*sync.Mutex)}
}

var _ domrepo.ScanPublisher = (*ScanStream)(nil)

// Serve upgrades the request and keeps the client registered until it leaves.
func (s *ScanStream) Serve(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", xlogger.Error(err))
		return nil
	}

	s.mu.Lock()
	s.clients[conn] = &sync.Mutex{}
	total := len(s.clients)
	s.mu.Unlock()
	s.logger.Debug("scan stream client connected", xlogger.Int("clients", total))

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		remaining := len(s.clients)
		s.mu.Unlock()
		conn.Close()
		s.logger.Debug("scan stream client disconnected", xlogger.Int("clients", remaining))
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("scan stream read error", xlogger.Error(err))
			}
			return nil
		}
	}
}

// PublishScan broadcasts res. Clients that fail to receive are dropped.
func (s *ScanStream) PublishScan(_ context.Context, res *models.ScanResponse) error {
	data, err := json.Marshal(StreamMessage{Type: "scan", Payload: res})
	if err != nil {
		return err
	}

	s.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	locks := make([]*sync.Mutex, 0, len(s.clients))
	for conn, mu := range s.clients {
		conns = append(conns, conn)
		locks = append(locks, mu)
	}
	s.mu.RUnlock()

	for i, conn := range conns {
		locks[i].Lock()
		_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
		werr := conn.WriteMessage(websocket.TextMessage, data)
		locks[i].Unlock()
		if werr != nil {
			s.logger.Warn("scan stream write failed", xlogger.Error(werr))
			conn.Close()
		}
	}
	return nil
}

// Clients returns the number of connected subscribers.
func (s *ScanStream) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}
