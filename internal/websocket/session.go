package websocket

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/config"
	apierrors "github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/errors"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/infrastructure"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/services"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts/events"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	defaultPongWait       = 60 * time.Second
	defaultMaxMessageSize = 64 * 1024

	sendBuffer = 16
)

// Session is one dashboard connection. At most one run is live per session.
type Session struct {
	hub      *Hub
	conn     Connection
	comparer Comparer

	pongWait       time.Duration
	pingPeriod     time.Duration
	maxMessageSize int64

	// Buffered channel of outbound messages
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once

	base       context.Context
	cancelBase context.CancelFunc

	mu         sync.Mutex
	generation uint64
	cancelRun  context.CancelFunc
	runs       sync.WaitGroup

	id          string
	traceID     string
	connectedAt time.Time
	logger      *slog.Logger

	messagesSent     atomic.Int64
	messagesReceived atomic.Int64
	staleDropped     atomic.Int64
}

// NewSession creates a session over conn.
func NewSession(hub *Hub, conn Connection, comparer Comparer, cfg config.WebSocketConfig, traceID string, logger *slog.Logger) *Session {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	id := uuid.New().String()
	if traceID == "" {
		traceID = id
	}

	pongWait := cfg.PongWait
	if pongWait <= 0 {
		pongWait = defaultPongWait
	}
	pingPeriod := cfg.PingPeriod
	if pingPeriod <= 0 || pingPeriod >= pongWait {
		// Must be less than pongWait
		pingPeriod = (pongWait * 9) / 10
	}
	maxSize := cfg.MaxMessageSize
	if maxSize <= 0 {
		maxSize = defaultMaxMessageSize
	}

	base, cancel := context.WithCancel(infrastructure.WithTraceID(context.Background(), traceID))

	return &Session{
		hub:            hub,
		conn:           conn,
		comparer:       comparer,
		pongWait:       pongWait,
		pingPeriod:     pingPeriod,
		maxMessageSize: maxSize,
		send:           make(chan []byte, sendBuffer),
		done:           make(chan struct{}),
		base:           base,
		cancelBase:     cancel,
		id:             id,
		traceID:        traceID,
		connectedAt:    time.Now(),
		logger: logger.With(
			slog.String("component", "websocket.session"),
			slog.String("session_id", id),
		),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Close cancels the live run and closes the connection. It is safe to call
// more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancelBase()
		close(s.done)
		_ = s.conn.Close()
	})
}

// Wait blocks until every run started by the session has returned.
func (s *Session) Wait() {
	s.runs.Wait()
}

// ReadPump reads input snapshots until the connection fails.
func (s *Session) ReadPump() {
	defer func() {
		s.Close()
		if s.hub != nil {
			s.hub.Unregister(s)
		}
		s.logger.InfoContext(s.base, "session_disconnected",
			slog.Duration("connection_duration", time.Since(s.connectedAt)),
			slog.Int64("messages_received", s.messagesReceived.Load()),
			slog.Int64("stale_results_dropped", s.staleDropped.Load()))
	}()

	s.conn.SetReadLimit(s.maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(s.pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.pongWait))
	})

	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				s.logger.ErrorContext(s.base, "unexpected_close", slog.String("error", err.Error()))
			}
			return
		}
		s.messagesReceived.Add(1)
		s.handleMessage(bytes.TrimSpace(message))
	}
}

func (s *Session) handleMessage(message []byte) {
	var snap events.InputSnapshot
	if err := json.Unmarshal(message, &snap); err != nil {
		s.sendError(0, apierrors.CodeInvalidRequest, "Invalid message format")
		return
	}

	switch snap.Type {
	case events.MessageTypeInput:
		s.Submit(snap)
	case events.MessageTypeHeartbeat:
		// the pong handler already extends the deadline
	default:
		s.sendError(snap.Sequence, apierrors.CodeInvalidRequest, "Unsupported message type "+string(snap.Type))
	}
}

// Submit cancels the live run, if any, and starts one for snap.
func (s *Session) Submit(snap events.InputSnapshot) {
	s.mu.Lock()
	select {
	case <-s.done:
		s.mu.Unlock()
		return
	default:
	}
	if s.cancelRun != nil {
		s.cancelRun()
	}
	s.generation++
	gen := s.generation
	ctx, cancel := context.WithCancel(s.base)
	s.cancelRun = cancel
	s.runs.Add(1)
	s.mu.Unlock()

	go s.run(ctx, gen, snap)
}

func (s *Session) run(ctx context.Context, gen uint64, snap events.InputSnapshot) {
	defer s.runs.Done()
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "run_panic", slog.Any("panic", r))
			s.deliver(gen, s.errorMessage(snap.Sequence, apierrors.CodeInternal, apierrors.ErrInternalServer.Message))
		}
	}()

	s.deliver(gen, events.BaseMessage{
		Type:      events.MessageTypeRunStarted,
		SessionID: s.id,
		Sequence:  snap.Sequence,
		Timestamp: time.Now().UTC(),
	})

	result, err := s.comparer.Compare(ctx, snap.Request)
	if err != nil {
		code := apierrors.CodeInternal
		var apiErr *apierrors.APIError
		if errors.As(err, &apiErr) {
			code = apiErr.ErrorCode
		}
		s.deliver(gen, s.errorMessage(snap.Sequence, code, apierrors.UserMessage(err)))
		return
	}

	s.deliver(gen, events.RunResult{
		BaseMessage: events.BaseMessage{
			Type:      events.MessageTypeRunResult,
			SessionID: s.id,
			Sequence:  snap.Sequence,
			Timestamp: time.Now().UTC(),
		},
		Result: services.ToResponse(result),
	})
}

// deliver queues msg if gen is still the latest generation.
func (s *Session) deliver(gen uint64, msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.ErrorContext(s.base, "message_encode_failed", slog.String("error", err.Error()))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		s.staleDropped.Add(1)
		s.logger.DebugContext(s.base, "stale_result_dropped", slog.Uint64("generation", gen))
		return
	}
	s.enqueue(data)
}

// enqueue blocks until the writer accepts data or the session closes.
func (s *Session) enqueue(data []byte) {
	select {
	case s.send <- data:
	case <-s.done:
	}
}

func (s *Session) sendError(sequence int64, code, message string) {
	data, err := json.Marshal(s.errorMessage(sequence, code, message))
	if err != nil {
		return
	}
	s.enqueue(data)
}

func (s *Session) errorMessage(sequence int64, code, message string) events.ErrorMessage {
	return events.ErrorMessage{
		BaseMessage: events.BaseMessage{
			Type:      events.MessageTypeError,
			SessionID: s.id,
			Sequence:  sequence,
			Timestamp: time.Now().UTC(),
		},
		Code:    code,
		Message: message,
	}
}

// SendConnect queues the greeting that carries the session id.
func (s *Session) SendConnect() {
	data, err := json.Marshal(events.BaseMessage{
		Type:      events.MessageTypeConnect,
		SessionID: s.id,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return
	}
	s.enqueue(data)
}

// WritePump writes queued messages and keeps the connection alive with pings.
func (s *Session) WritePump() {
	ticker := time.NewTicker(s.pingPeriod)
	defer func() {
		ticker.Stop()
		s.Close()
		s.logger.InfoContext(s.base, "write_pump_stopped",
			slog.Int64("messages_sent", s.messagesSent.Load()))
	}()

	for {
		select {
		case message := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				s.logger.ErrorContext(s.base, "write_failed", slog.String("error", err.Error()))
				return
			}
			s.messagesSent.Add(1)
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.logger.DebugContext(s.base, "ping_failed", slog.String("error", err.Error()))
				return
			}
		case <-s.done:
			return
		}
	}
}
