package websocket

import (
	"context"
	"log/slog"
	"sync"

	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/infrastructure"
)

// Hub keeps track of the open sessions so they can be closed on shutdown.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	metrics  *infrastructure.BusinessMetrics
	logger   *slog.Logger
}

// NewHub creates a new Hub instance with dependency injection
func NewHub(metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Hub{
		sessions: make(map[string]*Session),
		metrics:  metrics,
		logger:   logger.With(slog.String("component", "websocket.hub")),
	}
}

// Register adds a session.
func (h *Hub) Register(s *Session) {
	h.mu.Lock()
	h.sessions[s.ID()] = s
	count := len(h.sessions)
	h.mu.Unlock()

	ctx := infrastructure.WithTraceID(context.Background(), s.traceID)
	infrastructure.RecordSessionChange(ctx, h.metrics, 1)
	h.logger.InfoContext(ctx, "session_registered",
		slog.String("session_id", s.ID()),
		slog.Int("active_sessions", count))
}

// Unregister removes a session. Unknown sessions are ignored.
func (h *Hub) Unregister(s *Session) {
	h.mu.Lock()
	_, ok := h.sessions[s.ID()]
	delete(h.sessions, s.ID())
	count := len(h.sessions)
	h.mu.Unlock()

	if !ok {
		return
	}
	ctx := infrastructure.WithTraceID(context.Background(), s.traceID)
	infrastructure.RecordSessionChange(ctx, h.metrics, -1)
	h.logger.InfoContext(ctx, "session_unregistered",
		slog.String("session_id", s.ID()),
		slog.Int("active_sessions", count))
}

// GetClientCount returns the number of open sessions.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Stop closes every open session.
func (h *Hub) Stop() {
	h.mu.RLock()
	sessions := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.RUnlock()

	for _, s := range sessions {
		s.Close()
	}
	h.logger.Info("hub_stopped", slog.Int("closed_sessions", len(sessions)))
}
