package websocket

import (
	"context"
	"net"
	"time"

	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/operations"
	api "github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts/api/v1"
)

// Connection is the subset of *websocket.Conn a session needs. It allows
// sessions to be driven by an in-memory connection in tests.
type Connection interface {
	// WriteMessage writes a message with the given message type and payload
	WriteMessage(messageType int, data []byte) error

	// ReadMessage reads a message from the connection
	ReadMessage() (messageType int, p []byte, err error)

	Close() error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetReadLimit(limit int64)
	SetPongHandler(h func(string) error)
	RemoteAddr() net.Addr
}

// Comparer runs one comparison for a snapshot. It must honor cancellation
// of ctx.
type Comparer interface {
	Compare(ctx context.Context, req api.ComparisonRequest) (*operations.Result, error)
}
