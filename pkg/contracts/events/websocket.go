// Package events contains the message contracts of the dashboard WebSocket
// session.
package events

import (
	"time"

	api "github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts/api/v1"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// Client to server
	MessageTypeInput     MessageType = "input:snapshot"
	MessageTypeHeartbeat MessageType = "heartbeat"

	// Server to client
	MessageTypeConnect    MessageType = "connect"
	MessageTypeRunStarted MessageType = "run:started"
	MessageTypeRunResult  MessageType = "run:result"
	MessageTypeError      MessageType = "error"
)

// InputSnapshot carries every widget value at the moment of an interaction.
// Sequence is chosen by the client and echoed back so stale results can be
// told apart.
type InputSnapshot struct {
	Type     MessageType           `json:"type"`
	Sequence int64                 `json:"sequence"`
	Request  api.ComparisonRequest `json:"request"`
}

// BaseMessage represents the base structure for server messages
type BaseMessage struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	Sequence  int64       `json:"sequence,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// RunResult is sent once a run for the latest snapshot has finished.
type RunResult struct {
	BaseMessage
	Result *api.ComparisonResponse `json:"result"`
}

// ErrorMessage reports a snapshot that could not be run at all.
type ErrorMessage struct {
	BaseMessage
	Code    string `json:"code"`
	Message string `json:"message"`
}
