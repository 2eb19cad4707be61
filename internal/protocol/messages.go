// Package protocol defines the JSON message types exchanged over the
// websocket. Every message carries a "type" discriminator.
package protocol

import (
	"encoding/json"

	"cubeduel/internal/core"
	"cubeduel/internal/domain"
	"cubeduel/internal/scramble"
)

// Inbound types (client -> server).
const (
	TypeJoinQueue = "join_queue"
	TypeMove      = "move"
	TypeGameWon   = "game:won"
	TypePing      = "ping"
)

// Outbound types (server -> client).
const (
	TypeGameStart    = "game:start"
	TypeOpponentMove = "opponent:move"
	TypeGameOver     = "game:over"
	TypeOpponentLeft = "opponent:left"
	TypePong         = "pong"
)

// Envelope carries only the discriminator, enough to route a frame.
type Envelope struct {
	Type string `json:"type"`
}

type JoinQueue struct {
	Type   string `json:"type"`
	Size   int    `json:"size,omitempty"`
	UserID string `json:"userId,omitempty"`
}

type MoveEvent struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
	// Move is relayed verbatim; the server never inspects it.
	Move json.RawMessage `json:"move"`
}

type GameWon struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
}

type GameStart struct {
	Type     string           `json:"type"`
	RoomID   domain.RoomID    `json:"roomId"`
	Players  [2]domain.ConnID `json:"players"`
	Scramble []scramble.Move  `json:"scramble"`
	CubeSize int              `json:"cubeSize"`
}

type OpponentMove struct {
	Type string          `json:"type"`
	Move json.RawMessage `json:"move"`
}

type GameOver struct {
	Type     string        `json:"type"`
	WinnerID domain.ConnID `json:"winnerId"`
}

type OpponentLeft struct {
	Type string `json:"type"`
}

// Encode marshals an outbound message into a wire frame.
func Encode(v any) (core.Frame, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return core.Frame(b), nil
}
