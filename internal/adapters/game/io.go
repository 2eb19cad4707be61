package game

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"cubeduel/internal/domain"
	"cubeduel/internal/protocol"
)

const writeDeadline = 5 * time.Second

func (ctl *Controller) writePump(ctx context.Context, c *wsConn) {
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
				log.Error().Err(err).Str("module", "game").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "game").Msg("writePump write error")
				return
			}
		}
	}
}

// readPump drives the connection's whole lifecycle: its exit is the
// disconnect event, which tears down queue membership and any active
// room before the transport resources are released.
func (ctl *Controller) readPump(ctx context.Context, id domain.ConnID, c *wsConn) {
	defer func() {
		log.Info().Str("module", "game").Str("conn", string(id)).Msg("readPump closing")
		ctl.Coord.Disconnect(id)
		ctl.Limiter.Forget(id)
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				return
			}
			ctl.handleMessage(id, c, data)
		}
	}
}

func (ctl *Controller) handleMessage(id domain.ConnID, c *wsConn, data []byte) {
	var env protocol.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "game").Msg("bad json")
		return
	}

	switch env.Type {
	case protocol.TypeJoinQueue:
		ctl.handleJoinQueue(id, data)
	case protocol.TypeMove:
		ctl.handleMove(id, data)
	case protocol.TypeGameWon:
		ctl.handleGameWon(id, data)
	case protocol.TypePing:
		ctl.handlePing(c)
	default:
		log.Warn().Str("module", "game").Str("type", env.Type).Msg("unknown message")
	}
}

func (ctl *Controller) sendJSON(c *wsConn, v any) {
	frame, err := protocol.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "game").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(frame)
}
