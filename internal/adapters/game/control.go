package game

import "cubeduel/internal/protocol"

func (ctl *Controller) handlePing(c *wsConn) {
	ctl.sendJSON(c, protocol.Envelope{Type: protocol.TypePong})
}
