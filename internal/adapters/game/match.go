package game

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"cubeduel/internal/domain"
	"cubeduel/internal/protocol"
)

func (ctl *Controller) handleMove(id domain.ConnID, data []byte) {
	var p protocol.MoveEvent
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "game").Msg("bad move payload")
		return
	}
	ctl.Coord.RelayMove(id, domain.RoomID(p.RoomID), p.Move)
}

func (ctl *Controller) handleGameWon(id domain.ConnID, data []byte) {
	var p protocol.GameWon
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "game").Msg("bad game:won payload")
		return
	}
	log.Info().Str("module", "game").
		Str("conn", string(id)).
		Str("room", p.RoomID).
		Msg("win claimed")
	ctl.Coord.ClaimWin(id, domain.RoomID(p.RoomID))
}
