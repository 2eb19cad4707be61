package game

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"cubeduel/internal/domain"
	"cubeduel/internal/protocol"
)

func (ctl *Controller) handleJoinQueue(id domain.ConnID, data []byte) {
	var p protocol.JoinQueue
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "game").Msg("bad join_queue payload")
		return
	}

	if !ctl.Limiter.Allow(id) {
		// Dropped quietly; the client stays in whatever queue it already
		// occupies and is never shown an error for spamming joins.
		log.Warn().Str("module", "game").Str("conn", string(id)).Msg("join_queue rate limited")
		return
	}

	size := p.Size
	if size < 2 {
		size = ctl.DefaultSize
	}

	log.Info().Str("module", "game").
		Str("conn", string(id)).
		Str("user", p.UserID).
		Int("size", size).
		Msg("join_queue")
	ctl.Coord.JoinQueue(id, size, domain.UserID(p.UserID))
}
