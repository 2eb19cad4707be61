package app

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"cubeduel/internal/domain"
	"cubeduel/internal/protocol"
	"cubeduel/internal/report"
	"cubeduel/internal/scramble"
)

const reportTimeout = 5 * time.Second

// Coordinator drives a match from pairing through move relay to
// termination. Every terminal path funnels through the room table's
// atomic remove, so at most one of a win claim and a disconnect ever
// produces side effects for the same room.
type Coordinator struct {
	Queue    *QueueManager
	Rooms    *RoomTable
	Registry *Registry
	Reporter report.Reporter

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewCoordinator(queue *QueueManager, rooms *RoomTable, registry *Registry, reporter report.Reporter) *Coordinator {
	return &Coordinator{
		Queue:    queue,
		Rooms:    rooms,
		Registry: registry,
		Reporter: reporter,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// scrambleLengthFor is the scramble length policy: short for 2x2,
// standard everywhere else.
func scrambleLengthFor(size int) int {
	if size == 2 {
		return 10
	}
	return 20
}

// JoinQueue enqueues the connection for size and starts a match as soon
// as the bucket can pair.
func (c *Coordinator) JoinQueue(id domain.ConnID, size int, user domain.UserID) {
	if user != "" {
		c.Registry.SetUser(id, user)
	}
	c.Queue.Join(id, size)
	a, b, ok := c.Queue.TryPair(size)
	if !ok {
		return
	}
	c.startMatch(a, b, size)
}

func (c *Coordinator) startMatch(a, b domain.ConnID, size int) {
	c.rngMu.Lock()
	moves, err := scramble.Generate(c.rng, scrambleLengthFor(size), size)
	c.rngMu.Unlock()
	if err != nil {
		// Never start a room with a malformed scramble; the pairing is
		// rejected instead. Re-queueing the pair would just re-pair it.
		log.Warn().Err(err).Str("module", "app.coordinator").
			Int("size", size).
			Msg("pairing rejected")
		return
	}

	roomID := domain.NewRoomID(a, b)
	room, err := c.Rooms.Create(roomID, [2]domain.ConnID{a, b}, size)
	if err != nil {
		log.Error().Err(err).Str("module", "app.coordinator").
			Str("room", string(roomID)).
			Msg("room creation failed")
		return
	}

	start := protocol.GameStart{
		Type:     protocol.TypeGameStart,
		RoomID:   room.ID,
		Players:  room.Players,
		Scramble: moves,
		CubeSize: size,
	}
	c.sendTo(a, start)
	c.sendTo(b, start)
	log.Info().Str("module", "app.coordinator").
		Str("room", string(room.ID)).
		Int("size", size).
		Msg("game started")
}

// RelayMove forwards a move verbatim to the sender's opponent. Unknown
// rooms and non-participants are ignored; both arise from ordinary
// termination races, not client misbehavior.
func (c *Coordinator) RelayMove(from domain.ConnID, roomID domain.RoomID, move json.RawMessage) {
	room, ok := c.Rooms.Get(roomID)
	if !ok {
		return
	}
	opponent, ok := room.Opponent(from)
	if !ok {
		return
	}
	c.sendTo(opponent, protocol.OpponentMove{Type: protocol.TypeOpponentMove, Move: move})
}

// ClaimWin resolves a game:won event. The atomic Terminate is the sole
// authorization: if the room is already gone, a faster claim or a
// disconnect won the race and this claim is silently dropped.
func (c *Coordinator) ClaimWin(from domain.ConnID, roomID domain.RoomID) {
	room, ok := c.Rooms.Terminate(roomID)
	if !ok {
		log.Debug().Str("module", "app.coordinator").
			Str("conn", string(from)).
			Str("room", string(roomID)).
			Msg("ignored stale win claim")
		return
	}

	over := protocol.GameOver{Type: protocol.TypeGameOver, WinnerID: from}
	for _, p := range room.Players {
		c.sendTo(p, over)
	}
	log.Info().Str("module", "app.coordinator").
		Str("room", string(room.ID)).
		Str("winner", string(from)).
		Msg("game over")

	c.reportWin(room, from)
}

// Disconnect is the only cancellation signal. The connection leaves
// every queue unconditionally; if it was mid-session the room is torn
// down and the remaining participant notified. Abandonment never
// produces a match result.
func (c *Coordinator) Disconnect(id domain.ConnID) {
	c.Queue.Leave(id)
	if room, ok := c.Rooms.TerminateByConn(id); ok {
		if opponent, ok := room.Opponent(id); ok {
			c.sendTo(opponent, protocol.OpponentLeft{Type: protocol.TypeOpponentLeft})
		}
		log.Info().Str("module", "app.coordinator").
			Str("room", string(room.ID)).
			Str("conn", string(id)).
			Msg("game abandoned")
	}
	c.Registry.Unbind(id)
}

// reportWin hands a finished match to the results sink, off the realtime
// path. Requires both participants and the winner to be authenticated;
// sink failures are logged and swallowed.
func (c *Coordinator) reportWin(room *domain.Room, winner domain.ConnID) {
	p1, ok1 := c.Registry.UserOf(room.Players[0])
	p2, ok2 := c.Registry.UserOf(room.Players[1])
	w, okW := c.Registry.UserOf(winner)
	if !ok1 || !ok2 || !okW {
		log.Debug().Str("module", "app.coordinator").
			Str("room", string(room.ID)).
			Msg("anonymous participant, result not recorded")
		return
	}

	res := domain.MatchResult{
		Player1:  p1,
		Player2:  p2,
		Winner:   w,
		CubeSize: room.CubeSize,
		PlayedAt: time.Now(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
		defer cancel()
		if err := c.Reporter.Save(ctx, res); err != nil {
			log.Error().Err(err).Str("module", "app.coordinator").
				Str("room", string(room.ID)).
				Msg("match result dropped")
		}
	}()
}

func (c *Coordinator) sendTo(id domain.ConnID, v any) {
	conn, ok := c.Registry.Conn(id)
	if !ok {
		return
	}
	frame, err := protocol.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.coordinator").Msg("encode event")
		return
	}
	if err := conn.TrySend(frame); err != nil {
		log.Warn().Err(err).Str("module", "app.coordinator").
			Str("conn", string(id)).
			Msg("event dropped")
	}
}
