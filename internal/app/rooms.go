package app

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"cubeduel/internal/domain"
)

var ErrDuplicateRoom = errors.New("app: room id already active")

// RoomTable is the authoritative map of active rooms. A room is live
// exactly while it is present here; Terminate is the single primitive
// every terminal path must win to be allowed its side effects.
type RoomTable struct {
	mu    sync.Mutex
	rooms map[domain.RoomID]*domain.Room
}

func NewRoomTable() *RoomTable {
	return &RoomTable{rooms: make(map[domain.RoomID]*domain.Room)}
}

func (t *RoomTable) Create(id domain.RoomID, players [2]domain.ConnID, size int) (*domain.Room, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.rooms[id]; exists {
		return nil, ErrDuplicateRoom
	}
	room := &domain.Room{
		ID:        id,
		Players:   players,
		CubeSize:  size,
		CreatedAt: time.Now(),
	}
	t.rooms[id] = room
	return room, nil
}

func (t *RoomTable) Get(id domain.RoomID) (*domain.Room, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	room, ok := t.rooms[id]
	return room, ok
}

// Terminate atomically removes and returns the room. Exactly one caller
// can ever receive ok=true for a given room, which is what resolves
// racing win claims and win-versus-disconnect interleavings.
func (t *RoomTable) Terminate(id domain.RoomID) (*domain.Room, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	room, ok := t.rooms[id]
	if !ok {
		return nil, false
	}
	delete(t.rooms, id)
	log.Debug().Str("module", "app.rooms").Str("room", string(id)).Msg("room terminated")
	return room, true
}

// TerminateByConn removes and returns the room containing id, if any.
// Scan and removal happen under one lock so a concurrent win claim for
// the same room cannot also succeed.
func (t *RoomTable) TerminateByConn(id domain.ConnID) (*domain.Room, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for roomID, room := range t.rooms {
		if room.Has(id) {
			delete(t.rooms, roomID)
			log.Debug().Str("module", "app.rooms").
				Str("room", string(roomID)).
				Str("conn", string(id)).
				Msg("room terminated by disconnect")
			return room, true
		}
	}
	return nil, false
}

// List snapshots the active rooms, for the debug API.
func (t *RoomTable) List() []domain.Room {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]domain.Room, 0, len(t.rooms))
	for _, room := range t.rooms {
		out = append(out, *room)
	}
	return out
}
