package domain

import "time"

type RoomID string

// NewRoomID derives a room id from the two participant connection ids.
// Connection ids are unique per connect, so no two live pairings can
// produce the same id for as long as either connection exists.
func NewRoomID(a, b ConnID) RoomID {
	return RoomID(string(a) + ":" + string(b))
}

// Room is the registry record for one active match. Immutable after
// creation; existence in the session registry is what makes it live.
type Room struct {
	ID        RoomID
	Players   [2]ConnID
	CubeSize  int
	CreatedAt time.Time
}

func (r *Room) Has(id ConnID) bool {
	return r.Players[0] == id || r.Players[1] == id
}

// Opponent returns the other participant. ok is false when id is not a
// participant at all.
func (r *Room) Opponent(id ConnID) (ConnID, bool) {
	switch id {
	case r.Players[0]:
		return r.Players[1], true
	case r.Players[1]:
		return r.Players[0], true
	}
	return "", false
}
