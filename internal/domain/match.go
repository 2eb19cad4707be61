package domain

import "time"

// MatchResult is the durable outcome of a finished match. Built only for
// wins where both participants are authenticated; abandonment never
// produces one.
type MatchResult struct {
	Player1  UserID
	Player2  UserID
	Winner   UserID
	CubeSize int
	PlayedAt time.Time
}
