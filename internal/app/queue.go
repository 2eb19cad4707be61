package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"cubeduel/internal/domain"
)

// QueueManager holds one FIFO bucket of waiting connections per cube
// size. A connection is a member of at most one bucket at any instant.
type QueueManager struct {
	mu      sync.Mutex
	buckets map[int][]domain.ConnID
}

func NewQueueManager() *QueueManager {
	return &QueueManager{buckets: make(map[int][]domain.ConnID)}
}

// Join removes id from every bucket it occupies, then appends it to the
// bucket for size. The remove-then-insert keeps the single-membership
// invariant when a waiting client re-requests a different size.
func (q *QueueManager) Join(id domain.ConnID, size int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.removeLocked(id)
	q.buckets[size] = append(q.buckets[size], id)
	log.Debug().Str("module", "app.queue").
		Str("conn", string(id)).
		Int("size", size).
		Int("depth", len(q.buckets[size])).
		Msg("joined queue")
}

// TryPair pops the two earliest-joined connections for size if the
// bucket holds at least two. The pop is atomic with the membership
// check, so a returned connection is never still queued anywhere.
func (q *QueueManager) TryPair(size int) (a, b domain.ConnID, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	bucket := q.buckets[size]
	if len(bucket) < 2 {
		return "", "", false
	}
	a, b = bucket[0], bucket[1]
	q.buckets[size] = append([]domain.ConnID{}, bucket[2:]...)
	return a, b, true
}

// Leave removes id from every bucket. No-op when absent.
func (q *QueueManager) Leave(id domain.ConnID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.removeLocked(id)
}

func (q *QueueManager) removeLocked(id domain.ConnID) {
	for size, bucket := range q.buckets {
		for i, queued := range bucket {
			if queued != id {
				continue
			}
			q.buckets[size] = append(bucket[:i:i], bucket[i+1:]...)
			log.Debug().Str("module", "app.queue").
				Str("conn", string(id)).
				Int("size", size).
				Msg("removed from queue")
			break
		}
	}
}

// Depths reports the current bucket sizes, for the debug API.
func (q *QueueManager) Depths() map[int]int {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make(map[int]int, len(q.buckets))
	for size, bucket := range q.buckets {
		if len(bucket) > 0 {
			out[size] = len(bucket)
		}
	}
	return out
}
