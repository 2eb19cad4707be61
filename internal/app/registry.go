package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"cubeduel/internal/core"
	"cubeduel/internal/domain"
)

type connEntry struct {
	conn   core.SignalConnection
	cancel context.CancelFunc
}

// Registry binds live connection ids to their transport endpoints and
// to the user identity the identity provider reported for them, if any.
type Registry struct {
	mu    sync.RWMutex
	conns map[domain.ConnID]*connEntry
	users map[domain.ConnID]domain.UserID
}

func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[domain.ConnID]*connEntry),
		users: make(map[domain.ConnID]domain.UserID),
	}
}

func (r *Registry) Bind(id domain.ConnID, conn core.SignalConnection, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[id] = &connEntry{conn: conn, cancel: cancel}
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("connection bound")
}

func (r *Registry) Conn(id domain.ConnID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.conns[id]; ok {
		return e.conn, true
	}
	return nil, false
}

// SetUser records the identity for a connection. Callers treat the
// association as stable after the first set.
func (r *Registry) SetUser(id domain.ConnID, user domain.UserID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[id] = user
	log.Debug().Str("module", "app.registry").
		Str("conn", string(id)).
		Str("user", string(user)).
		Msg("user identified")
}

func (r *Registry) UserOf(id domain.ConnID) (domain.UserID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	return user, ok
}

// Unbind drops the connection and its identity association, and cancels
// the connection-scoped context so both pumps stop.
func (r *Registry) Unbind(id domain.ConnID) {
	r.mu.Lock()
	entry, ok := r.conns[id]
	delete(r.conns, id)
	delete(r.users, id)
	r.mu.Unlock()
	if ok && entry.cancel != nil {
		entry.cancel()
	}
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("connection unbound")
}
