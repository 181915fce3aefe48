package ws

import (
	"sync"

	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/models"
)

// Registry tracks which connection belongs to which identity and which rooms
// it has joined. Identity channels and conversation rooms share one key
// namespace: binding an identity subscribes the connection to the room named
// by the identity's ID.
//
// All methods are safe for concurrent use; handlers run one goroutine per
// connection.
type Registry struct {
	mu      sync.RWMutex
	rooms   map[string]map[string]struct{} // room key -> conn IDs
	joined  map[string]map[string]struct{} // conn ID -> room keys
	owners  map[string]models.Identity     // conn ID -> bound identity
	channel map[string]int                 // identity channel -> live conn count
}

// BindResult reports the presence side effects of a Bind call.
type BindResult struct {
	// CameOnline is true when this is the identity's first live connection.
	CameOnline bool
	// Rebound is true when the connection was previously bound to a
	// different identity. PrevChannel names it, and PrevWentOffline is true
	// when that identity lost its last connection.
	Rebound         bool
	PrevChannel     string
	PrevWentOffline bool
}

func NewRegistry() *Registry {
	return &Registry{
		rooms:   make(map[string]map[string]struct{}),
		joined:  make(map[string]map[string]struct{}),
		owners:  make(map[string]models.Identity),
		channel: make(map[string]int),
	}
}

// Bind associates a connection with an identity channel. Rebinding the same
// identity is a no-op; rebinding a different identity replaces the prior
// binding, running the same bookkeeping a disconnect would for it.
func (r *Registry) Bind(connID string, id models.Identity) BindResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res BindResult
	if prev, ok := r.owners[connID]; ok {
		if prev.Equal(id) {
			return res
		}
		res.Rebound = true
		res.PrevChannel = prev.Channel()
		res.PrevWentOffline = r.unbindLocked(connID, prev)
	}

	r.owners[connID] = id
	r.joinLocked(connID, id.Channel())
	r.channel[id.Channel()]++
	res.CameOnline = r.channel[id.Channel()] == 1
	return res
}

// Join adds a room membership. A connection may sit in many rooms at once,
// one per open conversation view.
func (r *Registry) Join(connID, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.joinLocked(connID, room)
}

// Leave drops a single room membership.
func (r *Registry) Leave(connID, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if set, ok := r.rooms[room]; ok {
		delete(set, connID)
		if len(set) == 0 {
			delete(r.rooms, room)
		}
	}
	if set, ok := r.joined[connID]; ok {
		delete(set, room)
	}
}

// Disconnect removes every membership held by the connection. It returns the
// channel the connection was bound to and whether that identity just lost
// its last live connection.
func (r *Registry) Disconnect(connID string) (channel string, wentOffline bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, bound := r.owners[connID]
	if bound {
		channel = id.Channel()
		wentOffline = r.unbindLocked(connID, id)
	}
	for room := range r.joined[connID] {
		if set, ok := r.rooms[room]; ok {
			delete(set, connID)
			if len(set) == 0 {
				delete(r.rooms, room)
			}
		}
	}
	delete(r.joined, connID)
	delete(r.owners, connID)
	return channel, wentOffline
}

// Conns returns the connections subscribed to a key.
func (r *Registry) Conns(key string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.rooms[key]
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

// Identity returns the identity a connection is bound to, if any.
func (r *Registry) Identity(connID string) (models.Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.owners[connID]
	return id, ok
}

// Online reports whether an identity channel has at least one connection.
func (r *Registry) Online(channel string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.channel[channel] > 0
}

func (r *Registry) joinLocked(connID, room string) {
	if _, ok := r.rooms[room]; !ok {
		r.rooms[room] = make(map[string]struct{})
	}
	r.rooms[room][connID] = struct{}{}
	if _, ok := r.joined[connID]; !ok {
		r.joined[connID] = make(map[string]struct{})
	}
	r.joined[connID][room] = struct{}{}
}

func (r *Registry) unbindLocked(connID string, id models.Identity) (wentOffline bool) {
	ch := id.Channel()
	if set, ok := r.rooms[ch]; ok {
		delete(set, connID)
		if len(set) == 0 {
			delete(r.rooms, ch)
		}
	}
	if set, ok := r.joined[connID]; ok {
		delete(set, ch)
	}
	if r.channel[ch] > 0 {
		r.channel[ch]--
	}
	if r.channel[ch] == 0 {
		delete(r.channel, ch)
		return true
	}
	return false
}
