package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/companioncall/signaling/internal/core"
	"github.com/companioncall/signaling/internal/domain"
)

// Departure reports one room a disconnected session was removed from,
// with the peers still present so the router can notify them.
type Departure struct {
	RoomID    domain.RoomID
	Remaining []core.SessionID
}

// ConnDirectory tracks which sessions are currently inside which room.
// A session appears in a room's set iff it has joined and not yet
// left or disconnected. Nothing here caps membership at two.
type ConnDirectory struct {
	mu      sync.RWMutex
	members map[domain.RoomID]map[core.SessionID]struct{}
}

func NewConnDirectory() *ConnDirectory {
	return &ConnDirectory{
		members: make(map[domain.RoomID]map[core.SessionID]struct{}),
	}
}

// AddSession is idempotent; the room's set is created on first use.
func (d *ConnDirectory) AddSession(roomID domain.RoomID, sid core.SessionID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	set, ok := d.members[roomID]
	if !ok {
		set = make(map[core.SessionID]struct{})
		d.members[roomID] = set
	}
	set[sid] = struct{}{}
	log.Info().Str("module", "app.directory").Str("room", string(roomID)).Str("sid", string(sid)).Msg("session added")
}

// RemoveSession is a no-op if the room or handle is absent.
func (d *ConnDirectory) RemoveSession(roomID domain.RoomID, sid core.SessionID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if set, ok := d.members[roomID]; ok {
		delete(set, sid)
		if len(set) == 0 {
			delete(d.members, roomID)
		}
	}
	log.Info().Str("module", "app.directory").Str("room", string(roomID)).Str("sid", string(sid)).Msg("session removed")
}

// Peers returns the current members minus excluding ("" excludes nobody).
func (d *ConnDirectory) Peers(roomID domain.RoomID, excluding core.SessionID) []core.SessionID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	set, ok := d.members[roomID]
	if !ok {
		return nil
	}
	out := make([]core.SessionID, 0, len(set))
	for sid := range set {
		if sid == excluding {
			continue
		}
		out = append(out, sid)
	}
	return out
}

// RemoveSessionFromAllRooms handles transport-level disconnect, where
// the session does not self-report its room. It may be registered
// under more than one room; each is scanned and cleaned up.
func (d *ConnDirectory) RemoveSessionFromAllRooms(sid core.SessionID) []Departure {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []Departure
	for roomID, set := range d.members {
		if _, ok := set[sid]; !ok {
			continue
		}
		delete(set, sid)
		remaining := make([]core.SessionID, 0, len(set))
		for peer := range set {
			remaining = append(remaining, peer)
		}
		if len(set) == 0 {
			delete(d.members, roomID)
		}
		out = append(out, Departure{RoomID: roomID, Remaining: remaining})
	}
	if len(out) > 0 {
		log.Info().Str("module", "app.directory").Str("sid", string(sid)).Int("rooms", len(out)).Msg("session removed from all rooms")
	}
	return out
}

// RoomCount is an observability helper for /health.
func (d *ConnDirectory) RoomCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.members)
}
