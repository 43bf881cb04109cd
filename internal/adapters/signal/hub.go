package signal

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/companioncall/signaling/internal/core"
	"github.com/companioncall/signaling/internal/domain"
)

// Hub implements core.Transport over websocket connections. It keeps
// its own per-room broadcast groups; the connection directory remains
// the authoritative membership record.
type Hub struct {
	mu     sync.RWMutex
	conns  map[core.SessionID]*wsSignalConn
	groups map[domain.RoomID]map[core.SessionID]struct{}

	dropped uint64
}

func NewHub() *Hub {
	return &Hub{
		conns:  make(map[core.SessionID]*wsSignalConn),
		groups: make(map[domain.RoomID]map[core.SessionID]struct{}),
	}
}

// Register binds a connection to its session handle. A reconnect with
// the same handle supersedes and closes the previous connection.
func (h *Hub) Register(sid core.SessionID, c *wsSignalConn) {
	h.mu.Lock()
	old := h.conns[sid]
	h.conns[sid] = c
	h.mu.Unlock()
	if old != nil && old != c {
		old.Close()
	}
}

// Unregister drops the connection and any group membership left over,
// but only when c still owns the handle. A superseded connection must
// not tear down the state its replacement may already be using; the
// return value tells the caller whether session cleanup is its job.
func (h *Hub) Unregister(sid core.SessionID, c *wsSignalConn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[sid] != c {
		return false
	}
	delete(h.conns, sid)
	for roomID, set := range h.groups {
		delete(set, sid)
		if len(set) == 0 {
			delete(h.groups, roomID)
		}
	}
	return true
}

func (h *Hub) EnterGroup(sid core.SessionID, roomID domain.RoomID) {
	h.mu.Lock()
	set, ok := h.groups[roomID]
	if !ok {
		set = make(map[core.SessionID]struct{})
		h.groups[roomID] = set
	}
	set[sid] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) LeaveGroup(sid core.SessionID, roomID domain.RoomID) {
	h.mu.Lock()
	if set, ok := h.groups[roomID]; ok {
		delete(set, sid)
		if len(set) == 0 {
			delete(h.groups, roomID)
		}
	}
	h.mu.Unlock()
}

func (h *Hub) EmitTo(sid core.SessionID, v any) {
	h.mu.RLock()
	c := h.conns[sid]
	h.mu.RUnlock()
	if c == nil {
		return
	}
	h.sendJSON(sid, c, v)
}

// Broadcast fans out to a snapshot of the group taken under the lock;
// the lock is released before any per-member send so a slow peer never
// stalls unrelated rooms.
func (h *Hub) Broadcast(roomID domain.RoomID, v any, excluding core.SessionID) {
	h.mu.RLock()
	set := h.groups[roomID]
	targets := make([]core.SessionID, 0, len(set))
	conns := make([]*wsSignalConn, 0, len(set))
	for sid := range set {
		if excluding != "" && sid == excluding {
			continue
		}
		if c, ok := h.conns[sid]; ok {
			targets = append(targets, sid)
			conns = append(conns, c)
		}
	}
	h.mu.RUnlock()

	for i, c := range conns {
		h.sendJSON(targets[i], c, v)
	}
}

func (h *Hub) sendJSON(sid core.SessionID, c *wsSignalConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal.hub").Msg("sendJSON marshal")
		return
	}
	if err := c.TrySend(b); err != nil {
		h.mu.Lock()
		h.dropped++
		h.mu.Unlock()
		log.Warn().Err(err).Str("module", "signal.hub").Str("sid", string(sid)).Msg("frame dropped")
	}
}

// ConnCount reports live connections for /health.
func (h *Hub) ConnCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Dropped reports frames lost to backpressure since start.
func (h *Hub) Dropped() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dropped
}
