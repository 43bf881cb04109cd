package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/companioncall/signaling/internal/domain"
)

var (
	// ErrRoomNotFound means the identifier was never allocated.
	ErrRoomNotFound = errors.New("room not found")
	// ErrRoomGone means the room existed but is past its expiry.
	ErrRoomGone = errors.New("room has expired")
)

// RoomRegistry owns every Room. The HTTP facade and the signaling
// router share one instance; all access goes through its mutex.
type RoomRegistry struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]*domain.Room

	now func() time.Time
}

func NewRoomRegistry() *RoomRegistry {
	return NewRoomRegistryWithClock(time.Now)
}

// NewRoomRegistryWithClock injects the time source, for expiry tests.
func NewRoomRegistryWithClock(now func() time.Time) *RoomRegistry {
	return &RoomRegistry{
		rooms: make(map[domain.RoomID]*domain.Room),
		now:   now,
	}
}

// Create allocates a fresh room with a 2h expiry. Identifier
// collisions are not possible with a strong random id. The returned
// value is a copy; the live record never leaves the registry.
func (r *RoomRegistry) Create(userID domain.UserID, companionID string) domain.Room {
	room := domain.NewRoom(userID, companionID, r.now())
	r.mu.Lock()
	r.rooms[room.ID] = room
	out := *room
	r.mu.Unlock()
	log.Info().Str("module", "app.registry").Str("room", string(room.ID)).Str("user", string(userID)).Msg("room created")
	return out
}

// Get returns a copy of the room or a distinguishable error:
// ErrRoomNotFound for unknown ids, ErrRoomGone past expiry. Expiry is
// detected lazily here and flips the status as a side effect; this is
// the only path that performs expiry bookkeeping. Callers get a value
// they can read and marshal without holding the registry lock.
func (r *RoomRegistry) Get(roomID domain.RoomID) (domain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return domain.Room{}, ErrRoomNotFound
	}
	if r.now().After(room.ExpiresAt) {
		if room.Status == domain.RoomActive {
			room.Status = domain.RoomExpired
			log.Info().Str("module", "app.registry").Str("room", string(roomID)).Msg("room expired")
		}
		return domain.Room{}, ErrRoomGone
	}
	return *room, nil
}

// MarkEnded is idempotent and a no-op for unknown rooms.
func (r *RoomRegistry) MarkEnded(roomID domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if room, ok := r.rooms[roomID]; ok {
		room.Status = domain.RoomEnded
		log.Info().Str("module", "app.registry").Str("room", string(roomID)).Msg("room ended")
	}
}

// Exists is a cheap membership check without the expiry side effect,
// so the real-time join path never mutates room state.
func (r *RoomRegistry) Exists(roomID domain.RoomID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rooms[roomID]
	return ok
}

func (r *RoomRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// Sweep periodically evicts rooms whose expiry is older than
// retention, bounding registry growth in long-running processes.
// Recently expired rooms stay queryable (answering ErrRoomGone) until
// the retention window passes.
func (r *RoomRegistry) Sweep(ctx context.Context, interval, retention time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.evictExpired(retention); n > 0 {
				log.Info().Str("module", "app.registry").Int("evicted", n).Msg("swept expired rooms")
			}
		}
	}
}

func (r *RoomRegistry) evictExpired(retention time.Duration) int {
	cutoff := r.now().Add(-retention)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, room := range r.rooms {
		if room.ExpiresAt.Before(cutoff) {
			delete(r.rooms, id)
			n++
		}
	}
	return n
}
