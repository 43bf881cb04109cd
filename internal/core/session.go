package core

import "github.com/companioncall/signaling/internal/domain"

// SessionID is the opaque handle of one live client connection,
// assigned by the transport adapter and stable until disconnect.
type SessionID string

// Frame is a raw serialized payload.
type Frame []byte

// SignalConnection abstracts a single client's messaging endpoint.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// Transport is what the signaling router drives to reach clients.
// Group membership here is delivery-side bookkeeping; the connection
// directory stays the authoritative membership record.
type Transport interface {
	// EmitTo sends an event to one session. Unknown sessions are a no-op.
	EmitTo(sid SessionID, v any)
	// Broadcast sends an event to every session in the room's group,
	// minus excluding when non-empty.
	Broadcast(roomID domain.RoomID, v any, excluding SessionID)
	EnterGroup(sid SessionID, roomID domain.RoomID)
	LeaveGroup(sid SessionID, roomID domain.RoomID)
}
