// Package orch holds the signaling router: the event-driven core that
// mutates the room registry / connection directory and forwards
// transformed events to peers through the transport.
package orch

import (
	"github.com/rs/zerolog/log"

	"github.com/companioncall/signaling/internal/app"
	"github.com/companioncall/signaling/internal/core"
	"github.com/companioncall/signaling/internal/domain"
)

// Orchestrator is stateless itself; all state lives in the registry
// and the directory. Handlers are safe to run interleaved across
// sessions touching the same room.
type Orchestrator struct {
	Rooms     *app.RoomRegistry
	Directory *app.ConnDirectory
	Transport core.Transport
}

// Join registers the session in the room and notifies existing peers.
// The room must exist; join is the one path a client learns "no such
// room" instead of failing silently. Registration happens before the
// user_joined broadcast so a concurrent offer can already reach the
// new member, and never reaches a half-joined one.
func (o *Orchestrator) Join(sid core.SessionID, p core.JoinPayload) {
	roomID := domain.RoomID(p.RoomID)
	if p.RoomID == "" || !o.Rooms.Exists(roomID) {
		log.Warn().Str("module", "orch").Str("sid", string(sid)).Str("room", p.RoomID).Msg("join: room not found")
		o.Transport.EmitTo(sid, core.NewErrorEvent("Room not found"))
		return
	}

	o.Directory.AddSession(roomID, sid)
	o.Transport.EnterGroup(sid, roomID)

	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("user", p.UserID).Str("role", p.Role).Str("room", p.RoomID).Msg("join")
	o.Transport.Broadcast(roomID, core.NewUserJoinedEvent(p.UserID, p.Role), sid)
}

// Relay forwards an offer, answer or candidate to the sender's
// room-mates. The registry is deliberately not consulted here: a stale
// room just means the broadcast has nobody left to reach.
func (o *Orchestrator) Relay(sid core.SessionID, kind string, p core.RelayPayload) {
	if p.RoomID == "" {
		log.Debug().Str("module", "orch").Str("sid", string(sid)).Str("event", kind).Str("drop_reason", "missing roomId").Msg("relay dropped")
		return
	}
	roomID := domain.RoomID(p.RoomID)

	switch kind {
	case core.EventOffer, core.EventAnswer:
		o.Transport.Broadcast(roomID, core.NewSDPEvent(kind, p.From, p.SDP), sid)
	case core.EventCandidate:
		o.Transport.Broadcast(roomID, core.NewCandidateEvent(p.From, p.Candidate), sid)
	}
}

// Leave unregisters the session and notifies everyone still present.
// The sender is already out of the group, so no exclusion applies.
func (o *Orchestrator) Leave(sid core.SessionID, p core.LeavePayload) {
	if p.RoomID == "" {
		log.Debug().Str("module", "orch").Str("sid", string(sid)).Str("event", core.EventLeave).Str("drop_reason", "missing roomId").Msg("leave dropped")
		return
	}
	roomID := domain.RoomID(p.RoomID)

	o.Transport.LeaveGroup(sid, roomID)
	o.Directory.RemoveSession(roomID, sid)

	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("user", p.UserID).Str("room", p.RoomID).Msg("leave")
	o.Transport.Broadcast(roomID, core.NewUserLeftEvent(p.UserID), "")
}

// End marks the room ended and tells every member, sender included.
func (o *Orchestrator) End(sid core.SessionID, p core.EndPayload) {
	if p.RoomID == "" {
		log.Debug().Str("module", "orch").Str("sid", string(sid)).Str("event", core.EventEnd).Str("drop_reason", "missing roomId").Msg("end dropped")
		return
	}
	roomID := domain.RoomID(p.RoomID)

	o.Rooms.MarkEnded(roomID)
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", p.RoomID).Str("reason", p.Reason).Msg("call ended")
	o.Transport.Broadcast(roomID, core.NewCallEndedEvent(p.Reason), "")
}

// Disconnect is the transport-level cleanup path. The session did not
// self-report its room, so every room it is a member of gets a
// departure notification.
func (o *Orchestrator) Disconnect(sid core.SessionID) {
	for _, dep := range o.Directory.RemoveSessionFromAllRooms(sid) {
		o.Transport.LeaveGroup(sid, dep.RoomID)
		log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(dep.RoomID)).Msg("disconnect departure")
		o.Transport.Broadcast(dep.RoomID, core.NewLeaveEvent(string(sid)), sid)
	}
}
