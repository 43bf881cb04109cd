package core

import "encoding/json"

// Inbound event names. The flat envelope carries the discriminator in
// the "type" field next to the event's own fields.
const (
	EventJoin      = "join"
	EventOffer     = "offer"
	EventAnswer    = "answer"
	EventCandidate = "candidate"
	EventLeave     = "leave"
	EventEnd       = "end"
)

type JoinPayload struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// RelayPayload covers offer, answer and candidate. SDP and candidate
// bodies are opaque to the relay and forwarded verbatim.
type RelayPayload struct {
	RoomID    string          `json:"roomId"`
	SDP       json.RawMessage `json:"sdp,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
	From      string          `json:"from"`
}

type LeavePayload struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
}

type EndPayload struct {
	RoomID string `json:"roomId"`
	Reason string `json:"reason"`
}

// Outbound events. Field names are the wire contract and must stay
// byte-for-byte compatible with existing clients.

type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewErrorEvent(msg string) ErrorEvent {
	return ErrorEvent{Type: "error", Message: msg}
}

type UserJoinedEvent struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

func NewUserJoinedEvent(userID, role string) UserJoinedEvent {
	return UserJoinedEvent{Type: "user_joined", UserID: userID, Role: role}
}

// SDPEvent re-tags an offer or answer with the sender's identifier.
type SDPEvent struct {
	Type string          `json:"type"`
	From string          `json:"from"`
	SDP  json.RawMessage `json:"sdp"`
}

func NewSDPEvent(kind, from string, sdp json.RawMessage) SDPEvent {
	return SDPEvent{Type: kind, From: from, SDP: sdp}
}

type CandidateEvent struct {
	Type      string          `json:"type"`
	From      string          `json:"from"`
	Candidate json.RawMessage `json:"candidate"`
}

func NewCandidateEvent(from string, candidate json.RawMessage) CandidateEvent {
	return CandidateEvent{Type: "candidate", From: from, Candidate: candidate}
}

type UserLeftEvent struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

func NewUserLeftEvent(userID string) UserLeftEvent {
	return UserLeftEvent{Type: "user_left", UserID: userID}
}

// LeaveEvent mirrors the inbound leave shape; emitted on transport
// disconnect where only the session handle is known.
type LeaveEvent struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

func NewLeaveEvent(userID string) LeaveEvent {
	return LeaveEvent{Type: "leave", UserID: userID}
}

type CallEndedEvent struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

func NewCallEndedEvent(reason string) CallEndedEvent {
	return CallEndedEvent{Type: "call_ended", Reason: reason}
}
