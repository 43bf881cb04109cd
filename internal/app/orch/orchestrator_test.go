package orch

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/companioncall/signaling/internal/app"
	"github.com/companioncall/signaling/internal/core"
	"github.com/companioncall/signaling/internal/domain"
)

type sentEvent struct {
	To        core.SessionID // set for unicast
	Room      domain.RoomID  // set for broadcast
	Excluding core.SessionID
	Event     any
}

// fakeTransport records every emission and mirrors group membership.
type fakeTransport struct {
	mu     sync.Mutex
	sent   []sentEvent
	groups map[domain.RoomID]map[core.SessionID]bool
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{groups: make(map[domain.RoomID]map[core.SessionID]bool)}
}

func (f *fakeTransport) EmitTo(sid core.SessionID, v any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentEvent{To: sid, Event: v})
}

func (f *fakeTransport) Broadcast(roomID domain.RoomID, v any, excluding core.SessionID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentEvent{Room: roomID, Excluding: excluding, Event: v})
}

func (f *fakeTransport) EnterGroup(sid core.SessionID, roomID domain.RoomID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.groups[roomID] == nil {
		f.groups[roomID] = make(map[core.SessionID]bool)
	}
	f.groups[roomID][sid] = true
}

func (f *fakeTransport) LeaveGroup(sid core.SessionID, roomID domain.RoomID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.groups[roomID], sid)
}

func (f *fakeTransport) events() []sentEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentEvent(nil), f.sent...)
}

func (f *fakeTransport) inGroup(roomID domain.RoomID, sid core.SessionID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.groups[roomID][sid]
}

func newTestOrchestrator() (*Orchestrator, *fakeTransport) {
	tr := newFakeTransport()
	o := &Orchestrator{
		Rooms:     app.NewRoomRegistry(),
		Directory: app.NewConnDirectory(),
		Transport: tr,
	}
	return o, tr
}

func TestJoinUnknownRoom(t *testing.T) {
	o, tr := newTestOrchestrator()

	o.Join("sid-a", core.JoinPayload{RoomID: "missing", UserID: "alice", Role: "user"})

	events := tr.events()
	if len(events) != 1 {
		t.Fatalf("events = %v, want one unicast", events)
	}
	if events[0].To != "sid-a" {
		t.Fatalf("error event went to %q", events[0].To)
	}
	ev, ok := events[0].Event.(core.ErrorEvent)
	if !ok || ev.Message != "Room not found" {
		t.Fatalf("unexpected event %+v", events[0].Event)
	}
	if len(o.Directory.Peers("missing", "")) != 0 {
		t.Fatal("failed join must not register the session")
	}
}

func TestJoinRegistersThenNotifies(t *testing.T) {
	o, tr := newTestOrchestrator()
	room := o.Rooms.Create("alice", "")

	o.Join("sid-a", core.JoinPayload{RoomID: string(room.ID), UserID: "alice", Role: "user"})
	o.Join("sid-b", core.JoinPayload{RoomID: string(room.ID), UserID: "bot", Role: "companion"})

	if !tr.inGroup(room.ID, "sid-a") || !tr.inGroup(room.ID, "sid-b") {
		t.Fatal("sessions missing from broadcast group")
	}
	if got := o.Directory.Peers(room.ID, ""); len(got) != 2 {
		t.Fatalf("directory peers = %v, want 2", got)
	}

	events := tr.events()
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2 broadcasts", len(events))
	}
	last := events[1]
	if last.Room != room.ID || last.Excluding != "sid-b" {
		t.Fatalf("user_joined broadcast %+v", last)
	}
	ev, ok := last.Event.(core.UserJoinedEvent)
	if !ok || ev.UserID != "bot" || ev.Role != "companion" {
		t.Fatalf("unexpected user_joined %+v", last.Event)
	}
}

func TestRelayOfferExcludesSender(t *testing.T) {
	o, tr := newTestOrchestrator()

	sdp := json.RawMessage(`{"type":"offer","sdp":"v=0"}`)
	o.Relay("sid-a", core.EventOffer, core.RelayPayload{RoomID: "room-1", SDP: sdp, From: "alice"})

	events := tr.events()
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if events[0].Room != "room-1" || events[0].Excluding != "sid-a" {
		t.Fatalf("broadcast %+v", events[0])
	}
	ev, ok := events[0].Event.(core.SDPEvent)
	if !ok || ev.Type != "offer" || ev.From != "alice" || string(ev.SDP) != string(sdp) {
		t.Fatalf("unexpected offer %+v", events[0].Event)
	}
}

func TestRelayCandidateCarriesFrom(t *testing.T) {
	o, tr := newTestOrchestrator()

	cand := json.RawMessage(`{"candidate":"candidate:1 1 udp 2122260223 10.0.0.1 51111 typ host"}`)
	o.Relay("sid-a", core.EventCandidate, core.RelayPayload{RoomID: "room-1", Candidate: cand, From: "alice"})

	events := tr.events()
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	ev, ok := events[0].Event.(core.CandidateEvent)
	if !ok || ev.From != "alice" || string(ev.Candidate) != string(cand) {
		t.Fatalf("unexpected candidate %+v", events[0].Event)
	}
	if events[0].Excluding != "sid-a" {
		t.Fatal("sender must not receive its own candidate")
	}
}

func TestRelayMissingRoomIsDropped(t *testing.T) {
	o, tr := newTestOrchestrator()

	o.Relay("sid-a", core.EventOffer, core.RelayPayload{From: "alice"})
	o.Relay("sid-a", core.EventAnswer, core.RelayPayload{From: "alice"})
	o.Relay("sid-a", core.EventCandidate, core.RelayPayload{From: "alice"})

	if events := tr.events(); len(events) != 0 {
		t.Fatalf("missing roomId must drop silently, got %v", events)
	}
}

// The relay path never validates against the registry: a stale room is
// a harmless broadcast into an empty group, not an error.
func TestRelaySkipsRegistryLookup(t *testing.T) {
	o, tr := newTestOrchestrator()

	o.Relay("sid-a", core.EventOffer, core.RelayPayload{RoomID: "never-created", SDP: json.RawMessage(`{}`), From: "x"})
	if events := tr.events(); len(events) != 1 {
		t.Fatalf("events = %d, want 1 broadcast", len(events))
	}
}

func TestLeaveNotifiesEveryoneStillPresent(t *testing.T) {
	o, tr := newTestOrchestrator()
	room := o.Rooms.Create("alice", "")
	o.Join("sid-a", core.JoinPayload{RoomID: string(room.ID), UserID: "alice", Role: "user"})
	o.Join("sid-b", core.JoinPayload{RoomID: string(room.ID), UserID: "bot", Role: "companion"})

	o.Leave("sid-a", core.LeavePayload{RoomID: string(room.ID), UserID: "alice"})

	if tr.inGroup(room.ID, "sid-a") {
		t.Fatal("departed session still in broadcast group")
	}
	if got := o.Directory.Peers(room.ID, ""); len(got) != 1 || got[0] != "sid-b" {
		t.Fatalf("directory peers = %v", got)
	}

	events := tr.events()
	last := events[len(events)-1]
	if last.Excluding != "" {
		t.Fatalf("user_left must not exclude anyone, got %+v", last)
	}
	ev, ok := last.Event.(core.UserLeftEvent)
	if !ok || ev.UserID != "alice" {
		t.Fatalf("unexpected user_left %+v", last.Event)
	}
}

func TestEndMarksRoomAndBroadcasts(t *testing.T) {
	o, tr := newTestOrchestrator()
	room := o.Rooms.Create("alice", "")
	o.Join("sid-a", core.JoinPayload{RoomID: string(room.ID), UserID: "alice", Role: "user"})

	o.End("sid-a", core.EndPayload{RoomID: string(room.ID), Reason: "timeout"})

	got, err := o.Rooms.Get(room.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != domain.RoomEnded {
		t.Fatalf("status = %q, want ended", got.Status)
	}
	events := tr.events()
	last := events[len(events)-1]
	if last.Room != room.ID || last.Excluding != "" {
		t.Fatalf("call_ended broadcast %+v, sender must be included", last)
	}
	ev, ok := last.Event.(core.CallEndedEvent)
	if !ok || ev.Reason != "timeout" {
		t.Fatalf("unexpected call_ended %+v", last.Event)
	}
}

func TestDisconnectSweepsAllRooms(t *testing.T) {
	o, tr := newTestOrchestrator()
	room1 := o.Rooms.Create("alice", "")
	room2 := o.Rooms.Create("alice", "")
	o.Join("sid-a", core.JoinPayload{RoomID: string(room1.ID), UserID: "alice", Role: "user"})
	o.Join("sid-a", core.JoinPayload{RoomID: string(room2.ID), UserID: "alice", Role: "user"})
	o.Join("sid-b", core.JoinPayload{RoomID: string(room1.ID), UserID: "bot", Role: "companion"})

	before := len(tr.events())
	o.Disconnect("sid-a")

	if len(o.Directory.Peers(room1.ID, "")) != 1 {
		t.Fatal("sid-a not removed from room1")
	}
	if len(o.Directory.Peers(room2.ID, "")) != 0 {
		t.Fatal("sid-a not removed from room2")
	}

	var rooms []domain.RoomID
	for _, ev := range tr.events()[before:] {
		le, ok := ev.Event.(core.LeaveEvent)
		if !ok {
			t.Fatalf("unexpected event after disconnect: %+v", ev.Event)
		}
		if le.UserID != "sid-a" {
			t.Fatalf("leave userId = %q, want session handle", le.UserID)
		}
		if ev.Excluding != "sid-a" {
			t.Fatalf("disconnect broadcast must exclude the gone session: %+v", ev)
		}
		rooms = append(rooms, ev.Room)
	}
	if len(rooms) != 2 {
		t.Fatalf("departure broadcasts in %v, want both rooms", rooms)
	}
}

func TestConcurrentJoins(t *testing.T) {
	o, _ := newTestOrchestrator()
	room := o.Rooms.Create("alice", "")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		o.Join("sid-a", core.JoinPayload{RoomID: string(room.ID), UserID: "alice", Role: "user"})
	}()
	go func() {
		defer wg.Done()
		o.Join("sid-b", core.JoinPayload{RoomID: string(room.ID), UserID: "bot", Role: "companion"})
	}()
	wg.Wait()

	if got := o.Directory.Peers(room.ID, ""); len(got) != 2 {
		t.Fatalf("membership lost under concurrent join: %v", got)
	}
}
