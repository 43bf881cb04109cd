package app

import (
	"sort"
	"sync"
	"testing"

	"github.com/companioncall/signaling/internal/core"
)

func sortedSIDs(in []core.SessionID) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	sort.Strings(out)
	return out
}

func TestAddSessionIdempotent(t *testing.T) {
	d := NewConnDirectory()
	d.AddSession("room-1", "a")
	d.AddSession("room-1", "a")
	d.AddSession("room-1", "b")

	peers := d.Peers("room-1", "")
	if len(peers) != 2 {
		t.Fatalf("peers = %v, want 2 entries", peers)
	}
}

func TestPeersExcluding(t *testing.T) {
	d := NewConnDirectory()
	d.AddSession("room-1", "a")
	d.AddSession("room-1", "b")
	d.AddSession("room-1", "c")

	got := sortedSIDs(d.Peers("room-1", "b"))
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Fatalf("peers excluding b = %v", got)
	}
	if d.Peers("missing", "") != nil {
		t.Fatal("unknown room should have nil peers")
	}
}

func TestRemoveSession(t *testing.T) {
	d := NewConnDirectory()
	d.AddSession("room-1", "a")
	d.RemoveSession("room-1", "a")
	// No-ops must not panic.
	d.RemoveSession("room-1", "a")
	d.RemoveSession("missing", "a")

	if len(d.Peers("room-1", "")) != 0 {
		t.Fatal("session still present after remove")
	}
	if d.RoomCount() != 0 {
		t.Fatalf("empty room set not pruned, RoomCount = %d", d.RoomCount())
	}
}

func TestRemoveSessionFromAllRooms(t *testing.T) {
	d := NewConnDirectory()
	d.AddSession("room-1", "a")
	d.AddSession("room-1", "b")
	d.AddSession("room-2", "a")
	d.AddSession("room-3", "c")

	deps := d.RemoveSessionFromAllRooms("a")
	if len(deps) != 2 {
		t.Fatalf("departures = %d, want 2", len(deps))
	}
	for _, dep := range deps {
		switch dep.RoomID {
		case "room-1":
			if got := sortedSIDs(dep.Remaining); len(got) != 1 || got[0] != "b" {
				t.Fatalf("room-1 remaining = %v", got)
			}
		case "room-2":
			if len(dep.Remaining) != 0 {
				t.Fatalf("room-2 remaining = %v", dep.Remaining)
			}
		default:
			t.Fatalf("unexpected departure from %s", dep.RoomID)
		}
	}

	if len(d.Peers("room-1", "")) != 1 {
		t.Fatal("room-1 lost the wrong member")
	}
	if len(d.Peers("room-3", "")) != 1 {
		t.Fatal("room-3 should be untouched")
	}

	if deps := d.RemoveSessionFromAllRooms("ghost"); deps != nil {
		t.Fatalf("unknown session produced departures: %v", deps)
	}
}

func TestConcurrentJoinSameRoom(t *testing.T) {
	d := NewConnDirectory()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		d.AddSession("room-1", "a")
	}()
	go func() {
		defer wg.Done()
		d.AddSession("room-1", "b")
	}()
	wg.Wait()

	if got := d.Peers("room-1", ""); len(got) != 2 {
		t.Fatalf("membership lost under concurrent join: %v", got)
	}
}
