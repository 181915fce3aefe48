package ws_test

import (
	"sort"
	"testing"

	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/models"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/ws"
)

var (
	alice = models.Identity{ID: "alice", Kind: models.KindEmployee}
	bob   = models.Identity{ID: "bob", Kind: models.KindAdmin}
)

func TestBindFirstConnectionComesOnline(t *testing.T) {
	r := ws.NewRegistry()
	res := r.Bind("c1", alice)
	if !res.CameOnline {
		t.Fatal("first bind should report CameOnline")
	}
	if !r.Online(alice.Channel()) {
		t.Fatal("alice should be online")
	}
	if got := r.Conns(alice.Channel()); len(got) != 1 || got[0] != "c1" {
		t.Fatalf("Conns = %v, want [c1]", got)
	}
}

func TestBindSecondConnectionSameIdentity(t *testing.T) {
	r := ws.NewRegistry()
	r.Bind("c1", alice)
	res := r.Bind("c2", alice)
	if res.CameOnline {
		t.Fatal("second connection must not report CameOnline")
	}
	got := r.Conns(alice.Channel())
	sort.Strings(got)
	if len(got) != 2 || got[0] != "c1" || got[1] != "c2" {
		t.Fatalf("Conns = %v, want [c1 c2]", got)
	}
}

func TestBindSameIdentityTwiceIsIdempotent(t *testing.T) {
	r := ws.NewRegistry()
	r.Bind("c1", alice)
	res := r.Bind("c1", alice)
	if res.CameOnline || res.Rebound {
		t.Fatalf("re-bind of same identity should be a no-op, got %+v", res)
	}
	if got := r.Conns(alice.Channel()); len(got) != 1 {
		t.Fatalf("Conns = %v, want single entry", got)
	}
}

func TestRebindReplacesIdentity(t *testing.T) {
	r := ws.NewRegistry()
	r.Bind("c1", alice)
	res := r.Bind("c1", bob)
	if !res.Rebound {
		t.Fatal("expected Rebound")
	}
	if res.PrevChannel != alice.Channel() || !res.PrevWentOffline {
		t.Fatalf("prev bookkeeping wrong: %+v", res)
	}
	if r.Online(alice.Channel()) {
		t.Fatal("alice should be offline after rebind")
	}
	if !r.Online(bob.Channel()) {
		t.Fatal("bob should be online")
	}
	if id, ok := r.Identity("c1"); !ok || !id.Equal(bob) {
		t.Fatalf("Identity(c1) = %+v, want bob", id)
	}
}

func TestRebindKeepsPrevOnlineWhenOtherConnRemains(t *testing.T) {
	r := ws.NewRegistry()
	r.Bind("c1", alice)
	r.Bind("c2", alice)
	res := r.Bind("c1", bob)
	if res.PrevWentOffline {
		t.Fatal("alice still has c2, must not go offline")
	}
	if !r.Online(alice.Channel()) {
		t.Fatal("alice should stay online via c2")
	}
}

func TestJoinAndLeaveRoom(t *testing.T) {
	r := ws.NewRegistry()
	r.Join("c1", "conv-9")
	r.Join("c2", "conv-9")
	got := r.Conns("conv-9")
	sort.Strings(got)
	if len(got) != 2 {
		t.Fatalf("Conns = %v, want 2 members", got)
	}
	r.Leave("c1", "conv-9")
	if got := r.Conns("conv-9"); len(got) != 1 || got[0] != "c2" {
		t.Fatalf("Conns = %v, want [c2]", got)
	}
}

func TestDisconnectCleansEverything(t *testing.T) {
	r := ws.NewRegistry()
	r.Bind("c1", alice)
	r.Join("c1", "conv-9")

	channel, wentOffline := r.Disconnect("c1")
	if channel != alice.Channel() || !wentOffline {
		t.Fatalf("Disconnect = (%q, %v), want (%q, true)", channel, wentOffline, alice.Channel())
	}
	if r.Online(alice.Channel()) {
		t.Fatal("alice should be offline")
	}
	if got := r.Conns("conv-9"); len(got) != 0 {
		t.Fatalf("room not cleaned: %v", got)
	}
	if _, ok := r.Identity("c1"); ok {
		t.Fatal("identity binding should be gone")
	}
}

func TestDisconnectSecondConnStaysOnline(t *testing.T) {
	r := ws.NewRegistry()
	r.Bind("c1", alice)
	r.Bind("c2", alice)
	if _, wentOffline := r.Disconnect("c1"); wentOffline {
		t.Fatal("alice still has c2, must not go offline")
	}
	if !r.Online(alice.Channel()) {
		t.Fatal("alice should still be online")
	}
}

func TestDisconnectUnboundConnection(t *testing.T) {
	r := ws.NewRegistry()
	r.Join("c1", "conv-9")
	channel, wentOffline := r.Disconnect("c1")
	if channel != "" || wentOffline {
		t.Fatalf("Disconnect = (%q, %v), want empty", channel, wentOffline)
	}
}
