package ws_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/models"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/ws"
)

type emitCall struct {
	Key        string
	ExceptConn string
	Event      string
	Payload    any
}

// fakeTransport records every emit for assertions.
type fakeTransport struct {
	mu    sync.Mutex
	calls []emitCall
}

func (f *fakeTransport) Emit(key, event string, payload any) {
	f.record(emitCall{Key: key, Event: event, Payload: payload})
}

func (f *fakeTransport) EmitExcept(key, exceptConn, event string, payload any) {
	f.record(emitCall{Key: key, ExceptConn: exceptConn, Event: event, Payload: payload})
}

func (f *fakeTransport) EmitConn(connID, event string, payload any) {
	f.record(emitCall{Key: connID, Event: event, Payload: payload})
}

func (f *fakeTransport) BroadcastAll(event string, payload any) {
	f.record(emitCall{Event: event, Payload: payload})
}

func (f *fakeTransport) record(c emitCall) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

func (f *fakeTransport) recorded() []emitCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]emitCall, len(f.calls))
	copy(out, f.calls)
	return out
}

type fakeSource struct {
	participants map[string][]models.Identity
	err          error
}

func (s *fakeSource) Participants(_ context.Context, conversationID string) ([]models.Identity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.participants[conversationID], nil
}

func TestMessageCreatedSkipsSender(t *testing.T) {
	tr := &fakeTransport{}
	src := &fakeSource{participants: map[string][]models.Identity{
		"conv-1": {alice, bob},
	}}
	f := ws.NewFanout(tr, src, zap.NewNop())

	f.MessageCreated(context.Background(), "conv-1", alice, "payload")

	calls := tr.recorded()
	if len(calls) != 1 {
		t.Fatalf("got %d emits, want 1", len(calls))
	}
	if calls[0].Key != bob.Channel() || calls[0].Event != ws.EventMessageReceived {
		t.Fatalf("unexpected call: %+v", calls[0])
	}
}

func TestMessageCreatedLookupFailureAborts(t *testing.T) {
	tr := &fakeTransport{}
	src := &fakeSource{err: errors.New("store down")}
	f := ws.NewFanout(tr, src, zap.NewNop())

	f.MessageCreated(context.Background(), "conv-1", alice, "payload")

	if calls := tr.recorded(); len(calls) != 0 {
		t.Fatalf("expected no emits on lookup failure, got %v", calls)
	}
}

func TestReactionUpdatedIncludesEveryone(t *testing.T) {
	tr := &fakeTransport{}
	src := &fakeSource{participants: map[string][]models.Identity{
		"conv-1": {alice, bob},
	}}
	f := ws.NewFanout(tr, src, zap.NewNop())

	f.ReactionUpdated(context.Background(), "conv-1", "payload")

	calls := tr.recorded()
	if len(calls) != 2 {
		t.Fatalf("got %d emits, want 2", len(calls))
	}
	targets := map[string]bool{}
	for _, c := range calls {
		if c.Event != ws.EventMessageReaction {
			t.Fatalf("unexpected event %q", c.Event)
		}
		targets[c.Key] = true
	}
	if !targets[alice.Channel()] || !targets[bob.Channel()] {
		t.Fatalf("reaction must reach all participants, got %v", targets)
	}
}

func TestTypingExcludesOrigin(t *testing.T) {
	tr := &fakeTransport{}
	f := ws.NewFanout(tr, &fakeSource{}, zap.NewNop())

	f.Typing("conv-1", "conn-origin")
	f.StopTyping("conv-1", "conn-origin")

	calls := tr.recorded()
	if len(calls) != 2 {
		t.Fatalf("got %d emits, want 2", len(calls))
	}
	if calls[0].Event != ws.EventTyping || calls[0].ExceptConn != "conn-origin" {
		t.Fatalf("typing call wrong: %+v", calls[0])
	}
	if calls[1].Event != ws.EventStopTyping || calls[1].ExceptConn != "conn-origin" {
		t.Fatalf("stop typing call wrong: %+v", calls[1])
	}
}
