package ws_test

import (
	"testing"

	"go.uber.org/zap"

	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/ws"
)

func TestCallUserRoutesToCallee(t *testing.T) {
	tr := &fakeTransport{}
	r := ws.NewRelay(tr, zap.NewNop())

	offer := ws.CallOffer{Signal: "sdp-offer", From: "alice", Name: "Alice"}
	r.CallUser("bob", offer)

	calls := tr.recorded()
	if len(calls) != 1 {
		t.Fatalf("got %d emits, want 1", len(calls))
	}
	if calls[0].Key != "bob" || calls[0].Event != ws.EventCallUser {
		t.Fatalf("unexpected call: %+v", calls[0])
	}
	got, ok := calls[0].Payload.(ws.CallOffer)
	if !ok || got.From != "alice" || got.Signal != "sdp-offer" {
		t.Fatalf("offer payload wrong: %+v", calls[0].Payload)
	}
}

func TestAnswerCallRoutesToCaller(t *testing.T) {
	tr := &fakeTransport{}
	r := ws.NewRelay(tr, zap.NewNop())

	r.AnswerCall("alice", "sdp-answer")

	calls := tr.recorded()
	if len(calls) != 1 || calls[0].Key != "alice" || calls[0].Event != ws.EventCallAccepted {
		t.Fatalf("unexpected calls: %+v", calls)
	}
}

func TestICEAndEndCall(t *testing.T) {
	tr := &fakeTransport{}
	r := ws.NewRelay(tr, zap.NewNop())

	r.ICECandidate("bob", "candidate-1")
	r.EndCall("bob")

	calls := tr.recorded()
	if len(calls) != 2 {
		t.Fatalf("got %d emits, want 2", len(calls))
	}
	if calls[0].Event != ws.EventICECandidate || calls[0].Key != "bob" {
		t.Fatalf("ice call wrong: %+v", calls[0])
	}
	if calls[1].Event != ws.EventCallEnded || calls[1].Payload != nil {
		t.Fatalf("end call wrong: %+v", calls[1])
	}
}
