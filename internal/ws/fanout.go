package ws

import (
	"context"

	"go.uber.org/zap"

	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/models"
)

// ParticipantSource resolves a conversation's participant set. Backed by the
// conversation store in production, by fixtures in tests.
type ParticipantSource interface {
	Participants(ctx context.Context, conversationID string) ([]models.Identity, error)
}

// Fanout delivers conversation events to participant channels. All delivery
// is fire-and-forget and at-most-once per target: a participant with no live
// connection misses the event.
type Fanout struct {
	transport Transport
	source    ParticipantSource
	log       *zap.Logger
}

func NewFanout(t Transport, src ParticipantSource, log *zap.Logger) *Fanout {
	return &Fanout{transport: t, source: src, log: log}
}

// MessageCreated notifies every participant except the sender. The sender
// learns the outcome from the synchronous HTTP response, not the socket.
// A participant lookup failure aborts delivery entirely; no retry.
func (f *Fanout) MessageCreated(ctx context.Context, conversationID string, sender models.Identity, payload any) {
	parts, err := f.source.Participants(ctx, conversationID)
	if err != nil {
		eventsDropped.WithLabelValues("participant_lookup").Inc()
		f.log.Warn("message fan-out aborted",
			zap.String("conversation_id", conversationID), zap.Error(err))
		return
	}
	for _, p := range parts {
		if p.Equal(sender) {
			continue
		}
		f.transport.Emit(p.Channel(), EventMessageReceived, payload)
	}
}

// ReactionUpdated notifies every participant including the reactor: the
// reactor's other open sessions need the update too.
func (f *Fanout) ReactionUpdated(ctx context.Context, conversationID string, payload any) {
	parts, err := f.source.Participants(ctx, conversationID)
	if err != nil {
		eventsDropped.WithLabelValues("participant_lookup").Inc()
		f.log.Warn("reaction fan-out aborted",
			zap.String("conversation_id", conversationID), zap.Error(err))
		return
	}
	for _, p := range parts {
		f.transport.Emit(p.Channel(), EventMessageReaction, payload)
	}
}

// Typing and StopTyping use room routing, not the participant list: anyone
// who joined the conversation room sees the indicator, except its origin.
// Typing state is advisory, so the weaker targeting is acceptable.
func (f *Fanout) Typing(room, originConn string) {
	f.transport.EmitExcept(room, originConn, EventTyping, room)
}

func (f *Fanout) StopTyping(room, originConn string) {
	f.transport.EmitExcept(room, originConn, EventStopTyping, room)
}
