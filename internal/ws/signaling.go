package ws

import "go.uber.org/zap"

// Relay routes call-setup payloads to a single target channel. It keeps no
// call state: it does not know whether a call is in progress, and a target
// with no live channel means the event vanishes silently.
type Relay struct {
	transport Transport
	log       *zap.Logger
}

func NewRelay(t Transport, log *zap.Logger) *Relay {
	return &Relay{transport: t, log: log}
}

// CallOffer is the initial signaling payload forwarded to the callee.
type CallOffer struct {
	Signal any    `json:"signal"`
	From   string `json:"from"`
	Name   string `json:"name"`
}

func (r *Relay) CallUser(target string, offer CallOffer) {
	r.log.Debug("call initiated", zap.String("from", offer.From), zap.String("to", target))
	r.transport.Emit(target, EventCallUser, offer)
}

// AnswerCall forwards the answer signal back to the caller's channel.
func (r *Relay) AnswerCall(callerChannel string, signal any) {
	r.transport.Emit(callerChannel, EventCallAccepted, signal)
}

func (r *Relay) ICECandidate(target string, candidate any) {
	r.transport.Emit(target, EventICECandidate, candidate)
}

func (r *Relay) EndCall(target string) {
	r.transport.Emit(target, EventCallEnded, nil)
}
