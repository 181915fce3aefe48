// Package ws implements the real-time core: the presence/room registry, the
// message fan-out engine, the reaction broadcast policy and the WebRTC
// signaling relay, all wired over an injected Transport.
package ws

// Socket event names. These are wire-compatible with the portal frontend.
const (
	EventConnected       = "connected"
	EventUserOnline      = "user online"
	EventUserOffline     = "user offline"
	EventTyping          = "typing"
	EventStopTyping      = "stop typing"
	EventMessageReceived = "message received"
	EventMessageReaction = "message reaction"
	EventCallUser        = "callUser"
	EventCallAccepted    = "callAccepted"
	EventICECandidate    = "ice-candidate"
	EventCallEnded       = "callEnded"
)

// Inbound event names accepted from clients.
const (
	inSetup       = "setup"
	inJoinChat    = "join chat"
	inTyping      = "typing"
	inStopTyping  = "stop typing"
	inNewMessage  = "new message"
	inCallUser    = "callUser"
	inAnswerCall  = "answerCall"
	inICE         = "ice-candidate"
	inEndCall     = "endCall"
)

// Transport is the channel boundary the engine emits through. A key names
// either an identity channel (the identity's ID) or a conversation room;
// both live in one namespace, as in the source system.
//
// Delivery is fire-and-forget: a key with no live connections is a silent
// no-op, never an error.
type Transport interface {
	// Emit delivers to every connection subscribed to key.
	Emit(key, event string, payload any)
	// EmitExcept delivers to every connection subscribed to key other than
	// exceptConn. Used for typing indicators, which skip the originator.
	EmitExcept(key, exceptConn, event string, payload any)
	// EmitConn delivers to a single connection.
	EmitConn(connID, event string, payload any)
	// BroadcastAll delivers to every live connection.
	BroadcastAll(event string, payload any)
}
