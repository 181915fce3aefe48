package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/models"
)

// PresenceStore mirrors identity presence to an external cache, best-effort.
type PresenceStore interface {
	SetPresence(ctx context.Context, channel string, online bool) error
}

// Gateway owns the per-connection read loop: it decodes inbound envelopes
// and dispatches them to the registry, fan-out engine and signaling relay.
type Gateway struct {
	hub      *Hub
	fanout   *Fanout
	relay    *Relay
	presence PresenceStore
	log      *zap.Logger
}

func NewGateway(hub *Hub, fanout *Fanout, relay *Relay, presence PresenceStore, log *zap.Logger) *Gateway {
	return &Gateway{hub: hub, fanout: fanout, relay: relay, presence: presence, log: log}
}

// Handler returns the connection callback for websocket.New.
func (g *Gateway) Handler() func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		cli := g.hub.add(conn)
		defer g.disconnect(cli)

		conn.SetReadLimit(readLimit)
		_ = conn.SetReadDeadline(time.Now().Add(readWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(readWait))
		})

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			_ = conn.SetReadDeadline(time.Now().Add(readWait))
			var env struct {
				Event   string          `json:"event"`
				Payload json.RawMessage `json:"payload"`
			}
			if err := json.Unmarshal(data, &env); err != nil {
				continue
			}
			g.dispatch(cli, env.Event, env.Payload)
		}
	}
}

func (g *Gateway) dispatch(cli *client, event string, payload json.RawMessage) {
	switch event {
	case inSetup:
		g.setup(cli, payload)
	case inJoinChat:
		var room string
		if json.Unmarshal(payload, &room) == nil && room != "" {
			g.hub.Registry().Join(cli.id, room)
		}
	case inTyping:
		var room string
		if json.Unmarshal(payload, &room) == nil && room != "" {
			g.fanout.Typing(room, cli.id)
		}
	case inStopTyping:
		var room string
		if json.Unmarshal(payload, &room) == nil && room != "" {
			g.fanout.StopTyping(room, cli.id)
		}
	case inNewMessage:
		g.newMessage(cli, payload)
	case inCallUser:
		var p struct {
			UserToCall string `json:"userToCall"`
			SignalData any    `json:"signalData"`
			From       string `json:"from"`
			Name       string `json:"name"`
		}
		if json.Unmarshal(payload, &p) == nil && p.UserToCall != "" {
			g.relay.CallUser(p.UserToCall, CallOffer{Signal: p.SignalData, From: p.From, Name: p.Name})
		}
	case inAnswerCall:
		var p struct {
			To     string `json:"to"`
			Signal any    `json:"signal"`
		}
		if json.Unmarshal(payload, &p) == nil && p.To != "" {
			g.relay.AnswerCall(p.To, p.Signal)
		}
	case inICE:
		var p struct {
			Target    string `json:"target"`
			Candidate any    `json:"candidate"`
		}
		if json.Unmarshal(payload, &p) == nil && p.Target != "" {
			g.relay.ICECandidate(p.Target, p.Candidate)
		}
	case inEndCall:
		var p struct {
			To string `json:"to"`
		}
		if json.Unmarshal(payload, &p) == nil && p.To != "" {
			g.relay.EndCall(p.To)
		}
	}
}

func (g *Gateway) setup(cli *client, payload json.RawMessage) {
	var p struct {
		ID   string      `json:"_id"`
		Kind models.Kind `json:"kind"`
	}
	if err := json.Unmarshal(payload, &p); err != nil || p.ID == "" {
		return
	}
	if !p.Kind.Valid() {
		p.Kind = models.KindEmployee
	}
	id := models.Identity{ID: p.ID, Kind: p.Kind}

	res := g.hub.Registry().Bind(cli.id, id)
	if res.Rebound && res.PrevWentOffline {
		g.hub.BroadcastAll(EventUserOffline, res.PrevChannel)
		g.setPresence(res.PrevChannel, false)
	}
	g.hub.EmitConn(cli.id, EventConnected, nil)
	g.hub.BroadcastAll(EventUserOnline, id.Channel())
	if res.CameOnline {
		g.setPresence(id.Channel(), true)
	}
}

// newMessage handles socket-originated message events. The participant set
// is resolved from the store, never trusted from the payload.
func (g *Gateway) newMessage(cli *client, payload json.RawMessage) {
	var p struct {
		ConversationID string          `json:"conversationId"`
		Sender         models.Identity `json:"sender"`
	}
	if err := json.Unmarshal(payload, &p); err != nil || p.ConversationID == "" {
		return
	}
	var body any
	if err := json.Unmarshal(payload, &body); err != nil {
		return
	}
	g.fanout.MessageCreated(context.Background(), p.ConversationID, p.Sender, body)
}

func (g *Gateway) disconnect(cli *client) {
	channel, wentOffline := g.hub.Registry().Disconnect(cli.id)
	g.hub.remove(cli)
	if wentOffline {
		g.hub.BroadcastAll(EventUserOffline, channel)
		g.setPresence(channel, false)
	}
}

func (g *Gateway) setPresence(channel string, online bool) {
	if g.presence == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := g.presence.SetPresence(ctx, channel, online); err != nil {
		g.log.Debug("presence update failed", zap.String("channel", channel), zap.Error(err))
	}
}
