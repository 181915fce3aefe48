package service_test

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/apperr"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/models"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/service"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/ws"
)

var (
	u1 = models.Identity{ID: "u1", Kind: models.KindEmployee}
	u2 = models.Identity{ID: "u2", Kind: models.KindAdmin}
	u3 = models.Identity{ID: "u3", Kind: models.KindEmployee}
)

// memStore is the in-memory ChatStore used by these tests. It also serves as
// the fan-out participant source.
type memStore struct {
	mu      sync.Mutex
	convs   map[string]*models.Conversation
	msgs    map[string]*models.Message
	nextID  int
	byOrder []string
}

func newMemStore() *memStore {
	return &memStore{convs: map[string]*models.Conversation{}, msgs: map[string]*models.Message{}}
}

func (s *memStore) id(prefix string) string {
	s.nextID++
	return prefix + "-" + strconv.Itoa(s.nextID)
}

func (s *memStore) FindDirectConversation(_ context.Context, a, b models.Identity) (*models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.byOrder {
		c := s.convs[id]
		if !c.IsGroup && c.HasParticipant(a) && c.HasParticipant(b) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("conversation: %w", apperr.ErrNotFound)
}

func (s *memStore) CreateConversation(_ context.Context, c *models.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.id("conv")
	if c.Emoji == "" {
		c.Emoji = models.DefaultConversationEmoji
	}
	s.convs[c.ID] = c
	s.byOrder = append(s.byOrder, c.ID)
	return nil
}

func (s *memStore) GetConversation(_ context.Context, id string) (*models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.convs[id]
	if !ok {
		return nil, fmt.Errorf("conversation: %w", apperr.ErrNotFound)
	}
	return c, nil
}

func (s *memStore) ListConversations(_ context.Context, who models.Identity) ([]*models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Conversation
	for _, id := range s.byOrder {
		if s.convs[id].HasParticipant(who) {
			out = append(out, s.convs[id])
		}
	}
	return out, nil
}

func (s *memStore) Participants(_ context.Context, conversationID string) ([]models.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.convs[conversationID]
	if !ok {
		return nil, fmt.Errorf("conversation: %w", apperr.ErrNotFound)
	}
	return c.Participants, nil
}

func (s *memStore) AppendMessage(_ context.Context, m *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = s.id("msg")
	if m.ReadBy == nil {
		m.ReadBy = []models.Identity{}
	}
	if m.Reactions == nil {
		m.Reactions = []models.Reaction{}
	}
	s.msgs[m.ID] = m
	return nil
}

func (s *memStore) UpdateLastMessage(_ context.Context, conversationID string, m *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.convs[conversationID]
	if !ok {
		return fmt.Errorf("conversation: %w", apperr.ErrNotFound)
	}
	c.LastMessage = m
	return nil
}

func (s *memStore) FindMessageByID(_ context.Context, id string) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.msgs[id]
	if !ok {
		return nil, fmt.Errorf("message: %w", apperr.ErrNotFound)
	}
	cp := *m
	cp.Reactions = append([]models.Reaction(nil), m.Reactions...)
	return &cp, nil
}

func (s *memStore) ListMessages(_ context.Context, conversationID string) ([]*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Message
	for _, m := range s.msgs {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *memStore) ApplyReaction(_ context.Context, messageID string, who models.Identity, emoji string, op models.ReactionOp) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.msgs[messageID]
	if !ok {
		return fmt.Errorf("message: %w", apperr.ErrNotFound)
	}
	switch op {
	case models.ReactionAdd:
		m.Reactions = append(m.Reactions, models.Reaction{User: who, Emoji: emoji})
	case models.ReactionRemove:
		out := m.Reactions[:0]
		for _, r := range m.Reactions {
			if !r.User.Equal(who) {
				out = append(out, r)
			}
		}
		m.Reactions = out
	case models.ReactionReplace:
		for i := range m.Reactions {
			if m.Reactions[i].User.Equal(who) {
				m.Reactions[i].Emoji = emoji
			}
		}
	}
	return nil
}

func (s *memStore) SetConversationEmoji(_ context.Context, conversationID, emoji string) (*models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.convs[conversationID]
	if !ok {
		return nil, fmt.Errorf("conversation: %w", apperr.ErrNotFound)
	}
	c.Emoji = emoji
	return c, nil
}

type fakeDirectory struct{}

func (fakeDirectory) ResolveContact(_ context.Context, id models.Identity) (*models.Contact, error) {
	return &models.Contact{Identity: id, Name: id.ID}, nil
}

func (fakeDirectory) SearchContacts(_ context.Context, _ string) ([]models.Contact, error) {
	return nil, nil
}

type emitCall struct {
	Key   string
	Event string
}

type fakeTransport struct {
	mu    sync.Mutex
	calls []emitCall
}

func (f *fakeTransport) Emit(key, event string, _ any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, emitCall{Key: key, Event: event})
}

func (f *fakeTransport) EmitExcept(key, _, event string, _ any) {
	f.Emit(key, event, nil)
}

func (f *fakeTransport) EmitConn(connID, event string, _ any) {
	f.Emit(connID, event, nil)
}

func (f *fakeTransport) BroadcastAll(event string, _ any) {
	f.Emit("", event, nil)
}

func (f *fakeTransport) recorded() []emitCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]emitCall, len(f.calls))
	copy(out, f.calls)
	return out
}

func newChatService(t *testing.T) (*service.ChatService, *memStore, *fakeTransport) {
	t.Helper()
	store := newMemStore()
	tr := &fakeTransport{}
	fanout := ws.NewFanout(tr, store, zap.NewNop())
	svc := service.NewChatService(store, fakeDirectory{}, fanout, nil, zap.NewNop())
	return svc, store, tr
}

func TestAccessChatIdempotentBothOrders(t *testing.T) {
	svc, _, _ := newChatService(t)
	ctx := context.Background()

	first, created, err := svc.AccessChat(ctx, u1, u2)
	if err != nil {
		t.Fatalf("AccessChat: %v", err)
	}
	if !created {
		t.Fatal("first access should create")
	}

	second, created, err := svc.AccessChat(ctx, u2, u1)
	if err != nil {
		t.Fatalf("AccessChat reversed: %v", err)
	}
	if created {
		t.Fatal("second access must not create")
	}
	if first.ID != second.ID {
		t.Fatalf("got different conversations: %q vs %q", first.ID, second.ID)
	}
}

func TestAccessChatWithSelfRejected(t *testing.T) {
	svc, _, _ := newChatService(t)
	if _, _, err := svc.AccessChat(context.Background(), u1, u1); !errors.Is(err, apperr.ErrBadRequest) {
		t.Fatalf("err = %v, want ErrBadRequest", err)
	}
}

func TestCreateGroupInjectsCreatorAsAdmin(t *testing.T) {
	svc, _, _ := newChatService(t)

	conv, err := svc.CreateGroup(context.Background(), u1, "team", []models.Identity{u2, u3})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	if !conv.IsGroup || conv.GroupName != "team" {
		t.Fatalf("unexpected conversation: %+v", conv)
	}
	if conv.GroupAdmin == nil || !conv.GroupAdmin.Equal(u1) {
		t.Fatalf("GroupAdmin = %+v, want creator", conv.GroupAdmin)
	}
	if !conv.HasParticipant(u1) {
		t.Fatal("creator must be a participant")
	}
	if len(conv.Participants) != 3 {
		t.Fatalf("got %d participants, want 3", len(conv.Participants))
	}
}

func TestCreateGroupDedupesCreatorInMembers(t *testing.T) {
	svc, _, _ := newChatService(t)
	conv, err := svc.CreateGroup(context.Background(), u1, "team", []models.Identity{u1, u2, u3})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	if len(conv.Participants) != 3 {
		t.Fatalf("got %d participants, want 3", len(conv.Participants))
	}
}

func TestCreateGroupTooSmall(t *testing.T) {
	svc, _, _ := newChatService(t)
	if _, err := svc.CreateGroup(context.Background(), u1, "team", []models.Identity{u2}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestSendMessageRequiresContentOrAttachments(t *testing.T) {
	svc, _, _ := newChatService(t)
	conv, _, _ := svc.AccessChat(context.Background(), u1, u2)
	if _, err := svc.SendMessage(context.Background(), u1, conv.ID, "", nil, ""); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestSendMessageAttachmentsOnlyAllowed(t *testing.T) {
	svc, _, _ := newChatService(t)
	conv, _, _ := svc.AccessChat(context.Background(), u1, u2)
	att := []models.Attachment{{Name: "a.png", URL: "https://files/a.png", Type: "image/png"}}
	msg, err := svc.SendMessage(context.Background(), u1, conv.ID, "", att, "")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if len(msg.Attachments) != 1 {
		t.Fatalf("attachments lost: %+v", msg)
	}
}

func TestSendMessageNonParticipantForbidden(t *testing.T) {
	svc, _, _ := newChatService(t)
	conv, _, _ := svc.AccessChat(context.Background(), u1, u2)
	if _, err := svc.SendMessage(context.Background(), u3, conv.ID, "hi", nil, ""); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestSendMessageFanoutExcludesSender(t *testing.T) {
	svc, _, tr := newChatService(t)
	ctx := context.Background()
	conv, _, _ := svc.AccessChat(ctx, u1, u2)

	if _, err := svc.SendMessage(ctx, u1, conv.ID, "hello", nil, ""); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	calls := tr.recorded()
	if len(calls) != 1 {
		t.Fatalf("got %d emits, want 1: %v", len(calls), calls)
	}
	if calls[0].Key != u2.Channel() || calls[0].Event != ws.EventMessageReceived {
		t.Fatalf("unexpected emit: %+v", calls[0])
	}
}

func TestSendMessageReplyToOtherConversationRejected(t *testing.T) {
	svc, _, _ := newChatService(t)
	ctx := context.Background()
	convA, _, _ := svc.AccessChat(ctx, u1, u2)
	convB, _, _ := svc.AccessChat(ctx, u1, u3)

	parent, err := svc.SendMessage(ctx, u1, convA.ID, "root", nil, "")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if _, err := svc.SendMessage(ctx, u1, convB.ID, "reply", nil, parent.ID); !errors.Is(err, apperr.ErrBadRequest) {
		t.Fatalf("err = %v, want ErrBadRequest", err)
	}
}

func TestSendMessageUpdatesLastMessage(t *testing.T) {
	svc, store, _ := newChatService(t)
	ctx := context.Background()
	conv, _, _ := svc.AccessChat(ctx, u1, u2)

	msg, err := svc.SendMessage(ctx, u1, conv.ID, "latest", nil, "")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	stored, _ := store.GetConversation(ctx, conv.ID)
	if stored.LastMessage == nil || stored.LastMessage.ID != msg.ID {
		t.Fatalf("last message not updated: %+v", stored.LastMessage)
	}
}

func TestReactToggleScenario(t *testing.T) {
	svc, _, _ := newChatService(t)
	ctx := context.Background()
	conv, _, _ := svc.AccessChat(ctx, u1, u2)
	msg, err := svc.SendMessage(ctx, u1, conv.ID, "react to me", nil, "")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	// u1 adds, u2 adds
	if _, err := svc.ReactToMessage(ctx, u1, msg.ID, "❤️"); err != nil {
		t.Fatalf("u1 react: %v", err)
	}
	out, err := svc.ReactToMessage(ctx, u2, msg.ID, "👍")
	if err != nil {
		t.Fatalf("u2 react: %v", err)
	}
	if len(out.Reactions) != 2 {
		t.Fatalf("got %d reactions, want 2", len(out.Reactions))
	}

	// u1 toggles off, u2's entry survives
	out, err = svc.ReactToMessage(ctx, u1, msg.ID, "❤️")
	if err != nil {
		t.Fatalf("u1 toggle off: %v", err)
	}
	if len(out.Reactions) != 1 || !out.Reactions[0].User.Equal(u2) {
		t.Fatalf("u2's reaction lost: %+v", out.Reactions)
	}

	// u2 replaces
	out, err = svc.ReactToMessage(ctx, u2, msg.ID, "🔥")
	if err != nil {
		t.Fatalf("u2 replace: %v", err)
	}
	if got, ok := models.ReactionFor(out.Reactions, u2); !ok || got.Emoji != "🔥" {
		t.Fatalf("u2's emoji = %+v, want 🔥", got)
	}
}

func TestReactFanoutIncludesReactor(t *testing.T) {
	svc, _, tr := newChatService(t)
	ctx := context.Background()
	conv, _, _ := svc.AccessChat(ctx, u1, u2)
	msg, _ := svc.SendMessage(ctx, u1, conv.ID, "hi", nil, "")

	before := len(tr.recorded())
	if _, err := svc.ReactToMessage(ctx, u2, msg.ID, "❤️"); err != nil {
		t.Fatalf("ReactToMessage: %v", err)
	}

	var reactionTargets []string
	for _, c := range tr.recorded()[before:] {
		if c.Event == ws.EventMessageReaction {
			reactionTargets = append(reactionTargets, c.Key)
		}
	}
	if len(reactionTargets) != 2 {
		t.Fatalf("reaction events = %v, want both participants", reactionTargets)
	}
}

func TestReactMissingMessageNotFound(t *testing.T) {
	svc, _, _ := newChatService(t)
	if _, err := svc.ReactToMessage(context.Background(), u1, "nope", "❤️"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateEmojiRequiresMembership(t *testing.T) {
	svc, _, _ := newChatService(t)
	ctx := context.Background()
	conv, _, _ := svc.AccessChat(ctx, u1, u2)

	if _, err := svc.UpdateEmoji(ctx, u3, conv.ID, "🎉"); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	updated, err := svc.UpdateEmoji(ctx, u1, conv.ID, "🎉")
	if err != nil {
		t.Fatalf("UpdateEmoji: %v", err)
	}
	if updated.Emoji != "🎉" {
		t.Fatalf("emoji = %q, want 🎉", updated.Emoji)
	}
}
