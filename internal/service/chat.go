package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/apperr"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/events"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/models"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/ws"
)

// ChatStore is the durable store the chat service writes through. The Mongo
// repository implements it in production; tests swap in an in-memory fake.
type ChatStore interface {
	FindDirectConversation(ctx context.Context, a, b models.Identity) (*models.Conversation, error)
	CreateConversation(ctx context.Context, c *models.Conversation) error
	GetConversation(ctx context.Context, id string) (*models.Conversation, error)
	ListConversations(ctx context.Context, who models.Identity) ([]*models.Conversation, error)
	AppendMessage(ctx context.Context, m *models.Message) error
	UpdateLastMessage(ctx context.Context, conversationID string, m *models.Message) error
	FindMessageByID(ctx context.Context, id string) (*models.Message, error)
	ListMessages(ctx context.Context, conversationID string) ([]*models.Message, error)
	ApplyReaction(ctx context.Context, messageID string, who models.Identity, emoji string, op models.ReactionOp) error
	SetConversationEmoji(ctx context.Context, conversationID, emoji string) (*models.Conversation, error)
}

// ContactDirectory resolves admins and employees into chat contacts.
type ContactDirectory interface {
	ResolveContact(ctx context.Context, id models.Identity) (*models.Contact, error)
	SearchContacts(ctx context.Context, search string) ([]models.Contact, error)
}

// ChatService owns conversation and message semantics. Real-time delivery
// always happens after the store write succeeds, never before.
type ChatService struct {
	store     ChatStore
	directory ContactDirectory
	fanout    *ws.Fanout
	publisher *events.Publisher
	log       *zap.Logger
}

func NewChatService(store ChatStore, directory ContactDirectory, fanout *ws.Fanout, publisher *events.Publisher, log *zap.Logger) *ChatService {
	return &ChatService{store: store, directory: directory, fanout: fanout, publisher: publisher, log: log}
}

// AccessChat returns the direct conversation between the caller and other,
// creating it on first access. The operation is idempotent for both
// orderings of the pair.
func (s *ChatService) AccessChat(ctx context.Context, me, other models.Identity) (*models.Conversation, bool, error) {
	if other.Zero() || !other.Kind.Valid() {
		return nil, false, fmt.Errorf("%w: target user is required", apperr.ErrBadRequest)
	}
	if me.Equal(other) {
		return nil, false, fmt.Errorf("%w: cannot open a chat with yourself", apperr.ErrBadRequest)
	}

	conv, err := s.store.FindDirectConversation(ctx, me, other)
	if err == nil {
		return conv, false, nil
	}
	if !isNotFound(err) {
		return nil, false, err
	}

	conv = &models.Conversation{Participants: []models.Identity{me, other}}
	if err := s.store.CreateConversation(ctx, conv); err != nil {
		return nil, false, err
	}
	return conv, true, nil
}

// CreateGroup creates a group conversation. The creator is always a
// participant and becomes the group admin, whether or not the caller listed
// themselves as a member.
func (s *ChatService) CreateGroup(ctx context.Context, me models.Identity, name string, members []models.Identity) (*models.Conversation, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: group name is required", apperr.ErrValidation)
	}

	participants := make([]models.Identity, 0, len(members)+1)
	participants = append(participants, me)
	for _, m := range members {
		if m.Zero() || !m.Kind.Valid() {
			return nil, fmt.Errorf("%w: invalid group member", apperr.ErrValidation)
		}
		if m.Equal(me) {
			continue
		}
		duplicate := false
		for _, p := range participants {
			if p.Equal(m) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			participants = append(participants, m)
		}
	}
	if len(participants) < 3 {
		return nil, fmt.Errorf("%w: a group needs at least two other members", apperr.ErrValidation)
	}

	admin := me
	conv := &models.Conversation{
		Participants: participants,
		IsGroup:      true,
		GroupName:    name,
		GroupAdmin:   &admin,
	}
	if err := s.store.CreateConversation(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *ChatService) ListConversations(ctx context.Context, me models.Identity) ([]*models.Conversation, error) {
	return s.store.ListConversations(ctx, me)
}

// memberConversation loads the conversation and enforces that the caller
// participates in it.
func (s *ChatService) memberConversation(ctx context.Context, me models.Identity, conversationID string) (*models.Conversation, error) {
	conv, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(me) {
		return nil, fmt.Errorf("%w: not a participant of this conversation", apperr.ErrForbidden)
	}
	return conv, nil
}

// SendMessage validates, persists and fans out a new message. The sender is
// excluded from fan-out; they get the message back in the response.
func (s *ChatService) SendMessage(ctx context.Context, me models.Identity, conversationID, content string, attachments []models.Attachment, replyTo string) (*models.Message, error) {
	if content == "" && len(attachments) == 0 {
		return nil, fmt.Errorf("%w: message needs content or attachments", apperr.ErrValidation)
	}
	if _, err := s.memberConversation(ctx, me, conversationID); err != nil {
		return nil, err
	}
	if replyTo != "" {
		parent, err := s.store.FindMessageByID(ctx, replyTo)
		if err != nil {
			return nil, err
		}
		if parent.ConversationID != conversationID {
			return nil, fmt.Errorf("%w: replied message belongs to another conversation", apperr.ErrBadRequest)
		}
	}

	msg := &models.Message{
		ConversationID: conversationID,
		Sender:         me,
		Content:        content,
		Attachments:    attachments,
		ReadBy:         []models.Identity{me},
		ReplyTo:        replyTo,
	}
	if err := s.store.AppendMessage(ctx, msg); err != nil {
		return nil, err
	}
	if err := s.store.UpdateLastMessage(ctx, conversationID, msg); err != nil {
		s.log.Warn("last message update failed",
			zap.String("conversation_id", conversationID), zap.Error(err))
	}

	s.fanout.MessageCreated(ctx, conversationID, me, msg)
	s.publisher.Publish(ctx, events.Event{
		Type:           events.TypeMessageNew,
		ConversationID: conversationID,
		MessageID:      msg.ID,
		Actor:          me.Channel(),
	})
	return msg, nil
}

func (s *ChatService) ListMessages(ctx context.Context, me models.Identity, conversationID string) ([]*models.Message, error) {
	if _, err := s.memberConversation(ctx, me, conversationID); err != nil {
		return nil, err
	}
	return s.store.ListMessages(ctx, conversationID)
}

// ReactToMessage toggles the caller's reaction on a message: same emoji
// removes it, a different emoji replaces it, no prior entry adds one. Every
// participant, the reactor included, receives the reaction event.
func (s *ChatService) ReactToMessage(ctx context.Context, me models.Identity, messageID, emoji string) (*models.Message, error) {
	if emoji == "" {
		return nil, fmt.Errorf("%w: emoji is required", apperr.ErrValidation)
	}
	msg, err := s.store.FindMessageByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if _, err := s.memberConversation(ctx, me, msg.ConversationID); err != nil {
		return nil, err
	}

	updated, op := models.ToggleReaction(msg.Reactions, me, emoji)
	if err := s.store.ApplyReaction(ctx, messageID, me, emoji, op); err != nil {
		return nil, err
	}
	msg.Reactions = updated

	s.fanout.ReactionUpdated(ctx, msg.ConversationID, msg)
	s.publisher.Publish(ctx, events.Event{
		Type:           events.TypeMessageReaction,
		ConversationID: msg.ConversationID,
		MessageID:      messageID,
		Actor:          me.Channel(),
	})
	return msg, nil
}

// UpdateEmoji changes the conversation's quick-reaction default.
func (s *ChatService) UpdateEmoji(ctx context.Context, me models.Identity, conversationID, emoji string) (*models.Conversation, error) {
	if emoji == "" {
		return nil, fmt.Errorf("%w: emoji is required", apperr.ErrValidation)
	}
	if _, err := s.memberConversation(ctx, me, conversationID); err != nil {
		return nil, err
	}
	return s.store.SetConversationEmoji(ctx, conversationID, emoji)
}

// Contacts lists chattable admins and employees, optionally filtered.
func (s *ChatService) Contacts(ctx context.Context, search string) ([]models.Contact, error) {
	return s.directory.SearchContacts(ctx, search)
}

func isNotFound(err error) bool {
	return errors.Is(err, apperr.ErrNotFound)
}
