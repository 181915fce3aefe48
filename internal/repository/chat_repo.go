package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/apperr"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/models"
)

// ChatRepository is the durable store behind conversations and messages.
type ChatRepository struct {
	conversations *mongo.Collection
	messages      *mongo.Collection
}

func NewChatRepository(db *mongo.Database) *ChatRepository {
	conv := db.Collection(collConversations)
	msgs := db.Collection(collMessages)
	// index participant lookups and per-conversation history reads
	_, _ = conv.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "participants.id", Value: 1}},
		Options: options.Index().SetName("participants_idx"),
	})
	_, _ = msgs.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "conversation_id", Value: 1}, {Key: "created_at", Value: 1}},
		Options: options.Index().SetName("conversation_created_idx"),
	})
	return &ChatRepository{conversations: conv, messages: msgs}
}

func participantMatch(id models.Identity) bson.M {
	return bson.M{"participants": bson.M{"$elemMatch": bson.M{"id": id.ID, "kind": id.Kind}}}
}

// FindDirectConversation looks up the one-on-one conversation for an
// unordered pair of identities. Both orders resolve to the same document.
func (r *ChatRepository) FindDirectConversation(ctx context.Context, a, b models.Identity) (*models.Conversation, error) {
	filter := bson.M{
		"is_group": false,
		"$and":     bson.A{participantMatch(a), participantMatch(b)},
	}
	var c models.Conversation
	if err := r.conversations.FindOne(ctx, filter).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("conversation: %w", apperr.ErrNotFound)
		}
		return nil, err
	}
	return &c, nil
}

func (r *ChatRepository) CreateConversation(ctx context.Context, c *models.Conversation) error {
	now := time.Now().UTC()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Emoji == "" {
		c.Emoji = models.DefaultConversationEmoji
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	_, err := r.conversations.InsertOne(ctx, c)
	return err
}

func (r *ChatRepository) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	var c models.Conversation
	if err := r.conversations.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("conversation: %w", apperr.ErrNotFound)
		}
		return nil, err
	}
	return &c, nil
}

// ListConversations returns every conversation the identity participates in,
// most recently active first.
func (r *ChatRepository) ListConversations(ctx context.Context, who models.Identity) ([]*models.Conversation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cur, err := r.conversations.Find(ctx, participantMatch(who), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.Conversation
	for cur.Next(ctx) {
		var c models.Conversation
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, cur.Err()
}

// Participants implements the fan-out engine's participant source.
func (r *ChatRepository) Participants(ctx context.Context, conversationID string) ([]models.Identity, error) {
	c, err := r.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	return c.Participants, nil
}

func (r *ChatRepository) AppendMessage(ctx context.Context, m *models.Message) error {
	now := time.Now().UTC()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.ReadBy == nil {
		m.ReadBy = []models.Identity{}
	}
	if m.Reactions == nil {
		m.Reactions = []models.Reaction{}
	}
	m.CreatedAt = now
	m.UpdatedAt = now
	_, err := r.messages.InsertOne(ctx, m)
	return err
}

func (r *ChatRepository) UpdateLastMessage(ctx context.Context, conversationID string, m *models.Message) error {
	_, err := r.conversations.UpdateByID(ctx, conversationID, bson.M{
		"$set": bson.M{"last_message": m, "updated_at": time.Now().UTC()},
	})
	return err
}

func (r *ChatRepository) FindMessageByID(ctx context.Context, id string) (*models.Message, error) {
	var m models.Message
	if err := r.messages.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("message: %w", apperr.ErrNotFound)
		}
		return nil, err
	}
	return &m, nil
}

func (r *ChatRepository) ListMessages(ctx context.Context, conversationID string) ([]*models.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.messages.Find(ctx, bson.M{"conversation_id": conversationID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.Message
	for cur.Next(ctx) {
		var m models.Message
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, cur.Err()
}

// ApplyReaction persists one toggle outcome with an update scoped to the
// reactor's own entry, so concurrent reactions from different reactors never
// clobber each other. Same-reactor races are last-write-wins.
func (r *ChatRepository) ApplyReaction(ctx context.Context, messageID string, who models.Identity, emoji string, op models.ReactionOp) error {
	now := bson.M{"updated_at": time.Now().UTC()}
	var err error
	switch op {
	case models.ReactionAdd:
		_, err = r.messages.UpdateByID(ctx, messageID, bson.M{
			"$push": bson.M{"reactions": models.Reaction{User: who, Emoji: emoji}},
			"$set":  now,
		})
	case models.ReactionRemove:
		_, err = r.messages.UpdateByID(ctx, messageID, bson.M{
			"$pull": bson.M{"reactions": bson.M{"user.id": who.ID, "user.kind": who.Kind}},
			"$set":  now,
		})
	case models.ReactionReplace:
		_, err = r.messages.UpdateOne(ctx,
			bson.M{"_id": messageID, "reactions.user.id": who.ID, "reactions.user.kind": who.Kind},
			bson.M{"$set": bson.M{"reactions.$.emoji": emoji, "updated_at": time.Now().UTC()}},
		)
	}
	return err
}

// SetConversationEmoji updates the group-level quick-reaction default and
// returns the updated conversation.
func (r *ChatRepository) SetConversationEmoji(ctx context.Context, conversationID, emoji string) (*models.Conversation, error) {
	after := options.After
	var c models.Conversation
	err := r.conversations.FindOneAndUpdate(ctx,
		bson.M{"_id": conversationID},
		bson.M{"$set": bson.M{"emoji": emoji, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(after),
	).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("conversation: %w", apperr.ErrNotFound)
		}
		return nil, err
	}
	return &c, nil
}
