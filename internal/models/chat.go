package models

import "time"

// DefaultConversationEmoji is the group-level quick-reaction default.
const DefaultConversationEmoji = "👍"

type Attachment struct {
	Name string `bson:"name" json:"name"`
	URL  string `bson:"url" json:"url"`
	Type string `bson:"type" json:"type"`
	Size string `bson:"size" json:"size"`
}

type Reaction struct {
	User  Identity `bson:"user" json:"user"`
	Emoji string   `bson:"emoji" json:"emoji"`
}

type Message struct {
	ID             string       `bson:"_id,omitempty" json:"id"`
	ConversationID string       `bson:"conversation_id" json:"conversationId"`
	Sender         Identity     `bson:"sender" json:"sender"`
	Content        string       `bson:"content,omitempty" json:"content,omitempty"`
	Attachments    []Attachment `bson:"attachments,omitempty" json:"attachments,omitempty"`
	ReadBy         []Identity   `bson:"read_by" json:"readBy"`
	Reactions      []Reaction   `bson:"reactions" json:"reactions"`
	ReplyTo        string       `bson:"reply_to,omitempty" json:"replyTo,omitempty"`
	CreatedAt      time.Time    `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time    `bson:"updated_at" json:"updatedAt"`
}

type Conversation struct {
	ID           string     `bson:"_id,omitempty" json:"id"`
	Participants []Identity `bson:"participants" json:"participants"`
	IsGroup      bool       `bson:"is_group" json:"isGroup"`
	GroupName    string     `bson:"group_name,omitempty" json:"groupName,omitempty"`
	GroupAdmin   *Identity  `bson:"group_admin,omitempty" json:"groupAdmin,omitempty"`
	LastMessage  *Message   `bson:"last_message,omitempty" json:"lastMessage,omitempty"`
	Emoji        string     `bson:"emoji" json:"emoji"`
	CreatedAt    time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `bson:"updated_at" json:"updatedAt"`
}

// HasParticipant reports whether id is in the participant set.
func (c *Conversation) HasParticipant(id Identity) bool {
	for _, p := range c.Participants {
		if p.Equal(id) {
			return true
		}
	}
	return false
}
