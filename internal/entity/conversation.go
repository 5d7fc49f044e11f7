package entity

import "time"

type ConversationKind string

const (
	KindDirect ConversationKind = "direct"
	KindGroup  ConversationKind = "group"
)

// Conversation is the addressing root for a chat. For a direct chat the ID is
// the canonical sorted pair of the two account ids, so both sides derive the
// same row without coordination. For a group the ID is the sanitized name,
// bound once at creation.
type Conversation struct {
	ID        string           `gorm:"primaryKey" json:"id"`
	Kind      ConversationKind `gorm:"not null;index" json:"kind"`
	Name      string           `gorm:"not null" json:"name"`
	CreatedAt time.Time        `gorm:"not null;index" json:"created-at"`

	Members []ConversationMember `gorm:"foreignKey:ConversationID;references:ID" json:"members"`
}

type ConversationMember struct {
	ConversationID string    `gorm:"primaryKey" json:"conversation-id"`
	AccountUUID    string    `gorm:"primaryKey;index" json:"account"`
	JoinedAt       time.Time `gorm:"not null" json:"joined-at"`
}
