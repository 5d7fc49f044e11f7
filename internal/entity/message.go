package entity

import "time"

// DeletedBody replaces the text of a soft-deleted message.
const DeletedBody = "This message was deleted."

// Message lives in the shared per-conversation collection. Seq is assigned by
// the store inside the append transaction and is strictly increasing across all
// writes, so ordering by it never depends on a client clock. Sender and Seq are
// immutable after creation; only Body/Deleted mutate, and only through a
// sender-initiated soft delete.
type Message struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	ConversationID string    `gorm:"not null;index" json:"conversation-id"`
	Sender         string    `gorm:"not null;index" json:"sender"`
	Body           string    `gorm:"not null" json:"body"`
	Seq            uint64    `gorm:"not null;uniqueIndex" json:"seq"`
	CreatedAt      time.Time `gorm:"not null" json:"created-at"`
	Deleted        bool      `gorm:"not null;default:false" json:"deleted"`
}
