package chat

import (
	"strings"
	"time"

	"github.com/Milad704/socialmedia/internal/entity"
	"github.com/Milad704/socialmedia/internal/live"
	"github.com/Milad704/socialmedia/internal/repository"
	"github.com/Milad704/socialmedia/pkg/apperr"
	"github.com/Milad704/socialmedia/pkg/nlog"
	"github.com/google/uuid"
)

// SeqCache mirrors the latest store sequence outside the DB (see
// data.StorageManager).
type SeqCache interface {
	UpdateSeqCache(uint64)
	GetCachedSeq() uint64
}

// FanoutEngine is the write side of the shared-collection layout. Fan-out is
// implicit: one append is visible to every subscriber of the conversation, so
// the engine's real job is the gate: membership is re-read from the store at
// write time, never trusted from the view that composed the message. A member
// removed between opening the compose box and pressing send is rejected here.
type FanoutEngine struct {
	membership *MembershipManager
	messages   repository.MessageRepository
	hub        *live.Hub
	seqCache   SeqCache
	logger     nlog.Logger
}

func NewFanoutEngine(membership *MembershipManager, messages repository.MessageRepository, hub *live.Hub, seqCache SeqCache, logger nlog.Logger) *FanoutEngine {
	return &FanoutEngine{
		membership: membership,
		messages:   messages,
		hub:        hub,
		seqCache:   seqCache,
		logger:     logger,
	}
}

func (f *FanoutEngine) Logf(format string, v ...any) {
	f.logger.Logf(format, v...)
}

// Send appends one message to the conversation's shared collection and wakes
// its subscribers. Not idempotent: a retry after an ambiguous failure can
// duplicate the message.
func (f *FanoutEngine) Send(conversationID, senderUUID, body string) (*entity.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperr.ErrEmptyMessage
	}

	isMember, err := f.membership.IsMember(conversationID, senderUUID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, apperr.ErrNotAMember
	}

	message := &entity.Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		Sender:         senderUUID,
		Body:           body,
		CreatedAt:      time.Now(),
		Deleted:        false,
	}
	seq, err := f.messages.Append(message)
	if err != nil {
		return nil, err
	}
	f.seqCache.UpdateSeqCache(seq)

	f.hub.Publish(conversationID)
	f.Logf("Message %s appended to %s at seq %d", message.ID, conversationID, seq)
	return message, nil
}

// Delete soft-deletes a message on behalf of its sender and notifies the
// conversation's subscribers so their snapshots pick up the replacement body.
func (f *FanoutEngine) Delete(conversationID, messageID, requesterUUID string) error {
	message, err := f.messages.GetByID(messageID)
	if err != nil {
		return err
	}
	if message.ConversationID != conversationID {
		return apperr.ErrMessageNotFound
	}

	if err := f.messages.SoftDelete(messageID, requesterUUID); err != nil {
		return err
	}

	f.hub.Publish(conversationID)
	f.Logf("Message %s deleted in %s by %s", messageID, conversationID, requesterUUID)
	return nil
}

// List is the finite snapshot read, ordered by the store-assigned sequence.
func (f *FanoutEngine) List(conversationID string) ([]*entity.Message, error) {
	return f.messages.List(conversationID)
}
