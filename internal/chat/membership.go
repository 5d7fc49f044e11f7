package chat

import (
	"github.com/Milad704/socialmedia/internal/entity"
	"github.com/Milad704/socialmedia/internal/repository"
	"github.com/Milad704/socialmedia/pkg/apperr"
	"github.com/Milad704/socialmedia/pkg/nlog"
)

// MembershipManager answers "who is in this conversation right now". Every
// call goes to the store; membership is never cached client-side, so a removal
// committed by anyone is visible to the next call.
type MembershipManager struct {
	conversations repository.ConversationRepository
	logger        nlog.Logger
}

func NewMembershipManager(conversations repository.ConversationRepository, logger nlog.Logger) *MembershipManager {
	return &MembershipManager{
		conversations: conversations,
		logger:        logger,
	}
}

func (m *MembershipManager) Logf(format string, v ...any) {
	m.logger.Logf(format, v...)
}

func (m *MembershipManager) Members(conversationID string) ([]string, error) {
	members, err := m.conversations.Members(conversationID)
	if err != nil {
		return nil, err
	}
	uuids := make([]string, 0, len(members))
	for _, member := range members {
		uuids = append(uuids, member.AccountUUID)
	}
	return uuids, nil
}

func (m *MembershipManager) IsMember(conversationID, accountUUID string) (bool, error) {
	return m.conversations.IsMember(conversationID, accountUUID)
}

// Leave removes the account from a group conversation. Direct conversations
// cannot be left; leaving a group you are not in fails with NotAMember. The
// removal is committed before Leave returns, so a subsequent Members call
// already reflects it.
func (m *MembershipManager) Leave(conversationID, accountUUID string) error {
	conversation, err := m.conversations.GetByID(conversationID)
	if err != nil {
		return err
	}
	if conversation.Kind == entity.KindDirect {
		return apperr.ErrCannotLeaveDirect
	}

	removed, err := m.conversations.RemoveMember(conversationID, accountUUID)
	if err != nil {
		return err
	}
	if !removed {
		return apperr.ErrNotAMember
	}

	m.Logf("Account %s left conversation %s", accountUUID, conversationID)
	return nil
}
