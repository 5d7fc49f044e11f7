package chat

import (
	"time"

	"github.com/Milad704/socialmedia/internal/entity"
	"github.com/Milad704/socialmedia/internal/live"
	"github.com/Milad704/socialmedia/internal/repository"
	"github.com/Milad704/socialmedia/pkg/apperr"
	"github.com/Milad704/socialmedia/pkg/nlog"
)

// IdentityResolver validates a user-facing name before it is admitted into a
// conversation. Satisfied by service.DirectoryService.
type IdentityResolver interface {
	Resolve(name string) (*entity.Account, error)
}

// Handle is one open conversation view: one conversation, one viewer, exactly
// one live subscription. The caller owns it and must Close it on every exit
// path from the view.
type Handle struct {
	ConversationID string
	SelfUUID       string

	sub *live.Subscription
}

// Updates exposes the view's live snapshot stream.
func (h *Handle) Updates() <-chan live.Snapshot { return h.sub.Updates() }

// API is the conversation surface handed to the UI layer.
type API struct {
	resolver      IdentityResolver
	conversations repository.ConversationRepository
	membership    *MembershipManager
	fanout        *FanoutEngine
	subscriptions *live.Manager
	logger        nlog.Logger
}

func NewAPI(resolver IdentityResolver, conversations repository.ConversationRepository, membership *MembershipManager, fanout *FanoutEngine, subscriptions *live.Manager, logger nlog.Logger) *API {
	return &API{
		resolver:      resolver,
		conversations: conversations,
		membership:    membership,
		fanout:        fanout,
		subscriptions: subscriptions,
		logger:        logger,
	}
}

func (a *API) Logf(format string, v ...any) {
	a.logger.Logf(format, v...)
}

// EnsureDirect resolves the peer and binds (on first use) the 1:1
// conversation between self and peer, returning its key.
func (a *API) EnsureDirect(selfUUID, peerName string) (string, error) {
	peer, err := a.resolver.Resolve(peerName)
	if err != nil {
		return "", err
	}
	if peer.UUID == selfUUID {
		return "", apperr.InvalidArg("cannot open a conversation with yourself")
	}

	key := DirectKey(selfUUID, peer.UUID)
	now := time.Now()
	conversation := &entity.Conversation{
		ID:        key,
		Kind:      entity.KindDirect,
		Name:      key,
		CreatedAt: now,
		Members: []entity.ConversationMember{
			{AccountUUID: selfUUID, JoinedAt: now},
			{AccountUUID: peer.UUID, JoinedAt: now},
		},
	}
	// First open from either side binds the key; later opens are no-ops.
	if _, err := a.conversations.CreateIfAbsent(conversation); err != nil {
		return "", err
	}
	return key, nil
}

// OpenDirect opens (creating on first use) the 1:1 conversation between self
// and the named peer and starts its live subscription.
func (a *API) OpenDirect(selfUUID, peerName string) (*Handle, error) {
	key, err := a.EnsureDirect(selfUUID, peerName)
	if err != nil {
		return nil, err
	}
	return a.open(key, selfUUID)
}

// OpenGroup opens a live view on an existing group. Membership is not required
// to read: a departed member keeps access to history and is only refused at
// send time.
func (a *API) OpenGroup(selfUUID, groupID string) (*Handle, error) {
	return a.open(groupID, selfUUID)
}

func (a *API) open(conversationID, selfUUID string) (*Handle, error) {
	sub, err := a.subscriptions.Open(conversationID, selfUUID)
	if err != nil {
		return nil, err
	}
	return &Handle{
		ConversationID: conversationID,
		SelfUUID:       selfUUID,
		sub:            sub,
	}, nil
}

// CreateGroup binds the sanitized name to a new group conversation holding the
// creator plus the named members. A candidate id already bound to another
// conversation fails with AlreadyExists and leaves that conversation alone.
func (a *API) CreateGroup(selfUUID, name string, memberNames []string) (string, error) {
	candidate, err := SanitizeGroupName(name)
	if err != nil {
		return "", err
	}

	now := time.Now()
	members := []entity.ConversationMember{{AccountUUID: selfUUID, JoinedAt: now}}
	seen := map[string]struct{}{selfUUID: {}}
	for _, memberName := range memberNames {
		account, err := a.resolver.Resolve(memberName)
		if err != nil {
			return "", err
		}
		if _, dup := seen[account.UUID]; dup {
			continue
		}
		seen[account.UUID] = struct{}{}
		members = append(members, entity.ConversationMember{AccountUUID: account.UUID, JoinedAt: now})
	}
	if len(members) < 2 {
		return "", apperr.ErrNoMembers
	}

	conversation := &entity.Conversation{
		ID:        candidate,
		Kind:      entity.KindGroup,
		Name:      name,
		CreatedAt: now,
		Members:   members,
	}
	created, err := a.conversations.CreateIfAbsent(conversation)
	if err != nil {
		return "", err
	}
	if !created {
		return "", apperr.ErrGroupNameTaken
	}

	a.Logf("Group %s created by %s with %d members", candidate, selfUUID, len(members))
	return candidate, nil
}

// GroupsFor lists the group conversations the account is currently in.
func (a *API) GroupsFor(selfUUID string) ([]*entity.Conversation, error) {
	conversations, err := a.conversations.ForMember(selfUUID)
	if err != nil {
		return nil, err
	}
	groups := conversations[:0]
	for _, conversation := range conversations {
		if conversation.Kind == entity.KindGroup {
			groups = append(groups, conversation)
		}
	}
	return groups, nil
}

func (a *API) Send(handle *Handle, text string) (*entity.Message, error) {
	return a.SendTo(handle.ConversationID, handle.SelfUUID, text)
}

func (a *API) DeleteMessage(handle *Handle, messageID string) error {
	return a.DeleteIn(handle.ConversationID, messageID, handle.SelfUUID)
}

func (a *API) LeaveGroup(handle *Handle) error {
	return a.Leave(handle.ConversationID, handle.SelfUUID)
}

// Id-based variants of the handle operations, for stateless callers that
// address a conversation directly.

func (a *API) SendTo(conversationID, selfUUID, text string) (*entity.Message, error) {
	return a.fanout.Send(conversationID, selfUUID, text)
}

func (a *API) DeleteIn(conversationID, messageID, selfUUID string) error {
	return a.fanout.Delete(conversationID, messageID, selfUUID)
}

func (a *API) Leave(conversationID, selfUUID string) error {
	return a.membership.Leave(conversationID, selfUUID)
}

// Messages is the finite snapshot read of a conversation.
func (a *API) Messages(conversationID string) ([]*entity.Message, error) {
	return a.fanout.List(conversationID)
}

// Close tears down the handle's subscription. Idempotent; required on every
// exit path or the hub keeps a dead subscriber.
func (a *API) Close(handle *Handle) {
	if handle == nil || handle.sub == nil {
		return
	}
	handle.sub.Close()
}
