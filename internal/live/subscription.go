package live

import (
	"sync"
	"sync/atomic"

	"github.com/Milad704/socialmedia/internal/entity"
	"github.com/Milad704/socialmedia/internal/repository"
	"github.com/Milad704/socialmedia/pkg/nlog"
)

type State int32

const (
	StateClosed State = iota
	StateSubscribing
	StateLive
)

// Snapshot is what a live query yields: the full ordered message list of one
// conversation plus enough metadata to render the view header. Consumers that
// want deltas diff two snapshots; the manager never ships partial updates.
type Snapshot struct {
	ConversationID string                  `json:"conversation-id"`
	Kind           entity.ConversationKind `json:"kind"`
	Title          string                  `json:"title"`
	Members        []string                `json:"members"`
	Messages       []*entity.Message       `json:"messages"`
}

// Subscription is one open conversation view. Lifecycle:
//
//	Closed -> Subscribing -> Live -> Closed
//
// Open resolves metadata and emits the initial snapshot; while Live, every hub
// notification triggers a re-read and a fresh snapshot on Updates. Close is
// idempotent, detaches exactly one hub subscriber, and never raises even if
// the underlying stream already died.
type Subscription struct {
	conversationID string
	state          atomic.Int32

	sub     *subscriber
	updates chan Snapshot
	stop    chan struct{}
	once    sync.Once

	manager *Manager
	meta    Snapshot // metadata template, messages filled per emit
}

func (s *Subscription) ConversationID() string { return s.conversationID }

func (s *Subscription) State() State { return State(s.state.Load()) }

// Updates yields one full snapshot per observed change. The channel is closed
// when the subscription closes.
func (s *Subscription) Updates() <-chan Snapshot { return s.updates }

// Close cancels the live query. Safe to call any number of times and from any
// exit path; a view must call it on every teardown or the hub leaks a
// subscriber.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.state.Store(int32(StateClosed))
		s.manager.hub.unsubscribe(s.conversationID, s.sub)
		close(s.stop)
	})
}

// Manager opens and tears down live subscriptions over the message store.
type Manager struct {
	hub           *Hub
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	accounts      repository.AccountRepository
	logger        nlog.Logger
}

func NewManager(hub *Hub, conversations repository.ConversationRepository, messages repository.MessageRepository, accounts repository.AccountRepository, logger nlog.Logger) *Manager {
	return &Manager{
		hub:           hub,
		conversations: conversations,
		messages:      messages,
		accounts:      accounts,
		logger:        logger,
	}
}

func (m *Manager) Logf(format string, v ...any) {
	m.logger.Logf(format, v...)
}

// Open starts a live query on the conversation and returns the handle holding
// it. The first snapshot is already buffered on Updates when Open returns.
func (m *Manager) Open(conversationID, selfUUID string) (*Subscription, error) {
	s := &Subscription{
		conversationID: conversationID,
		updates:        make(chan Snapshot, 1),
		stop:           make(chan struct{}),
		manager:        m,
	}
	s.state.Store(int32(StateSubscribing))

	meta, err := m.resolveMetadata(conversationID, selfUUID)
	if err != nil {
		s.state.Store(int32(StateClosed))
		return nil, err
	}
	s.meta = meta

	initial, err := m.messages.List(conversationID)
	if err != nil {
		s.state.Store(int32(StateClosed))
		return nil, err
	}

	s.sub = m.hub.subscribe(conversationID)
	s.state.Store(int32(StateLive))
	s.emit(initial)

	go s.run()

	m.Logf("Subscription opened on %s for %s", conversationID, selfUUID)
	return s, nil
}

func (s *Subscription) run() {
	defer close(s.updates)
	for {
		select {
		case <-s.stop:
			return
		case <-s.sub.notify:
			messages, err := s.manager.messages.List(s.conversationID)
			if err != nil {
				// Transient store failure: keep the subscription alive, the
				// next notification retries the read.
				s.manager.Logf("Live re-read failed on %s: %v", s.conversationID, err)
				continue
			}
			s.emit(messages)
		}
	}
}

// emit publishes a snapshot with latest-wins semantics: if the consumer has
// not drained the previous one it is replaced, never queued behind.
func (s *Subscription) emit(messages []*entity.Message) {
	snap := s.meta
	snap.Messages = messages

	for {
		select {
		case s.updates <- snap:
			return
		default:
		}
		select {
		case <-s.updates:
		default:
		}
	}
}

func (m *Manager) resolveMetadata(conversationID, selfUUID string) (Snapshot, error) {
	conversation, err := m.conversations.GetByID(conversationID)
	if err != nil {
		return Snapshot{}, err
	}

	members := make([]string, 0, len(conversation.Members))
	for _, member := range conversation.Members {
		members = append(members, member.AccountUUID)
	}

	title := conversation.Name
	if conversation.Kind == entity.KindDirect {
		// A direct view is titled after the peer, not the stored pair key.
		for _, uuid := range members {
			if uuid == selfUUID {
				continue
			}
			if peer, err := m.accounts.GetByUUID(uuid); err == nil {
				title = peer.Name
			}
		}
	}

	return Snapshot{
		ConversationID: conversationID,
		Kind:           conversation.Kind,
		Title:          title,
		Members:        members,
	}, nil
}
