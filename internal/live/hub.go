package live

import "sync"

// Hub is the in-process change-notification fabric behind live queries. Writers
// publish a conversation id after every append; each subscriber holds a
// one-slot notify channel, so bursts of writes coalesce into a single wake-up
// and a slow reader can never stall a writer.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[*subscriber]struct{}

	// forward, when set, relays local publishes to peer processes (see Bridge).
	forward func(conversationID string)
}

type subscriber struct {
	notify chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		subscribers: map[string]map[*subscriber]struct{}{},
	}
}

func (h *Hub) SetForward(forward func(conversationID string)) {
	h.mu.Lock()
	h.forward = forward
	h.mu.Unlock()
}

func (h *Hub) subscribe(conversationID string) *subscriber {
	s := &subscriber{notify: make(chan struct{}, 1)}

	h.mu.Lock()
	if h.subscribers[conversationID] == nil {
		h.subscribers[conversationID] = map[*subscriber]struct{}{}
	}
	h.subscribers[conversationID][s] = struct{}{}
	h.mu.Unlock()

	return s
}

func (h *Hub) unsubscribe(conversationID string, s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if set, ok := h.subscribers[conversationID]; ok {
		delete(set, s)
		if len(set) == 0 {
			delete(h.subscribers, conversationID)
		}
	}
}

// Publish wakes every local subscriber of the conversation and relays the
// event to peers. Called by the fan-out engine after a successful write.
func (h *Hub) Publish(conversationID string) {
	h.mu.RLock()
	forward := h.forward
	h.mu.RUnlock()

	h.publishLocal(conversationID)
	if forward != nil {
		forward(conversationID)
	}
}

// publishLocal wakes local subscribers only. Used for events arriving from a
// peer process, which must not be relayed again.
func (h *Hub) publishLocal(conversationID string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for s := range h.subscribers[conversationID] {
		select {
		case s.notify <- struct{}{}:
		default:
			// already pending, the subscriber will re-read anyway
		}
	}
}

// SubscriberCount reports how many live subscribers a conversation has.
func (h *Hub) SubscriberCount(conversationID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[conversationID])
}
