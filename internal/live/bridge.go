package live

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/Milad704/socialmedia/pkg/nlog"
	"github.com/google/uuid"
	zmq "github.com/pebbe/zmq4"
)

// envelope is the wire form of one change notification.
type envelope struct {
	ConversationID string `json:"conversation-id"`
	Origin         string `json:"origin"`
}

// Bridge relays hub notifications between processes that share one database
// file. Local publishes go out on a PUB socket; notifications from peers come
// in on a SUB socket and wake local subscribers only, so an event never loops
// back to the process that produced it.
type Bridge struct {
	origin string

	hub    *Hub
	logger nlog.Logger

	pub *zmq.Socket
	sub *zmq.Socket

	outbox           chan envelope
	running          atomic.Bool
	internalStopChan chan struct{}
}

func NewBridge(hub *Hub, logger nlog.Logger) (*Bridge, error) {
	pub, err := zmq.NewSocket(zmq.PUB)
	if err != nil {
		return nil, err
	}
	sub, err := zmq.NewSocket(zmq.SUB)
	if err != nil {
		pub.Close()
		return nil, err
	}
	if err := sub.SetSubscribe(""); err != nil {
		pub.Close()
		sub.Close()
		return nil, err
	}

	b := &Bridge{
		origin:           uuid.New().String(),
		hub:              hub,
		logger:           logger,
		pub:              pub,
		sub:              sub,
		outbox:           make(chan envelope, 500),
		internalStopChan: make(chan struct{}, 1),
	}
	return b, nil
}

func (b *Bridge) Logf(format string, v ...any) {
	b.logger.Logf(format, v...)
}

func (b *Bridge) Bind(addr string) error {
	return b.pub.Bind(addr)
}

func (b *Bridge) Connect(peerAddrs ...string) error {
	for _, addr := range peerAddrs {
		if err := b.sub.Connect(addr); err != nil {
			return err
		}
	}
	return nil
}

// Attach hooks the bridge into the hub's forward path. Publishes that cannot
// be queued are dropped: peers fall at most one notification behind and the
// next write wakes them anyway.
func (b *Bridge) Attach() {
	b.hub.SetForward(func(conversationID string) {
		select {
		case b.outbox <- envelope{ConversationID: conversationID, Origin: b.origin}:
		default:
			b.Logf("Bridge outbox full, dropping notification for %s", conversationID)
		}
	})
}

func (b *Bridge) Run(ctx context.Context) {
	b.Logf("Started live bridge")

	go b.runSender(ctx)
	go b.runReceiver(ctx)
	b.running.Store(true)
}

func (b *Bridge) Stop() {
	if b.running.Load() {
		b.internalStopChan <- struct{}{}
		b.running.Store(false)
	}
}

func (b *Bridge) runSender(ctx context.Context) {
	b.Logf("Started bridge sender")
	for {
		select {
		case <-ctx.Done():
			b.Logf("Sender: Stop signal received")
			return
		case <-b.internalStopChan:
			b.Logf("Sender: Internal stop signal received")
			return
		case env := <-b.outbox:
			payload, err := json.Marshal(env)
			if err != nil {
				continue
			}
			if _, err := b.pub.SendMessage(env.ConversationID, payload); err != nil {
				b.Logf("Bridge send error: %v", err)
			}
		}
	}
}

func (b *Bridge) runReceiver(ctx context.Context) {
	b.Logf("Started bridge receiver")

	poller := zmq.NewPoller()
	poller.Add(b.sub, zmq.POLLIN)

	for {
		select {
		case <-ctx.Done():
			b.Logf("Receiver: Stop signal received")
			return
		case <-b.internalStopChan:
			b.Logf("Receiver: Internal stop signal received")
			return
		default:
		}

		polled, err := poller.Poll(500 * time.Millisecond)
		if err != nil {
			b.Logf("Polling error: %v", err)
			time.Sleep(100 * time.Millisecond)
			continue
		}
		if len(polled) == 0 {
			continue
		}

		parts, err := b.sub.RecvMessageBytes(0)
		if err != nil {
			b.Logf("Message received on bridge with an error: %v", err)
			continue
		}
		if len(parts) < 2 {
			continue
		}

		var env envelope
		if err := json.Unmarshal(parts[1], &env); err != nil {
			b.Logf("Malformed bridge envelope: %v", err)
			continue
		}
		if env.Origin == b.origin {
			continue
		}

		b.hub.publishLocal(env.ConversationID)
	}
}

func (b *Bridge) Close() {
	b.pub.Close()
	b.sub.Close()
}
