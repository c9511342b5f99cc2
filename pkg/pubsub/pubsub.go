// Package pubsub is the in-process event bus between the visualization
// loop and its collaborators. Peer-list updates flow in on one topic and
// selection changes flow out on another, so external code never touches
// scene state directly: the render loop is the single writer.
package pubsub

import (
	"context"
	"sync"
)

// Topic names an event stream
type Topic string

const (
	// TopicPeers carries []peer.Record roster updates into the engine
	TopicPeers Topic = "peers"
	// TopicSelection carries SelectionEvent values out of the engine
	TopicSelection Topic = "selection"
)

// SelectionEvent reports a selection change to collaborators
type SelectionEvent struct {
	PeerID   string
	Selected bool
}

// subscriberBuffer bounds each subscription channel; publishes to a full
// subscriber are dropped rather than blocking the render loop
const subscriberBuffer = 64

// Bus is a topic-based publish/subscribe hub
type Bus struct {
	mu     sync.RWMutex
	subs   map[Topic][]*Subscription
	closed bool
}

// Subscription is one subscriber's view of a topic
type Subscription struct {
	topic  Topic
	events chan any
	bus    *Bus
	once   sync.Once
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{subs: make(map[Topic][]*Subscription)}
}

// Subscribe registers for a topic. The subscription ends when ctx is
// cancelled, Cancel is called, or the bus shuts down; its channel is closed
// in every case. Returns nil on a closed bus.
func (b *Bus) Subscribe(ctx context.Context, topic Topic) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}

	sub := &Subscription{
		topic:  topic,
		events: make(chan any, subscriberBuffer),
		bus:    b,
	}
	b.subs[topic] = append(b.subs[topic], sub)

	if ctx != nil && ctx.Done() != nil {
		go func() {
			<-ctx.Done()
			sub.Cancel()
		}()
	}
	return sub
}

// Publish delivers an event to every current subscriber of the topic.
// Delivery is non-blocking: subscribers that have fallen subscriberBuffer
// events behind miss this one.
func (b *Bus) Publish(topic Topic, event any) {
	b.mu.RLock()
	subs := make([]*Subscription, len(b.subs[topic]))
	copy(subs, b.subs[topic])
	closed := b.closed
	b.mu.RUnlock()

	if closed {
		return
	}
	for _, sub := range subs {
		select {
		case sub.events <- event:
		default:
		}
	}
}

// Subscribers returns the subscriber count for a topic
func (b *Bus) Subscribers(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}

// Close shuts the bus down, closing every subscription channel. Publishing
// to a closed bus is a no-op.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for topic, subs := range b.subs {
		for _, sub := range subs {
			sub.closeChan()
		}
		delete(b.subs, topic)
	}
}

// Events returns the subscription's receive channel
func (s *Subscription) Events() <-chan any { return s.events }

// Cancel removes the subscription and closes its channel; safe to call
// more than once
func (s *Subscription) Cancel() {
	s.bus.mu.Lock()
	subs := s.bus.subs[s.topic]
	for i, candidate := range subs {
		if candidate == s {
			s.bus.subs[s.topic] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	s.bus.mu.Unlock()

	s.closeChan()
}

func (s *Subscription) closeChan() {
	s.once.Do(func() { close(s.events) })
}
