package client

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// DefaultSubscriptionBuffer is the default per-subscriber channel depth.
const DefaultSubscriptionBuffer = 16

// Subscription delivers device state snapshots to one subscriber.
//
// Snapshots arrive in the order the corresponding chunks were received
// from the device. A subscriber that falls behind misses intermediate
// snapshots (every snapshot is the full state, so the next delivery
// supersedes anything missed); it never observes reordering.
type Subscription struct {
	id  string
	ch  chan DeviceState
	set *subscriberSet

	closeOnce sync.Once
}

// ID returns the subscription's unique identifier.
func (s *Subscription) ID() string {
	return s.id
}

// Updates returns the snapshot channel. The channel is closed when the
// subscription is closed.
func (s *Subscription) Updates() <-chan DeviceState {
	return s.ch
}

// Close unregisters the subscription and closes its channel.
// It is safe to call multiple times.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.set.unsubscribe(s.id)
	})
}

// subscriberSet fans device state snapshots out to subscriptions.
type subscriberSet struct {
	mu   sync.Mutex
	subs map[string]*Subscription
}

func newSubscriberSet() *subscriberSet {
	return &subscriberSet{
		subs: make(map[string]*Subscription),
	}
}

func (ss *subscriberSet) subscribe(buffer int) *Subscription {
	if buffer <= 0 {
		buffer = DefaultSubscriptionBuffer
	}

	sub := &Subscription{
		id:  uuid.NewString(),
		ch:  make(chan DeviceState, buffer),
		set: ss,
	}

	ss.mu.Lock()
	ss.subs[sub.id] = sub
	ss.mu.Unlock()

	return sub
}

func (ss *subscriberSet) unsubscribe(id string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	sub, ok := ss.subs[id]
	if !ok {
		return
	}
	delete(ss.subs, id)
	close(sub.ch)
}

// publish delivers a snapshot to every subscriber without blocking.
// The receive loop must never stall on a slow consumer.
func (ss *subscriberSet) publish(state DeviceState, logger *slog.Logger) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	for _, sub := range ss.subs {
		select {
		case sub.ch <- state:
		default:
			logger.Warn("subscriber too slow, dropping state snapshot",
				"subscription_id", sub.id)
		}
	}
}

func (ss *subscriberSet) len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.subs)
}
