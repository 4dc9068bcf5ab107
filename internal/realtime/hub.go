// Package realtime pushes events to connected clients over WebSockets.
//
// Each user may hold several connections (tabs, devices). Events are fanned
// out to every subscription for the target user. Delivery is best-effort:
// a subscription that cannot keep up is dropped rather than allowed to block
// publishers, and clients recover missed events by refetching over REST.
package realtime

import (
	"log/slog"
	"sync"
)

// Event is a single push frame. ID lets receivers suppress duplicates when
// an event reaches them through more than one path (e.g., a push arriving
// while the same record comes back from a refetch).
type Event struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Payload any    `json:"payload"`
}

// Event kinds.
const (
	KindNotification = "notification"
	KindMessage      = "message"
)

// seenLimit bounds the per-subscription duplicate-suppression window.
const seenLimit = 512

// Subscription is one client's event stream.
type Subscription struct {
	hub    *Hub
	userID string
	events chan Event

	// seen tracks recently delivered event IDs for duplicate suppression.
	// order evicts oldest entries once seenLimit is reached.
	mu    sync.Mutex
	seen  map[string]struct{}
	order []string

	closeOnce sync.Once
}

// Events returns the channel of pushed events. It is closed when the
// subscription is closed or dropped.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Close detaches the subscription from the hub.
func (s *Subscription) Close() {
	s.hub.unsubscribe(s)
}

// deliver enqueues the event unless it is a duplicate or the buffer is full.
// Returns false if the subscriber is too slow and should be dropped.
func (s *Subscription) deliver(ev Event) bool {
	s.mu.Lock()
	if _, dup := s.seen[ev.ID]; dup {
		s.mu.Unlock()
		return true
	}
	s.seen[ev.ID] = struct{}{}
	s.order = append(s.order, ev.ID)
	if len(s.order) > seenLimit {
		delete(s.seen, s.order[0])
		s.order = s.order[1:]
	}
	s.mu.Unlock()

	select {
	case s.events <- ev:
		return true
	default:
		return false
	}
}

// Hub routes events to per-user subscriptions.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscription]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		subs: make(map[string]map[*Subscription]struct{}),
	}
}

// Subscribe registers a new event stream for the user.
func (h *Hub) Subscribe(userID string) *Subscription {
	sub := &Subscription{
		hub:    h,
		userID: userID,
		events: make(chan Event, 32),
		seen:   make(map[string]struct{}),
	}

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[*Subscription]struct{})
	}
	h.subs[userID][sub] = struct{}{}
	h.mu.Unlock()

	return sub
}

func (h *Hub) unsubscribe(sub *Subscription) {
	h.mu.Lock()
	set := h.subs[sub.userID]
	if _, ok := set[sub]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subs, sub.userID)
		}
		sub.closeOnce.Do(func() { close(sub.events) })
	}
	h.mu.Unlock()
}

// Close detaches and closes every subscription. The hub stays usable;
// new subscriptions may attach afterwards.
func (h *Hub) Close() {
	h.mu.Lock()
	for _, set := range h.subs {
		for sub := range set {
			sub.closeOnce.Do(func() { close(sub.events) })
		}
	}
	h.subs = make(map[string]map[*Subscription]struct{})
	h.mu.Unlock()
}

// Publish sends an event to all of the user's subscriptions. Never blocks:
// subscribers that cannot keep up are dropped.
func (h *Hub) Publish(userID string, ev Event) {
	h.mu.RLock()
	var slow []*Subscription
	for sub := range h.subs[userID] {
		if !sub.deliver(ev) {
			slow = append(slow, sub)
		}
	}
	h.mu.RUnlock()

	for _, sub := range slow {
		slog.Warn("Dropping slow realtime subscriber", "user_id", userID)
		h.unsubscribe(sub)
	}
}

// Connections reports how many subscriptions the user currently holds.
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}
