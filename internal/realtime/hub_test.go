package realtime

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, sub *Subscription) Event {
	t.Helper()
	select {
	case ev, ok := <-sub.Events():
		require.True(t, ok, "subscription closed unexpectedly")
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestPublish_RoutesToUser(t *testing.T) {
	hub := NewHub()
	alice := hub.Subscribe("alice")
	bob := hub.Subscribe("bob")
	defer alice.Close()
	defer bob.Close()

	hub.Publish("alice", Event{ID: "e1", Kind: KindNotification})

	ev := receive(t, alice)
	assert.Equal(t, "e1", ev.ID)

	select {
	case ev := <-bob.Events():
		t.Fatalf("bob received alice's event: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublish_FansOutToAllConnections(t *testing.T) {
	hub := NewHub()
	tab1 := hub.Subscribe("alice")
	tab2 := hub.Subscribe("alice")
	defer tab1.Close()
	defer tab2.Close()

	require.Equal(t, 2, hub.Connections("alice"))

	hub.Publish("alice", Event{ID: "e1", Kind: KindMessage})

	assert.Equal(t, "e1", receive(t, tab1).ID)
	assert.Equal(t, "e1", receive(t, tab2).ID)
}

func TestPublish_SuppressesDuplicateIDs(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("alice")
	defer sub.Close()

	hub.Publish("alice", Event{ID: "e1", Kind: KindNotification})
	hub.Publish("alice", Event{ID: "e1", Kind: KindNotification})
	hub.Publish("alice", Event{ID: "e2", Kind: KindNotification})

	assert.Equal(t, "e1", receive(t, sub).ID)
	assert.Equal(t, "e2", receive(t, sub).ID)

	select {
	case ev := <-sub.Events():
		t.Fatalf("duplicate delivered: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublish_DropsSlowSubscriber(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("alice")

	// Fill the buffer without reading, then overflow it.
	for i := 0; i < 40; i++ {
		hub.Publish("alice", Event{ID: fmt.Sprintf("e%d", i), Kind: KindNotification})
	}

	assert.Equal(t, 0, hub.Connections("alice"))

	// The events channel must be closed so the writer loop exits.
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-sub.events:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("subscription channel never closed")
		}
	}
}

func TestHubClose_ClosesAllSubscriptions(t *testing.T) {
	hub := NewHub()
	alice := hub.Subscribe("alice")
	bob := hub.Subscribe("bob")

	hub.Close()

	for _, sub := range []*Subscription{alice, bob} {
		select {
		case _, ok := <-sub.Events():
			assert.False(t, ok, "expected channel to be closed")
		case <-time.After(time.Second):
			t.Fatal("subscription channel never closed")
		}
	}
	assert.Equal(t, 0, hub.Connections("alice"))

	// Closing again and re-subscribing both work.
	hub.Close()
	sub := hub.Subscribe("alice")
	defer sub.Close()
	hub.Publish("alice", Event{ID: "e1", Kind: KindNotification})
	assert.Equal(t, "e1", receive(t, sub).ID)
}

func TestClose_Idempotent(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("alice")
	sub.Close()
	sub.Close()
	assert.Equal(t, 0, hub.Connections("alice"))
}
