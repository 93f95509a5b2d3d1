package inprocess

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/swrcache/swrcache/eventbus"
)

func TestDispatchDeliversToSubscriber(t *testing.T) {
	b := New(2, 16, nil)
	defer b.Close()

	var mu sync.Mutex
	var got []eventbus.AsyncEvent
	done := make(chan struct{}, 1)

	b.Subscribe(func(ev eventbus.AsyncEvent) {
		mu.Lock()
		got = append(got, ev)
		mu.Unlock()
		done <- struct{}{}
	})

	ev := eventbus.AsyncEvent{ID: uuid.New(), Key: "user/profile/v2/en-US/1", Exact: true, Kind: eventbus.EventInvalidate}
	b.Dispatch(ev)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for delivery")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0].Key != ev.Key {
		t.Fatalf("unexpected delivered events: %+v", got)
	}
}

func TestDispatchDropsWhenQueueFull(t *testing.T) {
	var dropped int
	var mu sync.Mutex
	block := make(chan struct{})

	b := New(1, 1, func(ev eventbus.AsyncEvent) {
		mu.Lock()
		dropped++
		mu.Unlock()
	})
	defer b.Close()

	b.Subscribe(func(ev eventbus.AsyncEvent) {
		<-block // hold the single worker busy so the queue backs up
	})

	// First event occupies the worker; second fills the 1-slot queue;
	// third has nowhere to go and must be dropped.
	b.Dispatch(eventbus.AsyncEvent{ID: uuid.New(), Key: "a"})
	b.Dispatch(eventbus.AsyncEvent{ID: uuid.New(), Key: "b"})
	b.Dispatch(eventbus.AsyncEvent{ID: uuid.New(), Key: "c"})

	close(block)

	mu.Lock()
	defer mu.Unlock()
	if dropped == 0 {
		t.Fatalf("expected at least one dropped event")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	b := New(1, 4, nil)
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
