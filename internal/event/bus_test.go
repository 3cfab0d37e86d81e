package event

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/Iron-Ham/intake/internal/errors"
	"github.com/Iron-Ham/intake/internal/logging"
)

func TestBus_Subscribe(t *testing.T) {
	bus := NewBus()

	called := false
	id := bus.Subscribe(TypeNotice, func(e Event) {
		called = true
	})

	if id == "" {
		t.Error("Subscribe should return a non-empty ID")
	}
	if bus.SubscriptionCount() != 1 {
		t.Errorf("Expected 1 subscription, got %d", bus.SubscriptionCount())
	}
	if called {
		t.Error("Handler should not be called until an event is published")
	}
}

func TestBus_Publish(t *testing.T) {
	bus := NewBus()

	var received Event
	bus.Subscribe(TypeNotice, func(e Event) {
		received = e
	})

	bus.Publish(NewNoticeEvent("Request failed", errors.SeverityError))

	notice, ok := received.(NoticeEvent)
	if !ok {
		t.Fatalf("Handler received %T, want NoticeEvent", received)
	}
	if notice.Text != "Request failed" {
		t.Errorf("Text = %q, want %q", notice.Text, "Request failed")
	}
}

func TestBus_PublishNoMatchingHandlers(t *testing.T) {
	bus := NewBus()

	called := false
	bus.Subscribe(TypeLedgerRefresh, func(e Event) { called = true })
	bus.Publish(NewEntryRemovedEvent("2024-05-01", 3))

	if called {
		t.Error("Handler for a different event type should not be called")
	}
}

func TestBus_SubscribeAllOrdering(t *testing.T) {
	bus := NewBus()

	var order []string
	bus.SubscribeAll(func(e Event) { order = append(order, "wildcard") })
	bus.Subscribe(TypeGoalsLoaded, func(e Event) { order = append(order, "specific") })

	bus.Publish(NewGoalsLoadedEvent("2024-05-01"))

	if strings.Join(order, ",") != "specific,wildcard" {
		t.Errorf("dispatch order = %v, want [specific wildcard]", order)
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()

	count := 0
	keep := bus.Subscribe(TypeNotice, func(e Event) { count++ })
	drop := bus.Subscribe(TypeNotice, func(e Event) { count += 10 })

	if !bus.Unsubscribe(drop) {
		t.Fatal("Unsubscribe should report success for a known ID")
	}
	if bus.Unsubscribe("sub-999") {
		t.Error("Unsubscribe should report failure for an unknown ID")
	}

	bus.Publish(NewNoticeEvent("x", errors.SeverityInfo))
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}

	bus.Unsubscribe(keep)
	if bus.SubscriptionCount() != 0 {
		t.Errorf("SubscriptionCount() = %d, want 0", bus.SubscriptionCount())
	}
}

func TestBus_HandlerPanicRecovery(t *testing.T) {
	var buf bytes.Buffer
	bus := NewBus()
	bus.SetLogger(logging.NewWriterLogger(&buf, logging.LevelError))

	secondCalled := false
	bus.Subscribe(TypeNotice, func(e Event) { panic("boom") })
	bus.Subscribe(TypeNotice, func(e Event) { secondCalled = true })

	bus.Publish(NewNoticeEvent("x", errors.SeverityInfo))

	if !secondCalled {
		t.Error("handlers after a panicking handler should still run")
	}
	if !strings.Contains(buf.String(), "event handler panicked") {
		t.Errorf("panic was not logged: %q", buf.String())
	}
}

func TestBus_ConcurrentPublish(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	count := 0
	bus.SubscribeAll(func(e Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Publish(NewLedgerRefreshedEvent(1))
		}()
	}
	wg.Wait()

	if count != 50 {
		t.Errorf("count = %d, want 50", count)
	}
}

func TestBus_Clear(t *testing.T) {
	bus := NewBus()
	bus.Subscribe(TypeNotice, func(e Event) {})
	bus.SubscribeAll(func(e Event) {})

	bus.Clear()

	if bus.SubscriptionCount() != 0 {
		t.Errorf("SubscriptionCount() = %d after Clear, want 0", bus.SubscriptionCount())
	}
}

func TestNewErrorNotice(t *testing.T) {
	err := errors.NewSyncError("list days", errors.KindUnreachable, nil)
	n := NewErrorNotice(err)

	if n.Text != "Cannot reach server" {
		t.Errorf("Text = %q", n.Text)
	}
	if n.Severity != errors.SeverityError {
		t.Errorf("Severity = %v, want error", n.Severity)
	}
	if n.EventType() != TypeNotice {
		t.Errorf("EventType() = %q", n.EventType())
	}
	if n.Timestamp().IsZero() {
		t.Error("Timestamp should be set")
	}
}
