package events

import (
	"sync"
	"testing"
	"time"
)

func TestBus_Subscribe(t *testing.T) {
	bus := New(10)
	defer bus.Close()

	ch := bus.Subscribe()

	event := NewReportCapturedEvent("watch", "rep-1", "crash-2026-08-23T10-00-00.log", "Segmentation fault", 11, 4)
	bus.Publish(event)

	select {
	case received := <-ch:
		if received.EventType() != TypeReportCaptured {
			t.Errorf("expected %s, got %s", TypeReportCaptured, received.EventType())
		}
		if received.Source() != "watch" {
			t.Errorf("expected watch, got %s", received.Source())
		}
		captured, ok := received.(ReportCapturedEvent)
		if !ok {
			t.Fatalf("expected ReportCapturedEvent, got %T", received)
		}
		if captured.Signal != 11 {
			t.Errorf("Signal = %d, want 11", captured.Signal)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("timeout waiting for event")
	}
}

func TestBus_SubscribeByType(t *testing.T) {
	bus := New(10)
	defer bus.Close()

	capturedCh := bus.Subscribe(TypeReportCaptured)
	allCh := bus.Subscribe()

	bus.Publish(NewReportIndexedEvent("watch", 1, 0, 1))
	bus.Publish(NewReportCapturedEvent("watch", "rep-1", "crash-2026-08-23T10-00-00.log", "Aborted", 6, 2))

	// allCh should receive both
	select {
	case <-allCh:
	case <-time.After(100 * time.Millisecond):
		t.Error("allCh should receive indexed event")
	}
	select {
	case <-allCh:
	case <-time.After(100 * time.Millisecond):
		t.Error("allCh should receive captured event")
	}

	// capturedCh should only receive the captured event
	select {
	case received := <-capturedCh:
		if received.EventType() != TypeReportCaptured {
			t.Errorf("expected report_captured, got %s", received.EventType())
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("capturedCh should receive captured event")
	}
	select {
	case received := <-capturedCh:
		t.Errorf("capturedCh should be empty, got %s", received.EventType())
	default:
	}
}

func TestBus_PriorityNeverDrops(t *testing.T) {
	bus := New(5) // Small buffer
	defer bus.Close()

	priorityCh := bus.SubscribePriority()

	// Saturate with many events
	for i := 0; i < 100; i++ {
		bus.Publish(NewReportIndexedEvent("watch", 0, 0, 1))
	}

	capturedEvent := NewReportCapturedEvent("watch", "rep-1", "crash-2026-08-23T10-00-00.log", "Bus error", 7, 1)
	bus.PublishPriority(capturedEvent)

	// Priority channel should have the event
	select {
	case received := <-priorityCh:
		if received.EventType() != TypeReportCaptured {
			t.Errorf("expected report_captured, got %s", received.EventType())
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("priority event was dropped")
	}
}

func TestBus_FullBufferDropsOldest(t *testing.T) {
	bus := New(5)
	defer bus.Close()

	ch := bus.Subscribe()

	// Overfill the buffer
	for i := 0; i < 10; i++ {
		bus.Publish(NewReportIndexedEvent("watch", 0, 0, i))
	}

	if bus.DroppedCount() == 0 {
		t.Error("expected some events to be dropped")
	}

	received := 0
drainLoop:
	for {
		select {
		case <-ch:
			received++
		default:
			break drainLoop
		}
	}

	if received == 0 {
		t.Error("should have received at least some events")
	}
	if received > 5 {
		t.Errorf("received %d events, buffer holds at most 5", received)
	}
}

func TestBus_ConcurrentPublish(t *testing.T) {
	bus := New(100)
	defer bus.Close()

	ch := bus.Subscribe()

	var wg sync.WaitGroup
	numGoroutines := 10
	eventsPerGoroutine := 100

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < eventsPerGoroutine; j++ {
				bus.Publish(NewReportIndexedEvent("watch", 0, 0, 1))
			}
		}()
	}

	wg.Wait()

	received := 0
drainLoop:
	for {
		select {
		case <-ch:
			received++
		default:
			break drainLoop
		}
	}

	if received == 0 {
		t.Error("should have received some events")
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := New(10)
	defer bus.Close()

	ch := bus.Subscribe()
	bus.Unsubscribe(ch)

	// Channel must be closed
	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected closed channel after unsubscribe")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("channel should be closed, not blocking")
	}

	// Publishing after unsubscribe must not panic
	bus.Publish(NewReportIndexedEvent("watch", 0, 0, 0))
}

func TestBus_Close(t *testing.T) {
	bus := New(10)

	ch := bus.Subscribe()
	priorityCh := bus.SubscribePriority()

	bus.Close()

	if _, ok := <-ch; ok {
		t.Error("subscriber channel should be closed")
	}
	if _, ok := <-priorityCh; ok {
		t.Error("priority channel should be closed")
	}

	// Publish and Close after Close are no-ops
	bus.Publish(NewReportIndexedEvent("watch", 0, 0, 0))
	bus.PublishPriority(NewReportCapturedEvent("watch", "rep-1", "f.log", "Aborted", 6, 0))
	bus.Close()
}

func TestBus_DefaultBufferSize(t *testing.T) {
	bus := New(0)
	defer bus.Close()

	if bus.bufferSize != 100 {
		t.Errorf("bufferSize = %d, want 100", bus.bufferSize)
	}
}
