package events

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nats-io/nats.go"

	"alertcycle/internal/config"
	"alertcycle/internal/domain"
	"alertcycle/internal/logging"
)

// stubJetStream counts published messages. Methods beyond PublishMsg fall
// through to the embedded nil interface and are never called here.
type stubJetStream struct {
	nats.JetStreamContext
	published atomic.Int64
}

func (s *stubJetStream) PublishMsg(msg *nats.Msg, opts ...nats.PubOpt) (*nats.PubAck, error) {
	s.published.Add(1)
	return &nats.PubAck{Stream: "ALERTCYCLE_EVENTS"}, nil
}

func newTestForwarder(buffer int) (*Forwarder, *stubJetStream) {
	stub := &stubJetStream{}
	f := &Forwarder{
		js: stub,
		cfg: config.NATSEventsConfig{
			SubjectPrefix: "alertcycle.events",
			Buffer:        buffer,
			MaxAttempts:   1,
		},
		logger: logging.Discard(),
		input:  make(chan domain.Event, buffer),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go f.run()
	return f, stub
}

func TestForwarderCloseDrainsQueuedEvents(t *testing.T) {
	t.Parallel()

	f, stub := newTestForwarder(16)
	for i := 0; i < 5; i++ {
		f.Publish(domain.Event{
			Type:      domain.EventAlertCreated,
			Alert:     domain.Alert{ID: "a1", UpdatedAt: time.Now().UTC()},
			Timestamp: time.Now().UTC(),
		})
	}

	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if got := stub.published.Load(); got != 5 {
		t.Fatalf("expected 5 published events after drain, got %d", got)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("repeated close: %v", err)
	}
}

func TestForwarderPublishDuringCloseDoesNotPanic(t *testing.T) {
	t.Parallel()

	f, stub := newTestForwarder(64)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					f.Publish(domain.Event{
						Type:      domain.EventAlertResolved,
						Alert:     domain.Alert{ID: "a1", UpdatedAt: time.Now().UTC()},
						Timestamp: time.Now().UTC(),
					})
				}
			}
		}()
	}

	time.Sleep(20 * time.Millisecond)
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	closedAt := stub.published.Load()
	close(stop)
	wg.Wait()

	// Publishes after Close are no-ops.
	f.Publish(domain.Event{Type: domain.EventAlertClosed, Alert: domain.Alert{ID: "a1"}})
	if got := stub.published.Load(); got != closedAt {
		t.Fatalf("publish after close must not forward, got %d then %d", closedAt, got)
	}
}
