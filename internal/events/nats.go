package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"alertcycle/internal/config"
	"alertcycle/internal/domain"
	"alertcycle/internal/permanent"
)

const eventStreamMaxAge = 24 * time.Hour

// Forwarder relays lifecycle events into a JetStream stream so external
// notification and dashboard consumers can subscribe without an in-process
// hook. Events are buffered and published from one worker goroutine; a full
// buffer drops the event with a warning instead of blocking lifecycle
// callers.
type Forwarder struct {
	nc     *nats.Conn
	js     nats.JetStreamContext
	cfg    config.NATSEventsConfig
	logger *slog.Logger

	input     chan domain.Event
	quit      chan struct{}
	done      chan struct{}
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// NewForwarder connects, ensures the event stream exists, and starts the
// publish worker.
// Params: events NATS config and logger.
// Returns: running forwarder or setup error.
func NewForwarder(cfg config.NATSEventsConfig, logger *slog.Logger) (*Forwarder, error) {
	nc, err := nats.Connect(strings.Join(cfg.URL, ","))
	if err != nil {
		return nil, fmt.Errorf("connect events nats: %w", err)
	}
	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream init for events: %w", err)
	}
	if err := ensureStream(js, cfg.Stream, cfg.SubjectPrefix+".>", nats.LimitsPolicy, eventStreamMaxAge); err != nil {
		nc.Close()
		return nil, err
	}

	f := &Forwarder{
		nc:     nc,
		js:     js,
		cfg:    cfg,
		logger: logger,
		input:  make(chan domain.Event, cfg.Buffer),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go f.run()
	return f, nil
}

// Publish queues one event for forwarding. Intended as a Bus subscriber.
// The read lock is held through the enqueue so Close cannot shut the
// forwarder down between the closed check and the send.
// Params: lifecycle event.
// Returns: none; a full buffer drops the event.
func (f *Forwarder) Publish(event domain.Event) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return
	}
	select {
	case f.input <- event:
	default:
		f.logger.Warn("event buffer full, dropping event", "type", string(event.Type))
	}
}

// Close stops the worker after draining queued events and closes the NATS
// connection. Safe to call more than once.
// Params: none.
// Returns: nil.
func (f *Forwarder) Close() error {
	f.closeOnce.Do(func() {
		f.mu.Lock()
		f.closed = true
		f.mu.Unlock()
		close(f.quit)
		<-f.done
		if f.nc != nil {
			f.nc.Close()
		}
	})
	return nil
}

func (f *Forwarder) run() {
	defer close(f.done)
	for {
		select {
		case event := <-f.input:
			f.forward(event)
		case <-f.quit:
			for {
				select {
				case event := <-f.input:
					f.forward(event)
				default:
					return
				}
			}
		}
	}
}

// forward publishes one event, retrying transient failures up to the
// configured attempt limit. Permanent failures are logged and dropped.
func (f *Forwarder) forward(event domain.Event) {
	retryDelay := time.Duration(f.cfg.RetryDelayMS) * time.Millisecond
	var lastErr error
	for attempt := 1; attempt <= f.cfg.MaxAttempts; attempt++ {
		lastErr = f.publishOnce(event)
		if lastErr == nil {
			return
		}
		if permanent.Is(lastErr) {
			f.logger.Error("event publish failed permanently",
				"type", string(event.Type), "error", lastErr.Error())
			return
		}
		if attempt < f.cfg.MaxAttempts && retryDelay > 0 {
			time.Sleep(retryDelay)
		}
	}
	f.logger.Error("event publish failed after retries",
		"type", string(event.Type), "attempts", f.cfg.MaxAttempts, "error", lastErr.Error())
}

func (f *Forwarder) publishOnce(event domain.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return permanent.Markf("marshal event: %v", err)
	}
	msg := nats.NewMsg(EventSubject(f.cfg.SubjectPrefix, event.Type))
	msg.Data = body
	if id := eventMessageID(event); id != "" {
		msg.Header.Set("Nats-Msg-Id", id)
	}
	if _, err := f.js.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// EventSubject maps one event type onto its stream subject. The colon in
// event type names is not a subject token separator, so it is folded into
// one ("alert:created" publishes under "<prefix>.alert.created").
// Params: subject prefix and event type.
// Returns: full publish subject.
func EventSubject(prefix string, eventType domain.EventType) string {
	token := strings.ReplaceAll(string(eventType), ":", ".")
	return prefix + "." + token
}

// eventMessageID builds the JetStream dedup id for one event.
// Params: lifecycle event.
// Returns: id unique per alert transition, empty for error events without
// an alert.
func eventMessageID(event domain.Event) string {
	if event.Alert.ID == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s:%d", event.Alert.ID, event.Type, event.Alert.UpdatedAt.UnixNano())
}

// ensureStream ensures one JetStream stream exists with provided options.
// Params: JetStream context and stream settings.
// Returns: stream create/lookup error.
func ensureStream(
	js nats.JetStreamContext,
	streamName string,
	subjects string,
	retention nats.RetentionPolicy,
	maxAge time.Duration,
) error {
	if _, err := js.StreamInfo(streamName); err == nil {
		return nil
	} else if err != nil && err != nats.ErrStreamNotFound && !strings.Contains(strings.ToLower(err.Error()), "stream not found") {
		return fmt.Errorf("stream info %q: %w", streamName, err)
	}

	_, err := js.AddStream(&nats.StreamConfig{
		Name:      streamName,
		Subjects:  []string{subjects},
		Retention: retention,
		Storage:   nats.FileStorage,
		MaxAge:    maxAge,
	})
	if err != nil {
		return fmt.Errorf("create stream %q: %w", streamName, err)
	}
	return nil
}
