// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"github.com/tomtom215/guidewiki/internal/logging"
	"github.com/tomtom215/guidewiki/internal/models"
)

// NewPubSub creates the in-process pub/sub carrying cross-tab events.
func NewPubSub(buffer int64) *gochannel.GoChannel {
	return gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: buffer},
		logging.NewWatermillLogger("session-bus"),
	)
}

// storageMessage is the payload published on Topic.
type storageMessage struct {
	Namespace string          `json:"namespace"`
	Origin    string          `json:"origin"`
	Key       string          `json:"key"`
	NewValue  *models.Session `json:"new_value"`
}

// CrossTab publishes EventStorage for the other tabs of a browser context.
type CrossTab struct {
	publisher message.Publisher
	topic     string
}

// NewCrossTab creates a cross-tab transport publishing to Topic.
func NewCrossTab(publisher message.Publisher) *CrossTab {
	return &CrossTab{publisher: publisher, topic: Topic}
}

// Name implements Transport.
func (c *CrossTab) Name() string { return "cross_tab" }

// Kind is the event kind this transport delivers.
func (c *CrossTab) Kind() string { return EventStorage }

// Deliver publishes ev. Delivery to the other tabs happens asynchronously
// through a Forwarder.
func (c *CrossTab) Deliver(ctx context.Context, ev Event) error {
	data, err := json.Marshal(storageMessage{
		Namespace: ev.Namespace,
		Origin:    ev.Origin,
		Key:       ev.Key,
		NewValue:  ev.Session,
	})
	if err != nil {
		return fmt.Errorf("serialize storage event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.SetContext(ctx)
	msg.Metadata.Set("namespace", ev.Namespace)
	msg.Metadata.Set("key", ev.Key)

	if err := c.publisher.Publish(c.topic, msg); err != nil {
		return fmt.Errorf("publish storage event: %w", err)
	}
	return nil
}

// Forwarder consumes Topic and hands each event, as EventStorage, to its
// observers. Observers decide which tabs receive it; the websocket relay
// skips the origin tab.
type Forwarder struct {
	subscriber message.Subscriber
	topic      string

	mu        sync.RWMutex
	observers []Observer

	readyOnce sync.Once
	ready     chan struct{}
}

// NewForwarder creates a forwarder reading from subscriber.
func NewForwarder(subscriber message.Subscriber, observers ...Observer) *Forwarder {
	return &Forwarder{
		subscriber: subscriber,
		topic:      Topic,
		observers:  observers,
		ready:      make(chan struct{}),
	}
}

// Ready is closed once the forwarder has subscribed to the topic. Events
// published earlier are not delivered.
func (f *Forwarder) Ready() <-chan struct{} {
	return f.ready
}

// AddObserver registers another observer.
func (f *Forwarder) AddObserver(obs Observer) {
	f.mu.Lock()
	f.observers = append(f.observers, obs)
	f.mu.Unlock()
}

// Serve runs until ctx is canceled. It implements suture.Service.
func (f *Forwarder) Serve(ctx context.Context) error {
	messages, err := f.subscriber.Subscribe(ctx, f.topic)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", f.topic, err)
	}
	f.readyOnce.Do(func() { close(f.ready) })

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			f.handle(ctx, msg)
		}
	}
}

func (f *Forwarder) handle(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var payload storageMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		logging.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("Dropping malformed storage event")
		return
	}

	ev := Event{
		Kind:      EventStorage,
		Namespace: payload.Namespace,
		Origin:    payload.Origin,
		Key:       payload.Key,
		Session:   payload.NewValue,
	}

	f.mu.RLock()
	observers := append([]Observer(nil), f.observers...)
	f.mu.RUnlock()

	for _, obs := range observers {
		obs.OnSessionEvent(ctx, ev)
	}
}

// String implements fmt.Stringer for supervisor logs.
func (f *Forwarder) String() string {
	return "session-forwarder"
}
