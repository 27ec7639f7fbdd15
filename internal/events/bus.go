// Package events is an in-process publish/subscribe bus between services.
package events

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Topics published by the services.
const (
	TopicNotificationUpdated  = "notification.updated"
	TopicBookingCancelled     = "booking.cancelled"
	TopicBookingAutoCancelled = "booking.auto_cancelled"
	TopicWalletChanged        = "wallet.changed"
)

// Event is one published message. Payload type depends on the topic.
type Event struct {
	Topic   string
	Payload any
}

// BookingEvent is the payload of the booking topics.
type BookingEvent struct {
	BookingID int64
	AccountID int64
	Reason    string
}

// AccountEvent is the payload of the notification and wallet topics.
type AccountEvent struct {
	AccountID int64
}

// Handler receives events synchronously on the publisher's goroutine.
type Handler func(Event)

type subscription struct {
	id      uint64
	handler Handler
}

// Bus delivers events to subscribers in subscription order.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[string][]subscription
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string][]subscription)}
}

// Subscribe registers h for topic and returns a function that removes it.
// Calling the returned function more than once is harmless.
func (b *Bus) Subscribe(topic string, h Handler) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscription{id: id, handler: h})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			subs := b.subs[topic]
			for i, s := range subs {
				if s.id == id {
					b.subs[topic] = append(subs[:i:i], subs[i+1:]...)
					break
				}
			}
			if len(b.subs[topic]) == 0 {
				delete(b.subs, topic)
			}
		})
	}
}

// Publish delivers payload to every current subscriber of topic. A panicking
// handler is logged and does not stop delivery to the others.
func (b *Bus) Publish(topic string, payload any) {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs[topic]))
	copy(subs, b.subs[topic])
	b.mu.RUnlock()

	ev := Event{Topic: topic, Payload: payload}
	for _, s := range subs {
		deliver(s.handler, ev)
	}
}

func deliver(h Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("topic", ev.Topic).Interface("panic", r).Msg("Event handler panicked")
		}
	}()
	h(ev)
}

// Subscribers returns the number of handlers registered for topic.
func (b *Bus) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}
