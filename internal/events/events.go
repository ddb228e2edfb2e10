// Package events fans domain events out to Kafka and chat webhooks.
package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type Type string

const (
	UserRegistered             Type = "user.registered"
	ForumPostCreated           Type = "forum.post_created"
	ForumCommentCreated        Type = "forum.comment_created"
	SecondOpinionCreated       Type = "second_opinion.created"
	SecondOpinionStatusChanged Type = "second_opinion.status_changed"
	MessageSent                Type = "message.sent"
)

type Event struct {
	Type       Type        `json:"type"`
	Key        string      `json:"key"`
	OccurredAt time.Time   `json:"occurredAt"`
	Payload    interface{} `json:"payload"`
}

func New(eventType Type, key string, payload interface{}) Event {
	return Event{Type: eventType, Key: key, OccurredAt: time.Now().UTC(), Payload: payload}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// Multi publishes to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, p := range m {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Async hands events to a background worker so request handlers never wait
// on a broker or webhook. Events are dropped when the queue is full.
type Async struct {
	next    Publisher
	timeout time.Duration
	queue   chan Event
	done    chan struct{}
	once    sync.Once
}

func NewAsync(next Publisher, size int, timeout time.Duration) *Async {
	a := &Async{
		next:    next,
		timeout: timeout,
		queue:   make(chan Event, size),
		done:    make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *Async) run() {
	defer close(a.done)

	for event := range a.queue {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		if err := a.next.Publish(ctx, event); err != nil {
			log.Error().Err(err).Str("event", string(event.Type)).Msg("Failed to publish event")
		}
		cancel()
	}
}

func (a *Async) Publish(_ context.Context, event Event) error {
	select {
	case a.queue <- event:
		return nil
	default:
		log.Warn().Str("event", string(event.Type)).Msg("Event queue full, dropping event")
		return nil
	}
}

// Close drains queued events, then closes the wrapped publisher.
func (a *Async) Close() error {
	a.once.Do(func() { close(a.queue) })
	<-a.done
	return a.next.Close()
}
