package events

import (
	"context"
	"sync"
)

// LocalBus fans events out to in-process subscribers.
// It is used when Redis is disabled so a single instance still gets live updates.
type LocalBus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Event
	closed bool
}

// NewLocalBus creates an empty in-process bus
func NewLocalBus() *LocalBus {
	return &LocalBus{subs: make(map[int]chan Event)}
}

// Publish delivers e to every subscriber without blocking
func (b *LocalBus) Publish(ctx context.Context, e Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
	return nil
}

// Subscribe registers a new subscriber
func (b *LocalBus) Subscribe(ctx context.Context) (<-chan Event, func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if b.closed {
		close(ch)
		return ch, func() {}, nil
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	return ch, watch(ctx, func() { b.remove(id) }), nil
}

func (b *LocalBus) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// watch runs stop once, on the first of ctx.Done or the returned cancel func
func watch(ctx context.Context, stop func()) func() {
	var once sync.Once
	done := make(chan struct{})
	cancel := func() {
		once.Do(func() {
			close(done)
			stop()
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-done:
		}
	}()

	return cancel
}

// Close closes every subscriber channel
func (b *LocalBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
	b.closed = true
	return nil
}

// NopBus drops every event. Subscribers get a channel that closes with ctx.
type NopBus struct{}

// Publish discards e
func (NopBus) Publish(ctx context.Context, e Event) error {
	return nil
}

// Subscribe returns a channel that never delivers
func (NopBus) Subscribe(ctx context.Context) (<-chan Event, func(), error) {
	ch := make(chan Event)
	return ch, watch(ctx, func() { close(ch) }), nil
}

// Close is a no-op
func (NopBus) Close() error {
	return nil
}
