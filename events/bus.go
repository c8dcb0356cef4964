package events

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// Common errors returned by the Bus.
var (
	ErrBusNotRunning      = errors.New("event bus is not running")
	ErrSubscriberExists   = errors.New("subscriber already exists for this query")
	ErrSubscriberNotFound = errors.New("subscriber not found")
	ErrTooManySubscribers = errors.New("maximum number of subscribers reached")
)

// Bus is an in-memory pub/sub bus. It is safe for concurrent use.
type Bus struct {
	config BusConfig

	// subscriptions maps subscriber+query to subscription
	subscriptions map[string]*subscription
	mu            sync.RWMutex

	// running state
	running atomic.Bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// subscription holds a single subscriber's channel and metadata.
type subscription struct {
	subscriber string
	query      Query
	ch         chan Event
	cancelled  atomic.Bool
}

// NewBus creates a new Bus with default configuration.
func NewBus() *Bus {
	return NewBusWithConfig(DefaultBusConfig())
}

// NewBusWithConfig creates a new Bus with the given configuration.
func NewBusWithConfig(config BusConfig) *Bus {
	if config.BufferSize <= 0 {
		config.BufferSize = 100
	}
	return &Bus{
		config:        config,
		subscriptions: make(map[string]*subscription),
		stopCh:        make(chan struct{}),
	}
}

// subscriptionKey creates a unique key for a subscriber+query pair.
func subscriptionKey(subscriber string, query Query) string {
	return subscriber + ":" + query.String()
}

// Start starts the event bus.
func (b *Bus) Start() error {
	if b.running.Swap(true) {
		return nil // Already running
	}
	b.stopCh = make(chan struct{})
	return nil
}

// Stop stops the event bus and closes all subscription channels.
func (b *Bus) Stop() error {
	if !b.running.Swap(false) {
		return nil // Already stopped
	}

	close(b.stopCh)

	b.mu.Lock()
	for _, sub := range b.subscriptions {
		sub.cancelled.Store(true)
		close(sub.ch)
	}
	b.subscriptions = make(map[string]*subscription)
	b.mu.Unlock()

	b.wg.Wait()
	return nil
}

// IsRunning returns true if the event bus is running.
func (b *Bus) IsRunning() bool {
	return b.running.Load()
}

// Subscribe creates a subscription for events matching the query.
// The subscription is removed when ctx is cancelled.
func (b *Bus) Subscribe(ctx context.Context, subscriber string, query Query) (<-chan Event, error) {
	if !b.running.Load() {
		return nil, ErrBusNotRunning
	}

	key := subscriptionKey(subscriber, query)

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.subscriptions[key]; exists {
		return nil, ErrSubscriberExists
	}
	if b.config.MaxSubscribers > 0 && len(b.subscriptions) >= b.config.MaxSubscribers {
		return nil, ErrTooManySubscribers
	}

	sub := &subscription{
		subscriber: subscriber,
		query:      query,
		ch:         make(chan Event, b.config.BufferSize),
	}
	b.subscriptions[key] = sub

	if ctx != nil && ctx.Done() != nil {
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			select {
			case <-ctx.Done():
				_ = b.Unsubscribe(subscriber, query)
			case <-b.stopCh:
				// Bus stopped
			}
		}()
	}

	return sub.ch, nil
}

// Unsubscribe removes a specific subscription.
func (b *Bus) Unsubscribe(subscriber string, query Query) error {
	key := subscriptionKey(subscriber, query)

	b.mu.Lock()
	defer b.mu.Unlock()

	sub, exists := b.subscriptions[key]
	if !exists {
		return ErrSubscriberNotFound
	}

	if !sub.cancelled.Swap(true) {
		close(sub.ch)
	}
	delete(b.subscriptions, key)

	return nil
}

// UnsubscribeAll removes all subscriptions for a subscriber.
func (b *Bus) UnsubscribeAll(subscriber string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	toDelete := make([]string, 0)
	for key, sub := range b.subscriptions {
		if sub.subscriber == subscriber {
			if !sub.cancelled.Swap(true) {
				close(sub.ch)
			}
			toDelete = append(toDelete, key)
		}
	}
	for _, key := range toDelete {
		delete(b.subscriptions, key)
	}

	return nil
}

// Publish sends an event to all matching subscribers.
// Non-blocking: if a subscriber's channel is full, the event is dropped
// for that subscriber.
func (b *Bus) Publish(event Event) error {
	if !b.running.Load() {
		return ErrBusNotRunning
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subscriptions {
		if sub.cancelled.Load() {
			continue
		}
		if sub.query.Matches(event) {
			select {
			case sub.ch <- event:
			default:
				// Channel full, drop event for this subscriber
			}
		}
	}

	return nil
}

// NumSubscribers returns the total number of active subscriptions.
func (b *Bus) NumSubscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscriptions)
}
