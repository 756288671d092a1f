package bus

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

const (
	// DefaultHistorySize is the number of recent events retained for replay
	// to late subscribers such as a freshly connected console.
	DefaultHistorySize = 1000

	// DefaultChannelBuffer is the buffer size for subscriber channels.
	DefaultChannelBuffer = 100
)

// SubscriptionID identifies one subscription for later removal.
type SubscriptionID string

// Subscription binds a handler to an event type. Each subscription gets
// its own buffered channel and delivery goroutine so a slow handler only
// ever delays itself.
type Subscription struct {
	ID        SubscriptionID
	EventType EventType
	Handler   func(Event)
	Channel   chan Event
	done      chan struct{}
}

// Bus fans events out to subscribers. Delivery is best-effort: Publish
// enqueues without blocking and drops events for any subscriber whose
// buffer is full. A bounded history buffer lets new subscribers catch up
// on recent activity.
type Bus struct {
	subscriptions   map[SubscriptionID]*Subscription
	subscriptionsMu sync.RWMutex
	subCounter      uint64

	// Per-type subscriber index for fast publish.
	typedSubs   map[EventType]map[SubscriptionID]*Subscription
	typedSubsMu sync.RWMutex

	// Wildcard subscribers receive every event.
	wildcardSubs   map[SubscriptionID]*Subscription
	wildcardSubsMu sync.RWMutex

	history     []Event
	historyMu   sync.RWMutex
	historySize int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed atomic.Bool
}

// New creates a bus with the default history size.
func New() *Bus {
	return NewWithHistory(DefaultHistorySize)
}

// NewWithHistory creates a bus retaining up to historySize events.
func NewWithHistory(historySize int) *Bus {
	ctx, cancel := context.WithCancel(context.Background())

	return &Bus{
		subscriptions: make(map[SubscriptionID]*Subscription),
		typedSubs:     make(map[EventType]map[SubscriptionID]*Subscription),
		wildcardSubs:  make(map[SubscriptionID]*Subscription),
		history:       make([]Event, 0, historySize),
		historySize:   historySize,
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Subscribe registers a handler for one event type. EventType("") means
// every event. The returned ID feeds Unsubscribe; a closed bus returns
// the empty ID.
func (b *Bus) Subscribe(eventType EventType, handler func(Event)) SubscriptionID {
	if b.closed.Load() {
		return ""
	}

	id := SubscriptionID(fmt.Sprintf("sub_%d", atomic.AddUint64(&b.subCounter, 1)))

	sub := &Subscription{
		ID:        id,
		EventType: eventType,
		Handler:   handler,
		Channel:   make(chan Event, DefaultChannelBuffer),
		done:      make(chan struct{}),
	}

	b.subscriptionsMu.Lock()
	b.subscriptions[id] = sub
	b.subscriptionsMu.Unlock()

	if eventType == "" {
		b.wildcardSubsMu.Lock()
		b.wildcardSubs[id] = sub
		b.wildcardSubsMu.Unlock()
	} else {
		b.typedSubsMu.Lock()
		if b.typedSubs[eventType] == nil {
			b.typedSubs[eventType] = make(map[SubscriptionID]*Subscription)
		}
		b.typedSubs[eventType][id] = sub
		b.typedSubsMu.Unlock()
	}

	b.wg.Add(1)
	go b.deliver(sub)

	return id
}

// deliver pumps one subscription's channel into its handler.
func (b *Bus) deliver(sub *Subscription) {
	defer b.wg.Done()

	for {
		select {
		case event := <-sub.Channel:
			sub.Handler(event)
		case <-sub.done:
			return
		case <-b.ctx.Done():
			return
		}
	}
}

// Unsubscribe removes a subscription and stops its delivery goroutine.
func (b *Bus) Unsubscribe(id SubscriptionID) error {
	if b.closed.Load() {
		return fmt.Errorf("bus is closed")
	}

	b.subscriptionsMu.Lock()
	sub, exists := b.subscriptions[id]
	if !exists {
		b.subscriptionsMu.Unlock()
		return fmt.Errorf("subscription %s not found", id)
	}
	delete(b.subscriptions, id)
	b.subscriptionsMu.Unlock()

	if sub.EventType == "" {
		b.wildcardSubsMu.Lock()
		delete(b.wildcardSubs, id)
		b.wildcardSubsMu.Unlock()
	} else {
		b.typedSubsMu.Lock()
		if subs, ok := b.typedSubs[sub.EventType]; ok {
			delete(subs, id)
			if len(subs) == 0 {
				delete(b.typedSubs, sub.EventType)
			}
		}
		b.typedSubsMu.Unlock()
	}

	close(sub.done)

	return nil
}

// Publish records the event in history and enqueues it to matching
// subscribers without blocking. Subscribers with full buffers miss it.
func (b *Bus) Publish(event Event) error {
	if b.closed.Load() {
		return fmt.Errorf("bus is closed")
	}

	b.addToHistory(event)

	b.wildcardSubsMu.RLock()
	for _, sub := range b.wildcardSubs {
		select {
		case sub.Channel <- event:
		default:
			// Buffer full, this subscriber misses the event.
		}
	}
	b.wildcardSubsMu.RUnlock()

	b.typedSubsMu.RLock()
	if subs, ok := b.typedSubs[event.Type]; ok {
		for _, sub := range subs {
			select {
			case sub.Channel <- event:
			default:
			}
		}
	}
	b.typedSubsMu.RUnlock()

	return nil
}

func (b *Bus) addToHistory(event Event) {
	b.historyMu.Lock()
	defer b.historyMu.Unlock()

	b.history = append(b.history, event)
	if len(b.history) > b.historySize {
		b.history = b.history[len(b.history)-b.historySize:]
	}
}

// History returns a copy of the retained event history, oldest first.
func (b *Bus) History() []Event {
	b.historyMu.RLock()
	defer b.historyMu.RUnlock()

	result := make([]Event, len(b.history))
	copy(result, b.history)
	return result
}

// LastN returns up to the n most recent events, oldest first.
func (b *Bus) LastN(n int) []Event {
	b.historyMu.RLock()
	defer b.historyMu.RUnlock()

	if n > len(b.history) {
		n = len(b.history)
	}

	start := len(b.history) - n
	result := make([]Event, n)
	copy(result, b.history[start:])
	return result
}

// SubscriptionsCount returns the number of active subscriptions.
func (b *Bus) SubscriptionsCount() int {
	b.subscriptionsMu.RLock()
	defer b.subscriptionsMu.RUnlock()
	return len(b.subscriptions)
}

// TypedSubscriptionsCount returns the subscription count for one type.
func (b *Bus) TypedSubscriptionsCount(eventType EventType) int {
	b.typedSubsMu.RLock()
	defer b.typedSubsMu.RUnlock()

	if subs, ok := b.typedSubs[eventType]; ok {
		return len(subs)
	}
	return 0
}

// WildcardSubscriptionsCount returns the number of catch-all subscribers.
func (b *Bus) WildcardSubscriptionsCount() int {
	b.wildcardSubsMu.RLock()
	defer b.wildcardSubsMu.RUnlock()
	return len(b.wildcardSubs)
}

// Close stops delivery and releases every subscription. Events published
// after Close return an error.
func (b *Bus) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return fmt.Errorf("bus already closed")
	}

	b.cancel()
	b.wg.Wait()

	b.subscriptionsMu.Lock()
	for _, sub := range b.subscriptions {
		close(sub.Channel)
	}
	b.subscriptions = make(map[SubscriptionID]*Subscription)
	b.subscriptionsMu.Unlock()

	b.typedSubsMu.Lock()
	b.typedSubs = make(map[EventType]map[SubscriptionID]*Subscription)
	b.typedSubsMu.Unlock()

	b.wildcardSubsMu.Lock()
	b.wildcardSubs = make(map[SubscriptionID]*Subscription)
	b.wildcardSubsMu.Unlock()

	return nil
}
