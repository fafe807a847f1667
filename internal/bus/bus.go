// Package bus carries named notifications between the widget's windows.
package bus

import "sync"

// Topics pushed from the settings surface to the main surface.
const (
	TopicOpacityUpdated = "opacity-updated"
	TopicThemeUpdated   = "theme-updated"
)

// Handler receives a published payload.
type Handler func(payload any)

// Bus delivers each Publish synchronously to the topic's subscribers in
// subscription order.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[string][]subscription
}

type subscription struct {
	id int
	fn Handler
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: map[string][]subscription{}}
}

// Subscribe registers fn for topic and returns a function that removes it.
func (b *Bus) Subscribe(topic string, fn Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscription{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.subs[topic]
		for i, s := range list {
			if s.id == id {
				b.subs[topic] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers payload to every subscriber of topic.
func (b *Bus) Publish(topic string, payload any) {
	b.mu.Lock()
	list := append([]subscription(nil), b.subs[topic]...)
	b.mu.Unlock()

	for _, s := range list {
		s.fn(payload)
	}
}

// RemoveAll drops every subscriber of topic.
func (b *Bus) RemoveAll(topic string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, topic)
}
