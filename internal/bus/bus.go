// Package bus реализует типизированную шину сообщений с синхронной доставкой.
package bus

import (
	"sort"
	"sync"
)

type handler func(Message)

// Bus доставляет сообщения подписчикам синхронно, в порядке публикации и подписки.
type Bus struct {
	mu   sync.RWMutex
	next uint64
	subs map[uint64]handler
}

func New() *Bus {
	return &Bus{subs: make(map[uint64]handler)}
}

// Subscribe подписывает fn на сообщения типа T. Возвращает функцию отписки.
func Subscribe[T Message](b *Bus, fn func(T)) (unsubscribe func()) {
	b.mu.Lock()
	b.next++
	id := b.next
	b.subs[id] = func(m Message) {
		if msg, ok := m.(T); ok {
			fn(msg)
		}
	}
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Publish доставляет сообщение всем подходящим подписчикам до возврата.
func (b *Bus) Publish(msg Message) {
	for _, h := range b.snapshot() {
		h(msg)
	}
}

func (b *Bus) snapshot() []handler {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ids := make([]uint64, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	hs := make([]handler, len(ids))
	for i, id := range ids {
		hs[i] = b.subs[id]
	}

	return hs
}
