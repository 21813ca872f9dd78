package store

import (
	"sort"
	"sync"
)

// hook is a set of listeners of one event.
type hook[T any] struct {
	mu        sync.Mutex
	next      int
	listeners map[int]func(T)
}

// on registers fn and returns a func that removes it.
func (h *hook[T]) on(fn func(T)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.listeners == nil {
		h.listeners = make(map[int]func(T))
	}
	id := h.next
	h.next++
	h.listeners[id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.listeners, id)
	}
}

// emit calls every listener in registration order. Listeners run without
// the hook's lock held, so they may register or remove listeners.
func (h *hook[T]) emit(v T) {
	h.mu.Lock()
	ids := make([]int, 0, len(h.listeners))
	for id := range h.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(T), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, h.listeners[id])
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

func (h *hook[T]) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners)
}
