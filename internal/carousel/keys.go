package carousel

import "sync"

// KeyHandler consumes keyboard input. HandleKey reports whether the key
// was used.
type KeyHandler interface {
	HandleKey(key string) bool
}

// KeyRouter fans page-level key presses out to mounted widgets. The most
// recently mounted handler sees each key first; earlier handlers only get
// keys it declines.
type KeyRouter struct {
	mu       sync.Mutex
	seq      int
	handlers []mounted
}

type mounted struct {
	id int
	h  KeyHandler
}

// Mount registers h and returns a function that unmounts it.
func (r *KeyRouter) Mount(h KeyHandler) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	id := r.seq
	r.handlers = append(r.handlers, mounted{id: id, h: h})
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for i, m := range r.handlers {
			if m.id == id {
				r.handlers = append(r.handlers[:i:i], r.handlers[i+1:]...)
				return
			}
		}
	}
}

// Dispatch delivers key and reports whether any handler consumed it.
func (r *KeyRouter) Dispatch(key string) bool {
	r.mu.Lock()
	handlers := append([]mounted(nil), r.handlers...)
	r.mu.Unlock()

	for i := len(handlers) - 1; i >= 0; i-- {
		if handlers[i].h.HandleKey(key) {
			return true
		}
	}
	return false
}
