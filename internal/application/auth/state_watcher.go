package auth

import (
	"sync"

	domain "github.com/mohammadpnp/account-import/internal/domain/account"
)

type StateListener func(user *domain.SignedInUser)

// StateWatcher tracks the currently signed-in user and notifies subscribers
// when it changes. Subscribers are called with the current value on subscribe.
type StateWatcher struct {
	mu        sync.Mutex
	current   *domain.SignedInUser
	listeners map[int]StateListener
	nextID    int
}

func NewStateWatcher() *StateWatcher {
	return &StateWatcher{listeners: make(map[int]StateListener)}
}

// Subscribe registers fn and returns the function that removes it. Calling the
// returned function more than once is a no-op.
func (w *StateWatcher) Subscribe(fn StateListener) func() {
	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.listeners[id] = fn
	current := w.current
	w.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			w.mu.Lock()
			delete(w.listeners, id)
			w.mu.Unlock()
		})
	}
}

func (w *StateWatcher) Current() *domain.SignedInUser {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

func (w *StateWatcher) Publish(user domain.SignedInUser) {
	w.set(&user)
}

func (w *StateWatcher) SignOut() {
	w.set(nil)
}

func (w *StateWatcher) set(user *domain.SignedInUser) {
	w.mu.Lock()
	w.current = user
	listeners := make([]StateListener, 0, len(w.listeners))
	for _, fn := range w.listeners {
		listeners = append(listeners, fn)
	}
	w.mu.Unlock()

	for _, fn := range listeners {
		fn(user)
	}
}
