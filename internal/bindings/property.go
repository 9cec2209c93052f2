// Package bindings provides observable state cells and the binder that wires
// state changes to handler execution. It is deliberately single-context: cells
// are owned by the interactive loop and notify synchronously on the caller's
// goroutine, so no locking is involved.
package bindings

// Property is a named, typed mutable cell that notifies observers on change.
// Set commits the new value first and then invokes observers in subscription
// order, so no observer ever sees a stale value. Re-entrant sets from within
// an observer are processed as ordinary sequential sets.
type Property[T comparable] struct {
	name      string
	value     T
	observers []subscription[T]
	nextID    int
}

type subscription[T any] struct {
	id int
	fn func(T)
}

// NewProperty creates a property with the given name and initial value.
func NewProperty[T comparable](name string, value T) *Property[T] {
	return &Property[T]{name: name, value: value}
}

// Name returns the property's declared name.
func (p *Property[T]) Name() string {
	return p.name
}

// Get returns the current value.
func (p *Property[T]) Get() T {
	return p.value
}

// Set updates the cell and notifies observers iff the value changed.
func (p *Property[T]) Set(value T) {
	if p.value == value {
		return
	}
	p.value = value
	// Snapshot so unsubscription during notification cannot skip observers.
	observers := make([]subscription[T], len(p.observers))
	copy(observers, p.observers)
	for _, obs := range observers {
		obs.fn(value)
	}
}

// Subscribe registers an observer for future changes. The current value is
// not delivered retroactively. The returned function cancels the subscription.
func (p *Property[T]) Subscribe(fn func(T)) func() {
	p.nextID++
	id := p.nextID
	p.observers = append(p.observers, subscription[T]{id: id, fn: fn})
	return func() {
		for i, obs := range p.observers {
			if obs.id == id {
				p.observers = append(p.observers[:i], p.observers[i+1:]...)
				return
			}
		}
	}
}

// Event is a repeatable signal carrying a payload. Unlike Property it has no
// stored value and fires on every Emit regardless of payload equality.
type Event[T any] struct {
	observers []subscription[T]
	nextID    int
}

// NewEvent creates an event with no subscribers.
func NewEvent[T any]() *Event[T] {
	return &Event[T]{}
}

// Emit invokes all subscribers with the payload, in subscription order.
func (e *Event[T]) Emit(value T) {
	observers := make([]subscription[T], len(e.observers))
	copy(observers, e.observers)
	for _, obs := range observers {
		obs.fn(value)
	}
}

// Subscribe registers a handler for future emissions. The returned function
// cancels the subscription.
func (e *Event[T]) Subscribe(fn func(T)) func() {
	e.nextID++
	id := e.nextID
	e.observers = append(e.observers, subscription[T]{id: id, fn: fn})
	return func() {
		for i, obs := range e.observers {
			if obs.id == id {
				e.observers = append(e.observers[:i], e.observers[i+1:]...)
				return
			}
		}
	}
}
