package bindings

// Binder collects subscriptions made on behalf of one owning object so they
// can be released together. Binding order determines notification order among
// handlers on the same source.
type Binder struct {
	cancels []func()
}

// NewBinder creates an empty binder.
func NewBinder() *Binder {
	return &Binder{}
}

// BindProperty registers handler to run whenever p changes, tracked by b.
func BindProperty[T comparable](b *Binder, p *Property[T], handler func(T)) {
	b.cancels = append(b.cancels, p.Subscribe(handler))
}

// BindEvent registers handler to run whenever e fires, tracked by b.
func BindEvent[T any](b *Binder, e *Event[T], handler func(T)) {
	b.cancels = append(b.cancels, e.Subscribe(handler))
}

// UnbindAll releases every registration made through this binder. No handler
// bound through the binder survives the call.
func (b *Binder) UnbindAll() {
	for _, cancel := range b.cancels {
		cancel()
	}
	b.cancels = nil
}
