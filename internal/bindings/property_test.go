package bindings

import "testing"

func TestPropertySetNotifiesOnChange(t *testing.T) {
	p := NewProperty("path", "")

	var got []string
	p.Subscribe(func(v string) { got = append(got, v) })

	p.Set("a")
	p.Set("b")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("observed %v, want [a b]", got)
	}
}

func TestPropertySetSkipsEqualValue(t *testing.T) {
	p := NewProperty("ready", false)

	calls := 0
	p.Subscribe(func(bool) { calls++ })

	p.Set(false)
	if calls != 0 {
		t.Errorf("observer ran %d times for an unchanged value", calls)
	}
	p.Set(true)
	p.Set(true)
	if calls != 1 {
		t.Errorf("observer ran %d times, want 1", calls)
	}
}

func TestPropertyObserversSeeCommittedValue(t *testing.T) {
	p := NewProperty("n", 0)

	p.Subscribe(func(v int) {
		if p.Get() != v {
			t.Errorf("observer saw stale value: Get()=%d, notified=%d", p.Get(), v)
		}
	})

	p.Set(7)
}

func TestPropertyNotificationOrder(t *testing.T) {
	p := NewProperty("n", 0)

	var order []int
	p.Subscribe(func(int) { order = append(order, 1) })
	p.Subscribe(func(int) { order = append(order, 2) })
	p.Subscribe(func(int) { order = append(order, 3) })

	p.Set(1)
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("notification order %v, want [1 2 3]", order)
	}
}

func TestPropertyReentrantSet(t *testing.T) {
	file := NewProperty("file", "")
	folder := NewProperty("folder", "")

	// Mirrors the path-propagation wiring: the first observer of file sets
	// folder, whose own observers run before file's remaining observers.
	var folderSeenByLater string
	file.Subscribe(func(string) { folder.Set("parent") })
	file.Subscribe(func(string) { folderSeenByLater = folder.Get() })

	file.Set("parent/child.csv")
	if folderSeenByLater != "parent" {
		t.Errorf("later observer saw folder %q, want settled value", folderSeenByLater)
	}
}

func TestPropertyUnsubscribe(t *testing.T) {
	p := NewProperty("n", 0)

	calls := 0
	cancel := p.Subscribe(func(int) { calls++ })
	p.Set(1)
	cancel()
	p.Set(2)

	if calls != 1 {
		t.Errorf("observer ran %d times after cancel, want 1", calls)
	}
}

func TestEventEmitsEveryTime(t *testing.T) {
	e := NewEvent[bool]()

	var got []bool
	e.Subscribe(func(v bool) { got = append(got, v) })

	e.Emit(true)
	e.Emit(true)
	if len(got) != 2 {
		t.Errorf("event fired %d times, want 2", len(got))
	}
}

func TestBinderUnbindAll(t *testing.T) {
	p := NewProperty("n", 0)
	e := NewEvent[string]()
	b := NewBinder()

	calls := 0
	BindProperty(b, p, func(int) { calls++ })
	BindEvent(b, e, func(string) { calls++ })

	p.Set(1)
	e.Emit("x")
	if calls != 2 {
		t.Fatalf("handlers ran %d times before unbind, want 2", calls)
	}

	b.UnbindAll()
	p.Set(2)
	e.Emit("y")
	if calls != 2 {
		t.Errorf("handlers ran after UnbindAll")
	}
}
