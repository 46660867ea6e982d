package boundary

import (
	"sync"

	"github.com/wippyai/bstr"
)

// Handle identifies a buffer or string owned by a Surface.
// Handle 0 is never valid.
type Handle uint32

// NPOS32 is the boundary-width "no position" sentinel: "through the end" as
// a slice bound, "scan for a zero terminator" as an input length.
const NPOS32 = ^uint32(0)

// ContainerKind distinguishes the two container types a handle can refer to.
type ContainerKind uint8

const (
	ContainerBytes ContainerKind = iota
	ContainerString
)

func (k ContainerKind) String() string {
	if k == ContainerString {
		return "string"
	}
	return "bytes"
}

// EventType identifies a handle lifecycle event.
type EventType uint8

const (
	EventCreated EventType = iota
	EventReleased
)

// Event describes a handle lifecycle transition.
type Event struct {
	Type   EventType
	Handle Handle
	Kind   ContainerKind
	Size   int
}

// Observer receives handle lifecycle events.
type Observer interface {
	OnHandleEvent(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

func (f ObserverFunc) OnHandleEvent(e Event) { f(e) }

type entry struct {
	bytes bstr.Bytes
	str   bstr.String
	kind  ContainerKind
	valid bool
}

func (e *entry) size() int {
	if e.kind == ContainerString {
		return e.str.Len()
	}
	return e.bytes.Len()
}

// table maps handles to entries with free-list reuse. All access goes
// through the mutex; the refcounts inside the stored values provide no
// protection for the table structure itself.
type table struct {
	entries  []entry
	freeList []Handle
	mu       sync.RWMutex
	closed   bool
}

// insert stores e and returns its handle, or 0 when the table is closed.
func (t *table) insert(e entry) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return 0
	}

	e.valid = true
	if len(t.freeList) > 0 {
		h := t.freeList[len(t.freeList)-1]
		t.freeList = t.freeList[:len(t.freeList)-1]
		t.entries[h-1] = e
		return h
	}

	t.entries = append(t.entries, e)
	return Handle(len(t.entries))
}

// getBytes returns a counted share of the stored buffer for h. The clone is
// taken while the read lock is held, so a concurrent remove or drain can
// never drop the cell's last reference while the caller holds one. Callers
// release the share when done with it.
func (t *table) getBytes(h Handle) (bstr.Bytes, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.live(h, ContainerBytes)
	if !ok {
		return bstr.Bytes{}, false
	}
	return e.bytes.Clone(), true
}

// getString is the string-typed counterpart of getBytes.
func (t *table) getString(h Handle) (bstr.String, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.live(h, ContainerString)
	if !ok {
		return bstr.String{}, false
	}
	return e.str.Clone(), true
}

// remove invalidates h and returns the stored entry for the caller to
// release outside the lock.
func (t *table) remove(h Handle, kind ContainerKind) (entry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.live(h, kind)
	if !ok {
		return entry{}, false
	}

	out := *e
	*e = entry{}
	t.freeList = append(t.freeList, h)
	return out, true
}

// swap exchanges the contents of two live entries of the same kind.
func (t *table) swap(a, b Handle, kind ContainerKind) bool {
	if a == b {
		_, ok := t.getEither(a, kind)
		return ok
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	ea, okA := t.live(a, kind)
	eb, okB := t.live(b, kind)
	if !okA || !okB {
		return false
	}
	*ea, *eb = *eb, *ea
	return true
}

func (t *table) getEither(h Handle, kind ContainerKind) (entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.live(h, kind)
	if !ok {
		return entry{}, false
	}
	return *e, true
}

// live resolves h to a valid entry of the given kind. Callers must hold the
// mutex; the returned pointer is invalidated when it is released.
func (t *table) live(h Handle, kind ContainerKind) (*entry, bool) {
	if h == 0 || int(h) > len(t.entries) {
		return nil, false
	}
	e := &t.entries[h-1]
	if !e.valid || e.kind != kind {
		return nil, false
	}
	return e, true
}

// drain marks the table closed and returns every live entry for release.
func (t *table) drain() []entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closed = true
	var out []entry
	for i := range t.entries {
		if t.entries[i].valid {
			out = append(out, t.entries[i])
			t.entries[i] = entry{}
		}
	}
	t.entries = nil
	t.freeList = nil
	return out
}

// count returns the number of live entries.
func (t *table) count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := 0
	for i := range t.entries {
		if t.entries[i].valid {
			n++
		}
	}
	return n
}
