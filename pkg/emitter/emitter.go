package emitter

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shashiranjanraj/sanket/pkg/logger"
	"github.com/shashiranjanraj/sanket/pkg/metrics"
)

// Reserved event names present in every registry from construction.
// They are placeholders for listener lifecycle notifications: the registry
// never fires them itself, but callers may register and emit on them like
// any other event.
const (
	EventNewListener    = "newListener"
	EventRemoveListener = "removeListener"
)

// DefaultMaxListeners is the per-event listener cap a new Registry starts with.
const DefaultMaxListeners = 10

// entry is one named event and its ordered listener list.
// Entries are created lazily on first registration and never deleted, so an
// event emptied by RemoveAllListeners stays distinguishable from one that
// was never registered.
type entry struct {
	name    string
	records []*record
}

func (e *entry) view() Event {
	infos := make([]ListenerInfo, len(e.records))
	for i, rec := range e.records {
		infos[i] = rec.info()
	}
	return Event{Name: e.name, Listeners: infos}
}

// Registry maps event names to ordered listener lists and dispatches
// payloads to them synchronously. All methods are safe for concurrent use;
// one mutex guards the whole table, and callbacks are always invoked with
// the mutex released so they may re-enter the registry freely.
type Registry struct {
	mu     sync.Mutex
	events map[string]*entry
	order  []string // entry-creation order, reserved names first
	max    int
	nextID uint64

	log        *slog.Logger
	instrument bool
}

// New returns a registry pre-seeded with the reserved EventNewListener and
// EventRemoveListener entries and a cap of DefaultMaxListeners.
func New(opts ...Option) *Registry {
	r := &Registry{
		events:     make(map[string]*entry),
		max:        DefaultMaxListeners,
		instrument: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.L
	}

	r.ensureLocked(EventNewListener)
	r.ensureLocked(EventRemoveListener)
	return r
}

// SetMaxListeners sets the listener cap shared by every event. Zero means
// uncapped; negative values are clamped to zero. The cap applies to
// subsequent registrations only — lowering it never evicts listeners.
func (r *Registry) SetMaxListeners(n int) {
	if n < 0 {
		n = 0
	}
	r.mu.Lock()
	r.max = n
	r.mu.Unlock()
}

// MaxListeners returns the current per-event listener cap.
func (r *Registry) MaxListeners() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.max
}

// On registers a persistent listener for name, creating the event entry if
// absent. It returns ErrMaxListeners when the event is full and
// ErrNilCallback for a nil fn; in both cases the listener list is untouched.
func (r *Registry) On(name string, fn Callback) error {
	return r.register(name, fn, Persistent)
}

// Once registers a listener that fires on the next Emit of name only.
// Cap and nil-callback semantics match On.
func (r *Registry) Once(name string, fn Callback) error {
	return r.register(name, fn, OneShot)
}

func (r *Registry) register(name string, fn Callback, kind Kind) error {
	if fn == nil {
		return ErrNilCallback
	}

	r.mu.Lock()
	e := r.ensureLocked(name)
	if r.max != 0 && len(e.records) >= r.max {
		max := r.max
		r.mu.Unlock()

		if r.instrument {
			metrics.RecordRejection(name, "max_listeners")
		}
		r.log.Warn("emitter: registration rejected",
			"event", name, "kind", kind.String(), "max_listeners", max)
		return fmt.Errorf("%w: event %q already holds %d listeners", ErrMaxListeners, name, max)
	}

	r.nextID++
	rec := &record{id: r.nextID, kind: kind, fn: fn}
	e.records = append(e.records, rec)
	r.mu.Unlock()

	if r.instrument {
		metrics.RecordRegistration(name, kind.String())
	}
	r.log.Debug("emitter: listener registered",
		"event", name, "kind", kind.String(), "id", rec.id)
	return nil
}

// RemoveAllListeners clears the listener list for name and reports whether
// the event was known. The entry itself survives, so a later Emit on the
// same name succeeds as a no-op. Listeners cleared mid-dispatch that have
// not yet run will not run.
func (r *Registry) RemoveAllListeners(name string) bool {
	r.mu.Lock()
	e, ok := r.events[name]
	if !ok {
		r.mu.Unlock()
		return false
	}

	removed := len(e.records)
	for _, rec := range e.records {
		rec.removed = true
	}
	e.records = nil
	r.mu.Unlock()

	if removed > 0 && r.instrument {
		metrics.ListenersRemoved(name, removed)
	}
	r.log.Debug("emitter: listeners removed", "event", name, "count", removed)
	return true
}

// Emit synchronously invokes every listener registered for name, in
// registration order, passing (name, payload). Every listener receives the
// same payload value. It returns ErrUnknownEvent when name was never
// registered; emitting on a known event with no listeners is a no-op.
//
// The sweep covers a snapshot of the listeners present when Emit began:
// listeners added by a callback wait for the next Emit, listeners removed by
// a callback are skipped if they have not yet run, and a once-listener is
// detached before its callback runs so re-entrant Emits cannot fire it again.
func (r *Registry) Emit(name string, payload any) error {
	start := time.Now()

	r.mu.Lock()
	e, ok := r.events[name]
	if !ok {
		r.mu.Unlock()

		if r.instrument {
			metrics.RecordUnknownEvent("emit")
		}
		r.log.Warn("emitter: emit on unknown event", "event", name)
		return fmt.Errorf("%w: %q", ErrUnknownEvent, name)
	}
	snapshot := make([]*record, len(e.records))
	copy(snapshot, e.records)
	r.mu.Unlock()

	for _, rec := range snapshot {
		r.mu.Lock()
		if rec.removed {
			r.mu.Unlock()
			continue
		}
		if rec.kind == OneShot {
			// Claim before invoking: a re-entrant Emit takes a fresh
			// snapshot and must not see this record again.
			rec.removed = true
			r.detachLocked(name, rec)
		}
		fn := rec.fn
		r.mu.Unlock()

		fn(name, payload)

		if r.instrument {
			metrics.RecordDelivery(name, rec.kind.String())
		}
	}

	if r.instrument {
		metrics.RecordEmit(name, start)
	}
	return nil
}

// Events returns a read-only view of every event entry, including emptied
// and reserved ones, in entry-creation order.
func (r *Registry) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Event, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.events[name].view())
	}
	return out
}

// EventNames returns every known event name in entry-creation order,
// starting with the reserved names.
func (r *Registry) EventNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Listeners returns read-only views of the listeners registered for name,
// in registration order. It returns ErrUnknownEvent when name was never
// registered, which keeps "no such event" distinguishable from "known event
// with zero listeners" (empty slice, nil error).
func (r *Registry) Listeners(name string) ([]ListenerInfo, error) {
	r.mu.Lock()
	e, ok := r.events[name]
	if !ok {
		r.mu.Unlock()

		if r.instrument {
			metrics.RecordUnknownEvent("listeners")
		}
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, name)
	}

	infos := make([]ListenerInfo, len(e.records))
	for i, rec := range e.records {
		infos[i] = rec.info()
	}
	r.mu.Unlock()
	return infos, nil
}

// ListenerCount returns the number of listeners registered for name.
// Unknown names count as zero.
func (r *Registry) ListenerCount(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.events[name]; ok {
		return len(e.records)
	}
	return 0
}

// ensureLocked returns the entry for name, creating it when absent.
// Callers must hold r.mu (or own the registry exclusively, as New does).
func (r *Registry) ensureLocked(name string) *entry {
	if e, ok := r.events[name]; ok {
		return e
	}
	e := &entry{name: name}
	r.events[name] = e
	r.order = append(r.order, name)
	return e
}

// detachLocked removes target from name's live list. Callers must hold r.mu.
func (r *Registry) detachLocked(name string, target *record) {
	e := r.events[name]
	for i, rec := range e.records {
		if rec == target {
			e.records = append(e.records[:i], e.records[i+1:]...)
			break
		}
	}
	if r.instrument {
		metrics.ListenersRemoved(name, 1)
	}
}
