package emitter

import "strconv"

// Callback is the function invoked for every dispatched event. It receives
// the event name and the payload passed to Emit. Payloads are type-erased so
// one registry can carry heterogeneous events; listeners assert the concrete
// type they expect.
type Callback func(event string, payload any)

// Kind is a listener's firing mode.
type Kind uint8

const (
	// Persistent listeners fire on every Emit until removed.
	Persistent Kind = iota
	// OneShot listeners fire on the first Emit only, then are detached.
	OneShot
)

// String returns the registration verb for the kind ("on" or "once").
func (k Kind) String() string {
	if k == OneShot {
		return "once"
	}
	return "on"
}

// MarshalJSON encodes the kind as its registration verb.
func (k Kind) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(k.String())), nil
}

// ListenerInfo is the read-only view of a registered listener returned by
// Listeners and Events. Callbacks are opaque and never exposed.
type ListenerInfo struct {
	// ID is unique within its registry and stable for the listener's lifetime.
	ID uint64 `json:"id"`
	// Kind is the listener's firing mode.
	Kind Kind `json:"kind"`
}

// Event is the read-only view of a registered event entry.
type Event struct {
	Name      string         `json:"name"`
	Listeners []ListenerInfo `json:"listeners"`
}

// record is the registry's internal listener bookkeeping. All fields after
// fn are guarded by the owning Registry's mutex.
type record struct {
	id   uint64
	kind Kind
	fn   Callback

	// removed marks a record detached from the live list: cleared by
	// RemoveAllListeners, or claimed by Emit for a OneShot record just
	// before its single invocation. A dispatch sweep never invokes a
	// removed record.
	removed bool
}

func (r *record) info() ListenerInfo {
	return ListenerInfo{ID: r.id, Kind: r.kind}
}
