package emitter

import "errors"

// ErrUnknownEvent is returned by Emit and Listeners when the event name was
// never registered. An event emptied by RemoveAllListeners is still known.
var ErrUnknownEvent = errors.New("emitter: unknown event")

// ErrMaxListeners is returned by On and Once when the event already holds
// the configured maximum number of listeners. The registration is rejected
// and the listener list is left unchanged.
var ErrMaxListeners = errors.New("emitter: max listeners reached")

// ErrNilCallback is returned by On and Once when the callback is nil.
var ErrNilCallback = errors.New("emitter: nil callback")
