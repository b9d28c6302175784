// Package emitter provides a Node-style, in-process event registry:
// named events, listeners registered with On or Once, and a synchronous
// Emit that invokes every listener in registration order.
//
// Usage:
//
//	reg := emitter.New()
//
//	_ = reg.On("order.shipped", func(event string, payload any) {
//	    order := payload.(Order)
//	    fmt.Println("shipped:", order.ID)
//	})
//	_ = reg.Once("order.shipped", auditFirstShipment)
//
//	if err := reg.Emit("order.shipped", order); err != nil {
//	    // emitter.ErrUnknownEvent — the name was never registered
//	}
//
// A package-level default registry mirrors the Registry API for apps that
// want a process-wide hub:
//
//	emitter.On("user.created", sendWelcomeMail)
//	emitter.Emit("user.created", user)
//
// Dispatch is synchronous and runs on the caller's goroutine. Emit iterates
// over a snapshot of the listeners present when it began, so a listener that
// registers or removes listeners from inside its own callback never changes
// the current sweep: additions wait for the next Emit, removals take effect
// immediately for listeners that have not yet run. Once-listeners are
// detached before their callback runs and can never fire twice, even when a
// callback re-enters Emit for the same event.
//
// Every event shares one configurable listener cap (default 10, zero means
// uncapped). A registration against a full event is rejected with
// ErrMaxListeners and leaves the list untouched — the registry never
// terminates its host.
package emitter
