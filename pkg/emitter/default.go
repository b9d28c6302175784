package emitter

import "sync"

// The package-level default registry, for apps that want one process-wide
// event hub without threading a *Registry through every package.

var (
	stdMu sync.RWMutex
	std   = New()
)

func defaultRegistry() *Registry {
	stdMu.RLock()
	defer stdMu.RUnlock()
	return std
}

// Default returns the package-level registry.
func Default() *Registry { return defaultRegistry() }

// Reset replaces the default registry with a fresh one (useful in tests).
func Reset(opts ...Option) {
	stdMu.Lock()
	std = New(opts...)
	stdMu.Unlock()
}

// On registers a persistent listener on the default registry.
func On(name string, fn Callback) error { return defaultRegistry().On(name, fn) }

// Once registers a one-shot listener on the default registry.
func Once(name string, fn Callback) error { return defaultRegistry().Once(name, fn) }

// Emit dispatches an event on the default registry.
func Emit(name string, payload any) error { return defaultRegistry().Emit(name, payload) }

// RemoveAllListeners clears an event's listeners on the default registry.
func RemoveAllListeners(name string) bool { return defaultRegistry().RemoveAllListeners(name) }

// Events returns the default registry's event entries.
func Events() []Event { return defaultRegistry().Events() }

// EventNames returns the default registry's event names.
func EventNames() []string { return defaultRegistry().EventNames() }

// Listeners returns listener views for an event on the default registry.
func Listeners(name string) ([]ListenerInfo, error) { return defaultRegistry().Listeners(name) }

// ListenerCount returns an event's listener count on the default registry.
func ListenerCount(name string) int { return defaultRegistry().ListenerCount(name) }

// SetMaxListeners sets the default registry's listener cap.
func SetMaxListeners(n int) { defaultRegistry().SetMaxListeners(n) }

// MaxListeners returns the default registry's listener cap.
func MaxListeners() int { return defaultRegistry().MaxListeners() }
