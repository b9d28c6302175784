package emitter

import "log/slog"

// Option configures a Registry at construction.
type Option func(*Registry)

// WithMaxListeners sets the initial per-event listener cap.
// Zero means uncapped; negative values are clamped to zero.
func WithMaxListeners(n int) Option {
	return func(r *Registry) {
		if n < 0 {
			n = 0
		}
		r.max = n
	}
}

// WithLogger sets the logger used for registry lifecycle logs.
// Passing nil restores the package logger.
func WithLogger(log *slog.Logger) Option {
	return func(r *Registry) {
		r.log = log
	}
}

// WithMetrics enables or disables Prometheus instrumentation for this
// registry. Enabled by default; disable it for throwaway registries or when
// event names are unbounded caller input (they become label values).
func WithMetrics(enabled bool) Option {
	return func(r *Registry) {
		r.instrument = enabled
	}
}
