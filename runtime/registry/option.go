package registry

import (
	"log/slog"

	"github.com/viant/nbcell/model/cellid"
)

// Option customises a Registry.
type Option func(r *Registry)

// WithGeneratorOptions sets the options of the registry's generator. A
// snapshot must be converted with the same options for ids to agree.
func WithGeneratorOptions(options ...cellid.Option) Option {
	return func(r *Registry) {
		r.generatorOptions = append(r.generatorOptions, options...)
	}
}

// WithLogger sets the registry logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithID sets the session id.
func WithID(id string) Option {
	return func(r *Registry) {
		r.id = id
	}
}

// WithListeners registers listeners at construction time.
func WithListeners(listeners ...Listener) Option {
	return func(r *Registry) {
		r.listeners = append(r.listeners, listeners...)
	}
}
