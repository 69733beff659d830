// Package loader dispatches raw inputs to the first capable Source.
package loader

import (
	"context"
	"errors"
	"sync"

	"github.com/aretw0/cartograph/pkg/domain"
	"github.com/aretw0/cartograph/pkg/ports"
)

// Registry holds sources in registration order.
// Safe for concurrent use.
type Registry[T any] struct {
	mu      sync.RWMutex
	sources []ports.Source[T]
}

// StyleRegistry dispatches style inputs.
type StyleRegistry = Registry[domain.StyleDocument]

// DataRegistry dispatches data inputs.
type DataRegistry = Registry[domain.DatasetDescription]

// NewRegistry creates a registry with the given sources, in order.
func NewRegistry[T any](sources ...ports.Source[T]) *Registry[T] {
	r := &Registry[T]{}
	for _, s := range sources {
		r.Register(s)
	}
	return r
}

// Register appends a source. Earlier sources take precedence.
func (r *Registry[T]) Register(src ports.Source[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources = append(r.sources, src)
}

// Names returns the registered format names in dispatch order.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.sources))
	for i, s := range r.sources {
		names[i] = s.Name()
	}
	return names
}

// Resolve returns the first source whose CanHandle accepts the input.
func (r *Registry[T]) Resolve(in ports.Input) (ports.Source[T], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.sources {
		if s.CanHandle(in) {
			return s, true
		}
	}
	return nil, false
}

// Parse hands the input to the first capable source; no other source is consulted.
// Every failure is reported as a *domain.ParseError.
func (r *Registry[T]) Parse(ctx context.Context, in ports.Input) (T, string, error) {
	var zero T

	src, ok := r.Resolve(in)
	if !ok {
		return zero, "", &domain.ParseError{Format: "unknown", Input: in.Label(), Err: domain.ErrNoCapableSource}
	}

	v, err := src.Parse(ctx, in)
	if err != nil {
		var perr *domain.ParseError
		if errors.As(err, &perr) {
			return zero, src.Name(), err
		}
		return zero, src.Name(), &domain.ParseError{Format: src.Name(), Input: in.Label(), Err: err}
	}
	return v, src.Name(), nil
}
