package mocks

import (
	"context"
	"salon/infras/otel"
	"sync"
)

// Otel is an in-memory tracer that records span names and traced errors.
type Otel struct {
	mu     sync.Mutex
	spans  []string
	errors []error
}

// NewScope implements otel.Otel.
func (o *Otel) NewScope(ctx context.Context, _, spanName string) (context.Context, otel.Scope) {
	o.mu.Lock()
	o.spans = append(o.spans, spanName)
	o.mu.Unlock()

	return ctx, &scopeImpl{owner: o}
}

// Shutdown implements otel.Otel.
func (o *Otel) Shutdown(_ context.Context) error {
	return nil
}

// Spans returns the names of every span opened so far.
func (o *Otel) Spans() []string {
	o.mu.Lock()
	defer o.mu.Unlock()

	return append([]string(nil), o.spans...)
}

// Errors returns every error recorded on a span.
func (o *Otel) Errors() []error {
	o.mu.Lock()
	defer o.mu.Unlock()

	return append([]error(nil), o.errors...)
}

func (o *Otel) record(err error) {
	o.mu.Lock()
	o.errors = append(o.errors, err)
	o.mu.Unlock()
}

func NewOtel() *Otel {
	return &Otel{}
}
