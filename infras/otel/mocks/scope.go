package mocks

import "salon/infras/otel"

type scopeImpl struct {
	owner *Otel
}

// AddEvent implements otel.Scope.
func (s *scopeImpl) AddEvent(_ string) {}

// End implements otel.Scope.
func (s *scopeImpl) End() {}

// SetAttribute implements otel.Scope.
func (s *scopeImpl) SetAttribute(_ string, _ any) {}

// SetAttributes implements otel.Scope.
func (s *scopeImpl) SetAttributes(_ map[string]any) {}

// TraceError implements otel.Scope.
func (s *scopeImpl) TraceError(err error) {
	if s.owner != nil && err != nil {
		s.owner.record(err)
	}
}

// TraceIfError implements otel.Scope.
func (s *scopeImpl) TraceIfError(err error) {
	if err != nil {
		s.TraceError(err)
	}
}

func NewScope() otel.Scope {
	return &scopeImpl{}
}
