package otel

import (
	"fmt"
	"maps"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Scope is one span as seen by handlers, services and repositories.
type Scope interface {
	End()
	TraceError(err error)
	TraceIfError(err error)
	AddEvent(name string)
	SetAttribute(key string, value any)
	SetAttributes(attributes map[string]any)
}

type scopeImpl struct {
	span oteltrace.Span
}

func NewScope(span oteltrace.Span) Scope {
	return &scopeImpl{span: span}
}

func (s *scopeImpl) End() {
	s.span.End()
}

func (s *scopeImpl) TraceError(err error) {
	if err == nil {
		return
	}

	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

func (s *scopeImpl) TraceIfError(err error) {
	s.TraceError(err)
}

func (s *scopeImpl) AddEvent(name string) {
	s.span.AddEvent(name)
}

func (s *scopeImpl) SetAttribute(key string, value any) {
	s.span.SetAttributes(toAttribute(key, value))
}

// SetAttributes sets every attribute in one call, in key order.
func (s *scopeImpl) SetAttributes(attributes map[string]any) {
	kvs := make([]attribute.KeyValue, 0, len(attributes))

	for _, key := range slices.Sorted(maps.Keys(attributes)) {
		kvs = append(kvs, toAttribute(key, attributes[key]))
	}

	s.span.SetAttributes(kvs...)
}

func toAttribute(key string, value any) attribute.KeyValue {
	switch val := value.(type) {
	case bool:
		return attribute.Bool(key, val)
	case string:
		return attribute.String(key, val)
	case int:
		return attribute.Int(key, val)
	case int64:
		return attribute.Int64(key, val)
	case float64:
		return attribute.Float64(key, val)
	case []string:
		return attribute.StringSlice(key, val)
	case fmt.Stringer:
		return attribute.String(key, val.String())
	default:
		return attribute.String(key, fmt.Sprintf("%v", val))
	}
}
