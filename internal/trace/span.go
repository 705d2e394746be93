package trace

import (
	"context"
	"sync/atomic"
	"time"
)

var (
	seq    atomic.Uint64
	spanID atomic.Uint64
)

func nextSeq() uint64 { return seq.Add(1) }

// Span is an operation in flight. A span the level filters out is inert;
// all its methods are safe to call.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	file    string
	started time.Time
	extra   map[string]string
}

// Start opens a span under the one carried by ctx and returns a context
// carrying the new span. A filtered span leaves ctx as it was, so nested
// events attach to the nearest recorded ancestor.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	t := FromContext(ctx)
	if !t.Level().Accepts(KindSpanBegin, scope) {
		return ctx, &Span{}
	}
	cur := CurrentSpan(ctx)
	s := &Span{
		tracer:  t,
		id:      spanID.Add(1),
		parent:  cur.SpanID,
		scope:   scope,
		name:    name,
		file:    cur.File,
		started: time.Now(),
	}
	s.emit(KindSpanBegin, s.started, "")
	return WithSpanContext(ctx, SpanContext{SpanID: s.id, File: s.file}), s
}

// Set attaches key=value to the end event.
func (s *Span) Set(key, value string) *Span {
	if s == nil || s.tracer == nil {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string)
	}
	s.extra[key] = value
	return s
}

// End closes the span and returns how long it was open; 0 for an inert span.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil {
		return 0
	}
	now := time.Now()
	s.emit(KindSpanEnd, now, detail)
	return now.Sub(s.started)
}

// ID is 0 for an inert span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

func (s *Span) emit(kind Kind, at time.Time, detail string) {
	ev := &Event{
		Time:     at,
		Seq:      nextSeq(),
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		File:     s.file,
		Name:     s.name,
		Detail:   detail,
	}
	if kind == KindSpanEnd {
		ev.Extra = s.extra
	}
	s.tracer.Emit(ev)
}

// Note records an instant event under the span of ctx.
func Note(ctx context.Context, scope Scope, name, detail string) {
	point(ctx, KindPoint, scope, name, detail)
}

// Fail records a failure under the span of ctx. Failures are kept at
// every level but off and make a ring tracer dump its buffer on Close.
func Fail(ctx context.Context, scope Scope, name, detail string) {
	point(ctx, KindFailure, scope, name, detail)
}

func point(ctx context.Context, kind Kind, scope Scope, name, detail string) {
	t := FromContext(ctx)
	if !t.Level().Accepts(kind, scope) {
		return
	}
	sc := CurrentSpan(ctx)
	t.Emit(&Event{
		Time:     time.Now(),
		Seq:      nextSeq(),
		Kind:     kind,
		Scope:    scope,
		ParentID: sc.SpanID,
		File:     sc.File,
		Name:     name,
		Detail:   detail,
	})
}
