package telemetry

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/reconcile"
	"github.com/vango-dev/vtree/pkg/schedule"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// recordingProvider keeps every span started through it.
type recordingProvider struct {
	noop.TracerProvider
	spans []*recordedSpan
}

func (p *recordingProvider) Tracer(string, ...trace.TracerOption) trace.Tracer {
	return &recordingTracer{provider: p}
}

type recordingTracer struct {
	noop.Tracer
	provider *recordingProvider
}

func (t *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	s := &recordedSpan{name: name, attrs: map[attribute.Key]attribute.Value{}}
	for _, kv := range cfg.Attributes() {
		s.attrs[kv.Key] = kv.Value
	}
	t.provider.spans = append(t.provider.spans, s)
	return ctx, s
}

type recordedSpan struct {
	noop.Span
	name   string
	attrs  map[attribute.Key]attribute.Value
	status codes.Code
	errs   []error
	ended  bool
}

func (s *recordedSpan) SetAttributes(kv ...attribute.KeyValue) {
	for _, a := range kv {
		s.attrs[a.Key] = a.Value
	}
}

func (s *recordedSpan) RecordError(err error, _ ...trace.EventOption) { s.errs = append(s.errs, err) }
func (s *recordedSpan) SetStatus(code codes.Code, _ string)           { s.status = code }
func (s *recordedSpan) End(...trace.SpanEndOption)                    { s.ended = true }

func spanNames(spans []*recordedSpan) []string {
	out := make([]string, len(spans))
	for i, s := range spans {
		out[i] = s.name
	}
	return out
}

func TestOpenTelemetryTracesRenderAndFlush(t *testing.T) {
	provider := &recordingProvider{}
	sched := schedule.NewManual()
	rt := reconcile.New(
		reconcile.WithScheduler(sched),
		reconcile.WithTracer(OpenTelemetry(
			WithTracerProvider(provider),
			WithAttributes(attribute.String("app", "test")),
		)),
	)
	body := dom.NewDocument().CreateElement("body")

	var self *reconcile.Instance
	counter := reconcile.NewClass("Counter", func(inst *reconcile.Instance) reconcile.Component {
		self = inst
		inst.InitState(reconcile.State{"n": 0})
		return counterView{}
	})

	if _, err := rt.Render(vdom.C(counter), body, nil); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	self.SetState(reconcile.State{"n": 1})
	sched.Run()

	if diff := cmp.Diff([]string{"vtree.render", "vtree.flush"}, spanNames(provider.spans)); diff != "" {
		t.Fatalf("span names mismatch (-want +got):\n%s", diff)
	}

	render := provider.spans[0]
	if !render.ended || render.status != codes.Ok {
		t.Errorf("render span ended=%v status=%v", render.ended, render.status)
	}
	if got := render.attrs["vtree.op"].AsString(); got != "render" {
		t.Errorf("vtree.op = %q, want render", got)
	}
	if got := render.attrs["app"].AsString(); got != "test" {
		t.Errorf("app = %q, want test", got)
	}
	if got := render.attrs["vtree.nodes_created"].AsInt64(); got != 2 {
		t.Errorf("vtree.nodes_created = %d, want 2", got)
	}
	if got := render.attrs["vtree.renders"].AsInt64(); got != 1 {
		t.Errorf("vtree.renders = %d, want 1", got)
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type counterView struct{}

func (counterView) Render(_ vdom.Props, state reconcile.State, _ reconcile.Context) *vdom.VNode {
	return vdom.Span(state["n"])
}

func TestOpenTelemetryRecordsErrors(t *testing.T) {
	provider := &recordingProvider{}
	rt := reconcile.New(
		reconcile.WithScheduler(schedule.NewManual()),
		reconcile.WithLogger(quietLogger()),
		reconcile.WithTracer(OpenTelemetry(WithTracerProvider(provider))),
	)
	body := dom.NewDocument().CreateElement("body")

	boom := reconcile.NewFunc("Boom", func(vdom.Props, reconcile.Context) *vdom.VNode {
		panic("boom")
	})
	if _, err := rt.Render(vdom.C(boom), body, nil); err == nil {
		t.Fatal("expected Render to fail")
	}

	if len(provider.spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(provider.spans))
	}
	s := provider.spans[0]
	if s.status != codes.Error || len(s.errs) != 1 || !s.ended {
		t.Errorf("status=%v errs=%d ended=%v", s.status, len(s.errs), s.ended)
	}
}

func TestOpenTelemetryFilterSkipsOps(t *testing.T) {
	provider := &recordingProvider{}
	tracer := OpenTelemetry(
		WithTracerProvider(provider),
		WithOpFilter(func(op string) bool { return op != "flush" }),
	)

	span := tracer.Start("flush")
	span.SetInt("vtree.renders", 1)
	span.End(nil)
	if len(provider.spans) != 0 {
		t.Fatalf("filtered op produced %d spans", len(provider.spans))
	}

	tracer.Start("render").End(nil)
	if len(provider.spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(provider.spans))
	}
}
