package telemetry

import (
	"context"

	"github.com/vango-dev/vtree/pkg/reconcile"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for vtree runtimes.
const defaultTracerName = "vtree"

// OTelConfig configures the OpenTelemetry tracer.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "vtree").
	TracerName string

	// Provider supplies the tracer. Default: the global provider.
	Provider trace.TracerProvider

	// Context is the parent of every span, typically carrying the trace
	// of the request that drives the runtime. Default: context.Background().
	Context context.Context

	// Filter determines which operations to trace.
	// Return true to trace the operation, false to skip.
	// If nil, all operations are traced.
	Filter func(op string) bool

	// Attributes are added to every span.
	Attributes []attribute.KeyValue
}

// OTelOption configures the OpenTelemetry tracer.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the provider the tracer is resolved from.
func WithTracerProvider(provider trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.Provider = provider
	}
}

// WithParentContext sets the context spans are started from.
func WithParentContext(ctx context.Context) OTelOption {
	return func(c *OTelConfig) {
		c.Context = ctx
	}
}

// WithOpFilter sets a filter function for operations.
func WithOpFilter(filter func(op string) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributes adds attributes to every span.
func WithAttributes(attrs ...attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.Attributes = append(c.Attributes, attrs...)
	}
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName: defaultTracerName,
		Context:    context.Background(),
	}
}

// Tracer is a reconcile.Tracer backed by OpenTelemetry.
type Tracer struct {
	config OTelConfig
	tracer trace.Tracer
}

var _ reconcile.Tracer = (*Tracer)(nil)

// OpenTelemetry returns a tracer for reconcile.WithTracer. The runtime
// opens a span named "vtree.<op>" around each Render and Flush and records
// the nodes created and components rendered as span attributes.
//
// The tracer uses the global OpenTelemetry tracer provider unless
// WithTracerProvider is given. Configure it in main() before building the
// runtime:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
//
//	rt := reconcile.New(reconcile.WithTracer(telemetry.OpenTelemetry()))
func OpenTelemetry(opts ...OTelOption) *Tracer {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}

	var tracer trace.Tracer
	if config.Provider != nil {
		tracer = config.Provider.Tracer(config.TracerName)
	} else {
		tracer = otel.Tracer(config.TracerName)
	}
	return &Tracer{config: config, tracer: tracer}
}

// Start implements reconcile.Tracer.
func (t *Tracer) Start(op string) reconcile.Span {
	if t.config.Filter != nil && !t.config.Filter(op) {
		return skipped{}
	}

	attrs := append([]attribute.KeyValue{
		attribute.String("vtree.op", op),
	}, t.config.Attributes...)

	_, span := t.tracer.Start(
		t.config.Context,
		"vtree."+op,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	return &otelSpan{span: span}
}

type otelSpan struct {
	span trace.Span
}

func (s *otelSpan) SetInt(key string, value int) {
	s.span.SetAttributes(attribute.Int(key, value))
}

func (s *otelSpan) End(err error) {
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	} else {
		s.span.SetStatus(codes.Ok, "")
	}
	s.span.End()
}

type skipped struct{}

func (skipped) SetInt(string, int) {}
func (skipped) End(error)          {}
