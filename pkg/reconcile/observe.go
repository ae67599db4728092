package reconcile

import "time"

// RenderMode selects how setComponentProps and renderComponent proceed.
type RenderMode uint8

const (
	NoRender RenderMode = iota
	SyncRender
	ForceRender
	AsyncRender
)

// String returns the string representation of the RenderMode.
func (m RenderMode) String() string {
	switch m {
	case NoRender:
		return "none"
	case SyncRender:
		return "sync"
	case ForceRender:
		return "force"
	case AsyncRender:
		return "async"
	default:
		return "unknown"
	}
}

// Metrics receives counters from the runtime. pkg/telemetry provides a
// Prometheus implementation.
type Metrics interface {
	NodeCreated(tag string, recycled bool)
	ComponentCreated(name string, recycled bool)
	ComponentRendered(name string, mode RenderMode)
	ComponentUnmounted(name string)
	Flushed(batch int, elapsed time.Duration)
	Failed(op string)
}

// Tracer opens a span around each Render and Flush. pkg/telemetry
// provides an OpenTelemetry implementation.
type Tracer interface {
	Start(op string) Span
}

// Span is an open trace span.
type Span interface {
	SetInt(key string, value int)
	End(err error)
}

type noopMetrics struct{}

func (noopMetrics) NodeCreated(string, bool)             {}
func (noopMetrics) ComponentCreated(string, bool)        {}
func (noopMetrics) ComponentRendered(string, RenderMode) {}
func (noopMetrics) ComponentUnmounted(string)            {}
func (noopMetrics) Flushed(int, time.Duration)           {}
func (noopMetrics) Failed(string)                        {}

type noopTracer struct{}

func (noopTracer) Start(string) Span { return noopSpan{} }

type noopSpan struct{}

func (noopSpan) SetInt(string, int) {}
func (noopSpan) End(error)          {}

// Stats is a snapshot of runtime counters.
type Stats struct {
	NodesCreated       int
	NodesRecycled      int
	ComponentsCreated  int
	ComponentsRecycled int
	Renders            int
	Flushes            int
	PooledNodes        int
	PooledComponents   int
	Pending            int
}
