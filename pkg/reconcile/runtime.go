package reconcile

import (
	stderrors "errors"
	"log/slog"
	"sync"
	"time"

	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/schedule"
	"github.com/vango-dev/vtree/pkg/vdom"
)

const (
	defaultMaxDepth  = 256
	defaultPoolLimit = 64
)

// Scheduler defers the flush of queued renders.
type Scheduler interface {
	Schedule(fn func())
}

// Drainer is implemented by schedulers whose tasks the runtime runs itself
// when its outermost call returns.
type Drainer interface {
	Drain()
}

// Runtime owns the render queue, the recycling pools and the diff state.
type Runtime struct {
	hooks     Hooks
	scheduler Scheduler
	logger    *slog.Logger
	metrics   Metrics
	tracer    Tracer

	syncComponentUpdates bool
	maxDepth             int

	doc   *dom.Document
	pools *pools
	proxy *eventProxy

	pending []*Instance
	mounts  []*Instance
	seen    map[*vdom.VNode]struct{}

	diffLevel  int
	svgMode    bool
	entryDepth int

	stats Stats
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithScheduler sets the scheduler used to flush queued renders. The
// default is a schedule.Microtasks drained when the outermost runtime call
// returns, so a render queued outside any call waits for the next one.
func WithScheduler(s Scheduler) Option {
	return func(r *Runtime) {
		r.scheduler = s
	}
}

// WithHooks installs runtime-wide hooks.
func WithHooks(h Hooks) Option {
	return func(r *Runtime) {
		r.hooks = h
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(r *Runtime) {
		r.metrics = m
	}
}

// WithTracer sets the tracer for Render and Flush spans.
func WithTracer(t Tracer) Option {
	return func(r *Runtime) {
		r.tracer = t
	}
}

// WithSyncComponentUpdates controls whether prop changes from a parent
// render a mounted child immediately (the default) or queue it.
func WithSyncComponentUpdates(sync bool) Option {
	return func(r *Runtime) {
		r.syncComponentUpdates = sync
	}
}

// WithMaxExpansionDepth bounds stateless expansion and component chains.
func WithMaxExpansionDepth(n int) Option {
	return func(r *Runtime) {
		r.maxDepth = n
	}
}

// WithPoolLimit bounds each recycling pool bucket. Zero disables
// recycling.
func WithPoolLimit(n int) Option {
	return func(r *Runtime) {
		r.pools.limit = n
	}
}

// WithDocument sets the document used when a render has neither a parent
// nor a merge target.
func WithDocument(doc *dom.Document) Option {
	return func(r *Runtime) {
		r.doc = doc
	}
}

// New creates a runtime.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		scheduler:            schedule.NewMicrotasks(),
		logger:               slog.Default(),
		metrics:              noopMetrics{},
		tracer:               noopTracer{},
		syncComponentUpdates: true,
		maxDepth:             defaultMaxDepth,
		pools:                newPools(defaultPoolLimit),
	}
	r.proxy = &eventProxy{r: r}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("component", "reconcile")
	return r
}

var (
	defaultOnce    sync.Once
	defaultRuntime *Runtime
)

// Default returns the process-wide runtime used by the package-level
// Render.
func Default() *Runtime {
	defaultOnce.Do(func() {
		defaultRuntime = New()
	})
	return defaultRuntime
}

// Render renders desc with the default runtime.
func Render(desc *vdom.VNode, parent, merge *dom.Node) (*dom.Node, error) {
	return Default().Render(desc, parent, merge)
}

// Render reconciles merge against desc and returns the resulting root. With
// a nil merge a new tree is built. The root is appended to parent when it
// is not already a child of it. Mounted instances get ComponentDidMount
// before Render returns.
func (r *Runtime) Render(desc *vdom.VNode, parent, merge *dom.Node) (*dom.Node, error) {
	if parent != nil && parent.IsText() {
		return nil, errors.New("E006").WithDetail("parent is a text node")
	}
	var root *dom.Node
	err := r.run("render", true, func() {
		root = r.diff(merge, desc, Context{}, false, parent, false)
	})
	return root, err
}

// Flush renders every queued instance now, including instances queued by
// the flush itself.
func (r *Runtime) Flush() error {
	var errs []error
	for len(r.pending) > 0 {
		errs = append(errs, r.flushBatch())
	}
	return stderrors.Join(errs...)
}

// Batch runs fn as one runtime call: renders it queues are flushed once,
// when it returns.
func (r *Runtime) Batch(fn func()) error {
	return r.run("batch", false, fn)
}

// Pending returns the number of queued instances.
func (r *Runtime) Pending() int {
	return len(r.pending)
}

// Stats returns a snapshot of runtime counters.
func (r *Runtime) Stats() Stats {
	s := r.stats
	s.PooledNodes, s.PooledComponents = r.pools.sizes()
	s.Pending = len(r.pending)
	return s
}

type entryState struct {
	diffLevel int
	svgMode   bool
	mounts    int
}

// run executes fn as a runtime entry point. Panics are converted to errors
// and the diff state is restored to what it was on entry. When the
// outermost entry returns, a draining scheduler is drained.
func (r *Runtime) run(op string, traced bool, fn func()) (err error) {
	var span Span = noopSpan{}
	if traced {
		span = r.tracer.Start(op)
	}
	saved := entryState{diffLevel: r.diffLevel, svgMode: r.svgMode, mounts: len(r.mounts)}
	before := r.stats
	r.entryDepth++

	defer func() {
		if rec := recover(); rec != nil {
			r.diffLevel = saved.diffLevel
			r.svgMode = saved.svgMode
			if len(r.mounts) > saved.mounts {
				r.mounts = r.mounts[:saved.mounts]
			}
			err = r.recovered(rec)
			r.metrics.Failed(op)
		}
		r.entryDepth--
		span.SetInt("vtree.nodes_created", r.stats.NodesCreated-before.NodesCreated)
		span.SetInt("vtree.renders", r.stats.Renders-before.Renders)
		span.End(err)
		if r.entryDepth == 0 {
			r.seen = nil
			if d, ok := r.scheduler.(Drainer); ok {
				d.Drain()
			}
		}
	}()

	fn()
	return nil
}

// flushBatch renders the instances queued so far as one batch.
func (r *Runtime) flushBatch() error {
	var errs []error
	var batch int
	start := time.Now()
	err := r.run("flush", true, func() {
		list := r.pending
		r.pending = nil
		batch = len(list)
		for len(list) > 0 {
			inst := list[len(list)-1]
			list[len(list)-1] = nil
			list = list[:len(list)-1]
			if inst.dirty {
				errs = append(errs, r.renderIsolated(inst))
			}
		}
	})
	r.stats.Flushes++
	r.metrics.Flushed(batch, time.Since(start))
	return stderrors.Join(append(errs, err)...)
}

// renderIsolated renders one queued instance so that a panic in it does
// not stop the rest of the batch.
func (r *Runtime) renderIsolated(inst *Instance) (err error) {
	saved := entryState{diffLevel: r.diffLevel, svgMode: r.svgMode, mounts: len(r.mounts)}
	defer func() {
		if rec := recover(); rec != nil {
			r.diffLevel = saved.diffLevel
			r.svgMode = saved.svgMode
			if len(r.mounts) > saved.mounts {
				r.mounts = r.mounts[:saved.mounts]
			}
			err = r.recovered(rec)
			r.logger.Warn("queued render failed",
				"class", inst.class.name,
				"error", err,
			)
		}
	}()
	r.renderComponent(inst, SyncRender, false, false)
	return nil
}

// enqueueRender marks inst dirty and queues it. The first instance queued
// after a flush schedules the next flush.
func (r *Runtime) enqueueRender(inst *Instance) {
	if inst.dirty {
		return
	}
	inst.dirty = true
	r.pending = append(r.pending, inst)
	if len(r.pending) != 1 {
		return
	}
	task := func() {
		// Flush may already have emptied the queue.
		if len(r.pending) > 0 {
			r.report(r.flushBatch())
		}
	}
	if r.hooks.DebounceRendering != nil {
		r.hooks.DebounceRendering(task)
		return
	}
	r.scheduler.Schedule(task)
}

// flushMounts runs mount callbacks in the order instances finished
// rendering, children before parents.
func (r *Runtime) flushMounts() {
	for len(r.mounts) > 0 {
		inst := r.mounts[0]
		r.mounts[0] = nil
		r.mounts = r.mounts[1:]
		if r.hooks.AfterMount != nil {
			r.hooks.AfterMount(inst)
		}
		if m, ok := inst.comp.(DidMounter); ok {
			m.ComponentDidMount()
		}
	}
}

// bindDocument picks the document for the diff that is starting.
func (r *Runtime) bindDocument(existing, parent *dom.Node) {
	switch {
	case existing != nil:
		r.doc = existing.Document()
	case parent != nil:
		r.doc = parent.Document()
	case r.doc == nil:
		r.doc = dom.NewDocument()
	}
}
