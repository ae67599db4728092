package preview

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/protocol"
	"github.com/vango-dev/vtree/pkg/reconcile"
	"github.com/vango-dev/vtree/pkg/render"
	"github.com/vango-dev/vtree/pkg/schedule"
	"github.com/vango-dev/vtree/pkg/telemetry"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// RootAttr marks the mount element in the served page. Its value is the
// mount's node ID, which batches use as the parent of top-level nodes.
const RootAttr = "data-vtree-root"

// Config configures a preview server.
type Config struct {
	// Addr is the listen address for Run (default "localhost:3000").
	Addr string

	// ReadBufferSize and WriteBufferSize size the websocket buffers.
	ReadBufferSize  int
	WriteBufferSize int

	// CheckOrigin validates websocket origins. Nil accepts same-host
	// requests only.
	CheckOrigin func(r *http.Request) bool

	// SendBuffer is how many frames may queue for one client before it is
	// dropped as too slow (default 64).
	SendBuffer int

	// ShutdownTimeout bounds graceful shutdown in Run (default 5s).
	ShutdownTimeout time.Duration

	// Logger receives server and loop logs. Default: slog.Default().
	Logger *slog.Logger

	// Registry is served on /metrics when set.
	Registry *prometheus.Registry

	// Metrics, when set, is attached to the runtime and refreshed after
	// every commit.
	Metrics *telemetry.Metrics

	// Options are passed to the runtime. The server always supplies its
	// own scheduler and document.
	Options []reconcile.Option

	// Page head.
	Title  string
	Lang   string
	Styles []string
}

// Server renders a tree on a private document and keeps browsers in sync
// with it. All runtime and document access happens on one schedule.Loop;
// HTTP and websocket goroutines hand work to it with Do and Post.
type Server struct {
	config   Config
	logger   *slog.Logger
	loop     *schedule.Loop
	rt       *reconcile.Runtime
	doc      *dom.Document
	mount    *dom.Node
	upgrader websocket.Upgrader
	renderer *render.Renderer

	startOnce sync.Once

	// Owned by the loop goroutine.
	root    *dom.Node
	pending []protocol.Mutation
	seq     uint64
	clients map[*client]struct{}

	connected prometheus.Gauge
	frames    prometheus.Counter
}

// New creates a server. Call Start or Run before Update.
func New(config Config) *Server {
	if config.Addr == "" {
		config.Addr = "localhost:3000"
	}
	if config.SendBuffer <= 0 {
		config.SendBuffer = 64
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 5 * time.Second
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	logger := config.Logger.With("component", "preview")

	s := &Server{
		config:   config,
		logger:   logger,
		loop:     schedule.NewLoop(schedule.WithLoopLogger(config.Logger)),
		doc:      dom.NewDocument(),
		renderer: render.NewRenderer(render.RendererConfig{LiveFields: true}),
		clients:  map[*client]struct{}{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
	}

	s.mount = s.doc.CreateElement("div")
	s.mount.SetAttribute("id", "app")
	s.mount.SetAttribute(RootAttr, strconv.FormatUint(s.mount.ID(), 10))
	s.doc.Root().AppendChild(s.mount)

	opts := append([]reconcile.Option{reconcile.WithLogger(config.Logger)}, config.Options...)
	if config.Metrics != nil {
		opts = append(opts, reconcile.WithMetrics(config.Metrics))
	}
	opts = append(opts, reconcile.WithScheduler(s.loop), reconcile.WithDocument(s.doc))
	s.rt = reconcile.New(opts...)

	if config.Registry != nil {
		factory := promauto.With(config.Registry)
		s.connected = factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "vtree",
			Subsystem: "preview",
			Name:      "clients",
			Help:      "Connected preview clients",
		})
		s.frames = factory.NewCounter(prometheus.CounterOpts{
			Namespace: "vtree",
			Subsystem: "preview",
			Name:      "batches_sent_total",
			Help:      "Mutation batches broadcast to clients",
		})
	}

	s.doc.Observe(func(m dom.Mutation) {
		if len(s.pending) == 0 {
			s.loop.Schedule(s.commit)
		}
		s.pending = append(s.pending, protocol.FromDOM(m))
	})
	return s
}

// Start runs the loop in the background until ctx is cancelled. Later
// calls do nothing.
func (s *Server) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		go func() {
			if err := s.loop.Run(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error("loop stopped", "error", err)
			}
		}()
	})
}

// Update renders desc into the mount, merging with the previous tree, and
// broadcasts the resulting mutations.
func (s *Server) Update(ctx context.Context, desc *vdom.VNode) error {
	return s.loop.Do(ctx, func() error {
		root, err := s.rt.Render(desc, s.mount, s.root)
		s.root = root
		s.commit()
		return err
	})
}

// Do runs fn on the loop and then broadcasts whatever it changed. Use it
// to touch component state from other goroutines.
func (s *Server) Do(ctx context.Context, fn func(rt *reconcile.Runtime) error) error {
	return s.loop.Do(ctx, func() error {
		err := fn(s.rt)
		s.commit()
		return err
	})
}

// HTML returns the current markup inside the mount.
func (s *Server) HTML(ctx context.Context) (string, error) {
	var buf bytes.Buffer
	err := s.loop.Do(ctx, func() error {
		return s.renderer.RenderChildren(&buf, s.mount)
	})
	return buf.String(), err
}

// Handler returns the HTTP routes:
//
//	GET /         the page with the current tree and the client script
//	GET /ws       the websocket carrying batches and events
//	GET /metrics  Prometheus metrics, when a registry is configured
//	GET /healthz  liveness
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handlePage)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	if s.config.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.config.Registry, promhttp.HandlerOpts{}))
	}
	return r
}

// Run starts the loop and serves Handler on the configured address until
// ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.Start(ctx)

	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("preview server starting", "address", s.config.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
		s.logger.Info("preview server shutdown complete")
		return nil
	}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := s.loop.Do(r.Context(), func() error {
		return s.renderer.RenderPage(&buf, render.PageData{
			Body:    s.mount,
			Title:   s.config.Title,
			Lang:    s.config.Lang,
			Styles:  s.config.Styles,
			Scripts: []render.ScriptTag{{Inline: clientScript}},
		})
	})
	if err != nil {
		s.logger.Error("page render failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

// commit flushes queued component renders and broadcasts the mutations
// gathered since the last commit as one batch. Loop goroutine only.
func (s *Server) commit() {
	if err := s.rt.Flush(); err != nil {
		s.logger.Error("flush failed", "error", err)
	}
	if s.config.Metrics != nil {
		s.config.Metrics.Observe(s.rt.Stats())
	}
	if len(s.pending) == 0 {
		return
	}

	s.seq++
	batch := &protocol.Batch{Seq: s.seq, Mutations: s.pending}
	s.pending = nil
	frame := protocol.NewFrame(protocol.FrameBatch, protocol.EncodeBatch(batch)).Encode()
	for c := range s.clients {
		s.send(c, frame)
	}
	if s.frames != nil {
		s.frames.Inc()
	}
	s.logger.Debug("batch sent", "seq", batch.Seq, "mutations", len(batch.Mutations), "clients", len(s.clients))
}

// attach registers c and sends it a snapshot of the current tree. Pending
// mutations go out first so c does not receive changes the snapshot
// already contains. Loop goroutine only.
func (s *Server) attach(c *client) {
	s.commit()
	s.clients[c] = struct{}{}
	if s.connected != nil {
		s.connected.Inc()
	}

	snap := protocol.NewFrame(protocol.FrameBatch, protocol.EncodeBatch(protocol.Snapshot(s.mount, s.seq)))
	snap.Flags = protocol.FlagSnapshot
	s.send(c, snap.Encode())
	s.logger.Info("client connected", "client", c.id, "seq", s.seq)
}

// detach forgets c and stops its writer. Loop goroutine only.
func (s *Server) detach(c *client) {
	if _, ok := s.clients[c]; !ok {
		return
	}
	delete(s.clients, c)
	close(c.send)
	if s.connected != nil {
		s.connected.Dec()
	}
	s.logger.Info("client disconnected", "client", c.id)
}

// send queues a frame for c, dropping c when its queue is full. Loop
// goroutine only.
func (s *Server) send(c *client, frame []byte) {
	if _, ok := s.clients[c]; !ok {
		return
	}
	select {
	case c.send <- frame:
	default:
		s.logger.Warn("client too slow, dropping", "client", c.id)
		s.detach(c)
	}
}

// dispatch delivers a client event to the node it targets. Loop
// goroutine only.
func (s *Server) dispatch(ev *protocol.Event) *protocol.ErrorMessage {
	target := find(s.mount, ev.Target)
	if target == nil {
		return protocol.NewError(protocol.ErrUnknownTarget, fmt.Sprintf("node #%d is not mounted", ev.Target))
	}

	if ev.HasValue && target.HasField("value") {
		if err := target.SetField("value", ev.Value); err != nil {
			return protocol.NewError(protocol.ErrInvalidEvent, err.Error())
		}
	}
	if ev.HasChecked && target.HasField("checked") {
		if err := target.SetField("checked", ev.Checked); err != nil {
			return protocol.NewError(protocol.ErrInvalidEvent, err.Error())
		}
	}

	target.Dispatch(dom.NewEvent(ev.Type))
	s.commit()
	return nil
}

func find(n *dom.Node, id uint64) *dom.Node {
	if n.ID() == id {
		return n
	}
	for _, c := range n.Children() {
		if found := find(c, id); found != nil {
			return found
		}
	}
	return nil
}
