package protocol

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/reconcile"
	"github.com/vango-dev/vtree/pkg/render"
	"github.com/vango-dev/vtree/pkg/schedule"
	"github.com/vango-dev/vtree/pkg/vdom"
)

func TestBatchEncodeDecode(t *testing.T) {
	b := &Batch{Seq: 9, Mutations: []Mutation{
		{Op: dom.OpCreate, Target: 2, Name: "svg", Namespace: dom.NamespaceSVG},
		{Op: dom.OpCreate, Target: 3, Text: true, Value: "hi"},
		{Op: dom.OpInsert, Target: 3, Parent: 2},
		{Op: dom.OpInsert, Target: 2, Parent: 1, Before: 5},
		{Op: dom.OpRemove, Target: 5, Parent: 1},
		{Op: dom.OpSetText, Target: 3, Value: "bye"},
		{Op: dom.OpSetAttr, Target: 2, Name: "href", Namespace: dom.NamespaceXLink, Value: "#a"},
		{Op: dom.OpRemoveAttr, Target: 2, Name: "class"},
		{Op: dom.OpSetStyle, Target: 2, Name: "color", Value: "red"},
		{Op: dom.OpSetStyle, Target: 2, Value: "margin: 0"},
		{Op: dom.OpSetField, Target: 4, Name: "checked", Value: "true"},
		{Op: dom.OpAddListener, Target: 4, Name: "click"},
		{Op: dom.OpRemoveListener, Target: 4, Name: "click"},
	}}

	got, err := DecodeBatch(EncodeBatch(b))
	if err != nil {
		t.Fatalf("DecodeBatch() error: %v", err)
	}
	if diff := cmp.Diff(b, got); diff != "" {
		t.Errorf("batch mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeBatchErrors(t *testing.T) {
	unknown := NewEncoder()
	unknown.WriteUvarint(1)
	unknown.WriteUvarint(1)
	unknown.WriteByte(0x7F)
	unknown.WriteUvarint(1)

	valid := EncodeBatch(&Batch{Seq: 1, Mutations: []Mutation{{Op: dom.OpSetText, Target: 2, Value: "x"}}})

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"unknown op", unknown.Bytes(), ErrInvalidMutation},
		{"trailing bytes", append(append([]byte{}, valid...), 0), ErrTrailingBytes},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeBatch(tt.data); !errors.Is(err, tt.want) {
				t.Errorf("DecodeBatch() error = %v, want %v", err, tt.want)
			}
		})
	}

	for i := 1; i < len(valid); i++ {
		if _, err := DecodeBatch(valid[:i]); err == nil {
			t.Errorf("DecodeBatch(truncated to %d) succeeded", i)
		}
	}
}

func TestMutationString(t *testing.T) {
	tests := []struct {
		m    Mutation
		want string
	}{
		{Mutation{Op: dom.OpCreate, Target: 2, Name: "div"}, "Create #2 <div>"},
		{Mutation{Op: dom.OpCreate, Target: 3, Text: true, Value: "a"}, `Create #3 text "a"`},
		{Mutation{Op: dom.OpInsert, Target: 2, Parent: 1}, "Insert #2 into #1 before #0"},
		{Mutation{Op: dom.OpSetAttr, Target: 2, Name: "id", Value: "x"}, `SetAttr #2 id="x"`},
	}
	for _, tt := range tests {
		if got := tt.m.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

// stream renders into a source document and replays every recorded
// mutation, through the wire format, into a mirror.
type stream struct {
	t      *testing.T
	rt     *reconcile.Runtime
	sched  *schedule.Manual
	body   *dom.Node
	rec    *dom.Recorder
	mirror *Mirror
	seq    uint64
}

func newStream(t *testing.T) *stream {
	t.Helper()
	doc := dom.NewDocument()
	body := doc.CreateElement("body")
	sched := schedule.NewManual()
	s := &stream{
		t:      t,
		rt:     reconcile.New(reconcile.WithScheduler(sched)),
		sched:  sched,
		body:   body,
		rec:    dom.Record(doc),
		mirror: NewMirror(body.ID()),
	}
	t.Cleanup(s.rec.Stop)
	return s
}

func (s *stream) sync() {
	s.t.Helper()
	s.seq++
	b := &Batch{Seq: s.seq}
	for _, m := range s.rec.Mutations {
		b.Mutations = append(b.Mutations, FromDOM(m))
	}
	s.rec.Reset()

	frame, err := DecodeFrame(NewFrame(FrameBatch, EncodeBatch(b)).Encode())
	if err != nil {
		s.t.Fatalf("DecodeFrame() error: %v", err)
	}
	decoded, err := DecodeBatch(frame.Payload)
	if err != nil {
		s.t.Fatalf("DecodeBatch() error: %v", err)
	}
	if err := s.mirror.Apply(decoded); err != nil {
		s.t.Fatalf("Apply() error: %v", err)
	}
	s.check()
}

func (s *stream) check() {
	s.t.Helper()
	if diff := cmp.Diff(html(s.t, s.body), html(s.t, s.mirror.Root())); diff != "" {
		s.t.Errorf("mirror diverged (-source +mirror):\n%s", diff)
	}
}

func html(t *testing.T, n *dom.Node) string {
	t.Helper()
	var buf bytes.Buffer
	r := render.NewRenderer(render.RendererConfig{LiveFields: true})
	if err := r.RenderChildren(&buf, n); err != nil {
		t.Fatalf("RenderChildren() error: %v", err)
	}
	return buf.String()
}

func list(keys ...string) *vdom.VNode {
	items := make([]any, 0, len(keys))
	for _, k := range keys {
		items = append(items, vdom.Li(vdom.Key(k), k))
	}
	return vdom.Ul(items...)
}

func TestMirrorFollowsRenders(t *testing.T) {
	s := newStream(t)

	root, err := s.rt.Render(vdom.Div(
		vdom.ID("app"),
		vdom.Styles(map[string]any{"color": "red"}),
		list("a", "b", "c"),
		vdom.Svg(vdom.Circle(vdom.Prop("r", 5))),
		vdom.Input(vdom.Type("checkbox"), vdom.Checked(true), vdom.OnClick(func(*dom.Event) {})),
		vdom.P("hello"),
	), s.body, nil)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	s.sync()
	if !strings.Contains(html(t, s.mirror.Root()), "<circle r=\"5\"/>") {
		t.Errorf("mirror is missing the svg child: %s", html(t, s.mirror.Root()))
	}

	_, err = s.rt.Render(vdom.Div(
		vdom.ID("app"),
		vdom.Styles(map[string]any{"margin": "0"}),
		list("c", "a", "d"),
		vdom.Input(vdom.Type("checkbox"), vdom.Checked(false)),
		vdom.P("bye"),
	), s.body, root)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	s.sync()

	_, err = s.rt.Render(vdom.Div(vdom.DangerouslySetInnerHTML("<b>raw</b> text")), s.body, root)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	s.sync()
}

type tally struct{}

func (tally) Render(_ vdom.Props, state reconcile.State, _ reconcile.Context) *vdom.VNode {
	n, _ := state["n"].(int)
	keys := []string{"x"}
	for i := 0; i < n; i++ {
		keys = append(keys, string(rune('a'+i)))
	}
	return vdom.Section(vdom.Textf("%d", n), list(keys...))
}

func TestMirrorFollowsFlush(t *testing.T) {
	s := newStream(t)
	var self *reconcile.Instance
	class := reconcile.NewClass("Tally", func(inst *reconcile.Instance) reconcile.Component {
		self = inst
		inst.InitState(reconcile.State{"n": 0})
		return tally{}
	})

	if _, err := s.rt.Render(vdom.C(class), s.body, nil); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	s.sync()

	for n := 1; n <= 3; n++ {
		self.SetState(reconcile.State{"n": n})
		s.sched.Run()
		s.sync()
	}
}

func TestSnapshotRebuildsTree(t *testing.T) {
	doc := dom.NewDocument()
	body := doc.CreateElement("body")
	rt := reconcile.New(reconcile.WithScheduler(schedule.NewManual()))

	tree := vdom.Div(
		vdom.Class("card"),
		vdom.StyleAttr("color: blue"),
		vdom.OnClick(func() {}),
		vdom.Input(vdom.Value("typed")),
		vdom.Svg(vdom.Use(vdom.XLinkHref("#icon"))),
		list("a", "b"),
	)
	if _, err := rt.Render(tree, body, nil); err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	snap := Snapshot(body, 1)
	listeners := 0
	for _, m := range snap.Mutations {
		if m.Op == dom.OpAddListener && m.Name == "click" {
			listeners++
		}
	}
	if listeners != 1 {
		t.Errorf("snapshot carries %d click listeners, want 1", listeners)
	}

	mirror := NewMirror(body.ID())
	b, err := DecodeBatch(EncodeBatch(snap))
	if err != nil {
		t.Fatalf("DecodeBatch() error: %v", err)
	}
	if err := mirror.Apply(b); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if diff := cmp.Diff(html(t, body), html(t, mirror.Root())); diff != "" {
		t.Errorf("snapshot mismatch (-source +mirror):\n%s", diff)
	}

	input := body.ChildAt(0).ChildAt(0)
	n, ok := mirror.Node(input.ID())
	if !ok {
		t.Fatal("mirror has no node for the input")
	}
	if got := n.Field("value"); got != "typed" {
		t.Errorf("mirror input value = %v, want typed", got)
	}
}

func TestMirrorRejectsUnknownNodes(t *testing.T) {
	m := NewMirror(1)
	err := m.Apply(&Batch{Seq: 4, Mutations: []Mutation{
		{Op: dom.OpCreate, Target: 2, Name: "div"},
		{Op: dom.OpInsert, Target: 2, Parent: 99},
	}})
	if !errors.Is(err, ErrUnknownNode) {
		t.Fatalf("Apply() error = %v, want ErrUnknownNode", err)
	}
	if !strings.Contains(err.Error(), "batch 4 mutation 1") {
		t.Errorf("error %q should name the failing mutation", err)
	}
	if m.Root().ChildCount() != 0 {
		t.Error("nothing should be inserted")
	}
}

func TestMirrorReportsHierarchyErrors(t *testing.T) {
	m := NewMirror(1)
	err := m.Apply(&Batch{Mutations: []Mutation{
		{Op: dom.OpCreate, Target: 2, Name: "div"},
		{Op: dom.OpInsert, Target: 2, Parent: 1},
		{Op: dom.OpInsert, Target: 1, Parent: 2},
	}})
	if err == nil {
		t.Fatal("inserting an ancestor into its descendant should fail")
	}
}
