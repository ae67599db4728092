package reconcile

import (
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/vdom"
)

func TestStyleReset(t *testing.T) {
	rt, _, body := setup(t)

	root := mustRender(t, rt, vdom.Div(vdom.Styles(map[string]any{"color": "red"})), body, nil)
	if got := root.Style().Get("color"); got != "red" {
		t.Fatalf("color = %q, want red", got)
	}

	mustRender(t, rt, vdom.Div(vdom.Styles(map[string]any{})), body, root)
	if got := root.Style().Get("color"); got != "" {
		t.Errorf("color = %q after reset, want empty", got)
	}
}

func TestStyleValues(t *testing.T) {
	rt, _, body := setup(t)

	root := mustRender(t, rt, vdom.Div(vdom.Styles(map[string]any{
		"width":      10,
		"zIndex":     3,
		"lineHeight": 1.5,
		"marginTop":  "1em",
	})), body, nil)

	s := root.Style()
	want := map[string]string{"width": "10px", "z-index": "3", "line-height": "1.5", "margin-top": "1em"}
	for name, v := range want {
		if got := s.Get(name); got != v {
			t.Errorf("%s = %q, want %q", name, got, v)
		}
	}

	// A string style replaces the whole declaration.
	mustRender(t, rt, vdom.Div(vdom.StyleAttr("color: blue")), body, root)
	if diff := cmp.Diff([]string{"color"}, s.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}

	// Removing the prop clears it.
	mustRender(t, rt, vdom.Div(), body, root)
	if s.Len() != 0 {
		t.Errorf("style has %d properties after removal", s.Len())
	}
}

func TestClassValues(t *testing.T) {
	rt, _, body := setup(t)

	root := mustRender(t, rt, vdom.Div(vdom.Classes(map[string]bool{"b": true, "a": true, "off": false})), body, nil)
	if got, _ := root.GetAttribute("class"); got != "a b" {
		t.Errorf("class = %q, want %q", got, "a b")
	}

	mustRender(t, rt, vdom.Div(vdom.ClassName("legacy")), body, root)
	if got, _ := root.GetAttribute("class"); got != "legacy" {
		t.Errorf("className = %q", got)
	}

	mustRender(t, rt, vdom.Div(), body, root)
	if got, _ := root.GetAttribute("class"); got != "" {
		t.Errorf("class after removal = %q", got)
	}
}

func TestAttributesAndFields(t *testing.T) {
	rt, _, body := setup(t)

	root := mustRender(t, rt, vdom.Div(
		vdom.Data("id", "7"),
		vdom.AriaHidden(true),
		vdom.TitleAttr("tip"),
		vdom.Prop("object", map[string]int{"skip": 1}),
	), body, nil)

	if got, _ := root.GetAttribute("data-id"); got != "7" {
		t.Errorf("data-id = %q", got)
	}
	if got, _ := root.GetAttribute("aria-hidden"); got != "true" {
		t.Errorf("aria-hidden = %q", got)
	}
	if got, _ := root.GetAttribute("title"); got != "tip" {
		t.Errorf("title = %q", got)
	}
	if root.HasAttribute("object") {
		t.Error("non-scalar values should not become attributes")
	}

	mustRender(t, rt, vdom.Div(vdom.AriaHidden(false), vdom.TitleAttr("tip")), body, root)
	if root.HasAttribute("data-id") || root.HasAttribute("aria-hidden") {
		t.Errorf("removed attributes still present: %v", root.Attributes())
	}
}

func TestLiveFieldsAreReasserted(t *testing.T) {
	rt, _, body := setup(t)
	desc := func() *vdom.VNode {
		return vdom.Div(
			vdom.Input(vdom.Type("text"), vdom.Value("server")),
			vdom.Input(vdom.Type("checkbox"), vdom.Checked(true)),
		)
	}

	root := mustRender(t, rt, desc(), body, nil)
	text, box := root.ChildAt(0), root.ChildAt(1)

	// The user edits both controls.
	if err := text.SetField("value", "typed"); err != nil {
		t.Fatal(err)
	}
	if err := box.SetField("checked", false); err != nil {
		t.Fatal(err)
	}

	mustRender(t, rt, desc(), body, root)
	if got := text.Field("value"); got != "server" {
		t.Errorf("value = %v, want server", got)
	}
	if got := box.Field("checked"); got != true {
		t.Errorf("checked = %v, want true", got)
	}
}

func TestRejectedFieldIsSwallowed(t *testing.T) {
	rt, _, body := setup(t, WithLogger(quietLogger()))

	// tabIndex is an int field; a non-numeric string is rejected by the
	// host but must not fail the render.
	root, err := rt.Render(vdom.Div(vdom.Prop("tabIndex", "first")), body, nil)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if root.HasAttribute("tabindex") {
		t.Error("rejected field should not be reflected")
	}
}

func TestListeners(t *testing.T) {
	rt, _, body := setup(t)
	var calls []string

	root := mustRender(t, rt, vdom.Button(vdom.OnClick(func() { calls = append(calls, "first") })), body, nil)
	if n := root.ListenerCount("click"); n != 1 {
		t.Fatalf("ListenerCount = %d, want 1", n)
	}
	root.Dispatch(dom.NewEvent("click"))

	rec := dom.Record(body.Document())
	mustRender(t, rt, vdom.Button(vdom.OnClick(func(e *dom.Event) { calls = append(calls, "second:"+e.Type) })), body, root)
	if n := rec.Count(dom.OpAddListener) + rec.Count(dom.OpRemoveListener); n != 0 {
		t.Errorf("swapping handlers touched the host listener table %d times", n)
	}
	rec.Stop()
	root.Dispatch(dom.NewEvent("click"))

	mustRender(t, rt, vdom.Button(), body, root)
	if n := root.ListenerCount("click"); n != 0 {
		t.Errorf("ListenerCount = %d after removal", n)
	}
	root.Dispatch(dom.NewEvent("click"))

	if diff := cmp.Diff([]string{"first", "second:click"}, calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestNonBubblingEventsUseCapture(t *testing.T) {
	rt, _, body := setup(t)
	focused := 0

	root := mustRender(t, rt, vdom.Div(vdom.OnFocus(func() { focused++ }), vdom.Input()), body, nil)
	root.FirstChild().Dispatch(dom.NewEvent("focus"))

	if focused != 1 {
		t.Errorf("focus on a descendant reached the container %d times, want 1", focused)
	}
}

func TestEventHook(t *testing.T) {
	rt, _, body := setup(t, WithHooks(Hooks{
		Event: func(e *dom.Event) *dom.Event {
			e.Detail = map[string]any{"hooked": true}
			return e
		},
	}))
	var seen any

	root := mustRender(t, rt, vdom.Button(vdom.OnClick(func(e *dom.Event) { seen = e.Detail["hooked"] })), body, nil)
	root.Dispatch(dom.NewEvent("click"))

	if seen != true {
		t.Errorf("handler saw hooked = %v", seen)
	}
}

func TestLinkState(t *testing.T) {
	rt, sched, body := setup(t)
	var inst *Instance
	form := NewClass("Form", func(i *Instance) Component {
		inst = i
		return renderFunc(func(vdom.Props, State, Context) *vdom.VNode {
			return vdom.Div(
				vdom.Input(vdom.Type("text"), vdom.OnInput(i.LinkState("name", ""))),
				vdom.Input(vdom.Type("checkbox"), vdom.OnChange(i.LinkState("prefs.news", ""))),
				vdom.Div(vdom.On("pick", i.LinkState("picked", "item.id"))),
			)
		})
	})
	root := mustRender(t, rt, vdom.C(form), body, nil)
	text, box, picker := root.ChildAt(0), root.ChildAt(1), root.ChildAt(2)

	if err := text.SetField("value", "bob"); err != nil {
		t.Fatal(err)
	}
	text.Dispatch(dom.NewEvent("input"))

	if err := box.SetField("checked", true); err != nil {
		t.Fatal(err)
	}
	box.Dispatch(dom.NewEvent("change"))

	pick := dom.NewEvent("pick")
	pick.Detail = map[string]any{"item": map[string]any{"id": 7}}
	picker.Dispatch(pick)

	sched.Run()

	want := State{
		"name":   "bob",
		"prefs":  map[string]any{"news": true},
		"picked": 7,
	}
	if diff := cmp.Diff(want, inst.State()); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}

	a := reflect.ValueOf(inst.LinkState("name", "")).Pointer()
	b := reflect.ValueOf(inst.LinkState("name", "")).Pointer()
	if a != b {
		t.Error("LinkState should cache handlers")
	}
}
