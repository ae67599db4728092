package dom

import (
	stderrors "errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func tags(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		if n.IsText() {
			out[i] = "#" + n.Data()
		} else {
			out[i] = n.Tag()
		}
	}
	return out
}

func TestTreeOperations(t *testing.T) {
	doc := NewDocument()
	root := doc.CreateElement("DIV")
	a := doc.CreateElement("a")
	b := doc.CreateElement("b")
	c := doc.CreateTextNode("c")

	if root.Tag() != "div" {
		t.Errorf("Tag() = %q, want div", root.Tag())
	}

	root.AppendChild(a)
	root.AppendChild(c)
	root.InsertBefore(b, c)
	if diff := cmp.Diff([]string{"a", "b", "#c"}, tags(root.Children())); diff != "" {
		t.Errorf("after insert (-want +got):\n%s", diff)
	}

	// Moving an attached node detaches it first.
	root.InsertBefore(c, a)
	if diff := cmp.Diff([]string{"#c", "a", "b"}, tags(root.Children())); diff != "" {
		t.Errorf("after move (-want +got):\n%s", diff)
	}

	if a.NextSibling() != b || b.PreviousSibling() != a || b.NextSibling() != nil {
		t.Error("sibling links are wrong")
	}

	x := doc.CreateElement("x")
	root.ReplaceChild(x, a)
	if a.Parent() != nil {
		t.Error("replaced node should be detached")
	}
	if diff := cmp.Diff([]string{"#c", "x", "b"}, tags(root.Children())); diff != "" {
		t.Errorf("after replace (-want +got):\n%s", diff)
	}

	b.Remove()
	if root.ChildCount() != 2 || root.LastChild() != x {
		t.Errorf("after remove: %v", tags(root.Children()))
	}
	if root.ChildAt(5) != nil {
		t.Error("ChildAt out of range should be nil")
	}
	if root.TextContent() != "c" {
		t.Errorf("TextContent() = %q", root.TextContent())
	}
}

func TestIDsAreUniqueAndStable(t *testing.T) {
	doc := NewDocument()
	a := doc.CreateElement("div")
	b := doc.CreateTextNode("x")
	if a.ID() == b.ID() || a.ID() == doc.Root().ID() {
		t.Error("IDs should be unique within a document")
	}
	id := a.ID()
	doc.Root().AppendChild(a)
	a.SetAttribute("class", "y")
	if a.ID() != id {
		t.Error("ID should not change")
	}
}

func TestHierarchyViolationsPanic(t *testing.T) {
	doc := NewDocument()
	parent := doc.CreateElement("div")
	child := doc.CreateElement("span")
	parent.AppendChild(child)
	text := doc.CreateTextNode("t")

	tests := []struct {
		name string
		fn   func()
	}{
		{"insert into own subtree", func() { child.AppendChild(parent) }},
		{"insert into text", func() { text.AppendChild(doc.CreateElement("b")) }},
		{"foreign reference", func() { parent.InsertBefore(doc.CreateElement("b"), text) }},
		{"remove non-child", func() { parent.RemoveChild(text) }},
		{"other document", func() { parent.AppendChild(NewDocument().CreateElement("b")) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected a panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestAttributes(t *testing.T) {
	doc := NewDocument()
	n := doc.CreateElement("div")

	n.SetAttribute("Data-X", "1")
	if v, ok := n.GetAttribute("data-x"); !ok || v != "1" {
		t.Errorf("GetAttribute = %q, %v", v, ok)
	}

	n.SetAttributeNS(NamespaceXLink, "href", "#a")
	if _, ok := n.GetAttribute("href"); ok {
		t.Error("namespaced attribute should not match a plain lookup")
	}
	attrs := n.Attributes()
	if len(attrs) != 2 || attrs[1].QualifiedName() != "xlink:href" {
		t.Errorf("Attributes() = %+v", attrs)
	}

	rec := Record(doc)
	defer rec.Stop()
	n.RemoveAttribute("missing")
	if len(rec.Mutations) != 0 {
		t.Error("removing an absent attribute should not be a mutation")
	}
	n.RemoveAttributeNS(NamespaceXLink, "href")
	if rec.Count(OpRemoveAttr) != 1 {
		t.Errorf("RemoveAttr count = %d, want 1", rec.Count(OpRemoveAttr))
	}
}

func TestStyle(t *testing.T) {
	doc := NewDocument()
	n := doc.CreateElement("div")
	s := n.Style()

	s.Set("backgroundColor", "red")
	s.Set("margin-top", "2px")
	if got := s.Get("background-color"); got != "red" {
		t.Errorf("Get = %q, want red", got)
	}
	if got, _ := n.GetAttribute("style"); got != "background-color: red; margin-top: 2px" {
		t.Errorf("style attribute = %q", got)
	}

	s.Set("backgroundColor", "")
	if s.Len() != 1 || s.Get("backgroundColor") != "" {
		t.Errorf("remove failed: %q", s.CSSText())
	}

	n.SetAttribute("style", "color: blue; ; bad; z-index: 2")
	if diff := cmp.Diff([]string{"color", "z-index"}, s.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}

	s.SetCSSText("")
	if n.HasAttribute("style") {
		t.Error("empty declaration should drop the style attribute")
	}

	rec := Record(doc)
	defer rec.Stop()
	s.Set("color", "red")
	s.Set("color", "red")
	if rec.Count(OpSetStyle) != 1 {
		t.Errorf("unchanged Set should not emit, got %d mutations", rec.Count(OpSetStyle))
	}
}

func TestCSSName(t *testing.T) {
	tests := map[string]string{
		"color":           "color",
		"backgroundColor": "background-color",
		"z-index":         "z-index",
		"--main-color":    "--main-color",
	}
	for in, want := range tests {
		if got := CSSName(in); got != want {
			t.Errorf("CSSName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFields(t *testing.T) {
	doc := NewDocument()
	input := doc.CreateElement("input")

	if !input.HasField("value") || !input.HasField("className") {
		t.Error("input should have value and className fields")
	}
	if input.HasField("for") {
		t.Error("input should not have a for field")
	}
	if doc.CreateElementNS(NamespaceSVG, "svg").HasField("className") {
		t.Error("SVG elements have no fields")
	}

	input.SetAttribute("value", "initial")
	if got := input.Field("value"); got != "initial" {
		t.Errorf("value before assignment = %v, want attribute value", got)
	}
	if err := input.SetField("value", 42); err != nil {
		t.Fatalf("SetField(value) error: %v", err)
	}
	if got := input.Field("value"); got != "42" {
		t.Errorf("value = %v, want \"42\"", got)
	}
	if v, _ := input.GetAttribute("value"); v != "initial" {
		t.Error("value field should not reflect to the attribute")
	}
	if !input.FieldEquals("value", 42) || input.FieldEquals("value", 43) {
		t.Error("FieldEquals should compare after coercion")
	}

	if err := input.SetField("disabled", true); err != nil {
		t.Fatal(err)
	}
	if !input.HasAttribute("disabled") {
		t.Error("disabled should reflect to the attribute")
	}
	_ = input.SetField("disabled", nil)
	if input.HasAttribute("disabled") {
		t.Error("nil should clear a boolean field")
	}

	if err := input.SetField("className", "a b"); err != nil {
		t.Fatal(err)
	}
	if v, _ := input.GetAttribute("class"); v != "a b" {
		t.Errorf("class attribute = %q", v)
	}
}

func TestFieldRejections(t *testing.T) {
	doc := NewDocument()
	input := doc.CreateElement("input")

	tests := []struct {
		name  string
		field string
		value any
	}{
		{"non-bool checked", "checked", "yes"},
		{"map value", "value", map[string]any{}},
		{"fractional int", "tabIndex", 1.5},
		{"read-only", "tagName", "p"},
		{"unknown", "nope", "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := input.SetField(tt.field, tt.value)
			if !stderrors.Is(err, ErrFieldRejected) {
				t.Errorf("SetField error = %v, want ErrFieldRejected", err)
			}
		})
	}
}

type recordingListener struct {
	name string
	log  *[]string
	stop bool
}

func (l *recordingListener) HandleEvent(e *Event) {
	*l.log = append(*l.log, l.name)
	if l.stop {
		e.StopPropagation()
	}
}

func TestDispatch(t *testing.T) {
	doc := NewDocument()
	outer := doc.CreateElement("div")
	inner := doc.CreateElement("button")
	outer.AppendChild(inner)

	var log []string
	outer.AddEventListener("click", &recordingListener{name: "outer-capture", log: &log}, true)
	outer.AddEventListener("click", &recordingListener{name: "outer-bubble", log: &log}, false)
	target := &recordingListener{name: "target", log: &log}
	inner.AddEventListener("click", target, false)
	inner.AddEventListener("click", target, false)

	if inner.ListenerCount("click") != 1 {
		t.Errorf("duplicate registration should be ignored")
	}
	if diff := cmp.Diff([]string{"click"}, outer.ListenerTypes()); diff != "" {
		t.Errorf("ListenerTypes (-want +got):\n%s", diff)
	}

	inner.Dispatch(NewEvent("click"))
	if diff := cmp.Diff([]string{"outer-capture", "target", "outer-bubble"}, log); diff != "" {
		t.Errorf("dispatch order (-want +got):\n%s", diff)
	}

	log = nil
	inner.Dispatch(NewEvent("focus"))
	outer.AddEventListener("focus", &recordingListener{name: "focus-bubble", log: &log}, false)
	inner.Dispatch(NewEvent("focus"))
	if len(log) != 0 {
		t.Errorf("focus should not bubble, got %v", log)
	}

	log = nil
	inner.RemoveEventListener("click", target, false)
	target.stop = true
	inner.AddEventListener("click", target, true)
	inner.Dispatch(NewEvent("click"))
	if diff := cmp.Diff([]string{"outer-capture", "target"}, log); diff != "" {
		t.Errorf("StopPropagation (-want +got):\n%s", diff)
	}
}

func TestParseFragment(t *testing.T) {
	doc := NewDocument()
	parent := doc.CreateElement("div")

	err := parent.SetInnerHTML(`<p class="x" style="color: red">hi <b>there</b></p><svg><use xlink:href="#i"></use></svg><!-- c -->`)
	if err != nil {
		t.Fatalf("SetInnerHTML error: %v", err)
	}
	if diff := cmp.Diff([]string{"p", "svg"}, tags(parent.Children())); diff != "" {
		t.Errorf("children (-want +got):\n%s", diff)
	}

	p := parent.FirstChild()
	if v, _ := p.GetAttribute("class"); v != "x" {
		t.Errorf("class = %q", v)
	}
	if p.Style().Get("color") != "red" {
		t.Error("style attribute should populate the declaration")
	}
	if p.TextContent() != "hi there" {
		t.Errorf("TextContent() = %q", p.TextContent())
	}

	svg := parent.LastChild()
	if svg.Namespace() != NamespaceSVG {
		t.Errorf("svg namespace = %q", svg.Namespace())
	}
	if v, ok := svg.FirstChild().GetAttributeNS(NamespaceXLink, "href"); !ok || v != "#i" {
		t.Errorf("xlink:href = %q, %v", v, ok)
	}

	if err := parent.SetInnerHTML(""); err != nil || parent.ChildCount() != 0 {
		t.Errorf("empty markup should clear children, err=%v", err)
	}
}

func TestRecorder(t *testing.T) {
	doc := NewDocument()
	rec := Record(doc)

	n := doc.CreateElement("div")
	doc.Root().AppendChild(n)
	n.AppendChild(doc.CreateTextNode("x"))

	if rec.Count(OpCreate) != 2 || rec.Count(OpInsert) != 2 {
		t.Errorf("counts: create=%d insert=%d", rec.Count(OpCreate), rec.Count(OpInsert))
	}

	rec.Stop()
	n.SetAttribute("a", "b")
	if rec.Count(OpSetAttr) != 0 {
		t.Error("stopped recorder should not record")
	}
	rec.Reset()
	if len(rec.Mutations) != 0 {
		t.Error("Reset should clear mutations")
	}
}
