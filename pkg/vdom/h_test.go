package vdom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type testBehavior struct{ name string }

func (b *testBehavior) BehaviorName() string { return b.name }

func texts(nodes []*VNode) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if n.Kind == KindText {
			out = append(out, "#"+n.Text)
		} else {
			out = append(out, n.Identity())
		}
	}
	return out
}

func TestHChildren(t *testing.T) {
	tests := []struct {
		name     string
		children []any
		want     []string
	}{
		{
			name:     "no children",
			children: nil,
			want:     []string{},
		},
		{
			name:     "adjacent scalars coalesce",
			children: []any{"a", 1, true, 2.5},
			want:     []string{"#a1true2.5"},
		},
		{
			name:     "nil and false dropped",
			children: []any{nil, false, "x", (*VNode)(nil), false, "y"},
			want:     []string{"#xy"},
		},
		{
			name:     "nested slices flattened in order",
			children: []any{[]any{"a", []*VNode{H("b", nil)}}, []any{[]any{"c"}}, "d"},
			want:     []string{"#a", "b", "#cd"},
		},
		{
			name:     "explicit text nodes are not merged",
			children: []any{Text("a"), Text("b"), "c"},
			want:     []string{"#a", "#b", "#c"},
		},
		{
			name:     "element breaks a text run",
			children: []any{"a", H("br", nil), "b"},
			want:     []string{"#a", "br", "#b"},
		},
		{
			name:     "string slices",
			children: []any{[]string{"x", "y"}},
			want:     []string{"#xy"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := H("div", nil, tt.children...)
			if diff := cmp.Diff(tt.want, texts(node.Children)); diff != "" {
				t.Errorf("children mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHChildrenProp(t *testing.T) {
	props := Props{"children": []any{"a", "b"}, "id": "x"}

	node := H("p", props)
	if diff := cmp.Diff([]string{"#ab"}, texts(node.Children)); diff != "" {
		t.Errorf("fallback children mismatch (-want +got):\n%s", diff)
	}
	if _, ok := node.Props["children"]; ok {
		t.Error("children prop should be consumed")
	}
	if _, ok := props["children"]; !ok {
		t.Error("caller's props should not be modified")
	}

	node = H("p", props, "explicit")
	if diff := cmp.Diff([]string{"#explicit"}, texts(node.Children)); diff != "" {
		t.Errorf("explicit children should win (-want +got):\n%s", diff)
	}
	if _, ok := node.Props["children"]; ok {
		t.Error("children prop should be dropped even when unused")
	}
}

func TestHIdentity(t *testing.T) {
	b := &testBehavior{name: "Counter"}

	node := H(b, Props{"key": 7})
	if node.Kind != KindComponent {
		t.Errorf("Kind = %v, want Component", node.Kind)
	}
	if node.Type != b {
		t.Error("Type should be the behavior passed in")
	}
	if node.Key != "7" {
		t.Errorf("Key = %q, want 7", node.Key)
	}
	if node.Identity() != "Counter" {
		t.Errorf("Identity() = %q, want Counter", node.Identity())
	}

	defer func() {
		if recover() == nil {
			t.Error("H should panic for an unsupported identity")
		}
	}()
	H(42, nil)
}

func TestSameType(t *testing.T) {
	a := &testBehavior{name: "A"}
	b := &testBehavior{name: "A"}

	tests := []struct {
		name string
		x, y *VNode
		want bool
	}{
		{"text and text", Text("a"), Text("b"), true},
		{"nil counts as text", nil, Text("b"), true},
		{"text and element", Text("a"), H("div", nil), false},
		{"tags compare case-insensitively", H("DIV", nil), H("div", nil), true},
		{"different tags", H("div", nil), H("span", nil), false},
		{"same behavior", H(a, nil), H(a, nil), true},
		{"equal but distinct behaviors", H(a, nil), H(b, nil), false},
		{"element and component", H("div", nil), H(a, nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameType(tt.x, tt.y); got != tt.want {
				t.Errorf("SameType() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKeyOf(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"", ""},
		{"a", "a"},
		{3, "3"},
		{int64(-4), "-4"},
		{1.5, "1.5"},
	}
	for _, tt := range tests {
		if got := KeyOf(tt.in); got != tt.want {
			t.Errorf("KeyOf(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRef(t *testing.T) {
	var got any
	node := Div(Ref(func(target any) { got = target }))
	ref := node.Ref()
	if ref == nil {
		t.Fatal("Ref() should return the callback")
	}
	ref("host")
	if got != "host" {
		t.Errorf("ref received %v", got)
	}
	if Div().Ref() != nil {
		t.Error("Ref() should be nil when none was requested")
	}
}
