package reconcile

import (
	"maps"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// nonDimension lists style properties whose numeric values take no unit.
var nonDimension = map[string]bool{
	"box-flex":       true,
	"box-flex-group": true,
	"column-count":   true,
	"fill-opacity":   true,
	"flex":           true,
	"flex-grow":      true,
	"flex-positive":  true,
	"flex-shrink":    true,
	"flex-negative":  true,
	"font-weight":    true,
	"line-clamp":     true,
	"line-height":    true,
	"opacity":        true,
	"order":          true,
	"orphans":        true,
	"stroke-opacity": true,
	"widows":         true,
	"z-index":        true,
	"zoom":           true,
}

var xlinkName = regexp.MustCompile(`^xlink:?(.+)`)

// diffAttributes brings n's properties from the old snapshot to attrs and
// updates the snapshot in place.
func (r *Runtime) diffAttributes(n *dom.Node, attrs, old vdom.Props) {
	for _, name := range slices.Sorted(maps.Keys(old)) {
		if _, ok := attrs[name]; !ok && old[name] != nil {
			r.setAccessor(n, name, old[name], nil)
			old[name] = nil
		}
	}
	for _, name := range slices.Sorted(maps.Keys(attrs)) {
		if name == "children" || name == "innerHTML" {
			continue
		}
		prev, had := old[name]
		if had && !r.changed(n, name, prev, attrs[name]) {
			continue
		}
		r.setAccessor(n, name, prev, attrs[name])
		old[name] = attrs[name]
	}
}

// changed compares a new prop value with the node. value and checked are
// compared with the live field so user edits are overwritten.
func (r *Runtime) changed(n *dom.Node, name string, prev, next any) bool {
	if (name == "value" || name == "checked") && n.HasField(name) {
		return !n.FieldEquals(name, next)
	}
	if isFunc(prev) || isFunc(next) {
		return true
	}
	return !reflect.DeepEqual(prev, next)
}

// setAccessor applies one prop to n. value is nil when the prop was
// removed.
func (r *Runtime) setAccessor(n *dom.Node, name string, old, value any) {
	svg := r.svgMode || n.Namespace() == dom.NamespaceSVG
	if name == "className" {
		name = "class"
	}
	if name == "class" {
		value = flattenClass(value)
	}

	switch {
	case name == "key" || name == "ref":
	case name == "class" && !svg:
		s := ""
		if truthy(value) {
			s = vdom.Stringify(value)
		}
		r.setField(n, "className", s)
	case name == "style":
		setStyle(n.Style(), old, value)
	case name == "dangerouslySetInnerHTML":
		if html, ok := innerHTML(value); ok {
			if err := n.SetInnerHTML(html); err != nil {
				r.logger.Warn("raw markup rejected", "tag", n.Tag(), "error", err)
			}
		}
	case len(name) > 2 && strings.HasPrefix(name, "on"):
		r.setListener(n, strings.ToLower(name[2:]), value)
	case name != "list" && name != "type" && !svg && n.HasField(name):
		r.setField(n, name, value)
		if value == nil || value == false {
			n.RemoveAttribute(name)
		}
	default:
		ns, local := "", name
		if svg {
			if m := xlinkName.FindStringSubmatch(name); m != nil {
				ns, local = dom.NamespaceXLink, strings.ToLower(m[1])
			}
		}
		switch {
		case value == nil || value == false:
			n.RemoveAttributeNS(ns, local)
		case isScalar(value):
			n.SetAttributeNS(ns, local, vdom.Stringify(value))
		}
	}
}

// setField assigns a host field. Rejections are expected for odd values
// and are only logged.
func (r *Runtime) setField(n *dom.Node, name string, value any) {
	if err := n.SetField(name, value); err != nil {
		r.logger.Debug("field assignment rejected",
			"tag", n.Tag(),
			"field", name,
			"error", err,
		)
	}
}

// setStyle applies a style prop: strings replace the whole declaration,
// maps update individual properties.
func setStyle(s *dom.Style, old, value any) {
	_, oldIsText := old.(string)
	if text, isText := value.(string); !truthy(value) || isText || oldIsText {
		s.SetCSSText(text)
	}
	next, ok := styleMap(value)
	if !ok {
		return
	}
	if !oldIsText {
		if prev, ok := styleMap(old); ok {
			for _, k := range slices.Sorted(maps.Keys(prev)) {
				if _, keep := next[k]; !keep {
					s.Set(k, "")
				}
			}
		}
	}
	for _, k := range slices.Sorted(maps.Keys(next)) {
		s.Set(k, styleValue(k, next[k]))
	}
}

func styleMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case vdom.StyleMap:
		return m, true
	case map[string]any:
		return m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out, true
	}
	return nil, false
}

func styleValue(name string, v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case int, int64, int32, float64, float32:
		if nonDimension[dom.CSSName(name)] {
			return vdom.Stringify(x)
		}
		return vdom.Stringify(x) + "px"
	}
	return vdom.Stringify(v)
}

// flattenClass turns structured class values into a space-separated
// string.
func flattenClass(v any) any {
	switch c := v.(type) {
	case vdom.ClassMap:
		return joinClasses(c)
	case map[string]bool:
		return joinClasses(c)
	case map[string]any:
		m := make(map[string]bool, len(c))
		for k, on := range c {
			m[k] = truthy(on)
		}
		return joinClasses(m)
	case []string:
		return strings.Join(c, " ")
	}
	return v
}

func joinClasses(m map[string]bool) string {
	var names []string
	for _, k := range slices.Sorted(maps.Keys(m)) {
		if m[k] {
			names = append(names, k)
		}
	}
	return strings.Join(names, " ")
}

func innerHTML(v any) (string, bool) {
	switch x := v.(type) {
	case vdom.InnerHTML:
		return x.HTML, true
	case *vdom.InnerHTML:
		if x != nil {
			return x.HTML, true
		}
	case map[string]any:
		if s, ok := x["__html"].(string); ok {
			return s, true
		}
	}
	return "", false
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case int:
		return x != 0
	case float64:
		return x != 0
	}
	return true
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}

func isFunc(v any) bool {
	return v != nil && reflect.TypeOf(v).Kind() == reflect.Func
}
