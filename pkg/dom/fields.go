package dom

import (
	"fmt"
	"math"
	"strconv"

	"github.com/vango-dev/vtree/internal/errors"
)

// ErrFieldRejected matches errors returned by SetField when the host
// refuses a value.
var ErrFieldRejected = errors.New("E040")

type fieldKind uint8

const (
	stringField fieldKind = iota
	boolField
	intField
)

// fieldSpec describes one settable field. Reflected fields live in an
// attribute; the rest are live state kept on the node.
type fieldSpec struct {
	kind     fieldKind
	attr     string
	reflect  bool
	readOnly bool
}

func reflected(kind fieldKind, attr string) fieldSpec {
	return fieldSpec{kind: kind, attr: attr, reflect: true}
}

func live(kind fieldKind, attr string) fieldSpec {
	return fieldSpec{kind: kind, attr: attr}
}

var globalFields = map[string]fieldSpec{
	"id":        reflected(stringField, "id"),
	"className": reflected(stringField, "class"),
	"title":     reflected(stringField, "title"),
	"lang":      reflected(stringField, "lang"),
	"dir":       reflected(stringField, "dir"),
	"hidden":    reflected(boolField, "hidden"),
	"tabIndex":  reflected(intField, "tabindex"),
	"accessKey": reflected(stringField, "accesskey"),
	"tagName":   {kind: stringField, readOnly: true},
	"nodeName":  {kind: stringField, readOnly: true},
}

var tagFields = map[string]map[string]fieldSpec{
	"input": {
		"value":       live(stringField, "value"),
		"checked":     live(boolField, "checked"),
		"type":        reflected(stringField, "type"),
		"name":        reflected(stringField, "name"),
		"disabled":    reflected(boolField, "disabled"),
		"placeholder": reflected(stringField, "placeholder"),
		"readOnly":    reflected(boolField, "readonly"),
		"required":    reflected(boolField, "required"),
		"multiple":    reflected(boolField, "multiple"),
		"autofocus":   reflected(boolField, "autofocus"),
		"min":         reflected(stringField, "min"),
		"max":         reflected(stringField, "max"),
		"step":        reflected(stringField, "step"),
		"list":        {kind: stringField, readOnly: true},
	},
	"textarea": {
		"value":       live(stringField, "value"),
		"name":        reflected(stringField, "name"),
		"disabled":    reflected(boolField, "disabled"),
		"placeholder": reflected(stringField, "placeholder"),
		"readOnly":    reflected(boolField, "readonly"),
		"required":    reflected(boolField, "required"),
		"rows":        reflected(intField, "rows"),
		"cols":        reflected(intField, "cols"),
	},
	"select": {
		"value":    live(stringField, "value"),
		"name":     reflected(stringField, "name"),
		"disabled": reflected(boolField, "disabled"),
		"multiple": reflected(boolField, "multiple"),
		"required": reflected(boolField, "required"),
	},
	"option": {
		"value":    reflected(stringField, "value"),
		"selected": live(boolField, "selected"),
		"disabled": reflected(boolField, "disabled"),
		"label":    reflected(stringField, "label"),
	},
	"button": {
		"type":     reflected(stringField, "type"),
		"name":     reflected(stringField, "name"),
		"value":    reflected(stringField, "value"),
		"disabled": reflected(boolField, "disabled"),
	},
	"a": {
		"href":     reflected(stringField, "href"),
		"target":   reflected(stringField, "target"),
		"rel":      reflected(stringField, "rel"),
		"download": reflected(stringField, "download"),
	},
	"img": {
		"src":    reflected(stringField, "src"),
		"alt":    reflected(stringField, "alt"),
		"width":  reflected(intField, "width"),
		"height": reflected(intField, "height"),
	},
	"form": {
		"action":     reflected(stringField, "action"),
		"method":     reflected(stringField, "method"),
		"noValidate": reflected(boolField, "novalidate"),
	},
	"label": {
		"htmlFor": reflected(stringField, "for"),
	},
	"time": {
		"dateTime": reflected(stringField, "datetime"),
	},
}

func (n *Node) fieldSpec(name string) (fieldSpec, bool) {
	if n.typ != ElementNode || n.ns != NamespaceHTML {
		return fieldSpec{}, false
	}
	if spec, ok := tagFields[n.tag][name]; ok {
		return spec, true
	}
	spec, ok := globalFields[name]
	return spec, ok
}

// HasField reports whether name is a field of this element. Only HTML
// elements have fields.
func (n *Node) HasField(name string) bool {
	_, ok := n.fieldSpec(name)
	return ok
}

// Field returns the current field value: a string, bool or int depending on
// the field, or nil for unknown names.
func (n *Node) Field(name string) any {
	spec, ok := n.fieldSpec(name)
	if !ok {
		return nil
	}
	if spec.readOnly {
		switch name {
		case "tagName", "nodeName":
			return n.tag
		}
		return ""
	}
	if !spec.reflect {
		if v, ok := n.fields[name]; ok {
			return v
		}
	}
	raw, present := n.GetAttribute(spec.attr)
	switch spec.kind {
	case boolField:
		return present
	case intField:
		i, _ := strconv.Atoi(raw)
		return i
	default:
		return raw
	}
}

// SetField assigns a field. Values are coerced to the field's kind; a nil
// value assigns the zero value. Values that cannot be coerced, read-only
// fields and unknown names yield an error matching ErrFieldRejected.
func (n *Node) SetField(name string, value any) error {
	spec, ok := n.fieldSpec(name)
	if !ok {
		return errors.New("E040").WithDetailf("<%s> has no field %q", n.tag, name)
	}
	if spec.readOnly {
		return errors.New("E040").WithDetailf("<%s>.%s is read-only", n.tag, name)
	}
	v, err := coerce(spec.kind, value)
	if err != nil {
		return errors.New("E040").WithDetailf("<%s>.%s: %v", n.tag, name, err)
	}

	if spec.reflect {
		switch x := v.(type) {
		case bool:
			if x {
				n.putAttr("", spec.attr, "")
			} else {
				n.dropAttr("", spec.attr)
			}
		case int:
			n.putAttr("", spec.attr, strconv.Itoa(x))
		case string:
			n.putAttr("", spec.attr, x)
		}
	} else {
		if n.fields == nil {
			n.fields = make(map[string]any)
		}
		n.fields[name] = v
	}
	n.doc.emit(Mutation{Op: OpSetField, Target: n, Name: name, Value: fmt.Sprint(v)})
	return nil
}

// FieldEquals reports whether value, coerced to the field's kind, equals the
// current field value.
func (n *Node) FieldEquals(name string, value any) bool {
	spec, ok := n.fieldSpec(name)
	if !ok {
		return false
	}
	v, err := coerce(spec.kind, value)
	if err != nil {
		return false
	}
	return v == n.Field(name)
}

func coerce(kind fieldKind, value any) (any, error) {
	switch kind {
	case boolField:
		switch x := value.(type) {
		case nil:
			return false, nil
		case bool:
			return x, nil
		}
	case intField:
		switch x := value.(type) {
		case nil:
			return 0, nil
		case int:
			return x, nil
		case int64:
			return int(x), nil
		case int32:
			return int(x), nil
		case float64:
			if x == math.Trunc(x) {
				return int(x), nil
			}
		case string:
			if i, err := strconv.Atoi(x); err == nil {
				return i, nil
			}
		}
	default:
		switch x := value.(type) {
		case nil:
			return "", nil
		case string:
			return x, nil
		case bool:
			return strconv.FormatBool(x), nil
		case int:
			return strconv.Itoa(x), nil
		case int64:
			return strconv.FormatInt(x, 10), nil
		case float64:
			return strconv.FormatFloat(x, 'f', -1, 64), nil
		case fmt.Stringer:
			return x.String(), nil
		}
	}
	return nil, fmt.Errorf("cannot assign %T", value)
}
