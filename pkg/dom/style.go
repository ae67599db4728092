package dom

import "strings"

// Style is an element's inline style declaration. Property names are
// accepted in camelCase or kebab-case and stored kebab-case.
type Style struct {
	owner *Node
	props []styleProp
}

type styleProp struct {
	name  string
	value string
}

// Style returns the element's style declaration. Text nodes return nil.
func (n *Node) Style() *Style {
	return n.style
}

// Get returns the value of a property, or "" when unset.
func (s *Style) Get(name string) string {
	name = CSSName(name)
	for _, p := range s.props {
		if p.name == name {
			return p.value
		}
	}
	return ""
}

// Set assigns a property. An empty value removes it.
func (s *Style) Set(name, value string) {
	name = CSSName(name)
	if !s.put(name, value) {
		return
	}
	s.sync()
	s.owner.doc.emit(Mutation{Op: OpSetStyle, Target: s.owner, Name: name, Value: value})
}

// Len returns the number of set properties.
func (s *Style) Len() int {
	return len(s.props)
}

// Names returns the set property names in declaration order.
func (s *Style) Names() []string {
	out := make([]string, len(s.props))
	for i, p := range s.props {
		out[i] = p.name
	}
	return out
}

// CSSText serialises the declaration ("color: red; margin: 0").
func (s *Style) CSSText() string {
	parts := make([]string, len(s.props))
	for i, p := range s.props {
		parts[i] = p.name + ": " + p.value
	}
	return strings.Join(parts, "; ")
}

// SetCSSText replaces the whole declaration.
func (s *Style) SetCSSText(text string) {
	s.parse(text)
	s.sync()
	s.owner.doc.emit(Mutation{Op: OpSetStyle, Value: text, Target: s.owner})
}

func (s *Style) parse(text string) {
	s.props = nil
	for _, decl := range strings.Split(text, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if name == "" || value == "" {
			continue
		}
		s.put(CSSName(name), value)
	}
}

// put reports whether the declaration changed.
func (s *Style) put(name, value string) bool {
	for i, p := range s.props {
		if p.name != name {
			continue
		}
		if value == "" {
			s.props = append(s.props[:i], s.props[i+1:]...)
			return true
		}
		if p.value == value {
			return false
		}
		s.props[i].value = value
		return true
	}
	if value == "" {
		return false
	}
	s.props = append(s.props, styleProp{name: name, value: value})
	return true
}

func (s *Style) sync() {
	if len(s.props) == 0 {
		s.owner.dropAttr("", "style")
		return
	}
	s.owner.putAttr("", "style", s.CSSText())
}

// CSSName converts a camelCase property name to kebab-case. Custom
// properties ("--x") and names already containing dashes are kept.
func CSSName(name string) string {
	if strings.HasPrefix(name, "--") {
		return name
	}
	var b strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'A' && c <= 'Z' {
			b.WriteByte('-')
			b.WriteByte(c + ('a' - 'A'))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
