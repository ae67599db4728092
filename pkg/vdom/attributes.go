package vdom

import "strings"

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Identity attributes

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// Classes sets the class attribute from a map; classes mapped to true are
// emitted in sorted order.
func Classes(m map[string]bool) Attr { return attr("class", ClassMap(m)) }

// ClassName sets the class through its field alias.
func ClassName(name string) Attr { return attr("className", name) }

// StyleAttr sets the style attribute from CSS text.
func StyleAttr(style string) Attr { return attr("style", style) }

// Styles sets the style attribute from a property map. Property names are
// camelCase or kebab-case; numeric values get "px" unless unit-less.
func Styles(m map[string]any) Attr { return attr("style", StyleMap(m)) }

// Data creates a data-* attribute.
// Example: Data("id", "123") → data-id="123"
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Prop sets an arbitrary attribute or prop.
func Prop(key string, value any) Attr { return attr(key, value) }

// DangerouslySetInnerHTML replaces the element's content with parsed markup.
// Child descriptions are ignored while it is set.
func DangerouslySetInnerHTML(html string) Attr {
	return attr("dangerouslySetInnerHTML", InnerHTML{HTML: html})
}

// Accessibility attributes

// Role sets the role attribute.
func Role(role string) Attr { return attr("role", role) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Attr { return attr("aria-label", label) }

// AriaHidden sets the aria-hidden attribute.
func AriaHidden(hidden bool) Attr { return attr("aria-hidden", hidden) }

// TabIndex sets the tabindex attribute.
func TabIndex(index int) Attr { return attr("tabIndex", index) }

// Global attributes

// Hidden marks the element hidden.
func Hidden() Attr { return attr("hidden", true) }

// TitleAttr sets the title attribute.
func TitleAttr(title string) Attr { return attr("title", title) }

// Lang sets the lang attribute.
func Lang(lang string) Attr { return attr("lang", lang) }

// Link attributes

// Href sets the href attribute.
func Href(url string) Attr { return attr("href", url) }

// Target sets the target attribute.
func Target(target string) Attr { return attr("target", target) }

// Rel sets the rel attribute.
func Rel(rel string) Attr { return attr("rel", rel) }

// XLinkHref sets the namespaced xlink:href attribute used by SVG <use>.
func XLinkHref(ref string) Attr { return attr("xlink:href", ref) }

// Form attributes

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", name) }

// Value sets the live value field of form controls.
func Value(value any) Attr { return attr("value", value) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Placeholder sets the placeholder attribute.
func Placeholder(text string) Attr { return attr("placeholder", text) }

// For associates a label with a control.
func For(id string) Attr { return attr("for", id) }

// Disabled sets the disabled state.
func Disabled(disabled bool) Attr { return attr("disabled", disabled) }

// Checked sets the live checked field of checkboxes and radios.
func Checked(checked bool) Attr { return attr("checked", checked) }

// Selected sets the selected state of an option.
func Selected(selected bool) Attr { return attr("selected", selected) }

// Media attributes

// Src sets the src attribute.
func Src(url string) Attr { return attr("src", url) }

// Alt sets the alt attribute.
func Alt(text string) Attr { return attr("alt", text) }

// Misc

// DateTime sets the datetime attribute of <time>.
func DateTime(value string) Attr { return attr("dateTime", value) }
