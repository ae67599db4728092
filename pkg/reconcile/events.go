package reconcile

import (
	"maps"
	"slices"
	"strings"

	"github.com/vango-dev/vtree/pkg/dom"
)

// captureEvents are registered in the capture phase because they do not
// bubble to the node that declared them.
var captureEvents = map[string]bool{
	"blur":       true,
	"error":      true,
	"focus":      true,
	"load":       true,
	"mouseenter": true,
	"mouseleave": true,
	"resize":     true,
	"scroll":     true,
}

// eventProxy is the single host listener the runtime registers. It looks
// the handler up on the current target when the event fires, so changing
// a handler never touches the host listener table.
type eventProxy struct {
	r *Runtime
}

// HandleEvent implements dom.EventListener.
func (p *eventProxy) HandleEvent(e *dom.Event) {
	st := peek(e.CurrentTarget)
	if st == nil {
		return
	}
	h, ok := st.listeners[e.Type]
	if !ok {
		return
	}
	if p.r.hooks.Event != nil {
		if replaced := p.r.hooks.Event(e); replaced != nil {
			e = replaced
		}
	}
	p.r.report(p.r.run("event", false, func() {
		callHandler(h, e)
	}))
}

func callHandler(h any, e *dom.Event) {
	switch fn := h.(type) {
	case func(*dom.Event):
		fn(e)
	case func():
		fn()
	case dom.EventListener:
		fn.HandleEvent(e)
	}
}

func isHandler(v any) bool {
	switch v.(type) {
	case func(*dom.Event), func(), dom.EventListener:
		return true
	}
	return false
}

// setListener points the proxy for name at handler, registering the proxy
// on first use and removing it when handler is not callable.
func (r *Runtime) setListener(n *dom.Node, name string, handler any) {
	st := stateOf(n)
	capture := captureEvents[name]
	if isHandler(handler) {
		if _, ok := st.listeners[name]; !ok {
			n.AddEventListener(name, r.proxy, capture)
		}
		if st.listeners == nil {
			st.listeners = make(map[string]any)
		}
		st.listeners[name] = handler
		return
	}
	if _, ok := st.listeners[name]; ok {
		n.RemoveEventListener(name, r.proxy, capture)
		delete(st.listeners, name)
	}
}

// detachListeners removes every proxy registration from n and forgets the
// handlers recorded in its snapshot.
func (r *Runtime) detachListeners(n *dom.Node, st *nodeState) {
	for _, name := range slices.Sorted(maps.Keys(st.listeners)) {
		n.RemoveEventListener(name, r.proxy, captureEvents[name])
	}
	st.listeners = nil
	for k, v := range st.attrs {
		if len(k) > 2 && strings.HasPrefix(k, "on") && isHandler(v) {
			delete(st.attrs, k)
		}
	}
}
