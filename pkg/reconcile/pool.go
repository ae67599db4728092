package reconcile

import (
	"github.com/vango-dev/vtree/pkg/dom"
)

// pools holds detached host elements by tag and unmounted instances by
// class. Both are LIFO and bounded per bucket.
type pools struct {
	limit      int
	nodes      map[string][]*dom.Node
	components map[*Class][]*Instance
}

func newPools(limit int) *pools {
	return &pools{
		limit:      limit,
		nodes:      make(map[string][]*dom.Node),
		components: make(map[*Class][]*Instance),
	}
}

func poolKey(tag string, svg bool) string {
	if svg {
		return "svg:" + tag
	}
	return tag
}

// pushNode stores n under key. It reports false when the bucket is full
// or n is already pooled.
func (p *pools) pushNode(key string, n *dom.Node, st *nodeState) bool {
	if st.pooled || len(p.nodes[key]) >= p.limit {
		return false
	}
	st.pooled = true
	p.nodes[key] = append(p.nodes[key], n)
	return true
}

// popNode returns the most recently pooled node for key that belongs to
// doc. Nodes from other documents are dropped.
func (p *pools) popNode(key string, doc *dom.Document) *dom.Node {
	list := p.nodes[key]
	for len(list) > 0 {
		n := list[len(list)-1]
		list[len(list)-1] = nil
		list = list[:len(list)-1]
		stateOf(n).pooled = false
		if n.Document() == doc {
			p.nodes[key] = list
			return n
		}
	}
	delete(p.nodes, key)
	return nil
}

// pushComponent stores an unmounted instance. It reports false when the
// bucket is full or inst is already pooled.
func (p *pools) pushComponent(inst *Instance) bool {
	if inst.pooled || len(p.components[inst.class]) >= p.limit {
		return false
	}
	inst.pooled = true
	p.components[inst.class] = append(p.components[inst.class], inst)
	return true
}

// popComponent removes and returns the most recently pooled instance of
// class.
func (p *pools) popComponent(class *Class) *Instance {
	list := p.components[class]
	if len(list) == 0 {
		return nil
	}
	inst := list[len(list)-1]
	list[len(list)-1] = nil
	if len(list) == 1 {
		delete(p.components, class)
	} else {
		p.components[class] = list[:len(list)-1]
	}
	inst.pooled = false
	return inst
}

func (p *pools) sizes() (nodes, components int) {
	for _, l := range p.nodes {
		nodes += len(l)
	}
	for _, l := range p.components {
		components += len(l)
	}
	return nodes, components
}
