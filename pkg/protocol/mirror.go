package protocol

import (
	stderrors "errors"
	"fmt"
	"strconv"

	"github.com/vango-dev/vtree/pkg/dom"
)

// ErrUnknownNode is returned when a mutation references a node the
// mirror has not seen created.
var ErrUnknownNode = stderrors.New("protocol: unknown node")

// Mirror replays batches into a document of its own, reproducing the
// source tree. The browser preview client does the same thing in
// JavaScript; Mirror is the reference implementation and the test oracle
// for the encoder.
type Mirror struct {
	doc   *dom.Document
	nodes map[uint64]*dom.Node
}

// NewMirror creates a mirror whose document root stands in for the source
// node with ID rootID, usually the mount parent.
func NewMirror(rootID uint64) *Mirror {
	doc := dom.NewDocument()
	return &Mirror{
		doc:   doc,
		nodes: map[uint64]*dom.Node{rootID: doc.Root()},
	}
}

// Root returns the mirror's stand-in for the source root.
func (m *Mirror) Root() *dom.Node {
	return m.doc.Root()
}

// Node returns the mirror node for a source ID.
func (m *Mirror) Node(id uint64) (*dom.Node, bool) {
	n, ok := m.nodes[id]
	return n, ok
}

// Apply replays b. It stops at the first mutation that cannot be applied;
// earlier mutations stay applied.
func (m *Mirror) Apply(b *Batch) error {
	for i := range b.Mutations {
		if err := m.apply(&b.Mutations[i]); err != nil {
			return fmt.Errorf("batch %d mutation %d (%s): %w", b.Seq, i, b.Mutations[i], err)
		}
	}
	return nil
}

func (m *Mirror) lookup(id uint64) (*dom.Node, error) {
	if id == 0 {
		return nil, nil
	}
	n, ok := m.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w #%d", ErrUnknownNode, id)
	}
	return n, nil
}

func (m *Mirror) apply(mu *Mutation) (err error) {
	if mu.Op == dom.OpCreate {
		if mu.Text {
			m.nodes[mu.Target] = m.doc.CreateTextNode(mu.Value)
		} else {
			m.nodes[mu.Target] = m.doc.CreateElementNS(mu.Namespace, mu.Name)
		}
		return nil
	}

	target, err := m.lookup(mu.Target)
	if err != nil {
		return err
	}
	if target == nil {
		return fmt.Errorf("%w #0", ErrUnknownNode)
	}

	// Hierarchy violations panic in the host tree.
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()

	switch mu.Op {
	case dom.OpInsert:
		parent, err := m.lookup(mu.Parent)
		if err != nil {
			return err
		}
		before, err := m.lookup(mu.Before)
		if err != nil {
			return err
		}
		parent.InsertBefore(target, before)
	case dom.OpRemove:
		target.Remove()
	case dom.OpSetText:
		target.SetData(mu.Value)
	case dom.OpSetAttr:
		target.SetAttributeNS(mu.Namespace, mu.Name, mu.Value)
	case dom.OpRemoveAttr:
		target.RemoveAttributeNS(mu.Namespace, mu.Name)
	case dom.OpSetStyle:
		if mu.Name == "" {
			target.Style().SetCSSText(mu.Value)
		} else {
			target.Style().Set(mu.Name, mu.Value)
		}
	case dom.OpSetField:
		if err := target.SetField(mu.Name, mu.Value); err != nil {
			b, perr := strconv.ParseBool(mu.Value)
			if perr != nil {
				return err
			}
			return target.SetField(mu.Name, b)
		}
	case dom.OpAddListener, dom.OpRemoveListener:
		// Listeners live on the source; the mirror only tracks structure.
	default:
		return fmt.Errorf("%w: op %d", ErrInvalidMutation, mu.Op)
	}
	return nil
}
