package protocol

import (
	"fmt"

	"github.com/vango-dev/vtree/pkg/dom"
)

// liveFields lists, per tag, the fields whose state is not visible in
// attributes.
var liveFields = map[string][]string{
	"input":    {"value", "checked"},
	"textarea": {"value"},
	"select":   {"value"},
	"option":   {"selected"},
}

// Snapshot returns a batch that rebuilds the children of root in an empty
// mirror created with NewMirror(root.ID()), including the listener
// registrations a client needs to forward events. Send it with
// FlagSnapshot to a client that connects after the first render.
func Snapshot(root *dom.Node, seq uint64) *Batch {
	b := &Batch{Seq: seq}
	for _, c := range root.Children() {
		snapshotNode(b, c)
		b.Mutations = append(b.Mutations, Mutation{Op: dom.OpInsert, Target: c.ID(), Parent: root.ID()})
	}
	return b
}

func snapshotNode(b *Batch, n *dom.Node) {
	if n.IsText() {
		b.Mutations = append(b.Mutations, Mutation{Op: dom.OpCreate, Target: n.ID(), Text: true, Value: n.Data()})
		return
	}
	b.Mutations = append(b.Mutations, Mutation{Op: dom.OpCreate, Target: n.ID(), Name: n.Tag(), Namespace: n.Namespace()})
	for _, a := range n.Attributes() {
		b.Mutations = append(b.Mutations, Mutation{
			Op: dom.OpSetAttr, Target: n.ID(), Name: a.Name, Namespace: a.Namespace, Value: a.Value,
		})
	}
	for _, name := range liveFields[n.Tag()] {
		if !n.HasField(name) {
			continue
		}
		b.Mutations = append(b.Mutations, Mutation{
			Op: dom.OpSetField, Target: n.ID(), Name: name, Value: fmt.Sprint(n.Field(name)),
		})
	}
	for _, typ := range n.ListenerTypes() {
		b.Mutations = append(b.Mutations, Mutation{Op: dom.OpAddListener, Target: n.ID(), Name: typ})
	}
	for _, c := range n.Children() {
		snapshotNode(b, c)
		b.Mutations = append(b.Mutations, Mutation{Op: dom.OpInsert, Target: c.ID(), Parent: n.ID()})
	}
}
