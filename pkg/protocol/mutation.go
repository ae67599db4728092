package protocol

import (
	"errors"
	"fmt"

	"github.com/vango-dev/vtree/pkg/dom"
)

// ErrInvalidMutation is returned when a batch carries an unknown op.
var ErrInvalidMutation = errors.New("protocol: invalid mutation")

// Mutation is the wire form of a dom.Mutation. Nodes are referenced by
// their document IDs; zero means "none".
type Mutation struct {
	Op        dom.MutationOp
	Target    uint64
	Parent    uint64
	Before    uint64
	Text      bool // Create: the target is a text node
	Name      string
	Namespace string
	Value     string
}

// FromDOM converts a recorded host mutation to its wire form.
func FromDOM(m dom.Mutation) Mutation {
	return Mutation{
		Op:        m.Op,
		Target:    nodeID(m.Target),
		Parent:    nodeID(m.Parent),
		Before:    nodeID(m.Before),
		Text:      m.Op == dom.OpCreate && m.Target != nil && m.Target.IsText(),
		Name:      m.Name,
		Namespace: m.Namespace,
		Value:     m.Value,
	}
}

func nodeID(n *dom.Node) uint64 {
	if n == nil {
		return 0
	}
	return n.ID()
}

// String returns a compact description used in logs and test failures.
func (m Mutation) String() string {
	switch m.Op {
	case dom.OpCreate:
		if m.Text {
			return fmt.Sprintf("Create #%d text %q", m.Target, m.Value)
		}
		return fmt.Sprintf("Create #%d <%s>", m.Target, m.Name)
	case dom.OpInsert:
		return fmt.Sprintf("Insert #%d into #%d before #%d", m.Target, m.Parent, m.Before)
	case dom.OpRemove:
		return fmt.Sprintf("Remove #%d from #%d", m.Target, m.Parent)
	default:
		return fmt.Sprintf("%s #%d %s=%q", m.Op, m.Target, m.Name, m.Value)
	}
}

// Batch is an ordered list of mutations produced by one flush or render.
type Batch struct {
	Seq       uint64
	Mutations []Mutation
}

// EncodeBatch encodes a batch to bytes.
func EncodeBatch(b *Batch) []byte {
	e := NewEncoder()
	EncodeBatchTo(e, b)
	return e.Bytes()
}

// EncodeBatchTo encodes a batch using the provided encoder.
//
// Each mutation is an op byte and the target ID followed by the fields
// its op uses:
//
//	Create         bool text, then value (text) or name, namespace
//	Insert         parent, before
//	Remove         parent
//	SetText        value
//	SetAttr        name, namespace, value
//	RemoveAttr     name, namespace
//	SetStyle       name, value
//	SetField       name, value
//	Add/RemoveListener name
func EncodeBatchTo(e *Encoder, b *Batch) {
	e.WriteUvarint(b.Seq)
	e.WriteUvarint(uint64(len(b.Mutations)))
	for i := range b.Mutations {
		encodeMutation(e, &b.Mutations[i])
	}
}

func encodeMutation(e *Encoder, m *Mutation) {
	e.WriteByte(byte(m.Op))
	e.WriteUvarint(m.Target)
	switch m.Op {
	case dom.OpCreate:
		e.WriteBool(m.Text)
		if m.Text {
			e.WriteString(m.Value)
		} else {
			e.WriteString(m.Name)
			e.WriteString(m.Namespace)
		}
	case dom.OpInsert:
		e.WriteUvarint(m.Parent)
		e.WriteUvarint(m.Before)
	case dom.OpRemove:
		e.WriteUvarint(m.Parent)
	case dom.OpSetText:
		e.WriteString(m.Value)
	case dom.OpSetAttr:
		e.WriteString(m.Name)
		e.WriteString(m.Namespace)
		e.WriteString(m.Value)
	case dom.OpRemoveAttr:
		e.WriteString(m.Name)
		e.WriteString(m.Namespace)
	case dom.OpSetStyle, dom.OpSetField:
		e.WriteString(m.Name)
		e.WriteString(m.Value)
	case dom.OpAddListener, dom.OpRemoveListener:
		e.WriteString(m.Name)
	}
}

// DecodeBatch decodes a batch that fills data exactly.
func DecodeBatch(data []byte) (*Batch, error) {
	d := NewDecoder(data)
	b, err := DecodeBatchFrom(d)
	if err != nil {
		return nil, err
	}
	if err := d.finish(); err != nil {
		return nil, err
	}
	return b, nil
}

// DecodeBatchFrom decodes a batch from a decoder.
func DecodeBatchFrom(d *Decoder) (*Batch, error) {
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	count, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}
	b := &Batch{Seq: seq, Mutations: make([]Mutation, count)}
	for i := range b.Mutations {
		if err := decodeMutation(d, &b.Mutations[i]); err != nil {
			return nil, fmt.Errorf("mutation %d: %w", i, err)
		}
	}
	return b, nil
}

func decodeMutation(d *Decoder, m *Mutation) (err error) {
	op, err := d.ReadByte()
	if err != nil {
		return err
	}
	m.Op = dom.MutationOp(op)
	if m.Target, err = d.ReadUvarint(); err != nil {
		return err
	}

	str := func(dst *string) {
		if err == nil {
			*dst, err = d.ReadString()
		}
	}
	id := func(dst *uint64) {
		if err == nil {
			*dst, err = d.ReadUvarint()
		}
	}

	switch m.Op {
	case dom.OpCreate:
		if m.Text, err = d.ReadBool(); err != nil {
			return err
		}
		if m.Text {
			str(&m.Value)
		} else {
			str(&m.Name)
			str(&m.Namespace)
		}
	case dom.OpInsert:
		id(&m.Parent)
		id(&m.Before)
	case dom.OpRemove:
		id(&m.Parent)
	case dom.OpSetText:
		str(&m.Value)
	case dom.OpSetAttr:
		str(&m.Name)
		str(&m.Namespace)
		str(&m.Value)
	case dom.OpRemoveAttr:
		str(&m.Name)
		str(&m.Namespace)
	case dom.OpSetStyle, dom.OpSetField:
		str(&m.Name)
		str(&m.Value)
	case dom.OpAddListener, dom.OpRemoveListener:
		str(&m.Name)
	default:
		return fmt.Errorf("%w: op 0x%02x", ErrInvalidMutation, op)
	}
	return err
}
