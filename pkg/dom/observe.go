package dom

// MutationOp identifies a kind of host mutation.
type MutationOp uint8

const (
	OpCreate MutationOp = iota + 1
	OpInsert
	OpRemove
	OpSetText
	OpSetAttr
	OpRemoveAttr
	OpSetStyle
	OpSetField
	OpAddListener
	OpRemoveListener
)

// String returns the string representation of the MutationOp.
func (op MutationOp) String() string {
	switch op {
	case OpCreate:
		return "Create"
	case OpInsert:
		return "Insert"
	case OpRemove:
		return "Remove"
	case OpSetText:
		return "SetText"
	case OpSetAttr:
		return "SetAttr"
	case OpRemoveAttr:
		return "RemoveAttr"
	case OpSetStyle:
		return "SetStyle"
	case OpSetField:
		return "SetField"
	case OpAddListener:
		return "AddListener"
	case OpRemoveListener:
		return "RemoveListener"
	default:
		return "Unknown"
	}
}

// Mutation records one change to a document.
//
//	Create:     Target, Name (tag) and Namespace, or Value (text)
//	Insert:     Target moved under Parent before Before (nil = append)
//	Remove:     Target detached from Parent
//	SetText:    Value
//	SetAttr:    Name, Namespace, Value
//	RemoveAttr: Name, Namespace
//	SetStyle:   Name and Value, or only Value for a full cssText reset
//	SetField:   Name, Value (formatted)
//	Add/RemoveListener: Name (event type)
type Mutation struct {
	Op        MutationOp
	Target    *Node
	Parent    *Node
	Before    *Node
	Name      string
	Namespace string
	Value     string
}

type observer struct {
	fn func(Mutation)
}

// Observe registers fn to receive every mutation of the document. The
// returned function unregisters it.
func (d *Document) Observe(fn func(Mutation)) (cancel func()) {
	o := &observer{fn: fn}
	d.observers = append(d.observers, o)
	return func() {
		for i, cur := range d.observers {
			if cur == o {
				d.observers = append(d.observers[:i], d.observers[i+1:]...)
				return
			}
		}
	}
}

func (d *Document) emit(m Mutation) {
	for _, o := range d.observers {
		o.fn(m)
	}
}

// Recorder collects mutations for inspection.
type Recorder struct {
	Mutations []Mutation
	cancel    func()
}

// Record starts recording the document's mutations.
func Record(d *Document) *Recorder {
	r := &Recorder{}
	r.cancel = d.Observe(func(m Mutation) {
		r.Mutations = append(r.Mutations, m)
	})
	return r
}

// Count returns how many recorded mutations have the given op.
func (r *Recorder) Count(op MutationOp) int {
	n := 0
	for _, m := range r.Mutations {
		if m.Op == op {
			n++
		}
	}
	return n
}

// Reset forgets recorded mutations.
func (r *Recorder) Reset() {
	r.Mutations = nil
}

// Stop ends recording.
func (r *Recorder) Stop() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}
