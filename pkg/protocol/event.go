package protocol

// Event is a DOM event reported by a client for a node it mirrors.
//
// Value and Checked carry the control state at the time of the event so
// the server can update its host node before dispatching, the way a
// browser updates an input before firing "input".
type Event struct {
	Target     uint64
	Type       string
	HasValue   bool
	Value      string
	HasChecked bool
	Checked    bool
}

const (
	eventHasValue   byte = 0x01
	eventHasChecked byte = 0x02
	eventChecked    byte = 0x04
)

// EncodeEvent encodes an event to bytes.
func EncodeEvent(ev *Event) []byte {
	e := NewEncoder()
	EncodeEventTo(e, ev)
	return e.Bytes()
}

// EncodeEventTo encodes an event using the provided encoder.
//
// Format: target varint, type string, flags byte, value string when
// flagged.
func EncodeEventTo(e *Encoder, ev *Event) {
	e.WriteUvarint(ev.Target)
	e.WriteString(ev.Type)
	var flags byte
	if ev.HasValue {
		flags |= eventHasValue
	}
	if ev.HasChecked {
		flags |= eventHasChecked
		if ev.Checked {
			flags |= eventChecked
		}
	}
	e.WriteByte(flags)
	if ev.HasValue {
		e.WriteString(ev.Value)
	}
}

// DecodeEvent decodes an event that fills data exactly.
func DecodeEvent(data []byte) (*Event, error) {
	d := NewDecoder(data)
	ev, err := DecodeEventFrom(d)
	if err != nil {
		return nil, err
	}
	if err := d.finish(); err != nil {
		return nil, err
	}
	return ev, nil
}

// DecodeEventFrom decodes an event from a decoder.
func DecodeEventFrom(d *Decoder) (*Event, error) {
	var ev Event
	var err error
	if ev.Target, err = d.ReadUvarint(); err != nil {
		return nil, err
	}
	if ev.Type, err = d.ReadString(); err != nil {
		return nil, err
	}
	flags, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	ev.HasValue = flags&eventHasValue != 0
	ev.HasChecked = flags&eventHasChecked != 0
	ev.Checked = flags&eventChecked != 0
	if ev.HasValue {
		if ev.Value, err = d.ReadString(); err != nil {
			return nil, err
		}
	}
	return &ev, nil
}
