package protocol

import (
	"errors"
	"io"
)

// Frame constants.
const (
	// FrameHeaderSize is the size of the frame header in bytes.
	FrameHeaderSize = 6

	// MaxPayloadSize bounds a single frame payload (8MB).
	MaxPayloadSize = 8 << 20
)

// FrameType identifies the type of frame.
type FrameType uint8

const (
	FrameBatch FrameType = 0x01 // Server → client mutation batch
	FrameEvent FrameType = 0x02 // Client → server DOM event
	FrameError FrameType = 0x03 // Error message, either direction
)

// String returns the string representation of the frame type.
func (ft FrameType) String() string {
	switch ft {
	case FrameBatch:
		return "Batch"
	case FrameEvent:
		return "Event"
	case FrameError:
		return "Error"
	default:
		return "Unknown"
	}
}

// FrameFlags are optional flags for frame processing.
type FrameFlags uint8

const (
	// FlagSnapshot marks a batch that rebuilds the whole tree from an empty
	// mirror, sent when a client connects.
	FlagSnapshot FrameFlags = 0x01
)

// Has returns true if the flags contain the specified flag.
func (ff FrameFlags) Has(flag FrameFlags) bool {
	return ff&flag != 0
}

// Frame errors.
var (
	ErrFrameTooLarge    = errors.New("protocol: frame payload too large")
	ErrInvalidFrameType = errors.New("protocol: invalid frame type")
)

// Frame represents a protocol frame with header and payload.
//
// Wire format (6 bytes header + variable payload):
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (4 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
type Frame struct {
	Type    FrameType
	Flags   FrameFlags
	Payload []byte
}

// NewFrame creates a frame with no flags.
func NewFrame(ft FrameType, payload []byte) *Frame {
	return &Frame{Type: ft, Payload: payload}
}

// Encode encodes the frame to bytes including the header.
func (f *Frame) Encode() []byte {
	e := &Encoder{buf: make([]byte, 0, FrameHeaderSize+len(f.Payload))}
	e.WriteByte(byte(f.Type))
	e.WriteByte(byte(f.Flags))
	e.WriteUint32(uint32(len(f.Payload)))
	e.WriteBytes(f.Payload)
	return e.Bytes()
}

func validType(ft FrameType) bool {
	return ft >= FrameBatch && ft <= FrameError
}

// DecodeFrame decodes one frame that fills data exactly.
func DecodeFrame(data []byte) (*Frame, error) {
	d := NewDecoder(data)
	f, err := decodeHeader(d)
	if err != nil {
		return nil, err
	}
	if d.Remaining() < len(f.Payload) {
		return nil, io.ErrUnexpectedEOF
	}
	if d.Remaining() > len(f.Payload) {
		return nil, ErrTrailingBytes
	}
	copy(f.Payload, data[FrameHeaderSize:])
	return f, nil
}

// decodeHeader reads the header and allocates the payload buffer.
func decodeHeader(d *Decoder) (*Frame, error) {
	if d.Remaining() < FrameHeaderSize {
		return nil, io.ErrUnexpectedEOF
	}
	ft, _ := d.ReadByte()
	flags, _ := d.ReadByte()
	length, _ := d.ReadUint32()
	if !validType(FrameType(ft)) {
		return nil, ErrInvalidFrameType
	}
	if length > MaxPayloadSize {
		return nil, ErrFrameTooLarge
	}
	return &Frame{Type: FrameType(ft), Flags: FrameFlags(flags), Payload: make([]byte, length)}, nil
}

// ReadFrame reads a complete frame from an io.Reader.
func ReadFrame(r io.Reader) (*Frame, error) {
	header := make([]byte, FrameHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}
	f, err := decodeHeader(NewDecoder(header))
	if err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(r, f.Payload); err != nil {
		return nil, err
	}
	return f, nil
}

// WriteFrame writes a complete frame to an io.Writer.
func WriteFrame(w io.Writer, f *Frame) error {
	if len(f.Payload) > MaxPayloadSize {
		return ErrFrameTooLarge
	}
	_, err := w.Write(f.Encode())
	return err
}
