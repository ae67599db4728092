package protocol

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFrameEncodeDecode(t *testing.T) {
	f := &Frame{Type: FrameBatch, Flags: FlagSnapshot, Payload: []byte("payload")}
	data := f.Encode()

	if len(data) != FrameHeaderSize+7 {
		t.Fatalf("len = %d, want %d", len(data), FrameHeaderSize+7)
	}
	got, err := DecodeFrame(data)
	if err != nil {
		t.Fatalf("DecodeFrame() error: %v", err)
	}
	if diff := cmp.Diff(f, got); diff != "" {
		t.Errorf("frame mismatch (-want +got):\n%s", diff)
	}
	if !got.Flags.Has(FlagSnapshot) {
		t.Error("snapshot flag lost")
	}
}

func TestDecodeFrameErrors(t *testing.T) {
	valid := NewFrame(FrameEvent, []byte{1, 2, 3}).Encode()

	oversized := NewEncoder()
	oversized.WriteByte(byte(FrameBatch))
	oversized.WriteByte(0)
	oversized.WriteUint32(MaxPayloadSize + 1)

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"short header", valid[:3], io.ErrUnexpectedEOF},
		{"short payload", valid[:len(valid)-1], io.ErrUnexpectedEOF},
		{"trailing bytes", append(append([]byte{}, valid...), 0), ErrTrailingBytes},
		{"unknown type", []byte{0x7F, 0, 0, 0, 0, 0}, ErrInvalidFrameType},
		{"too large", oversized.Bytes(), ErrFrameTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeFrame(tt.data); !errors.Is(err, tt.want) {
				t.Errorf("DecodeFrame() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestReadWriteFrameStream(t *testing.T) {
	var buf bytes.Buffer
	frames := []*Frame{
		NewFrame(FrameBatch, []byte("one")),
		NewFrame(FrameError, nil),
		NewFrame(FrameEvent, []byte("three")),
	}
	for _, f := range frames {
		if err := WriteFrame(&buf, f); err != nil {
			t.Fatalf("WriteFrame() error: %v", err)
		}
	}

	for i, want := range frames {
		got, err := ReadFrame(&buf)
		if err != nil {
			t.Fatalf("ReadFrame() %d error: %v", i, err)
		}
		if got.Type != want.Type || !bytes.Equal(got.Payload, want.Payload) {
			t.Errorf("frame %d = %v %q, want %v %q", i, got.Type, got.Payload, want.Type, want.Payload)
		}
	}
	if _, err := ReadFrame(&buf); !errors.Is(err, io.EOF) {
		t.Errorf("ReadFrame() at end = %v, want io.EOF", err)
	}
}

func TestWriteFrameTooLarge(t *testing.T) {
	f := NewFrame(FrameBatch, make([]byte, MaxPayloadSize+1))
	if err := WriteFrame(io.Discard, f); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("WriteFrame() = %v, want ErrFrameTooLarge", err)
	}
}

func TestFrameTypeString(t *testing.T) {
	for ft, want := range map[FrameType]string{
		FrameBatch: "Batch",
		FrameEvent: "Event",
		FrameError: "Error",
		0x42:       "Unknown",
	} {
		if got := ft.String(); got != want {
			t.Errorf("FrameType(%#x).String() = %q, want %q", uint8(ft), got, want)
		}
	}
}
