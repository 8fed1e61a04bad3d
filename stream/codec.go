// Package stream serves a shared ripple field to browsers over WebSocket.
package stream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/ams-law/goldsite/input"
)

// InputKind identifies a client pointer message.
type InputKind uint8

const (
	InputMove  InputKind = 0
	InputClick InputKind = 1
)

// InputSize is the length of an encoded client message.
const InputSize = 9

// FrameHeaderSize is the length of the width/height prefix of a frame.
const FrameHeaderSize = 4

// ErrBadMessage is returned for malformed client messages or frames.
var ErrBadMessage = errors.New("malformed stream message")

// Input is a pointer event in normalized viewport coordinates.
type Input struct {
	Kind InputKind
	X, Y float32
}

// EncodeInput encodes in as [kind u8][x f32 LE][y f32 LE].
func EncodeInput(in Input) []byte {
	b := make([]byte, InputSize)
	b[0] = byte(in.Kind)
	binary.LittleEndian.PutUint32(b[1:5], math.Float32bits(in.X))
	binary.LittleEndian.PutUint32(b[5:9], math.Float32bits(in.Y))
	return b
}

// DecodeInput parses a client message.
func DecodeInput(b []byte) (Input, error) {
	if len(b) != InputSize {
		return Input{}, fmt.Errorf("%w: input length %d", ErrBadMessage, len(b))
	}
	in := Input{
		Kind: InputKind(b[0]),
		X:    math.Float32frombits(binary.LittleEndian.Uint32(b[1:5])),
		Y:    math.Float32frombits(binary.LittleEndian.Uint32(b[5:9])),
	}
	if in.Kind != InputMove && in.Kind != InputClick {
		return Input{}, fmt.Errorf("%w: input kind %d", ErrBadMessage, in.Kind)
	}
	if isBad(in.X) || isBad(in.Y) {
		return Input{}, fmt.Errorf("%w: non-finite coordinate", ErrBadMessage)
	}
	return in, nil
}

func isBad(v float32) bool {
	f := float64(v)
	return math.IsNaN(f) || math.IsInf(f, 0)
}

// Event converts in to a bus event for a viewW x viewH viewport.
// Coordinates are clamped to the viewport.
func (in Input) Event(viewW, viewH int) input.Event {
	kind := input.EventPointerMove
	if in.Kind == InputClick {
		kind = input.EventPointerClick
	}
	x := input.Clamp(float64(in.X), 0, 1)
	y := input.Clamp(float64(in.Y), 0, 1)
	return input.Event{
		Kind: kind,
		X:    x * float64(viewW),
		Y:    y * float64(viewH),
		W:    viewW,
		H:    viewH,
	}
}

// EncodeFrame appends [w u16 LE][h u16 LE][pixels] to dst. Sizes must fit in
// u16; config bounds the stream viewport accordingly.
func EncodeFrame(dst []byte, w, h int, pixels []byte) []byte {
	dst = binary.LittleEndian.AppendUint16(dst, uint16(w))
	dst = binary.LittleEndian.AppendUint16(dst, uint16(h))
	return append(dst, pixels...)
}

// DecodeFrame splits a server frame into its size and pixel payload.
func DecodeFrame(b []byte) (w, h int, pixels []byte, err error) {
	if len(b) < FrameHeaderSize {
		return 0, 0, nil, fmt.Errorf("%w: frame length %d", ErrBadMessage, len(b))
	}
	w = int(binary.LittleEndian.Uint16(b[0:2]))
	h = int(binary.LittleEndian.Uint16(b[2:4]))
	pixels = b[FrameHeaderSize:]
	if len(pixels) != w*h {
		return 0, 0, nil, fmt.Errorf("%w: %dx%d frame with %d bytes", ErrBadMessage, w, h, len(pixels))
	}
	return w, h, pixels, nil
}
