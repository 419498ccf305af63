package h2

import (
	"sync"

	"github.com/strmio/h2/wireutil"
)

const FrameWindowUpdate FrameType = 0x8

var _ Frame = &WindowUpdate{}

var windowUpdatePool = sync.Pool{
	New: func() interface{} {
		return &WindowUpdate{}
	},
}

// AcquireWindowUpdate returns a WindowUpdate frame from the pool.
func AcquireWindowUpdate() *WindowUpdate {
	return windowUpdatePool.Get().(*WindowUpdate)
}

// ReleaseWindowUpdate resets wu and returns it to the pool.
func ReleaseWindowUpdate(wu *WindowUpdate) {
	wu.Reset()
	windowUpdatePool.Put(wu)
}

// WindowUpdate carries a flow-control window increment, either for the
// connection as a whole (stream id 0) or for one stream.
//
// https://tools.ietf.org/html/rfc7540#section-6.9
type WindowUpdate struct {
	increment int
}

func (wu *WindowUpdate) Type() FrameType {
	return FrameWindowUpdate
}

func (wu *WindowUpdate) Reset() {
	wu.increment = 0
}

func (wu *WindowUpdate) CopyTo(w *WindowUpdate) {
	w.increment = wu.increment
}

func (wu *WindowUpdate) Increment() int {
	return wu.increment
}

func (wu *WindowUpdate) SetIncrement(increment int) {
	wu.increment = increment
}

func (wu *WindowUpdate) Deserialize(fr *FrameHeader) error {
	if len(fr.payload) < 4 {
		wu.increment = 0
		return ErrMissingBytes
	}

	wu.increment = int(wireutil.BytesToUint32(fr.payload) & (1<<31 - 1))

	// RFC 7540 §6.9: a zero increment is a protocol error — a connection
	// error if this update is for the connection (stream 0), a stream
	// error otherwise.
	if wu.increment == 0 {
		if fr.Stream() == 0 {
			return NewConnError(ProtocolError, "WINDOW_UPDATE increment must not be zero")
		}
		return NewStreamError(fr.Stream(), ProtocolError, "WINDOW_UPDATE increment must not be zero")
	}

	return nil
}

func (wu *WindowUpdate) Serialize(fr *FrameHeader) {
	fr.payload = wireutil.AppendUint32Bytes(
		fr.payload[:0], uint32(wu.increment))
	fr.length = 4
}
