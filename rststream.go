package h2

import (
	"sync"

	"github.com/strmio/h2/wireutil"
)

const FrameResetStream FrameType = 0x3

var _ Frame = &RstStream{}

var rstStreamPool = sync.Pool{
	New: func() interface{} {
		return &RstStream{}
	},
}

// AcquireRstStream returns a RstStream frame from the pool.
func AcquireRstStream() *RstStream {
	return rstStreamPool.Get().(*RstStream)
}

// ReleaseRstStream resets rst and returns it to the pool.
func ReleaseRstStream(rst *RstStream) {
	rst.Reset()
	rstStreamPool.Put(rst)
}

// RstStream carries the reason a peer (or this side) is terminating one
// stream outright, without affecting the rest of the connection.
//
// https://tools.ietf.org/html/rfc7540#section-6.4
type RstStream struct {
	code ErrorCode
}

func (rst *RstStream) Type() FrameType {
	return FrameResetStream
}

// Code returns the carried error code.
func (rst *RstStream) Code() ErrorCode {
	return rst.code
}

// SetCode sets the carried error code.
func (rst *RstStream) SetCode(code ErrorCode) {
	rst.code = code
}

// Reset clears rst's code.
func (rst *RstStream) Reset() {
	rst.code = 0
}

// CopyTo copies rst's code into r.
func (rst *RstStream) CopyTo(r *RstStream) {
	r.code = rst.code
}

// Error reports the stream error this RST_STREAM names for streamID,
// suitable for surfacing through a pending request's Await.
func (rst *RstStream) Error(streamID uint32) error {
	return NewStreamError(streamID, rst.code, "peer reset stream")
}

func (rst *RstStream) Deserialize(fr *FrameHeader) error {
	if len(fr.payload) < 4 {
		return ErrMissingBytes
	}

	rst.code = ErrorCode(wireutil.BytesToUint32(fr.payload))

	return nil
}

func (rst *RstStream) Serialize(fr *FrameHeader) {
	fr.payload = wireutil.AppendUint32Bytes(fr.payload[:0], uint32(rst.code))
	fr.length = 4
}
