package h2

import (
	"fmt"
	"sync"

	"github.com/strmio/h2/wireutil"
)

const FrameGoAway FrameType = 0x7

var _ Frame = &GoAway{}

var goAwayPool = sync.Pool{
	New: func() interface{} {
		return &GoAway{}
	},
}

// AcquireGoAway returns a GoAway frame from the pool.
func AcquireGoAway() *GoAway {
	return goAwayPool.Get().(*GoAway)
}

// ReleaseGoAway resets ga and returns it to the pool.
func ReleaseGoAway(ga *GoAway) {
	ga.Reset()
	goAwayPool.Put(ga)
}

// GoAway tells the peer to stop opening new streams above a given id,
// optionally explaining why the connection is closing.
//
// https://tools.ietf.org/html/rfc7540#section-6.8
type GoAway struct {
	stream uint32
	code   ErrorCode
	data   []byte // additional debug data
}

// Error renders ga as a human-readable summary, used when surfacing a
// received GOAWAY as the reason pending requests were refused.
func (ga *GoAway) Error() string {
	if len(ga.data) == 0 {
		return fmt.Sprintf("GOAWAY lastStreamID=%d code=%s", ga.stream, ga.code)
	}
	return fmt.Sprintf("GOAWAY lastStreamID=%d code=%s data=%q", ga.stream, ga.code, ga.data)
}

func (ga *GoAway) Type() FrameType {
	return FrameGoAway
}

// Reset clears ga's fields.
func (ga *GoAway) Reset() {
	ga.stream = 0
	ga.code = 0
	ga.data = ga.data[:0]
}

// CopyTo copies ga's fields into other.
func (ga *GoAway) CopyTo(other *GoAway) {
	other.stream = ga.stream
	other.code = ga.code
	other.data = append(other.data[:0], ga.data...)
}

// Code ...
func (ga *GoAway) Code() ErrorCode {
	return ga.code
}

// SetCode ...
func (ga *GoAway) SetCode(code ErrorCode) {
	ga.code = code
}

// Stream ...
func (ga *GoAway) Stream() uint32 {
	return ga.stream
}

// SetStream ...
func (ga *GoAway) SetStream(stream uint32) {
	ga.stream = stream & (1<<31 - 1)
}

// Data ...
func (ga *GoAway) Data() []byte {
	return ga.data
}

// SetData ...
func (ga *GoAway) SetData(b []byte) {
	ga.data = append(ga.data[:0], b...)
}

// Deserialize ...
func (ga *GoAway) Deserialize(fr *FrameHeader) (err error) {
	if len(fr.payload) < 8 { // 8 is the min number of bytes
		err = ErrMissingBytes
	} else {
		ga.stream = wireutil.BytesToUint32(fr.payload) & (1<<31 - 1)
		ga.code = ErrorCode(wireutil.BytesToUint32(fr.payload[4:]))

		if len(fr.payload[8:]) != 0 {
			ga.data = append(ga.data[:0], fr.payload[8:]...)
		}
	}

	return
}

func (ga *GoAway) Serialize(fr *FrameHeader) {
	payload := wireutil.AppendUint32Bytes(fr.payload[:0], ga.stream)
	payload = wireutil.AppendUint32Bytes(payload, uint32(ga.code))
	payload = append(payload, ga.data...)

	fr.setPayload(payload)
}
