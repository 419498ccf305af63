package h2

import (
	"sync"

	"github.com/strmio/h2/wireutil"
)

const FramePushPromise FrameType = 0x5

var (
	_ Frame            = &PushPromise{}
	_ FrameWithHeaders = &PushPromise{}
)

// PushPromise https://tools.ietf.org/html/rfc7540#section-6.6
type PushPromise struct {
	pad    bool
	ended  bool
	stream uint32
	header []byte // header block fragment
}

var pushPromisePool = sync.Pool{
	New: func() interface{} {
		return &PushPromise{}
	},
}

// AcquirePushPromise returns a PushPromise frame from the pool.
func AcquirePushPromise() *PushPromise {
	return pushPromisePool.Get().(*PushPromise)
}

// ReleasePushPromise resets pp and returns it to the pool.
func ReleasePushPromise(pp *PushPromise) {
	pp.Reset()
	pushPromisePool.Put(pp)
}

// CopyTo copies pp to other.
func (pp *PushPromise) CopyTo(other *PushPromise) {
	other.pad = pp.pad
	other.ended = pp.ended
	other.stream = pp.stream
	other.header = append(other.header[:0], pp.header...)
}

// Stream returns the promised stream id.
func (pp *PushPromise) Stream() uint32 {
	return pp.stream
}

// SetStream sets the promised stream id.
func (pp *PushPromise) SetStream(stream uint32) {
	pp.stream = stream & (1<<31 - 1)
}

// EndHeaders reports whether this is the last frame of the header block.
func (pp *PushPromise) EndHeaders() bool {
	return pp.ended
}

// SetEndHeaders sets whether this is the last frame of the header block.
func (pp *PushPromise) SetEndHeaders(v bool) {
	pp.ended = v
}

func (pp *PushPromise) Type() FrameType {
	return FramePushPromise
}

func (pp *PushPromise) Reset() {
	pp.pad = false
	pp.ended = false
	pp.stream = 0
	pp.header = pp.header[:0]
}

func (pp *PushPromise) SetHeader(h []byte) {
	pp.header = append(pp.header[:0], h...)
}

// Headers returns the raw header block fragment.
func (pp *PushPromise) Headers() []byte {
	return pp.header
}

func (pp *PushPromise) Write(b []byte) (int, error) {
	n := len(b)
	pp.header = append(pp.header, b...)
	return n, nil
}

func (pp *PushPromise) Deserialize(fr *FrameHeader) error {
	payload := fr.payload

	if fr.Flags().Has(FlagPadded) {
		var err error
		payload, err = wireutil.CutPadding(payload)
		if err != nil {
			return err
		}
	}

	if len(payload) < 4 {
		return ErrMissingBytes
	}

	pp.stream = wireutil.BytesToUint32(payload) & (1<<31 - 1)
	pp.header = append(pp.header[:0], payload[4:]...)
	pp.ended = fr.Flags().Has(FlagEndHeaders)

	return nil
}

func (pp *PushPromise) Serialize(fr *FrameHeader) {
	payload := wireutil.AppendUint32Bytes(fr.payload[:0], pp.stream)
	payload = append(payload, pp.header...)

	if pp.ended {
		fr.SetFlags(fr.Flags().Add(FlagEndHeaders))
	}

	if pp.pad {
		fr.SetFlags(fr.Flags().Add(FlagPadded))
		payload = wireutil.AddPadding(payload)
	}

	fr.setPayload(payload)
}
