package h2

import (
	"sync"

	"github.com/strmio/h2/wireutil"
)

const FrameHeaders FrameType = 0x1

var (
	_ Frame            = &Headers{}
	_ FrameWithHeaders = &Headers{}
)

var headersPool = sync.Pool{
	New: func() interface{} {
		return &Headers{}
	},
}

// AcquireHeaders returns a Headers frame from the pool.
func AcquireHeaders() *Headers {
	return headersPool.Get().(*Headers)
}

// ReleaseHeaders resets h and returns it to the pool.
func ReleaseHeaders(h *Headers) {
	h.Reset()
	headersPool.Put(h)
}

// Headers defines a FrameHeaders
//
// https://tools.ietf.org/html/rfc7540#section-6.2
type Headers struct {
	hasPadding  bool
	streamDep   uint32 // PRIORITY dependency, only meaningful if hasPriority
	exclusive   bool
	weight      uint8
	hasPriority bool
	endStream   bool
	endHeaders  bool
	rawHeaders  []byte // this field is used to store uncompleted headers.
}

// Reset ...
func (h *Headers) Reset() {
	h.hasPadding = false
	h.streamDep = 0
	h.exclusive = false
	h.weight = 0
	h.hasPriority = false
	h.endStream = false
	h.endHeaders = false
	h.rawHeaders = h.rawHeaders[:0]
}

// CopyTo copies h fields to h2.
func (h *Headers) CopyTo(h2 *Headers) {
	h2.hasPadding = h.hasPadding
	h2.streamDep = h.streamDep
	h2.exclusive = h.exclusive
	h2.weight = h.weight
	h2.hasPriority = h.hasPriority
	h2.endStream = h.endStream
	h2.endHeaders = h.endHeaders
	h2.rawHeaders = append(h2.rawHeaders[:0], h.rawHeaders...)
}

func (h *Headers) Type() FrameType {
	return FrameHeaders
}

// Headers ...
func (h *Headers) Headers() []byte {
	return h.rawHeaders
}

// SetHeaders ...
func (h *Headers) SetHeaders(b []byte) {
	h.rawHeaders = append(h.rawHeaders[:0], b...)
}

// AppendRawHeaders appends b to the raw headers.
func (h *Headers) AppendRawHeaders(b []byte) {
	h.rawHeaders = append(h.rawHeaders, b...)
}

func (h *Headers) AppendHeaderField(hp *HPACK, hf *HeaderField, store bool) {
	h.rawHeaders = hp.AppendHeader(h.rawHeaders, hf, store)
}

// EndStream ...
func (h *Headers) EndStream() bool {
	return h.endStream
}

// SetEndStream ...
func (h *Headers) SetEndStream(value bool) {
	h.endStream = value
}

// EndHeaders ...
func (h *Headers) EndHeaders() bool {
	return h.endHeaders
}

// SetEndHeaders ...
func (h *Headers) SetEndHeaders(value bool) {
	h.endHeaders = value
}

// Stream returns the stream id this HEADERS frame's embedded PRIORITY
// field depends on. Only meaningful when HasPriority is true.
func (h *Headers) Stream() uint32 {
	return h.streamDep
}

// SetStream sets the embedded PRIORITY dependency and marks the frame
// as carrying one.
func (h *Headers) SetStream(stream uint32) {
	h.streamDep = stream
	h.hasPriority = true
}

// Exclusive reports the embedded PRIORITY field's Exclusive flag.
func (h *Headers) Exclusive() bool {
	return h.exclusive
}

// SetExclusive sets the embedded PRIORITY field's Exclusive flag.
func (h *Headers) SetExclusive(exclusive bool) {
	h.exclusive = exclusive
	h.hasPriority = true
}

// HasPriority reports whether this frame carries the optional PRIORITY
// fields (FlagPriority).
func (h *Headers) HasPriority() bool {
	return h.hasPriority
}

// Weight ...
func (h *Headers) Weight() byte {
	return h.weight
}

// SetWeight sets the embedded PRIORITY weight and marks the frame as
// carrying a PRIORITY field.
func (h *Headers) SetWeight(w byte) {
	h.weight = w
	h.hasPriority = true
}

// Padding ...
func (h *Headers) Padding() bool {
	return h.hasPadding
}

// SetPadding ...
func (h *Headers) SetPadding(value bool) {
	h.hasPadding = value
}

func (h *Headers) Deserialize(frh *FrameHeader) (err error) {
	flags := frh.Flags()
	payload := frh.payload

	if flags.Has(FlagPadded) {
		payload, err = wireutil.CutPadding(payload)
		if err != nil {
			return err
		}
	}

	if flags.Has(FlagPriority) {
		if len(payload) < 5 { // 4 (stream dep + exclusive bit) + 1 (weight) = 5
			err = ErrMissingBytes
		} else {
			raw := wireutil.BytesToUint32(payload)
			h.exclusive = raw&(1<<31) != 0
			h.streamDep = raw & (1<<31 - 1)
			h.weight = payload[4]
			h.hasPriority = true
			payload = payload[5:]
		}
	}

	if err == nil {
		h.endStream = flags.Has(FlagEndStream)
		h.endHeaders = flags.Has(FlagEndHeaders)
		h.rawHeaders = append(h.rawHeaders, payload...)
	}

	return
}

func (h *Headers) Serialize(frh *FrameHeader) {
	if h.endStream {
		frh.SetFlags(
			frh.Flags().Add(FlagEndStream))
	}

	if h.endHeaders {
		frh.SetFlags(
			frh.Flags().Add(FlagEndHeaders))
	}

	payload := h.rawHeaders

	if h.hasPriority {
		frh.SetFlags(
			frh.Flags().Add(FlagPriority))

		raw := h.streamDep
		if h.exclusive {
			raw |= 1 << 31
		}
		prefix := make([]byte, 5)
		wireutil.Uint32ToBytes(prefix, raw)
		prefix[4] = h.weight
		payload = append(prefix, payload...)
	}

	if h.hasPadding {
		frh.SetFlags(
			frh.Flags().Add(FlagPadded))
		payload = wireutil.AddPadding(payload)
	}

	frh.payload = append(frh.payload[:0], payload...)
}
