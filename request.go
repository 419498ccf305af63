package h2

import (
	"bytes"
	"errors"
	"sync"

	"github.com/valyala/bytebufferpool"
)

var reqPool = sync.Pool{
	New: func() interface{} {
		return new(Request)
	},
}

type Request struct {
	Header RequestHeader

	b        bytebufferpool.ByteBuffer
	lastType uint8 // last type of frame
}

// AcquireRequest ...
func AcquireRequest() *Request {
	return reqPool.Get().(*Request)
}

func (req *Request) Reset() {
	req.Header.Reset()
	req.b.Reset()
}

func (req *Request) Body() []byte {
	return req.b.Bytes()
}

// SetBody replaces the request body, for outbound requests built with
// Submit.
func (req *Request) SetBody(b []byte) {
	req.b.Reset()
	req.b.Write(b)
}

var (
	errCannotHandle      = errors.New("cannot handle this frame type")
	errLastTypeDontMatch = errors.New("last type doesn't match any")
)

// Read appends the DATA payload carried by fr to the request body.
func (req *Request) Read(fr *FrameHeader) error {
	data, ok := fr.Body().(*Data)
	if !ok {
		return errCannotHandle
	}

	req.b.Write(data.Data())
	return nil
}

// RequestHeader ...
type RequestHeader struct {
	path      []byte
	method    []byte
	authority []byte
	scheme    []byte
	userAgent []byte

	h      []*HeaderField
	parsed bool

	hp  *HPACK
	raw []byte
}

func (h *RequestHeader) SetMethod(m []byte)    { h.method = append(h.method[:0], m...) }
func (h *RequestHeader) SetPath(p []byte)      { h.path = append(h.path[:0], p...) }
func (h *RequestHeader) SetAuthority(a []byte) { h.authority = append(h.authority[:0], a...) }
func (h *RequestHeader) SetScheme(s []byte)    { h.scheme = append(h.scheme[:0], s...) }
func (h *RequestHeader) SetUserAgent(u []byte) { h.userAgent = append(h.userAgent[:0], u...) }

// SetHPACK assigns the decoding HPACK context used by Read/parse.
func (h *RequestHeader) SetHPACK(hp *HPACK) { h.hp = hp }

func (h *RequestHeader) Authority() []byte { return h.authority }
func (h *RequestHeader) Scheme() []byte    { return h.scheme }

// AddHeader appends a regular (non-pseudo) header field to be sent
// alongside the request's pseudo-headers.
func (h *RequestHeader) AddHeader(k, v []byte) {
	hf := AcquireHeaderField()
	hf.SetBytes(k, v)
	h.h = append(h.h, hf)
}

// VisitAll calls fn for every non-pseudo header field held on the
// request, in insertion order.
func (h *RequestHeader) VisitAll(fn func(k, v []byte)) {
	for _, hf := range h.h {
		fn(hf.KeyBytes(), hf.ValueBytes())
	}
}

func (h *RequestHeader) IsGet() bool {
	return bytes.Equal(h.method, strGET)
}

func (h *RequestHeader) IsHead() bool {
	return bytes.Equal(h.method, strHEAD)
}

func (h *RequestHeader) IsPost() bool {
	return bytes.Equal(h.method, strPOST)
}

func (h *RequestHeader) Path() []byte {
	return h.path
}

func (h *RequestHeader) Method() []byte {
	return h.method
}

func (h *RequestHeader) UserAgent() []byte {
	return h.userAgent
}

func (h *RequestHeader) Reset() {
	// TODO: free resources
	h.path = h.path[:0]
	h.method = h.method[:0]
	h.authority = h.authority[:0]
	h.scheme = h.scheme[:0]
	h.userAgent = h.userAgent[:0]
	h.h = h.h[:0]
	h.parsed = false
	h.raw = h.raw[:0]
}

// Read parses the header block carried by a HEADERS/CONTINUATION frame.
func (h *RequestHeader) Read(fr *FrameHeader) error {
	hfr, ok := fr.Body().(FrameWithHeaders)
	if !ok {
		return errCannotHandle
	}

	h.parsed = fr.Flags().Has(FlagEndHeaders)
	return h.parse(hfr.Headers())
}

// errPseudoHeaderOrder is returned by parse when a pseudo-header field
// (RFC 7540 §8.1.2.1) appears after a regular header, or repeats.
var errPseudoHeaderOrder = NewConnError(ProtocolError, "pseudo-header field out of order or duplicated")

func (h *RequestHeader) parse(b []byte) (err error) {
	hp := h.hp
	hf := AcquireHeaderField()

	var sawRegular bool
	var sawMethod, sawPath, sawAuthority, sawScheme bool

fields:
	for len(b) > 0 {
		b, err = hp.Next(hf, b)
		if err != nil {
			break
		}
		if len(hf.key) == 0 {
			continue
		}

		if hf.IsPseudo() {
			if sawRegular {
				err = errPseudoHeaderOrder
				break fields
			}

			switch {
			case equalsFold(hf.key, StringMethod):
				if sawMethod {
					err = errPseudoHeaderOrder
					break fields
				}
				sawMethod = true
				h.method = append(h.method[:0], hf.value...)
				continue fields
			case equalsFold(hf.key, StringPath):
				if sawPath {
					err = errPseudoHeaderOrder
					break fields
				}
				sawPath = true
				h.path = append(h.path[:0], hf.value...)
				continue fields
			case equalsFold(hf.key, StringAuthority):
				if sawAuthority {
					err = errPseudoHeaderOrder
					break fields
				}
				sawAuthority = true
				h.authority = append(h.authority[:0], hf.value...)
				continue fields
			case equalsFold(hf.key, StringScheme):
				if sawScheme {
					err = errPseudoHeaderOrder
					break fields
				}
				sawScheme = true
				h.scheme = append(h.scheme[:0], hf.value...)
				continue fields
			}

			h.h = append(h.h, hf)
			hf = AcquireHeaderField()
			continue
		}

		sawRegular = true

		if equalsFold(hf.key, strUserAgent) {
			h.userAgent = append(h.userAgent[:0], hf.value...)
			continue
		}

		h.h = append(h.h, hf)
		hf = AcquireHeaderField()
	}

	ReleaseHeaderField(hf)

	return err
}

func (h *RequestHeader) Write(b []byte) (int, error) {
	h.raw = append(h.raw, b...)
	return len(b), nil
}

func (h *RequestHeader) Peek(key string) []byte {
	hf := h.Get(key)
	if hf != nil {
		return hf.value
	}
	return nil
}

// Get ...
func (h *RequestHeader) Get(key string) (hf *HeaderField) {
	for i := range h.h {
		if b2s(h.h[i].key) == key {
			hf = h.h[i]
			break
		}
	}

	return
}

// GetBytes ...
func (h *RequestHeader) GetBytes(key []byte) *HeaderField {
	return h.Get(b2s(key))
}
