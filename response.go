package h2

import (
	"strconv"
	"sync"

	"github.com/valyala/bytebufferpool"
)

var resPool = sync.Pool{
	New: func() interface{} {
		return new(Response)
	},
}

type Response struct {
	Header ResponseHeader

	b bytebufferpool.ByteBuffer
}

// AcquireResponse ...
func AcquireResponse() *Response {
	return resPool.Get().(*Response)
}

// ReleaseResponse resets res and returns it to the pool. Callers must
// not retain res or anything obtained from it afterwards.
func ReleaseResponse(res *Response) {
	res.Reset()
	resPool.Put(res)
}

func (res *Response) Reset() {
	res.Header.Reset()
	res.b.Reset()
}

func (res *Response) Write(b []byte) (int, error) {
	n, _ := res.b.Write(b)
	res.Header.contentLength += n
	return n, nil
}

func (res *Response) Body() []byte {
	return res.b.Bytes()
}

// ResponseHeader ...
type ResponseHeader struct {
	hs            []*HeaderField
	trailers      []*HeaderField
	hp            *HPACK
	raw           []byte
	contentLength int
	statusCode    int
}

func (h *ResponseHeader) Reset() {
	h.hs = h.hs[:0]
	h.trailers = h.trailers[:0]
	h.raw = h.raw[:0]
	h.statusCode = 0
	h.contentLength = 0
}

// Get ...
func (h *ResponseHeader) Get(key string) (hf *HeaderField) {
	for i := range h.hs {
		if b2s(h.hs[i].key) == key {
			hf = h.hs[i]
			break
		}
	}

	return
}

// GetBytes is Get with a []byte key.
func (h *ResponseHeader) GetBytes(key []byte) *HeaderField {
	return h.Get(b2s(key))
}

func (h *ResponseHeader) SetStatusCode(code int) {
	h.statusCode = code
}

func (h *ResponseHeader) StatusCode() int {
	return h.statusCode
}

func (h *ResponseHeader) ContentLength() int {
	return h.contentLength
}

func (h *ResponseHeader) SetHPACK(hp *HPACK) {
	h.hp = hp
}

// VisitAll calls fn for every non-pseudo, non-content-length header
// field held on the response, in decode order.
func (h *ResponseHeader) VisitAll(fn func(k, v []byte)) {
	for _, hf := range h.hs {
		fn(hf.KeyBytes(), hf.ValueBytes())
	}
}

// ApplyField folds one decoded header field into the response: the
// :status pseudo-header sets StatusCode, content-length sets
// ContentLength, everything else is appended to the header list. This
// replaces the inline switch the teacher's Conn.readHeader used
// directly against a *fasthttp.Response.
func (h *ResponseHeader) ApplyField(hf *HeaderField) error {
	if hf.IsPseudo() {
		if equalsFold(hf.KeyBytes(), StringStatus) {
			n, err := strconv.ParseInt(hf.Value(), 10, 64)
			if err != nil {
				return err
			}
			h.statusCode = int(n)
		}
		return nil
	}

	if equalsFold(hf.KeyBytes(), StringContentLength) {
		n, _ := strconv.Atoi(hf.Value())
		h.contentLength = n
		return nil
	}

	stored := AcquireHeaderField()
	stored.SetBytes(hf.KeyBytes(), hf.ValueBytes())
	h.hs = append(h.hs, stored)
	return nil
}

// VisitTrailers calls fn for every trailer field received in the
// header block that closed the stream (RFC 7540 §8.1 trailing HEADERS,
// sent after the final DATA frame with no body of its own).
func (h *ResponseHeader) VisitTrailers(fn func(k, v []byte)) {
	for _, hf := range h.trailers {
		fn(hf.KeyBytes(), hf.ValueBytes())
	}
}

// ApplyTrailerField folds one decoded header field into the response's
// trailer list. Pseudo-headers are not legal in a trailer block (RFC
// 7540 §8.1.2.1) and are silently dropped rather than surfaced as a
// connection error, mirroring how ApplyField ignores an unrecognized
// pseudo-header.
func (h *ResponseHeader) ApplyTrailerField(hf *HeaderField) error {
	if hf.IsPseudo() {
		return nil
	}

	stored := AcquireHeaderField()
	stored.SetBytes(hf.KeyBytes(), hf.ValueBytes())
	h.trailers = append(h.trailers, stored)
	return nil
}

func (h *ResponseHeader) Add(k, v string) {
	hf := AcquireHeaderField()
	hf.Set(k, v)
	h.hs = append(h.hs, hf)
}

func (h *ResponseHeader) parse() {
	hf := AcquireHeaderField()
	defer ReleaseHeaderField(hf)

	if h.statusCode <= 0 {
		h.statusCode = 200
	}
	hf.SetKey(":status")
	hf.value = strconv.AppendInt(hf.value[:0], int64(h.statusCode), 10)
	h.raw = h.hp.AppendHeader(h.raw[:0], hf, false)

	if h.contentLength > 0 {
		hf.SetKey("content-length")
		hf.value = strconv.AppendInt(hf.value[:0], int64(h.contentLength), 10)
		h.raw = h.hp.AppendHeader(h.raw, hf, false)
	}
}
