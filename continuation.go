package h2

import "sync"

const FrameContinuation FrameType = 0x9

var (
	_ Frame            = &Continuation{}
	_ FrameWithHeaders = &Continuation{}
)

var continuationPool = sync.Pool{
	New: func() interface{} {
		return &Continuation{}
	},
}

// AcquireContinuation returns a Continuation frame from the pool.
func AcquireContinuation() *Continuation {
	return continuationPool.Get().(*Continuation)
}

// ReleaseContinuation resets c and returns it to the pool.
func ReleaseContinuation(c *Continuation) {
	c.Reset()
	continuationPool.Put(c)
}

// Continuation carries the overflow of a HEADERS (or PUSH_PROMISE) block
// that didn't fit in one frame. A header block run is exactly one
// HEADERS frame followed by zero or more CONTINUATION frames, ending at
// the first frame in the run carrying END_HEADERS.
//
// https://tools.ietf.org/html/rfc7540#section-6.10
type Continuation struct {
	endHeaders  bool
	headerBlock []byte
}

func (c *Continuation) Type() FrameType {
	return FrameContinuation
}

func (c *Continuation) Reset() {
	c.endHeaders = false
	c.headerBlock = c.headerBlock[:0]
}

func (c *Continuation) CopyTo(cc *Continuation) {
	cc.endHeaders = c.endHeaders
	cc.headerBlock = append(cc.headerBlock[:0], c.headerBlock...)
}

// Headers returns the raw (still HPACK-encoded) fragment carried by this
// frame.
func (c *Continuation) Headers() []byte {
	return c.headerBlock
}

// Len reports the size of the still-encoded fragment.
func (c *Continuation) Len() int {
	return len(c.headerBlock)
}

func (c *Continuation) SetEndHeaders(value bool) {
	c.endHeaders = value
}

func (c *Continuation) EndHeaders() bool {
	return c.endHeaders
}

func (c *Continuation) SetHeader(b []byte) {
	c.headerBlock = append(c.headerBlock[:0], b...)
}

// AppendHeader appends the contents of b onto the accumulated fragment.
func (c *Continuation) AppendHeader(b []byte) {
	c.headerBlock = append(c.headerBlock, b...)
}

// Write appends b onto the fragment; it exists so Continuation satisfies
// io.Writer for callers streaming a header block into it.
func (c *Continuation) Write(b []byte) (int, error) {
	c.AppendHeader(b)
	return len(b), nil
}

func (c *Continuation) Deserialize(fr *FrameHeader) error {
	c.endHeaders = fr.Flags().Has(FlagEndHeaders)
	c.SetHeader(fr.payload)

	return nil
}

func (c *Continuation) Serialize(fr *FrameHeader) {
	if c.endHeaders {
		fr.SetFlags(
			fr.Flags().Add(FlagEndHeaders))
	}

	fr.setPayload(c.headerBlock)
}
