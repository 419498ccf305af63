package h2

import (
	"sync"

	"github.com/strmio/h2/wireutil"
)

const FramePriority FrameType = 0x2

var _ Frame = &Priority{}

var priorityPool = sync.Pool{
	New: func() interface{} {
		return &Priority{}
	},
}

// AcquirePriority returns a Priority frame from the pool.
func AcquirePriority() *Priority {
	return priorityPool.Get().(*Priority)
}

// ReleasePriority resets pry and returns it to the pool.
func ReleasePriority(pry *Priority) {
	pry.Reset()
	priorityPool.Put(pry)
}

// Priority carries a stream's dependency and weight, used both inside a
// HEADERS frame's optional priority fields and as its own frame.
//
// https://tools.ietf.org/html/rfc7540#section-6.3
type Priority struct {
	streamDep uint32
	exclusive bool
	weight    byte
}

func (pry *Priority) Type() FrameType {
	return FramePriority
}

// Reset clears pry's fields.
func (pry *Priority) Reset() {
	pry.streamDep = 0
	pry.exclusive = false
	pry.weight = 0
}

func (pry *Priority) CopyTo(p *Priority) {
	p.streamDep = pry.streamDep
	p.exclusive = pry.exclusive
	p.weight = pry.weight
}

// Stream returns the id of the stream pry depends on.
func (pry *Priority) Stream() uint32 {
	return pry.streamDep
}

// SetStream sets the stream dependency, clearing its top bit (that bit
// is the Exclusive flag on the wire, set separately via SetExclusive).
func (pry *Priority) SetStream(stream uint32) {
	pry.streamDep = stream & (1<<31 - 1)
}

// Exclusive reports whether the dependency was marked exclusive,
// meaning the depended-on stream's other children are reparented under
// this one (RFC 7540 §5.3.1).
func (pry *Priority) Exclusive() bool {
	return pry.exclusive
}

// SetExclusive sets the Exclusive flag.
func (pry *Priority) SetExclusive(exclusive bool) {
	pry.exclusive = exclusive
}

// Weight returns the priority weight in its wire form (1-256 maps to
// 0-255 on the wire; callers add/subtract 1 themselves).
func (pry *Priority) Weight() byte {
	return pry.weight
}

// SetWeight sets the priority weight.
func (pry *Priority) SetWeight(w byte) {
	pry.weight = w
}

func (pry *Priority) Deserialize(fr *FrameHeader) error {
	if len(fr.payload) < 5 {
		return ErrMissingBytes
	}

	raw := wireutil.BytesToUint32(fr.payload)
	pry.exclusive = raw&(1<<31) != 0
	pry.streamDep = raw & (1<<31 - 1)
	pry.weight = fr.payload[4]

	return nil
}

func (pry *Priority) Serialize(fr *FrameHeader) {
	raw := pry.streamDep
	if pry.exclusive {
		raw |= 1 << 31
	}
	fr.payload = wireutil.AppendUint32Bytes(fr.payload[:0], raw)
	fr.payload = append(fr.payload, pry.weight)
}
