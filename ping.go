package h2

import (
	"encoding/binary"
	"sync"
	"time"
)

const FramePing FrameType = 0x6

var _ Frame = &Ping{}

// Ping carries an 8-byte opaque payload used for connection-level
// liveness checks and RTT measurement.
//
// https://tools.ietf.org/html/rfc7540#section-6.7
type Ping struct {
	ack  bool
	data [8]byte
}

var pingPool = sync.Pool{
	New: func() interface{} {
		return &Ping{}
	},
}

// AcquirePing returns a Ping frame from the pool.
func AcquirePing() *Ping {
	return pingPool.Get().(*Ping)
}

// ReleasePing resets ping and returns it to the pool.
func ReleasePing(ping *Ping) {
	ping.Reset()
	pingPool.Put(ping)
}

// Ack reports whether this ping is an acknowledgement.
func (ping *Ping) Ack() bool {
	return ping.ack
}

// SetAck sets the ACK flag.
func (ping *Ping) SetAck(ack bool) {
	ping.ack = ack
}

// SetCurrentTime stamps the ping payload with time.Now(), so the
// matching ack can be used to measure round-trip time.
func (ping *Ping) SetCurrentTime() {
	binary.BigEndian.PutUint64(ping.data[:], uint64(time.Now().UnixNano()))
}

// RTT returns the elapsed time since SetCurrentTime was called on the
// ping this is the ack for, assuming ping.data still holds that stamp.
func (ping *Ping) RTT() time.Duration {
	sent := int64(binary.BigEndian.Uint64(ping.data[:]))
	return time.Duration(time.Now().UnixNano() - sent)
}

func (ping *Ping) Type() FrameType {
	return FramePing
}

// Reset ...
func (ping *Ping) Reset() {
	ping.ack = false
}

// CopyTo ...
func (ping *Ping) CopyTo(p *Ping) {
	p.ack = ping.ack
}

// Write ...
func (ping *Ping) Write(b []byte) (n int, err error) {
	copy(ping.data[:], b)
	return
}

// SetData ...
func (ping *Ping) SetData(b []byte) {
	copy(ping.data[:], b)
}

// Deserialize ...
func (ping *Ping) Deserialize(frh *FrameHeader) error {
	ping.ack = frh.Flags().Has(FlagAck)
	ping.SetData(frh.payload)
	return nil
}

func (ping *Ping) Data() []byte {
	return ping.data[:]
}

// Serialize ...
func (ping *Ping) Serialize(fr *FrameHeader) {
	if ping.ack {
		fr.SetFlags(fr.Flags().Add(FlagAck))
	}

	fr.setPayload(ping.data[:])
}
