package h2

import (
	"sync"

	"github.com/strmio/h2/wireutil"
)

const FrameSettings FrameType = 0x4

var _ Frame = &Settings{}

// Default/bound values for SETTINGS parameters.
//
// https://tools.ietf.org/html/rfc7540#section-6.5.2
const (
	defaultHeaderTableSize   uint32 = 4096
	defaultConcurrentStreams uint32 = 100
	defaultWindowSize        uint32 = 1<<16 - 1
	defaultMaxFrameSize      uint32 = 1 << 14

	// defaultMaxHeaderListSize is this implementation's locally
	// advertised SETTINGS_MAX_HEADER_LIST_SIZE (spec.md §6): the HPACK
	// decoder rejects any header block that decompresses past it with
	// COMPRESSION_ERROR, closing the connection. RFC 7540 treats 0/unset
	// as "unlimited," but an unlimited decoder has no bomb protection,
	// so a finite local default is advertised instead.
	defaultMaxHeaderListSize uint32 = 32768

	maxWindowSize = 1<<31 - 1
	maxFrameSize  = 1<<24 - 1

	// SETTINGS parameter identifiers.
	settingHeaderTableSize      uint16 = 0x1
	settingEnablePush           uint16 = 0x2
	settingMaxConcurrentStreams uint16 = 0x3
	settingInitialWindowSize    uint16 = 0x4
	settingMaxFrameSize         uint16 = 0x5
	settingMaxHeaderListSize    uint16 = 0x6
)

var settingsPool = sync.Pool{
	New: func() interface{} {
		return &Settings{}
	},
}

// AcquireSettings returns a Settings frame from the pool with default
// values.
func AcquireSettings() *Settings {
	st := settingsPool.Get().(*Settings)
	st.Reset()
	return st
}

// ReleaseSettings resets st and returns it to the pool.
func ReleaseSettings(st *Settings) {
	st.Reset()
	settingsPool.Put(st)
}

// Settings holds the negotiated connection parameters exchanged by a
// SETTINGS frame.
//
// https://tools.ietf.org/html/rfc7540#section-6.5
type Settings struct {
	ack bool

	headerTableSize      uint32
	disablePush          bool
	maxConcurrentStreams uint32
	initialWindowSize    uint32
	maxFrameSize         uint32
	maxHeaderListSize    uint32
}

func (st *Settings) Type() FrameType {
	return FrameSettings
}

// Reset resets st to this package's defaults: the RFC 7540 initial
// values, except MAX_CONCURRENT_STREAMS (100) and MAX_HEADER_LIST_SIZE
// (32768), which the RFC leaves unlimited.
func (st *Settings) Reset() {
	st.ack = false
	st.headerTableSize = defaultHeaderTableSize
	st.disablePush = false
	st.maxConcurrentStreams = defaultConcurrentStreams
	st.initialWindowSize = defaultWindowSize
	st.maxFrameSize = defaultMaxFrameSize
	st.maxHeaderListSize = defaultMaxHeaderListSize
}

// CopyTo copies st into other.
func (st *Settings) CopyTo(other *Settings) {
	other.ack = st.ack
	other.headerTableSize = st.headerTableSize
	other.disablePush = st.disablePush
	other.maxConcurrentStreams = st.maxConcurrentStreams
	other.initialWindowSize = st.initialWindowSize
	other.maxFrameSize = st.maxFrameSize
	other.maxHeaderListSize = st.maxHeaderListSize
}

func (st *Settings) IsAck() bool      { return st.ack }
func (st *Settings) SetAck(ack bool)  { st.ack = ack }

func (st *Settings) HeaderTableSize() uint32 { return st.headerTableSize }
func (st *Settings) SetHeaderTableSize(v uint32) {
	st.headerTableSize = v
}

func (st *Settings) Push() bool { return !st.disablePush }
func (st *Settings) SetPush(enabled bool) {
	st.disablePush = !enabled
}

func (st *Settings) MaxConcurrentStreams() uint32 { return st.maxConcurrentStreams }
func (st *Settings) SetMaxConcurrentStreams(v uint32) {
	st.maxConcurrentStreams = v
}

func (st *Settings) MaxWindowSize() uint32 { return st.initialWindowSize }
func (st *Settings) SetMaxWindowSize(v uint32) {
	if v > maxWindowSize {
		v = maxWindowSize
	}
	st.initialWindowSize = v
}

func (st *Settings) MaxFrameSize() uint32 { return st.maxFrameSize }
func (st *Settings) SetMaxFrameSize(v uint32) {
	st.maxFrameSize = v
}

func (st *Settings) MaxHeaderListSize() uint32 { return st.maxHeaderListSize }
func (st *Settings) SetMaxHeaderListSize(v uint32) {
	st.maxHeaderListSize = v
}

// Deserialize decodes a SETTINGS frame payload into st, validating each
// parameter per RFC 7540 §6.5.2. An invalid value reports a connection
// error instead of silently applying it, unlike the ad hoc decoder this
// is modeled on.
func (st *Settings) Deserialize(fr *FrameHeader) error {
	st.ack = fr.Flags().Has(FlagAck)
	if st.ack {
		if len(fr.payload) != 0 {
			return NewConnError(FrameSizeError, "SETTINGS ack must have an empty payload")
		}
		return nil
	}

	payload := fr.payload
	if len(payload)%6 != 0 {
		return NewConnError(FrameSizeError, "SETTINGS payload not a multiple of 6")
	}

	for len(payload) > 0 {
		id := uint16(payload[0])<<8 | uint16(payload[1])
		value := wireutil.BytesToUint32(payload[2:6])
		payload = payload[6:]

		switch id {
		case settingHeaderTableSize:
			st.headerTableSize = value
		case settingEnablePush:
			if value > 1 {
				return NewConnError(ProtocolError, "invalid ENABLE_PUSH value")
			}
			st.disablePush = value == 0
		case settingMaxConcurrentStreams:
			st.maxConcurrentStreams = value
		case settingInitialWindowSize:
			if value > maxWindowSize {
				return NewConnError(FlowControlError, "INITIAL_WINDOW_SIZE exceeds maximum")
			}
			st.initialWindowSize = value
		case settingMaxFrameSize:
			if value < defaultMaxFrameSize || value > maxFrameSize {
				return NewConnError(ProtocolError, "invalid MAX_FRAME_SIZE value")
			}
			st.maxFrameSize = value
		case settingMaxHeaderListSize:
			st.maxHeaderListSize = value
		default:
			// unknown settings identifiers must be ignored
		}
	}

	return nil
}

// Serialize encodes st as a SETTINGS frame payload. HEADER_TABLE_SIZE,
// MAX_CONCURRENT_STREAMS, INITIAL_WINDOW_SIZE and MAX_FRAME_SIZE are
// always written; ENABLE_PUSH only when push is disabled, and
// MAX_HEADER_LIST_SIZE only when it is non-zero. An ACK carries an empty
// payload.
func (st *Settings) Serialize(fr *FrameHeader) {
	if st.ack {
		fr.SetFlags(fr.Flags().Add(FlagAck))
		fr.setPayload(nil)
		return
	}

	payload := fr.payload[:0]
	payload = appendSetting(payload, settingHeaderTableSize, st.headerTableSize)
	if st.disablePush {
		payload = appendSetting(payload, settingEnablePush, 0)
	}
	payload = appendSetting(payload, settingMaxConcurrentStreams, st.maxConcurrentStreams)
	payload = appendSetting(payload, settingInitialWindowSize, st.initialWindowSize)
	payload = appendSetting(payload, settingMaxFrameSize, st.maxFrameSize)
	if st.maxHeaderListSize != 0 {
		payload = appendSetting(payload, settingMaxHeaderListSize, st.maxHeaderListSize)
	}

	fr.setPayload(payload)
}

func appendSetting(dst []byte, id uint16, value uint32) []byte {
	dst = append(dst, byte(id>>8), byte(id))
	return wireutil.AppendUint32Bytes(dst, value)
}
