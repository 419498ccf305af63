package h2

// FrameType identifies one of the nine RFC 7540 frame types (plus
// CONTINUATION).
//
// https://tools.ietf.org/html/rfc7540#section-11.2
type FrameType uint8

// FrameFlags is the flag octet of a frame header. Meaning depends on
// the frame's Type.
type FrameFlags uint8

// Has reports whether f carries flag.
func (f FrameFlags) Has(flag FrameFlags) bool {
	return f&flag == flag
}

// Add returns f with flag set.
func (f FrameFlags) Add(flag FrameFlags) FrameFlags {
	return f | flag
}

// Del returns f with flag cleared.
func (f FrameFlags) Del(flag FrameFlags) FrameFlags {
	return f &^ flag
}

func (t FrameType) String() string {
	switch t {
	case FrameData:
		return "Data"
	case FrameHeaders:
		return "Headers"
	case FramePriority:
		return "Priority"
	case FrameResetStream:
		return "RstStream"
	case FrameSettings:
		return "Settings"
	case FramePushPromise:
		return "PushPromise"
	case FramePing:
		return "Ping"
	case FrameGoAway:
		return "GoAway"
	case FrameWindowUpdate:
		return "WindowUpdate"
	case FrameContinuation:
		return "Continuation"
	}
	return "Unknown"
}

const maxFrameType = FrameContinuation

// Frame flag bits. A handful of bit patterns are reused across frame
// types per RFC 7540 §6 (e.g. 0x1 means ACK on PING/SETTINGS and
// END_STREAM on DATA/HEADERS).
const (
	FlagAck        FrameFlags = 0x1
	FlagEndStream  FrameFlags = 0x1
	FlagEndHeaders FrameFlags = 0x4
	FlagPadded     FrameFlags = 0x8
	FlagPriority   FrameFlags = 0x20
)

// Frame is the payload of a single HTTP/2 frame. Each concrete type
// (Data, Headers, Priority, ...) implements this interface and is
// pooled via its own Acquire/Release pair.
//
// A Frame instance MUST NOT be used from concurrently running
// goroutines.
type Frame interface {
	Type() FrameType
	Reset()
	Deserialize(frh *FrameHeader) error
	Serialize(frh *FrameHeader)
}

// FrameWithHeaders is implemented by frame types that carry a header
// block fragment (HEADERS, CONTINUATION, PUSH_PROMISE).
type FrameWithHeaders interface {
	Headers() []byte
}

// AcquireFrame returns a pooled Frame of the given type. The caller
// must release it through the FrameHeader that owns it (ReleaseFrameHeader
// handles this).
func AcquireFrame(kind FrameType) Frame {
	switch kind {
	case FrameData:
		return AcquireData()
	case FrameHeaders:
		return AcquireHeaders()
	case FramePriority:
		return AcquirePriority()
	case FrameResetStream:
		return AcquireRstStream()
	case FrameSettings:
		return AcquireSettings()
	case FramePushPromise:
		return AcquirePushPromise()
	case FramePing:
		return AcquirePing()
	case FrameGoAway:
		return AcquireGoAway()
	case FrameWindowUpdate:
		return AcquireWindowUpdate()
	case FrameContinuation:
		return AcquireContinuation()
	}
	return nil
}

// ReleaseFrame returns fr to its type's pool.
func ReleaseFrame(fr Frame) {
	if fr == nil {
		return
	}
	switch f := fr.(type) {
	case *Data:
		ReleaseData(f)
	case *Headers:
		ReleaseHeaders(f)
	case *Priority:
		ReleasePriority(f)
	case *RstStream:
		ReleaseRstStream(f)
	case *Settings:
		ReleaseSettings(f)
	case *PushPromise:
		ReleasePushPromise(f)
	case *Ping:
		ReleasePing(f)
	case *GoAway:
		ReleaseGoAway(f)
	case *WindowUpdate:
		ReleaseWindowUpdate(f)
	case *Continuation:
		ReleaseContinuation(f)
	}
}
