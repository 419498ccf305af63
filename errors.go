package h2

import (
	"errors"
	"fmt"
)

// ErrorCode is an RFC 7540 §11.4 error code.
type ErrorCode uint32

const (
	NoError            ErrorCode = 0x0
	ProtocolError      ErrorCode = 0x1
	InternalError      ErrorCode = 0x2
	FlowControlError   ErrorCode = 0x3
	SettingsTimeout    ErrorCode = 0x4
	StreamClosedError  ErrorCode = 0x5
	FrameSizeError     ErrorCode = 0x6
	RefusedStream      ErrorCode = 0x7
	CancelError        ErrorCode = 0x8
	CompressionError   ErrorCode = 0x9
	ConnectError       ErrorCode = 0xa
	EnhanceYourCalm    ErrorCode = 0xb
	InadequateSecurity ErrorCode = 0xc
	HTTP11Required     ErrorCode = 0xd
)

var errorCodeNames = map[ErrorCode]string{
	NoError:            "NO_ERROR",
	ProtocolError:      "PROTOCOL_ERROR",
	InternalError:      "INTERNAL_ERROR",
	FlowControlError:   "FLOW_CONTROL_ERROR",
	SettingsTimeout:    "SETTINGS_TIMEOUT",
	StreamClosedError:  "STREAM_CLOSED",
	FrameSizeError:     "FRAME_SIZE_ERROR",
	RefusedStream:      "REFUSED_STREAM",
	CancelError:        "CANCEL",
	CompressionError:   "COMPRESSION_ERROR",
	ConnectError:       "CONNECT_ERROR",
	EnhanceYourCalm:    "ENHANCE_YOUR_CALM",
	InadequateSecurity: "INADEQUATE_SECURITY",
	HTTP11Required:     "HTTP_1_1_REQUIRED",
}

func (c ErrorCode) String() string {
	if s, ok := errorCodeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("UNKNOWN_ERROR(0x%x)", uint32(c))
}

// ErrScope tells a caller whether an H2Error tore down the whole
// connection or just one stream.
type ErrScope uint8

const (
	ScopeStream ErrScope = iota
	ScopeConnection
)

func (s ErrScope) String() string {
	if s == ScopeConnection {
		return "connection"
	}
	return "stream"
}

// H2Error is the error type surfaced to callers and used internally to
// decide what frame (RST_STREAM vs GOAWAY) a failure produces.
//
// It implements Unwrap/Is so callers can match with errors.Is(err,
// &h2.H2Error{Code: h2.FlowControlError}) without caring which scope
// raised it.
type H2Error struct {
	Code    ErrorCode
	Scope   ErrScope
	Stream  uint32
	Message string
	Cause   error
}

func NewError(code ErrorCode, scope ErrScope, message string) *H2Error {
	return &H2Error{Code: code, Scope: scope, Message: message}
}

func NewStreamError(stream uint32, code ErrorCode, message string) *H2Error {
	return &H2Error{Code: code, Scope: ScopeStream, Stream: stream, Message: message}
}

func NewConnError(code ErrorCode, message string) *H2Error {
	return &H2Error{Code: code, Scope: ScopeConnection, Message: message}
}

func (e *H2Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("h2: %s error: %s", e.Scope, e.Code)
	}
	return fmt.Sprintf("h2: %s error: %s: %s", e.Scope, e.Code, e.Message)
}

func (e *H2Error) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, target) match by error code, regardless of
// scope, stream id or message — so callers can test
// errors.Is(err, &h2.H2Error{Code: h2.RefusedStream}) style sentinels.
func (e *H2Error) Is(target error) bool {
	var other *H2Error
	if errors.As(target, &other) {
		return e.Code == other.Code
	}
	return false
}

// Frame-parsing sentinels. They are returned as they are, not wrapped in
// an H2Error: a frame-read failure is recorded as the engine's LastErr,
// and a failure decoding a stream's header block is returned by Await.
var (
	ErrMissingBytes     = errors.New("h2: frame payload too short for its type")
	ErrUnknownFrameType = errors.New("h2: unknown frame type")
	ErrBadPreface       = errors.New("h2: bad connection preface")
	ErrFrameMismatch    = errors.New("h2: frame type mismatch")
	ErrBitOverflow      = errors.New("h2: integer overflow decoding HPACK")
	ErrPayloadExceeds   = errors.New("h2: frame payload exceeds negotiated maximum size")
)
