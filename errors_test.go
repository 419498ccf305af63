package h2

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorCodeString(t *testing.T) {
	require.Equal(t, "PROTOCOL_ERROR", ProtocolError.String())
	require.Equal(t, "FLOW_CONTROL_ERROR", FlowControlError.String())
	require.Contains(t, ErrorCode(0xff).String(), "UNKNOWN_ERROR")
}

func TestErrScopeString(t *testing.T) {
	require.Equal(t, "stream", ScopeStream.String())
	require.Equal(t, "connection", ScopeConnection.String())
}

func TestH2ErrorIsMatchesByCodeOnly(t *testing.T) {
	err := NewStreamError(7, RefusedStream, "too many streams")

	require.True(t, errors.Is(err, &H2Error{Code: RefusedStream}))
	require.False(t, errors.Is(err, &H2Error{Code: ProtocolError}))
}

func TestH2ErrorMessage(t *testing.T) {
	withMsg := NewConnError(ProtocolError, "bad preface")
	require.Equal(t, "h2: connection error: PROTOCOL_ERROR: bad preface", withMsg.Error())

	noMsg := NewStreamError(3, CancelError, "")
	require.Equal(t, "h2: stream error: CANCEL", noMsg.Error())
}

func TestH2ErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	e := &H2Error{Code: InternalError, Cause: cause}
	require.Equal(t, cause, errors.Unwrap(e))
}
