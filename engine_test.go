package h2

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeConn is a minimal io.ReadWriteCloser over an in-memory buffer, used
// to construct an Engine without a real network connection.
type fakeConn struct {
	bytes.Buffer
	closed bool
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func TestWritePrefaceWritesClientPreface(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	bw := bufio.NewWriter(buf)

	require.NoError(t, WritePreface(bw))
	require.NoError(t, bw.Flush())
	require.Equal(t, clientPreface, buf.String())
}

func TestWriteErrorWrapsCause(t *testing.T) {
	cause := NewStreamError(1, CancelError, "boom")
	we := WriteError{err: cause}

	require.Equal(t, cause, errors.Unwrap(we))
	require.True(t, errors.Is(we, &H2Error{Code: CancelError}))

	var h2err *H2Error
	require.True(t, errors.As(we, &h2err))
	require.Equal(t, CancelError, h2err.Code)
}

func TestOptionsWithDefaults(t *testing.T) {
	o := Options{}.withDefaults()

	require.Equal(t, DefaultPingInterval, o.PingInterval)
	require.Equal(t, defaultConcurrentStreams, o.MaxConcurrentStreams)
	require.Equal(t, defaultWindowSize, o.InitialWindowSize)
	require.Equal(t, defaultMaxHeaderListSize, o.MaxHeaderListSize)
	require.NotNil(t, o.Logger)
}

func TestOptionsWithDefaultsKeepsExplicitValues(t *testing.T) {
	o := Options{MaxConcurrentStreams: 7}.withDefaults()
	require.EqualValues(t, 7, o.MaxConcurrentStreams)
}

func TestNewEngineAppliesOptionsToLocalSettings(t *testing.T) {
	conn := &fakeConn{}
	e := NewEngine(conn, Options{MaxConcurrentStreams: 5, InitialWindowSize: 1000, MaxHeaderListSize: 2048})

	require.EqualValues(t, 5, e.local.MaxConcurrentStreams())
	require.EqualValues(t, 1000, e.local.MaxWindowSize())
	require.EqualValues(t, 2048, e.local.MaxHeaderListSize())
	require.EqualValues(t, 2048, e.dec.MaxHeaderListSize)
	require.False(t, e.Closed())
	require.NoError(t, e.LastErr())
}

func TestEngineApplyPeerSettingsUpdatesFlowAndEncoder(t *testing.T) {
	conn := &fakeConn{}
	e := NewEngine(conn, Options{InitialWindowSize: 500})

	peer := AcquireSettings()
	defer ReleaseSettings(peer)
	peer.SetHeaderTableSize(1024)
	peer.SetMaxWindowSize(1000)

	require.NoError(t, e.applyPeerSettings(peer))
	require.EqualValues(t, 1024, e.peer.HeaderTableSize())
	require.EqualValues(t, 1024, e.enc.maxSize)

	fc := e.flow.Stream(1)
	require.EqualValues(t, 1000, fc.AvailableSend())
}

func TestEngineCanOpenStreamRespectsPeerLimit(t *testing.T) {
	conn := &fakeConn{}
	e := NewEngine(conn, Options{})
	e.peer.SetMaxConcurrentStreams(1)

	require.True(t, e.canOpenStream())

	s := NewStream(2, 0, nil)
	s.SetState(StreamStateOpen)
	e.streams.Insert(s)

	require.False(t, e.canOpenStream())
}

var _ io.ReadWriteCloser = (*fakeConn)(nil)
