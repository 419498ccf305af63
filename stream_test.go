package h2

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStreamStateString(t *testing.T) {
	require.Equal(t, "Idle", StreamStateIdle.String())
	require.Equal(t, "HalfClosedRemote", StreamStateHalfClosedRemote.String())
	require.Equal(t, "Unknown", StreamState(99).String())
}

func TestNewStreamDefaults(t *testing.T) {
	s := NewStream(3, 65535, "ctx")

	require.Equal(t, uint32(3), s.ID())
	require.Equal(t, 65535, s.Window())
	require.Equal(t, StreamStateIdle, s.State())
	require.Equal(t, "ctx", s.Data())
	require.True(t, s.IsClientInitiated())
}

func TestStreamIsClientInitiated(t *testing.T) {
	require.True(t, NewStream(1, 0, nil).IsClientInitiated())
	require.False(t, NewStream(2, 0, nil).IsClientInitiated())
}

func TestStreamWindowAccounting(t *testing.T) {
	s := NewStream(1, 100, nil)
	s.IncrWindow(50)
	require.Equal(t, 150, s.Window())

	s.SetWindow(10)
	require.Equal(t, 10, s.Window())
}

func TestStreamPriority(t *testing.T) {
	s := NewStream(3, 0, nil)
	s.SetPriority(1, 20, true)

	parent, weight, excl := s.Priority()
	require.Equal(t, uint32(1), parent)
	require.Equal(t, uint8(21), weight)
	require.True(t, excl)
}

func TestStreamEndLocalAndRemote(t *testing.T) {
	s := NewStream(1, 0, nil)
	s.SetState(StreamStateOpen)

	s.EndLocal()
	require.Equal(t, StreamStateHalfClosedLocal, s.State())

	s.EndRemote()
	require.Equal(t, StreamStateClosed, s.State())

	select {
	case <-s.Done():
	default:
		t.Fatal("expected stream to be done once closed")
	}
}

func TestStreamEndRemoteFirst(t *testing.T) {
	s := NewStream(1, 0, nil)
	s.SetState(StreamStateOpen)

	s.EndRemote()
	require.Equal(t, StreamStateHalfClosedRemote, s.State())

	s.EndLocal()
	require.Equal(t, StreamStateClosed, s.State())
}

func TestStreamResetMarksDoneWithErr(t *testing.T) {
	s := NewStream(5, 0, nil)
	cause := NewStreamError(5, CancelError, "cancelled")
	s.Reset(cause)

	require.Equal(t, StreamStateClosed, s.State())
	require.Equal(t, cause, s.Err())

	select {
	case <-s.Done():
	default:
		t.Fatal("expected Done to be closed")
	}
}

func TestStreamMarkDoneIsIdempotent(t *testing.T) {
	s := NewStream(1, 0, nil)
	s.SetState(StreamStateClosed)
	require.NotPanics(t, func() {
		s.SetState(StreamStateClosed)
	})
}
