package h2

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func idsOf(strms *Streams) []uint32 {
	ids := make([]uint32, 0, strms.Len())
	strms.Range(func(s *Stream) bool {
		ids = append(ids, s.ID())
		return true
	})
	return ids
}

func TestStreamsInsertKeepsSortedOrder(t *testing.T) {
	var strms Streams

	strms.Insert(NewStream(5, 0, nil))
	strms.Insert(NewStream(1, 0, nil))
	strms.Insert(NewStream(3, 0, nil))

	require.Equal(t, []uint32{1, 3, 5}, idsOf(&strms))
	require.Equal(t, 3, strms.Len())
}

func TestStreamsGetAndDel(t *testing.T) {
	var strms Streams
	strms.Insert(NewStream(1, 0, nil))
	strms.Insert(NewStream(2, 0, nil))
	strms.Insert(NewStream(3, 0, nil))

	require.Equal(t, uint32(2), strms.Get(2).ID())
	require.Nil(t, strms.Get(99))

	removed := strms.Del(2)
	require.NotNil(t, removed)
	require.Equal(t, uint32(2), removed.ID())
	require.Equal(t, []uint32{1, 3}, idsOf(&strms))

	require.Nil(t, strms.Del(2))
}

func TestStreamsCountOpen(t *testing.T) {
	var strms Streams

	idle := NewStream(1, 0, nil)
	open := NewStream(2, 0, nil)
	open.SetState(StreamStateOpen)
	halfClosed := NewStream(3, 0, nil)
	halfClosed.SetState(StreamStateHalfClosedLocal)
	closed := NewStream(4, 0, nil)
	closed.SetState(StreamStateClosed)

	strms.Insert(idle)
	strms.Insert(open)
	strms.Insert(halfClosed)
	strms.Insert(closed)

	require.Equal(t, 2, strms.CountOpen())
}

func TestStreamsRangeStopsEarly(t *testing.T) {
	var strms Streams
	strms.Insert(NewStream(1, 0, nil))
	strms.Insert(NewStream(2, 0, nil))
	strms.Insert(NewStream(3, 0, nil))

	var seen []uint32
	strms.Range(func(s *Stream) bool {
		seen = append(seen, s.ID())
		return s.ID() < 2
	})

	require.Equal(t, []uint32{1, 2}, seen)
}
