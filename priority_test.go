package h2

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPriorityRoundTripWithExclusive(t *testing.T) {
	fr := AcquireFrameHeader()
	defer ReleaseFrameHeader(fr)
	fr.SetStream(5)

	pry := AcquireFrame(FramePriority).(*Priority)
	pry.SetStream(1)
	pry.SetExclusive(true)
	pry.SetWeight(199)
	fr.SetBody(pry)

	buf := bytes.NewBuffer(nil)
	bw := bufio.NewWriter(buf)
	_, err := fr.WriteTo(bw)
	require.NoError(t, err)
	require.NoError(t, bw.Flush())

	got := AcquireFrameHeader()
	defer ReleaseFrameHeader(got)
	br := bufio.NewReader(buf)
	_, err = got.ReadFrom(br)
	require.NoError(t, err)

	gotPry := got.Body().(*Priority)
	require.Equal(t, uint32(1), gotPry.Stream())
	require.True(t, gotPry.Exclusive())
	require.Equal(t, byte(199), gotPry.Weight())
}

func TestPriorityNonExclusiveClearsTopBit(t *testing.T) {
	pry := AcquirePriority()
	defer ReleasePriority(pry)
	pry.SetStream(1 << 31) // top bit set in the id itself, not via SetExclusive
	require.False(t, pry.Exclusive())
	require.Equal(t, uint32(0), pry.Stream())
}

func TestPriorityMissingBytes(t *testing.T) {
	pry := AcquirePriority()
	defer ReleasePriority(pry)

	fr := AcquireFrameHeader()
	defer ReleaseFrameHeader(fr)

	err := pry.Deserialize(fr)
	require.ErrorIs(t, err, ErrMissingBytes)
}
