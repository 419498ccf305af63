package h2

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeadersRoundTripWithPriority(t *testing.T) {
	fr := AcquireFrameHeader()
	defer ReleaseFrameHeader(fr)
	fr.SetStream(1)

	h := AcquireFrame(FrameHeaders).(*Headers)
	h.SetHeaders([]byte("raw-header-block"))
	h.SetEndStream(true)
	h.SetEndHeaders(true)
	h.SetStream(5)
	h.SetExclusive(true)
	h.SetWeight(100)
	fr.SetBody(h)

	buf := bytes.NewBuffer(nil)
	bw := bufio.NewWriter(buf)
	_, err := fr.WriteTo(bw)
	require.NoError(t, err)
	require.NoError(t, bw.Flush())

	got := AcquireFrameHeader()
	defer ReleaseFrameHeader(got)
	_, err = got.ReadFrom(bufio.NewReader(buf))
	require.NoError(t, err)

	gotH := got.Body().(*Headers)
	require.True(t, gotH.EndStream())
	require.True(t, gotH.EndHeaders())
	require.True(t, gotH.HasPriority())
	require.Equal(t, uint32(5), gotH.Stream())
	require.True(t, gotH.Exclusive())
	require.Equal(t, byte(100), gotH.Weight())
	require.Equal(t, "raw-header-block", string(gotH.Headers()))
}

func TestHeadersWithoutPriorityOmitsPriorityFields(t *testing.T) {
	fr := AcquireFrameHeader()
	defer ReleaseFrameHeader(fr)

	h := AcquireFrame(FrameHeaders).(*Headers)
	h.SetHeaders([]byte("block"))
	fr.SetBody(h)

	buf := bytes.NewBuffer(nil)
	bw := bufio.NewWriter(buf)
	_, err := fr.WriteTo(bw)
	require.NoError(t, err)
	require.NoError(t, bw.Flush())

	got := AcquireFrameHeader()
	defer ReleaseFrameHeader(got)
	_, err = got.ReadFrom(bufio.NewReader(buf))
	require.NoError(t, err)

	require.False(t, got.Body().(*Headers).HasPriority())
}
