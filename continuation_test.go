package h2

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContinuationRoundTrip(t *testing.T) {
	fr := AcquireFrameHeader()
	defer ReleaseFrameHeader(fr)
	fr.SetStream(3)

	c := AcquireFrame(FrameContinuation).(*Continuation)
	c.AppendHeader([]byte("abc"))
	c.AppendHeader([]byte("def"))
	c.SetEndHeaders(true)
	fr.SetBody(c)

	require.Equal(t, 6, c.Len())

	buf := bytes.NewBuffer(nil)
	bw := bufio.NewWriter(buf)
	_, err := fr.WriteTo(bw)
	require.NoError(t, err)
	require.NoError(t, bw.Flush())

	got := AcquireFrameHeader()
	defer ReleaseFrameHeader(got)
	_, err = got.ReadFrom(bufio.NewReader(buf))
	require.NoError(t, err)

	gotC := got.Body().(*Continuation)
	require.True(t, gotC.EndHeaders())
	require.Equal(t, "abcdef", string(gotC.Headers()))
}

func TestContinuationWriteAppends(t *testing.T) {
	c := AcquireContinuation()
	defer ReleaseContinuation(c)

	n, err := c.Write([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "hello", string(c.Headers()))
}
