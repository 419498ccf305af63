package h2

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPushPromiseRoundTrip(t *testing.T) {
	fr := AcquireFrameHeader()
	defer ReleaseFrameHeader(fr)
	fr.SetStream(1)

	pp := AcquireFrame(FramePushPromise).(*PushPromise)
	pp.SetStream(2)
	pp.SetHeader([]byte("promised-request-headers"))
	pp.SetEndHeaders(true)
	fr.SetBody(pp)

	buf := bytes.NewBuffer(nil)
	bw := bufio.NewWriter(buf)
	_, err := fr.WriteTo(bw)
	require.NoError(t, err)
	require.NoError(t, bw.Flush())

	got := AcquireFrameHeader()
	defer ReleaseFrameHeader(got)
	_, err = got.ReadFrom(bufio.NewReader(buf))
	require.NoError(t, err)

	gotPP := got.Body().(*PushPromise)
	require.Equal(t, uint32(2), gotPP.Stream())
	require.True(t, gotPP.EndHeaders())
	require.Equal(t, "promised-request-headers", string(gotPP.Headers()))
}

func TestPushPromiseSetStreamClearsTopBit(t *testing.T) {
	pp := AcquirePushPromise()
	defer ReleasePushPromise(pp)
	pp.SetStream(1 << 31)
	require.Equal(t, uint32(0), pp.Stream())
}

func TestPushPromiseMissingBytes(t *testing.T) {
	pp := AcquirePushPromise()
	defer ReleasePushPromise(pp)

	fr := AcquireFrameHeader()
	defer ReleaseFrameHeader(fr)

	require.ErrorIs(t, pp.Deserialize(fr), ErrMissingBytes)
}
