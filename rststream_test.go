package h2

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRstStreamRoundTrip(t *testing.T) {
	fr := AcquireFrameHeader()
	defer ReleaseFrameHeader(fr)
	fr.SetStream(9)

	rst := AcquireFrame(FrameResetStream).(*RstStream)
	rst.SetCode(CancelError)
	fr.SetBody(rst)

	buf := bytes.NewBuffer(nil)
	bw := bufio.NewWriter(buf)
	_, err := fr.WriteTo(bw)
	require.NoError(t, err)
	require.NoError(t, bw.Flush())

	got := AcquireFrameHeader()
	defer ReleaseFrameHeader(got)
	_, err = got.ReadFrom(bufio.NewReader(buf))
	require.NoError(t, err)

	require.Equal(t, CancelError, got.Body().(*RstStream).Code())
}

func TestRstStreamErrorCarriesStreamID(t *testing.T) {
	rst := AcquireRstStream()
	defer ReleaseRstStream(rst)
	rst.SetCode(RefusedStream)

	err := rst.Error(42)
	var h2err *H2Error
	require.ErrorAs(t, err, &h2err)
	require.Equal(t, uint32(42), h2err.Stream)
	require.Equal(t, RefusedStream, h2err.Code)
	require.Equal(t, ScopeStream, h2err.Scope)
}

func TestRstStreamMissingBytes(t *testing.T) {
	rst := AcquireRstStream()
	defer ReleaseRstStream(rst)

	fr := AcquireFrameHeader()
	defer ReleaseFrameHeader(fr)

	require.ErrorIs(t, rst.Deserialize(fr), ErrMissingBytes)
}
