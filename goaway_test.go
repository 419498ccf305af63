package h2

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGoAwayRoundTripWithData(t *testing.T) {
	fr := AcquireFrameHeader()
	defer ReleaseFrameHeader(fr)

	ga := AcquireFrame(FrameGoAway).(*GoAway)
	ga.SetStream(7)
	ga.SetCode(EnhanceYourCalm)
	ga.SetData([]byte("slow down"))
	fr.SetBody(ga)

	buf := bytes.NewBuffer(nil)
	bw := bufio.NewWriter(buf)
	_, err := fr.WriteTo(bw)
	require.NoError(t, err)
	require.NoError(t, bw.Flush())

	got := AcquireFrameHeader()
	defer ReleaseFrameHeader(got)
	_, err = got.ReadFrom(bufio.NewReader(buf))
	require.NoError(t, err)

	gotGa := got.Body().(*GoAway)
	require.Equal(t, uint32(7), gotGa.Stream())
	require.Equal(t, EnhanceYourCalm, gotGa.Code())
	require.Equal(t, "slow down", string(gotGa.Data()))
}

func TestGoAwayErrorFormatting(t *testing.T) {
	ga := AcquireGoAway()
	defer ReleaseGoAway(ga)
	ga.SetStream(3)
	ga.SetCode(ProtocolError)

	require.Equal(t, "GOAWAY lastStreamID=3 code=PROTOCOL_ERROR", ga.Error())

	ga.SetData([]byte("boom"))
	require.Contains(t, ga.Error(), `data="boom"`)
}

func TestGoAwaySetStreamClearsTopBit(t *testing.T) {
	ga := AcquireGoAway()
	defer ReleaseGoAway(ga)
	ga.SetStream(1 << 31)
	require.Equal(t, uint32(0), ga.Stream())
}

func TestGoAwayMissingBytes(t *testing.T) {
	ga := AcquireGoAway()
	defer ReleaseGoAway(ga)

	fr := AcquireFrameHeader()
	defer ReleaseFrameHeader(fr)

	require.ErrorIs(t, ga.Deserialize(fr), ErrMissingBytes)
}
