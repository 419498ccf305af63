package h2

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrameHeaderDataRoundTrip(t *testing.T) {
	payload := "hello, world"

	fr := AcquireFrameHeader()
	defer ReleaseFrameHeader(fr)
	fr.SetStream(3)

	data := AcquireFrame(FrameData).(*Data)
	n, err := data.Write([]byte(payload))
	require.NoError(t, err)
	require.Equal(t, len(payload), n)
	fr.SetBody(data)

	buf := bytes.NewBuffer(nil)
	bw := bufio.NewWriter(buf)
	_, err = fr.WriteTo(bw)
	require.NoError(t, err)
	require.NoError(t, bw.Flush())

	raw := buf.Bytes()
	require.Equal(t, DefaultFrameSize+len(payload), len(raw))

	got := AcquireFrameHeader()
	defer ReleaseFrameHeader(got)

	br := bufio.NewReader(bytes.NewReader(raw))
	nn, err := got.ReadFrom(br)
	require.NoError(t, err)
	require.EqualValues(t, len(raw), nn)

	require.Equal(t, FrameData, got.Type())
	require.Equal(t, uint32(3), got.Stream())
	require.Equal(t, payload, string(got.Body().(*Data).Data()))
}

func TestFrameHeaderPingRoundTrip(t *testing.T) {
	var payload [8]byte
	copy(payload[:], "deadbeef")

	fr := AcquireFrameHeader()
	defer ReleaseFrameHeader(fr)

	ping := AcquireFrame(FramePing).(*Ping)
	ping.SetData(payload[:])
	ping.SetAck(true)
	fr.SetBody(ping)

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

	require.Equal(t, FramePing, got.Type())
	gotPing := got.Body().(*Ping)
	require.True(t, gotPing.Ack())
	require.Equal(t, payload[:], gotPing.Data())
}

// RFC 7540 §4.1: implementations MUST ignore unknown frame types rather
// than erroring out, since §5.5 reserves them for future extensions.
func TestReadFrameFromDiscardsUnknownType(t *testing.T) {
	var raw [9 + 4]byte
	// length = 4, type = 0xff (unassigned), flags = 0, stream = 0
	raw[2] = 4
	raw[3] = 0xff
	copy(raw[9:], "xxxx")

	br := bufio.NewReader(bytes.NewReader(raw[:]))
	fr, err := ReadFrameFrom(br)

	require.Nil(t, fr)
	require.ErrorIs(t, err, ErrUnknownFrameType)

	// the payload must still have been consumed so the reader is
	// realigned on the next frame header, not left mid-payload.
	_, err = br.Peek(1)
	require.Error(t, err)
}

func TestFrameHeaderRejectsOversizedPayload(t *testing.T) {
	var raw [9]byte
	// length = defaultMaxLen+1, one byte past the negotiated ceiling
	raw[0], raw[1], raw[2] = 0, 0x40, 1
	raw[3] = byte(FrameData)

	br := bufio.NewReader(bytes.NewReader(raw[:]))
	fr := AcquireFrameHeader()
	defer ReleaseFrameHeader(fr)

	_, err := fr.ReadFrom(br)
	require.Error(t, err)
}
