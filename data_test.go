package h2

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDataAppendAndLen(t *testing.T) {
	d := AcquireData()
	defer ReleaseData(d)

	d.Append([]byte("foo"))
	d.Append([]byte("bar"))
	require.Equal(t, 6, d.Len())
	require.Equal(t, "foobar", string(d.Data()))
}

func TestDataSetDataOverwrites(t *testing.T) {
	d := AcquireData()
	defer ReleaseData(d)

	d.Append([]byte("old"))
	d.SetData([]byte("new"))
	require.Equal(t, "new", string(d.Data()))
}

func TestDataSerializeDeserializeEndStream(t *testing.T) {
	d := AcquireData()
	defer ReleaseData(d)
	d.SetData([]byte("payload"))
	d.SetEndStream(true)

	fr := AcquireFrameHeader()
	defer ReleaseFrameHeader(fr)
	d.Serialize(fr)

	got := AcquireData()
	defer ReleaseData(got)
	require.NoError(t, got.Deserialize(fr))
	require.True(t, got.EndStream())
	require.Equal(t, "payload", string(got.Data()))
}

func TestDataResetClearsState(t *testing.T) {
	d := AcquireData()
	d.Append([]byte("x"))
	d.SetEndStream(true)
	d.SetPadding(true)

	d.Reset()
	require.Equal(t, 0, d.Len())
	require.False(t, d.EndStream())
	require.False(t, d.Padding())
}
