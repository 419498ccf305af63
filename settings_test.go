package h2

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSettingsDefaults(t *testing.T) {
	st := AcquireSettings()
	defer ReleaseSettings(st)

	require.Equal(t, defaultHeaderTableSize, st.HeaderTableSize())
	require.True(t, st.Push())
	require.Equal(t, defaultConcurrentStreams, st.MaxConcurrentStreams())
	require.Equal(t, defaultWindowSize, st.MaxWindowSize())
	require.Equal(t, defaultMaxFrameSize, st.MaxFrameSize())
}

func TestSettingsAckHasEmptyPayload(t *testing.T) {
	st := AcquireSettings()
	defer ReleaseSettings(st)
	st.SetAck(true)

	fr := AcquireFrameHeader()
	defer ReleaseFrameHeader(fr)
	st.Serialize(fr)

	require.True(t, fr.Flags().Has(FlagAck))

	got := AcquireSettings()
	defer ReleaseSettings(got)
	require.NoError(t, got.Deserialize(fr))
	require.True(t, got.IsAck())
}

func TestSettingsAckWithPayloadIsFrameSizeError(t *testing.T) {
	fr := AcquireFrameHeader()
	defer ReleaseFrameHeader(fr)
	fr.SetFlags(fr.Flags().Add(FlagAck))
	fr.payload = append(fr.payload[:0], 1, 2, 3, 4, 5, 6)

	got := AcquireSettings()
	defer ReleaseSettings(got)

	err := got.Deserialize(fr)
	var h2err *H2Error
	require.ErrorAs(t, err, &h2err)
	require.Equal(t, FrameSizeError, h2err.Code)
}

func TestSettingsRoundTrip(t *testing.T) {
	st := AcquireSettings()
	defer ReleaseSettings(st)
	st.SetHeaderTableSize(8192)
	st.SetPush(false)
	st.SetMaxConcurrentStreams(10)
	st.SetMaxWindowSize(1 << 20)
	st.SetMaxFrameSize(1 << 15)
	st.SetMaxHeaderListSize(4096)

	fr := AcquireFrameHeader()
	defer ReleaseFrameHeader(fr)
	st.Serialize(fr)

	got := AcquireSettings()
	defer ReleaseSettings(got)
	require.NoError(t, got.Deserialize(fr))

	require.EqualValues(t, 8192, got.HeaderTableSize())
	require.False(t, got.Push())
	require.EqualValues(t, 10, got.MaxConcurrentStreams())
	require.EqualValues(t, 1<<20, got.MaxWindowSize())
	require.EqualValues(t, 1<<15, got.MaxFrameSize())
	require.EqualValues(t, 4096, got.MaxHeaderListSize())
}

func TestSettingsDeserializeRejectsNonMultipleOfSix(t *testing.T) {
	fr := AcquireFrameHeader()
	defer ReleaseFrameHeader(fr)
	fr.payload = append(fr.payload[:0], 1, 2, 3)

	got := AcquireSettings()
	defer ReleaseSettings(got)

	err := got.Deserialize(fr)
	var h2err *H2Error
	require.ErrorAs(t, err, &h2err)
	require.Equal(t, FrameSizeError, h2err.Code)
}

func TestSettingsDeserializeRejectsInvalidEnablePush(t *testing.T) {
	fr := AcquireFrameHeader()
	defer ReleaseFrameHeader(fr)
	fr.payload = appendSetting(fr.payload[:0], settingEnablePush, 2)

	got := AcquireSettings()
	defer ReleaseSettings(got)

	err := got.Deserialize(fr)
	var h2err *H2Error
	require.ErrorAs(t, err, &h2err)
	require.Equal(t, ProtocolError, h2err.Code)
}

func TestSettingsDeserializeRejectsOversizedWindow(t *testing.T) {
	fr := AcquireFrameHeader()
	defer ReleaseFrameHeader(fr)
	fr.payload = appendSetting(fr.payload[:0], settingInitialWindowSize, maxWindowSize+1)

	got := AcquireSettings()
	defer ReleaseSettings(got)

	err := got.Deserialize(fr)
	var h2err *H2Error
	require.ErrorAs(t, err, &h2err)
	require.Equal(t, FlowControlError, h2err.Code)
}

func TestSettingsDeserializeIgnoresUnknownIdentifier(t *testing.T) {
	fr := AcquireFrameHeader()
	defer ReleaseFrameHeader(fr)
	fr.payload = appendSetting(fr.payload[:0], 0x99, 123)

	got := AcquireSettings()
	defer ReleaseSettings(got)

	require.NoError(t, got.Deserialize(fr))
}
