package voxrender

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cbegin/voxrender/internal/link"
	"github.com/cbegin/voxrender/internal/voice"
)

type fakeStore struct{}

func (fakeStore) Resolve(string) ([]float32, bool) { return nil, false }

func scheduleTone(t *testing.T, e *Engine) {
	t.Helper()
	ok := e.Commands().Send(link.ScheduleVoice{
		PlaybackID:   "p1",
		StartFrame:   0,
		GateEndFrame: 4000,
		Data: voice.Data{
			Sound:    "sine",
			FreqHz:   440,
			Gain:     1,
			Envelope: voice.Envelope{Attack: 0.001, Decay: 0.01, Sustain: 0.8, Release: 0.05},
		},
	})
	require.True(t, ok)
}

func TestRenderOfflineDeterministic(t *testing.T) {
	e1, err := New(fakeStore{}, WithSampleRate(48000), WithBlockSize(128))
	require.NoError(t, err)
	scheduleTone(t, e1)
	out1 := RenderOffline(e1, 0.25)

	e2, err := New(fakeStore{}, WithSampleRate(48000), WithBlockSize(128))
	require.NoError(t, err)
	scheduleTone(t, e2)
	out2 := RenderOffline(e2, 0.25)

	require.Equal(t, len(out1), len(out2))
	for i := range out1 {
		require.InDelta(t, out1[i], out2[i], 1e-9)
	}

	var nonZero bool
	for _, s := range out1 {
		if s != 0 {
			nonZero = true
			break
		}
	}
	require.True(t, nonZero, "expected audible output from scheduled tone")
}

func TestEncodeWAVFloat32LEHeader(t *testing.T) {
	samples := []float32{0, 0.5, -0.5, 1}
	wav := EncodeWAVFloat32LE(samples, 44100, 2)
	require.Equal(t, "RIFF", string(wav[0:4]))
	require.Equal(t, "WAVE", string(wav[8:12]))
	require.Equal(t, "data", string(wav[36:40]))
	require.Equal(t, 44+len(samples)*4, len(wav))
}
