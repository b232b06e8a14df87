// Command voxplay is a minimal demo host for the voxrender engine: it
// schedules one voice on orbit 0, streams the render through ebiten's audio
// backend, and exits after the note's duration plus half a second (or
// earlier if the player stops).
package main

import (
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/cbegin/voxrender"
	intaudio "github.com/cbegin/voxrender/internal/audio"
	"github.com/cbegin/voxrender/internal/link"
	"github.com/cbegin/voxrender/internal/orbit"
	"github.com/cbegin/voxrender/internal/voice"
)

func main() {
	var (
		sampleRate = pflag.Int("sample-rate", 48000, "output sample rate")
		blockSize  = pflag.Int("block-size", 256, "render block size in frames")
		sound      = pflag.String("sound", "saw", "oscillator shape: sine|saw|square|triangle|pulse|supersaw|pink|white|brown|dust|crackle")
		freq       = pflag.Float64("freq", 220, "fundamental frequency in Hz")
		gain       = pflag.Float64("gain", 0.8, "note gain, 0..1")
		volume     = pflag.Float64("volume", 1.0, "master output gain")
		durSec     = pflag.Float64("duration", 2.0, "note gate duration in seconds")
		delayMix   = pflag.Float64("delay-mix", 0, "orbit delay wet mix, 0 disables the delay")
		reverbRoom = pflag.Float64("reverb-room", 0, "orbit reverb room size, 0 disables the reverb")
		verbose    = pflag.BoolP("verbose", "v", false, "enable debug logging")
	)
	pflag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "voxplay"})
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	engine, err := voxrender.New(noopStore{},
		voxrender.WithSampleRate(*sampleRate),
		voxrender.WithBlockSize(*blockSize),
	)
	if err != nil {
		logger.Fatal("construct engine", "err", err)
	}
	engine.SetMasterGain(*volume)

	orbitCfg := orbit.Config{}
	if *delayMix > 0 {
		orbitCfg.Delay = &orbit.DelayConfig{TimeMs: 250, Feedback: 0.35, Mix: *delayMix}
	}
	if *reverbRoom > 0 {
		orbitCfg.Reverb = &orbit.ReverbConfig{Room: *reverbRoom, Size: 0.6}
	}
	engine.ConfigureOrbit(0, orbitCfg)

	gateFrames := int64(*durSec * float64(*sampleRate))
	ok := engine.Commands().Send(link.ScheduleVoice{
		PlaybackID:   "voxplay",
		StartFrame:   0,
		GateEndFrame: gateFrames,
		Orbit:        0,
		Data: voice.Data{
			Sound:  strings.ToLower(strings.TrimSpace(*sound)),
			FreqHz: *freq,
			Gain:   *gain,
			Pan:    0,
			Envelope: voice.Envelope{
				Attack:  0.01,
				Decay:   0.1,
				Sustain: 0.7,
				Release: 0.3,
			},
		},
	})
	if !ok {
		logger.Fatal("command queue full at startup")
	}

	source := &engineSource{engine: engine}
	player, err := intaudio.NewPlayer(*sampleRate, source)
	if err != nil {
		logger.Fatal("open audio player", "err", err)
	}
	player.Play()

	total := time.Duration(*durSec*1000)*time.Millisecond + 500*time.Millisecond
	deadline := time.Now().Add(total)
	for time.Now().Before(deadline) && player.IsPlaying() {
		engine.DrainFeedback()
		time.Sleep(20 * time.Millisecond)
	}
	engine.Stop()
	if err := player.Stop(); err != nil {
		logger.Error("stop player", "err", err)
	}
	logger.Info("playback finished")
}

// noopStore resolves no sample keys; the demo only schedules synth voices.
type noopStore struct{}

func (noopStore) Resolve(string) ([]float32, bool) { return nil, false }

// engineSource adapts voxrender.Engine's block-at-a-time Process to the
// audio package's flat interleaved-frame SampleSource contract.
type engineSource struct {
	engine *voxrender.Engine
	cursor int64
	left   []float32
	right  []float32
	pos    int
}

func (s *engineSource) Process(dst []float32) {
	n := len(dst) / 2
	i := 0
	for i < n {
		if s.pos >= len(s.left) {
			s.left, s.right = s.engine.Process(s.cursor)
			s.cursor += int64(s.engine.BlockSize())
			s.pos = 0
		}
		dst[i*2] = s.left[s.pos]
		dst[i*2+1] = s.right[s.pos]
		s.pos++
		i++
	}
}
