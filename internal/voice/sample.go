package voice

import (
	"math"

	"github.com/cbegin/voxrender/internal/sampleplay"
)

// sampleVoice is the decoded-PCM-backed Active Voice variant, sharing the
// same envelope/filter/effect chain as synthVoice.
type sampleVoice struct {
	core
	player *sampleplay.Player
	rate   float64
}

// NewSample builds a sample voice over an already-decoded PCM buffer (the
// "SampleStore" contract hands the engine a ready buffer; resolving the
// bank/sound name to a buffer happens outside this package).
func NewSample(startFrame, gateEndFrame int64, pcm []float32, d Data, sampleRate float64, blockSize int) Voice {
	rate := d.FreqHz / 440.0
	if rate <= 0 {
		rate = 1
	}
	endFrame := gateEndFrame + int64(math.Ceil(d.Envelope.Release*sampleRate))
	if endFrame < startFrame {
		endFrame = startFrame
	}
	c := newCore(startFrame, gateEndFrame, endFrame, d, sampleRate, blockSize)

	p := sampleplay.NewPlayer(pcm, rate)
	if d.LoopBegin != 0 || d.LoopEnd != 0 {
		n := len(pcm)
		p.SetLoop(int(d.LoopBegin*float64(n)), int(d.LoopEnd*float64(n)))
	}
	return &sampleVoice{core: c, player: p, rate: rate}
}

func (v *sampleVoice) Render(blockStartFrame int64, left, right []float32, sampleRate float64) bool {
	offset, length, hasSignal := v.activeRange(blockStartFrame, len(left))
	if hasSignal {
		vStart := blockStartFrame + int64(offset)
		// Stage 2/3 still apply to sample voices: the playhead advances by
		// rate*pitchMod[i] per sample instead of driving an oscillator phase.
		pitchMod := v.runModulation(vStart, length, 440*v.rate, sampleRate)
		v.player.Process(v.scratch, offset, length, pitchMod)
		v.runFiltersEnvelopeAndMix(vStart, offset, length, left, right)
	}
	return v.stillAlive(blockStartFrame)
}
