package voice

import (
	"math"

	"github.com/cbegin/voxrender/internal/osc"
)

// synthVoice is the oscillator/noise-backed Active Voice variant.
type synthVoice struct {
	core
	freqHz float64
	gen    generator
	noise  *osc.Noise // non-nil when Sound names a noise kind instead of a pitched oscillator
}

// NewSynth builds a synth voice from a descriptor. startFrame/gateEndFrame
// come from the ScheduledVoice envelope; endFrame is derived from the
// amplitude envelope's release tail per the data model's invariant.
func NewSynth(startFrame, gateEndFrame int64, d Data, sampleRate float64, blockSize int) Voice {
	endFrame := gateEndFrame + int64(math.Ceil(d.Envelope.Release*sampleRate))
	if endFrame < startFrame {
		endFrame = startFrame
	}
	c := newCore(startFrame, gateEndFrame, endFrame, d, sampleRate, blockSize)

	freq := d.FreqHz
	if freq <= 0 && d.Note != 0 {
		freq = midiToFreq(d.Note)
	}
	if freq <= 0 {
		freq = 440
	}

	v := &synthVoice{core: c, freqHz: freq}

	if kind, ok := osc.NoiseKindByName(d.Sound); ok && isNoiseName(d.Sound) {
		seed := d.Seed
		v.noise = osc.NewNoise(kind, d.Density, seed)
		return v
	}

	if d.Sound == "supersaw" || d.Voices > 1 {
		voices := d.Voices
		if voices <= 0 {
			voices = 5
		}
		v.gen = osc.NewSupersaw(voices, d.FreqSpread, d.PanSpread)
		return v
	}

	// An unrecognized sound name resolves to osc.Silence rather than an
	// audible default, per the descriptor validation rule.
	shape, _ := osc.ShapeByName(d.Sound)
	v.gen = &osc.Gen{Shape: shape}
	return v
}

func isNoiseName(name string) bool {
	switch name {
	case "white", "noise", "pink", "brown", "brownian", "red", "dust", "crackle":
		return true
	default:
		return false
	}
}

func midiToFreq(note int) float64 {
	return 440 * math.Pow(2, float64(note-69)/12)
}

func (v *synthVoice) Render(blockStartFrame int64, left, right []float32, sampleRate float64) bool {
	offset, length, hasSignal := v.activeRange(blockStartFrame, len(left))
	if hasSignal {
		vStart := blockStartFrame + int64(offset)
		pitchMod := v.runModulation(vStart, length, v.freqHz, sampleRate)
		switch {
		case v.noise != nil:
			v.noise.Process(v.scratch, offset, length, sampleRate)
		default:
			v.gen.Process(v.scratch, offset, length, v.freqHz, sampleRate, pitchMod)
		}
		v.runFiltersEnvelopeAndMix(vStart, offset, length, left, right)
	}
	return v.stillAlive(blockStartFrame)
}
