package voice

import (
	"math"

	"github.com/cbegin/voxrender/internal/effects"
	"github.com/cbegin/voxrender/internal/filter"
)

const twoPi = math.Pi * 2

// generator produces the stage-4 "signal generation" output for a synth
// voice: an audio-rate waveform driven by freqHz and an optional per-sample
// pitch multiplier.
type generator interface {
	Process(buf []float32, offset, length int, freqHz, sampleRate float64, pitchMod []float64)
}

// processor is the common shape of the filter-library's stateful stages
// (pre-filters, main filter, post-filter waveshapers): process a mono
// buffer range in place.
type processor interface {
	Process(buf []float32, offset, length int)
}

// cutoffSetter is implemented by main filters whose cutoff can be retuned
// at control rate by stage 1's filter modulators.
type cutoffSetter interface {
	SetCutoff(hz float64)
	Cutoff() float64
}

// activeFilterMod binds one FilterModulator descriptor to the live filter
// instance it controls.
type activeFilterMod struct {
	filter cutoffSetter
	env    ADSR
	depth  float64
	base   float64
}

// Voice is the common capability surface shared by synth and sample
// voices: a tagged variant rather than a class hierarchy.
type Voice interface {
	// Render runs the eight-stage pipeline for the intersection of this
	// voice's active span with [blockStartFrame, blockStartFrame+len(left)),
	// adding its panned output into the orbit's stereo mix buffers. It
	// returns false once blockStartFrame has reached the voice's endFrame,
	// and true otherwise (including before the voice has started).
	Render(blockStartFrame int64, left, right []float32, sampleRate float64) bool
	OrbitID() int
	StartFrame() int64
	EndFrame() int64
	GateEndFrame() int64
	Retire()
}

// core holds the state and configuration shared by every voice variant:
// the envelope/pitch/FM/filter modulation stages (1-3, 5-8) that don't
// depend on how stage 4's raw signal was produced.
type core struct {
	startFrame   int64
	gateEndFrame int64
	endFrame     int64
	orbit        int
	gain         float64
	pan          float64
	postGain     float64

	ampEnv ADSR

	pitchEnv     ADSR
	pitchSemis   float64
	vibratoRate  float64
	vibratoDepth float64
	accelAmount  float64

	fm        Data
	fmEnabled bool
	fmPhase   float64
	fmEnv     ADSR

	filterMods []activeFilterMod

	preFilters  []processor
	mainFilter  processor
	postFilters []processor

	scratch   []float32
	pitchBuf  []float64
	retired   bool
}

func newCore(startFrame, gateEndFrame, endFrame int64, d Data, sampleRate float64, blockSize int) core {
	c := core{
		startFrame:   startFrame,
		gateEndFrame: gateEndFrame,
		endFrame:     endFrame,
		orbit:        d.Orbit,
		gain:         d.Gain,
		pan:          clamp(d.Pan, -1, 1),
		postGain:     d.PostGain,
		ampEnv:       NewADSR(d.Envelope, sampleRate),
		pitchEnv:     NewADSR(Envelope{Attack: d.PitchEnv.Attack, Decay: d.PitchEnv.Decay, Sustain: 0, Release: d.PitchEnv.Release}, sampleRate),
		pitchSemis:   d.PitchEnv.Semitones,
		vibratoRate:  d.Vibrato.RateHz,
		vibratoDepth: d.Vibrato.Depth,
		accelAmount:  d.Accelerate.Amount,
		fm:           d,
		fmEnabled:    d.FM.Depth != 0 && d.FM.Ratio != 0,
		fmEnv:        NewADSR(Envelope{Attack: d.FM.Attack, Decay: d.FM.Decay, Sustain: d.FM.Sustain, Release: d.FM.Decay}, sampleRate),
		scratch:      make([]float32, blockSize),
		pitchBuf:     make([]float64, blockSize),
	}
	if c.gain == 0 {
		c.gain = 1
	}
	if c.gain < 0 {
		c.gain = 0
	}
	if c.postGain == 0 {
		c.postGain = 1
	}
	if c.postGain < 0 {
		c.postGain = 0
	}
	c.velocityGain(d.Velocity)

	for _, fm := range d.FilterMods {
		cutoff := fm.BaseCutoff
		if cutoff <= 0 {
			cutoff = d.Cutoff
		}
		f := filter.NewOnePole(sampleRate, filter.LP, cutoff)
		c.filterMods = append(c.filterMods, activeFilterMod{
			filter: f,
			env:    NewADSR(Envelope{Attack: fm.Attack, Decay: fm.Decay, Sustain: fm.Sustain, Release: fm.Release}, sampleRate),
			depth:  fm.Depth,
			base:   cutoff,
		})
		c.preFiltersOrMain(f)
	}
	if c.mainFilter == nil && d.Cutoff > 0 {
		if d.Resonance > 0 {
			c.mainFilter = filter.NewSVF(sampleRate, filter.LP, d.Cutoff, d.Resonance)
		} else {
			c.mainFilter = filter.NewOnePole(sampleRate, filter.LP, d.Cutoff)
		}
	}
	if d.HCutoff > 0 {
		c.postFilters = append(c.postFilters, filter.NewOnePole(sampleRate, filter.HP, d.HCutoff))
	}
	if d.Crush > 0 {
		c.preFilters = append(c.preFilters, filter.NewBitCrush(d.Crush))
	}
	if d.Coarse > 0 {
		c.preFilters = append(c.preFilters, filter.NewCoarseDecimate(d.Coarse))
	}
	if d.Distort > 0 {
		c.postFilters = append(c.postFilters, filter.NewSoftClip(float32(d.Distort)))
	}
	if d.Tremolo.RateHz > 0 || d.Tremolo.Depth > 0 {
		t := effects.NewTremolo(int(sampleRate), float32(d.Tremolo.RateHz), float32(d.Tremolo.Depth), float32(d.Tremolo.Skew), float32(d.Tremolo.Phase), d.Tremolo.Shape)
		c.postFilters = append(c.postFilters, monoEffector{t})
	}
	if d.Phaser.RateHz > 0 || d.Phaser.Depth > 0 {
		p := effects.NewPhaser(int(sampleRate), float32(d.Phaser.RateHz), float32(d.Phaser.Depth), float32(d.Phaser.Center), float32(d.Phaser.Sweep))
		c.postFilters = append(c.postFilters, monoEffector{p})
	}
	return c
}

// preFiltersOrMain assigns the voice's first filter modulator target as
// the main filter if none is set yet (matching the common case of a single
// cutoff envelope), otherwise appends to the pre-filter chain so multiple
// modulators compose by ordered assignment per stage 1's rule.
func (c *core) preFiltersOrMain(f processor) {
	if c.mainFilter == nil {
		c.mainFilter = f
		return
	}
	c.preFilters = append(c.preFilters, f)
}

func (c *core) velocityGain(velocity float64) {
	if velocity <= 0 {
		return
	}
	c.gain *= clamp(velocity, 0, 1)
}

// monoEffector adapts a stereo effects.Effector (tremolo, phaser) to the
// voice pipeline's mono processor shape: since the voice signal is still
// mono ahead of equal-power panning, L and R inputs are identical and the
// two outputs collapse back to one value.
type monoEffector struct {
	e effects.Effector
}

func (m monoEffector) Process(buf []float32, offset, length int) {
	for i := 0; i < length; i++ {
		v := buf[offset+i]
		l, r := m.e.Process(v, v)
		buf[offset+i] = (l + r) * 0.5
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
