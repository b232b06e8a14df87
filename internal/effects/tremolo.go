package effects

import "math"

// Tremolo is a per-voice amplitude LFO with optional skew (asymmetric
// attack/decay within one cycle) and starting phase, lazily allocated on a
// voice's first active render per the engine's lazy-initialized-effects
// design note.
type Tremolo struct {
	sampleRate float64
	rate       float32 // Hz
	depth      float32 // 0..1
	skew       float32 // 0..1, 0.5 = symmetric
	phase      float64
	shape      string // "sine" (default) or "square"
}

func NewTremolo(sampleRate int, rateHz, depth, skew, startPhase float32, shape string) *Tremolo {
	if skew <= 0 || skew >= 1 {
		skew = 0.5
	}
	if shape == "" {
		shape = "sine"
	}
	return &Tremolo{
		sampleRate: float64(sampleRate),
		rate:       rateHz,
		depth:      clamp(depth, 0, 1),
		skew:       skew,
		phase:      float64(startPhase),
		shape:      shape,
	}
}

// Process applies the amplitude modulation for one sample and advances the
// LFO phase by rateHz/sampleRate.
func (t *Tremolo) Process(l, r float32) (float32, float32) {
	p := math.Mod(t.phase, 1)
	var lfo float64
	switch t.shape {
	case "square":
		if p < float64(t.skew) {
			lfo = 1
		} else {
			lfo = -1
		}
	default:
		// Skewed sine: stretch the rising portion to `skew` of the cycle.
		var shaped float64
		if p < float64(t.skew) {
			shaped = p / float64(t.skew) * 0.5
		} else {
			shaped = 0.5 + (p-float64(t.skew))/(1-float64(t.skew))*0.5
		}
		lfo = math.Sin(shaped * twoPiTrem)
	}
	gain := float32(1 - float64(t.depth)*(0.5-0.5*lfo))
	t.phase += float64(t.rate) / t.sampleRate
	if t.phase >= 1 {
		t.phase -= 1
	}
	return l * gain, r * gain
}

func (t *Tremolo) Reset() { t.phase = 0 }

const twoPiTrem = 2 * math.Pi
