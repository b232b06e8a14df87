package osc

// Supersaw renders unison-detuned sawtooth voices summed and normalized,
// the way a JP-8000-style supersaw patch works: Voices detuned band-limited
// saws spread symmetrically across +-FreqSpread (a fraction of the base
// frequency), summed and divided by Voices. The output is mono; PanSpread
// is stored but Process does not read it.
type Supersaw struct {
	Voices     int
	FreqSpread float64 // fraction of freqHz, e.g. 0.2 = +-20%
	PanSpread  float64 // 0..1, stored only; not applied by Process

	phases []float64
}

func NewSupersaw(voices int, freqSpread, panSpread float64) *Supersaw {
	if voices < 1 {
		voices = 1
	}
	return &Supersaw{Voices: voices, FreqSpread: freqSpread, PanSpread: panSpread, phases: make([]float64, voices)}
}

// Process fills buf with the mono sum of the unison voices (the voice
// pipeline's equal-power pan applies to that sum as a whole; Supersaw itself
// only produces the summed/normalized waveform).
func (s *Supersaw) Process(buf []float32, offset, length int, freqHz, sampleRate float64, pitchMod []float64) {
	n := len(s.phases)
	for i := 0; i < length; i++ {
		mul := 1.0
		if pitchMod != nil {
			mul = pitchMod[i]
		}
		var sum float64
		for v := 0; v < n; v++ {
			detune := 1.0
			if n > 1 {
				// Spread voices symmetrically across [-spread, +spread].
				frac := float64(v)/float64(n-1)*2 - 1
				detune = 1 + frac*s.FreqSpread
			}
			freq := freqHz * mul * detune
			dt := freq / sampleRate
			sum += Sample(Saw, s.phases[v], dt, 0)
			s.phases[v] += twoPi * dt
			if s.phases[v] >= twoPi {
				s.phases[v] -= twoPi
			}
		}
		buf[offset+i] = float32(sum / float64(n))
	}
}
