package effects

import "math"

// Phaser sweeps a cascade of first-order allpass stages with an LFO,
// producing the characteristic notch sweep. Lazily initialized per the
// engine's lazy-effects design note: callers construct it only once a
// voice actually needs it, defaulting center/sweep to 1000 Hz when the
// descriptor leaves them at zero.
type Phaser struct {
	sampleRate float64
	rate       float32 // Hz
	depth      float32 // 0..1
	center     float32 // Hz
	sweep      float32 // Hz
	phase      float64
	stages     [4]float32 // allpass delay state, one per stage
}

const defaultPhaserHz = 1000
const twoPi = 2 * math.Pi

func NewPhaser(sampleRate int, rateHz, depth, center, sweep float32) *Phaser {
	if center <= 0 {
		center = defaultPhaserHz
	}
	if sweep <= 0 {
		sweep = defaultPhaserHz
	}
	return &Phaser{
		sampleRate: float64(sampleRate),
		rate:       rateHz,
		depth:      clamp(depth, 0, 1),
		center:     center,
		sweep:      sweep,
	}
}

func (p *Phaser) Process(l, r float32) (float32, float32) {
	lfo := math.Sin(p.phase)
	p.phase += twoPi * float64(p.rate) / p.sampleRate
	if p.phase > twoPi {
		p.phase -= twoPi
	}
	freq := float64(p.center) + float64(p.sweep)*lfo
	if freq < 20 {
		freq = 20
	}
	nyquist := p.sampleRate / 2
	if freq > nyquist*0.9 {
		freq = nyquist * 0.9
	}
	// First-order allpass coefficient from the target notch frequency.
	tan := math.Tan(math.Pi * freq / p.sampleRate)
	a := float32((tan - 1) / (tan + 1))

	mono := (l + r) * 0.5
	out := mono
	for i := range p.stages {
		prev := p.stages[i]
		next := a*out + prev
		p.stages[i] = out - a*next
		out = next
	}
	wet := mono + out
	mix := p.depth * 0.5
	return l*(1-mix) + wet*mix, r*(1-mix) + wet*mix
}

func (p *Phaser) Reset() {
	p.phase = 0
	for i := range p.stages {
		p.stages[i] = 0
	}
}
