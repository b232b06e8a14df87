// Package orbit implements the orbit bus: a numbered mixing bus that
// accumulates active voices' output, applies shared time-based effects in
// a fixed order, and sums into the master stereo block.
package orbit

import (
	"math"

	"github.com/cbegin/voxrender/internal/effects"
)

// tailWindow is the time constant (in samples) of the exponentially
// weighted mean square, taken over the left channel only, from which an
// orbit's RMS tail energy is derived to decide when its effect tails have
// decayed enough to deallocate the orbit. It is not a strict sliding
// window: older samples fade out gradually rather than dropping out after
// tailWindow samples.
const tailWindow = 512

// tailThresholdDB is the -90 dB retirement threshold from the spec.
const tailThresholdDB = -90.0

// Config bundles the per-orbit effect parameters. The scheduler takes them
// from ConfigureOrbit (a zero Config if none was registered) and builds the
// bus when the first voice routes to this orbit; later voices on the same
// orbit share that bus. A voice descriptor's own delay, reverb, ducking and
// compressor fields do not configure the bus.
type Config struct {
	SampleRate int
	Delay      *DelayConfig
	Reverb     *ReverbConfig
	Ducking    *DuckingConfig
	Compressor string // "threshold:ratio:knee:attack:release" or "threshold:ratio"
}

type DelayConfig struct {
	TimeMs   float64
	Feedback float64
	Mix      float64
}

type ReverbConfig struct {
	Room float64
	Size float64
}

type DuckingConfig struct {
	SourceOrbit int
	AttackMs    float64
	ReleaseMs   float64
	Depth       float64
}

// Bus is one live orbit instance: its stereo mix buffer plus the shared
// effects chain run over it each block.
type Bus struct {
	ID int

	Left, Right []float32

	delay      *effects.Delay
	reverb     *effects.Reverb
	ducking    *effects.Ducking
	duckSource int
	duckActive bool
	compressor *effects.Compressor

	tailSquareSum float64
	tailCount     int
	tailRMS       float64

	dcPrevInL, dcPrevOutL float64
	dcPrevInR, dcPrevOutR float64

	activeVoices int
}

// New allocates a bus lazily, the first time a voice routes to this orbit
// id, wiring whichever shared effects the config names.
func New(id int, cfg Config, blockSize int) *Bus {
	b := &Bus{
		ID:    id,
		Left:  make([]float32, blockSize),
		Right: make([]float32, blockSize),
	}
	if cfg.Delay != nil {
		b.delay = effects.NewDelay(cfg.SampleRate, cfg.Delay.TimeMs, float32(cfg.Delay.Feedback), 0, float32(cfg.Delay.Mix))
	}
	if cfg.Reverb != nil {
		b.reverb = effects.NewReverb(cfg.SampleRate, float32(cfg.Reverb.Size), float32(cfg.Reverb.Room), float32(cfg.Reverb.Room))
	}
	if cfg.Ducking != nil {
		b.ducking = effects.NewDucking(cfg.SampleRate, float32(cfg.Ducking.AttackMs), float32(cfg.Ducking.ReleaseMs), float32(cfg.Ducking.Depth))
		b.duckSource = cfg.Ducking.SourceOrbit
		b.duckActive = true
	}
	if cfg.Compressor != "" {
		b.compressor = ParseCompressor(cfg.SampleRate, cfg.Compressor)
	}
	return b
}

// Zero clears the bus's mix buffer ahead of the block's voice-render pass.
func (b *Bus) Zero() {
	for i := range b.Left {
		b.Left[i] = 0
		b.Right[i] = 0
	}
	b.activeVoices = 0
}

// MarkVoiceActive is called once per voice that wrote into this bus this
// block, so retirement can tell "no current voices" from "tail only".
func (b *Bus) MarkVoiceActive() { b.activeVoices++ }

// Process runs the fixed effect order (delay -> reverb -> ducking ->
// compressor) over the bus's buffer and sums the result into master.
// keyL/keyR, if the bus is configured to duck against another orbit, hold
// that orbit's mix buffer for this block; nil keys skip ducking.
func (b *Bus) Process(masterL, masterR []float32, keyL, keyR []float32) {
	n := len(b.Left)
	for i := 0; i < n; i++ {
		l, r := b.Left[i], b.Right[i]
		if b.delay != nil {
			l, r = b.delay.Process(l, r)
		}
		if b.reverb != nil {
			l, r = b.reverb.Process(l, r)
		}
		if b.duckActive && b.ducking != nil && keyL != nil {
			l, r = b.ducking.ProcessKeyed(l, r, keyL[i], keyR[i])
		}
		if b.compressor != nil {
			l, r = b.compressor.Process(l, r)
		}
		l = float32(b.dcBlockL(float64(l)))
		r = float32(b.dcBlockR(float64(r)))
		b.Left[i], b.Right[i] = l, r
		masterL[i] += l
		masterR[i] += r
	}
	b.updateTail()
}

// dcBlockL and dcBlockR are single-pole DC-blocking high-pass filters run
// on the bus's final stereo output, since summed detuned voices and
// asymmetric waveshapers upstream can leave a DC offset in the mix.
func (b *Bus) dcBlockL(x float64) float64 {
	const r = 0.995
	y := x - b.dcPrevInL + r*b.dcPrevOutL
	b.dcPrevInL = x
	b.dcPrevOutL = y
	return y
}

func (b *Bus) dcBlockR(x float64) float64 {
	const r = 0.995
	y := x - b.dcPrevInR + r*b.dcPrevOutR
	b.dcPrevInR = x
	b.dcPrevOutR = y
	return y
}

func (b *Bus) updateTail() {
	for i := range b.Left {
		b.tailSquareSum -= b.tailSquareSum / tailWindow
		sample := float64(b.Left[i])
		b.tailSquareSum += sample * sample / tailWindow
	}
	if b.tailSquareSum < 0 {
		b.tailSquareSum = 0
	}
	b.tailRMS = math.Sqrt(b.tailSquareSum)
}

// DuckSource reports the orbit id this bus side-chains against, if any.
func (b *Bus) DuckSource() (int, bool) {
	return b.duckSource, b.duckActive
}

// TailEnergyDB reports the bus's current tail RMS in dBFS, for diagnostics.
func (b *Bus) TailEnergyDB() float64 {
	if b.tailRMS <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(b.tailRMS)
}

// TailDecayed reports whether the bus's tracked tail energy has fallen
// below the -90 dB retirement threshold.
func (b *Bus) TailDecayed() bool {
	if b.tailRMS <= 0 {
		return true
	}
	db := 20 * math.Log10(b.tailRMS)
	return db < tailThresholdDB
}

// Retireable reports whether the bus has no active voices and its tail
// has decayed, i.e. it can be deallocated.
func (b *Bus) Retireable() bool {
	return b.activeVoices == 0 && b.TailDecayed()
}
