// Package osc implements the engine's oscillator library: a set of
// stateless-per-call signal generators driven by an external phase
// accumulator, plus a small family of noise generators that carry their
// own state.
package osc

import "math"

const twoPi = math.Pi * 2

// Shape identifies a waveform kind understood by Sample.
type Shape int

const (
	Sine Shape = iota
	Saw
	Square
	Triangle
	Pulse
	SupersawShape
	Impulse
	Silence
)

// ShapeByName resolves a VoiceData "sound" string to a Shape. An
// unrecognized name reports ok=false and resolves to Silence, per the
// descriptor-level rule that an unknown oscillator name substitutes a
// silence generator rather than an audible default.
func ShapeByName(name string) (Shape, bool) {
	switch name {
	case "sine", "":
		return Sine, true
	case "sawtooth", "saw":
		return Saw, true
	case "square":
		return Square, true
	case "triangle", "tri":
		return Triangle, true
	case "pulse", "pulze":
		return Pulse, true
	case "supersaw":
		return SupersawShape, true
	case "impulse":
		return Impulse, true
	default:
		return Silence, false
	}
}

// polyBLEP returns a band-limited step correction for a discontinuity at
// phase t (normalized to [0,1)) given the per-sample phase increment dt.
// Applied around sawtooth/square/pulse transitions to suppress aliasing.
func polyBLEP(t, dt float64) float64 {
	if t < dt {
		t /= dt
		return t + t - t*t - 1
	}
	if t > 1-dt {
		t = (t - 1) / dt
		return t*t + t + t + 1
	}
	return 0
}

// Sample evaluates a band-limited oscillator at normalized phase
// phase/twoPi in [0,1), with duty controlling pulse width (ignored by
// other shapes). dt is the phase increment per sample, normalized to
// [0,1), used for polyBLEP anti-aliasing on shapes with discontinuities.
func Sample(shape Shape, phase, dt, duty float64) float64 {
	t := math.Mod(phase, twoPi) / twoPi
	if t < 0 {
		t += 1
	}
	switch shape {
	case Saw:
		v := 2*t - 1
		v -= polyBLEP(t, dt)
		return v
	case Square:
		v := 1.0
		if t >= 0.5 {
			v = -1.0
		}
		v += polyBLEP(t, dt)
		v -= polyBLEP(math.Mod(t+0.5, 1), dt)
		return v
	case Pulse:
		if duty <= 0 || duty >= 1 {
			duty = 0.5
		}
		v := 1.0
		if t >= duty {
			v = -1.0
		}
		v += polyBLEP(t, dt)
		v -= polyBLEP(math.Mod(t+(1-duty), 1), dt)
		return v
	case Triangle:
		// Closed-form triangle (-1 at t=0, +1 at t=0.5); it has no step
		// discontinuity, so no polyBLEP correction. Gen builds its triangle
		// by integrating the band-limited square instead.
		return 1 - 4*math.Abs(t-0.5)
	case Impulse:
		if t < dt {
			return 1.0
		}
		return 0.0
	case Silence:
		return 0.0
	default: // Sine, SupersawShape (carrier; detuned voices are summed by the caller)
		return math.Sin(phase)
	}
}

// Gen is a stateful phase accumulator for a single oscillator voice,
// advancing by phaseInc each sample and optionally modulated per sample by
// a pitch-multiplier buffer.
type Gen struct {
	Shape Shape
	Phase float64
	Duty  float64
	// triIntegrator accumulates the running triangle-wave level when Shape
	// is Triangle, since triangle is produced by leaky integration of the
	// band-limited square rather than a closed-form expression.
	triIntegrator float64
}

// Process fills buf[offset:offset+length] with band-limited oscillator
// output, advancing phase by freqHz/sampleRate per sample times the
// optional per-sample pitchMod multiplier (nil if unmodulated). Phase is
// persisted on g across calls, so successive blocks continue seamlessly.
func (g *Gen) Process(buf []float32, offset, length int, freqHz, sampleRate float64, pitchMod []float64) {
	phase := g.Phase
	leak := 0.999
	for i := 0; i < length; i++ {
		mul := 1.0
		if pitchMod != nil {
			mul = pitchMod[i]
		}
		freq := freqHz * mul
		dt := freq / sampleRate
		var v float64
		if g.Shape == Triangle {
			sq := Sample(Square, phase, dt, 0.5)
			g.triIntegrator = g.triIntegrator*leak + sq*dt*4
			v = g.triIntegrator
		} else {
			v = Sample(g.Shape, phase, dt, g.Duty)
		}
		buf[offset+i] = float32(v)
		phase += twoPi * dt
		if phase >= twoPi {
			phase -= twoPi
		} else if phase < 0 {
			phase += twoPi
		}
	}
	g.Phase = phase
}
