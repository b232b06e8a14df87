// Package voice implements the active-voice model: the eight-stage
// per-voice render pipeline shared by synth and sample voices, and the
// ADSR envelope evaluation that drives stage 7.
package voice

// Data is the immutable synthesis/effect parameter payload carried by a
// scheduled voice descriptor (the external "VoiceData" contract). Only the
// fields relevant to the fields actually in use need be set; zero values
// take the defaults documented per field.
type Data struct {
	Sound string // oscillator/noise name, or sample bank key
	Bank  string
	Note  int
	FreqHz   float64
	Gain     float64 // 0..inf, default 1
	Velocity float64 // 0..1, multiplies Gain
	PostGain float64
	Pan      float64 // -1 (left) .. 0 (center) .. +1 (right), equal-power
	Orbit    int

	Envelope Envelope

	PitchEnv   PitchEnvelope
	Vibrato    Vibrato
	Accelerate Accelerate
	FM         FM

	Cutoff     float64
	HCutoff    float64
	Resonance  float64
	FilterMods []FilterModulator

	Crush      int     // bitcrush bits, 0 = disabled
	Coarse     int     // coarse-decimate N, 0 = disabled
	Distort    float64 // 0..1, 0 = disabled

	Tremolo Tremolo
	Phaser  Phaser

	Delay      DelayParams
	Reverb     ReverbParams
	Ducking    DuckingParams
	Compressor string // "threshold:ratio:knee:attack:release" or "threshold:ratio"

	LoopBegin float64 // 0..1 fraction of sample length
	LoopEnd   float64

	Partials []float64 // additive synthesis partial amplitudes
	Phases   []float64
	Warmth   float64
	Density  float64 // dust/crackle

	Voices     int // supersaw unison voice count
	FreqSpread float64
	PanSpread  float64

	Seed int64 // RNG seed for noise voices, used as given (zero included)
}

// Envelope holds the ADSR shape in seconds, evaluated linearly per spec.
type Envelope struct {
	Attack  float64
	Decay   float64
	Sustain float64
	Release float64
}

// PitchEnvelope bends pitch by up to Semitones over the attack/decay
// window, following its own (attack, decay, release) timing.
type PitchEnvelope struct {
	Attack  float64
	Decay   float64
	Release float64
	Semitones float64
	Curve   float64
	Anchor  float64
}

type Vibrato struct {
	RateHz float64
	Depth  float64
}

type Accelerate struct {
	Amount float64
}

// FM configures the stage-3 modulator sub-oscillator: a sine at
// FreqHz*Ratio perturbing the carrier's pitch by Depth*envelope.
type FM struct {
	Ratio   float64
	Depth   float64
	Attack  float64
	Decay   float64
	Sustain float64
}

type FilterModulator struct {
	Target     string // not read: every modulator drives its own low-pass filter
	Attack     float64
	Decay      float64
	Sustain    float64
	Release    float64
	Depth      float64
	BaseCutoff float64
}

type Tremolo struct {
	RateHz float64
	Depth  float64
	Skew   float64
	Phase  float64
	Shape  string
}

type Phaser struct {
	RateHz float64
	Depth  float64
	Center float64
	Sweep  float64
}

type DelayParams struct {
	TimeMs   float64
	Feedback float64
	Mix      float64
}

type ReverbParams struct {
	Room float64
	Size float64
}

type DuckingParams struct {
	SourceOrbit int
	Enabled     bool
}
