package effects

import "math"

// Ducking is a side-chain envelope follower that attenuates an orbit's
// output in proportion to the loudness of a separate "key" orbit, reusing
// the attack/release envelope-follower coefficients from Compressor.
type Ducking struct {
	attack  float32 // coefficient
	release float32 // coefficient
	depth   float32 // 0..1, how much gain reduction at full key level
	env     float32
}

func NewDucking(sampleRate int, attackMs, releaseMs, depth float32) *Ducking {
	sr := float64(sampleRate)
	return &Ducking{
		attack:  float32(1.0 - math.Exp(-1.0/(float64(attackMs)*sr/1000.0))),
		release: float32(1.0 - math.Exp(-1.0/(float64(releaseMs)*sr/1000.0))),
		depth:   clamp(depth, 0, 1),
	}
}

// ProcessKeyed attenuates (l, r) based on the loudness of the side-chain
// sample pair (keyL, keyR) taken from the designated side-chain orbit's
// mix buffer for the same sample index.
func (d *Ducking) ProcessKeyed(l, r, keyL, keyR float32) (float32, float32) {
	keyLevel := float32(math.Abs(float64(keyL))+math.Abs(float64(keyR))) * 0.5
	if keyLevel > d.env {
		d.env += d.attack * (keyLevel - d.env)
	} else {
		d.env += d.release * (keyLevel - d.env)
	}
	gain := 1 - d.depth*clamp(d.env, 0, 1)
	return l * gain, r * gain
}

// Process implements Effector for orbits with no configured side-chain
// source: it is a no-op passthrough (ducking requires a keyed sample).
func (d *Ducking) Process(l, r float32) (float32, float32) { return l, r }

func (d *Ducking) Reset() { d.env = 0 }
