package effects

import "math"

// Compressor implements dynamic range compression with an optional
// soft knee.
type Compressor struct {
	thresholdDB float32
	ratio       float32
	kneeDB      float32 // knee width in dB; 0 is a hard knee
	attack      float32 // coefficient
	release     float32 // coefficient
	makeupDB    float32
	makeup      float32
	envL        float32
	envR        float32
}

// NewCompressor creates a compressor effect.
// thresholdDB: threshold in dB (e.g., -20)
// ratio: compression ratio (e.g., 4 for 4:1)
// kneeDB: soft-knee width in dB, centered on thresholdDB; 0 is a hard knee
// attackMs: attack time in ms
// releaseMs: release time in ms
// makeupDB: makeup gain in dB
func NewCompressor(sampleRate int, thresholdDB, ratio, kneeDB, attackMs, releaseMs, makeupDB float32) *Compressor {
	sr := float64(sampleRate)
	if kneeDB < 0 {
		kneeDB = 0
	}
	return &Compressor{
		thresholdDB: thresholdDB,
		ratio:       ratio,
		kneeDB:      kneeDB,
		attack:      float32(1.0 - math.Exp(-1.0/(float64(attackMs)*sr/1000.0))),
		release:     float32(1.0 - math.Exp(-1.0/(float64(releaseMs)*sr/1000.0))),
		makeupDB:    makeupDB,
		makeup:      float32(math.Pow(10, float64(makeupDB)/20)),
	}
}

func (c *Compressor) Process(l, r float32) (float32, float32) {
	absL := float32(math.Abs(float64(l)))
	absR := float32(math.Abs(float64(r)))
	// Envelope follower
	if absL > c.envL {
		c.envL += c.attack * (absL - c.envL)
	} else {
		c.envL += c.release * (absL - c.envL)
	}
	if absR > c.envR {
		c.envR += c.attack * (absR - c.envR)
	} else {
		c.envR += c.release * (absR - c.envR)
	}
	// Gain reduction
	gainL := c.computeGain(c.envL)
	gainR := c.computeGain(c.envR)
	return l * gainL * c.makeup, r * gainR * c.makeup
}

// computeGain applies the ratio in the dB domain with a soft knee: below
// thresholdDB-kneeDB/2 the signal passes untouched, above
// thresholdDB+kneeDB/2 it follows the straight-line ratio, and within the
// knee it's blended by a quadratic interpolation (the standard soft-knee
// construction).
func (c *Compressor) computeGain(env float32) float32 {
	if env <= 0 {
		return 1.0
	}
	xdB := float32(20 * math.Log10(float64(env)))
	over := xdB - c.thresholdDB
	var ydB float32
	switch {
	case 2*over < -c.kneeDB:
		ydB = xdB
	case c.kneeDB > 0 && 2*float32(math.Abs(float64(over))) <= c.kneeDB:
		half := c.kneeDB / 2
		ydB = xdB + (1/c.ratio-1)*(over+half)*(over+half)/(2*c.kneeDB)
	default:
		ydB = c.thresholdDB + over/c.ratio
	}
	return float32(math.Pow(10, float64(ydB-xdB)/20))
}

func (c *Compressor) Reset() {
	c.envL = 0
	c.envR = 0
}
