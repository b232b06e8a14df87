package voice

import "math"

// activeRange computes this block's intersection with the voice's active
// span [startFrame, endFrame), returning the scratch-buffer offset/length
// to render into, or hasSignal=false if the voice produces nothing this
// block (either not yet started or already fully rendered).
func (c *core) activeRange(blockStart int64, blockLen int) (offset, length int, hasSignal bool) {
	blockEnd := blockStart + int64(blockLen)
	vStart := blockStart
	if c.startFrame > vStart {
		vStart = c.startFrame
	}
	vEnd := blockEnd
	if c.endFrame < vEnd {
		vEnd = c.endFrame
	}
	if vStart >= vEnd {
		return 0, 0, false
	}
	return int(vStart - blockStart), int(vEnd - vStart), true
}

// stillAlive implements the render-result contract: true while the voice
// has not yet reached endFrame, false once it has.
func (c *core) stillAlive(blockStart int64) bool {
	return blockStart < c.endFrame
}

// runModulation executes stages 1-3 (filter modulation, pitch modulation,
// FM synthesis), returning the pitch-multiplier buffer for [0,length) or
// nil if no modulation source is active (so the generator can skip the
// per-sample multiply).
func (c *core) runModulation(vStart int64, length int, freqHz, sampleRate float64) []float64 {
	// Stage 1: filter modulation, control rate, evaluated once at the
	// block's first active frame.
	for i := range c.filterMods {
		fm := &c.filterMods[i]
		level := fm.env.Level(vStart, c.startFrame, c.gateEndFrame)
		fm.filter.SetCutoff(fm.base * (1 + fm.depth*level))
	}

	active := c.vibratoDepth != 0 || c.accelAmount != 0 || c.pitchSemis != 0 || c.fmEnabled
	if !active {
		return nil
	}

	span := float64(c.endFrame - c.startFrame)
	buf := c.pitchBuf[:length]
	for i := 0; i < length; i++ {
		absFrame := vStart + int64(i)
		mul := 1.0
		if c.vibratoDepth != 0 {
			t := float64(absFrame-c.startFrame) / sampleRate
			mul *= 1 + math.Sin(twoPi*c.vibratoRate*t)*c.vibratoDepth
		}
		if c.accelAmount != 0 && span > 0 {
			progress := float64(absFrame-c.startFrame) / span
			mul *= math.Pow(2, c.accelAmount*progress)
		}
		if c.pitchSemis != 0 {
			level := c.pitchEnv.Level(absFrame, c.startFrame, c.gateEndFrame)
			mul *= math.Pow(2, (c.pitchSemis*level)/12.0)
		}
		buf[i] = mul
	}

	// Stage 3: FM synthesis perturbs the pitch-mod buffer in place; the
	// modulator phase persists across blocks.
	if c.fmEnabled && freqHz > 0 {
		modFreq := freqHz * c.fm.FM.Ratio
		for i := 0; i < length; i++ {
			absFrame := vStart + int64(i)
			envLevel := c.fmEnv.Level(absFrame, c.startFrame, c.gateEndFrame)
			perturb := math.Sin(c.fmPhase) * c.fm.FM.Depth * envLevel
			buf[i] *= 1 + perturb/freqHz
			c.fmPhase += twoPi * modFreq / sampleRate
			if c.fmPhase >= twoPi {
				c.fmPhase -= twoPi
			}
		}
	}
	return buf
}

// runFiltersEnvelopeAndMix executes stages 5-8 plus the equal-power pan
// mix, given stage 4 has already written the raw signal into
// c.scratch[offset:offset+length].
func (c *core) runFiltersEnvelopeAndMix(vStart int64, offset, length int, left, right []float32) {
	for _, f := range c.preFilters {
		f.Process(c.scratch, offset, length)
	}
	if c.mainFilter != nil {
		c.mainFilter.Process(c.scratch, offset, length)
	}
	for i := 0; i < length; i++ {
		absFrame := vStart + int64(i)
		env := c.ampEnv.Level(absFrame, c.startFrame, c.gateEndFrame)
		c.scratch[offset+i] *= float32(env * c.gain * c.postGain)
	}
	for _, f := range c.postFilters {
		f.Process(c.scratch, offset, length)
	}

	angle := (c.pan + 1) / 2 * (math.Pi / 2)
	lGain := float32(math.Cos(angle))
	rGain := float32(math.Sin(angle))
	for i := 0; i < length; i++ {
		s := c.scratch[offset+i]
		left[offset+i] += s * lGain
		right[offset+i] += s * rGain
	}
}

func (c *core) OrbitID() int          { return c.orbit }
func (c *core) StartFrame() int64     { return c.startFrame }
func (c *core) EndFrame() int64       { return c.endFrame }
func (c *core) GateEndFrame() int64   { return c.gateEndFrame }
func (c *core) Retire()               { c.retired = true }
