package voice

// ADSR evaluates the amplitude/modulation envelope described in the
// rendering pipeline's stage 7: linear attack 0->1, linear decay 1->sustain,
// a sustain hold, and linear release from whatever level had been reached
// at gateEnd down to 0. Expressed as a pure function of absolute frame
// distance so it is deterministic regardless of block boundaries (the
// engine's block-size-independence property).
type ADSR struct {
	AttackFrames  float64
	DecayFrames   float64
	Sustain       float64
	ReleaseFrames float64
}

// NewADSR converts second-denominated envelope params to frame-denominated
// ones at the given sample rate.
func NewADSR(e Envelope, sampleRate float64) ADSR {
	return ADSR{
		AttackFrames:  e.Attack * sampleRate,
		DecayFrames:   e.Decay * sampleRate,
		Sustain:       clamp01(e.Sustain),
		ReleaseFrames: e.Release * sampleRate,
	}
}

// curve evaluates the attack/decay/sustain portion at t frames since note
// start, ignoring gating (used both directly before gateEnd and to compute
// the release's starting level at gateEnd).
func (a ADSR) curve(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if a.AttackFrames > 0 && t < a.AttackFrames {
		return t / a.AttackFrames
	}
	t2 := t - a.AttackFrames
	if a.DecayFrames <= 0 {
		return a.Sustain
	}
	if t2 < a.DecayFrames {
		return 1 - (1-a.Sustain)*(t2/a.DecayFrames)
	}
	return a.Sustain
}

// Level returns the envelope value in [0,1] at absolute frame f, relative
// to a voice that started at startFrame and was gated off at gateEndFrame.
func (a ADSR) Level(f, startFrame, gateEndFrame int64) float64 {
	relF := float64(f - startFrame)
	gateRel := float64(gateEndFrame - startFrame)
	if relF < gateRel {
		return a.curve(relF)
	}
	levelAtGate := a.curve(gateRel)
	relRelease := relF - gateRel
	if a.ReleaseFrames <= 0 {
		if relRelease <= 0 {
			return levelAtGate
		}
		return 0
	}
	if relRelease >= a.ReleaseFrames {
		return 0
	}
	return levelAtGate * (1 - relRelease/a.ReleaseFrames)
}

// Silent reports whether the envelope has fully decayed by frame f,
// i.e. release has completed. The scheduler does not call it; voices
// retire on endFrame instead.
func (a ADSR) Silent(f, startFrame, gateEndFrame int64) bool {
	gateRel := float64(gateEndFrame - startFrame)
	relRelease := float64(f-startFrame) - gateRel
	return relRelease >= a.ReleaseFrames
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
