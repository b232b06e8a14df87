package voice

import (
	"testing"

	"pgregory.net/rapid"
)

// TestGatedReleaseScenario matches the rendering pipeline's gated-release
// edge case: attack=100 frames, decay=50 frames reaching sustain exactly at
// the gate, release=50 frames from whatever level the curve had reached.
func TestGatedReleaseScenario(t *testing.T) {
	a := ADSR{AttackFrames: 100, DecayFrames: 50, Sustain: 0.5, ReleaseFrames: 50}
	const start, gateEnd = int64(0), int64(150)

	cases := []struct {
		f    int64
		want float64
	}{
		{50, 0.5},
		{100, 1.0},
		{150, 0.5},
		{200, 0.0},
	}
	for _, c := range cases {
		got := a.Level(c.f, start, gateEnd)
		if diff := got - c.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("Level(%d) = %v, want %v", c.f, got, c.want)
		}
	}
}

func TestReleaseStartsAtGateEndRegardlessOfStage(t *testing.T) {
	// Gate ends mid-attack: release must begin from the partial attack
	// level reached at gateEnd, not restart or jump to the sustain level.
	a := ADSR{AttackFrames: 1000, DecayFrames: 200, Sustain: 0.3, ReleaseFrames: 100}
	const start, gateEnd = int64(0), int64(400)
	levelAtGate := a.Level(gateEnd, start, gateEnd)
	if diff := levelAtGate - 0.4; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected level at gate (mid-attack, 400/1000) = 0.4, got %v", levelAtGate)
	}
	mid := a.Level(gateEnd+50, start, gateEnd)
	want := levelAtGate * 0.5
	if diff := mid - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected release midpoint = %v, got %v", want, mid)
	}
}

func TestZeroReleaseFramesCutsImmediately(t *testing.T) {
	a := ADSR{AttackFrames: 10, DecayFrames: 10, Sustain: 0.5, ReleaseFrames: 0}
	const start, gateEnd = int64(0), int64(50)
	if got := a.Level(gateEnd, start, gateEnd); got != 0.5 {
		t.Errorf("expected level at gate itself to still hold, got %v", got)
	}
	if got := a.Level(gateEnd+1, start, gateEnd); got != 0 {
		t.Errorf("expected immediate silence one frame past gate with zero release, got %v", got)
	}
}

// TestADSRLevelDeterministicAndBounded checks the block-size-independence
// property: Level is a pure function of its three frame arguments, and
// always stays within [0,1].
func TestADSRLevelDeterministicAndBounded(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := ADSR{
			AttackFrames:  rapid.Float64Range(0, 2000).Draw(rt, "attack"),
			DecayFrames:   rapid.Float64Range(0, 2000).Draw(rt, "decay"),
			Sustain:       rapid.Float64Range(0, 1).Draw(rt, "sustain"),
			ReleaseFrames: rapid.Float64Range(0, 2000).Draw(rt, "release"),
		}
		start := rapid.Int64Range(0, 10000).Draw(rt, "start")
		gateSpan := rapid.Int64Range(0, 5000).Draw(rt, "gateSpan")
		gateEnd := start + gateSpan
		f := start + rapid.Int64Range(0, 10000).Draw(rt, "f")

		first := a.Level(f, start, gateEnd)
		second := a.Level(f, start, gateEnd)
		if first != second {
			rt.Fatalf("Level is not a pure function: %v != %v", first, second)
		}
		if first < -1e-9 || first > 1+1e-9 {
			rt.Fatalf("Level out of [0,1] bounds: %v", first)
		}
	})
}
