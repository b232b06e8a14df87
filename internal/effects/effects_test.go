package effects

import (
	"math"
	"testing"
)

func TestDelayProducesOutput(t *testing.T) {
	d := NewDelay(44100, 100, 0.5, 0, 0.5)
	// Feed a pulse and check delayed output appears
	d.Process(1.0, 1.0)
	for i := 0; i < 4409; i++ { // ~100ms at 44100Hz
		d.Process(0, 0)
	}
	l, r := d.Process(0, 0)
	if math.Abs(float64(l)) < 0.01 || math.Abs(float64(r)) < 0.01 {
		t.Errorf("expected delayed output, got l=%f r=%f", l, r)
	}
}

func TestReverbProducesOutput(t *testing.T) {
	r := NewReverb(44100, 0.5, 0.7, 0.5)
	// Feed impulse
	r.Process(1.0, 1.0)
	// After some samples, reverb tail should be present
	var maxOut float32
	for i := 0; i < 10000; i++ {
		l, _ := r.Process(0, 0)
		if l > maxOut {
			maxOut = l
		}
	}
	if maxOut < 0.001 {
		t.Error("expected reverb tail")
	}
}

func TestChainProducesOutput(t *testing.T) {
	c := NewChain(
		NewTremolo(44100, 5, 0.5, 0, 0, "sine"),
		NewDelay(44100, 10, 0, 0, 0.5),
	)
	l, r := c.Process(0.5, 0.5)
	if l == 0 || r == 0 {
		t.Error("chain should produce output")
	}
}

func TestEQ5BandUnityGain(t *testing.T) {
	eq := NewEQ5Band(44100)
	for i := 0; i < 1000; i++ {
		eq.Process(0.5, 0.5)
	}
	l, r := eq.Process(0.5, 0.5)
	if math.Abs(float64(l)-0.5) > 0.1 || math.Abs(float64(r)-0.5) > 0.1 {
		t.Errorf("expected ~0.5 with unity gains, got l=%f r=%f", l, r)
	}
}

func TestEQ5BandSetGainAttenuates(t *testing.T) {
	eq := NewEQ5Band(44100)
	eq.SetGain(0, 0)
	var out float32
	for i := 0; i < 2000; i++ {
		out, _ = eq.Process(0.5, 0.5)
	}
	if out >= 0.5 {
		t.Errorf("expected band-0 mute to reduce a low-frequency-heavy DC input, got %f", out)
	}
}

func TestTremoloModulatesAmplitude(t *testing.T) {
	tr := NewTremolo(44100, 5, 0.8, 0, 0, "sine")
	var minOut, maxOut float32 = 1, 0
	for i := 0; i < 44100/5; i++ {
		l, _ := tr.Process(1, 1)
		if l < minOut {
			minOut = l
		}
		if l > maxOut {
			maxOut = l
		}
	}
	if maxOut-minOut < 0.2 {
		t.Errorf("expected tremolo to sweep amplitude, got range [%f,%f]", minOut, maxOut)
	}
}

func TestPhaserProducesOutput(t *testing.T) {
	ph := NewPhaser(44100, 0.5, 0.7, 0, 0)
	var nonZero bool
	for i := 0; i < 1000; i++ {
		l, _ := ph.Process(1, 1)
		if l != 0 {
			nonZero = true
		}
	}
	if !nonZero {
		t.Error("expected phaser to produce non-zero output")
	}
}

func TestDuckingAttenuatesUnderKey(t *testing.T) {
	d := NewDucking(44100, 5, 50, 0.9)
	var quiet, unducked float32
	for i := 0; i < 2000; i++ {
		quiet, _ = d.ProcessKeyed(1, 1, 1, 1)
	}
	d2 := NewDucking(44100, 5, 50, 0.9)
	for i := 0; i < 2000; i++ {
		unducked, _ = d2.ProcessKeyed(1, 1, 0, 0)
	}
	if quiet >= unducked {
		t.Errorf("expected ducked output %f to be quieter than unducked %f", quiet, unducked)
	}
}

func TestCompressorReducesLoud(t *testing.T) {
	c := NewCompressor(44100, -10, 4, 0, 1, 50, 0)
	// Feed loud signal repeatedly to let envelope settle
	var out float32
	for i := 0; i < 1000; i++ {
		out, _ = c.Process(1.0, 1.0)
	}
	if out >= 1.0 {
		t.Errorf("compressor should reduce loud signals, got %f", out)
	}
}

func TestCompressorSoftKneeSmoothsTransition(t *testing.T) {
	hard := NewCompressor(44100, -10, 4, 0, 1, 50, 0)
	soft := NewCompressor(44100, -10, 4, 12, 1, 50, 0)
	// A signal inside the knee (about 1 dB below threshold) should be
	// attenuated by the soft-knee compressor but passed untouched by the
	// hard-knee one, since hard-knee gain reduction only begins exactly at
	// the threshold.
	const probe = 0.28 // approx -11 dBFS, within the soft knee's lower half
	var hardOut, softOut float32
	for i := 0; i < 500; i++ {
		hardOut, _ = hard.Process(probe, probe)
		softOut, _ = soft.Process(probe, probe)
	}
	if hardOut != probe {
		t.Errorf("expected hard-knee compressor to pass a below-threshold signal untouched, got %f", hardOut)
	}
	if softOut >= probe {
		t.Errorf("expected soft-knee compressor to attenuate within the knee, got %f (probe %f)", softOut, probe)
	}
}
