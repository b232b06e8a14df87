package osc

import "testing"

func TestSupersawStaysBoundedAndNormalized(t *testing.T) {
	s := NewSupersaw(7, 0.2, 0.8)
	buf := make([]float32, 4096)
	s.Process(buf, 0, len(buf), 220, 44100, nil)
	for i, v := range buf {
		if v > 1.2 || v < -1.2 {
			t.Fatalf("sample %d out of expected range: %v", i, v)
		}
	}
}

func TestSupersawSingleVoiceMatchesPlainSaw(t *testing.T) {
	s := NewSupersaw(1, 0.2, 0.8)
	var g Gen
	g.Shape = Saw
	bufA := make([]float32, 256)
	bufB := make([]float32, 256)
	s.Process(bufA, 0, len(bufA), 220, 44100, nil)
	g.Process(bufB, 0, len(bufB), 220, 44100, nil)
	for i := range bufA {
		diff := float64(bufA[i] - bufB[i])
		if diff > 1e-6 || diff < -1e-6 {
			t.Fatalf("sample %d: supersaw(1) %v != plain saw %v", i, bufA[i], bufB[i])
		}
	}
}
