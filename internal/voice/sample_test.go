package voice

import "testing"

func samplePCM(n int) []float32 {
	pcm := make([]float32, n)
	for i := range pcm {
		pcm[i] = float32(i%2)*2 - 1
	}
	return pcm
}

func TestSampleVoicePlaysAndRetiresAfterEndFrame(t *testing.T) {
	pcm := samplePCM(2000)
	d := Data{FreqHz: 440, Gain: 1, Envelope: Envelope{Release: 0.01}}
	v := NewSample(0, 1900, pcm, d, 48000, 256)
	var alive bool
	for frame := int64(0); frame < 48000; frame += 256 {
		left := make([]float32, 256)
		right := make([]float32, 256)
		alive = v.Render(frame, left, right, 48000)
		if !alive {
			break
		}
	}
	if alive {
		t.Fatal("expected sample voice to retire once past its endFrame")
	}
}

func TestSampleVoiceLoopsIndefinitely(t *testing.T) {
	pcm := samplePCM(400)
	d := Data{FreqHz: 440, Gain: 1, LoopBegin: 0.1, LoopEnd: 0.9, Envelope: Envelope{}}
	v := NewSample(0, 48000, pcm, d, 48000, 256)
	var alive bool
	var lastFrame int64
	for frame := int64(0); frame < 48000; frame += 256 {
		left := make([]float32, 256)
		right := make([]float32, 256)
		alive = v.Render(frame, left, right, 48000)
		lastFrame = frame
		if !alive {
			break
		}
	}
	if !alive {
		t.Fatalf("expected a looping sample voice to stay alive through frame %d (still within gate)", lastFrame)
	}
}
