package voxrender

import (
	"encoding/binary"
	"math"
)

// RenderOffline drives an already-configured Engine for the given duration
// without a live audio backend, useful for deterministic regression tests
// and for rendering to a file. Commands already sent via e.Commands() are
// drained on the engine's own schedule as blocks advance.
func RenderOffline(e *Engine, seconds float64) []float32 {
	frames := int(float64(e.SampleRate()) * seconds)
	out := make([]float32, 0, frames*2)
	var cursor int64
	for len(out) < frames*2 {
		left, right := e.Process(cursor)
		for i := range left {
			out = append(out, left[i], right[i])
		}
		cursor += int64(e.BlockSize())
	}
	return out[:frames*2]
}

// EncodeWAVFloat32LE writes an interleaved float32 PCM buffer as a 44-byte
// RIFF/WAVE header followed by raw sample data.
func EncodeWAVFloat32LE(samples []float32, sampleRate int, channels int) []byte {
	dataSize := len(samples) * 4
	byteRate := sampleRate * channels * 4
	blockAlign := channels * 4
	chunkSize := 36 + dataSize
	out := make([]byte, 44+dataSize)
	copy(out[0:], []byte("RIFF"))
	binary.LittleEndian.PutUint32(out[4:], uint32(chunkSize))
	copy(out[8:], []byte("WAVE"))
	copy(out[12:], []byte("fmt "))
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], 3)
	binary.LittleEndian.PutUint16(out[22:], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:], 32)
	copy(out[36:], []byte("data"))
	binary.LittleEndian.PutUint32(out[40:], uint32(dataSize))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[44+i*4:], math.Float32bits(s))
	}
	return out
}
