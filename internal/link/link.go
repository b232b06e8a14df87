// Package link implements the bounded, lock-free-ish single-producer/
// single-consumer communication channels between the audio context and
// the control context: commands flow in, feedback and diagnostics flow
// out. Sample payloads travel as SampleComplete or SampleChunk commands on
// the same command queue (chunks are rejoined by ChunkReassembler), so they
// share that queue's capacity with control messages.
package link

import "github.com/cbegin/voxrender/internal/voice"

// Command is the control-to-audio message set. A concrete type switch on
// the audio side dispatches each one; this mirrors the teacher engine's
// own event-kind dispatch but keeps the payload as a real Go type instead
// of a kind+union-of-fields struct, which needs no "unused field" bookkeeping
// per message kind.
type Command interface{ isCommand() }

type ScheduleVoice struct {
	PlaybackID   string
	StartFrame   int64
	GateEndFrame int64
	Orbit        int
	IsSample     bool
	SampleKey    string // bank/sound key to resolve via SampleStore
	Data         voice.Data
}

type ReplaceVoices struct {
	PlaybackID string
	Voices     []ScheduleVoice
}

type ClearScheduled struct{ PlaybackID string }

type Cleanup struct{ PlaybackID string }

// SampleChunk carries one reassembly chunk of a decoded PCM sample, split
// by the front-end into <=32KiB pieces.
type SampleChunk struct {
	Req         string
	Meta        SampleMeta
	TotalSize   int
	ChunkOffset int
	IsLastChunk bool
	Data        []float32
}

type SampleComplete struct {
	Req  string
	Meta SampleMeta
	PCM  []float32
}

type SampleNotFound struct {
	Req string
}

type SampleMeta struct {
	SampleRate int
	Anchor     float64
	ADSR       voice.Envelope
}

func (ScheduleVoice) isCommand()  {}
func (ReplaceVoices) isCommand()  {}
func (ClearScheduled) isCommand() {}
func (Cleanup) isCommand()        {}
func (SampleChunk) isCommand()    {}
func (SampleComplete) isCommand() {}
func (SampleNotFound) isCommand() {}

// Feedback is the audio-to-control message set.
type Feedback interface{ isFeedback() }

type UpdateCursorFrame struct{ Frame int64 }

type OrbitDiagnostic struct {
	ID         int
	Active     bool
	TailEnergy float64
}

type Diagnostics struct {
	ActiveVoiceCount int
	RenderHeadroom   float64
	Orbits           []OrbitDiagnostic
	DroppedCommands  int
}

type VoicesScheduled struct {
	PlaybackID string
	Count      int
}

type PreloadingSamples struct{ Keys []string }
type SamplesPreloaded struct{ Keys []string }
type PlaybackStopped struct{}

type SampleRequest struct {
	PlaybackID string
	Key        string
}

func (UpdateCursorFrame) isFeedback()   {}
func (Diagnostics) isFeedback()         {}
func (VoicesScheduled) isFeedback()     {}
func (PreloadingSamples) isFeedback()   {}
func (SamplesPreloaded) isFeedback()    {}
func (PlaybackStopped) isFeedback()     {}
func (SampleRequest) isFeedback()       {}
