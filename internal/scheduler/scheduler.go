// Package scheduler implements the voice scheduler: promoting pending
// voice descriptors into active voices at the correct frame boundaries,
// driving each block's per-voice and per-orbit rendering, and retiring
// voices and orbits whose tails have decayed.
package scheduler

import (
	"time"

	"github.com/cbegin/voxrender/internal/link"
	"github.com/cbegin/voxrender/internal/orbit"
	"github.com/cbegin/voxrender/internal/voice"
)

// SampleStore resolves a sample key to decoded mono PCM. Treated strictly
// through this contract: the download/decode pipeline that produces the
// buffer lives outside the engine.
type SampleStore interface {
	Resolve(key string) ([]float32, bool)
}

// Config configures a Scheduler instance.
type Config struct {
	SampleRate int
	BlockSize  int
	MaxOrbits  int
	MaxVoices  int
}

type activeEntry struct {
	v          voice.Voice
	playbackID string
}

// Scheduler owns the voice pool, the pending set, and all active orbits.
// Every method here runs exclusively on the audio context; nothing here
// takes a lock, per the engine's concurrency model.
type Scheduler struct {
	cfg        Config
	sampleRate float64
	store      SampleStore

	commands *link.CommandQueue
	feedback *link.FeedbackQueue
	chunks   *link.ChunkReassembler

	pending     pendingSet
	active      []activeEntry
	orbits      map[int]*orbit.Bus
	orbitConfig map[int]orbit.Config

	// uploaded holds PCM delivered over the link (directly via
	// SampleComplete, or reassembled from SampleChunk pieces), keyed by the
	// same request id used as SampleKey on the ScheduleVoice that asked for
	// it. Consulted by promote before falling back to the SampleStore.
	uploaded map[string][]float32

	cursorFrame   int64
	arrivalSeq    int64
	droppedCmds   int
	lastDiagFrame int64
	stopping      bool
	stopped       bool

	masterL, masterR []float32
}

func New(cfg Config, store SampleStore, commands *link.CommandQueue, feedback *link.FeedbackQueue) *Scheduler {
	if cfg.BlockSize <= 0 {
		cfg.BlockSize = 128
	}
	if cfg.MaxOrbits <= 0 {
		cfg.MaxOrbits = 16
	}
	if cfg.MaxVoices <= 0 {
		cfg.MaxVoices = 64
	}
	return &Scheduler{
		cfg:         cfg,
		sampleRate:  float64(cfg.SampleRate),
		store:       store,
		commands:    commands,
		feedback:    feedback,
		chunks:      link.NewChunkReassembler(),
		orbits:      make(map[int]*orbit.Bus),
		orbitConfig: make(map[int]orbit.Config),
		uploaded:    make(map[string][]float32),
		masterL:     make([]float32, cfg.BlockSize),
		masterR:     make([]float32, cfg.BlockSize),
	}
}

// Process runs exactly one render block starting at blockStartFrame and
// returns the master stereo mix (valid until the next call).
func (s *Scheduler) Process(blockStartFrame int64) (left, right []float32) {
	start := time.Now()
	s.cursorFrame = blockStartFrame

	s.commands.Drain(s.applyCommand)

	blockEnd := blockStartFrame + int64(s.cfg.BlockSize)
	for _, d := range s.pending.PromoteBefore(blockEnd) {
		s.promote(d)
	}

	for i := range s.masterL {
		s.masterL[i] = 0
		s.masterR[i] = 0
	}
	for _, bus := range s.orbits {
		bus.Zero()
	}

	kept := s.active[:0]
	for _, e := range s.active {
		bus := s.orbitFor(e.v.OrbitID())
		stillAlive := e.v.Render(blockStartFrame, bus.Left, bus.Right, s.sampleRate)
		bus.MarkVoiceActive()
		if stillAlive {
			kept = append(kept, e)
		} else {
			e.v.Retire()
		}
	}
	s.active = kept

	for _, bus := range s.orbits {
		var keyL, keyR []float32
		if src, ok := bus.DuckSource(); ok {
			if other, ok := s.orbits[src]; ok {
				keyL, keyR = other.Left, other.Right
			}
		}
		bus.Process(s.masterL, s.masterR, keyL, keyR)
	}

	for id, bus := range s.orbits {
		if bus.Retireable() {
			delete(s.orbits, id)
			delete(s.orbitConfig, id)
		}
	}

	s.cursorFrame = blockEnd
	s.emitCursor()
	elapsed := time.Since(start)
	if blockStartFrame-s.lastDiagFrame >= int64(s.sampleRate*0.05) {
		s.emitDiagnostics(elapsed)
		s.lastDiagFrame = blockStartFrame
	}

	if s.stopping && len(s.active) == 0 && len(s.orbits) == 0 {
		s.stopping = false
		s.stopped = true
		s.feedback.Send(link.PlaybackStopped{})
	}

	return s.masterL, s.masterR
}

// Stop requests teardown: pending voices are cleared and active voices are
// left to complete their release; PlaybackStopped fires once every orbit
// tail has decayed.
func (s *Scheduler) Stop() {
	s.pending = pendingSet{}
	s.stopping = true
}

func (s *Scheduler) applyCommand(c link.Command) {
	switch v := c.(type) {
	case link.ScheduleVoice:
		s.schedule(v)
	case link.ReplaceVoices:
		s.pending.RemovePlaybackID(v.PlaybackID)
		s.clearActivePlayback(v.PlaybackID)
		for _, sv := range v.Voices {
			s.schedule(sv)
		}
		s.feedback.Send(link.VoicesScheduled{PlaybackID: v.PlaybackID, Count: len(v.Voices)})
	case link.ClearScheduled:
		s.pending.RemovePlaybackID(v.PlaybackID)
	case link.Cleanup:
		s.pending.RemovePlaybackID(v.PlaybackID)
		s.clearActivePlayback(v.PlaybackID)
	case link.SampleComplete:
		s.uploaded[v.Req] = v.PCM
	case link.SampleChunk:
		if pcm, done := s.chunks.Add(v); done {
			s.uploaded[v.Req] = pcm
		}
	case link.SampleNotFound:
		// Descriptor-level error: nothing pending references it by id here;
		// the SampleStore miss is reported again at promotion time.
	}
}

func (s *Scheduler) clearActivePlayback(id string) {
	kept := s.active[:0]
	for _, e := range s.active {
		if e.playbackID != id {
			kept = append(kept, e)
		}
	}
	s.active = kept
}

func (s *Scheduler) schedule(d link.ScheduleVoice) {
	if d.StartFrame > d.GateEndFrame {
		// Configuration-level error: ignored but still "active" per the
		// render-result contract (handled by never promoting it, which is
		// equivalent to an always-true, always-silent voice).
		return
	}
	s.arrivalSeq++
	s.pending.Insert(d, s.arrivalSeq)
}

func (s *Scheduler) promote(d link.ScheduleVoice) {
	if len(s.active) >= s.cfg.MaxVoices {
		s.stealQuietest()
	}
	orbitID := d.Orbit
	if orbitID < 0 || orbitID >= s.cfg.MaxOrbits {
		orbitID = 0
	}
	var v voice.Voice
	if d.IsSample {
		pcm, ok := s.uploaded[d.SampleKey]
		if !ok {
			pcm, ok = s.store.Resolve(d.SampleKey)
		}
		if !ok {
			s.feedback.Send(link.SampleRequest{PlaybackID: d.PlaybackID, Key: d.SampleKey})
			return
		}
		v = voice.NewSample(d.StartFrame, d.GateEndFrame, pcm, d.Data, s.sampleRate, s.cfg.BlockSize)
	} else {
		v = voice.NewSynth(d.StartFrame, d.GateEndFrame, d.Data, s.sampleRate, s.cfg.BlockSize)
	}
	s.orbitFor(orbitID)
	s.active = append(s.active, activeEntry{v: v, playbackID: d.PlaybackID})
}

// stealQuietest retires the voice with the least remaining life (closest
// endFrame to the current cursor) to make room, mirroring the original
// synth engines' quietest-voice-steal policy generalized to frame-based
// lifetime instead of envelope level.
func (s *Scheduler) stealQuietest() {
	if len(s.active) == 0 {
		return
	}
	victim := 0
	for i := 1; i < len(s.active); i++ {
		if s.active[i].v.EndFrame() < s.active[victim].v.EndFrame() {
			victim = i
		}
	}
	s.active[victim].v.Retire()
	s.active = append(s.active[:victim], s.active[victim+1:]...)
}

func (s *Scheduler) orbitFor(id int) *orbit.Bus {
	bus, ok := s.orbits[id]
	if !ok {
		cfg := s.orbitConfig[id]
		cfg.SampleRate = s.cfg.SampleRate
		bus = orbit.New(id, cfg, s.cfg.BlockSize)
		s.orbits[id] = bus
	}
	return bus
}

// ConfigureOrbit lets the control context pre-register an orbit's shared
// effect configuration (delay/reverb/ducking/compressor) before any voice
// routes to it, so the bus is built correctly on first use.
func (s *Scheduler) ConfigureOrbit(id int, cfg orbit.Config) {
	s.orbitConfig[id] = cfg
}

func (s *Scheduler) emitCursor() {
	s.feedback.Send(link.UpdateCursorFrame{Frame: s.cursorFrame})
}

func (s *Scheduler) emitDiagnostics(renderTime time.Duration) {
	blockDuration := time.Duration(float64(s.cfg.BlockSize) / s.sampleRate * float64(time.Second))
	headroom := 1.0
	if blockDuration > 0 {
		headroom = 1 - float64(renderTime)/float64(blockDuration)
	}
	orbits := make([]link.OrbitDiagnostic, 0, len(s.orbits))
	for id, bus := range s.orbits {
		orbits = append(orbits, link.OrbitDiagnostic{ID: id, Active: !bus.Retireable(), TailEnergy: bus.TailEnergyDB()})
	}
	s.feedback.Send(link.Diagnostics{
		ActiveVoiceCount: len(s.active),
		RenderHeadroom:   headroom,
		Orbits:           orbits,
		DroppedCommands:  s.droppedCmds,
	})
}

// ActiveVoiceCount reports the number of currently live voices.
func (s *Scheduler) ActiveVoiceCount() int { return len(s.active) }

// CursorFrame reports the engine's current frame position.
func (s *Scheduler) CursorFrame() int64 { return s.cursorFrame }

// Stopped reports whether a Stop request has fully drained (all orbits
// retired) and PlaybackStopped has been emitted.
func (s *Scheduler) Stopped() bool { return s.stopped }
