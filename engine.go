// Package voxrender is the real-time pattern-driven audio synthesis
// engine: it accepts scheduled-voice descriptors over a bounded command
// queue, renders fixed-size stereo blocks through the voice scheduler and
// orbit bus, and reports cursor/diagnostics feedback back to the control
// context.
package voxrender

import (
	"fmt"
	"math"
	"os"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/cbegin/voxrender/internal/effects"
	"github.com/cbegin/voxrender/internal/link"
	"github.com/cbegin/voxrender/internal/orbit"
	"github.com/cbegin/voxrender/internal/scheduler"
)

// Config is the engine's construction-time configuration. Sample rate and
// block size are fixed for the engine's lifetime, per the external
// interface contract.
type Config struct {
	SampleRate         int
	BlockSize          int
	MaxOrbits          int
	MaxVoices          int
	CommandQueueDepth  int
	FeedbackQueueDepth int
}

// Option configures an Engine at construction.
type Option func(*Config)

func WithSampleRate(hz int) Option     { return func(c *Config) { c.SampleRate = hz } }
func WithBlockSize(n int) Option       { return func(c *Config) { c.BlockSize = n } }
func WithMaxOrbits(n int) Option       { return func(c *Config) { c.MaxOrbits = n } }
func WithMaxVoices(n int) Option       { return func(c *Config) { c.MaxVoices = n } }
func WithQueueDepth(n int) Option {
	return func(c *Config) { c.CommandQueueDepth = n; c.FeedbackQueueDepth = n }
}

func defaultConfig() Config {
	return Config{
		SampleRate:         44100,
		BlockSize:          128,
		MaxOrbits:          16,
		MaxVoices:          64,
		CommandQueueDepth:  256,
		FeedbackQueueDepth: 256,
	}
}

// SampleStore resolves a sample key to decoded mono PCM data; the
// download/decode pipeline producing that buffer is an external
// collaborator, referenced only through this contract.
type SampleStore interface {
	Resolve(key string) ([]float32, bool)
}

// Engine wires the scheduler, orbit configuration, communication link, and
// master output stage together into the single root entry point a host
// embeds.
type Engine struct {
	cfg      Config
	commands *link.CommandQueue
	feedback *link.FeedbackQueue
	sched    *scheduler.Scheduler
	logger   *log.Logger
	masterEQ *effects.EQ5Band

	masterGain uint64 // atomic, math.Float64bits
}

// MasterEQ exposes the engine's master 5-band equalizer so the control
// context can adjust band gains (the EQ's own gains are already
// atomic-backed, so this is safe to call while Process runs concurrently).
func (e *Engine) MasterEQ() *effects.EQ5Band { return e.masterEQ }

// New constructs an Engine. A zero or negative sample rate/block size is a
// constructor-time error returned idiomatically rather than degraded
// silently, since there is no sensible runtime default for the driver's
// callback invoker.
func New(store SampleStore, opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("voxrender: sample rate must be positive, got %d", cfg.SampleRate)
	}
	if cfg.BlockSize <= 0 {
		return nil, fmt.Errorf("voxrender: block size must be positive, got %d", cfg.BlockSize)
	}

	commands := link.NewCommandQueue(cfg.CommandQueueDepth)
	feedback := link.NewFeedbackQueue(cfg.FeedbackQueueDepth)
	sched := scheduler.New(scheduler.Config{
		SampleRate: cfg.SampleRate,
		BlockSize:  cfg.BlockSize,
		MaxOrbits:  cfg.MaxOrbits,
		MaxVoices:  cfg.MaxVoices,
	}, store, commands, feedback)

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "voxrender"})

	e := &Engine{
		cfg:      cfg,
		commands: commands,
		feedback: feedback,
		sched:    sched,
		logger:   logger,
		masterEQ: effects.NewEQ5Band(cfg.SampleRate),
	}
	atomic.StoreUint64(&e.masterGain, math.Float64bits(1))
	return e, nil
}

// SetMasterGain sets the post-mix output gain applied in Process. Safe to
// call from the control context while the audio context concurrently calls
// Process, since the gain is stored behind an atomic.
func (e *Engine) SetMasterGain(gain float64) {
	if gain < 0 {
		gain = 0
	}
	atomic.StoreUint64(&e.masterGain, math.Float64bits(gain))
}

// MasterGain returns the current post-mix output gain.
func (e *Engine) MasterGain() float64 {
	return math.Float64frombits(atomic.LoadUint64(&e.masterGain))
}

// Commands returns the control-to-audio command queue.
func (e *Engine) Commands() *link.CommandQueue { return e.commands }

// ConfigureOrbit pre-registers an orbit's shared effect configuration.
func (e *Engine) ConfigureOrbit(id int, cfg orbit.Config) { e.sched.ConfigureOrbit(id, cfg) }

// Process runs exactly one render block. This is the audio context's
// entry point: it must never block, allocate on the steady-state path, or
// perform I/O, so it does not log; call DrainFeedback from the control
// context to surface diagnostics.
func (e *Engine) Process(blockStartFrame int64) (left, right []float32) {
	left, right = e.sched.Process(blockStartFrame)
	gain := float32(e.MasterGain())
	for i := range left {
		l, r := e.masterEQ.Process(left[i], right[i])
		left[i] = l * gain
		right[i] = r * gain
	}
	return left, right
}

// Stop requests graceful teardown.
func (e *Engine) Stop() { e.sched.Stop() }

// SampleRate returns the engine's fixed sample rate.
func (e *Engine) SampleRate() int { return e.cfg.SampleRate }

// BlockSize returns the engine's fixed block length.
func (e *Engine) BlockSize() int { return e.cfg.BlockSize }

// DrainFeedback pulls every queued feedback message and logs it through
// the engine's structured logger. Intended to be called from the control
// context's own loop, never from the audio context.
func (e *Engine) DrainFeedback() {
	for {
		f, ok := e.feedback.TryRecv()
		if !ok {
			return
		}
		e.logFeedback(f)
	}
}

func (e *Engine) logFeedback(f link.Feedback) {
	switch v := f.(type) {
	case link.UpdateCursorFrame:
		// High frequency; not logged directly.
		_ = v
	case link.Diagnostics:
		if v.RenderHeadroom < 0.1 {
			e.logger.Warn("render headroom low", "headroom", v.RenderHeadroom, "voices", v.ActiveVoiceCount)
		}
		if v.DroppedCommands > 0 {
			e.logger.Warn("commands dropped", "count", v.DroppedCommands)
		}
	case link.SampleRequest:
		e.logger.Info("sample request", "playbackId", v.PlaybackID, "key", v.Key)
	case link.VoicesScheduled:
		e.logger.Debug("voices scheduled", "playbackId", v.PlaybackID, "count", v.Count)
	case link.PlaybackStopped:
		e.logger.Info("playback stopped")
	}
}

// Logger exposes the engine's structured logger so a CLI/host can redirect
// it to a different writer via logger.SetOutput.
func (e *Engine) Logger() *log.Logger { return e.logger }
